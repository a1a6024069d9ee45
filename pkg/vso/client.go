// Package vso implements a client for the Virtual Solar Observatory, a
// federated index of solar physics data. A query is an attribute expression
// built with the attrs package; the client lowers it to request blocks,
// fans the blocks out to the service, and normalizes the provider groups
// into a flat, chronologically sorted table.
package vso

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Physolia/sunpy/pkg/attrs"
	"github.com/Physolia/sunpy/pkg/download"
	"github.com/Physolia/sunpy/pkg/errors"
	"github.com/Physolia/sunpy/pkg/logging"
)

const defaultProbeTimeout = 10 * time.Second

// supportedKinds are the attribute kinds the VSO wire format can express.
var supportedKinds = map[attrs.Kind]bool{
	attrs.KindTime:       true,
	attrs.KindInstrument: true,
	attrs.KindSource:     true,
	attrs.KindProvider:   true,
	attrs.KindDetector:   true,
	attrs.KindPhysobs:    true,
	attrs.KindLevel:      true,
	attrs.KindSample:     true,
	attrs.KindWavelength: true,
}

// Client is a VSO search and retrieval client bound to one live mirror.
type Client struct {
	mirror     Mirror
	soap       *soapClient
	walker     *attrs.Walker
	downloader download.Downloader
	log        *zerolog.Logger
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	mirrors    []Mirror
	httpClient *http.Client
	downloader download.Downloader
	timeout    time.Duration
	logger     *zerolog.Logger
}

// WithMirrors replaces the default mirror candidates.
func WithMirrors(mirrors ...Mirror) Option {
	return func(c *clientConfig) {
		c.mirrors = mirrors
	}
}

// WithHTTPClient sets the HTTP client used for probing and queries.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithDownloader sets the downloader Fetch hands retrieval URLs to.
func WithDownloader(d download.Downloader) Option {
	return func(c *clientConfig) {
		c.downloader = d
	}
}

// WithTimeout bounds the mirror probe during construction.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// NewClient probes the configured mirrors in order and binds the client to
// the first live one. When no mirror responds it returns an error matching
// errors.ErrNoMirror; there is no degraded offline mode.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		mirrors: DefaultMirrors,
		timeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{}
	}
	if cfg.logger == nil {
		cfg.logger = logging.Default()
	}
	if cfg.downloader == nil {
		cfg.downloader = download.NewHTTPDownloader()
	}

	probeCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()
	probeCtx = logging.WithLogger(probeCtx, cfg.logger)

	mirror, ok := onlineMirror(probeCtx, cfg.httpClient, cfg.mirrors)
	if !ok {
		urls := make([]string, len(cfg.mirrors))
		for i, m := range cfg.mirrors {
			urls[i] = m.URL
		}
		return nil, errors.NewConnectionError("VSO", urls, probeCtx.Err())
	}

	logger := cfg.logger.With().Str("mirror", mirror.URL).Str("port", mirror.Port).Logger()
	logger.Debug().Msg("VSO client bound to mirror")

	return &Client{
		mirror:     mirror,
		soap:       &soapClient{http: cfg.httpClient, endpoint: mirror.URL},
		walker:     newWalker(),
		downloader: cfg.downloader,
		log:        &logger,
	}, nil
}

// BuildClient constructs a client against an explicit endpoint. URL and port
// must be given together; with neither set it behaves like NewClient.
func BuildClient(ctx context.Context, url, port string, opts ...Option) (*Client, error) {
	if (url == "") != (port == "") {
		return nil, errors.NewValidationError("mirror", url, "url and port must be given together")
	}
	if url != "" {
		opts = append(opts, WithMirrors(Mirror{URL: url, Port: port}))
	}
	return NewClient(ctx, opts...)
}

// Mirror returns the mirror the client is bound to.
func (c *Client) Mirror() Mirror {
	return c.mirror
}

// Search evaluates a query, conjoining the given attributes, and returns the
// matching records as a sorted table. Conflicting attributes of the same
// exclusive kind surface as a CollisionError before any network traffic.
func (c *Client) Search(ctx context.Context, query ...attrs.Attr) (*Table, error) {
	resp, err := c.searchRaw(ctx, query...)
	if err != nil {
		return nil, err
	}
	return BuildTable(resp)
}

// SearchLegacy evaluates a query and returns the legacy record-list shape
// instead of a table.
func (c *Client) SearchLegacy(ctx context.Context, query ...attrs.Attr) (*LegacyResponse, error) {
	resp, err := c.searchRaw(ctx, query...)
	if err != nil {
		return nil, err
	}
	return NewLegacyResponse(resp)
}

func (c *Client) searchRaw(ctx context.Context, query ...attrs.Attr) (*QueryResponse, error) {
	expr, err := attrs.And(query...)
	if err != nil {
		return nil, err
	}
	blocks, err := c.walker.Create(expr, nil)
	if err != nil {
		return nil, err
	}

	merged := &QueryResponse{}
	for _, block := range blocks {
		resp, err := c.soap.query(ctx, block)
		if err != nil {
			return nil, err
		}
		merged.ProviderItems = append(merged.ProviderItems, resp.ProviderItems...)
	}

	records := 0
	for range IterRecords(merged) {
		records++
	}
	c.log.Debug().
		Int("blocks", len(blocks)).
		Int("providers", len(merged.ProviderItems)).
		Int("records", records).
		Msg("Search complete")
	for provErr := range IterErrors(merged) {
		c.log.Warn().
			Str("provider", provErr.Provider).
			Str("error", provErr.Message).
			Msg("Provider reported an error")
	}
	return merged, nil
}

// CanHandleQuery reports whether the VSO can answer the query: every
// attribute kind in it must be expressible on the wire, and at least one
// time range must be present.
func CanHandleQuery(query ...attrs.Attr) bool {
	hasTime := false
	for _, a := range query {
		for _, kind := range leafKinds(a) {
			if !supportedKinds[kind] {
				return false
			}
			if kind == attrs.KindTime {
				hasTime = true
			}
		}
	}
	return hasTime
}

// CanHandleQuery reports whether this client can answer the query.
func (c *Client) CanHandleQuery(query ...attrs.Attr) bool {
	return CanHandleQuery(query...)
}

func leafKinds(a attrs.Attr) []attrs.Kind {
	switch a := a.(type) {
	case attrs.AttrAnd:
		var kinds []attrs.Kind
		for _, member := range a.Attrs {
			kinds = append(kinds, leafKinds(member)...)
		}
		return kinds
	case attrs.AttrOr:
		var kinds []attrs.Kind
		for _, member := range a.Attrs {
			kinds = append(kinds, leafKinds(member)...)
		}
		return kinds
	default:
		return []attrs.Kind{a.Kind()}
	}
}

// DataRequest asks the service for retrieval URLs covering a set of fileids.
type DataRequest struct {
	ID    string
	Items []DataRequestItem
}

// DataRequestItem groups fileids that share a provider and series.
type DataRequestItem struct {
	Provider string
	Series   string
	FileIDs  []string
}

// MakeGetDataRequest groups records by provider and series, preserving the
// order groups first appear, and wraps them in a request with a fresh id.
func MakeGetDataRequest(records []Record) *DataRequest {
	req := &DataRequest{ID: uuid.NewString()}
	index := map[string]int{}
	for _, record := range records {
		key := record.Provider + "\x00" + record.Series()
		i, ok := index[key]
		if !ok {
			i = len(req.Items)
			index[key] = i
			req.Items = append(req.Items, DataRequestItem{
				Provider: record.Provider,
				Series:   record.Series(),
			})
		}
		req.Items[i].FileIDs = append(req.Items[i].FileIDs, record.FileID)
	}
	return req
}

// FetchOption configures a Fetch call.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	path string
	wait bool
}

// WithPath sets the destination pattern for downloaded files. A pattern
// without a {file} placeholder gets one appended.
func WithPath(path string) FetchOption {
	return func(c *fetchConfig) {
		c.path = path
	}
}

// WithWait controls whether Fetch blocks until the downloads finish. When
// false it returns a live handle immediately.
func WithWait(wait bool) FetchOption {
	return func(c *fetchConfig) {
		c.wait = wait
	}
}

// Fetch retrieves the files behind the given records. With no records it
// returns an already-completed empty result without touching the network.
func (c *Client) Fetch(ctx context.Context, records []Record, opts ...FetchOption) (*download.Results, error) {
	cfg := &fetchConfig{
		path: download.FileToken,
		wait: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(records) == 0 {
		c.log.Debug().Msg("Fetch called with no records")
		return download.EmptyResults(), nil
	}

	req := MakeGetDataRequest(records)
	resp, err := c.soap.getData(ctx, req)
	if err != nil {
		return nil, err
	}

	pattern := download.NormalizePattern(cfg.path)
	var requests []download.Request
	for _, item := range resp.Items {
		if item.URL == "" {
			continue
		}
		requests = append(requests, download.Request{URL: item.URL, Path: pattern})
	}
	c.log.Debug().
		Str("request_id", req.ID).
		Int("records", len(records)).
		Int("urls", len(requests)).
		Msg("Data request resolved")

	if cfg.wait {
		return c.downloader.Download(ctx, requests)
	}
	return c.downloader.Enqueue(ctx, requests)
}
