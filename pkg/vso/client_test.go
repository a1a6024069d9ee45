package vso

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Physolia/sunpy/pkg/attrs"
	"github.com/Physolia/sunpy/pkg/download"
	"github.com/Physolia/sunpy/pkg/errors"
)

const queryResponseXML = `<?xml version="1.0" encoding="UTF-8"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
<SOAP-ENV:Body>
<QueryResponse>
<provideritem>
<provider>SDAC</provider>
<record>
<recorditem>
<fileid>eit:195:2020</fileid>
<source>SOHO</source>
<instrument>EIT</instrument>
<provider>SDAC</provider>
<physobs>intensity</physobs>
<size>2048</size>
<time><start>20200101001000</start><end>20200101001400</end></time>
</recorditem>
<recorditem>
<fileid>eit:171:2020</fileid>
<source>SOHO</source>
<instrument>EIT</instrument>
<provider>SDAC</provider>
<physobs>intensity</physobs>
<size>2048</size>
<time><start>20200101000000</start><end>20200101000400</end></time>
</recorditem>
</record>
</provideritem>
</QueryResponse>
</SOAP-ENV:Body>
</SOAP-ENV:Envelope>`

const getDataResponseXML = `<?xml version="1.0" encoding="UTF-8"?>
<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/">
<SOAP-ENV:Body>
<VSOGetDataResponse>
<getdataitem>
<dataitem>
<provider>SDAC</provider>
<url>%s</url>
<fileiditem><fileid>eit:171:2020</fileid><fileid>eit:195:2020</fileid></fileiditem>
</dataitem>
</getdataitem>
</VSOGetDataResponse>
</SOAP-ENV:Body>
</SOAP-ENV:Envelope>`

// mockVSO serves the probe, query and data-request endpoints and captures
// every POST body for inspection.
type mockVSO struct {
	server      *httptest.Server
	dataURL     string
	queryBodies []string
	dataBodies  []string
}

func newMockVSO(t *testing.T) *mockVSO {
	t.Helper()
	m := &mockVSO{}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.WriteHeader(http.StatusOK)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(r.Header.Get("SOAPAction"), "GetData") {
			m.dataBodies = append(m.dataBodies, string(body))
			fmt.Fprintf(w, getDataResponseXML, m.dataURL)
			return
		}
		m.queryBodies = append(m.queryBodies, string(body))
		io.WriteString(w, queryResponseXML)
	}))
	t.Cleanup(m.server.Close)
	return m
}

func (m *mockVSO) newClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithMirrors(Mirror{URL: m.server.URL, Port: "testVSOi"}),
		WithHTTPClient(m.server.Client()),
	}, opts...)
	client, err := NewClient(context.Background(), opts...)
	require.NoError(t, err)
	return client
}

// stubDownloader records what the client hands it without doing any IO.
type stubDownloader struct {
	downloads [][]download.Request
	enqueues  [][]download.Request
}

func (s *stubDownloader) Download(_ context.Context, requests []download.Request) (*download.Results, error) {
	s.downloads = append(s.downloads, requests)
	return download.EmptyResults(), nil
}

func (s *stubDownloader) Enqueue(_ context.Context, requests []download.Request) (*download.Results, error) {
	s.enqueues = append(s.enqueues, requests)
	return download.EmptyResults(), nil
}

func TestNewClientNoMirror(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewClient(context.Background(),
		WithMirrors(Mirror{URL: server.URL, Port: "deadVSOi"}),
		WithTimeout(2*time.Second),
	)
	require.Error(t, err)
	assert.True(t, errors.IsNoMirror(err))

	var connErr *errors.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, []string{server.URL}, connErr.Mirrors)
}

func TestNewClientFallsBackToSecondMirror(t *testing.T) {
	m := newMockVSO(t)
	client, err := NewClient(context.Background(),
		WithMirrors(
			Mirror{URL: "http://127.0.0.1:1/dead", Port: "deadVSOi"},
			Mirror{URL: m.server.URL, Port: "testVSOi"},
		),
	)
	require.NoError(t, err)
	assert.Equal(t, "testVSOi", client.Mirror().Port)
}

func TestBuildClientRequiresBothURLAndPort(t *testing.T) {
	_, err := BuildClient(context.Background(), "http://127.0.0.1:1/only-url", "")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestSearch(t *testing.T) {
	m := newMockVSO(t)
	client := m.newClient(t)

	table, err := client.Search(context.Background(),
		attrs.MustTime("2020-01-01", "2020-01-02"),
		attrs.Instrument("EIT"),
	)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "eit:171:2020", table.Row(0).FileID)
	assert.Equal(t, "eit:195:2020", table.Row(1).FileID)

	require.Len(t, m.queryBodies, 1)
	body := m.queryBodies[0]
	assert.Contains(t, body, "<instrument>EIT</instrument>")
	assert.Contains(t, body, "<time><end>20200102000000</end><start>20200101000000</start></time>")
}

func TestSearchDisjunctionFansOut(t *testing.T) {
	m := newMockVSO(t)
	client := m.newClient(t)

	query := attrs.Or(attrs.Instrument("EIT"), attrs.Instrument("LASCO"))
	table, err := client.Search(context.Background(),
		attrs.MustTime("2020-01-01", "2020-01-02"), query,
	)
	require.NoError(t, err)
	// One request block per alternative, results merged.
	require.Len(t, m.queryBodies, 2)
	assert.Contains(t, m.queryBodies[0], "<instrument>EIT</instrument>")
	assert.Contains(t, m.queryBodies[1], "<instrument>LASCO</instrument>")
	assert.Equal(t, 4, table.Len())
}

func TestSearchCollisionShortCircuits(t *testing.T) {
	m := newMockVSO(t)
	client := m.newClient(t)

	_, err := client.Search(context.Background(),
		attrs.MustTime("2020-01-01", "2020-01-02"),
		attrs.Instrument("EIT"),
		attrs.Instrument("LASCO"),
	)
	var collision *errors.CollisionError
	require.ErrorAs(t, err, &collision)
	// The collision is detected before any request leaves the client.
	assert.Empty(t, m.queryBodies)
}

func TestSearchLegacy(t *testing.T) {
	m := newMockVSO(t)
	client := m.newClient(t)

	resp, err := client.SearchLegacy(context.Background(),
		attrs.MustTime("2020-01-01", "2020-01-02"),
	)
	require.NoError(t, err)
	require.Equal(t, 2, resp.Len())
	assert.Equal(t, "eit:171:2020", resp.Records[0].FileID)
}

func TestCanHandleQuery(t *testing.T) {
	timeAttr := attrs.MustTime("2020-01-01", "2020-01-02")

	assert.True(t, CanHandleQuery(timeAttr))
	assert.True(t, CanHandleQuery(timeAttr, attrs.Provider("SDAC")))
	assert.True(t, CanHandleQuery(timeAttr, attrs.Instrument("EIT"),
		attrs.MustWavelength(171, 175, attrs.Angstrom)))

	// A time range is required.
	assert.False(t, CanHandleQuery())
	assert.False(t, CanHandleQuery(attrs.Physobs("intensity")))

	// Any unsupported attribute kind disqualifies the whole query.
	assert.False(t, CanHandleQuery(timeAttr, attrs.Dummy{}))
}

func TestMakeGetDataRequest(t *testing.T) {
	records := []Record{
		{Provider: "SDAC", FileID: "eit:171:a"},
		{Provider: "SDAC", FileID: "eit:171:b"},
		{Provider: "NSO", FileID: "gong:x"},
		{Provider: "SDAC", FileID: "lasco:c2:a"},
		{Provider: "SDAC", FileID: "eit:171:c"},
	}
	req := MakeGetDataRequest(records)
	assert.NotEmpty(t, req.ID)
	require.Len(t, req.Items, 3)

	assert.Equal(t, "SDAC", req.Items[0].Provider)
	assert.Equal(t, "eit", req.Items[0].Series)
	assert.Equal(t, []string{"eit:171:a", "eit:171:b", "eit:171:c"}, req.Items[0].FileIDs)

	assert.Equal(t, "NSO", req.Items[1].Provider)
	assert.Equal(t, []string{"gong:x"}, req.Items[1].FileIDs)

	assert.Equal(t, "lasco", req.Items[2].Series)
}

func TestFetchNoRecords(t *testing.T) {
	m := newMockVSO(t)
	stub := &stubDownloader{}
	client := m.newClient(t, WithDownloader(stub))

	results, err := client.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, results.Len())
	assert.Empty(t, results.Files())

	// No data request and no download may happen.
	assert.Empty(t, m.dataBodies)
	assert.Empty(t, stub.downloads)
	assert.Empty(t, stub.enqueues)
}

func TestFetch(t *testing.T) {
	m := newMockVSO(t)
	m.dataURL = "http://archive.example.com/eit_20200101.fits"
	stub := &stubDownloader{}
	client := m.newClient(t, WithDownloader(stub))

	records := []Record{
		{Provider: "SDAC", Source: "SOHO", Instrument: "EIT", FileID: "eit:171:2020"},
		{Provider: "SDAC", Source: "SOHO", Instrument: "EIT", FileID: "eit:195:2020"},
	}
	_, err := client.Fetch(context.Background(), records, WithPath("/data"))
	require.NoError(t, err)

	require.Len(t, m.dataBodies, 1)
	body := m.dataBodies[0]
	assert.Contains(t, body, "<provider>SDAC</provider>")
	assert.Contains(t, body, "<fileid>eit:171:2020</fileid>")
	assert.Contains(t, body, "<methodtype>URL-FILE</methodtype>")

	require.Len(t, stub.downloads, 1)
	require.Len(t, stub.downloads[0], 1)
	assert.Equal(t, m.dataURL, stub.downloads[0][0].URL)
	assert.Equal(t, "/data/{file}", stub.downloads[0][0].Path)
	assert.Empty(t, stub.enqueues)
}

func TestFetchNoWait(t *testing.T) {
	m := newMockVSO(t)
	m.dataURL = "http://archive.example.com/eit_20200101.fits"
	stub := &stubDownloader{}
	client := m.newClient(t, WithDownloader(stub))

	records := []Record{{Provider: "SDAC", Source: "SOHO", Instrument: "EIT", FileID: "eit:171:2020"}}
	_, err := client.Fetch(context.Background(), records, WithWait(false))
	require.NoError(t, err)
	assert.Empty(t, stub.downloads)
	require.Len(t, stub.enqueues, 1)
	assert.Equal(t, download.FileToken, stub.enqueues[0][0].Path)
}

func TestFetchSkipsEmptyURLs(t *testing.T) {
	m := newMockVSO(t)
	m.dataURL = ""
	stub := &stubDownloader{}
	client := m.newClient(t, WithDownloader(stub))

	records := []Record{{Provider: "SDAC", Source: "SOHO", Instrument: "EIT", FileID: "eit:171:2020"}}
	_, err := client.Fetch(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, stub.downloads, 1)
	assert.Empty(t, stub.downloads[0])
}
