// Package sunpy is the root facade for solar physics data access: one-call
// search and retrieval against the Virtual Solar Observatory. Queries are
// expressed with the attrs package; results come back as sorted tables from
// the vso package. Callers that need mirror control, custom downloaders, or
// non-blocking fetches should use pkg/vso directly.
package sunpy

import (
	"context"

	"github.com/Physolia/sunpy/pkg/attrs"
	"github.com/Physolia/sunpy/pkg/download"
	"github.com/Physolia/sunpy/pkg/vso"
)

// Convenience aliases so simple callers only import this package.
type (
	// Client is a VSO client bound to one live mirror.
	Client = vso.Client
	// Table is a normalized, sorted query result.
	Table = vso.Table
	// Record is one normalized result entry.
	Record = vso.Record
	// Option configures a Client.
	Option = vso.Option
)

// NewClient probes the VSO mirrors and returns a client bound to the first
// live one.
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	return vso.NewClient(ctx, opts...)
}

// Search runs a one-shot query against the VSO: it builds a client against
// the default mirrors, conjoins the given attributes, and returns the
// matching records as a sorted table.
func Search(ctx context.Context, query ...attrs.Attr) (*Table, error) {
	client, err := vso.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return client.Search(ctx, query...)
}

// Fetch runs a one-shot query and downloads every matching file, blocking
// until the batch completes. Downloaded paths and per-file failures are on
// the returned Results.
func Fetch(ctx context.Context, query []attrs.Attr, opts ...vso.FetchOption) (*download.Results, error) {
	client, err := vso.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	table, err := client.Search(ctx, query...)
	if err != nil {
		return nil, err
	}
	return client.Fetch(ctx, table.Records(), opts...)
}
