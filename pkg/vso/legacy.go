package vso

// LegacyResponse is the ungrouped response format kept for callers that
// predate the table projection: the sorted records plus any per-provider
// errors, with no column handling.
type LegacyResponse struct {
	Records []Record
	Errors  []ProviderError
}

// NewLegacyResponse normalizes a raw response without projecting columns.
// Record ordering follows the same policy as the table.
func NewLegacyResponse(resp *QueryResponse) (*LegacyResponse, error) {
	sorted := SortRecords(resp)
	out := &LegacyResponse{}
	for _, raw := range sorted {
		rec, err := NewRecord(raw)
		if err != nil {
			return nil, err
		}
		out.Records = append(out.Records, rec)
	}
	for perr := range IterErrors(resp) {
		out.Errors = append(out.Errors, perr)
	}
	return out, nil
}

// Len returns the number of records.
func (r *LegacyResponse) Len() int {
	return len(r.Records)
}
