package vso

import (
	"iter"
	"sort"
	"time"
)

// IterRecords yields every record across all provider groups, in group
// order then record order. The sequence recomputes on every range, so it is
// restartable.
func IterRecords(resp *QueryResponse) iter.Seq[*RawRecord] {
	return func(yield func(*RawRecord) bool) {
		for i := range resp.ProviderItems {
			item := &resp.ProviderItems[i]
			if item.Records == nil {
				continue
			}
			for j := range item.Records.Items {
				if !yield(&item.Records.Items[j]) {
					return
				}
			}
		}
	}
}

// ProviderError is a per-group error reported inside an otherwise valid
// response.
type ProviderError struct {
	Provider string
	Message  string
}

// IterErrors yields every per-group error across provider groups, in group
// order.
func IterErrors(resp *QueryResponse) iter.Seq[ProviderError] {
	return func(yield func(ProviderError) bool) {
		for i := range resp.ProviderItems {
			item := &resp.ProviderItems[i]
			if item.Error == "" {
				continue
			}
			if !yield(ProviderError{Provider: item.Provider, Message: item.Error}) {
				return
			}
		}
	}
}

// SortRecords flattens a raw response and orders it: records with a usable
// start time first, ascending; records without one after, those that still
// carry an end time before those that carry neither. The sort is stable, so
// records that tie keep their provider order.
func SortRecords(resp *QueryResponse) []*RawRecord {
	type keyed struct {
		rec        *RawRecord
		start, end *time.Time
	}
	var records []keyed
	for rec := range IterRecords(resp) {
		k := keyed{rec: rec}
		if rec.Time != nil {
			k.start = parseRecordTime(rec.Time.Start)
			k.end = parseRecordTime(rec.Time.End)
		}
		records = append(records, k)
	}

	sort.SliceStable(records, func(i, j int) bool {
		si, sj := records[i].start, records[j].start
		switch {
		case si != nil && sj != nil:
			return si.Before(*sj)
		case si != nil:
			return true
		case sj != nil:
			return false
		default:
			// Null-start bucket: an end time still orders a record ahead.
			return records[i].end != nil && records[j].end == nil
		}
	})

	out := make([]*RawRecord, len(records))
	for i, k := range records {
		out[i] = k.rec
	}
	return out
}
