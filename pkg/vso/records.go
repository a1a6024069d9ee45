// Package vso implements a client for the Virtual Solar Observatory: it
// lowers attribute expressions into VSO request blocks, submits them to a
// live mirror, normalizes the grouped response into a sorted table, and
// retrieves the selected files through a pluggable downloader.
package vso

import (
	"time"

	"github.com/Physolia/sunpy/pkg/errors"
	"github.com/Physolia/sunpy/pkg/soltime"
)

// QueryResponse is the raw provider response: zero or more provider groups,
// each holding either a record list or a per-group error.
type QueryResponse struct {
	ProviderItems []ProviderItem `xml:"provideritem"`
}

// ProviderItem is one provider group inside a raw response.
type ProviderItem struct {
	Provider string      `xml:"provider"`
	Records  *RecordList `xml:"record"`
	Error    string      `xml:"error"`
}

// RecordList wraps the record items of a provider group.
type RecordList struct {
	Items []RawRecord `xml:"recorditem"`
}

// RawRecord is one result entry exactly as the provider reported it.
// All fields are text or optional; normalization happens in NewRecord.
type RawRecord struct {
	Size       float64    `xml:"size"`
	Time       *RawTime   `xml:"time"`
	Source     string     `xml:"source"`
	Instrument string     `xml:"instrument"`
	Physobs    string     `xml:"physobs"`
	Provider   string     `xml:"provider"`
	Wave       *RawWave   `xml:"wave"`
	Extent     *RawExtent `xml:"extent"`
	FileID     string     `xml:"fileid"`
	FileURL    string     `xml:"fileurl"`
}

// RawTime is the observation window of a raw record. Either bound may be
// absent.
type RawTime struct {
	Start string `xml:"start"`
	End   string `xml:"end"`
}

// RawWave is the spectral band of a raw record.
type RawWave struct {
	WaveMin  *float64 `xml:"wavemin"`
	WaveMax  *float64 `xml:"wavemax"`
	WaveUnit string   `xml:"waveunit"`
}

// RawExtent is the spatial extent of a raw record. Only Type survives into
// the normalized table.
type RawExtent struct {
	X      string `xml:"x"`
	Y      string `xml:"y"`
	Width  string `xml:"width"`
	Length string `xml:"length"`
	Type   string `xml:"type"`
}

// Record is a normalized result entry. Identity fields are always present;
// everything else is optional and nil/empty when the provider omitted it.
type Record struct {
	FileID     string
	Source     string
	Instrument string
	Provider   string
	Physobs    string
	StartTime  *time.Time
	EndTime    *time.Time
	Size       float64
	WaveMin    *float64
	WaveMax    *float64
	ExtentType string
	FileURL    string
}

// NewRecord normalizes a raw record. A record without its identity fields
// (fileid, source, instrument, provider) cannot be deduplicated or fetched,
// so their absence is a hard error; all other fields degrade to null.
func NewRecord(raw *RawRecord) (Record, error) {
	switch {
	case raw.FileID == "":
		return Record{}, errors.NewRecordError("fileid", "")
	case raw.Source == "":
		return Record{}, errors.NewRecordError("source", raw.FileID)
	case raw.Instrument == "":
		return Record{}, errors.NewRecordError("instrument", raw.FileID)
	case raw.Provider == "":
		return Record{}, errors.NewRecordError("provider", raw.FileID)
	}

	rec := Record{
		FileID:     raw.FileID,
		Source:     raw.Source,
		Instrument: raw.Instrument,
		Provider:   raw.Provider,
		Physobs:    raw.Physobs,
		Size:       raw.Size,
		FileURL:    raw.FileURL,
	}
	if raw.Time != nil {
		rec.StartTime = parseRecordTime(raw.Time.Start)
		rec.EndTime = parseRecordTime(raw.Time.End)
	}
	if raw.Wave != nil {
		rec.WaveMin = raw.Wave.WaveMin
		rec.WaveMax = raw.Wave.WaveMax
	}
	if raw.Extent != nil {
		rec.ExtentType = raw.Extent.Type
	}
	return rec, nil
}

// parseRecordTime parses an optional provider timestamp; anything
// unparseable degrades to null rather than failing the record.
func parseRecordTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := soltime.Parse(value)
	if err != nil {
		return nil
	}
	return &t
}

// Series returns the data series prefix of a fileid, the part before the
// first colon. GetData requests group fileids by provider and series.
func (r Record) Series() string {
	for i := 0; i < len(r.FileID); i++ {
		if r.FileID[i] == ':' {
			return r.FileID[:i]
		}
	}
	return r.FileID
}
