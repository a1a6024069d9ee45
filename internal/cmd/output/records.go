package output

import (
	"os"

	"github.com/Physolia/sunpy/internal/cmd/globals"
	"github.com/Physolia/sunpy/pkg/soltime"
	"github.com/Physolia/sunpy/pkg/vso"
)

// recordJSON is the structured encoding of one result row.
type recordJSON struct {
	FileID     string  `json:"fileid"`
	Source     string  `json:"source"`
	Instrument string  `json:"instrument"`
	Provider   string  `json:"provider"`
	Physobs    string  `json:"physobs,omitempty"`
	StartTime  string  `json:"start_time,omitempty"`
	EndTime    string  `json:"end_time,omitempty"`
	Size       float64 `json:"size"`
}

// TableToData shapes a result table for the table formatter, keeping only
// the columns the table itself kept.
func TableToData(t *vso.Table) Data {
	data := Data{Headers: t.Columns()}
	columns := make([][]string, len(data.Headers))
	for i, name := range data.Headers {
		columns[i] = t.Column(name)
	}
	for i := 0; i < t.Len(); i++ {
		row := make([]string, len(columns))
		for j := range columns {
			row[j] = columns[j][i]
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// WriteTable writes a result table to stdout in the selected format.
func WriteTable(t *vso.Table, flags *globals.Flags) error {
	format := DetectFormat(flags.Output)
	formatter := NewFormatter(format)
	if format == FormatTable {
		return formatter.Format(os.Stdout, TableToData(t))
	}
	records := make([]recordJSON, 0, t.Len())
	for _, rec := range t.Records() {
		rj := recordJSON{
			FileID:     rec.FileID,
			Source:     rec.Source,
			Instrument: rec.Instrument,
			Provider:   rec.Provider,
			Physobs:    rec.Physobs,
			Size:       rec.Size,
		}
		if rec.StartTime != nil {
			rj.StartTime = rec.StartTime.UTC().Format(soltime.DisplayFormat)
		}
		if rec.EndTime != nil {
			rj.EndTime = rec.EndTime.UTC().Format(soltime.DisplayFormat)
		}
		records = append(records, rj)
	}
	return formatter.Format(os.Stdout, records)
}

// MirrorStatus is one probed mirror for the mirrors command.
type MirrorStatus struct {
	URL    string `json:"url"`
	Port   string `json:"port"`
	Status string `json:"status"`
}

// FormatMirrors writes the mirror list to stdout in the selected format.
func FormatMirrors(mirrors []MirrorStatus, flags *globals.Flags) error {
	formatter := NewFormatter(DetectFormat(flags.Output))
	return formatter.Format(os.Stdout, mirrors)
}
