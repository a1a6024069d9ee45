package vso

import (
	"fmt"
	"strconv"

	"github.com/Physolia/sunpy/pkg/soltime"
)

// Column names of the result table, in display order.
const (
	ColStartTime  = "Start Time"
	ColEndTime    = "End Time"
	ColSource     = "Source"
	ColInstrument = "Instrument"
	ColPhysobs    = "Physobs"
	ColWavelength = "Wavelength"
	ColProvider   = "Provider"
	ColExtentType = "Extent Type"
	ColSize       = "Size"
)

var columnOrder = []string{
	ColStartTime, ColEndTime, ColSource, ColInstrument, ColPhysobs,
	ColWavelength, ColProvider, ColExtentType, ColSize,
}

// Table is the normalized, sorted projection of a query response. A column
// appears only when at least one record carries a value for it; a column
// that would be null for every record is dropped entirely.
type Table struct {
	columns []string
	records []Record
}

// BuildTable sorts and flattens a raw response and projects it into a
// Table. An extent contributes only its type. Records missing a required
// identity field fail the whole build.
func BuildTable(resp *QueryResponse) (*Table, error) {
	sorted := SortRecords(resp)
	records := make([]Record, 0, len(sorted))
	for _, raw := range sorted {
		rec, err := NewRecord(raw)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return newTable(records), nil
}

func newTable(records []Record) *Table {
	present := map[string]bool{}
	for _, rec := range records {
		present[ColStartTime] = present[ColStartTime] || rec.StartTime != nil
		present[ColEndTime] = present[ColEndTime] || rec.EndTime != nil
		present[ColSource] = present[ColSource] || rec.Source != ""
		present[ColInstrument] = present[ColInstrument] || rec.Instrument != ""
		present[ColPhysobs] = present[ColPhysobs] || rec.Physobs != ""
		present[ColWavelength] = present[ColWavelength] || rec.WaveMin != nil
		present[ColProvider] = present[ColProvider] || rec.Provider != ""
		present[ColExtentType] = present[ColExtentType] || rec.ExtentType != ""
		// Size is reported for every record, zero included.
		present[ColSize] = true
	}
	var columns []string
	for _, name := range columnOrder {
		if present[name] {
			columns = append(columns, name)
		}
	}
	return &Table{columns: columns, records: records}
}

// Columns returns the column names present in the table, in display order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether any record contributed a value to the column.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.columns {
		if col == name {
			return true
		}
	}
	return false
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns a copy of the normalized, sorted records.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Row returns the record at index i.
func (t *Table) Row(i int) Record {
	return t.records[i]
}

// Column returns the rendered cells of a column, one per record. A record
// without a value for the column yields an empty cell.
func (t *Table) Column(name string) []string {
	cells := make([]string, len(t.records))
	for i, rec := range t.records {
		cells[i] = cell(rec, name)
	}
	return cells
}

func cell(rec Record, column string) string {
	switch column {
	case ColStartTime:
		if rec.StartTime != nil {
			return rec.StartTime.UTC().Format(soltime.DisplayFormat)
		}
	case ColEndTime:
		if rec.EndTime != nil {
			return rec.EndTime.UTC().Format(soltime.DisplayFormat)
		}
	case ColSource:
		return rec.Source
	case ColInstrument:
		return rec.Instrument
	case ColPhysobs:
		return rec.Physobs
	case ColWavelength:
		if rec.WaveMin != nil && rec.WaveMax != nil {
			return fmt.Sprintf("%g - %g Angstrom", *rec.WaveMin, *rec.WaveMax)
		}
	case ColProvider:
		return rec.Provider
	case ColExtentType:
		return rec.ExtentType
	case ColSize:
		return strconv.FormatFloat(rec.Size, 'f', -1, 64)
	}
	return ""
}

// String renders a compact summary for logs and the REPL.
func (t *Table) String() string {
	if len(t.columns) == 0 {
		return "<No columns>"
	}
	return fmt.Sprintf("VSO table: %d records, columns %v", len(t.records), t.columns)
}
