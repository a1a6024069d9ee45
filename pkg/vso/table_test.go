package vso

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Physolia/sunpy/pkg/errors"
)

func TestBuildTableSortsRecords(t *testing.T) {
	table, err := BuildTable(mockResponse())
	require.NoError(t, err)
	require.Equal(t, 6, table.Len())

	ids := make([]string, table.Len())
	for i := range ids {
		ids[i] = table.Row(i).FileID
	}
	assert.Equal(t, []string{"t1", "t2", "t3", "t4", "f1", "f2"}, ids)
}

func TestBuildTableColumns(t *testing.T) {
	table, err := BuildTable(mockResponse())
	require.NoError(t, err)

	assert.Equal(t, []string{
		ColStartTime, ColEndTime, ColSource, ColInstrument, ColPhysobs,
		ColProvider, ColSize,
	}, table.Columns())
	// No record carries a wavelength or an extent, so neither column exists.
	assert.False(t, table.HasColumn(ColWavelength))
	assert.False(t, table.HasColumn(ColExtentType))
}

func TestBuildTableExtentContributesOnlyType(t *testing.T) {
	rec := rawRecord("e1", "20200101000000", "20200101000400")
	rec.Extent = &RawExtent{X: "300", Y: "-200", Width: "512", Length: "512", Type: "CORONA"}
	resp := &QueryResponse{ProviderItems: []ProviderItem{
		{Provider: "SDAC", Records: &RecordList{Items: []RawRecord{rec}}},
	}}

	table, err := BuildTable(resp)
	require.NoError(t, err)
	assert.True(t, table.HasColumn(ColExtentType))
	assert.Equal(t, []string{"CORONA"}, table.Column(ColExtentType))
}

func TestBuildTableDropsStartColumnWhenAllNull(t *testing.T) {
	resp := &QueryResponse{ProviderItems: []ProviderItem{
		{Provider: "SDAC", Records: &RecordList{Items: []RawRecord{
			rawRecord("f1", "", "20200101002500"),
			rawRecord("f2", "", ""),
		}}},
	}}

	table, err := BuildTable(resp)
	require.NoError(t, err)
	assert.False(t, table.HasColumn(ColStartTime))
	assert.True(t, table.HasColumn(ColEndTime))
	assert.Equal(t, []string{"2020-01-01 00:25:00.000", ""}, table.Column(ColEndTime))
}

func TestBuildTableWavelengthCell(t *testing.T) {
	waveMin, waveMax := 171.0, 175.0
	rec := rawRecord("w1", "20200101000000", "")
	rec.Wave = &RawWave{WaveMin: &waveMin, WaveMax: &waveMax, WaveUnit: "Angstrom"}
	resp := &QueryResponse{ProviderItems: []ProviderItem{
		{Provider: "SDAC", Records: &RecordList{Items: []RawRecord{rec}}},
	}}

	table, err := BuildTable(resp)
	require.NoError(t, err)
	assert.Equal(t, []string{"171 - 175 Angstrom"}, table.Column(ColWavelength))
}

func TestBuildTableMissingIdentityField(t *testing.T) {
	rec := rawRecord("bad", "20200101000000", "")
	rec.Source = ""
	resp := &QueryResponse{ProviderItems: []ProviderItem{
		{Provider: "SDAC", Records: &RecordList{Items: []RawRecord{rec}}},
	}}

	_, err := BuildTable(resp)
	var recErr *errors.RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "source", recErr.Field)
	assert.Equal(t, "bad", recErr.FileID)
}

func TestBuildTableEmpty(t *testing.T) {
	table, err := BuildTable(&QueryResponse{})
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Empty(t, table.Columns())
	assert.Equal(t, "<No columns>", table.String())
}

func TestNewLegacyResponse(t *testing.T) {
	resp := mockResponse()
	resp.ProviderItems[0].Error = "partial failure"

	legacy, err := NewLegacyResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, 6, legacy.Len())
	assert.Equal(t, "t1", legacy.Records[0].FileID)
	assert.Equal(t, "f2", legacy.Records[5].FileID)
	require.Len(t, legacy.Errors, 1)
	assert.Equal(t, "SDAC", legacy.Errors[0].Provider)
}

func TestRecordSeries(t *testing.T) {
	assert.Equal(t, "hmi", Record{FileID: "hmi:45sB:2020"}.Series())
	assert.Equal(t, "plain", Record{FileID: "plain"}.Series())
}
