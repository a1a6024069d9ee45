package soltime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Physolia/sunpy/pkg/errors"
)

func TestParseLayouts(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2012/1/1", time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2012-01-01 12:30", time.Date(2012, 1, 1, 12, 30, 0, 0, time.UTC)},
		{"2011-06-07T06:33:08", time.Date(2011, 6, 7, 6, 33, 8, 0, time.UTC)},
		{"20160214080812", time.Date(2016, 2, 14, 8, 8, 12, 0, time.UTC)},
		{"2021/01/01T00:00:04", time.Date(2021, 1, 1, 0, 0, 4, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := Parse(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, got.Equal(tt.want), "%s parsed to %v", tt.input, got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2012-13-40"} {
		_, err := Parse(input)
		require.Error(t, err, input)
		var perr *errors.ParseError
		assert.ErrorAs(t, err, &perr)
	}
}

func TestNewTimeRange(t *testing.T) {
	r, err := NewTimeRange("2012/1/1", "2012/1/2")
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, r.Duration())
	assert.True(t, r.Contains(MustParse("2012-01-01 12:00")))
	assert.False(t, r.Contains(MustParse("2012-01-03")))
}

func TestNewTimeRangeRejectsInvertedBounds(t *testing.T) {
	_, err := NewTimeRange("2012/1/2", "2012/1/1")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestWire(t *testing.T) {
	r, err := NewTimeRange("2010-01-01", "2010-01-02")
	require.NoError(t, err)
	start, end := r.Wire()
	assert.Equal(t, "20100101000000", start)
	assert.Equal(t, "20100102000000", end)
}
