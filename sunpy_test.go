package sunpy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Physolia/sunpy/pkg/attrs"
	"github.com/Physolia/sunpy/pkg/errors"
	"github.com/Physolia/sunpy/pkg/vso"
)

func TestNewClientNoMirror(t *testing.T) {
	_, err := NewClient(context.Background(),
		vso.WithMirrors(vso.Mirror{URL: "http://127.0.0.1:1/dead", Port: "deadVSOi"}),
	)
	require.Error(t, err)
	assert.True(t, errors.IsNoMirror(err))
}

func TestQueryAlgebraAtFacade(t *testing.T) {
	// The facade re-exports the client types; the attribute algebra stays
	// usable without touching pkg/vso.
	timeAttr := attrs.MustTime("2020-01-01", "2020-01-02")
	_, err := attrs.And(timeAttr, attrs.Instrument("EIT"), attrs.Instrument("LASCO"))
	var collision *errors.CollisionError
	require.ErrorAs(t, err, &collision)
}
