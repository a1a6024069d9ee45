package attrs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Physolia/sunpy/pkg/attrs"
	"github.com/Physolia/sunpy/pkg/errors"
)

func TestAndRejectsDuplicateSimpleKind(t *testing.T) {
	_, err := attrs.And(attrs.Instrument("foo"), attrs.Instrument("bar"))
	require.Error(t, err)
	var cerr *errors.CollisionError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, "instrument", cerr.Kind)
}

func TestAndRejectsDuplicateAcrossDisjunction(t *testing.T) {
	disjunction := attrs.Or(attrs.Instrument("foo"), attrs.Source("foo"))

	_, err := attrs.And(disjunction, attrs.Instrument("bar"))
	require.Error(t, err)

	other := attrs.Or(attrs.Instrument("foo"), attrs.Source("foo"))
	_, err = attrs.And(disjunction, other)
	require.Error(t, err)

	_, err = attrs.And(attrs.Or(disjunction, other), attrs.Instrument("bar"))
	require.Error(t, err)
}

func TestAndRejectsConjunctionWithItself(t *testing.T) {
	conj, err := attrs.And(attrs.Instrument("foo"), attrs.Source("foo"))
	require.NoError(t, err)

	_, err = attrs.And(conj, conj)
	require.Error(t, err)
}

func TestOrIdempotent(t *testing.T) {
	eit := attrs.Instrument("eit")

	assert.True(t, attrs.Or(eit, eit).Equal(eit))
	assert.True(t, attrs.Or(eit, attrs.Instrument("eit")).Equal(eit))
}

func TestOrCommutative(t *testing.T) {
	p := attrs.Instrument("eit")
	q := attrs.Source("soho")
	assert.True(t, attrs.Or(p, q).Equal(attrs.Or(q, p)))
}

func TestTimeDuplicate(t *testing.T) {
	window := attrs.MustTime("2011-01-01", "2011-01-01 01:00")
	_, err := attrs.And(window, attrs.MustTime("2011-02-01", "2011-02-01 01:00"))
	require.Error(t, err)

	disjunction := attrs.Or(window, attrs.Source("foo"))
	_, err = attrs.And(disjunction, attrs.MustTime("2011-02-01", "2011-02-01 01:00"))
	require.Error(t, err)
}

func TestTimeOrIdempotent(t *testing.T) {
	window := attrs.MustTime("2011-01-01", "2011-01-01 01:00")
	assert.True(t, attrs.Or(window, window).Equal(window))
	assert.True(t, attrs.Or(window, attrs.MustTime("2011-01-01", "2011-01-01 01:00")).Equal(window))
}

func TestAndDistributesOverOr(t *testing.T) {
	disjunction := attrs.Or(attrs.Instrument("foo"), attrs.Instrument("bar"))

	one, err := attrs.And(disjunction, attrs.Source("bar"))
	require.NoError(t, err)

	fooConj, err := attrs.And(attrs.Instrument("foo"), attrs.Source("bar"))
	require.NoError(t, err)
	barConj, err := attrs.And(attrs.Instrument("bar"), attrs.Source("bar"))
	require.NoError(t, err)

	assert.True(t, one.Equal(attrs.Or(fooConj, barConj)))
}

func TestDummyIsIdentity(t *testing.T) {
	eit := attrs.Instrument("eit")

	conj, err := attrs.And(attrs.Dummy{}, eit)
	require.NoError(t, err)
	assert.True(t, conj.Equal(eit))

	assert.True(t, attrs.Or(attrs.Dummy{}, eit).Equal(eit))
}

func TestTimeXor(t *testing.T) {
	one := attrs.MustTime("2010-01-01", "2010-01-02")

	carved, err := attrs.Xor(one, attrs.MustTime("2010-01-01 01:00", "2010-01-01 02:00"))
	require.NoError(t, err)
	assert.True(t, carved.Equal(attrs.Or(
		attrs.MustTime("2010-01-01", "2010-01-01 01:00"),
		attrs.MustTime("2010-01-01 02:00", "2010-01-02"),
	)))

	carved, err = attrs.Xor(carved, attrs.MustTime("2010-01-01 04:00", "2010-01-01 05:00"))
	require.NoError(t, err)
	assert.True(t, carved.Equal(attrs.Or(
		attrs.MustTime("2010-01-01", "2010-01-01 01:00"),
		attrs.MustTime("2010-01-01 02:00", "2010-01-01 04:00"),
		attrs.MustTime("2010-01-01 05:00", "2010-01-02"),
	)))
}

func TestWavelengthXor(t *testing.T) {
	one := attrs.MustWavelength(0, 1000, attrs.Angstrom)

	carved, err := attrs.Xor(one, attrs.MustWavelength(200, 400, attrs.Angstrom))
	require.NoError(t, err)
	assert.True(t, carved.Equal(attrs.Or(
		attrs.MustWavelength(0, 200, attrs.Angstrom),
		attrs.MustWavelength(400, 1000, attrs.Angstrom),
	)))

	carved, err = attrs.Xor(carved, attrs.MustWavelength(600, 800, attrs.Angstrom))
	require.NoError(t, err)
	assert.True(t, carved.Equal(attrs.Or(
		attrs.MustWavelength(0, 200, attrs.Angstrom),
		attrs.MustWavelength(400, 600, attrs.Angstrom),
		attrs.MustWavelength(800, 1000, attrs.Angstrom),
	)))
}

func TestXorRejectsNonIntervalAttr(t *testing.T) {
	_, err := attrs.Xor(attrs.Instrument("aia"), attrs.Instrument("eit"))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	_, err = attrs.Xor(attrs.MustTime("2010-01-01", "2010-01-02"), attrs.MustWavelength(0, 1, attrs.Angstrom))
	require.Error(t, err)
}

func TestTimeRejectsBadInput(t *testing.T) {
	_, err := attrs.NewTime("2012/1/1", "not a time")
	require.Error(t, err)

	_, err = attrs.NewTime("2012/1/2", "2012/1/1")
	require.Error(t, err)
}

func TestWavelengthToAngstrom(t *testing.T) {
	frequency := []struct {
		factor float64
		unit   string
	}{
		{1, attrs.Hertz},
		{1e3, attrs.Kilohertz},
		{1e6, attrs.Megahertz},
		{1e9, attrs.Gigahertz},
	}
	energy := []struct {
		factor float64
		unit   string
	}{
		{1, attrs.EV},
		{1e3, attrs.KeV},
		{1e6, attrs.MeV},
	}

	for _, e := range energy {
		w := attrs.MustWavelength(62/e.factor, 62/e.factor, e.unit)
		assert.Equal(t, 199, int(w.Min), e.unit)
	}
	for _, f := range frequency {
		w := attrs.MustWavelength(1.506e16/f.factor, 1.506e16/f.factor, f.unit)
		assert.Equal(t, 199, int(w.Min), f.unit)
	}
}

func TestWavelengthRejectsUnknownUnit(t *testing.T) {
	_, err := attrs.NewWavelength(10, 23, "g")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not convertible")
}

func TestWavelengthReordersBounds(t *testing.T) {
	w := attrs.MustWavelength(15, 12, attrs.Angstrom)
	assert.Equal(t, 12.0, w.Min)
	assert.Equal(t, 15.0, w.Max)
	assert.Equal(t, `Wavelength(12, 15, "Angstrom")`, w.String())
}

func TestSampleEquality(t *testing.T) {
	a := attrs.Sample{Cadence: 10 * time.Minute}
	assert.True(t, a.Equal(attrs.Sample{Cadence: 10 * time.Minute}))
	assert.False(t, a.Equal(attrs.Sample{Cadence: time.Minute}))
	assert.True(t, a.Collides(attrs.Sample{Cadence: time.Hour}))
}

func TestXorCarriesConjoinedPredicates(t *testing.T) {
	joined, err := attrs.And(attrs.MustTime("2010-01-01", "2010-01-02"), attrs.Instrument("eit"))
	require.NoError(t, err)

	carved, err := attrs.Xor(joined, attrs.MustTime("2010-01-01 01:00", "2010-01-01 02:00"))
	require.NoError(t, err)

	first, err := attrs.And(attrs.MustTime("2010-01-01", "2010-01-01 01:00"), attrs.Instrument("eit"))
	require.NoError(t, err)
	second, err := attrs.And(attrs.MustTime("2010-01-01 02:00", "2010-01-02"), attrs.Instrument("eit"))
	require.NoError(t, err)
	assert.True(t, carved.Equal(attrs.Or(first, second)))
}
