package attrs

import (
	"fmt"
	"math"
	"time"

	"github.com/Physolia/sunpy/pkg/errors"
	"github.com/Physolia/sunpy/pkg/soltime"
)

// Simple name-valued attributes. Each of these is exclusive: a conjunction
// holds at most one of each kind.

// Instrument restricts results to a named instrument.
type Instrument string

// Kind implements Attr.
func (Instrument) Kind() Kind { return KindInstrument }

// Collides implements Attr.
func (Instrument) Collides(other Attr) bool { return other.Kind() == KindInstrument }

// Equal implements Attr.
func (i Instrument) Equal(other Attr) bool {
	o, ok := other.(Instrument)
	return ok && i == o
}

func (Instrument) isAttr() {}

// Source restricts results to an observatory or spacecraft.
type Source string

// Kind implements Attr.
func (Source) Kind() Kind { return KindSource }

// Collides implements Attr.
func (Source) Collides(other Attr) bool { return other.Kind() == KindSource }

// Equal implements Attr.
func (s Source) Equal(other Attr) bool {
	o, ok := other.(Source)
	return ok && s == o
}

func (Source) isAttr() {}

// Provider restricts results to a named data provider.
type Provider string

// Kind implements Attr.
func (Provider) Kind() Kind { return KindProvider }

// Collides implements Attr.
func (Provider) Collides(other Attr) bool { return other.Kind() == KindProvider }

// Equal implements Attr.
func (p Provider) Equal(other Attr) bool {
	o, ok := other.(Provider)
	return ok && p == o
}

func (Provider) isAttr() {}

// Detector restricts results to a named detector.
type Detector string

// Kind implements Attr.
func (Detector) Kind() Kind { return KindDetector }

// Collides implements Attr.
func (Detector) Collides(other Attr) bool { return other.Kind() == KindDetector }

// Equal implements Attr.
func (d Detector) Equal(other Attr) bool {
	o, ok := other.(Detector)
	return ok && d == o
}

func (Detector) isAttr() {}

// Physobs restricts results to a physical observable, e.g. "intensity" or
// "LOS_magnetic_field".
type Physobs string

// Kind implements Attr.
func (Physobs) Kind() Kind { return KindPhysobs }

// Collides implements Attr.
func (Physobs) Collides(other Attr) bool { return other.Kind() == KindPhysobs }

// Equal implements Attr.
func (p Physobs) Equal(other Attr) bool {
	o, ok := other.(Physobs)
	return ok && p == o
}

func (Physobs) isAttr() {}

// Level restricts results to a data processing level ("0", "1", "1.5").
type Level string

// Kind implements Attr.
func (Level) Kind() Kind { return KindLevel }

// Collides implements Attr.
func (Level) Collides(other Attr) bool { return other.Kind() == KindLevel }

// Equal implements Attr.
func (l Level) Equal(other Attr) bool {
	o, ok := other.(Level)
	return ok && l == o
}

func (Level) isAttr() {}

// Sample requests one record per cadence interval instead of every record.
type Sample struct {
	Cadence time.Duration
}

// Kind implements Attr.
func (Sample) Kind() Kind { return KindSample }

// Collides implements Attr.
func (Sample) Collides(other Attr) bool { return other.Kind() == KindSample }

// Equal implements Attr.
func (s Sample) Equal(other Attr) bool {
	o, ok := other.(Sample)
	return ok && s.Cadence == o.Cadence
}

func (Sample) isAttr() {}

// Time restricts results to records whose observation time overlaps the
// closed range. Exclusive per conjunction; supports Xor splitting.
type Time struct {
	Range soltime.TimeRange
}

// NewTime builds a Time attribute from two timestamp strings.
func NewTime(start, end string) (Time, error) {
	r, err := soltime.NewTimeRange(start, end)
	if err != nil {
		return Time{}, err
	}
	return Time{Range: r}, nil
}

// MustTime is NewTime for fixtures and tests; it panics on bad input.
func MustTime(start, end string) Time {
	t, err := NewTime(start, end)
	if err != nil {
		panic(err)
	}
	return t
}

// TimeFromRange wraps an existing TimeRange.
func TimeFromRange(r soltime.TimeRange) Time {
	return Time{Range: r}
}

// Kind implements Attr.
func (Time) Kind() Kind { return KindTime }

// Collides implements Attr.
func (Time) Collides(other Attr) bool { return other.Kind() == KindTime }

// Equal implements Attr.
func (t Time) Equal(other Attr) bool {
	o, ok := other.(Time)
	return ok && t.Range.Start.Equal(o.Range.Start) && t.Range.End.Equal(o.Range.End)
}

func (Time) isAttr() {}

func (t Time) bounds() (float64, float64) {
	return timeToSeconds(t.Range.Start), timeToSeconds(t.Range.End)
}

func (t Time) withBounds(lo, hi float64) Attr {
	return Time{Range: soltime.TimeRange{Start: secondsToTime(lo), End: secondsToTime(hi)}}
}

func timeToSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

func secondsToTime(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC()
}

// Spectral units accepted by NewWavelength. Everything is converted to
// Angstrom on construction; min and max are swapped when given reversed.
const (
	Angstrom  = "Angstrom"
	Nanometer = "nm"
	Hertz     = "Hz"
	Kilohertz = "kHz"
	Megahertz = "MHz"
	Gigahertz = "GHz"
	EV        = "eV"
	KeV       = "keV"
	MeV       = "MeV"
)

// speedOfLightAAHz converts frequency in Hz to wavelength in Angstrom.
const speedOfLightAAHz = 2.99792458e18

// planckAAKeV converts photon energy in keV to wavelength in Angstrom.
const planckAAKeV = 12.39841984

// Wavelength restricts results to a spectral band, held in Angstrom.
// Exclusive per conjunction; supports Xor splitting.
type Wavelength struct {
	Min float64
	Max float64
}

// NewWavelength builds a Wavelength attribute from a band expressed in any
// supported spectral unit. The band is converted to Angstrom and reordered
// so Min <= Max.
func NewWavelength(minValue, maxValue float64, unit string) (Wavelength, error) {
	lo, err := toAngstrom(minValue, unit)
	if err != nil {
		return Wavelength{}, err
	}
	hi, err := toAngstrom(maxValue, unit)
	if err != nil {
		return Wavelength{}, err
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	return Wavelength{Min: lo, Max: hi}, nil
}

// MustWavelength is NewWavelength for fixtures and tests; it panics on bad input.
func MustWavelength(minValue, maxValue float64, unit string) Wavelength {
	w, err := NewWavelength(minValue, maxValue, unit)
	if err != nil {
		panic(err)
	}
	return w
}

func toAngstrom(value float64, unit string) (float64, error) {
	switch unit {
	case Angstrom:
		return value, nil
	case Nanometer:
		return value * 10, nil
	case Hertz:
		return speedOfLightAAHz / value, nil
	case Kilohertz:
		return speedOfLightAAHz / (value * 1e3), nil
	case Megahertz:
		return speedOfLightAAHz / (value * 1e6), nil
	case Gigahertz:
		return speedOfLightAAHz / (value * 1e9), nil
	case EV:
		return planckAAKeV / (value / 1e3), nil
	case KeV:
		return planckAAKeV / value, nil
	case MeV:
		return planckAAKeV / (value * 1e3), nil
	default:
		return 0, errors.NewValidationError("unit", unit,
			fmt.Sprintf("unit is not convertible to any of [%s, %s, %s]", Angstrom, Kilohertz, KeV))
	}
}

// Kind implements Attr.
func (Wavelength) Kind() Kind { return KindWavelength }

// Collides implements Attr.
func (Wavelength) Collides(other Attr) bool { return other.Kind() == KindWavelength }

// Equal implements Attr.
func (w Wavelength) Equal(other Attr) bool {
	o, ok := other.(Wavelength)
	return ok && w.Min == o.Min && w.Max == o.Max
}

func (Wavelength) isAttr() {}

func (w Wavelength) bounds() (float64, float64) { return w.Min, w.Max }

func (w Wavelength) withBounds(lo, hi float64) Attr {
	return Wavelength{Min: lo, Max: hi}
}

// String renders the band for logs and error messages.
func (w Wavelength) String() string {
	return fmt.Sprintf("Wavelength(%g, %g, %q)", w.Min, w.Max, Angstrom)
}
