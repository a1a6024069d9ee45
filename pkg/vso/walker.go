package vso

import (
	"github.com/Physolia/sunpy/pkg/attrs"
)

// newWalker wires the VSO lowering: every supported attribute converts into
// a ValueAttr holding its wire parameter paths, conjunctions apply all
// members into a single request block, and disjunctions fan out into one
// block per alternative. Unsupported kinds fall through to the walker's
// dispatch error.
func newWalker() *attrs.Walker {
	w := attrs.NewWalker()

	w.AddConverter(attrs.KindTime, func(a attrs.Attr) (attrs.Attr, error) {
		start, end := a.(attrs.Time).Range.Wire()
		return attrs.NewValueAttr(map[string]any{
			"time.start": start,
			"time.end":   end,
		}), nil
	})
	w.AddConverter(attrs.KindInstrument, func(a attrs.Attr) (attrs.Attr, error) {
		return attrs.NewValueAttr(map[string]any{"instrument": string(a.(attrs.Instrument))}), nil
	})
	w.AddConverter(attrs.KindSource, func(a attrs.Attr) (attrs.Attr, error) {
		return attrs.NewValueAttr(map[string]any{"source": string(a.(attrs.Source))}), nil
	})
	w.AddConverter(attrs.KindProvider, func(a attrs.Attr) (attrs.Attr, error) {
		return attrs.NewValueAttr(map[string]any{"provider": string(a.(attrs.Provider))}), nil
	})
	w.AddConverter(attrs.KindDetector, func(a attrs.Attr) (attrs.Attr, error) {
		return attrs.NewValueAttr(map[string]any{"detector": string(a.(attrs.Detector))}), nil
	})
	w.AddConverter(attrs.KindPhysobs, func(a attrs.Attr) (attrs.Attr, error) {
		return attrs.NewValueAttr(map[string]any{"physobs": string(a.(attrs.Physobs))}), nil
	})
	w.AddConverter(attrs.KindLevel, func(a attrs.Attr) (attrs.Attr, error) {
		return attrs.NewValueAttr(map[string]any{"level": string(a.(attrs.Level))}), nil
	})
	w.AddConverter(attrs.KindSample, func(a attrs.Attr) (attrs.Attr, error) {
		return attrs.NewValueAttr(map[string]any{"sample": a.(attrs.Sample).Cadence.Seconds()}), nil
	})
	w.AddConverter(attrs.KindWavelength, func(a attrs.Attr) (attrs.Attr, error) {
		wave := a.(attrs.Wavelength)
		return attrs.NewValueAttr(map[string]any{
			"wave.wavemin":  wave.Min,
			"wave.wavemax":  wave.Max,
			"wave.waveunit": attrs.Angstrom,
		}), nil
	})

	w.AddApplier(attrs.KindValue, func(_ *attrs.Walker, a attrs.Attr, _ any, params attrs.Params) error {
		for path, value := range a.(attrs.ValueAttr).Values {
			params.Set(path, value)
		}
		return nil
	})
	w.AddApplier(attrs.KindAnd, func(w *attrs.Walker, a attrs.Attr, ctx any, params attrs.Params) error {
		for _, member := range a.(attrs.AttrAnd).Attrs {
			if err := w.Apply(member, ctx, params); err != nil {
				return err
			}
		}
		return nil
	})

	w.AddCreator(attrs.KindValue, func(w *attrs.Walker, a attrs.Attr, ctx any) ([]attrs.Params, error) {
		block := attrs.Params{}
		if err := w.Apply(a, ctx, block); err != nil {
			return nil, err
		}
		return []attrs.Params{block}, nil
	})
	w.AddCreator(attrs.KindAnd, func(w *attrs.Walker, a attrs.Attr, ctx any) ([]attrs.Params, error) {
		block := attrs.Params{}
		if err := w.Apply(a, ctx, block); err != nil {
			return nil, err
		}
		return []attrs.Params{block}, nil
	})
	w.AddCreator(attrs.KindOr, func(w *attrs.Walker, a attrs.Attr, ctx any) ([]attrs.Params, error) {
		var blocks []attrs.Params
		for _, member := range a.(attrs.AttrOr).Attrs {
			sub, err := w.Create(member, ctx)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, sub...)
		}
		return blocks, nil
	})

	return w
}
