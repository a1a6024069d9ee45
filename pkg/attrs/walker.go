package attrs

import (
	"strings"

	"github.com/Physolia/sunpy/pkg/errors"
)

// Params is a nested provider request block. Dotted paths address nested
// blocks: Set("time.start", v) writes params["time"].(Params)["start"].
type Params map[string]any

// Set writes a value at a dotted path, creating intermediate blocks.
func (p Params) Set(path string, value any) {
	parts := strings.Split(path, ".")
	current := p
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(Params)
		if !ok {
			next = Params{}
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// Get reads a value at a dotted path.
func (p Params) Get(path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := p
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(Params)
		if !ok {
			return nil, false
		}
		current = next
	}
	value, ok := current[parts[len(parts)-1]]
	return value, ok
}

// ApplyFunc writes an attribute's values into an existing request block.
type ApplyFunc func(w *Walker, a Attr, ctx any, params Params) error

// CreateFunc builds one or more request blocks for an attribute.
type CreateFunc func(w *Walker, a Attr, ctx any) ([]Params, error)

// ConvertFunc lowers an attribute into another attribute (typically a
// ValueAttr holding wire parameter paths) before dispatch.
type ConvertFunc func(a Attr) (Attr, error)

// Walker translates attribute expressions into provider request blocks
// without the attribute model knowing provider specifics. Dispatch is keyed
// by attribute kind; an unregistered kind is a hard DispatchError, never a
// silent no-op.
type Walker struct {
	appliers   map[Kind]ApplyFunc
	creators   map[Kind]CreateFunc
	converters map[Kind]ConvertFunc
}

// NewWalker creates an empty walker.
func NewWalker() *Walker {
	return &Walker{
		appliers:   make(map[Kind]ApplyFunc),
		creators:   make(map[Kind]CreateFunc),
		converters: make(map[Kind]ConvertFunc),
	}
}

// AddApplier registers the apply handler for a kind.
func (w *Walker) AddApplier(kind Kind, fn ApplyFunc) {
	w.appliers[kind] = fn
}

// AddCreator registers the create handler for a kind.
func (w *Walker) AddCreator(kind Kind, fn CreateFunc) {
	w.creators[kind] = fn
}

// AddConverter registers a lowering step for a kind.
func (w *Walker) AddConverter(kind Kind, fn ConvertFunc) {
	w.converters[kind] = fn
}

// Apply lowers the attribute and writes its values into params.
func (w *Walker) Apply(a Attr, ctx any, params Params) error {
	converted, err := w.convert(a)
	if err != nil {
		return err
	}
	fn, ok := w.appliers[converted.Kind()]
	if !ok {
		return errors.NewDispatchError("apply", string(converted.Kind()))
	}
	return fn(w, converted, ctx, params)
}

// Create lowers the attribute and builds its request blocks. A disjunction
// fans out into one block per alternative.
func (w *Walker) Create(a Attr, ctx any) ([]Params, error) {
	converted, err := w.convert(a)
	if err != nil {
		return nil, err
	}
	fn, ok := w.creators[converted.Kind()]
	if !ok {
		return nil, errors.NewDispatchError("create", string(converted.Kind()))
	}
	return fn(w, converted, ctx)
}

func (w *Walker) convert(a Attr) (Attr, error) {
	fn, ok := w.converters[a.Kind()]
	if !ok {
		return a, nil
	}
	return fn(a)
}
