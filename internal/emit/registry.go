package emit

import (
	"fmt"
	"slices"
)

// Built-in emitter names.
const (
	NameReference = "reference"
	NameSnapshot  = "snapshot"
	NameQuery     = "query"
	NameCodec     = "codec"
)

// DefaultEmitters lists the built-in emitters in render order.
var DefaultEmitters = []string{NameReference, NameSnapshot, NameQuery, NameCodec}

// New creates the built-in emitter with the given name.
func New(name string, target Target) (Emitter, error) {
	switch name {
	case NameReference:
		return NewReferenceEmitter(target), nil
	case NameSnapshot:
		return NewSnapshotEmitter(target), nil
	case NameQuery:
		return NewQueryEmitter(target), nil
	case NameCodec:
		return NewCodecEmitter(target), nil
	default:
		return nil, fmt.Errorf("unknown emitter %q (available: %v)", name, DefaultEmitters)
	}
}

// NewAll creates the named built-in emitters, in DefaultEmitters order.
func NewAll(names []string, target Target) ([]Emitter, error) {
	var out []Emitter

	for _, name := range names {
		if !slices.Contains(DefaultEmitters, name) {
			return nil, fmt.Errorf("unknown emitter %q (available: %v)", name, DefaultEmitters)
		}
	}

	for _, name := range DefaultEmitters {
		if !slices.Contains(names, name) {
			continue
		}

		e, err := New(name, target)
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, nil
}
