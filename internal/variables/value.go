// Package variables implements the typed value universe that scopes are
// built from: strings, integers, booleans, structures, sequences, and
// artifact sequences whose contents are only materialized on demand.
//
// Values are backed by github.com/zclconf/go-cty for scalars, the same
// representation the rest of this codebase's configuration layer uses for
// typed inputs. Structures and sequences are plain Go containers of Value,
// since cty's own collection types are too eagerly typed (a cty list
// requires a single homogeneous element type) for the heterogeneous
// structures a toolchain description builds up.
package variables

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// Kind identifies which variant of the value universe a Value holds.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindBoolean
	KindStructure
	KindSequence
	KindLazySequence
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindStructure:
		return "structure"
	case KindSequence:
		return "sequence"
	case KindLazySequence:
		return "lazy-sequence"
	default:
		return "unknown"
	}
}

// Value is one member of the variable value universe. The zero Value is
// not meaningful; always build one through the constructors below.
type Value struct {
	kind      Kind
	scalar    cty.Value
	structure map[string]Value
	sequence  []Value
	lazy      *lazySequence
}

// String builds a scalar string value.
func String(s string) Value {
	return Value{kind: KindString, scalar: cty.StringVal(s)}
}

// Integer builds a scalar integer value.
func Integer(i int64) Value {
	return Value{kind: KindInteger, scalar: cty.NumberIntVal(i)}
}

// Boolean builds a scalar boolean value.
func Boolean(b bool) Value {
	return Value{kind: KindBoolean, scalar: cty.BoolVal(b)}
}

// Structure builds a record value. The map is copied so later mutation of
// the caller's map can't reach back into the Value.
func Structure(fields map[string]Value) Value {
	copied := make(map[string]Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Value{kind: KindStructure, structure: copied}
}

// Sequence builds an eager, restartable ordered series.
func Sequence(elements []Value) Value {
	copied := make([]Value, len(elements))
	copy(copied, elements)
	return Value{kind: KindSequence, sequence: copied}
}

// LazyArtifactSequence builds a sequence whose elements are not known until
// an Expander materializes them. name identifies the binding to the
// Expander the way the caller of Scope.GetSequence expects; it need not
// match the name this value is ultimately bound under in a scope.
func LazyArtifactSequence(name string) Value {
	return Value{kind: KindLazySequence, lazy: &lazySequence{name: name}}
}

// Kind reports which variant of the value universe v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// Field walks a dotted accessor one level into a structure. It fails with
// ExpansionFailedError if v is not a structure or the field is absent.
func (v Value) Field(name string) (Value, error) {
	if v.kind != KindStructure {
		return Value{}, &ExpansionFailedError{Reason: fmt.Sprintf("cannot access field %q of a %s", name, v.kind)}
	}
	fv, ok := v.structure[name]
	if !ok {
		return Value{}, &ExpansionFailedError{Reason: fmt.Sprintf("structure has no field %q", name)}
	}
	return fv, nil
}

// AsString applies the same coercion rules as Scope.GetString directly to a
// Value, for callers (such as a dotted accessor walk) that already hold a
// Value rather than a name to look up.
func (v Value) AsString() (string, error) {
	return v.asString()
}

// asString implements the Scope.GetString coercion rules: strings pass
// through, integers render decimally, booleans render as "true"/"false";
// sequences and structures are not representable as a single string.
func (v Value) asString() (string, error) {
	switch v.kind {
	case KindString:
		return v.scalar.AsString(), nil
	case KindInteger:
		f := v.scalar.AsBigFloat()
		i, _ := f.Int64()
		return strconv.FormatInt(i, 10), nil
	case KindBoolean:
		return strconv.FormatBool(v.scalar.True()), nil
	default:
		return "", &ExpansionFailedError{Reason: fmt.Sprintf("cannot coerce a %s to a string", v.kind)}
	}
}

// truthy implements the Scope.IsTruthy rules. A lazy sequence is treated as
// truthy without materializing it — forcing expansion just to answer a
// boolean guard would defeat the point of laziness, and no spec scenario
// gates on the truthiness of an artifact sequence.
func (v Value) truthy() bool {
	switch v.kind {
	case KindBoolean:
		return v.scalar.True()
	case KindInteger:
		return v.scalar.AsBigFloat().Sign() != 0
	case KindString:
		return v.scalar.AsString() != ""
	case KindSequence:
		return len(v.sequence) > 0
	case KindStructure:
		return true
	case KindLazySequence:
		return true
	default:
		return false
	}
}

// equalString reports whether v, coerced to a string, equals s. Used by the
// expandIfEqual guard, which compares against a literal string.
func (v Value) equalString(s string) (bool, error) {
	got, err := v.asString()
	if err != nil {
		return false, err
	}
	return got == s, nil
}

// lazySequence materializes its elements from an Expander exactly once,
// regardless of how many times GetSequence is called for it within a
// single expansion pass.
type lazySequence struct {
	name string

	once   sync.Once
	values []Value
	err    error
}

func (l *lazySequence) materialize(expander Expander) ([]Value, error) {
	if expander == nil {
		return nil, &ExpansionFailedError{Reason: fmt.Sprintf("%q requires an expander and none was supplied", l.name)}
	}
	l.once.Do(func() {
		l.values, l.err = expander(l.name)
	})
	return l.values, l.err
}
