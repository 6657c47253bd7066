package variables

// Expander materializes the elements of a Lazy Artifact-Expansion Sequence
// on demand. It is supplied by the caller driving an expansion, not stored
// on the Value itself, so the same lazily-declared variable can be served
// by different expanders in different requests.
type Expander func(name string) ([]Value, error)

// Scope is a name-indexed, inner-to-outer chained lookup environment.
// Scopes are immutable; Derive returns a new scope extending the receiver
// with one additional binding, never mutating it.
type Scope interface {
	// IsAvailable reports whether name resolves in this scope. It never
	// forces materialization of a lazy sequence — only GetSequence does.
	IsAvailable(name string) bool

	// GetVariable returns the bound value, or a *MissingVariableError if
	// name is unbound.
	GetVariable(name string) (Value, error)

	// GetSequence resolves name to an iterable of Values. For a lazy
	// artifact sequence, expander is invoked exactly once to materialize
	// its children; subsequent calls for the same Value reuse the result.
	GetSequence(name string, expander Expander) ([]Value, error)

	// GetString resolves name to its string form, coercing integers and
	// booleans. Fails with *ExpansionFailedError for sequences and
	// structures.
	GetString(name string) (string, error)

	// IsTruthy resolves name and reports its truthiness.
	IsTruthy(name string) (bool, error)

	// Equal resolves name and reports whether its string form equals s.
	Equal(name, s string) (bool, error)

	// Derive returns a new scope that binds name to value, shadowing any
	// existing binding of that name in the receiver.
	Derive(name string, value Value) Scope
}

type scope struct {
	lookup func(name string) (Value, bool)
}

// NewScope builds a root scope from a fixed set of bindings. The supplied
// map is copied; later mutation of it has no effect on the returned scope.
func NewScope(bindings map[string]Value) Scope {
	copied := make(map[string]Value, len(bindings))
	for k, v := range bindings {
		copied[k] = v
	}
	return &scope{
		lookup: func(name string) (Value, bool) {
			v, ok := copied[name]
			return v, ok
		},
	}
}

// Empty returns a scope with no bindings, useful as a base for expanding
// templates that reference no scope-provided variables.
func Empty() Scope {
	return NewScope(nil)
}

func (s *scope) Derive(name string, value Value) Scope {
	parent := s.lookup
	return &scope{
		lookup: func(n string) (Value, bool) {
			if n == name {
				return value, true
			}
			return parent(n)
		},
	}
}

func (s *scope) IsAvailable(name string) bool {
	_, ok := s.lookup(name)
	return ok
}

func (s *scope) GetVariable(name string) (Value, error) {
	v, ok := s.lookup(name)
	if !ok {
		return Value{}, &MissingVariableError{Name: name}
	}
	return v, nil
}

func (s *scope) GetSequence(name string, expander Expander) ([]Value, error) {
	v, err := s.GetVariable(name)
	if err != nil {
		return nil, err
	}
	switch v.kind {
	case KindSequence:
		out := make([]Value, len(v.sequence))
		copy(out, v.sequence)
		return out, nil
	case KindLazySequence:
		return v.lazy.materialize(expander)
	default:
		return nil, &ExpansionFailedError{Reason: name + " is not a sequence"}
	}
}

func (s *scope) GetString(name string) (string, error) {
	v, err := s.GetVariable(name)
	if err != nil {
		return "", err
	}
	return v.asString()
}

func (s *scope) IsTruthy(name string) (bool, error) {
	v, err := s.GetVariable(name)
	if err != nil {
		return false, err
	}
	return v.truthy(), nil
}

func (s *scope) Equal(name, literal string) (bool, error) {
	v, err := s.GetVariable(name)
	if err != nil {
		return false, err
	}
	return v.equalString(literal)
}
