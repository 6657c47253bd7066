package expand

import (
	"github.com/buildtool/ccfeatures/internal/variables"
)

// FlagGroupConfig describes a flag group at construction time. Children
// must all be flags or all be nested groups; NewFlagGroup rejects a mix.
type FlagGroupConfig struct {
	Children []Node

	IterateOver string

	ExpandIfAllAvailable  []string
	ExpandIfNoneAvailable []string
	ExpandIfTrue          string
	ExpandIfFalse         string

	// HasExpandIfEqual gates ExpandIfEqualName/ExpandIfEqualValue; a zero
	// value FlagGroupConfig has no expandIfEqual guard.
	HasExpandIfEqual   bool
	ExpandIfEqualName  string
	ExpandIfEqualValue string
}

// FlagGroup is an ordered set of children, expanded once per element of an
// iterateOver sequence if one is set, otherwise expanded once, subject to
// its guards.
type FlagGroup struct {
	children []Node

	iterateOver string

	expandIfAllAvailable  []string
	expandIfNoneAvailable []string
	expandIfTrue          string
	expandIfFalse         string

	hasExpandIfEqual   bool
	expandIfEqualName  string
	expandIfEqualValue string
}

// NewFlagGroup validates cfg and builds a FlagGroup.
func NewFlagGroup(cfg FlagGroupConfig) (*FlagGroup, error) {
	seenKind := -1
	for _, c := range cfg.Children {
		k := int(c.Kind)
		if seenKind == -1 {
			seenKind = k
			continue
		}
		if seenKind != k {
			return nil, &InvalidConfigurationError{Reason: "flag group children must all be flags or all be nested groups, not both"}
		}
	}

	return &FlagGroup{
		children:              cfg.Children,
		iterateOver:           cfg.IterateOver,
		expandIfAllAvailable:  cfg.ExpandIfAllAvailable,
		expandIfNoneAvailable: cfg.ExpandIfNoneAvailable,
		expandIfTrue:          cfg.ExpandIfTrue,
		expandIfFalse:         cfg.ExpandIfFalse,
		hasExpandIfEqual:      cfg.HasExpandIfEqual,
		expandIfEqualName:     cfg.ExpandIfEqualName,
		expandIfEqualValue:    cfg.ExpandIfEqualValue,
	}, nil
}

// canBeExpanded evaluates guards in the mandated order, stopping at the
// first rejection.
func (g *FlagGroup) canBeExpanded(scope variables.Scope) (bool, error) {
	for _, name := range g.expandIfAllAvailable {
		if !scope.IsAvailable(name) {
			return false, nil
		}
	}
	for _, name := range g.expandIfNoneAvailable {
		if scope.IsAvailable(name) {
			return false, nil
		}
	}
	if g.expandIfTrue != "" {
		if !scope.IsAvailable(g.expandIfTrue) {
			return false, nil
		}
		truthy, err := scope.IsTruthy(g.expandIfTrue)
		if err != nil {
			return false, &ExpansionFailedError{Reason: err.Error()}
		}
		if !truthy {
			return false, nil
		}
	}
	if g.expandIfFalse != "" {
		if !scope.IsAvailable(g.expandIfFalse) {
			return false, nil
		}
		truthy, err := scope.IsTruthy(g.expandIfFalse)
		if err != nil {
			return false, &ExpansionFailedError{Reason: err.Error()}
		}
		if truthy {
			return false, nil
		}
	}
	if g.hasExpandIfEqual {
		if !scope.IsAvailable(g.expandIfEqualName) {
			return false, nil
		}
		equal, err := scope.Equal(g.expandIfEqualName, g.expandIfEqualValue)
		if err != nil {
			return false, &ExpansionFailedError{Reason: err.Error()}
		}
		if !equal {
			return false, nil
		}
	}
	return true, nil
}

// Expand appends this group's contribution to out. It contributes zero
// arguments iff a guard rejects — the sole legitimate way to silence
// absence.
func (g *FlagGroup) Expand(scope variables.Scope, expander variables.Expander, out *[]string) error {
	ok, err := g.canBeExpanded(scope)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if g.iterateOver == "" {
		return g.expandChildren(scope, expander, out)
	}

	elements, err := scope.GetSequence(g.iterateOver, expander)
	if err != nil {
		return &ExpansionFailedError{Reason: err.Error()}
	}
	for _, element := range elements {
		inner := scope.Derive(g.iterateOver, element)
		if err := g.expandChildren(inner, expander, out); err != nil {
			return err
		}
	}
	return nil
}

func (g *FlagGroup) expandChildren(scope variables.Scope, expander variables.Expander, out *[]string) error {
	for _, child := range g.children {
		if err := child.expand(scope, expander, out); err != nil {
			return err
		}
	}
	return nil
}
