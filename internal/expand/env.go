package expand

import (
	"github.com/buildtool/ccfeatures/internal/cmdtemplate"
	"github.com/buildtool/ccfeatures/internal/variables"
)

// EnvEntry is a literal key plus a value template.
type EnvEntry struct {
	Key   string
	Value *cmdtemplate.Template
}

// EnvSet is a set of action names, an ordered list of env entries, and
// with-feature predicates, analogous to FlagSet.
type EnvSet struct {
	actions         map[string]bool
	withFeatureSets []WithFeatureSet
	entries         []EnvEntry
}

// NewEnvSet builds an EnvSet from an unordered action name list.
func NewEnvSet(actions []string, withFeatureSets []WithFeatureSet, entries []EnvEntry) *EnvSet {
	actionSet := make(map[string]bool, len(actions))
	for _, a := range actions {
		actionSet[a] = true
	}
	return &EnvSet{actions: actionSet, withFeatureSets: withFeatureSets, entries: entries}
}

// Expand appends this env set's entries into builder for the given action.
func (es *EnvSet) Expand(action string, scope variables.Scope, enabled func(string) bool, builder *EnvironmentBuilder) error {
	if !es.actions[action] {
		return nil
	}
	if !satisfiedByAny(es.withFeatureSets, enabled) {
		return nil
	}
	for _, entry := range es.entries {
		value, err := entry.Value.Expand(scope)
		if err != nil {
			return err
		}
		if err := builder.Put(entry.Key, value); err != nil {
			return err
		}
	}
	return nil
}

// EnvPair is one resolved (key, value) environment binding, in the order
// it was first written.
type EnvPair struct {
	Key   string
	Value string
}

// EnvironmentBuilder accumulates environment bindings in insertion order,
// rejecting a later write to a key that was already written. This
// preserves the source's throw-on-duplicate behavior rather than silently
// taking last-write.
type EnvironmentBuilder struct {
	order  []string
	values map[string]string
}

// NewEnvironmentBuilder returns an empty builder.
func NewEnvironmentBuilder() *EnvironmentBuilder {
	return &EnvironmentBuilder{values: make(map[string]string)}
}

// Put records key=value. It fails with *DuplicateEnvironmentKeyError if
// key was already written.
func (b *EnvironmentBuilder) Put(key, value string) error {
	if _, exists := b.values[key]; exists {
		return &DuplicateEnvironmentKeyError{Key: key}
	}
	b.values[key] = value
	b.order = append(b.order, key)
	return nil
}

// Pairs returns the accumulated bindings in insertion order.
func (b *EnvironmentBuilder) Pairs() []EnvPair {
	pairs := make([]EnvPair, len(b.order))
	for i, k := range b.order {
		pairs[i] = EnvPair{Key: k, Value: b.values[k]}
	}
	return pairs
}
