package expand

import "github.com/buildtool/ccfeatures/internal/variables"

// FlagSet is a set of action names, an expandIfAllAvailable guard, a list
// of with-feature predicates, and an ordered list of flag groups.
type FlagSet struct {
	actions              map[string]bool
	expandIfAllAvailable []string
	withFeatureSets      []WithFeatureSet
	groups               []*FlagGroup
}

// NewFlagSet builds a FlagSet from an unordered action name list.
func NewFlagSet(actions []string, expandIfAllAvailable []string, withFeatureSets []WithFeatureSet, groups []*FlagGroup) *FlagSet {
	actionSet := make(map[string]bool, len(actions))
	for _, a := range actions {
		actionSet[a] = true
	}
	return &FlagSet{
		actions:              actionSet,
		expandIfAllAvailable: expandIfAllAvailable,
		withFeatureSets:      withFeatureSets,
		groups:               groups,
	}
}

// Expand appends this flag set's contribution to out for the given action,
// in the mandated check order: expandIfAllAvailable, with-feature
// predicates, action membership, then each flag group in declaration
// order.
func (fs *FlagSet) Expand(action string, scope variables.Scope, enabled func(string) bool, expander variables.Expander, out *[]string) error {
	for _, name := range fs.expandIfAllAvailable {
		if !scope.IsAvailable(name) {
			return nil
		}
	}
	if !satisfiedByAny(fs.withFeatureSets, enabled) {
		return nil
	}
	if !fs.actions[action] {
		return nil
	}
	for _, g := range fs.groups {
		if err := g.Expand(scope, expander, out); err != nil {
			return err
		}
	}
	return nil
}
