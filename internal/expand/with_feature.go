package expand

// WithFeatureSet is a positive/negative feature-name matcher: satisfied
// when every name in Features is enabled and no name in NotFeatures is.
type WithFeatureSet struct {
	Features    []string
	NotFeatures []string
}

func (w WithFeatureSet) satisfied(enabled func(string) bool) bool {
	for _, f := range w.Features {
		if !enabled(f) {
			return false
		}
	}
	for _, f := range w.NotFeatures {
		if enabled(f) {
			return false
		}
	}
	return true
}

// satisfiedByAny reports whether at least one predicate in sets is
// satisfied, or sets is empty.
func satisfiedByAny(sets []WithFeatureSet, enabled func(string) bool) bool {
	if len(sets) == 0 {
		return true
	}
	for _, s := range sets {
		if s.satisfied(enabled) {
			return true
		}
	}
	return false
}

// Satisfied is the exported form of satisfiedByAny, used by callers (tool
// resolution) outside this package that need the same with-feature-list
// semantics without owning a FlagSet or EnvSet.
func Satisfied(sets []WithFeatureSet, enabled func(string) bool) bool {
	return satisfiedByAny(sets, enabled)
}
