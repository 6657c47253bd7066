package featureconfig

import (
	"sort"
	"strings"

	"github.com/buildtool/ccfeatures/internal/toolchain"
)

// canonicalKey turns a requested-selectable-name set into a stable cache
// key. Insertion order in the caller's slice is irrelevant; duplicates
// collapse.
func canonicalKey(requested []string) string {
	set := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		set[name] = struct{}{}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "\x00")
}

// compute runs the fixed-point selection algorithm: union requested with
// defaults, close over implication, prune unsatisfied requirements and
// selectables an implication no longer justifies, cascade disablement back
// through anything whose implied target didn't survive, then check for
// provides collisions.
func compute(g *toolchain.Graph, requested []string, metrics MetricsRecorder) (*FeatureConfiguration, error) {
	n := g.Len()
	inBase := make([]bool, n)
	enabled := make([]bool, n)

	for _, name := range requested {
		if idx, ok := g.IndexByName(name); ok {
			inBase[idx] = true
		}
	}
	for _, idx := range g.Defaults() {
		inBase[idx] = true
	}
	copy(enabled, inBase)

	// Bounded by selectable count: each round either changes something or
	// the loop breaks, and a monotone quantity (enabled count adjusted by
	// direction) can't oscillate forever over a finite index space.
	for round := 0; round <= n; round++ {
		grew := closeImplications(g, enabled)
		shrankReq := pruneUnsatisfiedRequirements(g, enabled)
		shrankImplication := pruneBrokenImplications(g, enabled)
		shrankJustify := pruneUnjustified(g, enabled, inBase)
		if !grew && !shrankReq && !shrankImplication && !shrankJustify {
			break
		}
	}

	if err := checkProvidesCollisions(g, enabled); err != nil {
		return nil, err
	}

	return materialize(g, enabled, metrics), nil
}

func closeImplications(g *toolchain.Graph, enabled []bool) bool {
	changedOverall := false
	for {
		changed := false
		for idx := 0; idx < g.Len(); idx++ {
			if !enabled[idx] {
				continue
			}
			for _, target := range g.Implies(idx) {
				if !enabled[target] {
					enabled[target] = true
					changed = true
				}
			}
		}
		if !changed {
			return changedOverall
		}
		changedOverall = true
	}
}

func pruneUnsatisfiedRequirements(g *toolchain.Graph, enabled []bool) bool {
	changedOverall := false
	for {
		changed := false
		for idx := 0; idx < g.Len(); idx++ {
			if !enabled[idx] {
				continue
			}
			clauses := g.Requires(idx)
			if len(clauses) == 0 {
				continue
			}
			if !anyClauseSatisfied(clauses, enabled) {
				enabled[idx] = false
				changed = true
			}
		}
		if !changed {
			return changedOverall
		}
		changedOverall = true
	}
}

func anyClauseSatisfied(clauses [][]int, enabled []bool) bool {
	for _, clause := range clauses {
		satisfied := true
		for _, member := range clause {
			if !enabled[member] {
				satisfied = false
				break
			}
		}
		if satisfied {
			return true
		}
	}
	return false
}

// pruneBrokenImplications enforces implication monotonicity in the forward
// direction: if a implies b and a is enabled, b must be enabled too. When a
// later round disables b (an unsatisfied requirement, most commonly), any
// still-enabled a that implies it loses its own justification and must be
// disabled as well — with no base exemption, since the invariant makes no
// exception for a requested or default-enabled selectable.
func pruneBrokenImplications(g *toolchain.Graph, enabled []bool) bool {
	changedOverall := false
	for {
		changed := false
		for idx := 0; idx < g.Len(); idx++ {
			if !enabled[idx] {
				continue
			}
			for _, target := range g.Implies(idx) {
				if !enabled[target] {
					enabled[idx] = false
					changed = true
					break
				}
			}
		}
		if !changed {
			return changedOverall
		}
		changedOverall = true
	}
}

// pruneUnjustified disables a non-base selectable once none of its
// impliedBy sources remain enabled — the case where disabling a
// requirement-failed selectable removes the only reason something it
// implied was ever turned on.
func pruneUnjustified(g *toolchain.Graph, enabled, inBase []bool) bool {
	changedOverall := false
	for {
		changed := false
		for idx := 0; idx < g.Len(); idx++ {
			if !enabled[idx] || inBase[idx] {
				continue
			}
			justified := false
			for _, source := range g.ImpliedBy(idx) {
				if enabled[source] {
					justified = true
					break
				}
			}
			if !justified {
				enabled[idx] = false
				changed = true
			}
		}
		if !changed {
			return changedOverall
		}
		changedOverall = true
	}
}

// checkProvidesCollisions walks enabled selectables in declaration order
// so a reported collision names its selectables in the same order they
// were declared.
func checkProvidesCollisions(g *toolchain.Graph, enabled []bool) error {
	seen := make(map[string][]string)
	var order []string
	for idx := 0; idx < g.Len(); idx++ {
		if !enabled[idx] {
			continue
		}
		for _, symbol := range g.ProvidedBy(idx) {
			if _, ok := seen[symbol]; !ok {
				order = append(order, symbol)
			}
			seen[symbol] = append(seen[symbol], g.Selectable(idx).Name)
		}
	}
	for _, symbol := range order {
		providers := seen[symbol]
		if len(providers) > 1 {
			return &CollidingProvidesError{Symbol: symbol, Selectables: providers}
		}
	}
	return nil
}

func materialize(g *toolchain.Graph, enabled []bool, metrics MetricsRecorder) *FeatureConfiguration {
	var enabledFeatures []int
	enabledNames := make(map[string]bool)
	enabledActionNames := make(map[string]bool)
	actionConfigForAction := make(map[string]int)

	for idx := 0; idx < g.Len(); idx++ {
		if !enabled[idx] {
			continue
		}
		sel := g.Selectable(idx)
		enabledNames[sel.Name] = true
		switch sel.Kind {
		case toolchain.KindFeature:
			enabledFeatures = append(enabledFeatures, idx)
		case toolchain.KindActionConfig:
			enabledActionNames[sel.ActionName] = true
			actionConfigForAction[sel.ActionName] = idx
		}
	}

	return &FeatureConfiguration{
		graph:                 g,
		enabledFeatures:       enabledFeatures,
		enabledNames:          enabledNames,
		enabledActionNames:    enabledActionNames,
		actionConfigForAction: actionConfigForAction,
		metrics:               metrics,
	}
}
