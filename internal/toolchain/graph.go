// Package toolchain implements the Selectable Graph: the set of features
// and action configs plus the implies/requires/provides relations over
// them. The graph is built once from a ConfigurationRecord and never
// mutated afterward, which is what lets Graph be shared across concurrent
// readers without a lock — every relation is precomputed adjacency over
// integer indices, not a live object-reference multimap.
package toolchain

import (
	"fmt"

	"github.com/buildtool/ccfeatures/internal/cmdtemplate"
	"github.com/buildtool/ccfeatures/internal/expand"
)

// Graph is the immutable selectable graph built from a ConfigurationRecord.
type Graph struct {
	selectables []*Selectable
	byName      map[string]int
	actionIndex map[string]int

	implies    [][]int
	impliedBy  [][]int
	requires   [][][]int
	requiredBy [][]int

	provides   map[string][]int
	providedBy [][]string

	defaults []int

	artifactPatterns map[string]*cmdtemplate.Template
}

// Build validates record and constructs a Graph. toolRoot is the toolchain
// root every action config's tool paths are resolved relative to. Build
// fails with *InvalidConfigurationError for any of: a duplicate selectable
// name, a duplicate action name, an action-config flag set naming actions
// explicitly, or a name referenced by implies/requires/a tool's
// with-feature set that doesn't resolve to a known selectable.
func Build(record ConfigurationRecord, toolRoot string) (*Graph, error) {
	g := &Graph{
		byName:           make(map[string]int),
		actionIndex:      make(map[string]int),
		provides:         make(map[string][]int),
		artifactPatterns: make(map[string]*cmdtemplate.Template),
	}

	var impliesNames [][]string
	var requiresNames [][]RequirementClause

	for _, f := range record.Features {
		if _, dup := g.byName[f.Name]; dup {
			return nil, &InvalidConfigurationError{Reason: fmt.Sprintf("duplicate selectable name %q", f.Name)}
		}
		flagSets := buildFlagSets(f.FlagSets)
		idx := len(g.selectables)
		g.selectables = append(g.selectables, &Selectable{
			Kind:           KindFeature,
			Name:           f.Name,
			FlagSets:       flagSets,
			EnvSets:        f.EnvSets,
			DefaultEnabled: f.DefaultEnabled,
			Provides:       f.Provides,
		})
		g.byName[f.Name] = idx
		impliesNames = append(impliesNames, f.Implies)
		requiresNames = append(requiresNames, f.Requires)
	}

	for _, a := range record.ActionConfigs {
		if _, dup := g.byName[a.ConfigName]; dup {
			return nil, &InvalidConfigurationError{Reason: fmt.Sprintf("duplicate selectable name %q", a.ConfigName)}
		}
		if _, dup := g.actionIndex[a.ActionName]; dup {
			return nil, &InvalidConfigurationError{Reason: fmt.Sprintf("duplicate action name %q", a.ActionName)}
		}
		for _, spec := range a.FlagSets {
			if len(spec.Actions) != 0 {
				return nil, &InvalidConfigurationError{Reason: fmt.Sprintf("action config %q flag set must not name actions; the action is implicit", a.ConfigName)}
			}
		}
		flagSets := buildActionConfigFlagSets(a.ActionName, a.FlagSets)
		tools := make([]*Tool, len(a.Tools))
		for i, spec := range a.Tools {
			tools[i] = NewTool(toolRoot, spec.ToolPath, spec.ExecutionRequirements, spec.WithFeatureSets)
		}
		idx := len(g.selectables)
		g.selectables = append(g.selectables, &Selectable{
			Kind:           KindActionConfig,
			Name:           a.ConfigName,
			ActionName:     a.ActionName,
			FlagSets:       flagSets,
			Tools:          tools,
			DefaultEnabled: a.DefaultEnabled,
			Provides:       a.Provides,
		})
		g.byName[a.ConfigName] = idx
		g.actionIndex[a.ActionName] = idx
		impliesNames = append(impliesNames, a.Implies)
		requiresNames = append(requiresNames, a.Requires)
	}

	for _, p := range record.ArtifactNamePatterns {
		g.artifactPatterns[p.Category] = p.Pattern
	}

	n := len(g.selectables)
	g.implies = make([][]int, n)
	g.impliedBy = make([][]int, n)
	g.requires = make([][][]int, n)
	g.requiredBy = make([][]int, n)
	g.providedBy = make([][]string, n)

	for idx, names := range impliesNames {
		for _, name := range names {
			target, ok := g.byName[name]
			if !ok {
				return nil, &InvalidConfigurationError{Reason: fmt.Sprintf("%q implies unknown selectable %q", g.selectables[idx].Name, name)}
			}
			g.implies[idx] = append(g.implies[idx], target)
			g.impliedBy[target] = append(g.impliedBy[target], idx)
		}
	}

	for idx, clauses := range requiresNames {
		for _, clause := range clauses {
			resolved := make([]int, 0, len(clause))
			for _, name := range clause {
				target, ok := g.byName[name]
				if !ok {
					return nil, &InvalidConfigurationError{Reason: fmt.Sprintf("%q requires unknown selectable %q", g.selectables[idx].Name, name)}
				}
				resolved = append(resolved, target)
				g.requiredBy[target] = append(g.requiredBy[target], idx)
			}
			g.requires[idx] = append(g.requires[idx], resolved)
		}
	}

	for idx, sel := range g.selectables {
		if sel.Kind == KindActionConfig {
			for _, tool := range sel.Tools {
				for _, wfs := range tool.withFeatureSetNames() {
					for _, name := range append(append([]string{}, wfs.Features...), wfs.NotFeatures...) {
						if _, ok := g.byName[name]; !ok {
							return nil, &InvalidConfigurationError{Reason: fmt.Sprintf("tool for %q has a with-feature set referencing unknown selectable %q", sel.Name, name)}
						}
					}
				}
			}
		}
		for _, symbol := range sel.Provides {
			g.provides[symbol] = append(g.provides[symbol], idx)
			g.providedBy[idx] = append(g.providedBy[idx], symbol)
		}
		if sel.DefaultEnabled {
			g.defaults = append(g.defaults, idx)
		}
	}

	return g, nil
}

func buildFlagSets(specs []FlagSetSpec) []*expand.FlagSet {
	out := make([]*expand.FlagSet, len(specs))
	for i, spec := range specs {
		out[i] = expand.NewFlagSet(spec.Actions, spec.ExpandIfAllAvailable, spec.WithFeatureSets, spec.Groups)
	}
	return out
}

// buildActionConfigFlagSets builds flag sets whose actions field is
// implicitly the owning action config's action name — spec.Actions is
// validated empty by the caller before this runs.
func buildActionConfigFlagSets(actionName string, specs []FlagSetSpec) []*expand.FlagSet {
	out := make([]*expand.FlagSet, len(specs))
	for i, spec := range specs {
		out[i] = expand.NewFlagSet([]string{actionName}, spec.ExpandIfAllAvailable, spec.WithFeatureSets, spec.Groups)
	}
	return out
}

// Len returns the number of selectables in the graph.
func (g *Graph) Len() int {
	return len(g.selectables)
}

// IndexByName returns the index of the selectable named name.
func (g *Graph) IndexByName(name string) (int, bool) {
	idx, ok := g.byName[name]
	return idx, ok
}

// IndexByAction returns the index of the action config bound to action.
func (g *Graph) IndexByAction(action string) (int, bool) {
	idx, ok := g.actionIndex[action]
	return idx, ok
}

// Selectable returns the selectable at idx.
func (g *Graph) Selectable(idx int) *Selectable {
	return g.selectables[idx]
}

// Implies returns the indices idx implies.
func (g *Graph) Implies(idx int) []int {
	return g.implies[idx]
}

// ImpliedBy returns the indices that imply idx.
func (g *Graph) ImpliedBy(idx int) []int {
	return g.impliedBy[idx]
}

// Requires returns idx's requirement clauses; each clause is a
// conjunction of indices, and the requirement is satisfied if any one
// clause is fully enabled.
func (g *Graph) Requires(idx int) [][]int {
	return g.requires[idx]
}

// RequiredBy returns the indices whose requirement clauses mention idx.
func (g *Graph) RequiredBy(idx int) []int {
	return g.requiredBy[idx]
}

// Provides returns the indices that provide symbol.
func (g *Graph) Provides(symbol string) []int {
	return g.provides[symbol]
}

// ProvidedBy returns the symbols idx provides.
func (g *Graph) ProvidedBy(idx int) []string {
	return g.providedBy[idx]
}

// Defaults returns the indices of default-enabled selectables, in
// declaration order.
func (g *Graph) Defaults() []int {
	return g.defaults
}

// Pattern returns the artifact-name-pattern template configured for
// category, if any.
func (g *Graph) Pattern(category string) (*cmdtemplate.Template, bool) {
	p, ok := g.artifactPatterns[category]
	return p, ok
}
