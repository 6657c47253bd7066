package featureconfig

import (
	"github.com/buildtool/ccfeatures/internal/expand"
	"github.com/buildtool/ccfeatures/internal/toolchain"
	"github.com/buildtool/ccfeatures/internal/variables"
)

// FeatureConfiguration is the immutable result of selecting a set of
// features and action configs against a Graph. It answers the questions a
// build action needs answered: which features are on, whether an action is
// configured at all, and what command line, environment, and tool that
// action resolves to.
type FeatureConfiguration struct {
	graph *toolchain.Graph

	enabledFeatures       []int
	enabledNames          map[string]bool
	enabledActionNames    map[string]bool
	actionConfigForAction map[string]int
	metrics               MetricsRecorder
}

var empty = &FeatureConfiguration{
	enabledNames:          map[string]bool{},
	enabledActionNames:    map[string]bool{},
	actionConfigForAction: map[string]int{},
	metrics:               noopMetrics{},
}

// Empty returns a configuration in which nothing is enabled. It is safe to
// share; every query on it reports the feature disabled or the action
// unconfigured.
func Empty() *FeatureConfiguration {
	return empty
}

// IsEnabled reports whether the named feature or action config is enabled
// in this configuration.
func (fc *FeatureConfiguration) IsEnabled(name string) bool {
	return fc.enabledNames[name]
}

// ActionIsConfigured reports whether an action config is enabled for the
// named action.
func (fc *FeatureConfiguration) ActionIsConfigured(action string) bool {
	return fc.enabledActionNames[action]
}

func (fc *FeatureConfiguration) enabledPredicate() func(string) bool {
	return fc.IsEnabled
}

// CommandLine expands the action's own action-config flag sets first,
// followed by every enabled feature's flag sets that apply to action in the
// order the features were declared, and returns the resulting argument
// list — the action config's contribution is prepended, not appended.
func (fc *FeatureConfiguration) CommandLine(action string, scope variables.Scope, expander variables.Expander) ([]string, error) {
	var out []string
	enabled := fc.enabledPredicate()
	fc.metrics.Expansion("command_line")

	if acIdx, ok := fc.actionConfigForAction[action]; ok {
		sel := fc.graph.Selectable(acIdx)
		for _, fs := range sel.FlagSets {
			if err := fs.Expand(action, scope, enabled, expander, &out); err != nil {
				return nil, err
			}
		}
	}

	for _, idx := range fc.enabledFeatures {
		sel := fc.graph.Selectable(idx)
		for _, fs := range sel.FlagSets {
			if err := fs.Expand(action, scope, enabled, expander, &out); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

// FeatureExpansion is one selectable's share of an action's command line,
// as returned by PerFeatureExpansions.
type FeatureExpansion struct {
	Feature string
	Flags   []string
}

// PerFeatureExpansions returns action's contribution broken out entry by
// entry instead of flattened: the active action config first (mirroring the
// prepended entry CommandLine produces), then every enabled feature in
// declaration order. An entry with no flags is still included — an empty
// contribution is itself information a caller may need to attribute.
func (fc *FeatureConfiguration) PerFeatureExpansions(action string, scope variables.Scope, expander variables.Expander) ([]FeatureExpansion, error) {
	enabled := fc.enabledPredicate()
	var out []FeatureExpansion

	if acIdx, ok := fc.actionConfigForAction[action]; ok {
		sel := fc.graph.Selectable(acIdx)
		var flags []string
		for _, fs := range sel.FlagSets {
			if err := fs.Expand(action, scope, enabled, expander, &flags); err != nil {
				return nil, err
			}
		}
		out = append(out, FeatureExpansion{Feature: sel.Name, Flags: flags})
	}

	for _, idx := range fc.enabledFeatures {
		sel := fc.graph.Selectable(idx)
		var flags []string
		for _, fs := range sel.FlagSets {
			if err := fs.Expand(action, scope, enabled, expander, &flags); err != nil {
				return nil, err
			}
		}
		out = append(out, FeatureExpansion{Feature: sel.Name, Flags: flags})
	}

	return out, nil
}

// Environment expands every enabled feature's environment sets that apply
// to action and returns the resulting bindings in insertion order.
func (fc *FeatureConfiguration) Environment(action string, scope variables.Scope) ([]expand.EnvPair, error) {
	fc.metrics.Expansion("environment")
	builder := expand.NewEnvironmentBuilder()
	enabled := fc.enabledPredicate()
	for _, idx := range fc.enabledFeatures {
		sel := fc.graph.Selectable(idx)
		for _, es := range sel.EnvSets {
			if err := es.Expand(action, scope, enabled, builder); err != nil {
				return nil, err
			}
		}
	}
	return builder.Pairs(), nil
}

// ToolForAction returns the first tool whose with-feature set is satisfied,
// in the action config's declared tool order. It fails with
// *NoMatchingToolError if the action has no configured action config, or if
// none of its tools match.
func (fc *FeatureConfiguration) ToolForAction(action string) (*toolchain.Tool, error) {
	acIdx, ok := fc.actionConfigForAction[action]
	if !ok {
		return nil, &NoMatchingToolError{Action: action, Reason: "action is not configured"}
	}
	sel := fc.graph.Selectable(acIdx)
	enabled := fc.enabledPredicate()
	for _, tool := range sel.Tools {
		if tool.Matches(enabled) {
			return tool, nil
		}
	}
	return nil, &NoMatchingToolError{Action: action, Reason: "no tool's with-feature set is satisfied"}
}
