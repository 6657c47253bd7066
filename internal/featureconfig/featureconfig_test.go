package featureconfig

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtool/ccfeatures/internal/cmdtemplate"
	"github.com/buildtool/ccfeatures/internal/expand"
	"github.com/buildtool/ccfeatures/internal/toolchain"
	"github.com/buildtool/ccfeatures/internal/variables"
)

func compile(t *testing.T, pattern string) *cmdtemplate.Template {
	t.Helper()
	tmpl, err := cmdtemplate.Compile(pattern)
	require.NoError(t, err)
	return tmpl
}

func groupOf(t *testing.T, pattern string) []expand.Node {
	t.Helper()
	return []expand.Node{expand.FlagNode(expand.NewFlag(compile(t, pattern)))}
}

func flagSet(t *testing.T, action, pattern string) toolchain.FlagSetSpec {
	group, err := expand.NewFlagGroup(expand.FlagGroupConfig{Children: groupOf(t, pattern)})
	require.NoError(t, err)
	return toolchain.FlagSetSpec{
		Actions: []string{action},
		Groups:  []*expand.FlagGroup{group},
	}
}

func TestSelectionEnablesDefaultsAndClosesImplications(t *testing.T) {
	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{
			{Name: "opt", DefaultEnabled: true, Implies: []string{"strip"}},
			{Name: "strip"},
		},
	}, "/usr/bin")
	require.NoError(t, err)

	fc, err := engine.Select(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, fc.IsEnabled("opt"))
	assert.True(t, fc.IsEnabled("strip"))
}

func TestSelectionCascadesDisablementThroughImplicationWhenRequirementFails(t *testing.T) {
	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{
			{Name: "lto", Implies: []string{"thinlto"}},
			{Name: "thinlto", Requires: []toolchain.RequirementClause{{"has_linker_support"}}},
			{Name: "has_linker_support"},
		},
	}, "/usr/bin")
	require.NoError(t, err)

	fc, err := engine.Select(context.Background(), []string{"lto"})
	require.NoError(t, err)
	assert.False(t, fc.IsEnabled("thinlto"), "thinlto's requirement is unsatisfied")
	assert.False(t, fc.IsEnabled("lto"), "lto implies thinlto, which is disabled, so lto must be disabled too")
}

func TestSelectionRequestedFeatureSurvivesEvenIfNoLongerImplied(t *testing.T) {
	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{
			{Name: "sanitizers", Implies: []string{"debug"}, Requires: []toolchain.RequirementClause{{"sanitizer_runtime"}}},
			{Name: "debug"},
			{Name: "sanitizer_runtime"},
		},
	}, "/usr/bin")
	require.NoError(t, err)

	fc, err := engine.Select(context.Background(), []string{"sanitizers", "debug"})
	require.NoError(t, err)
	assert.False(t, fc.IsEnabled("sanitizers"), "sanitizers' requirement is unsatisfied")
	assert.True(t, fc.IsEnabled("debug"), "debug was requested, so it stays enabled without sanitizers implying it")
}

func TestSelectionCollidingProvides(t *testing.T) {
	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{
			{Name: "gcc", Provides: []string{"compiler"}},
			{Name: "clang", Provides: []string{"compiler"}},
		},
	}, "/usr/bin")
	require.NoError(t, err)

	_, err = engine.Select(context.Background(), []string{"gcc", "clang"})
	require.Error(t, err)
	var collErr *CollidingProvidesError
	require.ErrorAs(t, err, &collErr)
	assert.Equal(t, "compiler", collErr.Symbol)
	assert.Equal(t, []string{"gcc", "clang"}, collErr.Selectables)
}

func TestSelectionIsCachedAndCanonicalOverOrderAndDuplicates(t *testing.T) {
	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{{Name: "a"}, {Name: "b"}},
	}, "/usr/bin")
	require.NoError(t, err)

	first, err := engine.Select(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	second, err := engine.Select(context.Background(), []string{"b", "a", "a"})
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCommandLineExpandsEnabledFeaturesInDeclarationOrder(t *testing.T) {
	includes, err := expand.NewFlagGroup(expand.FlagGroupConfig{
		IterateOver: "include_paths",
		Children:    groupOf(t, "-I%{include_paths}"),
	})
	require.NoError(t, err)

	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{
			{
				Name:           "include_paths",
				DefaultEnabled: true,
				FlagSets: []toolchain.FlagSetSpec{{
					Actions: []string{"c++-compile"},
					Groups:  []*expand.FlagGroup{includes},
				}},
			},
			{
				Name:           "opt",
				DefaultEnabled: true,
				FlagSets:       []toolchain.FlagSetSpec{flagSet(t, "c++-compile", "-O2")},
			},
		},
	}, "/usr/bin")
	require.NoError(t, err)

	fc, err := engine.Select(context.Background(), nil)
	require.NoError(t, err)

	scope := variables.NewScope(map[string]variables.Value{
		"include_paths": variables.Sequence([]variables.Value{variables.String("a"), variables.String("b/c")}),
	})
	args, err := fc.CommandLine("c++-compile", scope, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"-Ia", "-Ib/c", "-O2"}, args)
}

func TestCommandLineOmitsFlagsForOtherActions(t *testing.T) {
	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{
			{
				Name:           "opt",
				DefaultEnabled: true,
				FlagSets:       []toolchain.FlagSetSpec{flagSet(t, "c++-compile", "-O2")},
			},
		},
	}, "/usr/bin")
	require.NoError(t, err)

	fc, err := engine.Select(context.Background(), nil)
	require.NoError(t, err)

	args, err := fc.CommandLine("c++-link", variables.Empty(), nil)
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestEnvironmentExpandsEnabledFeatures(t *testing.T) {
	envSet := expand.NewEnvSet(
		[]string{"c++-compile"},
		nil,
		[]expand.EnvEntry{{Key: "SYSROOT", Value: compile(t, "/opt/%{sdk}")}},
	)
	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{
			{Name: "sysroot", DefaultEnabled: true, EnvSets: []*expand.EnvSet{envSet}},
		},
	}, "/usr/bin")
	require.NoError(t, err)

	fc, err := engine.Select(context.Background(), nil)
	require.NoError(t, err)

	scope := variables.NewScope(map[string]variables.Value{"sdk": variables.String("macosx")})
	pairs, err := fc.Environment("c++-compile", scope)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, expand.EnvPair{Key: "SYSROOT", Value: "/opt/macosx"}, pairs[0])
}

func TestToolForActionPicksFirstMatchingWithFeatureSet(t *testing.T) {
	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{{Name: "asan"}},
		ActionConfigs: []toolchain.ActionConfigRecord{
			{
				ConfigName:     "cxx-link",
				ActionName:     "c++-link",
				DefaultEnabled: true,
				Tools: []toolchain.ToolSpec{
					{ToolPath: "clang++-asan", WithFeatureSets: []expand.WithFeatureSet{{Features: []string{"asan"}}}},
					{ToolPath: "clang++"},
				},
			},
		},
	}, "/usr/bin")
	require.NoError(t, err)

	fc, err := engine.Select(context.Background(), []string{"asan"})
	require.NoError(t, err)
	require.True(t, fc.ActionIsConfigured("c++-link"))

	tool, err := fc.ToolForAction("c++-link")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/clang++-asan", tool.Path())

	fc2, err := engine.Select(context.Background(), nil)
	require.NoError(t, err)
	tool2, err := fc2.ToolForAction("c++-link")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/clang++", tool2.Path())
}

func TestToolForActionFailsWhenActionNotConfigured(t *testing.T) {
	engine, err := Build(toolchain.ConfigurationRecord{}, "/usr/bin")
	require.NoError(t, err)

	fc, err := engine.Select(context.Background(), nil)
	require.NoError(t, err)

	_, err = fc.ToolForAction("c++-link")
	require.Error(t, err)
	var noToolErr *NoMatchingToolError
	require.ErrorAs(t, err, &noToolErr)
}

func TestArtifactNameStripsLeadingSlashAndBindsBaseAndDirectory(t *testing.T) {
	engine, err := Build(toolchain.ConfigurationRecord{
		ArtifactNamePatterns: []toolchain.ArtifactNamePatternRecord{
			{Category: "object_file", Pattern: compile(t, "/%{output_directory}/%{base_name}.o")},
		},
	}, "/usr/bin")
	require.NoError(t, err)

	name, err := engine.ArtifactName("object_file", "pkg/foo.cc")
	require.NoError(t, err)
	assert.Equal(t, "pkg/foo.cc.o", name)
}

func TestArtifactNameFailsForUnconfiguredCategory(t *testing.T) {
	engine, err := Build(toolchain.ConfigurationRecord{}, "/usr/bin")
	require.NoError(t, err)

	_, err = engine.ArtifactName("object_file", "foo.cc")
	require.Error(t, err)
	var missingErr *MissingArtifactPatternError
	require.ErrorAs(t, err, &missingErr)
}

func TestDefaultsReflectsGraphDeclarationOrder(t *testing.T) {
	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{
			{Name: "a", DefaultEnabled: true},
			{Name: "b"},
			{Name: "c", DefaultEnabled: true},
		},
	}, "/usr/bin")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, engine.Defaults())
}

func TestEmptyConfigurationEnablesNothing(t *testing.T) {
	fc := Empty()
	assert.False(t, fc.IsEnabled("anything"))
	assert.False(t, fc.ActionIsConfigured("c++-link"))
	_, err := fc.ToolForAction("c++-link")
	require.Error(t, err)
}

type recordingMetrics struct {
	hits, misses int
	expansions   []string
}

func (m *recordingMetrics) CacheHit()             { m.hits++ }
func (m *recordingMetrics) CacheMiss()            { m.misses++ }
func (m *recordingMetrics) Expansion(kind string) { m.expansions = append(m.expansions, kind) }

func TestMetricsRecordsCacheHitsAndMisses(t *testing.T) {
	m := &recordingMetrics{}
	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{{Name: "a"}},
	}, "/usr/bin", WithMetrics(m))
	require.NoError(t, err)

	_, err = engine.Select(context.Background(), []string{"a"})
	require.NoError(t, err)
	_, err = engine.Select(context.Background(), []string{"a"})
	require.NoError(t, err)

	assert.Equal(t, 1, m.misses)
	assert.Equal(t, 1, m.hits)
}

func TestMetricsRecordsEveryExpansionKind(t *testing.T) {
	m := &recordingMetrics{}
	engine, err := Build(toolchain.ConfigurationRecord{
		Features: []toolchain.FeatureRecord{{Name: "a", DefaultEnabled: true}},
		ArtifactNamePatterns: []toolchain.ArtifactNamePatternRecord{
			{Category: "object_file", Pattern: compile(t, "/%{output_directory}/%{base_name}.o")},
		},
	}, "/usr/bin", WithMetrics(m))
	require.NoError(t, err)

	fc, err := engine.Select(context.Background(), nil)
	require.NoError(t, err)

	_, err = fc.CommandLine("c++-compile", variables.Empty(), nil)
	require.NoError(t, err)
	_, err = fc.Environment("c++-compile", variables.Empty())
	require.NoError(t, err)
	_, err = engine.ArtifactName("object_file", "pkg/foo.cc")
	require.NoError(t, err)

	assert.Equal(t, []string{"command_line", "environment", "artifact_name"}, m.expansions)
}
