package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildtool/ccfeatures/internal/expand"
)

func TestBuildRejectsDuplicateSelectableName(t *testing.T) {
	_, err := Build(ConfigurationRecord{
		Features: []FeatureRecord{{Name: "gcc"}, {Name: "gcc"}},
	}, "/usr/bin")
	require.Error(t, err)
	var cfgErr *InvalidConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBuildRejectsDuplicateActionName(t *testing.T) {
	_, err := Build(ConfigurationRecord{
		ActionConfigs: []ActionConfigRecord{
			{ConfigName: "link1", ActionName: "c++-link"},
			{ConfigName: "link2", ActionName: "c++-link"},
		},
	}, "/usr/bin")
	require.Error(t, err)
	var cfgErr *InvalidConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBuildRejectsActionConfigFlagSetNamingActions(t *testing.T) {
	_, err := Build(ConfigurationRecord{
		ActionConfigs: []ActionConfigRecord{
			{
				ConfigName: "link",
				ActionName: "c++-link",
				FlagSets: []FlagSetSpec{
					{Actions: []string{"c++-link"}},
				},
			},
		},
	}, "/usr/bin")
	require.Error(t, err)
}

func TestBuildRejectsDanglingImplies(t *testing.T) {
	_, err := Build(ConfigurationRecord{
		Features: []FeatureRecord{{Name: "a", Implies: []string{"nope"}}},
	}, "/usr/bin")
	require.Error(t, err)
}

func TestBuildRejectsDanglingRequires(t *testing.T) {
	_, err := Build(ConfigurationRecord{
		Features: []FeatureRecord{{Name: "a", Requires: []RequirementClause{{"nope"}}}},
	}, "/usr/bin")
	require.Error(t, err)
}

func TestBuildRejectsDanglingToolWithFeatureSet(t *testing.T) {
	_, err := Build(ConfigurationRecord{
		ActionConfigs: []ActionConfigRecord{
			{
				ConfigName: "link",
				ActionName: "c++-link",
				Tools: []ToolSpec{
					{ToolPath: "ld", WithFeatureSets: []expand.WithFeatureSet{{Features: []string{"nope"}}}},
				},
			},
		},
	}, "/usr/bin")
	require.Error(t, err)
}

func TestBuildRelationsAndDefaults(t *testing.T) {
	g, err := Build(ConfigurationRecord{
		Features: []FeatureRecord{
			{Name: "a", DefaultEnabled: true, Implies: []string{"b"}},
			{Name: "b"},
			{Name: "c", Requires: []RequirementClause{{"b"}}},
			{Name: "gcc", Provides: []string{"compiler"}},
			{Name: "clang", Provides: []string{"compiler"}},
		},
	}, "/usr/bin")
	require.NoError(t, err)

	aIdx, _ := g.IndexByName("a")
	bIdx, _ := g.IndexByName("b")
	cIdx, _ := g.IndexByName("c")

	assert.Equal(t, []int{bIdx}, g.Implies(aIdx))
	assert.Equal(t, []int{aIdx}, g.ImpliedBy(bIdx))
	assert.Equal(t, [][]int{{bIdx}}, g.Requires(cIdx))
	assert.Contains(t, g.RequiredBy(bIdx), cIdx)
	assert.Equal(t, []int{aIdx}, g.Defaults())

	gccIdx, _ := g.IndexByName("gcc")
	clangIdx, _ := g.IndexByName("clang")
	assert.ElementsMatch(t, []int{gccIdx, clangIdx}, g.Provides("compiler"))
}

func TestToolPathResolution(t *testing.T) {
	tool := NewTool("/usr/bin", "gcc", []string{"requires-sandbox"}, nil)
	assert.Equal(t, "/usr/bin/gcc", tool.Path())
	assert.Equal(t, []string{"requires-sandbox"}, tool.ExecutionRequirements())
}
