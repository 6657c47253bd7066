package hcltoolchain

import (
	"github.com/buildtool/ccfeatures/internal/cmdtemplate"
	"github.com/buildtool/ccfeatures/internal/expand"
	"github.com/buildtool/ccfeatures/internal/toolchain"
)

func convertWithFeatureSets(blocks []withFeatureBlock) []expand.WithFeatureSet {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]expand.WithFeatureSet, len(blocks))
	for i, b := range blocks {
		out[i] = expand.WithFeatureSet{Features: b.Features, NotFeatures: b.NotFeatures}
	}
	return out
}

func convertRequires(blocks []requiresBlock) []toolchain.RequirementClause {
	if len(blocks) == 0 {
		return nil
	}
	out := make([]toolchain.RequirementClause, len(blocks))
	for i, b := range blocks {
		out[i] = toolchain.RequirementClause(b.Features)
	}
	return out
}

func convertFlagGroup(b flagGroupBlock) (*expand.FlagGroup, error) {
	var children []expand.Node

	for _, f := range b.Flags {
		tmpl, err := cmdtemplate.Compile(f.Value)
		if err != nil {
			return nil, err
		}
		children = append(children, expand.FlagNode(expand.NewFlag(tmpl)))
	}
	for _, g := range b.Groups {
		child, err := convertFlagGroup(g)
		if err != nil {
			return nil, err
		}
		children = append(children, expand.GroupNode(child))
	}

	cfg := expand.FlagGroupConfig{
		Children:              children,
		IterateOver:           b.IterateOver,
		ExpandIfAllAvailable:  b.ExpandIfAllAvailable,
		ExpandIfNoneAvailable: b.ExpandIfNoneAvailable,
		ExpandIfTrue:          b.ExpandIfTrue,
		ExpandIfFalse:         b.ExpandIfFalse,
	}
	if b.ExpandIfEqual != nil {
		cfg.HasExpandIfEqual = true
		cfg.ExpandIfEqualName = b.ExpandIfEqual.Name
		cfg.ExpandIfEqualValue = b.ExpandIfEqual.Value
	}

	return expand.NewFlagGroup(cfg)
}

// convertFlagSet builds a FlagSetSpec from b. forActionConfig drops any
// "actions" attribute the grammar happened to carry, since an action
// config's flag sets are always scoped to its own action name.
func convertFlagSet(b flagSetBlock, forActionConfig bool) (toolchain.FlagSetSpec, error) {
	groups := make([]*expand.FlagGroup, len(b.Groups))
	for i, g := range b.Groups {
		group, err := convertFlagGroup(g)
		if err != nil {
			return toolchain.FlagSetSpec{}, err
		}
		groups[i] = group
	}

	spec := toolchain.FlagSetSpec{
		ExpandIfAllAvailable: b.ExpandIfAllAvailable,
		WithFeatureSets:      convertWithFeatureSets(b.WithFeatures),
		Groups:               groups,
	}
	if !forActionConfig {
		spec.Actions = b.Actions
	}
	return spec, nil
}

func convertEnvSet(b envSetBlock) (*expand.EnvSet, error) {
	entries := make([]expand.EnvEntry, len(b.Entries))
	for i, e := range b.Entries {
		tmpl, err := cmdtemplate.Compile(e.Value)
		if err != nil {
			return nil, err
		}
		entries[i] = expand.EnvEntry{Key: e.Key, Value: tmpl}
	}
	return expand.NewEnvSet(b.Actions, convertWithFeatureSets(b.WithFeatures), entries), nil
}

func convertFeature(b featureBlock) (toolchain.FeatureRecord, error) {
	flagSets := make([]toolchain.FlagSetSpec, len(b.FlagSets))
	for i, fs := range b.FlagSets {
		spec, err := convertFlagSet(fs, false)
		if err != nil {
			return toolchain.FeatureRecord{}, err
		}
		flagSets[i] = spec
	}

	envSets := make([]*expand.EnvSet, len(b.EnvSets))
	for i, es := range b.EnvSets {
		set, err := convertEnvSet(es)
		if err != nil {
			return toolchain.FeatureRecord{}, err
		}
		envSets[i] = set
	}

	return toolchain.FeatureRecord{
		Name:           b.Name,
		DefaultEnabled: b.Enabled,
		FlagSets:       flagSets,
		EnvSets:        envSets,
		Implies:        b.Implies,
		Requires:       convertRequires(b.Requires),
		Provides:       b.Provides,
	}, nil
}

func convertActionConfig(b actionConfigBlock) (toolchain.ActionConfigRecord, error) {
	tools := make([]toolchain.ToolSpec, len(b.Tools))
	for i, t := range b.Tools {
		tools[i] = toolchain.ToolSpec{
			ToolPath:              t.Path,
			ExecutionRequirements: t.ExecutionRequirements,
			WithFeatureSets:       convertWithFeatureSets(t.WithFeatures),
		}
	}

	flagSets := make([]toolchain.FlagSetSpec, len(b.FlagSets))
	for i, fs := range b.FlagSets {
		spec, err := convertFlagSet(fs, true)
		if err != nil {
			return toolchain.ActionConfigRecord{}, err
		}
		flagSets[i] = spec
	}

	return toolchain.ActionConfigRecord{
		ConfigName:     b.Name,
		ActionName:     b.ActionName,
		DefaultEnabled: b.Enabled,
		Tools:          tools,
		FlagSets:       flagSets,
		Implies:        b.Implies,
		Requires:       convertRequires(b.Requires),
		Provides:       b.Provides,
	}, nil
}

func convertArtifactNamePattern(b artifactNamePatternBlock) (toolchain.ArtifactNamePatternRecord, error) {
	tmpl, err := cmdtemplate.Compile(b.Pattern)
	if err != nil {
		return toolchain.ArtifactNamePatternRecord{}, err
	}
	return toolchain.ArtifactNamePatternRecord{Category: b.Category, Pattern: tmpl}, nil
}
