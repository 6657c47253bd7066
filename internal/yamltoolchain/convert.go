package yamltoolchain

import (
	"github.com/buildtool/ccfeatures/internal/cmdtemplate"
	"github.com/buildtool/ccfeatures/internal/expand"
	"github.com/buildtool/ccfeatures/internal/toolchain"
)

func convertWithFeatureSets(docs []withFeatureDoc) []expand.WithFeatureSet {
	if len(docs) == 0 {
		return nil
	}
	out := make([]expand.WithFeatureSet, len(docs))
	for i, d := range docs {
		out[i] = expand.WithFeatureSet{Features: d.Features, NotFeatures: d.NotFeatures}
	}
	return out
}

func convertRequires(docs []requiresDoc) []toolchain.RequirementClause {
	if len(docs) == 0 {
		return nil
	}
	out := make([]toolchain.RequirementClause, len(docs))
	for i, d := range docs {
		out[i] = toolchain.RequirementClause(d.Features)
	}
	return out
}

func convertFlagGroup(d flagGroupDoc) (*expand.FlagGroup, error) {
	var children []expand.Node

	for _, f := range d.Flags {
		tmpl, err := cmdtemplate.Compile(f.Value)
		if err != nil {
			return nil, err
		}
		children = append(children, expand.FlagNode(expand.NewFlag(tmpl)))
	}
	for _, g := range d.FlagGroups {
		child, err := convertFlagGroup(g)
		if err != nil {
			return nil, err
		}
		children = append(children, expand.GroupNode(child))
	}

	cfg := expand.FlagGroupConfig{
		Children:              children,
		IterateOver:           d.IterateOver,
		ExpandIfAllAvailable:  d.ExpandIfAllAvailable,
		ExpandIfNoneAvailable: d.ExpandIfNoneAvailable,
		ExpandIfTrue:          d.ExpandIfTrue,
		ExpandIfFalse:         d.ExpandIfFalse,
	}
	if d.ExpandIfEqual != nil {
		cfg.HasExpandIfEqual = true
		cfg.ExpandIfEqualName = d.ExpandIfEqual.Name
		cfg.ExpandIfEqualValue = d.ExpandIfEqual.Value
	}

	return expand.NewFlagGroup(cfg)
}

func convertFlagSet(d flagSetDoc, forActionConfig bool) (toolchain.FlagSetSpec, error) {
	groups := make([]*expand.FlagGroup, len(d.FlagGroups))
	for i, g := range d.FlagGroups {
		group, err := convertFlagGroup(g)
		if err != nil {
			return toolchain.FlagSetSpec{}, err
		}
		groups[i] = group
	}

	spec := toolchain.FlagSetSpec{
		ExpandIfAllAvailable: d.ExpandIfAllAvailable,
		WithFeatureSets:      convertWithFeatureSets(d.WithFeatures),
		Groups:               groups,
	}
	if !forActionConfig {
		spec.Actions = d.Actions
	}
	return spec, nil
}

func convertEnvSet(d envSetDoc) (*expand.EnvSet, error) {
	entries := make([]expand.EnvEntry, len(d.Entries))
	for i, e := range d.Entries {
		tmpl, err := cmdtemplate.Compile(e.Value)
		if err != nil {
			return nil, err
		}
		entries[i] = expand.EnvEntry{Key: e.Key, Value: tmpl}
	}
	return expand.NewEnvSet(d.Actions, convertWithFeatureSets(d.WithFeatures), entries), nil
}

func convertFeature(d featureDoc) (toolchain.FeatureRecord, error) {
	flagSets := make([]toolchain.FlagSetSpec, len(d.FlagSets))
	for i, fs := range d.FlagSets {
		spec, err := convertFlagSet(fs, false)
		if err != nil {
			return toolchain.FeatureRecord{}, err
		}
		flagSets[i] = spec
	}

	envSets := make([]*expand.EnvSet, len(d.EnvSets))
	for i, es := range d.EnvSets {
		set, err := convertEnvSet(es)
		if err != nil {
			return toolchain.FeatureRecord{}, err
		}
		envSets[i] = set
	}

	return toolchain.FeatureRecord{
		Name:           d.Name,
		DefaultEnabled: d.Enabled,
		FlagSets:       flagSets,
		EnvSets:        envSets,
		Implies:        d.Implies,
		Requires:       convertRequires(d.Requires),
		Provides:       d.Provides,
	}, nil
}

func convertActionConfig(d actionConfigDoc) (toolchain.ActionConfigRecord, error) {
	tools := make([]toolchain.ToolSpec, len(d.Tools))
	for i, t := range d.Tools {
		tools[i] = toolchain.ToolSpec{
			ToolPath:              t.Path,
			ExecutionRequirements: t.ExecutionRequirements,
			WithFeatureSets:       convertWithFeatureSets(t.WithFeatures),
		}
	}

	flagSets := make([]toolchain.FlagSetSpec, len(d.FlagSets))
	for i, fs := range d.FlagSets {
		spec, err := convertFlagSet(fs, true)
		if err != nil {
			return toolchain.ActionConfigRecord{}, err
		}
		flagSets[i] = spec
	}

	return toolchain.ActionConfigRecord{
		ConfigName:     d.Name,
		ActionName:     d.ActionName,
		DefaultEnabled: d.Enabled,
		Tools:          tools,
		FlagSets:       flagSets,
		Implies:        d.Implies,
		Requires:       convertRequires(d.Requires),
		Provides:       d.Provides,
	}, nil
}

func convertArtifactNamePattern(d artifactNamePatternDoc) (toolchain.ArtifactNamePatternRecord, error) {
	tmpl, err := cmdtemplate.Compile(d.Pattern)
	if err != nil {
		return toolchain.ArtifactNamePatternRecord{}, err
	}
	return toolchain.ArtifactNamePatternRecord{Category: d.Category, Pattern: tmpl}, nil
}
