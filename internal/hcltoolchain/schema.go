package hcltoolchain

// fileConfig is the top-level shape of a single toolchain description file.
// Several files may each declare a partial set of blocks; Decode
// concatenates them into one toolchain.ConfigurationRecord.
type fileConfig struct {
	Features             []featureBlock             `hcl:"feature,block"`
	ActionConfigs        []actionConfigBlock        `hcl:"action_config,block"`
	ArtifactNamePatterns []artifactNamePatternBlock `hcl:"artifact_name_pattern,block"`
}

type requiresBlock struct {
	Features []string `hcl:"features,optional"`
}

type withFeatureBlock struct {
	Features    []string `hcl:"features,optional"`
	NotFeatures []string `hcl:"not_features,optional"`
}

type expandIfEqualBlock struct {
	Name  string `hcl:"name"`
	Value string `hcl:"value"`
}

type flagBlock struct {
	Value string `hcl:"value"`
}

// flagGroupBlock is recursive: a group's children are either "flag" blocks
// or nested "flag_group" blocks, never both — enforced downstream by
// expand.NewFlagGroup, not by the grammar itself.
type flagGroupBlock struct {
	IterateOver           string               `hcl:"iterate_over,optional"`
	ExpandIfAllAvailable  []string             `hcl:"expand_if_all_available,optional"`
	ExpandIfNoneAvailable []string             `hcl:"expand_if_none_available,optional"`
	ExpandIfTrue          string               `hcl:"expand_if_true,optional"`
	ExpandIfFalse         string               `hcl:"expand_if_false,optional"`
	ExpandIfEqual         *expandIfEqualBlock  `hcl:"expand_if_equal,block"`
	Flags                 []flagBlock          `hcl:"flag,block"`
	Groups                []flagGroupBlock     `hcl:"flag_group,block"`
}

type flagSetBlock struct {
	Actions              []string           `hcl:"actions,optional"`
	ExpandIfAllAvailable []string           `hcl:"expand_if_all_available,optional"`
	WithFeatures         []withFeatureBlock `hcl:"with_feature,block"`
	Groups               []flagGroupBlock   `hcl:"flag_group,block"`
}

type envEntryBlock struct {
	Key   string `hcl:"key"`
	Value string `hcl:"value"`
}

type envSetBlock struct {
	Actions      []string           `hcl:"actions,optional"`
	WithFeatures []withFeatureBlock `hcl:"with_feature,block"`
	Entries      []envEntryBlock    `hcl:"env_entry,block"`
}

type featureBlock struct {
	Name     string          `hcl:"name,label"`
	Enabled  bool            `hcl:"enabled,optional"`
	Implies  []string        `hcl:"implies,optional"`
	Provides []string        `hcl:"provides,optional"`
	Requires []requiresBlock `hcl:"requires,block"`
	FlagSets []flagSetBlock  `hcl:"flag_set,block"`
	EnvSets  []envSetBlock   `hcl:"env_set,block"`
}

type toolBlock struct {
	Path                  string             `hcl:"path"`
	ExecutionRequirements []string           `hcl:"execution_requirements,optional"`
	WithFeatures          []withFeatureBlock `hcl:"with_feature,block"`
}

// actionConfigBlock's flag_set blocks share flagSetBlock, so the grammar
// accepts an "actions" attribute there; convertFlagSet discards it, since
// the action is implicit from ActionName. The decoded record therefore
// never reaches toolchain.Build with actions on an action-config flag set.
type actionConfigBlock struct {
	Name       string          `hcl:"name,label"`
	ActionName string          `hcl:"action_name"`
	Enabled    bool            `hcl:"enabled,optional"`
	Implies    []string        `hcl:"implies,optional"`
	Provides   []string        `hcl:"provides,optional"`
	Requires   []requiresBlock `hcl:"requires,block"`
	Tools      []toolBlock     `hcl:"tool,block"`
	FlagSets   []flagSetBlock  `hcl:"flag_set,block"`
}

type artifactNamePatternBlock struct {
	Category string `hcl:"name,label"`
	Pattern  string `hcl:"pattern"`
}
