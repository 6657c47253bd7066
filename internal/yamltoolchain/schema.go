package yamltoolchain

// document is the top-level shape of a YAML toolchain description, the
// same record shape internal/hcltoolchain decodes from HCL — the
// selection engine only ever consumes a toolchain.ConfigurationRecord, so
// either front end can describe the same toolchain.
type document struct {
	Features             []featureDoc             `yaml:"features"`
	ActionConfigs        []actionConfigDoc        `yaml:"action_configs"`
	ArtifactNamePatterns []artifactNamePatternDoc `yaml:"artifact_name_patterns"`
}

type requiresDoc struct {
	Features []string `yaml:"features"`
}

type withFeatureDoc struct {
	Features    []string `yaml:"features"`
	NotFeatures []string `yaml:"not_features"`
}

type expandIfEqualDoc struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

type flagDoc struct {
	Value string `yaml:"value"`
}

type flagGroupDoc struct {
	IterateOver           string            `yaml:"iterate_over"`
	ExpandIfAllAvailable  []string          `yaml:"expand_if_all_available"`
	ExpandIfNoneAvailable []string          `yaml:"expand_if_none_available"`
	ExpandIfTrue          string            `yaml:"expand_if_true"`
	ExpandIfFalse         string            `yaml:"expand_if_false"`
	ExpandIfEqual         *expandIfEqualDoc `yaml:"expand_if_equal"`
	Flags                 []flagDoc         `yaml:"flags"`
	FlagGroups            []flagGroupDoc    `yaml:"flag_groups"`
}

type flagSetDoc struct {
	Actions              []string         `yaml:"actions"`
	ExpandIfAllAvailable []string         `yaml:"expand_if_all_available"`
	WithFeatures         []withFeatureDoc `yaml:"with_features"`
	FlagGroups           []flagGroupDoc   `yaml:"flag_groups"`
}

type envEntryDoc struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type envSetDoc struct {
	Actions      []string         `yaml:"actions"`
	WithFeatures []withFeatureDoc `yaml:"with_features"`
	Entries      []envEntryDoc    `yaml:"entries"`
}

type featureDoc struct {
	Name     string        `yaml:"name"`
	Enabled  bool          `yaml:"enabled"`
	Implies  []string      `yaml:"implies"`
	Provides []string      `yaml:"provides"`
	Requires []requiresDoc `yaml:"requires"`
	FlagSets []flagSetDoc  `yaml:"flag_sets"`
	EnvSets  []envSetDoc   `yaml:"env_sets"`
}

type toolDoc struct {
	Path                  string           `yaml:"path"`
	ExecutionRequirements []string         `yaml:"execution_requirements"`
	WithFeatures          []withFeatureDoc `yaml:"with_features"`
}

type actionConfigDoc struct {
	Name       string        `yaml:"name"`
	ActionName string        `yaml:"action_name"`
	Enabled    bool          `yaml:"enabled"`
	Implies    []string      `yaml:"implies"`
	Provides   []string      `yaml:"provides"`
	Requires   []requiresDoc `yaml:"requires"`
	Tools      []toolDoc     `yaml:"tools"`
	FlagSets   []flagSetDoc  `yaml:"flag_sets"`
}

type artifactNamePatternDoc struct {
	Category string `yaml:"category"`
	Pattern  string `yaml:"pattern"`
}
