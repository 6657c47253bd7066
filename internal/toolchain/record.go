package toolchain

import (
	"github.com/buildtool/ccfeatures/internal/cmdtemplate"
	"github.com/buildtool/ccfeatures/internal/expand"
)

// FlagSetSpec is the not-yet-built form of a flag set inside a
// configuration record. For a feature, Actions is whatever the
// configuration declares. For an action config, Actions MUST be empty —
// Build rejects it otherwise, since an action config's flag sets are
// implicitly scoped to its own action name.
type FlagSetSpec struct {
	Actions              []string
	ExpandIfAllAvailable []string
	WithFeatureSets      []expand.WithFeatureSet
	Groups               []*expand.FlagGroup
}

// RequirementClause is one conjunction of selectable names; a selectable's
// requirement is satisfied if any one of its clauses is fully enabled.
type RequirementClause []string

// FeatureRecord is the input form of a feature selectable.
type FeatureRecord struct {
	Name           string
	DefaultEnabled bool
	FlagSets       []FlagSetSpec
	EnvSets        []*expand.EnvSet
	Implies        []string
	Requires       []RequirementClause
	Provides       []string
}

// ToolSpec is the not-yet-resolved form of a tool: its path is relative to
// the toolchain root supplied to Build, resolved there the same way the
// original resolves a tool path relative to its crosstool top.
type ToolSpec struct {
	ToolPath              string
	ExecutionRequirements []string
	WithFeatureSets       []expand.WithFeatureSet
}

// ActionConfigRecord is the input form of an action-config selectable.
type ActionConfigRecord struct {
	ConfigName     string
	ActionName     string
	DefaultEnabled bool
	Tools          []ToolSpec
	FlagSets       []FlagSetSpec
	Implies        []string
	Requires       []RequirementClause
	Provides       []string
}

// ArtifactNamePatternRecord binds an artifact category to a naming
// template.
type ArtifactNamePatternRecord struct {
	Category string
	Pattern  *cmdtemplate.Template
}

// ConfigurationRecord is the already-deserialized in-memory form of a
// toolchain description: the parser producing it is an external
// collaborator this module does not implement.
type ConfigurationRecord struct {
	Features             []FeatureRecord
	ActionConfigs        []ActionConfigRecord
	ArtifactNamePatterns []ArtifactNamePatternRecord
}
