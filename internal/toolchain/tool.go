package toolchain

import (
	"path"

	"github.com/buildtool/ccfeatures/internal/expand"
)

// Tool is a resolved executable path, its execution-requirement set, and
// the with-feature predicates that gate whether it is the one chosen for
// its action config.
type Tool struct {
	path                  string
	executionRequirements []string
	withFeatureSets       []expand.WithFeatureSet
}

// NewTool builds a Tool. toolPath is resolved relative to toolRoot the way
// the original resolves a tool path relative to its crosstool top —
// path.Join is used rather than filepath.Join because toolchain
// descriptions are POSIX-style regardless of host OS.
func NewTool(toolRoot, toolPath string, executionRequirements []string, withFeatureSets []expand.WithFeatureSet) *Tool {
	return &Tool{
		path:                  path.Join(toolRoot, toolPath),
		executionRequirements: executionRequirements,
		withFeatureSets:       withFeatureSets,
	}
}

// Path returns the tool's path, resolved relative to the toolchain root it
// was built with.
func (t *Tool) Path() string {
	return t.path
}

// ExecutionRequirements returns the tool's execution-requirement strings,
// left for the external scheduler collaborator to interpret (sandboxing,
// remote-execution eligibility).
func (t *Tool) ExecutionRequirements() []string {
	return t.executionRequirements
}

// Matches reports whether t's with-feature set is satisfied given enabled.
func (t *Tool) Matches(enabled func(string) bool) bool {
	return expand.Satisfied(t.withFeatureSets, enabled)
}

func (t *Tool) withFeatureSetNames() []expand.WithFeatureSet {
	return t.withFeatureSets
}
