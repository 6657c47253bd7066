package toolchain

import "github.com/buildtool/ccfeatures/internal/expand"

// Kind distinguishes a feature selectable from an action-config selectable.
type Kind int

const (
	KindFeature Kind = iota
	KindActionConfig
)

// Selectable is a feature or an action config, addressed everywhere else
// in this package by its integer index rather than by pointer — the
// re-architecture spec.md §9 calls for in place of object-reference
// cycles, so the graph can be shared across goroutines without locks.
type Selectable struct {
	Kind Kind
	Name string

	// ActionName is set only for KindActionConfig.
	ActionName string

	FlagSets []*expand.FlagSet

	// EnvSets is set only for KindFeature; action configs have no
	// environment contribution in this model.
	EnvSets []*expand.EnvSet

	// Tools is set only for KindActionConfig.
	Tools []*Tool

	DefaultEnabled bool
	Provides       []string
}
