package featureconfig

import (
	"fmt"
	"strings"
)

// CollidingProvidesError reports that two or more enabled selectables
// provide the same symbol.
type CollidingProvidesError struct {
	Symbol      string
	Selectables []string
}

func (e *CollidingProvidesError) Error() string {
	return fmt.Sprintf("colliding provides %q: %s", e.Symbol, strings.Join(e.Selectables, ", "))
}

// NoMatchingToolError reports that no tool's with-feature set matched for
// an enabled action config, or that the action isn't configured at all.
type NoMatchingToolError struct {
	Action string
	Reason string
}

func (e *NoMatchingToolError) Error() string {
	return fmt.Sprintf("no matching tool for action %q: %s", e.Action, e.Reason)
}

// MissingArtifactPatternError reports that no artifact-name pattern is
// configured for the requested category.
type MissingArtifactPatternError struct {
	Category string
}

func (e *MissingArtifactPatternError) Error() string {
	return fmt.Sprintf("no artifact name pattern configured for category %q", e.Category)
}
