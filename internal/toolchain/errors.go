package toolchain

import "fmt"

// InvalidConfigurationError reports a static defect found while building a
// Graph: a duplicate selectable or action name, a dangling name reference
// in implies/requires/a tool's with-feature set, or an action-config flag
// set that names actions explicitly instead of relying on its implicit
// scope.
type InvalidConfigurationError struct {
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.Reason)
}
