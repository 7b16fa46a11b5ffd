package capture

import "fmt"

// ScenarioError tags a failure with the scenario it occurred in. A
// scenario failure aborts the run: a reel with a missing chapter is not
// a publishable asset.
type ScenarioError struct {
	Key string
	Err error
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("capture: scenario %q: %v", e.Key, e.Err)
}

func (e *ScenarioError) Unwrap() error { return e.Err }
