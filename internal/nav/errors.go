package nav

import "fmt"

// UnknownStepError reports a lookup of a step that was never registered.
type UnknownStepError struct {
	Step StepID
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("unknown navigation step %s", e.Step)
}

// NavigationFailure reports a step action that could not be performed:
// the underlying element was missing, unclickable, or the driver timed
// out. The failing step's identity and the driver error are carried.
type NavigationFailure struct {
	Step StepID
	Err  error
}

func (e *NavigationFailure) Error() string {
	return fmt.Sprintf("navigation step %s failed: %v", e.Step, e.Err)
}

func (e *NavigationFailure) Unwrap() error {
	return e.Err
}

// VerificationError reports that a step's action ran but the arrival
// check for the target still failed, i.e. a click succeeded but the
// page did not change.
type VerificationError struct {
	Step     StepID
	Expected string
	Observed string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("navigation step %s did not arrive: expected %s, observed %s",
		e.Step, e.Expected, e.Observed)
}

// CycleError reports a prerequisite chain that loops back on itself.
type CycleError struct {
	Step StepID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("navigation step %s has a cyclic prerequisite chain", e.Step)
}
