// Package nav implements the navigation-step registry and resolver for
// page-object tests. Screens are reached by resolving a chain of
// prerequisite steps, executing the unsatisfied ones oldest-first, and
// verifying arrival with the target step's check.
//
// Steps are registered once at startup and never mutated afterwards.
// Resolution is synchronous and assumes a single mutator of browser
// state; callers must serialize navigation requests per session.
package nav

import (
	"fmt"

	"github.com/AndreyMenezes/integration-tests/internal/obs"
)

// Kind is the logical object type a step is registered under.
type Kind string

// StepID identifies a registered navigation step.
type StepID struct {
	Kind Kind
	Name string
}

func (id StepID) String() string {
	return fmt.Sprintf("%s/%s", id.Kind, id.Name)
}

// View is the UI state expected after a step executes.
type View interface {
	// IsDisplayed reports whether the view is currently on screen.
	IsDisplayed() (bool, error)
}

// Context carries the state a resolution runs against: the browser
// session (opaque to this package), the model object being navigated
// about, and an optional hook describing the current logical location
// for verification errors.
type Context struct {
	// Session is the browser session handle, passed through to step
	// actions and arrival checks untouched.
	Session any
	// Target is the model object the navigation is about, e.g. a
	// provider whose Details screen is requested.
	Target any
	// DescribeLocation, when set, names the current logical location
	// in VerificationError messages.
	DescribeLocation func() string
}

func (c *Context) location() string {
	if c != nil && c.DescribeLocation != nil {
		return c.DescribeLocation()
	}
	return "unknown"
}

// Step is one registered navigation step.
type Step struct {
	// Prerequisite references the step that must hold before this one
	// runs. Nil means root: the step runs directly.
	Prerequisite *StepID
	// View constructs the view expected after the step executes. When
	// OnArrival is nil, the view's displayed-check is the arrival check.
	View func(*Context) View
	// OnStep performs the step's UI action.
	OnStep func(*Context) error
	// OnArrival overrides the arrival check. Nil with a nil View means
	// the step always re-navigates and is never verified.
	OnArrival func(*Context) (bool, error)
	// OnReset runs when the step is served from the fast path instead
	// of being re-navigated. Must be idempotent.
	OnReset func(*Context) error
}

// Sibling references a step of the same kind; the kind is filled in at
// registration time.
func Sibling(name string) *StepID {
	return &StepID{Name: name}
}

// To references a step of another kind.
func To(kind Kind, name string) *StepID {
	return &StepID{Kind: kind, Name: name}
}

// Registry holds the navigation graph. Registration happens once at
// process start; resolution never mutates it.
type Registry struct {
	steps map[StepID]*Step
	log   interface {
		Debug(msg string, args ...any)
	}
}

// NewRegistry creates an empty navigation registry.
func NewRegistry() *Registry {
	return &Registry{
		steps: make(map[StepID]*Step),
		log:   obs.Pkg("nav"),
	}
}

// Register adds a step under (kind, name). Registering the same pair
// again replaces the earlier definition, which models subclass
// overrides. Cycles through already-registered prerequisites are
// rejected eagerly; forward references to not-yet-registered steps are
// allowed and re-checked at resolution time.
func (r *Registry) Register(kind Kind, name string, step Step) error {
	if kind == "" || name == "" {
		return fmt.Errorf("navigation step needs a kind and a name, got %q/%q", kind, name)
	}
	if step.OnStep == nil {
		return fmt.Errorf("navigation step %s/%s has no action", kind, name)
	}

	id := StepID{Kind: kind, Name: name}
	prereq := step.Prerequisite
	if prereq != nil {
		resolved := *prereq
		if resolved.Kind == "" {
			resolved.Kind = kind
		}
		step.Prerequisite = &resolved

		// Walk the registered part of the chain; hitting the id being
		// registered (or any repeat) means a cycle.
		seen := map[StepID]bool{id: true}
		for cur := step.Prerequisite; cur != nil; {
			if seen[*cur] {
				return &CycleError{Step: id}
			}
			seen[*cur] = true
			next, ok := r.steps[*cur]
			if !ok {
				break
			}
			cur = next.Prerequisite
		}
	}

	r.steps[id] = &step
	return nil
}

// MustRegister is Register panicking on error, for static step tables.
func (r *Registry) MustRegister(kind Kind, name string, step Step) {
	if err := r.Register(kind, name, step); err != nil {
		panic(err)
	}
}

// arrivalCheck returns the effective arrival predicate for a step, or
// nil when the step has none and must always re-navigate.
func arrivalCheck(step *Step, ctx *Context) func() (bool, error) {
	if step.OnArrival != nil {
		return func() (bool, error) { return step.OnArrival(ctx) }
	}
	if step.View != nil {
		return func() (bool, error) { return step.View(ctx).IsDisplayed() }
	}
	return nil
}

// NavigateTo resolves and executes the chain of steps needed to reach
// (kind, name), returning the target step's view handle (nil when the
// step declares no view).
//
// Fast path: if the target's arrival check already holds, the optional
// reset runs and no navigation action executes. Otherwise prerequisites
// are walked back until one is satisfied (or root is reached) and the
// unsatisfied steps execute oldest-first. No automatic retry: UI side
// effects are not safely idempotent, so failures propagate immediately
// and nothing partial is cached.
func (r *Registry) NavigateTo(ctx *Context, kind Kind, name string) (View, error) {
	target := StepID{Kind: kind, Name: name}
	step, ok := r.steps[target]
	if !ok {
		return nil, &UnknownStepError{Step: target}
	}

	// Fast path: already there.
	if check := arrivalCheck(step, ctx); check != nil {
		here, err := check()
		if err != nil {
			return nil, &NavigationFailure{Step: target, Err: err}
		}
		if here {
			r.log.Debug("navigation fast path", "step", target.String())
			if step.OnReset != nil {
				if err := step.OnReset(ctx); err != nil {
					return nil, &NavigationFailure{Step: target, Err: err}
				}
			}
			return viewOf(step, ctx), nil
		}
	}

	pending, err := r.collectUnsatisfied(ctx, target, step)
	if err != nil {
		return nil, err
	}

	// Execute oldest prerequisite first.
	for i := len(pending) - 1; i >= 0; i-- {
		id := pending[i].id
		r.log.Debug("navigation step", "step", id.String())
		if err := pending[i].step.OnStep(ctx); err != nil {
			return nil, &NavigationFailure{Step: id, Err: err}
		}
	}

	// Verify arrival when the target defines a check.
	if check := arrivalCheck(step, ctx); check != nil {
		here, err := check()
		if err != nil {
			return nil, &NavigationFailure{Step: target, Err: err}
		}
		if !here {
			return nil, &VerificationError{
				Step:     target,
				Expected: target.String(),
				Observed: ctx.location(),
			}
		}
	}

	return viewOf(step, ctx), nil
}

type pendingStep struct {
	id   StepID
	step *Step
}

// collectUnsatisfied walks prerequisites from the target back toward
// root, stopping early at the first step whose own arrival check holds.
// The returned slice is target-first.
func (r *Registry) collectUnsatisfied(ctx *Context, target StepID, step *Step) ([]pendingStep, error) {
	var pending []pendingStep
	seen := make(map[StepID]bool)

	id, cur := target, step
	for {
		if seen[id] {
			return nil, &CycleError{Step: id}
		}
		seen[id] = true
		pending = append(pending, pendingStep{id: id, step: cur})

		ref := cur.Prerequisite
		if ref == nil {
			return pending, nil
		}
		next, ok := r.steps[*ref]
		if !ok {
			return nil, &UnknownStepError{Step: *ref}
		}

		// Re-entrant partial paths: a satisfied prerequisite and
		// everything behind it is skipped.
		if check := arrivalCheck(next, ctx); check != nil {
			here, err := check()
			if err != nil {
				return nil, &NavigationFailure{Step: *ref, Err: err}
			}
			if here {
				return pending, nil
			}
		}

		id, cur = *ref, next
	}
}

func viewOf(step *Step, ctx *Context) View {
	if step.View == nil {
		return nil
	}
	return step.View(ctx)
}
