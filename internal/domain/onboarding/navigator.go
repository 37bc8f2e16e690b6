package onboarding

import (
	"fmt"

	"github.com/incorp/backend/internal/domain/shared"
)

// Navigator drives linear traversal of a jurisdiction's fixed step flow.
// Exactly one step is current at any time and the index stays within
// [0, len(flow)-1]. Forward progress is gated by the current step's
// predicate; back navigation and direct jumps are unguarded so the user
// can always revisit earlier answers or reach the review step.
type Navigator struct {
	flow    []StepDescriptor
	current int
}

// NewNavigator builds a navigator positioned at the given step index
func NewNavigator(j Jurisdiction, current int) (*Navigator, error) {
	flow := FlowFor(j)
	if flow == nil {
		return nil, shared.NewDomainError("INVALID_JURISDICTION", fmt.Sprintf("No step flow for jurisdiction %q", j))
	}
	if current < 0 || current >= len(flow) {
		return nil, shared.NewDomainError("INVALID_STEP_INDEX",
			fmt.Sprintf("Step index %d is out of range [0, %d]", current, len(flow)-1))
	}
	return &Navigator{flow: flow, current: current}, nil
}

// Flow returns the ordered step descriptors
func (n *Navigator) Flow() []StepDescriptor {
	return n.flow
}

// Current returns the current step index
func (n *Navigator) Current() int {
	return n.current
}

// CurrentStep returns the current step descriptor
func (n *Navigator) CurrentStep() StepDescriptor {
	return n.flow[n.current]
}

// IsReview returns true when the current step is the terminal review step
func (n *Navigator) IsReview() bool {
	return n.current == len(n.flow)-1
}

// Next advances to the following step if the current step's predicate
// passes. A failure surfaces a step-scoped error naming the failing
// step's title. At the last step Next is a no-op.
func (n *Navigator) Next(state *WizardState) error {
	step := n.flow[n.current]
	if err := ValidateStep(state, step); err != nil {
		return shared.NewDomainError("STEP_INCOMPLETE",
			fmt.Sprintf("%s: %s", step.Title, domainMessage(err)))
	}
	if n.current < len(n.flow)-1 {
		n.current++
	}
	return nil
}

// Prev moves back one step unconditionally. No-op at the first step.
func (n *Navigator) Prev() {
	if n.current > 0 {
		n.current--
	}
}

// GoTo jumps directly to a step without validation. Review/edit flows rely
// on this; only final submission re-validates everything.
func (n *Navigator) GoTo(index int) error {
	if index < 0 || index >= len(n.flow) {
		return shared.NewDomainError("INVALID_STEP_INDEX",
			fmt.Sprintf("Step index %d is out of range [0, %d]", index, len(n.flow)-1))
	}
	n.current = index
	return nil
}

// Completion reports, per step, whether its predicate currently passes
func (n *Navigator) Completion(state *WizardState) []bool {
	out := make([]bool, len(n.flow))
	for i, d := range n.flow {
		out[i] = ValidateStep(state, d) == nil
	}
	return out
}
