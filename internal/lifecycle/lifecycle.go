// Package lifecycle owns the engagement status machine. The graph is fixed:
// a single forward path plus cancellation from any non-terminal state.
package lifecycle

import (
	"github.com/dayronponce94/designer-platform-sub000/pkg/types"
)

// transitions maps each status to the statuses reachable from it. Completed
// and cancelled are terminal and map to nothing.
var transitions = map[types.EngagementStatus][]types.EngagementStatus{
	types.EngagementStatusRequested:  {types.EngagementStatusQuoted, types.EngagementStatusCancelled},
	types.EngagementStatusQuoted:     {types.EngagementStatusApproved, types.EngagementStatusCancelled},
	types.EngagementStatusApproved:   {types.EngagementStatusInProgress, types.EngagementStatusCancelled},
	types.EngagementStatusInProgress: {types.EngagementStatusReview, types.EngagementStatusCancelled},
	types.EngagementStatusReview:     {types.EngagementStatusCompleted, types.EngagementStatusCancelled},
	types.EngagementStatusCompleted:  {},
	types.EngagementStatusCancelled:  {},
}

// fulfillerTargets are the statuses a fulfiller may drive a record into.
// Fulfillers progress work from approved onward and may cancel; quoting,
// approval and completion sign-off stay with an administrator.
var fulfillerTargets = map[types.EngagementStatus]bool{
	types.EngagementStatusInProgress: true,
	types.EngagementStatusReview:     true,
	types.EngagementStatusCancelled:  true,
}

// Terminal reports whether no further status writes are accepted.
func Terminal(s types.EngagementStatus) bool {
	return s == types.EngagementStatusCompleted || s == types.EngagementStatusCancelled
}

// CanTransition reports whether to is reachable from from in one step.
func CanTransition(from, to types.EngagementStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Validate checks a status write after the authorization matrix has granted
// the status field. The target must be the immediate forward successor or
// cancelled, and the role must be entitled to drive that particular step.
func Validate(role types.Role, from, to types.EngagementStatus) error {
	if from == to {
		return nil
	}
	if !CanTransition(from, to) {
		return types.ErrInvalidTransition
	}
	if role == types.RoleFulfiller && !fulfillerTargets[to] {
		return types.ErrForbidden
	}
	return nil
}
