package lifecycle

import (
	"testing"

	"github.com/dayronponce94/designer-platform-sub000/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardPath(t *testing.T) {
	path := []types.EngagementStatus{
		types.EngagementStatusRequested,
		types.EngagementStatusQuoted,
		types.EngagementStatusApproved,
		types.EngagementStatusInProgress,
		types.EngagementStatusReview,
		types.EngagementStatusCompleted,
	}

	for i := 0; i < len(path)-1; i++ {
		assert.True(t, CanTransition(path[i], path[i+1]), "%s -> %s", path[i], path[i+1])
	}
}

func TestCanTransition_RejectsSkips(t *testing.T) {
	assert.False(t, CanTransition(types.EngagementStatusRequested, types.EngagementStatusApproved))
	assert.False(t, CanTransition(types.EngagementStatusRequested, types.EngagementStatusCompleted))
	assert.False(t, CanTransition(types.EngagementStatusQuoted, types.EngagementStatusInProgress))
	assert.False(t, CanTransition(types.EngagementStatusInProgress, types.EngagementStatusCompleted))
}

func TestCanTransition_RejectsBackwards(t *testing.T) {
	assert.False(t, CanTransition(types.EngagementStatusQuoted, types.EngagementStatusRequested))
	assert.False(t, CanTransition(types.EngagementStatusReview, types.EngagementStatusInProgress))
}

func TestCanTransition_CancelledFromAnyNonTerminal(t *testing.T) {
	for _, from := range []types.EngagementStatus{
		types.EngagementStatusRequested,
		types.EngagementStatusQuoted,
		types.EngagementStatusApproved,
		types.EngagementStatusInProgress,
		types.EngagementStatusReview,
	} {
		assert.True(t, CanTransition(from, types.EngagementStatusCancelled), "from %s", from)
	}
}

func TestCanTransition_TerminalStatesAcceptNothing(t *testing.T) {
	for _, from := range []types.EngagementStatus{
		types.EngagementStatusCompleted,
		types.EngagementStatusCancelled,
	} {
		for _, to := range []types.EngagementStatus{
			types.EngagementStatusRequested,
			types.EngagementStatusQuoted,
			types.EngagementStatusApproved,
			types.EngagementStatusInProgress,
			types.EngagementStatusReview,
			types.EngagementStatusCompleted,
			types.EngagementStatusCancelled,
		} {
			if from == to {
				continue
			}
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, Terminal(types.EngagementStatusCompleted))
	assert.True(t, Terminal(types.EngagementStatusCancelled))
	assert.False(t, Terminal(types.EngagementStatusReview))
}

func TestValidate_SameStatusIsNoOp(t *testing.T) {
	err := Validate(types.RoleFulfiller, types.EngagementStatusQuoted, types.EngagementStatusQuoted)
	assert.NoError(t, err)
}

func TestValidate_NonAdjacentIsInvalidTransition(t *testing.T) {
	err := Validate(types.RoleAdministrator, types.EngagementStatusRequested, types.EngagementStatusCompleted)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)
}

func TestValidate_FulfillerDrivesWorkStatesOnly(t *testing.T) {
	// Progressing the work and cancelling are the fulfiller's moves.
	assert.NoError(t, Validate(types.RoleFulfiller, types.EngagementStatusApproved, types.EngagementStatusInProgress))
	assert.NoError(t, Validate(types.RoleFulfiller, types.EngagementStatusInProgress, types.EngagementStatusReview))
	assert.NoError(t, Validate(types.RoleFulfiller, types.EngagementStatusInProgress, types.EngagementStatusCancelled))

	// Quoting, approval and completion sign-off are not.
	assert.ErrorIs(t, Validate(types.RoleFulfiller, types.EngagementStatusRequested, types.EngagementStatusQuoted), types.ErrForbidden)
	assert.ErrorIs(t, Validate(types.RoleFulfiller, types.EngagementStatusQuoted, types.EngagementStatusApproved), types.ErrForbidden)
	assert.ErrorIs(t, Validate(types.RoleFulfiller, types.EngagementStatusReview, types.EngagementStatusCompleted), types.ErrForbidden)
}

func TestValidate_AdministratorDrivesAnyValidStep(t *testing.T) {
	assert.NoError(t, Validate(types.RoleAdministrator, types.EngagementStatusRequested, types.EngagementStatusQuoted))
	assert.NoError(t, Validate(types.RoleAdministrator, types.EngagementStatusReview, types.EngagementStatusCompleted))
	assert.NoError(t, Validate(types.RoleAdministrator, types.EngagementStatusQuoted, types.EngagementStatusCancelled))
}
