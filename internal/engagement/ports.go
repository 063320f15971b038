package engagement

import (
	"context"

	"github.com/dayronponce94/designer-platform-sub000/pkg/types"
)

// Store is the persistence port the service drives. The postgres
// implementation lives in internal/store.
type Store interface {
	Engagement(ctx context.Context, id string) (*types.Engagement, error)
	EngagementsByRequester(ctx context.Context, requesterID string) ([]*types.Engagement, error)
	EngagementsByFulfiller(ctx context.Context, fulfillerID string) ([]*types.Engagement, error)
	Engagements(ctx context.Context) ([]*types.Engagement, error)
	UnassignedEngagements(ctx context.Context) ([]*types.Engagement, error)
	CreateEngagement(ctx context.Context, e *types.Engagement) error

	// UpdateEngagement persists e only if the stored row still carries
	// expectedVersion, bumping the version on success. A concurrent writer
	// surfaces as types.ErrConflict.
	UpdateEngagement(ctx context.Context, e *types.Engagement, expectedVersion int64) error

	DeleteEngagement(ctx context.Context, id string) error

	Messages(ctx context.Context, engagementID string) ([]types.Message, error)
	AppendMessage(ctx context.Context, m *types.Message) error
}

// Notifier receives lifecycle events after a successful commit. Delivery is
// best-effort: the service logs failures and never retries or propagates them.
type Notifier interface {
	Assigned(ctx context.Context, fulfillerID, engagementID string) error
	StatusChanged(ctx context.Context, requesterID, engagementID string, from, to types.EngagementStatus) error
	NewMessage(ctx context.Context, recipientID, senderID, engagementID string) error
}
