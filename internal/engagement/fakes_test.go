package engagement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dayronponce94/designer-platform-sub000/pkg/types"
)

// fakeStore is an in-memory Store with the same optimistic-concurrency
// contract as the postgres repository.
type fakeStore struct {
	mu          sync.Mutex
	engagements map[string]*types.Engagement
	messages    map[string][]types.Message
	seq         int
	updates     int
	// failConflicts makes the next n update calls report a concurrent writer.
	failConflicts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		engagements: make(map[string]*types.Engagement),
		messages:    make(map[string][]types.Message),
	}
}

func cloneEngagement(e *types.Engagement) *types.Engagement {
	c := *e
	c.Attachments = append([]types.Attachment(nil), e.Attachments...)
	c.Messages = nil
	if e.FulfillerID != nil {
		v := *e.FulfillerID
		c.FulfillerID = &v
	}
	if e.BudgetCents != nil {
		v := *e.BudgetCents
		c.BudgetCents = &v
	}
	if e.Deadline != nil {
		v := *e.Deadline
		c.Deadline = &v
	}
	if e.ReferenceNotes != nil {
		v := *e.ReferenceNotes
		c.ReferenceNotes = &v
	}
	return &c
}

func (f *fakeStore) Engagement(ctx context.Context, id string) (*types.Engagement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.engagements[id]
	if !ok {
		return nil, types.ErrEngagementNotFound
	}
	return cloneEngagement(e), nil
}

func (f *fakeStore) EngagementsByRequester(ctx context.Context, requesterID string) ([]*types.Engagement, error) {
	return f.filter(func(e *types.Engagement) bool { return e.RequesterID == requesterID })
}

func (f *fakeStore) EngagementsByFulfiller(ctx context.Context, fulfillerID string) ([]*types.Engagement, error) {
	return f.filter(func(e *types.Engagement) bool {
		return e.FulfillerID != nil && *e.FulfillerID == fulfillerID
	})
}

func (f *fakeStore) Engagements(ctx context.Context) ([]*types.Engagement, error) {
	return f.filter(func(e *types.Engagement) bool { return true })
}

func (f *fakeStore) UnassignedEngagements(ctx context.Context) ([]*types.Engagement, error) {
	return f.filter(func(e *types.Engagement) bool { return e.FulfillerID == nil })
}

func (f *fakeStore) filter(keep func(*types.Engagement) bool) ([]*types.Engagement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*types.Engagement, 0)
	for _, e := range f.engagements {
		if keep(e) {
			out = append(out, cloneEngagement(e))
		}
	}
	return out, nil
}

func (f *fakeStore) CreateEngagement(ctx context.Context, e *types.Engagement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	now := time.Now().UTC()
	e.ID = fmt.Sprintf("eng-%d", f.seq)
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.Version == 0 {
		e.Version = 1
	}
	f.engagements[e.ID] = cloneEngagement(e)
	return nil
}

func (f *fakeStore) UpdateEngagement(ctx context.Context, e *types.Engagement, expectedVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failConflicts > 0 {
		f.failConflicts--
		return types.ErrConflict
	}
	cur, ok := f.engagements[e.ID]
	if !ok {
		return types.ErrEngagementNotFound
	}
	if cur.Version != expectedVersion {
		return types.ErrConflict
	}
	e.Version = expectedVersion + 1
	f.engagements[e.ID] = cloneEngagement(e)
	f.updates++
	return nil
}

func (f *fakeStore) DeleteEngagement(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.engagements[id]; !ok {
		return types.ErrEngagementNotFound
	}
	delete(f.engagements, id)
	delete(f.messages, id)
	return nil
}

func (f *fakeStore) Messages(ctx context.Context, engagementID string) ([]types.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Message(nil), f.messages[engagementID]...), nil
}

func (f *fakeStore) AppendMessage(ctx context.Context, m *types.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	m.ID = fmt.Sprintf("msg-%d", f.seq)
	m.SentAt = time.Now().UTC()
	f.messages[m.EngagementID] = append(f.messages[m.EngagementID], *m)
	return nil
}

type assignedEvent struct {
	fulfillerID  string
	engagementID string
}

type statusEvent struct {
	requesterID  string
	engagementID string
	from         types.EngagementStatus
	to           types.EngagementStatus
}

type messageEvent struct {
	recipientID  string
	senderID     string
	engagementID string
}

// fakeNotifier records emitted events so tests assert on emission rather
// than delivery.
type fakeNotifier struct {
	mu       sync.Mutex
	assigned []assignedEvent
	statuses []statusEvent
	messages []messageEvent
	err      error
}

func (n *fakeNotifier) Assigned(ctx context.Context, fulfillerID, engagementID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.assigned = append(n.assigned, assignedEvent{fulfillerID, engagementID})
	return n.err
}

func (n *fakeNotifier) StatusChanged(ctx context.Context, requesterID, engagementID string, from, to types.EngagementStatus) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, statusEvent{requesterID, engagementID, from, to})
	return n.err
}

func (n *fakeNotifier) NewMessage(ctx context.Context, recipientID, senderID, engagementID string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, messageEvent{recipientID, senderID, engagementID})
	return n.err
}
