// Package engagement is the orchestrating facade over the authorization
// matrix, the attachment reconciler, the lifecycle engine and the persistence
// port. Every mutation is a single read-modify-write on one record, committed
// all-or-nothing under an optimistic version check.
package engagement

import (
	"context"
	"strings"
	"time"

	"github.com/dayronponce94/designer-platform-sub000/internal/attachments"
	"github.com/dayronponce94/designer-platform-sub000/internal/authz"
	"github.com/dayronponce94/designer-platform-sub000/internal/lifecycle"
	"github.com/dayronponce94/designer-platform-sub000/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
	maxNotesLen       = 5000
	maxMessageLen     = 5000
)

type Service struct {
	store    Store
	notifier Notifier
	logger   *logrus.Logger
	now      func() time.Time
}

func NewService(store Store, notifier Notifier, logger *logrus.Logger) *Service {
	return &Service{
		store:    store,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Scope selects which slice of records List returns.
type Scope string

const (
	ScopeOwned      Scope = "owned"
	ScopeAssigned   Scope = "assigned"
	ScopeAll        Scope = "all"
	ScopeUnassigned Scope = "unassigned"
)

type CreateInput struct {
	Title          string
	Description    string
	Category       types.ServiceCategory
	BudgetCents    *int64
	Deadline       *time.Time
	ReferenceNotes *string
	Attachments    []types.Attachment
}

// Patch carries the caller-supplied field set for an update. Nil means the
// field was absent from the request.
type Patch struct {
	Title           *string
	Description     *string
	ServiceCategory *types.ServiceCategory
	ReferenceNotes  *string
	Status          *types.EngagementStatus
	FulfillerID     *string
	BudgetCents     *int64
	Deadline        *time.Time
}

func (p Patch) fields() []authz.Field {
	var out []authz.Field
	if p.Title != nil {
		out = append(out, authz.FieldTitle)
	}
	if p.Description != nil {
		out = append(out, authz.FieldDescription)
	}
	if p.ServiceCategory != nil {
		out = append(out, authz.FieldServiceCategory)
	}
	if p.ReferenceNotes != nil {
		out = append(out, authz.FieldReferenceNotes)
	}
	if p.Status != nil {
		out = append(out, authz.FieldStatus)
	}
	if p.FulfillerID != nil {
		out = append(out, authz.FieldFulfillerID)
	}
	if p.BudgetCents != nil {
		out = append(out, authz.FieldBudget)
	}
	if p.Deadline != nil {
		out = append(out, authz.FieldDeadline)
	}
	return out
}

// Create opens a new engagement owned by the caller. Only requesters create
// engagements; the record always starts in the requested status.
func (s *Service) Create(ctx context.Context, caller types.Caller, in CreateInput) (*types.Engagement, error) {
	if caller.Role != types.RoleRequester {
		return nil, types.ErrForbidden
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, types.NewValidationError("title", "required")
	}
	if len(title) > maxTitleLen {
		return nil, types.NewValidationError("title", "too long")
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, types.NewValidationError("description", "required")
	}
	if len(description) > maxDescriptionLen {
		return nil, types.NewValidationError("description", "too long")
	}

	if !types.ValidCategory(in.Category) {
		return nil, types.NewValidationError("serviceCategory", "unknown category")
	}

	if in.BudgetCents != nil && *in.BudgetCents < 0 {
		return nil, types.NewValidationError("budget", "must not be negative")
	}

	if in.ReferenceNotes != nil && len(*in.ReferenceNotes) > maxNotesLen {
		return nil, types.NewValidationError("referenceNotes", "too long")
	}

	e := &types.Engagement{
		Title:           title,
		Description:     description,
		RequesterID:     caller.ID,
		ServiceCategory: in.Category,
		Status:          types.EngagementStatusRequested,
		BudgetCents:     in.BudgetCents,
		Deadline:        in.Deadline,
		ReferenceNotes:  in.ReferenceNotes,
		Attachments:     attachments.Reconcile(nil, in.Attachments, nil),
		Version:         1,
	}

	if err := s.store.CreateEngagement(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// Get returns the record with its message thread. An unrelated caller is
// refused; the HTTP layer renders that refusal identically to a missing id.
func (s *Service) Get(ctx context.Context, caller types.Caller, id string) (*types.Engagement, error) {
	e, err := s.store.Engagement(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanAccess(caller, e) {
		return nil, types.ErrForbidden
	}

	return s.withMessages(ctx, e)
}

// List returns the records visible to the caller. Requesters see what they
// own, fulfillers what they are assigned to; administrators see everything
// and may additionally ask for the unassigned backlog.
func (s *Service) List(ctx context.Context, caller types.Caller, scope Scope) ([]*types.Engagement, error) {
	switch caller.Role {
	case types.RoleRequester:
		if scope != "" && scope != ScopeOwned {
			return nil, types.ErrForbidden
		}
		return s.store.EngagementsByRequester(ctx, caller.ID)

	case types.RoleFulfiller:
		if scope != "" && scope != ScopeAssigned {
			return nil, types.ErrForbidden
		}
		return s.store.EngagementsByFulfiller(ctx, caller.ID)

	case types.RoleAdministrator:
		switch scope {
		case "", ScopeAll:
			return s.store.Engagements(ctx)
		case ScopeUnassigned:
			return s.store.UnassignedEngagements(ctx)
		case ScopeOwned:
			return s.store.EngagementsByRequester(ctx, caller.ID)
		case ScopeAssigned:
			return s.store.EngagementsByFulfiller(ctx, caller.ID)
		}
		return nil, types.NewValidationError("scope", "unknown scope")
	}

	return nil, types.ErrForbidden
}

// Update applies a field patch, routes attachments through the reconciler and
// status through the lifecycle engine, and persists the merged record under
// an optimistic version check. Fields the caller may not write are silently
// dropped; the request still succeeds for whatever remains. A patch that
// changes nothing is a no-op and does not refresh updatedAt.
func (s *Service) Update(ctx context.Context, caller types.Caller, id string, patch Patch, newAttachments []types.Attachment, removeURLs []string) (*types.Engagement, error) {
	e, err := s.store.Engagement(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanAccess(caller, e) {
		return nil, types.ErrForbidden
	}

	proposed := patch.fields()
	if len(newAttachments) > 0 || len(removeURLs) > 0 {
		proposed = append(proposed, authz.FieldAttachments)
	}

	allowed := make(map[authz.Field]bool)
	for _, f := range authz.FilterFields(caller, e, proposed) {
		allowed[f] = true
	}

	var (
		changed    bool
		statusFrom types.EngagementStatus
		statusTo   types.EngagementStatus
		assignedTo string
	)

	if allowed[authz.FieldTitle] {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, types.NewValidationError("title", "required")
		}
		if len(title) > maxTitleLen {
			return nil, types.NewValidationError("title", "too long")
		}
		if title != e.Title {
			e.Title = title
			changed = true
		}
	}

	if allowed[authz.FieldDescription] {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, types.NewValidationError("description", "required")
		}
		if len(description) > maxDescriptionLen {
			return nil, types.NewValidationError("description", "too long")
		}
		if description != e.Description {
			e.Description = description
			changed = true
		}
	}

	if allowed[authz.FieldServiceCategory] {
		if !types.ValidCategory(*patch.ServiceCategory) {
			return nil, types.NewValidationError("serviceCategory", "unknown category")
		}
		if *patch.ServiceCategory != e.ServiceCategory {
			e.ServiceCategory = *patch.ServiceCategory
			changed = true
		}
	}

	if allowed[authz.FieldReferenceNotes] {
		if len(*patch.ReferenceNotes) > maxNotesLen {
			return nil, types.NewValidationError("referenceNotes", "too long")
		}
		if !strPtrEq(patch.ReferenceNotes, e.ReferenceNotes) {
			e.ReferenceNotes = patch.ReferenceNotes
			changed = true
		}
	}

	if allowed[authz.FieldBudget] {
		if *patch.BudgetCents < 0 {
			return nil, types.NewValidationError("budget", "must not be negative")
		}
		if !int64PtrEq(patch.BudgetCents, e.BudgetCents) {
			e.BudgetCents = patch.BudgetCents
			changed = true
		}
	}

	if allowed[authz.FieldDeadline] {
		if !timePtrEq(patch.Deadline, e.Deadline) {
			e.Deadline = patch.Deadline
			changed = true
		}
	}

	if allowed[authz.FieldFulfillerID] {
		if !strPtrEq(patch.FulfillerID, e.FulfillerID) {
			e.FulfillerID = patch.FulfillerID
			changed = true
			if patch.FulfillerID != nil {
				assignedTo = *patch.FulfillerID
			}
		}
	}

	if allowed[authz.FieldStatus] {
		to := *patch.Status
		if !validStatus(to) {
			return nil, types.NewValidationError("status", "unknown status")
		}
		if to != e.Status {
			if err := lifecycle.Validate(caller.Role, e.Status, to); err != nil {
				return nil, err
			}
			statusFrom, statusTo = e.Status, to
			e.Status = to
			changed = true
		}
	}

	if allowed[authz.FieldAttachments] {
		next := attachments.Reconcile(e.Attachments, newAttachments, removeURLs)
		if !attachments.Equal(e.Attachments, next) {
			e.Attachments = next
			changed = true
		}
	}

	if !changed {
		return s.withMessages(ctx, e)
	}

	expected := e.Version
	e.UpdatedAt = s.now()
	if err := s.store.UpdateEngagement(ctx, e, expected); err != nil {
		return nil, err
	}

	if statusTo != "" {
		if err := s.notifier.StatusChanged(ctx, e.RequesterID, e.ID, statusFrom, statusTo); err != nil {
			s.logger.WithError(err).WithField("engagement_id", e.ID).Warn("status change notification failed")
		}
	}
	if assignedTo != "" {
		if err := s.notifier.Assigned(ctx, assignedTo, e.ID); err != nil {
			s.logger.WithError(err).WithField("engagement_id", e.ID).Warn("assignment notification failed")
		}
	}

	return s.withMessages(ctx, e)
}

// Delete permanently removes the record and its message thread. Only the
// owning requester or an administrator may delete.
func (s *Service) Delete(ctx context.Context, caller types.Caller, id string) error {
	e, err := s.store.Engagement(ctx, id)
	if err != nil {
		return err
	}

	if !authz.CanDelete(caller, e) {
		return types.ErrForbidden
	}

	return s.store.DeleteEngagement(ctx, id)
}

// AppendMessage adds one entry to the record's thread. Appending is gated by
// the same access check as reading the record and never touches the record's
// status or updatedAt.
func (s *Service) AppendMessage(ctx context.Context, caller types.Caller, id, body string, atts []types.Attachment) (*types.Engagement, error) {
	e, err := s.store.Engagement(ctx, id)
	if err != nil {
		return nil, err
	}

	if !authz.CanAccess(caller, e) {
		return nil, types.ErrForbidden
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, types.NewValidationError("body", "required")
	}
	if len(body) > maxMessageLen {
		return nil, types.NewValidationError("body", "too long")
	}

	m := &types.Message{
		EngagementID: e.ID,
		SenderID:     caller.ID,
		Body:         body,
		Attachments:  attachments.Reconcile(nil, atts, nil),
	}

	if err := s.store.AppendMessage(ctx, m); err != nil {
		return nil, err
	}

	recipient := e.RequesterID
	if caller.ID == e.RequesterID {
		recipient = ""
		if e.FulfillerID != nil {
			recipient = *e.FulfillerID
		}
	}
	if recipient != "" && recipient != caller.ID {
		if err := s.notifier.NewMessage(ctx, recipient, caller.ID, e.ID); err != nil {
			s.logger.WithError(err).WithField("engagement_id", e.ID).Warn("message notification failed")
		}
	}

	return s.withMessages(ctx, e)
}

func (s *Service) withMessages(ctx context.Context, e *types.Engagement) (*types.Engagement, error) {
	msgs, err := s.store.Messages(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Messages = msgs
	return e, nil
}

func validStatus(s types.EngagementStatus) bool {
	switch s {
	case types.EngagementStatusRequested,
		types.EngagementStatusQuoted,
		types.EngagementStatusApproved,
		types.EngagementStatusInProgress,
		types.EngagementStatusReview,
		types.EngagementStatusCompleted,
		types.EngagementStatusCancelled:
		return true
	}
	return false
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func int64PtrEq(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func timePtrEq(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
