package types

import (
	"time"
)

type EngagementStatus string

const (
	EngagementStatusRequested  EngagementStatus = "requested"
	EngagementStatusQuoted     EngagementStatus = "quoted"
	EngagementStatusApproved   EngagementStatus = "approved"
	EngagementStatusInProgress EngagementStatus = "in-progress"
	EngagementStatusReview     EngagementStatus = "review"
	EngagementStatusCompleted  EngagementStatus = "completed"
	EngagementStatusCancelled  EngagementStatus = "cancelled"
)

type ServiceCategory string

const (
	CategoryBranding ServiceCategory = "branding"
	CategoryUXUI     ServiceCategory = "ux-ui"
	CategoryGraphic  ServiceCategory = "graphic"
	CategoryWeb      ServiceCategory = "web"
	CategoryMotion   ServiceCategory = "motion"
	CategoryOther    ServiceCategory = "other"
)

// ValidCategory reports whether c is one of the fixed service categories.
func ValidCategory(c ServiceCategory) bool {
	switch c {
	case CategoryBranding, CategoryUXUI, CategoryGraphic, CategoryWeb, CategoryMotion, CategoryOther:
		return true
	}
	return false
}

// Engagement is the central record tying a requester to a fulfiller for one
// design assignment. Attachments live on the row as jsonb; messages are rows
// in their own table and are loaded on demand.
type Engagement struct {
	ID              string           `db:"id" json:"id"`
	Title           string           `db:"title" json:"title"`
	Description     string           `db:"description" json:"description"`
	RequesterID     string           `db:"requester_id" json:"requesterId"`
	FulfillerID     *string          `db:"fulfiller_id" json:"fulfillerId,omitempty"`
	ServiceCategory ServiceCategory  `db:"service_category" json:"serviceCategory"`
	Status          EngagementStatus `db:"status" json:"status"`
	BudgetCents     *int64           `db:"budget_cents" json:"budgetCents,omitempty"`
	Deadline        *time.Time       `db:"deadline" json:"deadline,omitempty"`
	ReferenceNotes  *string          `db:"reference_notes" json:"referenceNotes,omitempty"`
	Attachments     []Attachment     `db:"attachments" json:"attachments"`
	Version         int64            `db:"version" json:"-"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updatedAt"`

	Messages []Message `db:"-" json:"messages,omitempty"`
}

// Attachment describes one uploaded file. The URL is the identity of an
// attachment within a record; the upload collaborator guarantees it is unique.
type Attachment struct {
	URL         string    `json:"url"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Message is one entry of the append-only thread on an engagement.
type Message struct {
	ID           string       `db:"id" json:"id"`
	EngagementID string       `db:"engagement_id" json:"engagementId"`
	SenderID     string       `db:"sender_id" json:"senderId"`
	Body         string       `db:"body" json:"body"`
	Attachments  []Attachment `db:"attachments" json:"attachments,omitempty"`
	SentAt       time.Time    `db:"sent_at" json:"sentAt"`
}
