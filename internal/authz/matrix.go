package authz

import (
	"github.com/dayronponce94/designer-platform-sub000/pkg/types"
)

// Field names one writable slice of an engagement record. Attachment adds and
// removals travel together as FieldAttachments; the message thread has its own
// append permission.
type Field string

const (
	FieldTitle           Field = "title"
	FieldDescription     Field = "description"
	FieldServiceCategory Field = "serviceCategory"
	FieldReferenceNotes  Field = "referenceNotes"
	FieldStatus          Field = "status"
	FieldFulfillerID     Field = "fulfillerId"
	FieldBudget          Field = "budget"
	FieldDeadline        Field = "deadline"
	FieldAttachments     Field = "attachments"
)

// Relationship is the caller's resolved standing toward one record.
type Relationship struct {
	IsOwner    bool
	IsAssignee bool
}

// writableFields is the authorization matrix: one row per role, consulted
// uniformly by every mutating operation. Administrators bypass it entirely.
var writableFields = map[types.Role]map[Field]bool{
	types.RoleRequester: {
		FieldTitle:           true,
		FieldDescription:     true,
		FieldServiceCategory: true,
		FieldReferenceNotes:  true,
		FieldAttachments:     true,
	},
	types.RoleFulfiller: {
		FieldStatus:      true,
		FieldAttachments: true,
	},
}

// Resolve computes the caller's relationship with the record.
func Resolve(caller types.Caller, record *types.Engagement) Relationship {
	rel := Relationship{
		IsOwner: caller.ID == record.RequesterID,
	}
	if record.FulfillerID != nil {
		rel.IsAssignee = caller.ID == *record.FulfillerID
	}
	return rel
}

// CanAccess reports whether the caller may interact with the record at all.
// A requester who does not own the record, or a fulfiller who is not assigned
// to it, gets nothing; there is no partial access for an unrelated party.
func CanAccess(caller types.Caller, record *types.Engagement) bool {
	if caller.Role == types.RoleAdministrator {
		return true
	}
	rel := Resolve(caller, record)
	switch caller.Role {
	case types.RoleRequester:
		return rel.IsOwner
	case types.RoleFulfiller:
		return rel.IsAssignee
	}
	return false
}

// CanDelete reports whether the caller may permanently remove the record.
func CanDelete(caller types.Caller, record *types.Engagement) bool {
	if caller.Role == types.RoleAdministrator {
		return true
	}
	return caller.Role == types.RoleRequester && Resolve(caller, record).IsOwner
}

// FilterFields returns the subset of proposed fields the caller may write.
// Disallowed fields are silently dropped, not rejected; the request proceeds
// with whatever remains. Callers must check CanAccess first; FilterFields
// returns nothing for an unrelated party.
func FilterFields(caller types.Caller, record *types.Engagement, proposed []Field) []Field {
	if !CanAccess(caller, record) {
		return nil
	}

	if caller.Role == types.RoleAdministrator {
		out := make([]Field, len(proposed))
		copy(out, proposed)
		return out
	}

	row := writableFields[caller.Role]
	out := make([]Field, 0, len(proposed))
	for _, f := range proposed {
		if row[f] {
			out = append(out, f)
		}
	}
	return out
}
