package authz

import (
	"testing"

	"github.com/dayronponce94/designer-platform-sub000/pkg/types"

	"github.com/stretchr/testify/assert"
)

func testRecord() *types.Engagement {
	fulfiller := "fulfiller-1"
	return &types.Engagement{
		ID:          "eng-1",
		RequesterID: "requester-1",
		FulfillerID: &fulfiller,
	}
}

func TestResolve(t *testing.T) {
	rec := testRecord()

	rel := Resolve(types.Caller{ID: "requester-1", Role: types.RoleRequester}, rec)
	assert.True(t, rel.IsOwner)
	assert.False(t, rel.IsAssignee)

	rel = Resolve(types.Caller{ID: "fulfiller-1", Role: types.RoleFulfiller}, rec)
	assert.False(t, rel.IsOwner)
	assert.True(t, rel.IsAssignee)

	rel = Resolve(types.Caller{ID: "stranger", Role: types.RoleRequester}, rec)
	assert.False(t, rel.IsOwner)
	assert.False(t, rel.IsAssignee)
}

func TestResolve_UnassignedRecord(t *testing.T) {
	rec := testRecord()
	rec.FulfillerID = nil

	rel := Resolve(types.Caller{ID: "fulfiller-1", Role: types.RoleFulfiller}, rec)
	assert.False(t, rel.IsAssignee)
}

func TestCanAccess(t *testing.T) {
	rec := testRecord()

	tests := []struct {
		name   string
		caller types.Caller
		want   bool
	}{
		{"owning requester", types.Caller{ID: "requester-1", Role: types.RoleRequester}, true},
		{"assigned fulfiller", types.Caller{ID: "fulfiller-1", Role: types.RoleFulfiller}, true},
		{"unrelated administrator", types.Caller{ID: "admin-1", Role: types.RoleAdministrator}, true},
		{"requester on someone else's record", types.Caller{ID: "other", Role: types.RoleRequester}, false},
		{"fulfiller not assigned", types.Caller{ID: "other", Role: types.RoleFulfiller}, false},
		{"owner id with fulfiller role", types.Caller{ID: "requester-1", Role: types.RoleFulfiller}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.caller, rec))
		})
	}
}

func TestCanDelete(t *testing.T) {
	rec := testRecord()

	assert.True(t, CanDelete(types.Caller{ID: "requester-1", Role: types.RoleRequester}, rec))
	assert.True(t, CanDelete(types.Caller{ID: "admin-1", Role: types.RoleAdministrator}, rec))
	assert.False(t, CanDelete(types.Caller{ID: "fulfiller-1", Role: types.RoleFulfiller}, rec))
	assert.False(t, CanDelete(types.Caller{ID: "other", Role: types.RoleRequester}, rec))
}

func TestFilterFields_Requester(t *testing.T) {
	rec := testRecord()
	caller := types.Caller{ID: "requester-1", Role: types.RoleRequester}

	proposed := []Field{FieldTitle, FieldDescription, FieldStatus, FieldBudget, FieldFulfillerID, FieldAttachments}
	allowed := FilterFields(caller, rec, proposed)

	assert.ElementsMatch(t, []Field{FieldTitle, FieldDescription, FieldAttachments}, allowed)
}

func TestFilterFields_Fulfiller(t *testing.T) {
	rec := testRecord()
	caller := types.Caller{ID: "fulfiller-1", Role: types.RoleFulfiller}

	proposed := []Field{FieldTitle, FieldStatus, FieldBudget, FieldAttachments}
	allowed := FilterFields(caller, rec, proposed)

	assert.ElementsMatch(t, []Field{FieldStatus, FieldAttachments}, allowed)
}

func TestFilterFields_AdministratorGetsEverything(t *testing.T) {
	rec := testRecord()
	caller := types.Caller{ID: "admin-1", Role: types.RoleAdministrator}

	proposed := []Field{FieldTitle, FieldStatus, FieldBudget, FieldDeadline, FieldFulfillerID, FieldAttachments, FieldReferenceNotes}
	allowed := FilterFields(caller, rec, proposed)

	assert.ElementsMatch(t, proposed, allowed)
}

func TestFilterFields_UnrelatedCallerGetsNothing(t *testing.T) {
	rec := testRecord()
	caller := types.Caller{ID: "stranger", Role: types.RoleRequester}

	allowed := FilterFields(caller, rec, []Field{FieldTitle})
	assert.Empty(t, allowed)
}
