package types

type Role string

const (
	RoleRequester     Role = "requester"
	RoleFulfiller     Role = "fulfiller"
	RoleAdministrator Role = "administrator"
)

// Caller is the identity the credential collaborator resolved for a request.
// The core trusts it completely.
type Caller struct {
	ID   string
	Role Role
}
