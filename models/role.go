package models

// Role is the authorizer recorded on destructive actions. It is derived from the secret code
// entered at the desk, not from a user account.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleStaff         Role = "staff"
)
