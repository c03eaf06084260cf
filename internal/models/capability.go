package models

import "errors"

// Capability names one kind of action checked per operation.
type Capability string

const (
	CapRequest     Capability = "request"
	CapDecide      Capability = "decide"
	CapIngest      Capability = "ingest"
	CapViewAudit   Capability = "view_audit"
	CapManageUsers Capability = "manage_users"
)

var roleCapabilities = map[string][]Capability{
	RoleRequester: {CapRequest},
	RoleApprover:  {CapRequest, CapDecide},
	RoleAdmin:     {CapRequest, CapDecide, CapIngest, CapViewAudit, CapManageUsers},
}

// RoleCan reports whether role grants c. Unknown roles grant nothing.
func RoleCan(role string, c Capability) bool {
	for _, have := range roleCapabilities[role] {
		if have == c {
			return true
		}
	}
	return false
}

// ErrForbidden is returned when a session lacks the capability an operation needs.
var ErrForbidden = errors.New("action not permitted for this role")
