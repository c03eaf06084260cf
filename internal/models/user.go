package models

// Roles are flat tags; there is no hierarchy between them.
const (
	RoleRequester = "requester"
	RoleApprover  = "approver"
	RoleAdmin     = "admin"
)

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Email        string `json:"email,omitempty"`
	Role         string `json:"role"`
}

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleRequester, RoleApprover, RoleAdmin:
		return true
	}
	return false
}

// Session is the identity acting on behalf of a logged-in user.
// It is passed explicitly into every core operation.
type Session struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Can reports whether the session's role grants c.
func (s Session) Can(c Capability) bool {
	return RoleCan(s.Role, c)
}
