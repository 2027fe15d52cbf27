package entities

// AccountStatus is the moderation state of a user account
type AccountStatus string

const (
	StatusPending   AccountStatus = "PENDING"
	StatusApproved  AccountStatus = "APPROVED"
	StatusRejected  AccountStatus = "REJECTED"
	StatusSuspended AccountStatus = "SUSPENDED"
)

// Role is the account role assigned by administrators
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleMember  Role = "MEMBER"
	RoleStaff   Role = "STAFF"
	RoleAdmin   Role = "ADMIN"
)

// Principal is the authenticated identity the gate evaluates on every request.
// Identity, status and role come from the authentication layer.
type Principal struct {
	UserID string        `json:"user_id"`
	Email  string        `json:"email"`
	Role   Role          `json:"role"`
	Status AccountStatus `json:"status"`
}
