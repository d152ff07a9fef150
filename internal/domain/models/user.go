package models

import "fmt"

// Role is an enumerated operator role. Authorization decisions go through the
// capability table rather than comparing role strings at call sites.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleStaff Role = "Staff"
	RoleUser  Role = "User"
)

// ParseRole validates a role string coming from the user store or a token.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleAdmin, RoleStaff, RoleUser:
		return Role(value), nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// Capability names a single guarded action.
type Capability string

const (
	CapCheckout      Capability = "checkout"
	CapManageLedger  Capability = "manage-ledger"
	CapDeleteRecords Capability = "delete-records"
	CapViewReports   Capability = "view-reports"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapCheckout:      true,
		CapManageLedger:  true,
		CapDeleteRecords: true,
		CapViewReports:   true,
	},
	RoleStaff: {
		CapCheckout:     true,
		CapManageLedger: true,
		CapViewReports:  true,
	},
	RoleUser: {
		CapViewReports: true,
	},
}

// Can reports whether the role grants the capability.
func (r Role) Can(cap Capability) bool {
	return roleCapabilities[r][cap]
}

// User is an operator account resolved from the Users table.
type User struct {
	Username    string
	Password    string // bcrypt hash, or legacy plaintext from older sheets
	DisplayName string
	Role        Role
}
