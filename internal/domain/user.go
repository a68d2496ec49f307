package domain

import "time"

// Role enumerates the access tiers, customers lowest.
type Role string

const (
	RoleCustomer   Role = "Customer"
	RoleAgent      Role = "Agent"
	RoleManager    Role = "Manager"
	RoleAdmin      Role = "Admin"
	RoleSuperAdmin Role = "Super Admin"
)

// UserStatus represents account lifecycle states.
type UserStatus string

const (
	UserStatusActive   UserStatus = "Active"
	UserStatusInactive UserStatus = "Inactive"
)

// User is the single account model for customers and staff alike;
// Role decides what they can do.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Department   *string
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
