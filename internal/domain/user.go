package domain

import "time"

// User is the durable account record keyed by email. Roles are stored in
// canonical unprefixed form; ActiveRole is always a member of Roles.
type User struct {
	ID         string
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Roles      []string
	ActiveRole string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasRole reports whether the canonical role is assigned to the user.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
