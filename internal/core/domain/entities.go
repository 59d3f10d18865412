package domain

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsAdmin reports whether the role grants administrator access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// PriceRounding decides how a partial borrow day contributes to the price.
type PriceRounding string

const (
	// RoundDown truncates partial days (a 3.5 day rental is billed 3 days).
	RoundDown PriceRounding = "down"
	// RoundUp bills any started day in full.
	RoundUp PriceRounding = "up"
)
