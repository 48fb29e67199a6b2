package model

// Role is the closed set of account types understood by the application.
// Role values appear in the session token's "role" claim and are compared
// by the role-gating middleware, so unknown strings must never become a
// Role; go through ParseRole.
type Role string

const (
	RoleCustomer Role = "customer" // default for new registrations
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a raw string onto the closed role set. The second return
// value is false for anything outside the set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleEmployee:
		return RoleEmployee, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Account mirrors the `account` table. PasswordHash is the bcrypt digest of
// the account password and must never leave the repository/handler layer.
type Account struct {
	ID           uint64 // account.account_id
	FirstName    string // account.account_firstname
	LastName     string // account.account_lastname
	Email        string // account.account_email (unique, stored lower-case)
	PasswordHash string // account.account_password
	Role         Role   // account.account_type
}

// Identity is the snapshot of an account carried inside a session token.
// It deliberately has no password field.
type Identity struct {
	AccountID uint64 `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Identity strips an account down to the fields a session token may carry.
func (a Account) Identity() Identity {
	return Identity{
		AccountID: a.ID,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Role:      a.Role,
	}
}
