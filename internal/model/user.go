package model

// UserID identifies a user account
type UserID string

// Role is the permission level of a user account
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a stored account.
// Password is kept in plaintext; the catalog is a local single-tenant demo.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"` // unique, case-sensitive
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
}

// GetID returns the record identifier
func (u *User) GetID() string {
	return string(u.ID)
}

// SetID assigns the record identifier
func (u *User) SetID(id string) {
	u.ID = UserID(id)
}

// Redacted returns a copy of the user without the password
func (u User) Redacted() User {
	u.Password = ""
	return u
}

// UserPatch is a partial update of a User
type UserPatch struct {
	Password *string
	Role     *Role
}

// Apply merges the non-nil fields of the patch into u
func (p UserPatch) Apply(u *User) {
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}
