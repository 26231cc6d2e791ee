package domain

import "time"

// Role tags an account as a technician or a requester.
type Role string

const (
	RoleTechnician Role = "TECNICO"
	RoleRequester  Role = "FUNCIONAL"
)

var roleLabels = map[Role]string{
	RoleTechnician: "Técnico",
	RoleRequester:  "Funcional",
}

// Valid reports whether the role is one of the two supported values.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label returns the display name of the role.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// Profile attaches a role to exactly one account. Every account owns
// exactly one profile, created together with the account.
type Profile struct {
	ID        int64
	AccountID int64
	Role      Role
	CreatedAt time.Time
}

// IsTechnician reports whether the profile carries the technician role.
func (p *Profile) IsTechnician() bool {
	return p != nil && p.Role == RoleTechnician
}
