package domain

import (
	"database/sql"
)

// Staff roles. SystemAdmin manages tenants; the rest are LGU-scoped.
const (
	RoleSystemAdmin = "SystemAdmin"
	RoleLGUAdmin    = "LGUAdmin"
	RoleEncoder     = "Encoder"
	RoleViewer      = "Viewer"
)

// User domain model (users table). LGU staff accounts.
type User struct {
	UserID   string `db:"user_id"`
	TenantID string `db:"tenant_id"`

	// account lookup is by SHA-256 hash; the password hash is bcrypt
	UserAccount     string `db:"user_account"`      // NOT NULL
	UserAccountHash []byte `db:"user_account_hash"` // BYTEA, NOT NULL
	PasswordHash    []byte `db:"password_hash"`     // BYTEA, NOT NULL

	Nickname sql.NullString `db:"nickname"`
	Role     string         `db:"role"`   // NOT NULL, one of the Role* constants
	Status   string         `db:"status"` // default 'active'

	// contact hashes for password reset
	EmailHash []byte `db:"email_hash"` // nullable
	PhoneHash []byte `db:"phone_hash"` // nullable

	// scope restriction: non-empty limits the user to one barangay
	BarangayCode sql.NullString `db:"barangay_code"`

	LastLoginAt sql.NullTime `db:"last_login_at"`
}

// CanWrite reports whether the role may mutate registry data.
func (u *User) CanWrite() bool {
	switch u.Role {
	case RoleSystemAdmin, RoleLGUAdmin, RoleEncoder:
		return true
	}
	return false
}
