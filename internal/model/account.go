package model

import "time"

// Account is an administrative console login.  Accounts are separate from
// directory employees: an account authenticates against this service, an
// employee is a synced HR record that can occupy seats.
//
// Fields:
//  ID           – primary key identifier.
//  Username     – unique login name; also used as the operator id on audit rows.
//  DisplayName  – name recorded as operator_name on audit rows.
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN or VIEWER.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Account struct {
	ID           uint64    // accounts.id
	Username     string    // accounts.username
	DisplayName  string    // accounts.display_name
	PasswordHash string    // accounts.password_hash
	Role         string    // accounts.role
	IsActive     bool      // accounts.is_active
	CreatedAt    time.Time // accounts.created_at
	UpdatedAt    time.Time // accounts.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to an account and contains metadata for expiry and
// revocation.  The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	AccountID uint64     // refresh_tokens.account_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
