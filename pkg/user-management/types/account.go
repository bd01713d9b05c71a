package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	USERNAME_MIN_LEN = 3
	USERNAME_MAX_LEN = 50
)

// Account is the stored identity of a back-office user.
type Account struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`

	// CredentialHash is never sent to clients.
	CredentialHash string `bson:"credentialHash" json:"-"`
	// CredentialVersion is incremented on every credential change
	CredentialVersion int64 `bson:"credentialVersion" json:"-"`

	IsActive bool `bson:"isActive" json:"isActive"`
	IsAdmin  bool `bson:"isAdmin" json:"isAdmin"`

	CreatedAt           time.Time  `bson:"createdAt" json:"createdAt"`
	CredentialCreatedAt time.Time  `bson:"credentialCreatedAt,omitempty" json:"credentialCreatedAt,omitempty"`
	LastLoginAt         *time.Time `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`

	// Login rate limiting
	FailedAttempts int        `bson:"failedAttempts" json:"-"`
	LockedUntil    *time.Time `bson:"lockedUntil,omitempty" json:"-"`

	PendingCredentialReset bool       `bson:"pendingCredentialReset" json:"pendingCredentialReset"`
	TempCredentialIssuedAt *time.Time `bson:"tempCredentialIssuedAt,omitempty" json:"-"`
}

// ProfileUpdate lists the only fields that can be changed on an existing account.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Email    *string `json:"email,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
	IsAdmin  *bool   `json:"isAdmin,omitempty"`
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.Email == nil && u.IsActive == nil && u.IsAdmin == nil
}

// NewAccount is the input for creating an account.
type NewAccount struct {
	Username       string
	Email          string
	CredentialHash string
	IsAdmin        bool
}
