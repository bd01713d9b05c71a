package policies

import "time"

const DEFAULT_CREDENTIAL_MAX_AGE = 60 * 24 * time.Hour

// PasswordLifecyclePolicy implements a soft expiry: an expired credential is
// still accepted for login, but the client is asked to replace it.
type PasswordLifecyclePolicy struct {
	MaxAge time.Duration
}

func DefaultPasswordLifecyclePolicy() PasswordLifecyclePolicy {
	return PasswordLifecyclePolicy{MaxAge: DEFAULT_CREDENTIAL_MAX_AGE}
}

func (p PasswordLifecyclePolicy) WithDefaults() PasswordLifecyclePolicy {
	if p.MaxAge <= 0 {
		p.MaxAge = DEFAULT_CREDENTIAL_MAX_AGE
	}
	return p
}

// IsExpired is true if the creation time is unknown or older than MaxAge.
func (p PasswordLifecyclePolicy) IsExpired(credentialCreatedAt time.Time, now time.Time) bool {
	if credentialCreatedAt.IsZero() {
		return true
	}
	return now.After(credentialCreatedAt.Add(p.MaxAge))
}

// NeedsReset also flags credentials that were issued as temporary ones.
func (p PasswordLifecyclePolicy) NeedsReset(credentialCreatedAt time.Time, pendingReset bool, now time.Time) bool {
	return pendingReset || p.IsExpired(credentialCreatedAt, now)
}
