package policies

import "time"

const (
	DEFAULT_LOCKOUT_THRESHOLD = 5
	DEFAULT_LOCKOUT_DURATION  = 30 * time.Minute
)

// LockoutPolicy decides when repeated login failures lock an account.
type LockoutPolicy struct {
	Threshold int
	Duration  time.Duration
}

func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{
		Threshold: DEFAULT_LOCKOUT_THRESHOLD,
		Duration:  DEFAULT_LOCKOUT_DURATION,
	}
}

// WithDefaults fills unset fields with the default values.
func (p LockoutPolicy) WithDefaults() LockoutPolicy {
	if p.Threshold <= 0 {
		p.Threshold = DEFAULT_LOCKOUT_THRESHOLD
	}
	if p.Duration <= 0 {
		p.Duration = DEFAULT_LOCKOUT_DURATION
	}
	return p
}

func (p LockoutPolicy) IsLocked(lockedUntil *time.Time, now time.Time) bool {
	return lockedUntil != nil && now.Before(*lockedUntil)
}

// OnFailure returns the counter and lock state after one more failed attempt.
// A lock that already ran out is treated as cleared, so counting starts over.
// Must not be called while the account is locked.
func (p LockoutPolicy) OnFailure(failedAttempts int, lockedUntil *time.Time, now time.Time) (int, *time.Time) {
	if lockedUntil != nil && !now.Before(*lockedUntil) {
		failedAttempts = 0
		lockedUntil = nil
	}

	failedAttempts += 1
	if failedAttempts >= p.Threshold {
		until := now.Add(p.Duration)
		return failedAttempts, &until
	}
	return failedAttempts, lockedUntil
}

func (p LockoutPolicy) OnSuccess() (int, *time.Time) {
	return 0, nil
}
