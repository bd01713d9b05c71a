package policies

import (
	"testing"
	"time"
)

func TestIsExpired(t *testing.T) {
	p := DefaultPasswordLifecyclePolicy()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name      string
		createdAt time.Time
		expected  bool
	}{
		{"unknown creation time", time.Time{}, true},
		{"fresh", now, false},
		{"59 days old", now.Add(-59 * day), false},
		{"exactly 60 days old", now.Add(-60 * day), false},
		{"61 days old", now.Add(-61 * day), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.IsExpired(tt.createdAt, now); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestNeedsReset(t *testing.T) {
	p := PasswordLifecyclePolicy{}.WithDefaults()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if p.NeedsReset(now, false, now) {
		t.Error("should be false")
	}
	if !p.NeedsReset(now, true, now) {
		t.Error("pending reset should require a new credential")
	}
}
