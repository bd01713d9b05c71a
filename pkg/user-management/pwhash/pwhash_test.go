package pwhash

import (
	"strings"
	"testing"
)

func testHasher(t *testing.T) *Argon2Hasher {
	h, err := NewArgon2Hasher(Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return h
}

func TestHashAndVerify(t *testing.T) {
	h := testHasher(t)

	hash, err := h.Hash("Abc123!@")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Errorf("unexpected hash prefix: %s", hash)
	}

	t.Run("correct secret", func(t *testing.T) {
		ok, err := h.Verify("Abc123!@", hash)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !ok {
			t.Error("should be true")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		ok, err := h.Verify("Abc123!#", hash)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if ok {
			t.Error("should be false")
		}
	})
}

func TestHashIsSalted(t *testing.T) {
	h := testHasher(t)
	h1, _ := h.Hash("same-secret")
	h2, _ := h.Hash("same-secret")
	if h1 == h2 {
		t.Error("expected different hashes for the same secret")
	}
}

func TestVerifyWithOtherParams(t *testing.T) {
	old, err := NewArgon2Hasher(Argon2Params{Memory: 4 * 1024, Iterations: 2, Parallelism: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hash, _ := old.Hash("Abc123!@")

	ok, err := testHasher(t).Verify("Abc123!@", hash)
	if err != nil || !ok {
		t.Errorf("hash created with older params should verify: %v", err)
	}
}

func TestVerifyInvalidHash(t *testing.T) {
	h := testHasher(t)
	for _, hash := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
	} {
		if _, err := h.Verify("secret", hash); err == nil {
			t.Errorf("expected error for hash %q", hash)
		}
	}
}

func TestNewArgon2HasherValidation(t *testing.T) {
	if _, err := NewArgon2Hasher(Argon2Params{Memory: 512}); err == nil {
		t.Error("expected error for too little memory")
	}
	h, err := NewArgon2Hasher(Argon2Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.params != DefaultParams() {
		t.Errorf("expected default params, got %+v", h.params)
	}
}
