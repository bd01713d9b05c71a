package pwhash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

const (
	minMemoryKB   uint32 = 1024
	minSaltLength uint32 = 16
	minKeyLength  uint32 = 16
)

var ErrInvalidHash = errors.New("invalid credential hash format")

// Argon2Params are read once from the service config.
type Argon2Params struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func DefaultParams() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  4,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2Hasher produces PHC encoded argon2id hashes. The parameters used are stored
// inside the hash, so hashes created with older parameters stay verifiable.
type Argon2Hasher struct {
	params Argon2Params
}

func NewArgon2Hasher(params Argon2Params) (*Argon2Hasher, error) {
	defaults := DefaultParams()
	if params.Memory == 0 {
		params.Memory = defaults.Memory
	}
	if params.Iterations == 0 {
		params.Iterations = defaults.Iterations
	}
	if params.Parallelism == 0 {
		params.Parallelism = defaults.Parallelism
	}
	if params.SaltLength == 0 {
		params.SaltLength = defaults.SaltLength
	}
	if params.KeyLength == 0 {
		params.KeyLength = defaults.KeyLength
	}

	if params.Memory < minMemoryKB {
		return nil, fmt.Errorf("argon2 memory must be at least %d KB", minMemoryKB)
	}
	if params.SaltLength < minSaltLength {
		return nil, fmt.Errorf("argon2 salt length must be at least %d", minSaltLength)
	}
	if params.KeyLength < minKeyLength {
		return nil, fmt.Errorf("argon2 key length must be at least %d", minKeyLength)
	}
	return &Argon2Hasher{params: params}, nil
}

func (h *Argon2Hasher) Hash(secret string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(secret), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify returns an error only if the stored hash cannot be decoded.
func (h *Argon2Hasher) Verify(secret string, encodedHash string) (bool, error) {
	p, salt, key, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	otherKey := argon2.IDKey([]byte(secret), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, otherKey) == 1, nil
}

func decodeHash(encodedHash string) (p Argon2Params, salt []byte, key []byte, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != algorithmID {
		err = ErrInvalidHash
		return
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		err = ErrInvalidHash
		return
	}
	if version != argon2.Version {
		err = fmt.Errorf("incompatible argon2 version: %d", version)
		return
	}

	for _, pair := range strings.Split(parts[3], ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			err = ErrInvalidHash
			return
		}
		v, convErr := strconv.ParseUint(kv[1], 10, 32)
		if convErr != nil || v == 0 {
			err = ErrInvalidHash
			return
		}
		switch kv[0] {
		case "m":
			p.Memory = uint32(v)
		case "t":
			p.Iterations = uint32(v)
		case "p":
			if v > 255 {
				err = ErrInvalidHash
				return
			}
			p.Parallelism = uint8(v)
		default:
			err = ErrInvalidHash
			return
		}
	}
	if p.Memory == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		err = ErrInvalidHash
		return
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		err = ErrInvalidHash
		return
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		err = ErrInvalidHash
		return
	}
	p.SaltLength = uint32(len(salt))
	p.KeyLength = uint32(len(key))
	return
}
