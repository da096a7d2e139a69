// Package password hashes and verifies user passwords.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/evalca-server/internal/model"
)

// Hasher produces self-describing password hashes.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
}

const (
	argon2SaltLen = 16
	argon2KeyLen  = 32
	argon2Prefix  = "$argon2id$"
)

// KDFParams are argon2id cost parameters.
type KDFParams struct {
	Time   uint32
	MemKiB uint32
	Par    uint8
}

// Argon2id hashes with argon2id and verifies both argon2id and bcrypt hashes.
type Argon2id struct {
	params KDFParams
}

// NewArgon2id creates an argon2id hasher.
func NewArgon2id(params KDFParams) *Argon2id {
	return &Argon2id{params: params}
}

// Hash returns an encoded argon2id hash with a random salt.
func (a *Argon2id) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, a.params.Time, a.params.MemKiB, a.params.Par, argon2KeyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version, a.params.MemKiB, a.params.Time, a.params.Par,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks password against any supported encoded hash.
func (a *Argon2id) Verify(password, encoded string) bool {
	return Verify(password, encoded)
}

// BcryptMaxBytes is the longest password bcrypt accepts.
const BcryptMaxBytes = 72

// Bcrypt hashes with bcrypt and verifies both bcrypt and argon2id hashes.
type Bcrypt struct {
	cost int
}

// NewBcrypt creates a bcrypt hasher. Out of range costs fall back to bcrypt.DefaultCost.
func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

// Hash returns a bcrypt hash. Passwords over BcryptMaxBytes fail with model.ErrPasswordTooLong.
func (b *Bcrypt) Hash(password string) (string, error) {
	if len(password) > BcryptMaxBytes {
		return "", fmt.Errorf("bcrypt accepts at most %d bytes: %w", BcryptMaxBytes, model.ErrPasswordTooLong)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks password against any supported encoded hash.
func (b *Bcrypt) Verify(password, encoded string) bool {
	return Verify(password, encoded)
}

// Verify dispatches on the hash prefix. Malformed hashes never verify.
func Verify(password, encoded string) bool {
	switch {
	case strings.HasPrefix(encoded, argon2Prefix):
		return verifyArgon2id(password, encoded)
	case strings.HasPrefix(encoded, "$2"):
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	default:
		return false
	}
}

var errMalformedHash = errors.New("malformed argon2id hash")

func verifyArgon2id(password, encoded string) bool {
	params, salt, key, err := decodeArgon2id(encoded)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(password), salt, params.Time, params.MemKiB, params.Par, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1
}

func decodeArgon2id(encoded string) (KDFParams, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return KDFParams{}, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return KDFParams{}, nil, nil, errMalformedHash
	}

	var p KDFParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemKiB, &p.Time, &p.Par); err != nil {
		return KDFParams{}, nil, nil, errMalformedHash
	}
	if p.Time == 0 || p.Par == 0 {
		return KDFParams{}, nil, nil, errMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return KDFParams{}, nil, nil, errMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return KDFParams{}, nil, nil, errMalformedHash
	}

	return p, salt, key, nil
}

// New picks the hasher by algorithm name.
func New(algorithm string, bcryptCost int, kdf KDFParams) (Hasher, error) {
	switch algorithm {
	case "argon2id":
		return NewArgon2id(kdf), nil
	case "bcrypt":
		return NewBcrypt(bcryptCost), nil
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", algorithm)
	}
}
