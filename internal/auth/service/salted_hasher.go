package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/argon2"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
)

const saltLength = 16

// Argon2id parameters for password hashing.
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

// sha256Hasher derives base64(SHA-256(password || salt)).
type sha256Hasher struct{}

// NewSHA256Hasher creates a SaltedHasher compatible with legacy SHA-256 salted hashes.
func NewSHA256Hasher() SaltedHasher {
	return &sha256Hasher{}
}

func (h *sha256Hasher) SaltedHash(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return base64.StdEncoding.EncodeToString(sum[:])
}

func (h *sha256Hasher) GenerateSalt() (string, error) {
	return generateSalt()
}

func (h *sha256Hasher) Compare(password, salt, storedHash string) bool {
	return constantTimeEqual(h.SaltedHash(password, salt), storedHash)
}

// argon2idHasher derives base64(argon2id(password, salt)).
type argon2idHasher struct{}

// NewArgon2idHasher creates a SaltedHasher backed by Argon2id.
func NewArgon2idHasher() SaltedHasher {
	return &argon2idHasher{}
}

func (h *argon2idHasher) SaltedHash(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	return base64.StdEncoding.EncodeToString(key)
}

func (h *argon2idHasher) GenerateSalt() (string, error) {
	return generateSalt()
}

func (h *argon2idHasher) Compare(password, salt, storedHash string) bool {
	return constantTimeEqual(h.SaltedHash(password, salt), storedHash)
}

// NewSaltedHasher returns the hasher for algorithm ("sha256" or "argon2id").
func NewSaltedHasher(algorithm string) (SaltedHasher, error) {
	switch algorithm {
	case "sha256", "":
		return NewSHA256Hasher(), nil
	case "argon2id":
		return NewArgon2idHasher(), nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "unsupported password hash algorithm %q", algorithm)
	}
}

func generateSalt() (string, error) {
	b := make([]byte, saltLength)
	if _, err := rand.Read(b); err != nil {
		return "", apperrors.Wrap(err, "failed to generate salt")
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// constantTimeEqual is a full, case-sensitive comparison. Length mismatches
// return false without comparing bytes.
func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
