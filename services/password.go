package services

import (
	"github.com/alexedwards/argon2id"
)

// PasswordHasher produces and checks one-way password hashes
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// DefaultPasswordParams are the argon2id parameters for new hashes
var DefaultPasswordParams = &argon2id.Params{
	Memory:      19 * 1024,
	Iterations:  2,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Argon2Hasher hashes passwords with argon2id. Verification reads the
// parameters encoded in the stored hash, so older hashes keep working
// when the defaults change.
type Argon2Hasher struct {
	params *argon2id.Params
}

// NewArgon2Hasher creates a hasher; nil params selects DefaultPasswordParams
func NewArgon2Hasher(params *argon2id.Params) *Argon2Hasher {
	if params == nil {
		params = DefaultPasswordParams
	}
	return &Argon2Hasher{params: params}
}

// Hash returns an encoded argon2id hash of password
func (h *Argon2Hasher) Hash(password string) (string, error) {
	return argon2id.CreateHash(password, h.params)
}

// Verify reports whether password matches hash, in constant time
func (h *Argon2Hasher) Verify(password, hash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, hash)
}
