// Package password hashes and verifies account passwords.
package password

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLength is the longest password in bytes that bcrypt accepts. It is
// enforced for every algorithm so switching algorithms never locks anyone out.
const MaxLength = 72

var (
	// ErrMalformedHash is returned when a stored hash cannot be parsed.
	ErrMalformedHash = errors.New("malformed password hash")
	// ErrTooLong is returned by Hash for passwords over MaxLength bytes.
	ErrTooLong = errors.New("password too long")
)

// Hasher turns plaintext passwords into salted slow hashes and checks
// candidates against them. Verify reports a mismatch as (false, nil);
// errors are reserved for unusable hashes.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// New returns a Hasher that produces hashes with algorithm ("bcrypt" or
// "argon2id") and verifies hashes of either algorithm, so switching the
// configured algorithm keeps existing accounts usable.
func New(algorithm string, bcryptCost int) (Hasher, error) {
	b := NewBcryptHasher(bcryptCost)
	a := NewArgon2Hasher(nil)

	switch algorithm {
	case "", "bcrypt":
		return &dispatcher{primary: b, bcrypt: b, argon2: a}, nil
	case "argon2id":
		return &dispatcher{primary: a, bcrypt: b, argon2: a}, nil
	default:
		return nil, fmt.Errorf("unknown password algorithm %q", algorithm)
	}
}

type dispatcher struct {
	primary Hasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

func (d *dispatcher) Hash(password string) (string, error) {
	return d.primary.Hash(password)
}

func (d *dispatcher) Verify(password, hash string) (bool, error) {
	if strings.HasPrefix(hash, "$argon2id$") {
		return d.argon2.Verify(password, hash)
	}
	return d.bcrypt.Verify(password, hash)
}
