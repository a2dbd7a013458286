package security

import (
	"errors"

	"github.com/alexedwards/argon2id"
)

var ErrEmptyPassword = errors.New("password is empty")

// 64 MiB, t=3, p=2: the second recommended option of RFC 9106.
var passwordParams = &argon2id.Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	return argon2id.CreateHash(password, passwordParams)
}

// ComparePassword reports a mismatch as false. Only a malformed hash is an
// error. Hashes made with other parameters still verify.
func ComparePassword(password, hash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, hash)
}
