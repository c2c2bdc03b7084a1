// Package cryptox derives and checks password hashes for the platform
// emulator's accounts.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/aora/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of a generated per-account salt.
const SaltSize = 16

// DeriveKey stretches password with salt using Argon2id.
func DeriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// HashPassword returns the Argon2id hash of password under a fresh salt.
func HashPassword(password []byte) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(SaltSize)
	return DeriveKey(password, salt), salt
}

// VerifyPassword reports whether candidate hashes to hash under salt.
// The comparison runs in constant time.
func VerifyPassword(candidate, hash, salt []byte) bool {
	return subtle.ConstantTimeCompare(DeriveKey(candidate, salt), hash) == 1
}
