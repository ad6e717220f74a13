// Package cryptenv implements the CryptoEnvelope: converting a plaintext
// container blob to a versioned ciphertext blob and back, under a user
// password. Parameters are locked for interoperability and must never
// change without bumping the cipher version.
//
// Two formats are supported:
//   - v2 (seal + open): AES-256-GCM, sealed blob is
//     SALT(16) | NONCE(12) | CIPHERTEXT | TAG(16).
//   - v1 (open only, legacy): AES-256-CBC + PKCS#7 + HMAC-SHA256,
//     sealed blob is SALT(16) | IV(16) | CIPHERTEXT(padded) | MAC(32).
//
// All failures — wrong password, tag mismatch, truncated blob, unknown
// version — collapse to the single stegoerr.ErrAuth sentinel with no
// detail about which check failed, to avoid giving an attacker an oracle.
package cryptenv

import (
	"crypto/rand"

	"golang.org/x/crypto/argon2"

	"github.com/gbitstego/audio-steg/internal/container"
	"github.com/gbitstego/audio-steg/internal/stegoerr"
)

// Argon2id parameters, fixed for interoperability. memoryKiB is in KiB as
// required by golang.org/x/crypto/argon2's signature (64 MiB = 65536 KiB).
const (
	argonMemoryKiB = 64 * 1024
	argonTime      = 3
	argonThreads   = 4
	keyLen         = 32
	saltLen        = 16
	nonceLen       = 12
	macLen         = 32
)

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, stegoerr.Wrap("cryptenv", "rand", stegoerr.ErrAuth)
	}
	return b, nil
}

// deriveKey derives a single keyLen-byte key via Argon2id, used by the v2
// format where one key serves both encryption and authentication (GCM is
// self-authenticating).
func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemoryKiB, argonThreads, keyLen)
}

// Seal encrypts plaintext under password using the current (v2) format
// and returns the concatenated blob plus the cipher version tag it was
// sealed with. New encodes always use v2; v1 is read-only.
func Seal(plaintext []byte, password string) ([]byte, container.CipherVersion, error) {
	blob, err := sealGCM(plaintext, password)
	if err != nil {
		return nil, 0, err
	}
	return blob, container.CipherGCM, nil
}

// Open decrypts blob under password, dispatching to the v1 or v2 format
// by version. version must be container.CipherLegacyCBC or
// container.CipherGCM; any other value is an auth failure (there is
// nothing to decrypt for CipherPlain, callers should not call Open for it).
func Open(blob []byte, password string, version container.CipherVersion) ([]byte, error) {
	switch version {
	case container.CipherGCM:
		return openGCM(blob, password)
	case container.CipherLegacyCBC:
		return openLegacyCBC(blob, password)
	default:
		return nil, stegoerr.Wrap("cryptenv", "open", stegoerr.ErrAuth)
	}
}
