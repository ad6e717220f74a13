package cryptenv

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/gbitstego/audio-steg/internal/stegoerr"
)

// sealGCM implements the v2 format: SALT(16) | NONCE(12) | CIPHERTEXT | TAG(16).
// AAD is empty — the container's leading bytes (magic/version/cipher-version)
// are never transmitted in clear alongside this blob, so there is nothing to
// bind as associated data.
func sealGCM(plaintext []byte, password string) ([]byte, error) {
	salt, err := randomBytes(saltLen)
	if err != nil {
		return nil, err
	}
	key := deriveKey(password, salt)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, stegoerr.Wrap("cryptenv", "seal_gcm", stegoerr.ErrAuth)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, stegoerr.Wrap("cryptenv", "seal_gcm", stegoerr.ErrAuth)
	}

	nonce, err := randomBytes(nonceLen)
	if err != nil {
		return nil, err
	}

	sealed := gcm.Seal(nil, nonce, plaintext, nil) // ciphertext || tag
	out := make([]byte, 0, saltLen+nonceLen+len(sealed))
	out = append(out, salt...)
	out = append(out, nonce...)
	out = append(out, sealed...)
	return out, nil
}

// openGCM reverses sealGCM. Any structural or authentication failure
// returns the uniform stegoerr.ErrAuth.
func openGCM(blob []byte, password string) ([]byte, error) {
	if len(blob) < saltLen+nonceLen+16 { // +16 for the minimum GCM tag
		return nil, stegoerr.Wrap("cryptenv", "open_gcm", stegoerr.ErrAuth)
	}
	salt := blob[:saltLen]
	nonce := blob[saltLen : saltLen+nonceLen]
	sealed := blob[saltLen+nonceLen:]

	key := deriveKey(password, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, stegoerr.Wrap("cryptenv", "open_gcm", stegoerr.ErrAuth)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, stegoerr.Wrap("cryptenv", "open_gcm", stegoerr.ErrAuth)
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, stegoerr.Wrap("cryptenv", "open_gcm", stegoerr.ErrAuth)
	}
	return plaintext, nil
}
