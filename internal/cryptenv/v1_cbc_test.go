package cryptenv

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"testing"

	"github.com/gbitstego/audio-steg/internal/container"
)

// sealLegacyCBCForTest builds a v1-format blob the way an old encoder would
// have, using the same key derivation and padding the production decoder
// expects. There is no production encoder for v1 (it is read-only), so
// tests construct their own fixtures rather than relying on a checked-in
// binary sample.
func sealLegacyCBCForTest(t *testing.T, plaintext []byte, password string) []byte {
	t.Helper()
	salt, err := randomBytes(saltLen)
	if err != nil {
		t.Fatalf("salt: %v", err)
	}
	iv, err := randomBytes(ivLen)
	if err != nil {
		t.Fatalf("iv: %v", err)
	}
	aesKey, macKey := deriveLegacyKeys(password, salt)

	padLen := aes.BlockSize - len(plaintext)%aes.BlockSize
	padded := append(append([]byte(nil), plaintext...), bytes.Repeat([]byte{byte(padLen)}, padLen)...)

	block, err := aes.NewCipher(aesKey)
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(salt)
	mac.Write(iv)
	mac.Write(ciphertext)
	tag := mac.Sum(nil)

	blob := append(append(append([]byte(nil), salt...), iv...), ciphertext...)
	blob = append(blob, tag...)
	return blob
}

func TestLegacyV1DecodeRoundTrip(t *testing.T) {
	plaintext := []byte("a legacy secret message, padded to several blocks of data")
	blob := sealLegacyCBCForTest(t, plaintext, "old-password")

	got, err := Open(blob, "old-password", container.CipherLegacyCBC)
	if err != nil {
		t.Fatalf("Open legacy: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("legacy round trip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestLegacyV1WrongPasswordFails(t *testing.T) {
	blob := sealLegacyCBCForTest(t, []byte("legacy payload"), "right")
	if _, err := Open(blob, "wrong", container.CipherLegacyCBC); err == nil {
		t.Error("expected auth error for wrong legacy password")
	}
}

func TestLegacyV1TamperedMACFails(t *testing.T) {
	blob := sealLegacyCBCForTest(t, []byte("legacy payload"), "pw")
	blob[len(blob)-1] ^= 0xFF
	if _, err := Open(blob, "pw", container.CipherLegacyCBC); err == nil {
		t.Error("expected auth error for tampered legacy MAC")
	}
}

func TestLegacyV1TruncatedFails(t *testing.T) {
	blob := sealLegacyCBCForTest(t, []byte("legacy payload"), "pw")
	if _, err := Open(blob[:10], "pw", container.CipherLegacyCBC); err == nil {
		t.Error("expected error opening truncated legacy blob")
	}
}

func TestUnpadPKCS7RejectsBadPadding(t *testing.T) {
	cases := [][]byte{
		{},
		{0x00},
		bytes.Repeat([]byte{0x01, 0x02}, 8), // last byte 0x02 but only 1 matching byte
		bytes.Repeat([]byte{0x11}, 16),      // pad length 17 > block size
	}
	for i, data := range cases {
		if _, err := unpadPKCS7(data); err == nil {
			t.Errorf("case %d: expected padding error", i)
		}
	}
}
