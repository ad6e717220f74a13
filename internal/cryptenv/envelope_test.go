package cryptenv

import (
	"bytes"
	"testing"

	"github.com/gbitstego/audio-steg/internal/container"
)

func TestSealOpenRoundTrip(t *testing.T) {
	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	blob, version, err := Seal(plaintext, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if version != container.CipherGCM {
		t.Fatalf("Seal version = %v, want GCM", version)
	}

	got, err := Open(blob, "correct horse battery staple", version)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("round trip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestOpenWrongPassword(t *testing.T) {
	blob, version, _ := Seal([]byte("secret payload"), "right-password")
	if _, err := Open(blob, "wrong-password", version); err == nil {
		t.Error("expected auth error for wrong password")
	}
}

func TestOpenUniformErrorRegardlessOfWhichByteDiffers(t *testing.T) {
	blob, version, _ := Seal([]byte("secret payload"), "pw")

	var errs []string
	for i := 0; i < len(blob); i++ {
		tampered := append([]byte(nil), blob...)
		tampered[i] ^= 0x01
		_, err := Open(tampered, "pw", version)
		if err == nil {
			// Extremely unlikely (would mean the flip produced a valid
			// tag), but not impossible for a single-bit flip test; skip.
			continue
		}
		errs = append(errs, err.Error())
	}
	for _, e := range errs {
		if e != errs[0] {
			t.Fatalf("error message varies by tamper location: %q vs %q", errs[0], e)
		}
	}
}

func TestOpenRejectsTruncatedBlob(t *testing.T) {
	blob, version, _ := Seal([]byte("secret payload"), "pw")
	if _, err := Open(blob[:len(blob)-20], "pw", version); err == nil {
		t.Error("expected error opening truncated blob")
	}
}

func TestOpenRejectsUnknownVersion(t *testing.T) {
	blob, _, _ := Seal([]byte("secret payload"), "pw")
	if _, err := Open(blob, "pw", container.CipherPlain); err == nil {
		t.Error("expected error for unsupported version in Open")
	}
}

func TestFlippingTagByteFailsAuth(t *testing.T) {
	blob, version, _ := Seal([]byte("another secret"), "pw")
	tampered := append([]byte(nil), blob...)
	tampered[len(tampered)-1] ^= 0xFF // last byte is part of the GCM tag
	if _, err := Open(tampered, "pw", version); err == nil {
		t.Error("expected auth error after flipping a tag byte")
	}
}
