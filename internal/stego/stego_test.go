package stego

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/gbitstego/audio-steg/internal/container"
	"github.com/gbitstego/audio-steg/internal/lsb"
	"github.com/gbitstego/audio-steg/internal/stegoerr"
)

type recordingSink struct {
	encoded []string
	decoded []string
}

func (r *recordingSink) OnEncoded(name string, size int) { r.encoded = append(r.encoded, name) }
func (r *recordingSink) OnDecoded(name string, size int) { r.decoded = append(r.decoded, name) }

func randomBody(n int, seed int64) []byte {
	body := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(body)
	return body
}

func TestRoundTripNoPassword(t *testing.T) {
	body := randomBody(200_000, 1)
	files := []container.File{{Name: "hello.txt", Data: []byte("Hello, world!\n")}}

	sink := &recordingSink{}
	c := NewCoordinator(sink)
	if _, err := c.Encode(body, files, lsb.QualityNormal, ""); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := c.Decode(context.Background(), body, lsb.QualityNormal.Bits(), "", nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 1 || got[0].Name != "hello.txt" || !bytes.Equal(got[0].Data, files[0].Data) {
		t.Errorf("decoded files = %+v, want %+v", got, files)
	}
	if len(sink.encoded) != 1 || len(sink.decoded) != 1 {
		t.Errorf("progress sink calls = %+v", sink)
	}
}

func TestRoundTripMultiFileHighQualityPassword(t *testing.T) {
	body := randomBody(300_000, 2)
	a := make([]byte, 256)
	b := make([]byte, 256)
	for i := range a {
		a[i] = byte(i)
		b[i] = byte(255 - i)
	}
	files := []container.File{{Name: "a.bin", Data: a}, {Name: "b.bin", Data: b}}

	c := NewCoordinator(nil)
	if _, err := c.Encode(body, files, lsb.QualityHigh, "p@ss"); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	versionTag, _, err := readPrefix(body, lsb.QualityHigh.Bits())
	if err != nil {
		t.Fatalf("readPrefix: %v", err)
	}
	if versionTag != container.CipherGCM {
		t.Errorf("CipherVersion = %v, want CipherGCM", versionTag)
	}

	got, err := c.Decode(context.Background(), body, lsb.QualityHigh.Bits(), "p@ss", nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d files, want 2", len(got))
	}
	for i, f := range files {
		if got[i].Name != f.Name || !bytes.Equal(got[i].Data, f.Data) {
			t.Errorf("file %d mismatch", i)
		}
	}
}

func TestDecodeRequiresPasswordWhenEncrypted(t *testing.T) {
	body := randomBody(200_000, 3)
	files := []container.File{{Name: "x", Data: []byte("secret")}}
	c := NewCoordinator(nil)
	if _, err := c.Encode(body, files, lsb.QualityNormal, "pw"); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := c.Decode(context.Background(), body, lsb.QualityNormal.Bits(), "", nil); !errors.Is(err, stegoerr.ErrKeyRequired) {
		t.Errorf("Decode without password/provider: got %v, want ErrKeyRequired", err)
	}
}

type cancelProvider struct{}

func (cancelProvider) Provide(ctx context.Context) (PasswordProviderResult, error) {
	return PasswordProviderResult{Cancel: true}, nil
}

func TestDecodeHonorsProviderCancellation(t *testing.T) {
	body := randomBody(200_000, 4)
	files := []container.File{{Name: "x", Data: []byte("secret")}}
	c := NewCoordinator(nil)
	if _, err := c.Encode(body, files, lsb.QualityNormal, "pw"); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := c.Decode(context.Background(), body, lsb.QualityNormal.Bits(), "", cancelProvider{}); !errors.Is(err, stegoerr.ErrCancelled) {
		t.Errorf("Decode with cancelling provider: got %v, want ErrCancelled", err)
	}
}

func TestEncodeRejectsCapacityOverflow(t *testing.T) {
	body := randomBody(100_000, 5) // HIGH: k=1, ~12.5kB capacity
	secret := make([]byte, 20_000)
	files := []container.File{{Name: "big.bin", Data: secret}}

	original := append([]byte(nil), body...)
	c := NewCoordinator(nil)
	_, err := c.Encode(body, files, lsb.QualityHigh, "")
	if !errors.Is(err, stegoerr.ErrCapacity) {
		t.Fatalf("Encode overflow: got %v, want ErrCapacity", err)
	}
	if !bytes.Equal(body, original) {
		t.Error("body was modified despite capacity failure")
	}
}

func TestDecodeDetectsTamperedCiphertext(t *testing.T) {
	body := randomBody(200_000, 6)
	files := []container.File{{Name: "x", Data: bytes.Repeat([]byte{0xAB}, 300)}}
	c := NewCoordinator(nil)
	if _, err := c.Encode(body, files, lsb.QualityNormal, "pw"); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Flip a bit past the fixed prefix and past the envelope's SALT(16) and
	// NONCE(12), so it lands inside the ciphertext: at k=2 each carrier byte
	// holds 2 payload bits, so carrier byte prefixBits/k+200 carries envelope
	// byte 50, inside the 327-byte ciphertext of this container.
	k := lsb.QualityNormal.Bits()
	tamperByteIdx := (prefixBits / k) + 200
	body[tamperByteIdx] ^= 1

	if _, err := c.Decode(context.Background(), body, k, "pw", nil); !errors.Is(err, stegoerr.ErrAuth) {
		t.Errorf("Decode after tamper: got %v, want ErrAuth", err)
	}
}

func TestAnalyzerNoHiddenDataOnRandomNoise(t *testing.T) {
	body := randomBody(50_000, 7)
	report := NewAnalyzer().Analyze(body, lsb.QualityNormal.Bits(), "")
	if report.HasData {
		t.Errorf("random noise carrier reported HasData=true: %+v", report)
	}
}

func TestAnalyzerReportsFileListWithoutPassword(t *testing.T) {
	body := randomBody(200_000, 8)
	files := []container.File{{Name: "n.txt", Data: []byte("note")}}
	c := NewCoordinator(nil)
	if _, err := c.Encode(body, files, lsb.QualityNormal, ""); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	report := NewAnalyzer().Analyze(body, lsb.QualityNormal.Bits(), "")
	if !report.HasData || report.Corrupt {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.FileCount != 1 || report.Files[0].Name != "n.txt" || report.Files[0].Size != len("note") {
		t.Errorf("report files = %+v", report.Files)
	}
}

func TestAnalyzerWithoutPasswordReportsVersionOnly(t *testing.T) {
	body := randomBody(200_000, 9)
	files := []container.File{{Name: "n.txt", Data: []byte("note")}}
	c := NewCoordinator(nil)
	if _, err := c.Encode(body, files, lsb.QualityNormal, "pw"); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	report := NewAnalyzer().Analyze(body, lsb.QualityNormal.Bits(), "")
	if !report.HasData || report.CipherVersion != container.CipherGCM || report.FileCount != 0 {
		t.Errorf("encrypted no-password report = %+v", report)
	}

	withPassword := NewAnalyzer().Analyze(body, lsb.QualityNormal.Bits(), "pw")
	if withPassword.FileCount != 1 || withPassword.Files[0].Name != "n.txt" {
		t.Errorf("encrypted with-password report = %+v", withPassword)
	}
}
