package transcode

import (
	"bytes"
	"testing"
)

func TestEmbedExtractPayloadInMP3RoundTrip(t *testing.T) {
	fakeMP3 := bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x00}, 50) // MPEG frame sync bytes, not decoded
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05}

	tagged, err := EmbedPayloadInMP3(fakeMP3, "stego/lsb-pcm", payload)
	if err != nil {
		t.Fatalf("EmbedPayloadInMP3: %v", err)
	}
	if !bytes.HasSuffix(tagged, fakeMP3) {
		t.Error("tagged MP3 does not end with the original MP3 bytes")
	}

	got, found, err := ExtractPayloadFromMP3(tagged, "stego/lsb-pcm")
	if err != nil {
		t.Fatalf("ExtractPayloadFromMP3: %v", err)
	}
	if !found {
		t.Fatal("expected PRIV payload to be found")
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("extracted payload = %v, want %v", got, payload)
	}
}

func TestExtractPayloadFromMP3WrongOwnerNotFound(t *testing.T) {
	fakeMP3 := []byte{0xFF, 0xFB, 0x90, 0x00}
	tagged, err := EmbedPayloadInMP3(fakeMP3, "owner-a", []byte("secret"))
	if err != nil {
		t.Fatalf("EmbedPayloadInMP3: %v", err)
	}
	_, found, err := ExtractPayloadFromMP3(tagged, "owner-b")
	if err != nil {
		t.Fatalf("ExtractPayloadFromMP3: %v", err)
	}
	if found {
		t.Error("expected no match for a different owner identifier")
	}
}

func TestExtractPayloadFromMP3NoID3Tag(t *testing.T) {
	_, found, err := ExtractPayloadFromMP3([]byte{0xFF, 0xFB, 0x90, 0x00}, "owner")
	if err != nil {
		t.Fatalf("ExtractPayloadFromMP3: %v", err)
	}
	if found {
		t.Error("expected no PRIV payload without a leading ID3 tag")
	}
}

func TestEncodeMP3Refuses(t *testing.T) {
	if _, err := EncodeMP3([]byte{1, 2, 3}, 44100, 2, 16); err == nil {
		t.Error("expected EncodeMP3 to refuse re-encoding to a lossy target")
	}
}
