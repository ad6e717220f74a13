package transcode

import (
	"bytes"
	"testing"
)

func TestOpenForEmbedAssembleWAVRoundTrip(t *testing.T) {
	pcm := bytes.Repeat([]byte{0x01, 0x02}, 1000)
	wavBytes := buildMinimalWAV(t, pcm, 44100, 2, 16)

	src, err := OpenForEmbed("carrier.wav", wavBytes)
	if err != nil {
		t.Fatalf("OpenForEmbed: %v", err)
	}
	if len(src.Body) != len(pcm) {
		t.Fatalf("Body len = %d, want %d", len(src.Body), len(pcm))
	}

	// Mutate in place, the way lsb.EmbedParallel would.
	src.Body[0] ^= 0xFF

	out, err := src.Assemble()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	body, err := ExtractEmbeddedBody("carrier.wav", out)
	if err != nil {
		t.Fatalf("ExtractEmbeddedBody: %v", err)
	}
	if body[0] != pcm[0]^0xFF {
		t.Errorf("mutated byte lost across Assemble/ExtractEmbeddedBody: got %x, want %x", body[0], pcm[0]^0xFF)
	}
	if !bytes.Equal(body[1:], pcm[1:]) {
		t.Error("bytes beyond the mutation should be unchanged")
	}
}

func TestOpenForEmbedAssembleMP3PrependsPRIVTag(t *testing.T) {
	fakeMP3 := bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x00}, 200)

	src, err := OpenForEmbed("carrier.mp3", fakeMP3)
	if err != nil {
		t.Fatalf("OpenForEmbed: %v", err)
	}
	if len(src.Body) == 0 {
		t.Fatal("expected decoded MP3 PCM body to be non-empty")
	}

	src.Body[0] = 0xAB
	src.Body[1] = 0xCD

	out, err := src.Assemble()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !bytes.HasSuffix(out, fakeMP3) {
		t.Error("assembled MP3 should still end with the original, untouched compressed bytes")
	}

	body, err := ExtractEmbeddedBody("carrier.mp3", out)
	if err != nil {
		t.Fatalf("ExtractEmbeddedBody: %v", err)
	}
	if body[0] != 0xAB || body[1] != 0xCD {
		t.Errorf("recovered body = %x, want mutation to survive via the PRIV tag", body[:2])
	}
}

func TestExtractEmbeddedBodyMP3WithoutPRIVTag(t *testing.T) {
	fakeMP3 := bytes.Repeat([]byte{0xFF, 0xFB, 0x90, 0x00}, 10)
	if _, err := ExtractEmbeddedBody("plain.mp3", fakeMP3); err == nil {
		t.Error("expected an error reading a carrier with no embedded PRIV payload")
	}
}

func TestOpenForEmbedUnsupportedFormat(t *testing.T) {
	if _, err := OpenForEmbed("carrier.ogg", []byte{0, 1, 2}); err == nil {
		t.Error("expected an error for an unsupported carrier extension")
	}
}
