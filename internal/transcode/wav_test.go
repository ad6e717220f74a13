package transcode

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildMinimalWAV assembles a 44-byte-header PCM WAV by hand, the same
// canonical shape EncodeWAV produces.
func buildMinimalWAV(t *testing.T, pcm []byte, sampleRate, channels, bitsPerSample int) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	byteRate := sampleRate * channels * bitsPerSample / 8
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	blockAlign := channels * bitsPerSample / 8
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

func TestDecodeWAVFindsDataChunkAndFormat(t *testing.T) {
	pcm := bytes.Repeat([]byte{0x01, 0x02}, 1000)
	wavBytes := buildMinimalWAV(t, pcm, 44100, 2, 16)

	samples, headerLen, sampleRate, channels, bitsPerSample, err := DecodeWAV(wavBytes)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if headerLen != 44 {
		t.Errorf("headerLen = %d, want 44", headerLen)
	}
	if sampleRate != 44100 || channels != 2 || bitsPerSample != 16 {
		t.Errorf("format = %d Hz/%d ch/%d bit, want 44100/2/16", sampleRate, channels, bitsPerSample)
	}
	if !bytes.Equal(samples, pcm) {
		t.Error("decoded samples do not match original PCM body")
	}
}

func TestDecodeWAVRejectsBadMagic(t *testing.T) {
	wavBytes := buildMinimalWAV(t, []byte{0, 0}, 8000, 1, 8)
	wavBytes[0] = 'X'
	if _, _, _, _, _, err := DecodeWAV(wavBytes); err == nil {
		t.Error("expected error for corrupted RIFF magic")
	}
}

func TestBytesToIntsSignExtends16Bit(t *testing.T) {
	// -1 and 1 as little-endian int16.
	raw := []byte{0xFF, 0xFF, 0x01, 0x00}
	ints := bytesToInts(raw, 16)
	if len(ints) != 2 || ints[0] != -1 || ints[1] != 1 {
		t.Errorf("bytesToInts = %v, want [-1 1]", ints)
	}
}
