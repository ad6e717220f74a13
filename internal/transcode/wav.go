package transcode

import (
	"encoding/binary"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/gbitstego/audio-steg/internal/stegoerr"
)

// findWAVDataChunk walks RIFF chunks looking for "data", returning the
// offset of its payload and its declared size.
func findWAVDataChunk(data []byte) (offset int, size int, err error) {
	if len(data) < 12 || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return 0, 0, stegoerr.Wrap("transcode", "find_data_chunk", stegoerr.ErrFormat)
	}

	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		if chunkID == "data" {
			if body+chunkSize > len(data) {
				return 0, 0, stegoerr.Wrap("transcode", "find_data_chunk", stegoerr.ErrFormat)
			}
			return body, chunkSize, nil
		}

		next := body + chunkSize
		if chunkSize%2 == 1 {
			next++
		}
		if next <= pos {
			return 0, 0, stegoerr.Wrap("transcode", "find_data_chunk", stegoerr.ErrFormat)
		}
		pos = next
	}
	return 0, 0, stegoerr.Wrap("transcode", "find_data_chunk", stegoerr.ErrFormat)
}

// findWAVFmtChunk returns the channel count, sample rate, and bit depth
// declared in the fmt chunk.
func findWAVFmtChunk(data []byte) (channels, sampleRate, bitsPerSample int, err error) {
	pos := 12
	for pos+8 <= len(data) {
		chunkID := string(data[pos : pos+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		if chunkID == "fmt " {
			if body+16 > len(data) {
				return 0, 0, 0, stegoerr.Wrap("transcode", "find_fmt_chunk", stegoerr.ErrFormat)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			return channels, sampleRate, bitsPerSample, nil
		}

		next := body + chunkSize
		if chunkSize%2 == 1 {
			next++
		}
		if next <= pos {
			return 0, 0, 0, stegoerr.Wrap("transcode", "find_fmt_chunk", stegoerr.ErrFormat)
		}
		pos = next
	}
	return 0, 0, 0, stegoerr.Wrap("transcode", "find_fmt_chunk", stegoerr.ErrFormat)
}

// DecodeWAV returns the raw bytes of the data chunk (the carrier body the
// codec operates on) along with the offset those bytes start at and the
// format the fmt chunk declared. Unlike go-audio/wav's sample-oriented
// decoder, this never converts bytes to integers and back, so the
// returned samples are bit-identical to the file's data chunk.
func DecodeWAV(data []byte) (samples []byte, headerLen, sampleRate, channels, bitsPerSample int, err error) {
	channels, sampleRate, bitsPerSample, err = findWAVFmtChunk(data)
	if err != nil {
		return nil, 0, 0, 0, 0, err
	}
	offset, size, err := findWAVDataChunk(data)
	if err != nil {
		return nil, 0, 0, 0, 0, err
	}
	logf("DEBUG", "DecodeWAV", "data chunk at offset %d, %d bytes, %d Hz/%d ch/%d bit", offset, size, sampleRate, channels, bitsPerSample)
	return data[offset : offset+size], offset, sampleRate, channels, bitsPerSample, nil
}

// EncodeWAV writes samples back out as a minimal canonical WAV file using
// go-audio/wav's encoder, which owns the RIFF/fmt/data chunk layout.
func EncodeWAV(samples []byte, sampleRate, channels, bitsPerSample int) ([]byte, error) {
	ws := &memWriteSeeker{}
	enc := wav.NewEncoder(ws, sampleRate, bitsPerSample, channels, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		SourceBitDepth: bitsPerSample,
		Data:           bytesToInts(samples, bitsPerSample),
	}
	if err := enc.Write(buf); err != nil {
		return nil, stegoerr.Wrap("transcode", "encode_wav", stegoerr.ErrFormat)
	}
	if err := enc.Close(); err != nil {
		return nil, stegoerr.Wrap("transcode", "encode_wav", stegoerr.ErrFormat)
	}
	return ws.Bytes(), nil
}

// bytesToInts unpacks little-endian PCM samples of the given bit depth
// into signed integers, the shape go-audio/wav.Encoder expects.
func bytesToInts(samples []byte, bitsPerSample int) []int {
	width := bitsPerSample / 8
	if width <= 0 {
		return nil
	}
	out := make([]int, 0, len(samples)/width)
	for i := 0; i+width <= len(samples); i += width {
		var v int32
		for b := width - 1; b >= 0; b-- {
			v = v<<8 | int32(samples[i+b])
		}
		// Sign-extend from bitsPerSample bits.
		shift := 32 - bitsPerSample
		v = (v << shift) >> shift
		out = append(out, int(v))
	}
	return out
}
