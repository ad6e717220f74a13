package transcode

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/gbitstego/audio-steg/internal/stegoerr"
)

// mp3BitsPerSample is fixed: go-mp3 always decodes to 16-bit signed
// little-endian stereo PCM, regardless of the source encoding.
const (
	mp3BitsPerSample = 16
	mp3Channels      = 2
)

// DecodeMP3 decodes an MP3 stream to linear PCM via hajimehoshi/go-mp3.
// headerLen is always 0: go-mp3 exposes no header bytes, the decoded
// stream starts directly at sample data.
func DecodeMP3(data []byte) (samples []byte, headerLen, sampleRate, channels, bitsPerSample int, err error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, 0, 0, stegoerr.Wrap("transcode", "decode_mp3", stegoerr.ErrFormat)
	}
	pcm, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, 0, 0, 0, stegoerr.Wrap("transcode", "decode_mp3", stegoerr.ErrFormat)
	}
	logf("INFO", "DecodeMP3", "decoded %d Hz, %d PCM bytes", dec.SampleRate(), len(pcm))
	return pcm, 0, dec.SampleRate(), mp3Channels, mp3BitsPerSample, nil
}

// EncodeMP3 always refuses: re-encoding post-embed PCM straight to MP3
// would destroy the low-order bits the codec just wrote. Callers that
// need a playable MP3 out of a steganographic PCM stream must use
// EmbedPayloadInMP3 against an MP3 produced from the clean carrier,
// never this function.
func EncodeMP3(samples []byte, sampleRate, channels, bitsPerSample int) ([]byte, error) {
	return nil, stegoerr.Wrap("transcode", "encode_mp3", stegoerr.ErrLossyTarget)
}

// synchsafeEncode encodes a 32-bit integer into a 28-bit synchsafe
// integer, 7 usable bits per byte, as ID3v2 tag sizes require.
func synchsafeEncode(v uint32) [4]byte {
	var out [4]byte
	out[0] = byte((v >> 21) & 0x7F)
	out[1] = byte((v >> 14) & 0x7F)
	out[2] = byte((v >> 7) & 0x7F)
	out[3] = byte(v & 0x7F)
	return out
}

// buildID3v23PrivTag builds a minimal ID3v2.3 tag containing a single
// PRIV frame carrying owner (ISO-8859-1, NUL-terminated) and payload.
func buildID3v23PrivTag(owner string, payload []byte) []byte {
	frameData := make([]byte, 0, len(owner)+1+len(payload))
	frameData = append(frameData, owner...)
	frameData = append(frameData, 0x00)
	frameData = append(frameData, payload...)

	var frame bytes.Buffer
	frame.WriteString("PRIV")
	binary.Write(&frame, binary.BigEndian, uint32(len(frameData)))
	frame.Write([]byte{0x00, 0x00}) // flags
	frame.Write(frameData)

	var tag bytes.Buffer
	tag.WriteString("ID3")
	tag.WriteByte(0x03) // version 2.3.0
	tag.WriteByte(0x00) // revision
	tag.WriteByte(0x00) // flags
	size := synchsafeEncode(uint32(frame.Len()))
	tag.Write(size[:])
	tag.Write(frame.Bytes())
	return tag.Bytes()
}

// EmbedPayloadInMP3 prepends an ID3v2.3 PRIV tag carrying payload to
// mp3Data, letting a steganographic PCM stream travel losslessly inside
// an otherwise-playable MP3 file: the core only ever embeds into raw
// PCM, and this is how that PCM survives a lossy container without
// being lossily re-encoded.
func EmbedPayloadInMP3(mp3Data []byte, owner string, payload []byte) ([]byte, error) {
	if len(mp3Data) == 0 {
		return nil, stegoerr.Wrap("transcode", "embed_mp3_priv", stegoerr.ErrFormat)
	}
	tag := buildID3v23PrivTag(owner, payload)

	out := make([]byte, 0, len(tag)+len(mp3Data))
	out = append(out, tag...)
	out = append(out, mp3Data...)
	logf("DEBUG", "EmbedPayloadInMP3", "embedded %d bytes via PRIV owner=%q, output=%d bytes", len(payload), owner, len(out))
	return out, nil
}

// ExtractPayloadFromMP3 looks for a leading ID3v2 tag and reads back the
// PRIV frame matching owner. found is false (not an error) when there is
// no ID3 tag or no matching PRIV frame at all.
func ExtractPayloadFromMP3(mp3Data []byte, owner string) (payload []byte, found bool, err error) {
	if len(mp3Data) < 10 || string(mp3Data[:3]) != "ID3" {
		return nil, false, nil
	}
	version := mp3Data[3]
	if version != 2 && version != 3 && version != 4 {
		return nil, false, stegoerr.Wrap("transcode", "extract_mp3_priv", stegoerr.ErrFormat)
	}

	tagSize := uint32(mp3Data[6]&0x7F)<<21 | uint32(mp3Data[7]&0x7F)<<14 | uint32(mp3Data[8]&0x7F)<<7 | uint32(mp3Data[9]&0x7F)
	if int(10+tagSize) > len(mp3Data) {
		return nil, false, stegoerr.Wrap("transcode", "extract_mp3_priv", stegoerr.ErrFormat)
	}

	offset := 10
	end := 10 + int(tagSize)
	for offset+10 <= end {
		frameID := string(mp3Data[offset : offset+4])
		if frameID == "\x00\x00\x00\x00" {
			break
		}
		frameSize := binary.BigEndian.Uint32(mp3Data[offset+4 : offset+8])
		offset += 10
		if offset+int(frameSize) > end || offset+int(frameSize) > len(mp3Data) {
			return nil, false, stegoerr.Wrap("transcode", "extract_mp3_priv", stegoerr.ErrFormat)
		}

		if frameID == "PRIV" {
			frameData := mp3Data[offset : offset+int(frameSize)]
			sep := bytes.IndexByte(frameData, 0x00)
			if sep >= 0 && string(frameData[:sep]) == owner {
				logf("DEBUG", "ExtractPayloadFromMP3", "found PRIV payload owner=%q, size=%d", owner, len(frameData)-sep-1)
				return frameData[sep+1:], true, nil
			}
		}
		offset += int(frameSize)
	}
	return nil, false, nil
}
