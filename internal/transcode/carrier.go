package transcode

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gbitstego/audio-steg/internal/stegoerr"
)

// StegoMP3Owner is the PRIV frame owner this package uses to smuggle a
// steganographic PCM payload inside an otherwise-playable MP3, so it can
// tell its own frame apart from any other PRIV data the file carries.
const StegoMP3Owner = "audio-steg/lsb-pcm"

// EmbedSource is a carrier opened for in-place LSB embedding. Body is the
// byte range a codec mutates; Assemble reconstructs the full output file
// afterward, using whichever strategy the carrier format needs.
//
// For WAV and FLAC, Body is a sub-slice of container's backing array, so
// mutating Body in place (as lsb.Embed/EmbedParallel do) is already
// visible through container by the time Assemble runs. MP3 has no such
// relationship between compressed bytes and decoded PCM, so its Body is
// an independent buffer and Assemble instead prepends it to the original,
// untouched MP3 as an ID3v2.3 PRIV frame.
type EmbedSource struct {
	Body []byte

	format    string
	container []byte
	cleanMP3  []byte
}

// OpenForEmbed decodes a carrier file's body for in-place LSB embedding.
func OpenForEmbed(filename string, data []byte) (*EmbedSource, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		body, _, _, _, _, err := DecodeWAV(data)
		if err != nil {
			return nil, err
		}
		return &EmbedSource{Body: body, format: "wav", container: data}, nil
	case ".flac":
		body, _, _, _, _, container, err := DecodeFLAC(data)
		if err != nil {
			return nil, err
		}
		return &EmbedSource{Body: body, format: "flac", container: container}, nil
	case ".mp3":
		body, _, _, _, _, err := DecodeMP3(data)
		if err != nil {
			return nil, err
		}
		return &EmbedSource{Body: body, format: "mp3", cleanMP3: data}, nil
	default:
		return nil, fmt.Errorf("unsupported carrier format %q", filepath.Ext(filename))
	}
}

// Assemble reconstructs the full output file after Body has been mutated
// in place by an embed.
func (s *EmbedSource) Assemble() ([]byte, error) {
	switch s.format {
	case "wav", "flac":
		return s.container, nil
	case "mp3":
		return EmbedPayloadInMP3(s.cleanMP3, StegoMP3Owner, s.Body)
	default:
		return nil, fmt.Errorf("unsupported carrier format %q", s.format)
	}
}

// ExtractEmbeddedBody recovers the byte range an embed mutated, for decode
// and analyze. WAV and FLAC read it the same way OpenForEmbed does, since
// the embedded bits live directly in the decoded PCM either way. MP3
// instead reads the ID3v2.3 PRIV frame EmbedPayloadInMP3 wrote: re-running
// the MP3 decoder would hand back freshly decompressed PCM that never saw
// the embedded bits, since lossy compression doesn't preserve low-order
// bits across an encode/decode round trip.
func ExtractEmbeddedBody(filename string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		body, _, _, _, _, err := DecodeWAV(data)
		return body, err
	case ".flac":
		body, _, _, _, _, _, err := DecodeFLAC(data)
		return body, err
	case ".mp3":
		payload, found, err := ExtractPayloadFromMP3(data, StegoMP3Owner)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, stegoerr.Wrap("transcode", "extract_embedded_body", stegoerr.ErrNoData)
		}
		return payload, nil
	default:
		return nil, fmt.Errorf("unsupported carrier format %q", filepath.Ext(filename))
	}
}
