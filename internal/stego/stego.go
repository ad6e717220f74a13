// Package stego implements the Coordinator and Analyzer: the end-to-end
// encode/decode pipeline and the read-only inspection path over an audio
// body that may or may not carry hidden data.
//
// The canonical wire layout written into the body is:
//
//	VERSION_TAG(1B) | TOTAL_LEN(8B) | ENVELOPE_OR_CONTAINER(TOTAL_LEN bytes)
//
// VERSION_TAG is the container.CipherVersion the payload was sealed with
// (0 plaintext, 1 legacy CBC, 2 GCM) and lives outside TOTAL_LEN so the
// decrypt path is chosen without sniffing the envelope shape.
package stego

import (
	"context"
	"encoding/binary"

	"github.com/gbitstego/audio-steg/internal/container"
	"github.com/gbitstego/audio-steg/internal/cryptenv"
	"github.com/gbitstego/audio-steg/internal/lsb"
	"github.com/gbitstego/audio-steg/internal/stegoerr"
)

// versionTagBits + totalLenBits is the fixed-size prefix every encoded
// body carries ahead of the envelope/container bytes.
const (
	versionTagBits = 8
	totalLenBits   = 64
	prefixBits     = versionTagBits + totalLenBits
)

// ProgressSink receives observational callbacks as the Coordinator
// processes each file. Implementations must not mutate the files passed
// to them; returning is the only way to signal anything back.
type ProgressSink interface {
	OnEncoded(name string, size int)
	OnDecoded(name string, size int)
}

// noopProgress is used when callers pass a nil ProgressSink.
type noopProgress struct{}

func (noopProgress) OnEncoded(string, int) {}
func (noopProgress) OnDecoded(string, int) {}

// PasswordProviderResult is returned by a PasswordProvider when decode
// encounters an encrypted body but no password was supplied up front.
type PasswordProviderResult struct {
	Password string
	Cancel   bool
}

// PasswordProvider is invoked at most once per Decode call, only when the
// body is encrypted and no password was already given.
type PasswordProvider interface {
	Provide(ctx context.Context) (PasswordProviderResult, error)
}

// Coordinator runs the full encode/decode pipeline: container build,
// optional encryption, LSB embedding, and their inverses.
type Coordinator struct {
	Progress ProgressSink
}

// NewCoordinator returns a Coordinator. A nil ProgressSink is replaced
// with a no-op implementation.
func NewCoordinator(progress ProgressSink) *Coordinator {
	if progress == nil {
		progress = noopProgress{}
	}
	return &Coordinator{Progress: progress}
}

// Encode builds a container from files, optionally encrypts it under
// password, and embeds the resulting wire-format bit-stream into
// body (the carrier sample bytes past the header). body is modified
// in place and also returned for convenience.
func (c *Coordinator) Encode(body []byte, files []container.File, mode lsb.QualityMode, password string) ([]byte, error) {
	// Record the cipher version the container will travel under;
	// cryptenv.Seal always seals with the GCM (v2) format.
	recorded := container.CipherPlain
	if password != "" {
		recorded = container.CipherGCM
	}
	plaintext, err := container.Marshal(files, recorded)
	if err != nil {
		return nil, stegoerr.Wrap("stego", "encode", err)
	}

	var versionTag container.CipherVersion
	var wirePayload []byte
	if password != "" {
		sealed, version, err := cryptenv.Seal(plaintext, password)
		if err != nil {
			return nil, stegoerr.Wrap("stego", "encode", err)
		}
		versionTag = version
		wirePayload = sealed
	} else {
		versionTag = container.CipherPlain
		wirePayload = plaintext
	}

	k := mode.Bits()
	bodyBits := len(body) * k
	totalLen := len(wirePayload)
	needBits := prefixBits + totalLen*8
	if needBits > bodyBits {
		return nil, stegoerr.Wrap("stego", "encode", stegoerr.ErrCapacity)
	}

	payload := make([]byte, 0, 1+8+totalLen)
	payload = append(payload, byte(versionTag))
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(totalLen))
	payload = append(payload, lenBuf[:]...)
	payload = append(payload, wirePayload...)

	if err := lsb.EmbedParallel(body, payload, k); err != nil {
		return nil, stegoerr.Wrap("stego", "encode", err)
	}

	for _, f := range files {
		c.Progress.OnEncoded(f.Name, len(f.Data))
	}
	return body, nil
}

// readPrefix extracts VERSION_TAG and TOTAL_LEN (and validates TOTAL_LEN
// against available body capacity), returning the wire payload bytes.
func readPrefix(body []byte, k int) (container.CipherVersion, []byte, error) {
	bodyBits := len(body) * k
	if bodyBits < prefixBits {
		return 0, nil, stegoerr.Wrap("stego", "read_prefix", stegoerr.ErrNoData)
	}

	prefixBytes, err := lsb.Extract(body, k, prefixBits)
	if err != nil {
		return 0, nil, stegoerr.Wrap("stego", "read_prefix", stegoerr.ErrNoData)
	}
	versionTag := container.CipherVersion(prefixBytes[0])
	totalLen := binary.BigEndian.Uint64(prefixBytes[1:9])

	if totalLen == 0 || int64(totalLen) > (int64(bodyBits)-prefixBits)/8 {
		return 0, nil, stegoerr.Wrap("stego", "read_prefix", stegoerr.ErrNoData)
	}

	payload, err := lsb.Extract(body, k, prefixBits+int(totalLen)*8)
	if err != nil {
		return 0, nil, stegoerr.Wrap("stego", "read_prefix", stegoerr.ErrNoData)
	}
	return versionTag, payload[9:], nil
}

// Decode reverses Encode: it recovers the VERSION_TAG/TOTAL_LEN prefix,
// decrypts if necessary (prompting provider only when password is empty
// and the body is encrypted), and parses the resulting container.
func (c *Coordinator) Decode(ctx context.Context, body []byte, k int, password string, provider PasswordProvider) ([]container.File, error) {
	versionTag, wirePayload, err := readPrefix(body, k)
	if err != nil {
		return nil, err
	}

	var plaintext []byte
	switch versionTag {
	case container.CipherPlain:
		plaintext = wirePayload
	case container.CipherLegacyCBC, container.CipherGCM:
		pw := password
		if pw == "" {
			if provider == nil {
				return nil, stegoerr.Wrap("stego", "decode", stegoerr.ErrKeyRequired)
			}
			result, err := provider.Provide(ctx)
			if err != nil {
				return nil, stegoerr.Wrap("stego", "decode", err)
			}
			if result.Cancel {
				return nil, stegoerr.Wrap("stego", "decode", stegoerr.ErrCancelled)
			}
			pw = result.Password
		}
		plaintext, err = cryptenv.Open(wirePayload, pw, versionTag)
		if err != nil {
			return nil, stegoerr.Wrap("stego", "decode", err)
		}
	default:
		return nil, stegoerr.Wrap("stego", "decode", stegoerr.ErrFormat)
	}

	manifest, err := container.Unmarshal(plaintext)
	if err != nil {
		return nil, stegoerr.Wrap("stego", "decode", err)
	}

	for _, f := range manifest.Files {
		c.Progress.OnDecoded(f.Name, len(f.Data))
	}
	return manifest.Files, nil
}
