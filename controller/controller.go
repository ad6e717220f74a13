// Package controller is the exposed boundary library API: the thin,
// file-oriented facade both the CLI and (indirectly, via the HTTP
// handlers calling the same internal packages) the server sit on top of.
// It owns nothing the core doesn't already own — it just reads/writes
// files and picks a transcoder by extension.
package controller

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/gbitstego/audio-steg/internal/container"
	"github.com/gbitstego/audio-steg/internal/lsb"
	"github.com/gbitstego/audio-steg/internal/stego"
	"github.com/gbitstego/audio-steg/internal/stegoerr"
	"github.com/gbitstego/audio-steg/internal/transcode"
)

// Capacity returns the generous (non-enforcing) payload capacity of a
// carrier file at the given quality mode.
func Capacity(carrierPath string, mode lsb.QualityMode) (int, error) {
	data, err := os.ReadFile(carrierPath)
	if err != nil {
		return 0, fmt.Errorf("reading carrier %s: %w", carrierPath, err)
	}
	src, err := transcode.OpenForEmbed(carrierPath, data)
	if err != nil {
		return 0, err
	}
	return lsb.Capacity(len(src.Body), mode.Bits()), nil
}

// Encode embeds secretPaths into carrierPath and writes the result to
// outputPath. Reassembly is format-specific: transcode.EmbedSource.Assemble
// handles WAV/FLAC's in-place-mutated backing buffer and MP3's ID3v2.3
// PRIV-tag smuggling so a lossy MP3 re-encode never touches the embedded
// bits.
func Encode(carrierPath string, secretPaths []string, outputPath string, mode lsb.QualityMode, password string) error {
	data, err := os.ReadFile(carrierPath)
	if err != nil {
		return fmt.Errorf("reading carrier %s: %w", carrierPath, err)
	}
	src, err := transcode.OpenForEmbed(carrierPath, data)
	if err != nil {
		return err
	}

	files := make([]container.File, 0, len(secretPaths))
	for _, p := range secretPaths {
		fdata, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading secret %s: %w", p, err)
		}
		files = append(files, container.File{Name: filepath.Base(p), Data: fdata})
	}

	coordinator := stego.NewCoordinator(nil)
	if _, err := coordinator.Encode(src.Body, files, mode, password); err != nil {
		return err
	}

	out, err := src.Assemble()
	if err != nil {
		return stegoerr.Wrap("controller", "encode", err)
	}
	if err := os.WriteFile(outputPath, out, 0o644); err != nil {
		return stegoerr.Wrap("controller", "encode", fmt.Errorf("writing output: %w", err))
	}
	return nil
}

// Decode recovers every file embedded in encodedPath and writes each one
// under outputDir, returning the paths written. Output is staged under a
// temp name per file and renamed only after every file has parsed
// successfully, so a failure partway through decode leaves outputDir
// untouched with no partially-written files. When password
// is empty and the container turns out to be encrypted, provider is asked
// for one; a nil provider (the HTTP path, which has no interactive
// channel) just surfaces ErrKeyRequired in that case. ctx is also checked
// between staging and finalizing files, so a caller wiring SIGINT into
// cancel can still abort a decode that's already past the password step.
func Decode(ctx context.Context, encodedPath, outputDir string, mode lsb.QualityMode, password string, provider stego.PasswordProvider) ([]string, error) {
	data, err := os.ReadFile(encodedPath)
	if err != nil {
		return nil, fmt.Errorf("reading carrier %s: %w", encodedPath, err)
	}
	body, err := transcode.ExtractEmbeddedBody(encodedPath, data)
	if err != nil {
		return nil, err
	}

	coordinator := stego.NewCoordinator(nil)
	files, err := coordinator.Decode(ctx, body, mode.Bits(), password, provider)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, stegoerr.Wrap("controller", "decode", fmt.Errorf("creating output dir: %w", err))
	}

	staged := make([]string, 0, len(files))
	cleanupStaged := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			cleanupStaged()
			return nil, stegoerr.Wrap("controller", "decode", stegoerr.ErrCancelled)
		}
		final := filepath.Join(outputDir, f.Name)
		tmp := final + ".part"
		if err := os.WriteFile(tmp, f.Data, 0o644); err != nil {
			cleanupStaged()
			return nil, stegoerr.Wrap("controller", "decode", fmt.Errorf("staging %s: %w", f.Name, err))
		}
		staged = append(staged, tmp)
	}

	written := make([]string, len(files))
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			cleanupStaged()
			return nil, stegoerr.Wrap("controller", "decode", stegoerr.ErrCancelled)
		}
		final := filepath.Join(outputDir, f.Name)
		if err := os.Rename(staged[i], final); err != nil {
			cleanupStaged()
			return nil, stegoerr.Wrap("controller", "decode", fmt.Errorf("finalizing %s: %w", f.Name, err))
		}
		written[i] = final
	}
	return written, nil
}

// Analyze inspects encodedPath without writing anything to disk.
func Analyze(encodedPath string, mode lsb.QualityMode, password string) (stego.Report, error) {
	data, err := os.ReadFile(encodedPath)
	if err != nil {
		return stego.Report{}, fmt.Errorf("reading carrier %s: %w", encodedPath, err)
	}
	body, err := transcode.ExtractEmbeddedBody(encodedPath, data)
	if err != nil {
		return stego.Report{}, err
	}
	return stego.NewAnalyzer().Analyze(body, mode.Bits(), password), nil
}

// CalculatePSNR computes the peak signal-to-noise ratio between two
// equal-length 16-bit PCM buffers, the standard way to report how much
// an embed perturbed the carrier.
func CalculatePSNR(original, modified []byte) float64 {
	if len(original) != len(modified) || len(original) < 2 {
		return 0
	}

	var mse float64
	sampleCount := len(original) / 2
	for i := 0; i+1 < len(original); i += 2 {
		o := int16(binary.LittleEndian.Uint16(original[i : i+2]))
		m := int16(binary.LittleEndian.Uint16(modified[i : i+2]))
		diff := float64(o) - float64(m)
		mse += diff * diff
	}
	mse /= float64(sampleCount)
	if mse == 0 {
		return math.Inf(1)
	}
	const maxValue = 32767.0
	return 20 * math.Log10(maxValue/math.Sqrt(mse))
}
