package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gbitstego/audio-steg/internal/stegoerr"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "audiostego",
	Short: "Hide and recover files inside audio carriers via LSB steganography",
	Long: `audiostego embeds arbitrary files inside WAV, MP3, and FLAC carriers by
rewriting the low-order bits of each PCM sample, and recovers them again.

Embedding is optionally password-protected with an authenticated envelope;
without a password the payload is stored in the clear.`,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// notifyCancel calls cancel on SIGINT/SIGTERM so a long-running decode can
// react to Ctrl-C the same way a PasswordProvider cancellation would.
// The returned stop func must be deferred to release the signal handler.
func notifyCancel(cancel func()) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-done:
		}
	}()
	return func() {
		close(done)
		signal.Stop(sigCh)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps the engine's sentinel errors to the CLI's documented
// exit codes so scripts can branch on failure kind without parsing stderr.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, stegoerr.ErrCapacity), errors.Is(err, stegoerr.ErrFormat), errors.Is(err, stegoerr.ErrLossyTarget):
		return 2
	case errors.Is(err, stegoerr.ErrAuth), errors.Is(err, stegoerr.ErrKeyRequired):
		return 3
	case errors.Is(err, stegoerr.ErrNoData):
		return 4
	case errors.Is(err, stegoerr.ErrCancelled):
		return 5
	default:
		return 1
	}
}
