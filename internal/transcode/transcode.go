// Package transcode is the Transcoder collaborator: it converts between
// on-disk audio container formats (WAV, MP3, FLAC) and the linear PCM
// byte stream the steganographic core operates on. None of this package
// is part of the core codec — it exists so the core never has to know
// about RIFF chunks, MPEG frames, or FLAC metadata blocks.
//
// Re-encoding to a lossy target is refused: the core's round-trip
// guarantee only holds for lossless containers.
package transcode

import (
	"fmt"
	"log"
)

// logf mirrors the collaborator logging style used throughout this
// package: "[LEVEL] transcode.op: message".
func logf(level, op, format string, args ...any) {
	log.Printf("[%s] transcode.%s: %s", level, op, fmt.Sprintf(format, args...))
}
