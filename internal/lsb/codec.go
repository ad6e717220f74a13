// Package lsb implements the byte-granular least-significant-bits codec:
// threading a payload bit-stream through the low k bits of each carrier
// sample byte while leaving every higher-order bit untouched. It is
// agnostic to sample width (8/16/24/32-bit) because it never looks past a
// single byte at a time — the invariant "round-trip independent of sample
// format" falls out of that byte granularity for free.
package lsb

import (
	"runtime"
	"sync"

	"github.com/gbitstego/audio-steg/internal/bitio"
	"github.com/gbitstego/audio-steg/internal/stegoerr"
)

// parallelThreshold is the body size (in bytes) at or above which
// EmbedParallel splits work across goroutines; Embed and Extract always run
// serially. Below it, the overhead of spawning
// workers outweighs the benefit.
const parallelThreshold = 1 << 20 // 1 MiB

// Embed writes payload into the low k bits of each byte of body, in
// strict linear order by byte offset. k must be 1, 2, or 4. If payload
// runs out before body does, the remaining carrier bytes are left
// untouched. Embed fails with stegoerr.ErrCapacity if payload does not
// fit: len(payload)*8 > len(body)*k.
func Embed(body []byte, payload []byte, k int) error {
	if k != 1 && k != 2 && k != 4 {
		return stegoerr.Wrap("lsb", "embed", stegoerr.ErrCapacity)
	}
	totalBits := len(payload) * 8
	capacityBits := len(body) * k
	if totalBits > capacityBits {
		return stegoerr.Wrap("lsb", "embed", stegoerr.ErrCapacity)
	}

	src := bitio.NewCursor(payload)
	nCarrierBytes := (totalBits + k - 1) / k // carrier bytes actually touched

	embedRange(body, src, k, 0, nCarrierBytes)
	return nil
}

// embedRange embeds bits from src into body[start:end), each carrier byte
// consuming k bits. It does not itself parallelize; parallelization (when
// warranted) splits the byte range across disjoint, non-overlapping calls
// with independently seeked cursors, preserving strict linear bit order
// within each worker's slice.
func embedRange(body []byte, src *bitio.Cursor, k, start, end int) {
	mask := byte(1<<uint(k)) - 1
	for i := start; i < end; i++ {
		bits, err := src.ReadBits(k)
		if err != nil {
			return
		}
		body[i] = (body[i] &^ mask) | byte(bits)
	}
}

// Extract reverses Embed: it collects the low k bits of each byte of
// body, packs them most-significant-bit first, and returns the first
// nBits worth of payload bytes. k must be 1, 2, or 4.
func Extract(body []byte, k int, nBits int) ([]byte, error) {
	if k != 1 && k != 2 && k != 4 {
		return nil, stegoerr.Wrap("lsb", "extract", stegoerr.ErrCapacity)
	}
	if nBits < 0 || nBits > len(body)*k {
		return nil, stegoerr.Wrap("lsb", "extract", stegoerr.ErrCapacity)
	}

	out := make([]byte, (nBits+7)/8)
	dst := bitio.NewCursor(out)
	mask := byte(1<<uint(k)) - 1

	remaining := nBits
	for i := 0; i < len(body) && remaining > 0; i++ {
		take := k
		if take > remaining {
			take = remaining
		}
		bits := uint64(body[i]&mask) >> uint(k-take)
		if err := dst.WriteBits(bits, take); err != nil {
			return nil, stegoerr.Wrap("lsb", "extract", stegoerr.ErrCapacity)
		}
		remaining -= take
	}
	return out, nil
}

// EmbedParallel behaves exactly like Embed, but splits the carrier byte
// range across disjoint workers when body is large enough to benefit.
// The public contract is still a single blocking call returning a fully
// materialized result; bit-cursor position bookkeeping for each worker's
// slice stays single-threaded, satisfying the serialized-cursor
// requirement even though the overall loop is parallel across ranges.
func EmbedParallel(body []byte, payload []byte, k int) error {
	if len(body) < parallelThreshold {
		return Embed(body, payload, k)
	}
	if k != 1 && k != 2 && k != 4 {
		return stegoerr.Wrap("lsb", "embed", stegoerr.ErrCapacity)
	}
	totalBits := len(payload) * 8
	capacityBits := len(body) * k
	if totalBits > capacityBits {
		return stegoerr.Wrap("lsb", "embed", stegoerr.ErrCapacity)
	}
	nCarrierBytes := (totalBits + k - 1) / k

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	chunk := (nCarrierBytes + workers - 1) / workers
	if chunk == 0 {
		return nil
	}

	var wg sync.WaitGroup
	for start := 0; start < nCarrierBytes; start += chunk {
		end := start + chunk
		if end > nCarrierBytes {
			end = nCarrierBytes
		}
		bitStart := start * k

		wg.Add(1)
		go func(start, end, bitStart int) {
			defer wg.Done()
			src := bitio.NewCursor(payload)
			_ = src.Seek(bitStart)
			embedRange(body, src, k, start, end)
		}(start, end, bitStart)
	}
	wg.Wait()
	return nil
}
