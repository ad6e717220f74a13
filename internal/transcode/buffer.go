package transcode

import (
	"errors"
	"io"
)

// memWriteSeeker is an in-memory io.WriteSeeker, used to satisfy
// go-audio/wav.Encoder's requirement for a seekable destination without
// touching disk.
type memWriteSeeker struct {
	buf []byte
	pos int
}

// Bytes returns the bytes written so far.
func (ws *memWriteSeeker) Bytes() []byte {
	return ws.buf
}

func (ws *memWriteSeeker) Write(p []byte) (n int, err error) {
	minCap := ws.pos + len(p)
	if minCap > cap(ws.buf) {
		buf2 := make([]byte, len(ws.buf), minCap+len(p))
		copy(buf2, ws.buf)
		ws.buf = buf2
	}
	if minCap > len(ws.buf) {
		ws.buf = ws.buf[:minCap]
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos += len(p)
	return len(p), nil
}

func (ws *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	newPos, offs := 0, int(offset)
	switch whence {
	case io.SeekStart:
		newPos = offs
	case io.SeekCurrent:
		newPos = ws.pos + offs
	case io.SeekEnd:
		newPos = len(ws.buf) + offs
	}
	if newPos < 0 {
		return 0, errors.New("transcode: negative seek position")
	}
	ws.pos = newPos
	return int64(newPos), nil
}
