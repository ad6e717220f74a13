package bitio

import "testing"

func TestWriteReadBitRoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	c := NewCursor(buf)

	bits := []uint8{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1, 1, 0, 0, 0, 0}
	for _, b := range bits {
		if err := c.WriteBit(b); err != nil {
			t.Fatalf("WriteBit: %v", err)
		}
	}

	r := NewCursor(buf)
	for i, want := range bits {
		got, err := r.ReadBit()
		if err != nil {
			t.Fatalf("ReadBit at %d: %v", i, err)
		}
		if got != want {
			t.Errorf("bit %d: got %d, want %d", i, got, want)
		}
	}
}

func TestWriteBitsBigEndianPacking(t *testing.T) {
	buf := make([]byte, 1)
	c := NewCursor(buf)
	if err := c.WriteBits(0b1011, 4); err != nil {
		t.Fatalf("WriteBits: %v", err)
	}
	if err := c.WriteBits(0b0101, 4); err != nil {
		t.Fatalf("WriteBits: %v", err)
	}
	if buf[0] != 0b10110101 {
		t.Errorf("got %08b, want %08b", buf[0], 0b10110101)
	}
}

func TestReadBitsRoundTrip(t *testing.T) {
	buf := []byte{0xAB, 0xCD, 0xEF}
	c := NewCursor(buf)
	v, err := c.ReadBits(24)
	if err != nil {
		t.Fatalf("ReadBits: %v", err)
	}
	if v != 0xABCDEF {
		t.Errorf("got %06X, want ABCDEF", v)
	}
}

func TestOutOfBoundsFailsWithCapacityError(t *testing.T) {
	buf := make([]byte, 1)
	c := NewCursor(buf)
	if _, err := c.ReadBits(9); err == nil {
		t.Error("expected error reading past buffer end")
	}

	c2 := NewCursor(buf)
	if err := c2.WriteBits(0xFF, 9); err == nil {
		t.Error("expected error writing past buffer end")
	}
}

func TestSeekAndRemaining(t *testing.T) {
	buf := make([]byte, 4)
	c := NewCursor(buf)
	if c.Len() != 32 {
		t.Fatalf("Len() = %d, want 32", c.Len())
	}
	if err := c.Seek(16); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	if c.Remaining() != 16 {
		t.Errorf("Remaining() = %d, want 16", c.Remaining())
	}
	if err := c.Seek(-1); err == nil {
		t.Error("expected error seeking negative")
	}
	if err := c.Seek(33); err == nil {
		t.Error("expected error seeking past end")
	}
}
