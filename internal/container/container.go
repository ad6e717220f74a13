// Package container serializes and deserializes the self-describing
// manifest-plus-payloads container that gets wrapped by internal/cryptenv
// and then embedded via internal/lsb. Layout is fixed for
// interoperability: magic, version, cipher version, file count, per-file
// entries, end marker.
package container

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"strings"

	"github.com/gbitstego/audio-steg/internal/stegoerr"
)

var (
	magic       = [4]byte{'G', 'B', 'I', 'T'}
	endMarker   = [4]byte{'E', 'N', 'D', 'B'}
	formatVer   = byte(1)
	maxNameLen  = 1024
	maxDataLen  = int64(1) << 47
	baseOverhd  = 4 + 1 + 1 + 2 + 4 // magic + version + cipherVersion + fileCount + endMarker
	perFileOvhd = 2 + 8 + 4         // nameLen + dataLen + crc32, excluding name bytes themselves
)

// File is a single payload to embed or a payload recovered on extract.
type File struct {
	Name string
	Data []byte
}

// CipherVersion ∈ {0 plaintext, 1 AES-CBC legacy, 2 AES-GCM}.
type CipherVersion byte

const (
	CipherPlain      CipherVersion = 0
	CipherLegacyCBC  CipherVersion = 1
	CipherGCM        CipherVersion = 2
)

// Overhead returns the fixed byte cost of the manifest (magic, version,
// cipher version byte, file count, end marker) plus the per-file
// structural cost (not counting name or data bytes themselves) for
// fileCount files, computed exactly rather than approximated.
func Overhead(fileCount int) int {
	return baseOverhd + perFileOvhd*fileCount
}

// ValidateName enforces the file name rules: non-empty, no path
// separators or NUL, length within bounds.
func ValidateName(name string) error {
	if name == "" {
		return stegoerr.Wrap("container", "validate_name", stegoerr.ErrFormat)
	}
	if len(name) > maxNameLen {
		return stegoerr.Wrap("container", "validate_name", stegoerr.ErrFormat)
	}
	if strings.ContainsAny(name, "/\\") || strings.ContainsRune(name, 0) {
		return stegoerr.Wrap("container", "validate_name", stegoerr.ErrFormat)
	}
	return nil
}

// Marshal serializes files into the manifest wire format under the given
// cipher version tag (the tag is purely descriptive here: internal/stego
// decides which version to actually use and calls cryptenv separately;
// Marshal just needs to know what byte to record).
func Marshal(files []File, cipherVersion CipherVersion) ([]byte, error) {
	if len(files) == 0 {
		return nil, stegoerr.Wrap("container", "marshal", stegoerr.ErrFormat)
	}
	if len(files) > 0xFFFF {
		return nil, stegoerr.Wrap("container", "marshal", stegoerr.ErrFormat)
	}

	var buf bytes.Buffer
	buf.Write(magic[:])
	buf.WriteByte(formatVer)
	buf.WriteByte(byte(cipherVersion))
	binary.Write(&buf, binary.BigEndian, uint16(len(files)))

	for _, f := range files {
		if err := ValidateName(f.Name); err != nil {
			return nil, err
		}
		if int64(len(f.Data)) > maxDataLen {
			return nil, stegoerr.Wrap("container", "marshal", stegoerr.ErrFormat)
		}
		nameBytes := []byte(f.Name)
		binary.Write(&buf, binary.BigEndian, uint16(len(nameBytes)))
		buf.Write(nameBytes)
		binary.Write(&buf, binary.BigEndian, uint64(len(f.Data)))
		buf.Write(f.Data)
		sum := crc32.ChecksumIEEE(f.Data)
		binary.Write(&buf, binary.BigEndian, sum)
	}

	buf.Write(endMarker[:])
	return buf.Bytes(), nil
}

// Manifest is the result of a successful Unmarshal: the recovered files
// plus the cipher version byte that was recorded in the header (so the
// caller, which already decrypted to get here, can sanity-check it
// matches the version it used).
type Manifest struct {
	CipherVersion CipherVersion
	Files         []File
}

// Unmarshal performs strict deserialization: magic/version check,
// per-file name/length/CRC validation, and end-marker verification. Any
// violation returns stegoerr.ErrFormat.
func Unmarshal(blob []byte) (*Manifest, error) {
	r := bytes.NewReader(blob)

	var gotMagic [4]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil || gotMagic != magic {
		return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
	}

	var version, cipherByte byte
	if err := binary.Read(r, binary.BigEndian, &version); err != nil || version != formatVer {
		return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
	}
	if err := binary.Read(r, binary.BigEndian, &cipherByte); err != nil {
		return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
	}
	cipherVersion := CipherVersion(cipherByte)
	if cipherVersion != CipherPlain && cipherVersion != CipherLegacyCBC && cipherVersion != CipherGCM {
		return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
	}

	var fileCount uint16
	if err := binary.Read(r, binary.BigEndian, &fileCount); err != nil || fileCount == 0 {
		return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
	}

	files := make([]File, 0, fileCount)
	for i := 0; i < int(fileCount); i++ {
		var nameLen uint16
		if err := binary.Read(r, binary.BigEndian, &nameLen); err != nil || int(nameLen) > maxNameLen || nameLen == 0 {
			return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
		}

		nameBytes := make([]byte, nameLen)
		if _, err := io.ReadFull(r, nameBytes); err != nil {
			return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
		}
		name := string(nameBytes)
		if err := ValidateName(name); err != nil {
			return nil, err
		}

		var dataLen uint64
		if err := binary.Read(r, binary.BigEndian, &dataLen); err != nil || int64(dataLen) > maxDataLen {
			return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
		}

		data := make([]byte, dataLen)
		if dataLen > 0 {
			if _, err := io.ReadFull(r, data); err != nil {
				return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
			}
		}

		var crc uint32
		if err := binary.Read(r, binary.BigEndian, &crc); err != nil {
			return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
		}
		if crc32.ChecksumIEEE(data) != crc {
			return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
		}

		files = append(files, File{Name: name, Data: data})
	}

	var gotEnd [4]byte
	if _, err := io.ReadFull(r, gotEnd[:]); err != nil || gotEnd != endMarker {
		return nil, stegoerr.Wrap("container", "unmarshal", stegoerr.ErrFormat)
	}

	return &Manifest{CipherVersion: cipherVersion, Files: files}, nil
}
