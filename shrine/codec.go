package shrine

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
)

// magic identifies a shrine file: the literal ASCII bytes "shrine".
var magic = [6]byte{'s', 'h', 'r', 'i', 'n', 'e'}

// VERSION is the file format version this implementation writes and the
// maximum version it will read (spec.md §3).
const VERSION uint8 = 0

// encodeFile writes the on-disk framing:
// "shrine"(6) | version(1) | metadata(18) | payload_frame.
// payload_frame is a little-endian u32 length prefix followed by the
// opaque payload bytes (spec.md §4.G), adapted from the teacher's
// FileHeader.WriteTo in file_format.go.
func encodeFile(meta Metadata, payload []byte) []byte {
	buf := new(bytes.Buffer)
	buf.Write(magic[:])
	buf.WriteByte(VERSION)
	buf.Write(meta.marshal())
	binary.Write(buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

// decodeFile parses the on-disk framing, following the teacher's
// FileHeader.ReadFrom validation order: magic first, then version, then
// metadata tags, then the length-prefixed payload.
func decodeFile(data []byte) (Metadata, []byte, error) {
	if len(data) < len(magic) {
		return Metadata{}, nil, &InvalidFileError{Detail: "file too short for magic number"}
	}
	if !bytes.Equal(data[:len(magic)], magic[:]) {
		return Metadata{}, nil, &InvalidFileError{Detail: "bad magic number"}
	}
	offset := len(magic)

	if len(data) < offset+1 {
		return Metadata{}, nil, &InvalidFileError{Detail: "truncated version byte"}
	}
	version := data[offset]
	offset++
	if version > VERSION {
		return Metadata{}, nil, &UnsupportedVersionError{Version: version}
	}

	if len(data) < offset+metadataSize {
		return Metadata{}, nil, &InvalidFileError{Detail: "truncated metadata"}
	}
	meta, err := unmarshalMetadata(data[offset : offset+metadataSize])
	if err != nil {
		return Metadata{}, nil, err
	}
	offset += metadataSize

	if len(data) < offset+4 {
		return Metadata{}, nil, &InvalidFileError{Detail: "truncated payload length"}
	}
	length := binary.LittleEndian.Uint32(data[offset : offset+4])
	offset += 4

	if uint32(len(data)-offset) < length {
		return Metadata{}, nil, &InvalidFileError{Detail: "truncated payload"}
	}
	payload := data[offset : offset+int(length)]

	return meta, payload, nil
}

// writeFileAtomic writes data to path via a sibling temporary file, fsync,
// and rename, leaving the original untouched on any failure. Mirrors the
// create-write-sync discipline the teacher applied around File.Sync in
// file.go, generalized to a whole-file atomic replace.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".shrine-*.tmp")
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// readFile reads path in full, translating a missing file to
// FileNotFoundError per spec.md §7.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return data, nil
}
