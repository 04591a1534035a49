package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

const (
	// Magic bytes to identify the binary snapshot format
	MagicBytes = "STDB"
	// Current version
	FormatVersion = 1

	flagLZ4 uint8 = 1 << 0
)

// FileHeader represents the header of a binary snapshot
type FileHeader struct {
	Magic    [4]byte // "STDB"
	Version  uint8   // Format version
	Flags    uint8   // Compression flags
	Reserved [2]byte // Reserved for future use
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer) error {
	header := FileHeader{
		Magic:    [4]byte{'S', 'T', 'D', 'B'},
		Version:  FormatVersion,
		Flags:    flagLZ4,
		Reserved: [2]byte{0, 0},
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %w", domain.ErrDeserialization, err)
	}

	// Validate magic bytes
	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("%w: invalid file format: expected %s, got %q", domain.ErrDeserialization, MagicBytes, string(header.Magic[:]))
	}

	// Validate version
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported file version: %d", domain.ErrDeserialization, header.Version)
	}

	if header.Flags&flagLZ4 == 0 {
		return nil, fmt.Errorf("%w: uncompressed snapshots are not supported", domain.ErrDeserialization)
	}

	return &header, nil
}

// Snapshot represents the payload stored after the header
type Snapshot struct {
	Records  []Record               `msgpack:"records"`
	Metadata map[string]interface{} `msgpack:"metadata,omitempty"`
}
