// Package codec converts employee sequences to and from snapshot streams.
package codec

import (
	"fmt"
	"io"
	"iter"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// Codec serialises a full registry snapshot. Decode yields records in stream
// order and stops after the first error.
type Codec interface {
	Name() string
	Encode(w io.Writer, employees iter.Seq[domain.Employee]) error
	Decode(r io.Reader) iter.Seq2[domain.Employee, error]
}

const (
	FormatLines  = "lines"
	FormatBinary = "binary"
)

// ForName returns the codec registered under name.
func ForName(name string) (Codec, error) {
	switch name {
	case FormatLines, "":
		return Lines{}, nil
	case FormatBinary:
		return Binary{}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", name)
	}
}
