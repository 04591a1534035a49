package codec

import (
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// Binary writes a header followed by an lz4 frame holding one msgpack
// encoded Snapshot.
type Binary struct{}

func (Binary) Name() string { return FormatBinary }

// Encode collects the sequence into a snapshot and writes it compressed.
func (Binary) Encode(w io.Writer, employees iter.Seq[domain.Employee]) error {
	snapshot := Snapshot{Records: []Record{}}
	for e := range employees {
		snapshot.Records = append(snapshot.Records, FromEmployee(e))
	}
	snapshot.Metadata = map[string]interface{}{
		"count":      len(snapshot.Records),
		"created_at": time.Now().UTC().Unix(),
	}

	return encodeSnapshot(w, snapshot)
}

func encodeSnapshot(w io.Writer, snapshot Snapshot) error {
	if err := WriteHeader(w); err != nil {
		return fmt.Errorf("%w: failed to write header: %w", domain.ErrIOFailure, err)
	}

	zw := lz4.NewWriter(w)
	if err := msgpack.NewEncoder(zw).Encode(&snapshot); err != nil {
		return fmt.Errorf("%w: failed to encode MessagePack: %w", domain.ErrIOFailure, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: failed to compress data: %w", domain.ErrIOFailure, err)
	}
	return nil
}

// Decode validates the header, then yields each stored record.
func (Binary) Decode(r io.Reader) iter.Seq2[domain.Employee, error] {
	return func(yield func(domain.Employee, error) bool) {
		if _, err := ReadHeader(r); err != nil {
			yield(nil, err)
			return
		}

		var snapshot Snapshot
		if err := msgpack.NewDecoder(lz4.NewReader(r)).Decode(&snapshot); err != nil {
			yield(nil, fmt.Errorf("%w: failed to decode snapshot: %w", domain.ErrDeserialization, err))
			return
		}

		for i, rec := range snapshot.Records {
			e, err := rec.Employee()
			if err != nil {
				yield(nil, fmt.Errorf("record %d: %w", i, err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}
