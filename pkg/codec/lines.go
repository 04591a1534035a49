package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// maxLineSize bounds a single persisted record.
const maxLineSize = 1 << 20

// Lines writes one JSON record per line, newline terminated.
type Lines struct{}

func (Lines) Name() string { return FormatLines }

// Encode writes every employee as a JSON line.
func (Lines) Encode(w io.Writer, employees iter.Seq[domain.Employee]) error {
	bw := bufio.NewWriter(w)
	for e := range employees {
		data, err := json.Marshal(FromEmployee(e))
		if err != nil {
			return fmt.Errorf("failed to marshal employee %d: %w", e.ID(), err)
		}
		data = append(data, '\n')
		if _, err := bw.Write(data); err != nil {
			return fmt.Errorf("%w: write employee %d: %w", domain.ErrIOFailure, e.ID(), err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush snapshot: %w", domain.ErrIOFailure, err)
	}
	return nil
}

// Decode parses the stream line by line. Blank lines are skipped.
func (Lines) Decode(r io.Reader) iter.Seq2[domain.Employee, error] {
	return func(yield func(domain.Employee, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var rec Record
			if err := json.Unmarshal(line, &rec); err != nil {
				yield(nil, fmt.Errorf("%w: line %d: %w", domain.ErrDeserialization, lineNo, err))
				return
			}
			e, err := rec.Employee()
			if err != nil {
				yield(nil, fmt.Errorf("line %d: %w", lineNo, err))
				return
			}
			if !yield(e, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				yield(nil, fmt.Errorf("%w: line %d exceeds %d bytes", domain.ErrDeserialization, lineNo+1, maxLineSize))
				return
			}
			yield(nil, fmt.Errorf("%w: read snapshot: %w", domain.ErrIOFailure, err))
		}
	}
}
