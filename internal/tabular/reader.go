// Package tabular streams RFC 4180 CSV rows, keyed by header column
// name, over any io.Reader — in practice, a blob source entry. Numeric
// and boolean coercion is left to the caller; a Record simply hands
// back strings, with "" for any column the file doesn't have.
package tabular

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Record is one header-keyed CSV row.
type Record struct {
	header []string
	index  map[string]int
	fields []string
}

// Get returns the trimmed value of column, or "" if the column is
// absent from this file or the row has fewer fields than the header.
func (r Record) Get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// Reader streams records from a single CSV file.
type Reader struct {
	csv    *csv.Reader
	header []string
	index  map[string]int
}

// New parses the header row of r and returns a Reader positioned at the
// first data row. It strips a leading UTF-8 byte-order mark, which GTFS
// producers occasionally emit on the first file in a feed.
func New(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	if err := skipBOM(br); err != nil {
		return nil, fmt.Errorf("tabular: reading byte order mark: %w", err)
	}

	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1 // tolerate ragged rows; Record.Get handles short ones

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("tabular: reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	return &Reader{csv: cr, header: header, index: index}, nil
}

// Next returns the next record, or io.EOF when the file is exhausted.
// Blank lines are skipped automatically by encoding/csv.
func (rd *Reader) Next() (Record, error) {
	fields, err := rd.csv.Read()
	if err != nil {
		return Record{}, err
	}
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return Record{header: rd.header, index: rd.index, fields: fields}, nil
}

// Header returns the parsed header row, in file order.
func (rd *Reader) Header() []string {
	return rd.header
}

func skipBOM(br *bufio.Reader) error {
	const bom0, bom1, bom2 = 0xEF, 0xBB, 0xBF
	peek, err := br.Peek(3)
	if err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	if len(peek) == 3 && peek[0] == bom0 && peek[1] == bom1 && peek[2] == bom2 {
		_, _ = br.Discard(3)
	}
	return nil
}
