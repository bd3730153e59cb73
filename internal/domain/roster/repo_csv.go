package roster

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVSource reads records from a header-driven CSV file. Cell values stay
// strings; numeric parsing happens on demand in Record.Num, so a malformed
// number degrades to a missing value instead of failing the load.
type CSVSource struct {
	Path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{Path: path}
}

func (s *CSVSource) Records(ctx context.Context) ([]Record, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open roster csv: %w", err)
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.TrimLeadingSpace = true

	header, err := rd.Read()
	if err != nil {
		return nil, fmt.Errorf("read roster csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var out []Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := rd.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster csv: %w", err)
		}
		rec := make(Record, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			// empty cell means the field is absent
			if cell := strings.TrimSpace(row[i]); cell != "" {
				rec[name] = cell
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
