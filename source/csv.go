package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"bulk_bench/models"
)

// CSVSource streams product records from a CSV file with a header row.
// It is single-pass: once Next returns io.EOF the source is spent.
type CSVSource struct {
	file   *os.File
	reader *csv.Reader
	header []string
}

func Open(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = models.FieldCount

	header, err := r.Read()
	if err == io.EOF {
		f.Close()
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	if err != nil {
		f.Close()
		return nil, classify(err)
	}

	return &CSVSource{file: f, reader: r, header: header}, nil
}

func (s *CSVSource) Header() []string {
	return s.header
}

// Next returns the next record, or io.EOF when the file is exhausted. Rows
// with the wrong field count or broken quoting return an error wrapping
// models.ErrSchemaViolation.
func (s *CSVSource) Next() (models.Record, error) {
	fields, err := s.reader.Read()
	if err != nil {
		if err == io.EOF {
			return models.Record{}, io.EOF
		}
		return models.Record{}, classify(err)
	}
	return models.RecordFromFields(fields)
}

func (s *CSVSource) Close() error {
	return s.file.Close()
}

func classify(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("line %d: %w: %v", pe.Line, models.ErrSchemaViolation, pe.Err)
	}
	return fmt.Errorf("read csv: %w", err)
}
