package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ValidationError reports the first schema violation found in a CSV.
// Row 0 is the header; data rows count from 1.
type ValidationError struct {
	Row    int
	Column string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("export: validation failed at row %d, column %q: %s", e.Row, e.Column, e.Reason)
}

// Column indexes into Header. Kept next to the validation logic that
// depends on them.
const (
	colRSID      = 0
	colTimestamp = 1
)

// ValidateReader checks a CSV stream against the bulk-import schema:
// the header must match exactly, every row must have a non-empty report
// suite id (consistent across rows) and an integer timestamp. Returns a
// *ValidationError on the first violation.
func ValidateReader(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // column-count violations reported by us, not csv

	header, err := cr.Read()
	if err == io.EOF {
		return &ValidationError{Row: 0, Column: Header[0], Reason: "file is empty"}
	}
	if err != nil {
		return &ValidationError{Row: 0, Column: "", Reason: err.Error()}
	}
	if err := validateHeader(header); err != nil {
		return err
	}

	rsid := ""
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &ValidationError{Row: row, Column: "", Reason: err.Error()}
		}
		if len(record) != len(Header) {
			return &ValidationError{
				Row:    row,
				Column: "",
				Reason: fmt.Sprintf("expected %d columns, found %d", len(Header), len(record)),
			}
		}

		if record[colRSID] == "" {
			return &ValidationError{Row: row, Column: Header[colRSID], Reason: "report suite id is empty"}
		}
		if rsid == "" {
			rsid = record[colRSID]
		} else if record[colRSID] != rsid {
			return &ValidationError{
				Row:    row,
				Column: Header[colRSID],
				Reason: fmt.Sprintf("multiple report suite ids: %q and %q", rsid, record[colRSID]),
			}
		}

		if _, err := strconv.ParseInt(record[colTimestamp], 10, 64); err != nil {
			return &ValidationError{
				Row:    row,
				Column: Header[colTimestamp],
				Reason: fmt.Sprintf("timestamp %q is not a unix timestamp", record[colTimestamp]),
			}
		}
	}
}

func validateHeader(header []string) error {
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[h] = true
	}
	for _, want := range Header {
		if !have[want] {
			return &ValidationError{Row: 0, Column: want, Reason: "required column is missing"}
		}
	}
	if len(header) != len(Header) {
		return &ValidationError{
			Row:    0,
			Column: "",
			Reason: fmt.Sprintf("expected %d columns, found %d", len(Header), len(header)),
		}
	}
	for i, want := range Header {
		if header[i] != want {
			return &ValidationError{
				Row:    0,
				Column: want,
				Reason: fmt.Sprintf("expected column %d to be %q, found %q", i, want, header[i]),
			}
		}
	}
	return nil
}

// ValidateFile runs ValidateReader over the file at path.
func ValidateFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("export: open %s: %w", path, err)
	}
	defer f.Close()
	return ValidateReader(f)
}
