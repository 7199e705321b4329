package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validCSV(t *testing.T) *bytes.Buffer {
	t.Helper()
	rows, err := ToRows(enrichedEntries(), "myrsid")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestValidateReader_ValidFile(t *testing.T) {
	if err := ValidateReader(validCSV(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateReader_MissingRequiredColumn(t *testing.T) {
	// Header without reportSuiteID.
	csv := "Timestamp,marketingCloudVisitorID,pageName,userAgent,eVar1,eVar2,eVar3,eVar4,eVar5,eVar6,eVar7,events\n" +
		"1643709600,alice,p,ua,,,,,,,,\n"

	err := ValidateReader(strings.NewReader(csv))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if vErr.Row != 0 || vErr.Column != "reportSuiteID" {
		t.Fatalf("unexpected violation: %+v", vErr)
	}
}

func TestValidateReader_WrongColumnOrder(t *testing.T) {
	csv := "Timestamp,reportSuiteID,marketingCloudVisitorID,pageName,userAgent,eVar1,eVar2,eVar3,eVar4,eVar5,eVar6,eVar7,events\n"
	err := ValidateReader(strings.NewReader(csv))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if vErr.Row != 0 {
		t.Fatalf("expected header violation, got %+v", vErr)
	}
}

func TestValidateReader_UnparsableTimestamp(t *testing.T) {
	buf := validCSV(t)
	corrupted := strings.Replace(buf.String(), "1643709600", "02/01/2022", 1)

	err := ValidateReader(strings.NewReader(corrupted))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if vErr.Column != "Timestamp" {
		t.Fatalf("expected Timestamp violation, got %+v", vErr)
	}
	if vErr.Row != 1 {
		t.Fatalf("expected row 1, got %d", vErr.Row)
	}
}

func TestValidateReader_EmptyRSID(t *testing.T) {
	buf := validCSV(t)
	corrupted := strings.Replace(buf.String(), "myrsid,1643709600", ",1643709600", 1)

	err := ValidateReader(strings.NewReader(corrupted))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if vErr.Column != "reportSuiteID" || vErr.Row == 0 {
		t.Fatalf("unexpected violation: %+v", vErr)
	}
}

func TestValidateReader_InconsistentRSID(t *testing.T) {
	buf := validCSV(t)
	corrupted := strings.Replace(buf.String(), "myrsid,1643887800", "otherrsid,1643887800", 1)

	err := ValidateReader(strings.NewReader(corrupted))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if !strings.Contains(vErr.Reason, "multiple report suite ids") {
		t.Fatalf("unexpected reason: %q", vErr.Reason)
	}
}

func TestValidateReader_ShortRow(t *testing.T) {
	csv := strings.Join(Header, ",") + "\n" + "myrsid,1643709600,alice\n"
	err := ValidateReader(strings.NewReader(csv))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if vErr.Row != 1 {
		t.Fatalf("expected row 1, got %+v", vErr)
	}
}

func TestValidateReader_EmptyFile(t *testing.T) {
	err := ValidateReader(strings.NewReader(""))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	if err := os.WriteFile(path, validCSV(t).Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateFile(filepath.Join(t.TempDir(), "absent.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
