package collect

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/crimson-sun/loglift/internal/adobe/httpclient"
)

func writeCSVFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.csv")
	content := "reportSuiteID,Timestamp\nmyrsid,1643709600\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	hc := httpclient.New(srv.URL, "tok",
		httpclient.WithAPIKey("id-1"),
		httpclient.WithHeader("x-adobe-vgid", "usage_group1"))
	return New(hc)
}

func TestValidateCSV_Success(t *testing.T) {
	var gotPath, gotVGID string
	var gotContent string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotVGID = r.Header.Get("x-adobe-vgid")
		f, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		gz, err := gzip.NewReader(f)
		if err != nil {
			t.Fatalf("expected gzipped upload: %v", err)
		}
		b, _ := io.ReadAll(gz)
		gotContent = string(b)
		w.Write([]byte(`{"success":true}`))
	})

	if err := c.ValidateCSV(context.Background(), writeCSVFixture(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/aa/collect/v1/events/validate" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotVGID != "usage_group1" {
		t.Fatalf("unexpected visitor group id: %q", gotVGID)
	}
	if gotContent != "reportSuiteID,Timestamp\nmyrsid,1643709600\n" {
		t.Fatalf("unexpected uploaded content: %q", gotContent)
	}
}

func TestValidateCSV_Rejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"column mismatch"}`))
	})

	err := c.ValidateCSV(context.Background(), writeCSVFixture(t))
	var vErr *RemoteValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *RemoteValidationError, got %T: %v", err, err)
	}
	if vErr.Detail != "column mismatch" {
		t.Fatalf("unexpected detail: %q", vErr.Detail)
	}
}

func TestValidateCSV_RequestFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		w.Write([]byte(`boom`))
	})

	err := c.ValidateCSV(context.Background(), writeCSVFixture(t))
	var apiErr *httpclient.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *httpclient.APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 500 {
		t.Fatalf("expected status 500, got %d", apiErr.StatusCode)
	}
}

func TestBulkInsert_ReturnsAckUnchanged(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"success":true,"batch_id":"b-123","rows_received":2}`))
	})

	result, err := c.BulkInsert(context.Background(), writeCSVFixture(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/aa/collect/v1/events" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if result["batch_id"] != "b-123" {
		t.Fatalf("expected ack passthrough, got %v", result)
	}
	if result["rows_received"] != float64(2) {
		t.Fatalf("expected rows_received 2, got %v", result["rows_received"])
	}
}

func TestBulkInsert_RequestFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(403)
		w.Write([]byte(`forbidden`))
	})

	_, err := c.BulkInsert(context.Background(), writeCSVFixture(t))
	var apiErr *httpclient.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *httpclient.APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 403 {
		t.Fatalf("expected status 403, got %d", apiErr.StatusCode)
	}
}

func TestBulkInsert_MissingFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := c.BulkInsert(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
