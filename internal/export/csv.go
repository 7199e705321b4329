// Package export projects enriched log entries onto the bulk-import CSV
// schema and validates files against it before anything is uploaded.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/crimson-sun/loglift/internal/model"
)

// Header is the bulk-import column order. It must match the report suite's
// documented schema exactly; the insertion endpoint rejects anything else.
var Header = []string{
	"reportSuiteID",
	"Timestamp",
	"marketingCloudVisitorID",
	"pageName",
	"userAgent",
	"eVar1",
	"eVar2",
	"eVar3",
	"eVar4",
	"eVar5",
	"eVar6",
	"eVar7",
	"events",
}

// The insertion endpoint requires a user agent column; audit logs have none.
const fillerUserAgent = "loglift-backfill"

// Accepted layouts for the audit log's dateCreated field. The endpoint has
// been seen returning both zoned and zone-less timestamps.
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

// Row is one bulk-import record.
type Row struct {
	ReportSuiteID string
	Timestamp     int64 // unix seconds, UTC
	VisitorID     string
	PageName      string
	UserAgent     string
	EVar1         string
	EVar2         string
	EVar3         string
	EVar4         string
	EVar5         string
	EVar6         string
	EVar7         string
	Events        string
}

func (r Row) record() []string {
	return []string{
		r.ReportSuiteID,
		strconv.FormatInt(r.Timestamp, 10),
		r.VisitorID,
		r.PageName,
		r.UserAgent,
		r.EVar1,
		r.EVar2,
		r.EVar3,
		r.EVar4,
		r.EVar5,
		r.EVar6,
		r.EVar7,
		r.Events,
	}
}

// ToRows maps every enriched entry to one bulk-import row with the constant
// report suite id. Row count always equals entry count: enrichment misses
// show up as empty column values, never as dropped rows. An unparsable
// dateCreated is the one hard failure — such an entry must not survive to
// export.
func ToRows(entries []model.LogEntry, rsid string) ([]Row, error) {
	rows := make([]Row, 0, len(entries))
	for i, e := range entries {
		ts, err := parseTimestamp(e.DateCreated)
		if err != nil {
			return nil, fmt.Errorf("export: entry %d: %w", i, err)
		}

		login := localPart(e.Login)
		visitorID := login
		if visitorID == "" {
			visitorID = "unknown"
		}
		typeAndDesc := e.EventType + ";" + e.EventDescription

		rows = append(rows, Row{
			ReportSuiteID: rsid,
			Timestamp:     ts,
			VisitorID:     visitorID,
			PageName:      typeAndDesc,
			UserAgent:     fillerUserAgent,
			EVar1:         login,
			EVar2:         typeAndDesc,
			EVar3:         e.EventType,
			EVar4:         e.EventDescription,
			EVar5:         e.ComponentID,
			EVar6:         e.ComponentName,
			EVar7:         e.ComponentOwner,
			Events:        strings.Join(e.Events, ","),
		})
	}
	return rows, nil
}

func parseTimestamp(dateCreated string) (int64, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, dateCreated); err == nil {
			return t.UTC().Unix(), nil
		}
	}
	return 0, fmt.Errorf("unparsable dateCreated %q", dateCreated)
}

// localPart strips the domain from a login address.
func localPart(login string) string {
	if login == "" {
		return ""
	}
	return strings.SplitN(login, "@", 2)[0]
}

// WriteCSV writes the header and rows to w.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return fmt.Errorf("export: write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}
	return nil
}

// WriteFile writes the rows as a CSV file at path.
func WriteFile(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DateSpan returns the report suite id and the inclusive min/max calendar
// dates (YYYY-MM-DD, UTC) covered by the rows. All rows must share one
// report suite id.
func DateSpan(rows []Row) (rsid, minDate, maxDate string, err error) {
	if len(rows) == 0 {
		return "", "", "", fmt.Errorf("export: no rows to span")
	}

	rsid = rows[0].ReportSuiteID
	minTS, maxTS := rows[0].Timestamp, rows[0].Timestamp
	for i, r := range rows {
		if r.ReportSuiteID != rsid {
			return "", "", "", fmt.Errorf("export: row %d has report suite id %q, expected %q", i, r.ReportSuiteID, rsid)
		}
		if r.Timestamp < minTS {
			minTS = r.Timestamp
		}
		if r.Timestamp > maxTS {
			maxTS = r.Timestamp
		}
	}

	const layout = "2006-01-02"
	minDate = time.Unix(minTS, 0).UTC().Format(layout)
	maxDate = time.Unix(maxTS, 0).UTC().Format(layout)
	return rsid, minDate, maxDate, nil
}
