// Package loglift backfills Adobe Analytics usage audit logs into a report
// suite: it fetches the logs, enriches them, exports a bulk-import CSV, and
// optionally uploads it after validation and an existing-data check.
//
// Quick start:
//
//	c, err := loglift.New(loglift.WithConfigFile("credentials.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := c.Backfill(ctx, loglift.BackfillOptions{
//	    Start:  "2022-01-01",
//	    End:    "2022-06-30",
//	    RSID:   "myrsid",
//	    OutCSV: "usage_logs.csv",
//	})
//
// Uploads are off by default. Set BackfillOptions.Upload only when the CSV
// has been reviewed: ingested rows cannot practically be deleted.
package loglift
