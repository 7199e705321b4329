package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/loglift/internal/adobe/usage"
	"github.com/crimson-sun/loglift/internal/config"
	"github.com/crimson-sun/loglift/internal/logging"
	"github.com/crimson-sun/loglift/internal/pipeline"
)

func main() {
	var (
		configPath = flag.String("config", "credentials.yaml", "YAML credential file")
		start      = flag.String("start", "", "inclusive start date, YYYY-MM-DD")
		end        = flag.String("end", "", "inclusive end date, YYYY-MM-DD")
		rsid       = flag.String("rsid", "", "target report suite id for the exported rows")
		outCSV     = flag.String("out", "usage_logs.csv", "bulk-import CSV output path")
		outJSON    = flag.String("json", "", "optional raw enriched-entries JSON dump path")
		upload     = flag.Bool("upload", false, "upload the CSV after validation and the existing-data check")
		logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error")
		logJSON    = flag.Bool("log-json", false, "emit logs as JSON")

		filterLogin     = flag.String("filter-login", "", "only fetch entries for this login")
		filterIP        = flag.String("filter-ip", "", "only fetch entries from this IP address")
		filterRSID      = flag.String("filter-rsid", "", "only fetch entries for this source report suite")
		filterEventType = flag.String("filter-event-type", "", "only fetch entries with this numeric event type")
		filterEvent     = flag.String("filter-event", "", "only fetch entries whose description contains this text")
	)
	flag.Parse()

	logging.Init(logging.ParseLevel(*logLevel), *logJSON)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(2)
	}

	// Graceful shutdown: a signal cancels the in-flight HTTP requests. The
	// upload itself is a single request and either lands or doesn't.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "\nreceived %v, shutting down...\n", sig)
		cancel()
	}()

	result, err := pipeline.Run(ctx, cfg, pipeline.Options{
		Start: *start,
		End:   *end,
		RSID:  *rsid,
		Filters: usage.Filters{
			Login:     *filterLogin,
			IP:        *filterIP,
			RSID:      *filterRSID,
			EventType: *filterEventType,
			Event:     *filterEvent,
		},
		OutCSV:  *outCSV,
		OutJSON: *outJSON,
		Upload:  *upload,
	})
	if err != nil {
		slog.Error("backfill failed", "error", err)
		os.Exit(1)
	}

	if result.Ingestion != nil {
		fmt.Printf("uploaded %d entries from %s\n", len(result.Entries), result.CSVPath)
	} else {
		fmt.Printf("exported %d entries to %s (dry run, use -upload to submit)\n",
			len(result.Entries), result.CSVPath)
	}
}
