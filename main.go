// Command nbdata fetches a dataset with a single GET request and exports it
// as CSV (or SQLite) under the configured output directory.
//
// Usage:
//
//	nbdata -url https://example.com/quotes.csv -param symbol=ABC -out quotes.csv
//	nbdata -url https://example.com/quotes -format html -selector table.quotes -out quotes.csv
//
// Environment: NBDATA_EXPORT_OUTPUT_DIR (default ../data/),
// NBDATA_WEBCLIENT_BACKEND (nethttp|chromedp), NBDATA_WEBCLIENT_TIMEOUT,
// NBDATA_LOG_LEVEL (default warn).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/raysh454/nbdata/internal/app"
	"github.com/raysh454/nbdata/internal/cli"
	"github.com/raysh454/nbdata/internal/fetcher"
	"github.com/raysh454/nbdata/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command. stdout carries the response body (without -out)
// and log lines at or above NBDATA_LOG_LEVEL; usage errors go to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	parsed, err := cli.ParseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "nbdata: %v\n", err)
		return 2
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "nbdata: %v\n", err)
		return 2
	}

	logger := logging.NewLeveledLogger(stdout, "nbdata", cfg.Level())
	application, err := app.NewApplication(cfg, parsed, logger)
	if err != nil {
		fmt.Fprintf(stderr, "nbdata: %v\n", err)
		return 1
	}
	defer application.Close()
	application.Stdout = stdout

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		// HTTP error statuses were already reported by the fetcher.
		var httpErr *fetcher.HTTPError
		if !errors.As(err, &httpErr) {
			logger.Error("run failed", logging.Field{Key: "error", Value: err})
		}
		return 1
	}
	return 0
}
