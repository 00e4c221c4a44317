package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/raysh454/nbdata/internal/cli"
	"github.com/raysh454/nbdata/internal/exporter"
	"github.com/raysh454/nbdata/internal/fetcher"
	"github.com/raysh454/nbdata/internal/logging"
	"github.com/raysh454/nbdata/internal/table"
	"github.com/raysh454/nbdata/internal/webclient"
)

// Application is the runtime state for one fetch-and-export run.
// It holds config, parsed CLI args and the components built from them.
type Application struct {
	Config *Config
	Args   *cli.CLIArgs
	Logger logging.Logger

	// Stdout receives the response body when no -out is given.
	Stdout io.Writer

	wc       webclient.WebClient
	fetcher  *fetcher.Fetcher
	exporter *exporter.Exporter
}

// NewApplication constructs the web client, fetcher and exporter described by
// cfg. Call Close when done.
func NewApplication(cfg *Config, args *cli.CLIArgs, logger logging.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("application config is nil")
	}
	if args == nil {
		return nil, errors.New("application args are nil")
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("nbdata")
	}

	wc, err := webclient.NewWebClient(cfg.WebClient, logger)
	if err != nil {
		return nil, err
	}
	f, err := fetcher.New(wc, logger.With(logging.Field{Key: "component", Value: "fetcher"}))
	if err != nil {
		wc.Close()
		return nil, err
	}

	return &Application{
		Config:   cfg,
		Args:     args,
		Logger:   logger,
		Stdout:   os.Stdout,
		wc:       wc,
		fetcher:  f,
		exporter: exporter.New(cfg.Exporter, logger),
	}, nil
}

// Run fetches Args.URL and exports the parsed table. When the server answers
// with an error status the diagnostic has already been printed and the
// *fetcher.HTTPError is returned.
func (a *Application) Run(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}

	res, err := a.fetcher.Fetch(ctx, a.Args.URL, a.Args.Params, a.Args.Headers)
	if err != nil {
		return err
	}
	if !res.OK() {
		return res.HTTPErr
	}

	if a.Args.Out == "" {
		_, err := a.Stdout.Write(res.Response.Body)
		return err
	}

	t, err := a.parse(res.Response.Body)
	if err != nil {
		return err
	}

	if a.Args.SQLiteTable != "" {
		return a.exporter.ExportSQLite(ctx, t, a.Args.Out, a.Args.SQLiteTable)
	}
	return a.exporter.Export(t, a.Args.Out)
}

func (a *Application) parse(body []byte) (*table.Table, error) {
	switch a.Args.Format {
	case cli.FormatHTML:
		t, err := table.FromHTML(bytes.NewReader(body), a.Args.Selector)
		if err != nil {
			return nil, fmt.Errorf("parse html body: %w", err)
		}
		return t, nil
	default:
		t, err := table.FromCSV(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("parse csv body: %w", err)
		}
		return t, nil
	}
}

// Close releases the web client.
func (a *Application) Close() error {
	if a == nil || a.wc == nil {
		return nil
	}
	return a.wc.Close()
}
