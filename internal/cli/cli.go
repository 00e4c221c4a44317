package cli

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Output formats understood by -format.
const (
	FormatCSV  = "csv"
	FormatHTML = "html"
)

// CLIArgs are the command-line arguments for a single fetch-and-export run.
type CLIArgs struct {
	// URL is fetched with a single GET.
	URL string

	Params  url.Values
	Headers http.Header

	// Out is the basename written under the configured output directory.
	// Empty means fetch only.
	Out string

	// Format says how to read the response body into a table: csv or html.
	Format string

	// Selector picks the table element when Format is html.
	Selector string

	// SQLiteTable, when set, writes Out as a SQLite database with this table
	// instead of CSV.
	SQLiteTable string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// pairFlag collects repeated key=value flags.
type pairFlag struct {
	add func(k, v string)
}

func (p pairFlag) String() string { return "" }

func (p pairFlag) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	p.add(strings.TrimSpace(k), v)
	return nil
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	out := &CLIArgs{
		Params:  url.Values{},
		Headers: http.Header{},
		RawArgs: args,
	}

	fs := flag.NewFlagSet("nbdata", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&out.URL, "url", "", "URL to GET (required)")
	fs.Var(pairFlag{add: out.Params.Add}, "param", "query parameter key=value (repeatable)")
	fs.Var(pairFlag{add: out.Headers.Add}, "header", "request header key=value (repeatable)")
	fs.StringVar(&out.Out, "out", "", "basename to export to under the output directory")
	fs.StringVar(&out.Format, "format", FormatCSV, "response body format: csv|html")
	fs.StringVar(&out.Selector, "selector", "table", "CSS selector of the table when -format=html")
	fs.StringVar(&out.SQLiteTable, "sqlite-table", "", "write -out as a SQLite database with this table name")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if strings.TrimSpace(out.URL) == "" {
		return nil, fmt.Errorf("missing required -url argument")
	}
	out.Format = strings.ToLower(out.Format)
	if out.Format != FormatCSV && out.Format != FormatHTML {
		return nil, fmt.Errorf("unknown -format %q: want csv or html", out.Format)
	}
	if out.SQLiteTable != "" && out.Out == "" {
		return nil, fmt.Errorf("-sqlite-table requires -out")
	}

	return out, nil
}
