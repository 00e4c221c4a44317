package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/raysh454/nbdata/internal/logging"
	"github.com/raysh454/nbdata/internal/webclient"
)

// Module: fetcher
// Performs single GET requests and separates HTTP error statuses from
// transport failures.
type Fetcher struct {
	wc     webclient.WebClient
	logger logging.Logger
}

// Result is the outcome of a request that reached the server. Exactly one of
// Response and HTTPErr is set.
type Result struct {
	Response *webclient.Response
	HTTPErr  *HTTPError
}

// OK reports whether the server answered with a non-error status.
func (r *Result) OK() bool {
	return r != nil && r.Response != nil
}

// New creates a new Fetcher with the given webclient and logger. The logger
// receives the diagnostic line for HTTP error statuses; pass
// logging.NewStdoutLogger to have it printed on stdout.
func New(wc webclient.WebClient, logger logging.Logger) (*Fetcher, error) {
	if wc == nil {
		return nil, errors.New("fetcher: webclient is nil")
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("fetcher")
	}
	return &Fetcher{wc: wc, logger: logger}, nil
}

// Get makes a single GET request with the given query parameters and headers.
//
// It returns the response when the status is below 400. On a 4xx/5xx status
// it prints one diagnostic line and returns (nil, nil). Any other failure
// (malformed URL, DNS, refused connection, timeout, cancelled ctx) is
// returned as an error.
func (f *Fetcher) Get(ctx context.Context, rawURL string, params url.Values, headers http.Header) (*webclient.Response, error) {
	res, err := f.Fetch(ctx, rawURL, params, headers)
	if err != nil {
		return nil, err
	}
	return res.Response, nil
}

// Fetch is Get with the HTTP error kept: the returned Result carries either
// the response or the *HTTPError that was logged.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, params url.Values, headers http.Header) (*Result, error) {
	requestID := uuid.NewString()

	resp, err := f.wc.Do(ctx, &webclient.Request{
		Method:  http.MethodGet,
		URL:     rawURL,
		Query:   params,
		Headers: headers,
	})
	if err != nil {
		return nil, fmt.Errorf("error GETting %s: %w", rawURL, err)
	}

	if httpErr := CheckStatus(resp); httpErr != nil {
		f.logger.Warn(fmt.Sprintf("get request failed, %s", httpErr),
			logging.Field{Key: "request_id", Value: requestID},
			logging.Field{Key: "status_code", Value: httpErr.StatusCode},
			logging.Field{Key: "url", Value: httpErr.URL})
		return &Result{HTTPErr: httpErr}, nil
	}

	f.logger.Debug("get request succeeded",
		logging.Field{Key: "request_id", Value: requestID},
		logging.Field{Key: "status_code", Value: resp.StatusCode},
		logging.Field{Key: "bytes", Value: len(resp.Body)})
	return &Result{Response: resp}, nil
}
