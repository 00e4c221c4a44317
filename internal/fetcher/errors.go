package fetcher

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/raysh454/nbdata/internal/utils"
	"github.com/raysh454/nbdata/internal/webclient"
)

// HTTPError describes a response with a 4xx or 5xx status.
type HTTPError struct {
	StatusCode int
	Reason     string
	URL        string
}

func (e *HTTPError) Error() string {
	kind := "Client Error"
	if e.StatusCode >= 500 {
		kind = "Server Error"
	}
	return fmt.Sprintf("%d %s: %s for url: %s", e.StatusCode, kind, e.Reason, e.URL)
}

// CheckStatus returns an *HTTPError when resp carries an error status and
// nil otherwise.
func CheckStatus(resp *webclient.Response) *HTTPError {
	if resp == nil || resp.StatusCode < 400 || resp.StatusCode >= 600 {
		return nil
	}
	return &HTTPError{
		StatusCode: resp.StatusCode,
		Reason:     reason(resp),
		URL:        requestURL(resp),
	}
}

// reason prefers the server's status text over the canonical one.
func reason(resp *webclient.Response) string {
	if code, text, ok := strings.Cut(resp.Status, " "); ok && code == strconv.Itoa(resp.StatusCode) && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func requestURL(resp *webclient.Response) string {
	if resp.Request == nil {
		return ""
	}
	if u, err := utils.BuildURL(resp.Request.URL, resp.Request.Query); err == nil {
		return u
	}
	return resp.Request.URL
}
