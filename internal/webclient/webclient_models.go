package webclient

import (
	"net/http"
	"net/url"
	"time"
)

type Request struct {
	Method  string
	URL     string
	Query   url.Values // merged into URL's existing query string
	Headers http.Header
	Body    []byte
}

type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int
	Status     string // status line text, e.g. "404 Not Found"
	FetchedAt  time.Time
}
