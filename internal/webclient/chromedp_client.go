package webclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/nbdata/internal/logging"
	"github.com/raysh454/nbdata/internal/utils"
)

// ChromedpClient renders pages in a headless browser. Only GET is supported;
// the returned body is the outer HTML after the network has gone idle.
type ChromedpClient struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	idleAfter   time.Duration
	timeout     time.Duration
	logger      logging.Logger
}

func NewChromedpClient(cfg Config, logger logging.Logger) (*ChromedpClient, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientChromedp)})

	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	idleAfter := cfg.IdleAfter
	if idleAfter <= 0 {
		idleAfter = 2 * time.Second
	}

	componentLogger.Debug("created chromedp webclient",
		logging.Field{Key: "idle_after", Value: idleAfter.String()},
		logging.Field{Key: "headless", Value: cfg.Headless})

	return &ChromedpClient{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		idleAfter:   idleAfter,
		timeout:     cfg.Timeout,
		logger:      componentLogger,
	}, nil
}

// idleTracker reports when no request has been in flight for idleAfter.
// Requests are keyed by id: a redirect re-sends RequestWillBeSent under the
// same id but finishes only once.
type idleTracker struct {
	idleAfter time.Duration
	idle      chan struct{}
	once      sync.Once

	mu       sync.Mutex
	inflight map[network.RequestID]struct{}
	timer    *time.Timer
}

func newIdleTracker(idleAfter time.Duration) *idleTracker {
	return &idleTracker{
		idleAfter: idleAfter,
		idle:      make(chan struct{}),
		inflight:  make(map[network.RequestID]struct{}),
	}
}

// Done is closed once the network has gone idle.
func (it *idleTracker) Done() <-chan struct{} {
	return it.idle
}

func (it *idleTracker) handle(ev any) {
	it.mu.Lock()
	defer it.mu.Unlock()

	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		it.inflight[e.RequestID] = struct{}{}
		if it.timer != nil {
			it.timer.Stop()
		}
	case *network.EventLoadingFinished:
		it.finishLocked(e.RequestID)
	case *network.EventLoadingFailed:
		it.finishLocked(e.RequestID)
	}
}

func (it *idleTracker) finishLocked(id network.RequestID) {
	delete(it.inflight, id)
	if len(it.inflight) == 0 {
		it.armLocked()
	}
}

// arm starts the idle timer for pages that issue no further requests after
// navigation.
func (it *idleTracker) arm() {
	it.mu.Lock()
	defer it.mu.Unlock()
	if len(it.inflight) == 0 {
		it.armLocked()
	}
}

func (it *idleTracker) armLocked() {
	if it.timer != nil {
		it.timer.Stop()
	}
	it.timer = time.AfterFunc(it.idleAfter, func() {
		it.mu.Lock()
		quiet := len(it.inflight) == 0
		it.mu.Unlock()
		if quiet {
			it.once.Do(func() { close(it.idle) })
		}
	})
}

// Do navigates to the request URL and returns the rendered document.
func (cdc *ChromedpClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	method := strings.ToUpper(req.Method)
	if method != "" && method != http.MethodGet {
		return nil, fmt.Errorf("method %s not supported by chromedp backend", method)
	}

	target, err := utils.BuildURL(req.URL, req.Query)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	tabCtx, cancel := chromedp.NewContext(cdc.allocCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	if cdc.timeout > 0 {
		var cancelTimeout context.CancelFunc
		tabCtx, cancelTimeout = context.WithTimeout(tabCtx, cdc.timeout)
		defer cancelTimeout()
	}

	var (
		docMu   sync.Mutex
		docResp *network.Response
	)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		if e, ok := ev.(*network.EventResponseReceived); ok && e.Type == network.ResourceTypeDocument {
			docMu.Lock()
			if docResp == nil {
				docResp = e.Response
			}
			docMu.Unlock()
		}
	})
	idle := newIdleTracker(cdc.idleAfter)
	chromedp.ListenTarget(tabCtx, idle.handle)

	cdc.logger.Debug("rendering page", logging.Field{Key: "url", Value: target})

	actions := []chromedp.Action{network.Enable()}
	if len(req.Headers) > 0 {
		actions = append(actions, network.SetExtraHTTPHeaders(toCDPHeaders(req.Headers)))
	}
	actions = append(actions, chromedp.Navigate(target))
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return nil, fmt.Errorf("chromedp navigate: %w", err)
	}
	idle.arm()

	select {
	case <-idle.Done():
	case <-tabCtx.Done():
		return nil, fmt.Errorf("chromedp wait idle: %w", tabCtx.Err())
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, fmt.Errorf("chromedp read html: %w", err)
	}

	resp := &Response{
		Request:   req,
		Body:      []byte(html),
		Headers:   http.Header{},
		FetchedAt: time.Now(),
	}
	docMu.Lock()
	if docResp != nil {
		resp.StatusCode = int(docResp.Status)
		resp.Status = fmt.Sprintf("%d %s", docResp.Status, docResp.StatusText)
		resp.Headers = fromCDPHeaders(docResp.Headers)
	}
	docMu.Unlock()
	return resp, nil
}

func (cdc *ChromedpClient) Get(ctx context.Context, url string) (*Response, error) {
	return cdc.Do(ctx, &Request{Method: http.MethodGet, URL: url})
}

// Close shuts the browser down.
func (cdc *ChromedpClient) Close() error {
	cdc.allocCancel()
	return nil
}

func toCDPHeaders(h http.Header) network.Headers {
	out := make(network.Headers, len(h))
	for k, vs := range h {
		out[k] = strings.Join(vs, ", ")
	}
	return out
}

// Chrome joins repeated headers with newlines.
func fromCDPHeaders(h network.Headers) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		for _, part := range strings.Split(fmt.Sprint(v), "\n") {
			out.Add(k, part)
		}
	}
	return out
}
