package webclient

import "github.com/raysh454/nbdata/internal/logging"

func init() {
	RegisterDefaultBackends()
}

// RegisterDefaultBackends registers the default nethttp and chromedp backends.
// It runs from init; calling it again restores the defaults after a test
// overrode them.
func RegisterDefaultBackends() {
	RegisterBackend(string(ClientNetHTTP), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})

	RegisterBackend(string(ClientChromedp), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewChromedpClient(cfg, logger)
	})
}
