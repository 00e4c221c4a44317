package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
)

// Config selects and tunes a WebClient backend.
type Config struct {
	Client Client `envconfig:"BACKEND" default:"nethttp"`

	// Timeout bounds a whole nethttp round trip. Zero means no timeout.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`

	// IdleAfter is how long chromedp waits after the last network activity
	// before reading the rendered page.
	IdleAfter time.Duration `envconfig:"IDLE_AFTER" default:"2s"`

	// Headless runs the chromedp browser without a window.
	Headless bool `envconfig:"HEADLESS" default:"true"`
}

// DefaultConfig returns the same values the envconfig defaults produce.
func DefaultConfig() Config {
	return Config{
		Client:    ClientNetHTTP,
		Timeout:   30 * time.Second,
		IdleAfter: 2 * time.Second,
		Headless:  true,
	}
}
