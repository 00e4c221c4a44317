package utils_test

import (
	"net/url"
	"testing"

	"github.com/raysh454/nbdata/internal/utils"
)

// ─── BuildURL ──────────────────────────────────────────────────────────

func TestBuildURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		params url.Values
		want   string
	}{
		{
			name: "no params leaves url untouched",
			raw:  "https://example.com/ok",
			want: "https://example.com/ok",
		},
		{
			name:   "params become query string",
			raw:    "https://example.com/search",
			params: url.Values{"q": {"go lang"}, "page": {"2"}},
			want:   "https://example.com/search?page=2&q=go+lang",
		},
		{
			name:   "existing query is kept first",
			raw:    "https://example.com/search?lang=en",
			params: url.Values{"q": {"x"}},
			want:   "https://example.com/search?lang=en&q=x",
		},
		{
			name:   "repeated values",
			raw:    "https://example.com/",
			params: url.Values{"id": {"1", "2"}},
			want:   "https://example.com/?id=1&id=2",
		},
		{
			name: "host is lowercased and port kept",
			raw:  "http://EXAMPLE.com:8080/Path",
			want: "http://example.com:8080/Path",
		},
		{
			name: "idn host converted to punycode",
			raw:  "http://bücher.example/",
			want: "http://xn--bcher-kva.example/",
		},
		{
			name: "ipv6 literal with port",
			raw:  "http://[::1]:9999/ok",
			want: "http://[::1]:9999/ok",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := utils.BuildURL(tt.raw, tt.params)
			if err != nil {
				t.Fatalf("BuildURL: %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestBuildURL_MalformedReturnsError(t *testing.T) {
	t.Parallel()
	if _, err := utils.BuildURL("http://[::1", nil); err == nil {
		t.Fatal("expected parse error for malformed url")
	}
}
