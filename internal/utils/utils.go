package utils

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// BuildURL merges params into the query string of raw and returns the
// resulting URL. Existing query parameters are kept and params are appended
// after them, sorted by key. Internationalized hostnames are converted to
// punycode so they can be resolved.
//
// Examples:
//
//	BuildURL("https://example.com/a", {"q": ["x"]})      → "https://example.com/a?q=x"
//	BuildURL("https://example.com/a?p=1", {"q": ["x"]})  → "https://example.com/a?p=1&q=x"
//	BuildURL("http://bücher.example/", nil)              → "http://xn--bcher-kva.example/"
func BuildURL(raw string, params url.Values) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	if u.Host != "" {
		u.Host = asciiHost(u)
	}

	if len(params) > 0 {
		encoded := params.Encode()
		if u.RawQuery == "" {
			u.RawQuery = encoded
		} else {
			u.RawQuery = u.RawQuery + "&" + encoded
		}
	}

	return u.String(), nil
}

// asciiHost lowercases the hostname and converts IDN -> punycode, keeping
// any explicit port. Hosts that fail IDNA lookup are left as given.
func asciiHost(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}
	if strings.Contains(host, ":") {
		// IPv6 literal
		host = "[" + host + "]"
		if port := u.Port(); port != "" {
			return host + ":" + port
		}
		return host
	}
	if port := u.Port(); port != "" {
		return net.JoinHostPort(host, port)
	}
	return host
}
