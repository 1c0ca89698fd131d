package http

import (
	"fmt"
	"net/http"
	"strings"
)

// GetPublicURL returns the externally visible base URL of the server.
// configuredURL wins when set; otherwise the URL is derived from the
// request, honouring X-Forwarded-Proto and X-Forwarded-Host.
func GetPublicURL(r *http.Request, configuredURL string) string {
	if configuredURL != "" {
		return strings.TrimRight(configuredURL, "/")
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	host := r.Host
	if forwardedHost := r.Header.Get("X-Forwarded-Host"); forwardedHost != "" {
		// may hold a comma separated chain; the first is the client's
		host = strings.TrimSpace(strings.Split(forwardedHost, ",")[0])
	}
	if host == "" {
		host = "localhost"
	}

	return fmt.Sprintf("%s://%s", scheme, host)
}
