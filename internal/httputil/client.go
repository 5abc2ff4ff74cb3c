package httputil

import (
	"net/http"
	"time"
)

// Source spreadsheets can run to tens of megabytes over slow links, so
// the overall deadline is generous while time-to-first-byte stays
// tight.
const (
	DownloadTimeout       = 2 * time.Minute
	responseHeaderTimeout = 15 * time.Second
)

// NewClient returns an HTTP client tuned for source document downloads.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DownloadTimeout,
		Transport: &http.Transport{
			ResponseHeaderTimeout: responseHeaderTimeout,
		},
	}
}
