// Package ingest acquires and parses the two source documents: the
// station registry spreadsheet and the multi-sheet time-series
// workbook. Sources are static snapshots fetched once per load.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jlaffaye/ftp"

	"github.com/rafiaca4-del/station-monitor-dashboard/internal/httputil"
)

// Fetch returns the raw bytes of a source document. ref is a local
// path, a file:// path, an http(s):// URL or an ftp:// URL.
func Fetch(ctx context.Context, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return os.ReadFile(ref)
	}
	switch u.Scheme {
	case "", "file":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		if path == "" {
			path = ref
		}
		return os.ReadFile(path)
	case "http", "https":
		return fetchHTTP(ctx, ref)
	case "ftp":
		return fetchFTP(u)
	default:
		return nil, fmt.Errorf("ingest: unsupported scheme %q", u.Scheme)
	}
}

func fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	client := httputil.NewClient()

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch source: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("fetch source: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch source: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

func fetchFTP(u *url.URL) ([]byte, error) {
	host := u.Host
	if !strings.Contains(host, ":") {
		host += ":21"
	}
	conn, err := ftp.Dial(host, ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	user, pass := "anonymous", "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		return nil, fmt.Errorf("ftp login: %w", err)
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		return nil, fmt.Errorf("ftp retr: %w", err)
	}
	defer resp.Close()

	body, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Identity returns the content identity of a source document: the hex
// SHA-256 of its bytes. It keys the snapshot cache, so a changed
// source invalidates by simply missing.
func Identity(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
