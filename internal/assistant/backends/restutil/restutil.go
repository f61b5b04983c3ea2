// Package restutil provides small HTTP helpers shared by the REST-based
// assistant backends.
package restutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// client deliberately carries a generous cap; callers bound individual
// requests with a context deadline.
var client = &http.Client{Timeout: 2 * time.Minute}

// DoJSON sends a JSON request and decodes the JSON response into dest.
func DoJSON(ctx context.Context, method, url string, headers map[string]string, body any, dest any) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet(resp.Body))
	}

	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// DoRaw sends a request with a raw body and returns the response body. The
// caller must close it.
func DoRaw(ctx context.Context, method, url string, headers map[string]string, body io.Reader) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet(resp.Body))
	}

	return resp.Body, nil
}

// snippet reads a short prefix of an error body for diagnostics. Provider
// error bodies can be huge; 600 bytes is plenty for logs.
func snippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 600))
	return string(b)
}
