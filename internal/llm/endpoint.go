package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// endpoint is a JSON-over-HTTP API shared by the plain HTTP providers
type endpoint struct {
	client  *http.Client
	baseURL string
	header  http.Header

	// errorText pulls the provider's message out of a failed response body
	errorText func(body []byte) string
}

func newEndpoint(client *http.Client, baseURL string, errorText func([]byte) string) endpoint {
	return endpoint{
		client:    client,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		header:    http.Header{"Content-Type": {"application/json"}},
		errorText: errorText,
	}
}

func (e endpoint) request(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range e.header {
		req.Header[k] = v
	}
	return req, nil
}

// ping reports whether GET path answers 200
func (e endpoint) ping(ctx context.Context, path string) bool {
	req, err := e.request(ctx, http.MethodGet, path, nil)
	if err != nil {
		return false
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// post sends in as JSON to path and decodes a 200 reply into out
func (e endpoint) post(ctx context.Context, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := e.request(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if e.errorText != nil {
			if text := e.errorText(body); text != "" {
				msg = text
			}
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
