// Package client talks to the test case generator REST API and keeps the
// session token in a local file.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout leaves room for a full server-side generation.
const DefaultTimeout = 60 * time.Second

var (
	// ErrServerUnreachable means no HTTP response was received at all.
	ErrServerUnreachable = errors.New("server is not reachable")
	// ErrRequestTimeout means the server accepted the connection but did not
	// answer within the client timeout.
	ErrRequestTimeout = errors.New("request timed out")
	// ErrNotLoggedIn is returned when no token is cached or the server rejected it.
	ErrNotLoggedIn = errors.New("not logged in, please log in")
)

// APIError is an error response returned by the server.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s (%d): %s", msg, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s (%d)", msg, e.Status)
}

// Client is a REST client for the API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

func New(baseURL string, tokens TokenStore, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

// do sends a request and decodes a successful response into out. When
// authenticated is set the cached token is attached, and a rejected token is
// removed from the cache.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authenticated bool) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		token, err := c.tokens.Load()
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w after %s at %s: %w", ErrRequestTimeout, c.http.Timeout, c.baseURL, err)
		}
		return fmt.Errorf("%w at %s: %w", ErrServerUnreachable, c.baseURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := decodeAPIError(resp.StatusCode, data)
		if authenticated && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			if clearErr := c.tokens.Clear(); clearErr != nil {
				return errors.Join(apiErr, clearErr)
			}
			return fmt.Errorf("%w: %w", ErrNotLoggedIn, apiErr)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = body.Message
		apiErr.Detail = body.Error
	}
	return apiErr
}
