package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var errStatus = errors.New("unexpected status")

// client calls the vibecheck API with a per-request bearer token.
type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do sends body as JSON and decodes a response with status want into out.
func (c *client) do(ctx context.Context, method, path, token string, body, out any, want int) error {
	var rd io.Reader = http.NoBody
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("%w: %s %s: %d %s", errStatus, method, path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *client) health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", "", nil, nil, http.StatusOK)
}

func (c *client) createProfile(ctx context.Context, id string, p profilePayload) error {
	return c.do(ctx, http.MethodPost, "/api/profiles", id, p, nil, http.StatusCreated)
}

func (c *client) deleteProfile(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/profiles/me", id, nil, nil, http.StatusOK)
}

func (c *client) evaluate(ctx context.Context, caller, target string) (matchResult, error) {
	var out matchResult
	err := c.do(ctx, http.MethodPost, "/api/profiles/process-match", caller,
		map[string]string{"targetId": target}, &out, http.StatusOK)
	return out, err
}
