// Package auth resolves bearer tokens to caller identities.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	userPath       = "/auth/v1/user"
	defaultTimeout = 5 * time.Second
)

// Errors returned by verifiers.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("identity provider unavailable")
)

// Identity is the authenticated caller.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Verifier turns a bearer token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// RemoteVerifier asks the identity provider who owns a token.
type RemoteVerifier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRemoteVerifier creates a verifier for the provider at baseURL. A nil
// client gets a default with a short timeout.
func NewRemoteVerifier(baseURL, apiKey string, hc *http.Client) *RemoteVerifier {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	return &RemoteVerifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: hc,
	}
}

// Verify implements Verifier.
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthorized
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+userPath, http.NoBody)
	if err != nil {
		return Identity{}, fmt.Errorf("auth: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.apiKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500:
		return Identity{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	default:
		return Identity{}, ErrUnauthorized
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return Identity{}, fmt.Errorf("auth: decode user: %w", err)
	}
	if id.ID == "" {
		return Identity{}, ErrUnauthorized
	}
	return id, nil
}

// StaticVerifier accepts any UUID as its own identity. It stands in for the
// identity provider in local runs and the probe tool.
type StaticVerifier struct{}

// Verify implements Verifier.
func (StaticVerifier) Verify(_ context.Context, token string) (Identity, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return Identity{}, ErrUnauthorized
	}
	return Identity{ID: id.String(), Role: "authenticated"}, nil
}

type ctxKey struct{}

// WithIdentity stores id on ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
