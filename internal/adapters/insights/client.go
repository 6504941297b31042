// Package insights calls the taste-graph recommendation service that backs
// date idea generation.
package insights

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

	"github.com/okian/vibecheck/internal/domain/dateideas"
	"github.com/okian/vibecheck/internal/domain/profile"
)

const (
	affinityPath   = "/v3/insights/user_to_item_affinity"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

// ErrUpstream is returned for any non-2xx answer.
var ErrUpstream = errors.New("insights upstream error")

// Client talks to the insights API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient creates a client for baseURL authenticated with apiKey.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type traits struct {
	Openness          *float64 `json:"openness,omitempty"`
	Conscientiousness *float64 `json:"conscientiousness,omitempty"`
	Extraversion      *float64 `json:"extraversion,omitempty"`
	Agreeableness     *float64 `json:"agreeableness,omitempty"`
	Neuroticism       *float64 `json:"neuroticism,omitempty"`
}

type affinityRequest struct {
	UserPreferences   []string `json:"user_preferences"`
	ItemCategories    []string `json:"item_categories"`
	Location          string   `json:"location"`
	Limit             int      `json:"limit"`
	PersonalityTraits *traits  `json:"personality_traits,omitempty"`
}

type affinityResponse struct {
	Results []struct {
		Item struct {
			ID          string         `json:"id"`
			Name        string         `json:"name"`
			Description string         `json:"description"`
			Category    string         `json:"category"`
			Metadata    map[string]any `json:"metadata"`
		} `json:"item"`
		Score float64 `json:"score"`
	} `json:"results"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func newAffinityRequest(r dateideas.Request) affinityRequest {
	req := affinityRequest{
		UserPreferences: r.Preferences(),
		ItemCategories:  dateideas.InsightCategories,
		Location:        r.LocationOrDefault(),
		Limit:           dateideas.DefaultLimit,
	}
	if r.Personality != nil {
		req.PersonalityTraits = traitsOf(*r.Personality)
	}
	return req
}

func traitsOf(p profile.Personality) *traits {
	return &traits{
		Openness:          p.Openness,
		Conscientiousness: p.Conscientiousness,
		Extraversion:      p.Extraversion,
		Agreeableness:     p.Agreeableness,
		Neuroticism:       p.Neuroticism,
	}
}

// Recommend asks for items matching the request's preferences.
func (c *Client) Recommend(ctx context.Context, r dateideas.Request) ([]dateideas.Recommendation, error) {
	body, err := json.Marshal(newAffinityRequest(r))
	if err != nil {
		return nil, fmt.Errorf("insights: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+affinityPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("insights: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("insights: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var parsed affinityResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("insights: decode response: %w", err)
	}

	out := make([]dateideas.Recommendation, 0, len(parsed.Results))
	for _, res := range parsed.Results {
		rec := dateideas.Recommendation{
			ItemID:      res.Item.ID,
			Name:        res.Item.Name,
			Description: res.Item.Description,
			Category:    res.Item.Category,
			Score:       res.Score,
		}
		if pr, ok := res.Item.Metadata["price_range"].(string); ok {
			rec.PriceRange = pr
		}
		out = append(out, rec)
	}
	return out, nil
}
