package moderation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config holds configuration for the HTTP moderation client
type Config struct {
	// Endpoint is the moderation API URL
	Endpoint string

	// APIKey authenticates requests to the moderation API
	APIKey string

	// HTTPClient is optional, a default with a 10s timeout is used if nil
	HTTPClient *http.Client
}

// httpClient implements the Client interface against a JSON-over-HTTP
// moderation API
type httpClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewHTTP creates a new HTTP-backed moderation client
func NewHTTP(cfg *Config) (*httpClient, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Endpoint == "" {
		return nil, errors.New("endpoint cannot be empty")
	}

	if cfg.APIKey == "" {
		return nil, errors.New("api key cannot be empty")
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &httpClient{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   client,
	}, nil
}

type checkRequest struct {
	Image string `json:"image"`
}

type checkResponse struct {
	Nudity   float64 `json:"nudity"`
	Violence float64 `json:"violence"`
}

// CheckImage submits the image to the moderation API and returns its scores
func (c *httpClient) CheckImage(ctx context.Context, image []byte) (*Verdict, error) {
	if len(image) == 0 {
		return nil, errors.New("image cannot be empty")
	}

	body, err := json.Marshal(&checkRequest{
		Image: base64.StdEncoding.EncodeToString(image),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal moderation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build moderation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("moderation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moderation service returned status %d", resp.StatusCode)
	}

	var decoded checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode moderation response: %w", err)
	}

	return &Verdict{
		Nudity:   decoded.Nudity,
		Violence: decoded.Violence,
	}, nil
}
