package podio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"inmo-sync/internal/config"

	"go.uber.org/zap"
)

// Client is the REST client for the remote item store. Every call
// authenticates through the injected TokenCache; the client itself holds no
// mutable state beyond the HTTP transport.
type Client struct {
	baseURL    string
	tokens     *TokenCache
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, tokens *TokenCache, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// NewClientFromConfig wires the client and its token cache from the service
// configuration. This is the constructor the fx app and the batch binaries
// use.
func NewClientFromConfig(cfg *config.Config, logger *zap.Logger) *Client {
	apps := make(map[string]AppCredentials, len(cfg.PodioApps))
	for tenant, creds := range cfg.PodioApps {
		apps[tenant] = AppCredentials{AppID: creds.AppID, AppToken: creds.AppToken}
	}
	tokens := NewTokenCache(ClientCredentials{
		ClientID:     cfg.PodioClientID,
		ClientSecret: cfg.PodioClientSecret,
		TokenURL:     cfg.PodioTokenURL,
	}, apps, logger)
	return NewClient(cfg.PodioAPIURL, tokens, logger)
}

// Tokens exposes the underlying cache, mainly so callers can invalidate a
// tenant after an unauthorized response.
func (c *Client) Tokens() *TokenCache { return c.tokens }

// do issues one authenticated request. It never retries: the retry policy
// lives in the token cache only, and a failed store call is the caller's
// decision to count, skip or propagate.
func (c *Client) do(ctx context.Context, tenant, method, path string, body any, out any) error {
	token, err := c.tokens.Acquire(ctx, tenant)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "OAuth2 "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrRecordNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		c.tokens.Invalidate(tenant)
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decoding %s %s: %w", method, path, err)
		}
	}
	return nil
}
