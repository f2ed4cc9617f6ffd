package podio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// tokenSafetyMargin: a cached token is refreshed this long before its
	// declared expiry, so a call started near the boundary never goes out
	// with a token that dies in flight.
	tokenSafetyMargin = 30 * time.Second

	defaultTokenTTL = 3600 * time.Second

	maxTokenAttempts = 3
	tokenRetryBase   = 500 * time.Millisecond
)

// AppCredentials is the app_id/app_token pair of one Podio app.
type AppCredentials struct {
	AppID    string
	AppToken string
}

// ClientCredentials is the OAuth client shared by every tenant app.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
}

type tokenSlot struct {
	token     string
	expiresAt time.Time
}

// TokenCache holds one bearer token per tenant app, refreshing on miss or
// expiry. Slots are created lazily and live for the process lifetime. There
// are no package globals: the cache is constructed once and injected into
// everything that authenticates.
//
// Concurrent refreshes for the same tenant are not deduplicated; both do the
// exchange and the later store wins, which is duplicate work but not
// corruption. Tenants never block each other beyond the map lock.
type TokenCache struct {
	client ClientCredentials
	apps   map[string]AppCredentials

	mu    sync.Mutex
	slots map[string]*tokenSlot

	httpClient *http.Client
	logger     *zap.Logger

	// Injection points for tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// NewTokenCache builds a cache for the given OAuth client and tenant apps.
func NewTokenCache(client ClientCredentials, apps map[string]AppCredentials, logger *zap.Logger) *TokenCache {
	return &TokenCache{
		client:     client,
		apps:       apps,
		slots:      make(map[string]*tokenSlot),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// Acquire returns a valid bearer token for the tenant, from cache when
// possible. A terminal *AuthError means the caller must abort: retries have
// already happened here.
func (c *TokenCache) Acquire(ctx context.Context, tenant string) (string, error) {
	c.mu.Lock()
	slot, ok := c.slots[tenant]
	if !ok {
		slot = &tokenSlot{}
		c.slots[tenant] = slot
	}
	if slot.token != "" && c.now().Before(slot.expiresAt.Add(-tokenSafetyMargin)) {
		token := slot.token
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	creds, ok := c.apps[tenant]
	if !ok || creds.AppID == "" || creds.AppToken == "" {
		return "", &AuthError{Tenant: tenant, Err: errors.New("no app credentials configured")}
	}

	token, ttl, err := c.exchange(ctx, tenant, creds)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	slot.token = token
	slot.expiresAt = c.now().Add(ttl)
	c.mu.Unlock()

	return token, nil
}

// Invalidate drops the cached token for a tenant so the next Acquire
// refreshes. Used when the remote store rejects a request as unauthorized.
func (c *TokenCache) Invalidate(tenant string) {
	c.mu.Lock()
	if slot, ok := c.slots[tenant]; ok {
		slot.token = ""
	}
	c.mu.Unlock()
}

func (c *TokenCache) exchange(ctx context.Context, tenant string, creds AppCredentials) (string, time.Duration, error) {
	var lastErr error
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		token, ttl, err := c.requestToken(ctx, creds)
		if err == nil {
			return token, ttl, nil
		}
		lastErr = err

		if !isTransient(err) || attempt == maxTokenAttempts || ctx.Err() != nil {
			break
		}

		delay := tokenRetryBase*(1<<(attempt-1)) + time.Duration(rand.Int63n(int64(tokenRetryBase/2)))
		c.logger.Warn("token exchange failed, retrying",
			zap.String("tenant", tenant),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		c.sleep(delay)
	}
	return "", 0, &AuthError{Tenant: tenant, Err: lastErr}
}

func (c *TokenCache) requestToken(ctx context.Context, creds AppCredentials) (string, time.Duration, error) {
	form := url.Values{
		"grant_type":    {"app"},
		"client_id":     {c.client.ClientID},
		"client_secret": {c.client.ClientSecret},
		"app_id":        {creds.AppID},
		"app_token":     {creds.AppToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.client.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error            string `json:"error"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.Unmarshal(body, &apiErr)
		if apiErr.Error == "no_response" {
			return "", 0, &transientError{err: fmt.Errorf("token endpoint returned no_response (%d)", resp.StatusCode)}
		}
		return "", 0, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", 0, fmt.Errorf("decoding token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", 0, errors.New("token response without access_token")
	}

	ttl := defaultTokenTTL
	if payload.ExpiresIn > 0 {
		ttl = time.Duration(payload.ExpiresIn) * time.Second
	}
	return payload.AccessToken, ttl, nil
}

type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// isTransient classifies failures worth retrying: gateway/service
// unavailability, timeouts, connection resets, and the store's explicit
// no_response error. Bad credentials and malformed requests are not.
func isTransient(err error) bool {
	var te *transientError
	if errors.As(err, &te) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	if err != nil && strings.Contains(err.Error(), "connection reset") {
		return true
	}
	return false
}
