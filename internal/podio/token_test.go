package podio

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestCache(tokenURL string) *TokenCache {
	cache := NewTokenCache(
		ClientCredentials{ClientID: "cid", ClientSecret: "secret", TokenURL: tokenURL},
		map[string]AppCredentials{
			"leads": {AppID: "111", AppToken: "tok-leads"},
		},
		zap.NewNop(),
	)
	cache.sleep = func(time.Duration) {}
	return cache
}

func TestAcquireCachesToken(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		if got := r.FormValue("grant_type"); got != "app" {
			t.Errorf("grant_type = %q, want %q", got, "app")
		}
		if got := r.FormValue("app_id"); got != "111" {
			t.Errorf("app_id = %q, want %q", got, "111")
		}
		fmt.Fprintf(w, `{"access_token":"abc","expires_in":3600}`)
	}))
	defer srv.Close()

	cache := newTestCache(srv.URL)

	for i := 0; i < 3; i++ {
		token, err := cache.Acquire(context.Background(), "leads")
		if err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
		if token != "abc" {
			t.Errorf("Acquire() = %q, want %q", token, "abc")
		}
	}

	if calls != 1 {
		t.Errorf("token endpoint called %d times, want 1", calls)
	}
}

func TestAcquireRefreshesInsideSafetyMargin(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `{"access_token":"tok%d","expires_in":60}`, calls)
	}))
	defer srv.Close()

	cache := newTestCache(srv.URL)

	base := time.Now()
	cache.now = func() time.Time { return base }

	if _, err := cache.Acquire(context.Background(), "leads"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	// 35s into a 60s TTL: inside the 30s refresh margin.
	cache.now = func() time.Time { return base.Add(35 * time.Second) }

	token, err := cache.Acquire(context.Background(), "leads")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if token != "tok2" {
		t.Errorf("Acquire() = %q, want refreshed %q", token, "tok2")
	}
	if calls != 2 {
		t.Errorf("token endpoint called %d times, want 2", calls)
	}
}

func TestAcquireRetriesTransientFailures(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintf(w, `{"access_token":"abc","expires_in":3600}`)
	}))
	defer srv.Close()

	cache := newTestCache(srv.URL)

	var delays []time.Duration
	cache.sleep = func(d time.Duration) { delays = append(delays, d) }

	token, err := cache.Acquire(context.Background(), "leads")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if token != "abc" {
		t.Errorf("Acquire() = %q, want %q", token, "abc")
	}
	if calls != 3 {
		t.Errorf("token endpoint called %d times, want 3", calls)
	}

	if len(delays) != 2 {
		t.Fatalf("slept %d times, want 2", len(delays))
	}
	// Exponential base with jitter: 500ms(+j), then 1000ms(+j).
	if delays[0] < 500*time.Millisecond || delays[0] >= 750*time.Millisecond {
		t.Errorf("first delay = %v, want in [500ms, 750ms)", delays[0])
	}
	if delays[1] < 1000*time.Millisecond || delays[1] >= 1250*time.Millisecond {
		t.Errorf("second delay = %v, want in [1s, 1.25s)", delays[1])
	}
}

func TestAcquireGivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cache := newTestCache(srv.URL)

	_, err := cache.Acquire(context.Background(), "leads")
	if err == nil {
		t.Fatal("Acquire() error = nil, want terminal auth error")
	}
	if !IsAuthError(err) {
		t.Errorf("IsAuthError(%v) = false, want true", err)
	}
	if calls != maxTokenAttempts {
		t.Errorf("token endpoint called %d times, want %d", calls, maxTokenAttempts)
	}
}

func TestAcquireDoesNotRetryBadCredentials(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprintf(w, `{"error":"invalid_client"}`)
	}))
	defer srv.Close()

	cache := newTestCache(srv.URL)

	_, err := cache.Acquire(context.Background(), "leads")
	if err == nil {
		t.Fatal("Acquire() error = nil, want auth error")
	}
	if calls != 1 {
		t.Errorf("token endpoint called %d times, want 1 (no retry on 401)", calls)
	}
}

func TestAcquireRetriesNoResponseErrorCode(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"error":"no_response"}`)
			return
		}
		fmt.Fprintf(w, `{"access_token":"abc","expires_in":3600}`)
	}))
	defer srv.Close()

	cache := newTestCache(srv.URL)

	token, err := cache.Acquire(context.Background(), "leads")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if token != "abc" {
		t.Errorf("Acquire() = %q, want %q", token, "abc")
	}
	if calls != 2 {
		t.Errorf("token endpoint called %d times, want 2", calls)
	}
}

func TestAcquireUnknownTenant(t *testing.T) {
	cache := newTestCache("http://invalid.localhost")

	_, err := cache.Acquire(context.Background(), "nope")
	if err == nil {
		t.Fatal("Acquire() error = nil, want error for unconfigured tenant")
	}
	if !IsAuthError(err) {
		t.Errorf("IsAuthError(%v) = false, want true", err)
	}
}

func TestInvalidateForcesRefresh(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprintf(w, `{"access_token":"tok%d","expires_in":3600}`, calls)
	}))
	defer srv.Close()

	cache := newTestCache(srv.URL)

	if _, err := cache.Acquire(context.Background(), "leads"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	cache.Invalidate("leads")

	token, err := cache.Acquire(context.Background(), "leads")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if token != "tok2" {
		t.Errorf("Acquire() after Invalidate = %q, want %q", token, "tok2")
	}
}
