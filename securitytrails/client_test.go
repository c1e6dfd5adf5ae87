package securitytrails

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	c, err := New("test-key",
		WithBaseURL(baseURL),
		WithRetryWait(time.Millisecond, 5*time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New("")
	if err != ErrNoAPIKey {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestListSubdomains(t *testing.T) {
	var requests int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)

		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/domain/example.com/subdomains" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("APIKEY"); got != "test-key" {
			t.Errorf("expected APIKEY header to be set, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("unexpected Accept header %q", got)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"subdomains": []string{"www", "api", "mail"},
		})
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	labels, err := c.ListSubdomains(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("ListSubdomains failed: %v", err)
	}
	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d: %v", len(labels), labels)
	}
	if n := atomic.LoadInt32(&requests); n != 1 {
		t.Fatalf("expected 1 request, got %d", n)
	}
}

func TestListSubdomainsRetriesRateLimit(t *testing.T) {
	var requests int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"subdomains": []string{"www"},
		})
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	labels, err := c.ListSubdomains(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("expected success after one retry, got %v", err)
	}
	if len(labels) != 1 {
		t.Fatalf("expected 1 label, got %v", labels)
	}
	if n := atomic.LoadInt32(&requests); n != 2 {
		t.Fatalf("expected exactly 2 requests (one retry), got %d", n)
	}
}

func TestListSubdomainsRateLimitExhausted(t *testing.T) {
	var requests int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	_, err := c.ListSubdomains(context.Background(), "example.com")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !IsRateLimited(err) {
		t.Fatalf("expected a rate limited error, got %v", err)
	}
	if n := atomic.LoadInt32(&requests); n != MaxRetries+1 {
		t.Fatalf("expected %d requests, got %d", MaxRetries+1, n)
	}
}

func TestListSubdomainsUnauthorizedFailsFast(t *testing.T) {
	var requests int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid API key"})
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	_, err := c.ListSubdomains(context.Background(), "example.com")
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	if !IsRejected(err) {
		t.Fatalf("expected a rejected error, got %v", err)
	}
	if n := atomic.LoadInt32(&requests); n != 1 {
		t.Fatalf("expected no retries on 401, got %d requests", n)
	}
}

func TestSearchDomainsPassesCursor(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/domains/list" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}

		var body struct {
			Filter struct {
				ApexDomain string `json:"apex_domain"`
			} `json:"filter"`
			Limit    int    `json:"limit"`
			ScrollID string `json:"scroll_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("unable to decode request body: %v", err)
		}
		if body.Filter.ApexDomain != "example.com" {
			t.Errorf("unexpected apex_domain %q", body.Filter.ApexDomain)
		}
		if body.Limit != DefaultPageSize {
			t.Errorf("unexpected limit %d", body.Limit)
		}
		if body.ScrollID != "cursor-1" {
			t.Errorf("expected scroll_id to be echoed, got %q", body.ScrollID)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"records": []map[string]string{
				{"hostname": "www.example.com"},
				{"hostname": ""},
			},
			"meta": map[string]string{"scroll_id": "cursor-2"},
		})
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL)

	page, err := c.SearchDomains(context.Background(), "example.com", "cursor-1")
	if err != nil {
		t.Fatalf("SearchDomains failed: %v", err)
	}
	if len(page.Hostnames) != 1 || page.Hostnames[0] != "www.example.com" {
		t.Fatalf("unexpected hostnames %v", page.Hostnames)
	}
	if page.NextCursor != "cursor-2" {
		t.Fatalf("unexpected next cursor %q", page.NextCursor)
	}
}
