// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/fedpak-project/fedpak/lib/clock"
)

// newTestClient creates a Client backed by the given httptest.Server.
// Uses token auth so tests can assert the Authorization header.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
		Clock:      clock.Real(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_HTTPSEnforcement(t *testing.T) {
	_, err := NewClient(Config{
		BaseURL: "http://api.github.com",
		Token:   "test",
	})
	if err == nil {
		t.Fatal("expected error for HTTP URL")
	}
	if got := err.Error(); got != `github: API client requires HTTPS (got "http://api.github.com")` {
		t.Errorf("unexpected error: %s", got)
	}
}

func TestNewClient_AnonymousAllowed(t *testing.T) {
	client, err := NewClient(Config{
		BaseURL: "https://api.github.com",
	})
	if err != nil {
		t.Fatalf("NewClient without token: %v", err)
	}
	if client.authHeader != "" {
		t.Errorf("authHeader = %q, want empty for anonymous client", client.authHeader)
	}
}

func TestClient_AuthHeaderInjection(t *testing.T) {
	var receivedAuth string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedAuth = request.Header.Get("Authorization")
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"tag_name":"GE-Proton10-1"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GetReleaseByTag(context.Background(), "owner", "repo", "GE-Proton10-1")
	if err != nil {
		t.Fatalf("GetReleaseByTag: %v", err)
	}

	if receivedAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q, want %q", receivedAuth, "Bearer test-token")
	}
}

func TestClient_AnonymousOmitsAuthHeader(t *testing.T) {
	authPresent := false
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, authPresent = request.Header["Authorization"]
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"tag_name":"GE-Proton10-1"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.GetReleaseByTag(context.Background(), "owner", "repo", "GE-Proton10-1"); err != nil {
		t.Fatalf("GetReleaseByTag: %v", err)
	}
	if authPresent {
		t.Error("anonymous client sent an Authorization header")
	}
}

func TestClient_GitHubHeaders(t *testing.T) {
	var receivedAccept, receivedVersion string
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		receivedAccept = request.Header.Get("Accept")
		receivedVersion = request.Header.Get("X-GitHub-Api-Version")
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"tag_name":"GE-Proton10-1"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GetReleaseByTag(context.Background(), "owner", "repo", "GE-Proton10-1")
	if err != nil {
		t.Fatalf("GetReleaseByTag: %v", err)
	}

	if receivedAccept != "application/vnd.github+json" {
		t.Errorf("Accept = %q, want %q", receivedAccept, "application/vnd.github+json")
	}
	if receivedVersion != "2022-11-28" {
		t.Errorf("X-GitHub-Api-Version = %q, want %q", receivedVersion, "2022-11-28")
	}
}

func TestClient_RateLimitBackoff(t *testing.T) {
	fakeClock := clock.Fake(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	requestCount := 0
	resetTime := fakeClock.Now().Add(30 * time.Second)

	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestCount++
		if requestCount == 1 {
			// First request: rate limited.
			writer.Header().Set("X-RateLimit-Remaining", "0")
			writer.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))
			writer.Header().Set("Retry-After", "30")
			writer.WriteHeader(http.StatusForbidden)
			json.NewEncoder(writer).Encode(map[string]string{
				"message": "API rate limit exceeded",
			})
			return
		}
		// Second request: success.
		writer.Header().Set("X-RateLimit-Remaining", "4999")
		writer.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Add(1*time.Hour).Unix(), 10))
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"tag_name":"GE-Proton10-4","name":"GE-Proton10-4"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{
		BaseURL:    server.URL,
		Token:      "test-token",
		HTTPClient: server.Client(),
		Clock:      fakeClock,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	// Start the request in a goroutine since it will block on rate limit.
	done := make(chan error, 1)
	var release *Release
	go func() {
		var requestErr error
		release, requestErr = client.GetReleaseByTag(context.Background(), "owner", "repo", "GE-Proton10-4")
		done <- requestErr
	}()

	// Wait for the goroutine to register a timer (the rate limit backoff
	// calls clock.After), then advance past the retry-after duration.
	fakeClock.WaitForTimers(1)
	fakeClock.Advance(31 * time.Second)

	if err := <-done; err != nil {
		t.Fatalf("GetReleaseByTag: %v", err)
	}

	if requestCount != 2 {
		t.Errorf("expected 2 requests (rate limited + retry), got %d", requestCount)
	}
	if release == nil || release.TagName != "GE-Proton10-4" {
		t.Errorf("expected release GE-Proton10-4, got %+v", release)
	}
}

func TestClient_ETagCaching(t *testing.T) {
	requestCount := 0
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		requestCount++
		ifNoneMatch := request.Header.Get("If-None-Match")

		if ifNoneMatch == `"etag-123"` {
			// Second request with matching ETag: return 304.
			writer.WriteHeader(http.StatusNotModified)
			return
		}

		// First request: return data with ETag.
		writer.Header().Set("ETag", `"etag-123"`)
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"tag_name":"GE-Proton9-27","body":"Cached notes"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx := context.Background()

	// First request — should get the full response.
	release1, err := client.GetReleaseByTag(ctx, "owner", "repo", "GE-Proton9-27")
	if err != nil {
		t.Fatalf("first GetReleaseByTag: %v", err)
	}
	if release1.Body != "Cached notes" {
		t.Errorf("first release body = %q, want %q", release1.Body, "Cached notes")
	}

	// Second request — should get 304 and use cached response.
	release2, err := client.GetReleaseByTag(ctx, "owner", "repo", "GE-Proton9-27")
	if err != nil {
		t.Fatalf("second GetReleaseByTag: %v", err)
	}
	if release2.Body != "Cached notes" {
		t.Errorf("second release body = %q, want %q", release2.Body, "Cached notes")
	}

	if requestCount != 2 {
		t.Errorf("expected 2 HTTP requests, got %d", requestCount)
	}
}

func TestClient_GetConditional(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("If-None-Match") == `"snapshot-etag"` {
			writer.WriteHeader(http.StatusNotModified)
			return
		}
		writer.Header().Set("ETag", `"snapshot-etag"`)
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`[{"tag_name":"GE-Proton10-4"}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx := context.Background()

	// Unconditional fetch: full body plus the server's entity tag.
	first, err := client.GetConditional(ctx, "/repos/owner/repo/releases", "")
	if err != nil {
		t.Fatalf("first GetConditional: %v", err)
	}
	if first.NotModified {
		t.Error("unconditional fetch reported NotModified")
	}
	if first.ETag != `"snapshot-etag"` {
		t.Errorf("ETag = %q, want %q", first.ETag, `"snapshot-etag"`)
	}
	if len(first.Body) == 0 {
		t.Error("expected a response body")
	}

	// Revalidation with the stored tag: 304, no body.
	second, err := client.GetConditional(ctx, "/repos/owner/repo/releases", first.ETag)
	if err != nil {
		t.Fatalf("second GetConditional: %v", err)
	}
	if !second.NotModified {
		t.Error("expected NotModified for matching entity tag")
	}
	if second.ETag != first.ETag {
		t.Errorf("304 ETag = %q, want %q", second.ETag, first.ETag)
	}
	if second.Body != nil {
		t.Errorf("304 carried a body: %q", second.Body)
	}
}

func TestClient_ErrorParsing(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		json.NewEncoder(writer).Encode(map[string]any{
			"message":           "Not Found",
			"documentation_url": "https://docs.github.com/rest",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GetReleaseByTag(context.Background(), "owner", "repo", "no-such-tag")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !IsNotFound(err) {
		t.Errorf("expected IsNotFound, got: %v", err)
	}
}
