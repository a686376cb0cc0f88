// Copyright 2026 The Fedpak Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fedpak-project/fedpak/lib/clock"
	"github.com/fedpak-project/fedpak/lib/netutil"
)

// githubAPIVersion is the GitHub REST API version header. Pinning the
// version ensures consistent behavior as GitHub evolves the API.
const githubAPIVersion = "2022-11-28"

// defaultBaseURL is the base URL for the public GitHub API.
const defaultBaseURL = "https://api.github.com"

// Config holds configuration for creating a GitHub API Client.
type Config struct {
	// BaseURL is the root URL for API requests. Defaults to
	// "https://api.github.com". Must use HTTPS.
	BaseURL string

	// Token is a personal access token or fine-grained token. Optional:
	// when empty, requests are made anonymously and GitHub applies its
	// unauthenticated rate limit of 60 requests per hour.
	Token string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock provides time operations. Defaults to clock.Real().
	// Inject clock.Fake() in tests for deterministic behavior.
	Clock clock.Clock

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a typed GitHub REST API client with automatic rate
// limiting, pagination, ETag caching, and structured error handling.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authHeader string // "Bearer <token>", or empty for anonymous requests
	rateLimit  *rateLimitTracker
	etagCache  *etagCache
	clock      clock.Clock
	logger     *slog.Logger
}

// NewClient creates a GitHub API client from the given configuration.
// Returns an error if the base URL is not HTTPS.
func NewClient(config Config) (*Client, error) {
	// Resolve defaults.
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	// Enforce HTTPS.
	if !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("github: API client requires HTTPS (got %q)", baseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authHeader := ""
	if config.Token != "" {
		authHeader = "Bearer " + config.Token
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		authHeader: authHeader,
		rateLimit:  newRateLimitTracker(clk),
		etagCache:  newETagCache(),
		clock:      clk,
		logger:     logger,
	}, nil
}

// ConditionalResponse is the result of a conditional GET.
type ConditionalResponse struct {
	// Body is the raw response body. Nil when NotModified is true.
	Body []byte

	// ETag is the entity tag of the current representation. On a 304
	// this is the tag the caller supplied.
	ETag string

	// NotModified reports that the server answered 304 for the
	// supplied entity tag: the caller's stored copy is still current.
	NotModified bool
}

// GetConditional executes a GET with a caller-supplied entity tag, for
// callers that persist response snapshots across processes (the
// in-process ETag cache cannot help them). Pass the tag from the last
// stored response, or empty for an unconditional fetch. Handles rate
// limit waiting and error parsing the same as every other request. On
// non-2xx responses returns an *APIError.
func (client *Client) GetConditional(ctx context.Context, path, etag string) (*ConditionalResponse, error) {
	return client.getConditional(ctx, path, etag, false)
}

// getConditional is the internal implementation of GetConditional with
// a retry flag to prevent infinite recursion on persistent rate
// limiting.
func (client *Client) getConditional(ctx context.Context, path, etag string, isRetry bool) (*ConditionalResponse, error) {
	url := client.baseURL + path
	response, err := client.doRaw(ctx, url, etag)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	// Rate limit tracker is already updated by doRaw.

	if response.StatusCode == http.StatusNotModified {
		return &ConditionalResponse{ETag: etag, NotModified: true}, nil
	}

	// Read response body.
	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("github: reading response body: %w", err)
	}

	// Handle non-2xx responses.
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		// Check for rate limit — attempt one retry after backoff.
		// Only retry once to avoid infinite loops on persistent rate limiting.
		if !isRetry && (response.StatusCode == 429 || (response.StatusCode == 403 && isRateLimitMessage(string(body)))) {
			retryDuration := client.rateLimit.retryAfter(response.Header)
			if retryDuration > 0 {
				client.logger.Info("rate limited, backing off",
					"duration", retryDuration,
					"path", path,
				)

				select {
				case <-client.clock.After(retryDuration):
				case <-ctx.Done():
					return nil, ctx.Err()
				}

				return client.getConditional(ctx, path, etag, true)
			}
		}

		return nil, parseAPIErrorFromBody(response.StatusCode, body)
	}

	return &ConditionalResponse{Body: body, ETag: response.Header.Get("ETag")}, nil
}

// do executes a GitHub API GET request with the in-process ETag cache.
// The path should be relative to the base URL (e.g.,
// "/repos/owner/repo/releases").
//
// Returns the response body as raw bytes. On non-2xx responses,
// returns an *APIError.
func (client *Client) do(ctx context.Context, path string) ([]byte, error) {
	url := client.baseURL + path
	conditional, err := client.GetConditional(ctx, path, client.etagCache.get(url))
	if err != nil {
		return nil, err
	}

	if conditional.NotModified {
		// The cache stores the entity tag and body together, so a 304
		// for a tag we sent always has a body to serve.
		return client.etagCache.body(url), nil
	}

	client.etagCache.put(url, conditional.ETag, conditional.Body)
	return conditional.Body, nil
}

// doRaw executes an HTTP GET with rate limit waiting and standard
// headers, but without response parsing. The etag, when non-empty, is
// sent as If-None-Match. Returns the raw *http.Response. The caller is
// responsible for closing the response body.
//
// This is used by getConditional (for standard requests) and
// PageIterator (which needs access to the Link header before parsing
// the body).
func (client *Client) doRaw(ctx context.Context, url, etag string) (*http.Response, error) {
	// Preemptive rate limit check.
	if err := client.rateLimit.wait(ctx); err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("github: creating request: %w", err)
	}

	if client.authHeader != "" {
		request.Header.Set("Authorization", client.authHeader)
	}

	// Standard GitHub headers.
	request.Header.Set("Accept", "application/vnd.github+json")
	request.Header.Set("X-GitHub-Api-Version", githubAPIVersion)

	if etag != "" {
		request.Header.Set("If-None-Match", etag)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("github: GET %s: %w", url, err)
	}

	// Update rate limit tracker from every response.
	client.rateLimit.update(response.Header)

	return response, nil
}

// get is a convenience method for GET requests that return a single JSON
// object. Decodes the response into result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	body, err := client.do(ctx, path)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, result)
}

// listOptions is implemented by option structs for paginated list
// endpoints. Provides the common query parameters (per_page) that
// GitHub list endpoints accept.
type listOptions interface {
	queryParams() string
}

// list creates a PageIterator for a paginated GET endpoint.
func list[T any](client *Client, path string) *PageIterator[T] {
	return &PageIterator[T]{
		client:  client,
		nextURL: client.baseURL + path,
	}
}

// buildListPath constructs a path with query parameters from list options.
// The basePath should not include a trailing "?" — this function appends
// the query string only if there are parameters.
func buildListPath(basePath string, options listOptions) string {
	query := options.queryParams()
	if query == "" {
		return basePath
	}
	return basePath + "?" + query
}

// parseAPIError reads a GitHub API error from an HTTP response.
func parseAPIError(response *http.Response) *APIError {
	body, _ := netutil.ReadResponse(response.Body)
	return parseAPIErrorFromBody(response.StatusCode, body)
}

// parseAPIErrorFromBody parses a GitHub API error from a status code
// and response body.
func parseAPIErrorFromBody(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var wireError struct {
		Message          string `json:"message"`
		DocumentationURL string `json:"documentation_url"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Message != "" {
		apiError.Message = wireError.Message
		apiError.DocumentationURL = wireError.DocumentationURL
	} else {
		apiError.Message = string(body)
	}

	return apiError
}
