// Package jenkins provides a client for the Jenkins JSON API and console logs.
package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
)

// Client is a Jenkins API client. Paths passed to it are relative to the base
// URL and end with a slash, e.g. "job/node-test-commit/123/".
type Client struct {
	baseURL    string
	user       string
	token      string
	httpClient *http.Client
}

// NewClient creates a new Jenkins client. user and token are optional; when
// both are set requests use basic auth.
func NewClient(baseURL, user, token string) *Client {
	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = 60 * time.Second

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Client{
		baseURL:    baseURL,
		user:       user,
		token:      token,
		httpClient: httpClient,
	}
}

// BaseURL returns the Jenkins root URL, always ending in a slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// JSONURL returns the API URL for path restricted to tree.
func (c *Client) JSONURL(path, tree string) string {
	u := c.baseURL + strings.TrimPrefix(path, "/") + "api/json"
	if tree != "" {
		u += "?tree=" + url.QueryEscape(tree)
	}
	return u
}

// ConsoleURL returns the plain-text console URL for path.
func (c *Client) ConsoleURL(path string) string {
	return c.baseURL + strings.TrimPrefix(path, "/") + "consoleText"
}

// FetchJSON fetches the JSON API document for path and decodes it into out.
func (c *Client) FetchJSON(ctx context.Context, path, tree string, out any) error {
	resp, err := c.get(ctx, c.JSONURL(path, tree), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response for %s: %w", path, err)
	}
	return nil
}

// FetchText fetches the console output for path.
func (c *Client) FetchText(ctx context.Context, path string) (string, error) {
	resp, err := c.get(ctx, c.ConsoleURL(path), "text/plain")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read console output for %s: %w", path, err)
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, u, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	if c.user != "" && c.token != "" {
		req.SetBasicAuth(c.user, c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u)
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrAuthFailed, u)
	default:
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
}
