// Package release resolves "latest version" strings from the GitHub release
// API and downloads architecture-matched artifacts.
package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.github.com"

// Client queries release metadata for GitHub-hosted projects.
type Client struct {
	http    *http.Client
	apiBase string
}

// NewClient creates a release metadata client.
func NewClient() *Client {
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		apiBase: defaultAPIBase,
	}
}

// NewClientWithBase creates a client against a custom API base URL (for testing).
func NewClientWithBase(httpClient *http.Client, apiBase string) *Client {
	return &Client{http: httpClient, apiBase: apiBase}
}

// LatestTag returns the tag name of the latest release of owner/repo.
func (c *Client) LatestTag(ctx context.Context, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.apiBase, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query release API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("release API returned status %d for %s", resp.StatusCode, repo)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("failed to parse release metadata: %w", err)
	}
	if release.TagName == "" {
		return "", fmt.Errorf("release metadata for %s has no tag name", repo)
	}

	return release.TagName, nil
}
