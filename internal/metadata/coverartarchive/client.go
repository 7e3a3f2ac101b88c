// Package coverartarchive provides a client for the Cover Art Archive,
// which serves artwork keyed by MusicBrainz release group IDs.
package coverartarchive

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://coverartarchive.org"

// Client provides access to the Cover Art Archive API.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

// NewClient creates a new Cover Art Archive client.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// The /front endpoint answers with a redirect to the image
			// host. We want the target URL, not the image bytes.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger:  logger,
		baseURL: defaultBaseURL,
	}
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

type imageInfo struct {
	Front bool   `json:"front"`
	Image string `json:"image"`
}

type releaseGroupImages struct {
	Images []imageInfo `json:"images"`
}

// FrontCoverURL returns the front cover image URL for a release group,
// or empty when the archive has no artwork for it.
func (c *Client) FrontCoverURL(ctx context.Context, releaseGroupID string) (string, error) {
	frontURL := fmt.Sprintf("%s/release-group/%s/front", c.baseURL, releaseGroupID)

	c.logger.Debug("querying Cover Art Archive", "release_group", releaseGroupID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, frontURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cover request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		if loc := resp.Header.Get("Location"); loc != "" {
			return loc, nil
		}
		return "", nil
	case resp.StatusCode == http.StatusOK:
		// Some mirrors serve the image directly instead of redirecting.
		return frontURL, nil
	case resp.StatusCode == http.StatusNotFound:
		return c.frontFromListing(ctx, releaseGroupID)
	default:
		return "", fmt.Errorf("cover lookup failed: status %d", resp.StatusCode)
	}
}

// frontFromListing falls back to the release group image listing and
// picks the image flagged as the front cover.
func (c *Client) frontFromListing(ctx context.Context, releaseGroupID string) (string, error) {
	listURL := fmt.Sprintf("%s/release-group/%s", c.baseURL, releaseGroupID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("listing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("listing failed: status %d", resp.StatusCode)
	}

	var listing releaseGroupImages
	if err := json.UnmarshalRead(resp.Body, &listing); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	for _, img := range listing.Images {
		if img.Front && img.Image != "" {
			return img.Image, nil
		}
	}
	return "", nil
}
