// Package deezer provides a client for the Deezer public search API,
// used for album covers and artist portraits.
package deezer

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.deezer.com"

// Client provides access to the Deezer search API.
// The public endpoints require no authentication.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
}

// NewClient creates a new Deezer client.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:  logger,
		baseURL: defaultBaseURL,
	}
}

// SetBaseURL overrides the API endpoint. Used in tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

type albumSearchResponse struct {
	Data []struct {
		Title    string `json:"title"`
		CoverXL  string `json:"cover_xl"`
		CoverBig string `json:"cover_big"`
		Artist   struct {
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"data"`
}

type artistSearchResponse struct {
	Data []struct {
		Name          string `json:"name"`
		PictureXL     string `json:"picture_xl"`
		PictureBig    string `json:"picture_big"`
		PictureMedium string `json:"picture_medium"`
	} `json:"data"`
}

// SearchAlbumCover returns a cover URL for the given artist and album,
// or empty when Deezer has no match. Prefers the XL rendition.
func (c *Client) SearchAlbumCover(ctx context.Context, artist, album string) (string, error) {
	q := fmt.Sprintf(`artist:"%s" album:"%s"`, artist, album)

	params := url.Values{}
	params.Set("q", q)
	params.Set("limit", "5")

	var searchResp albumSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search/album?"+params.Encode(), &searchResp); err != nil {
		return "", err
	}

	for _, a := range searchResp.Data {
		if a.CoverXL != "" {
			return a.CoverXL, nil
		}
		if a.CoverBig != "" {
			return a.CoverBig, nil
		}
	}
	return "", nil
}

// SearchArtistImage returns a portrait URL for the artist, or empty
// when Deezer has no match. Prefers the largest rendition.
func (c *Client) SearchArtistImage(ctx context.Context, artist string) (string, error) {
	params := url.Values{}
	params.Set("q", artist)
	params.Set("limit", "5")

	var searchResp artistSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/search/artist?"+params.Encode(), &searchResp); err != nil {
		return "", err
	}

	want := strings.TrimSpace(artist)
	for _, a := range searchResp.Data {
		if !strings.EqualFold(a.Name, want) {
			continue
		}
		for _, pic := range []string{a.PictureXL, a.PictureBig, a.PictureMedium} {
			if pic != "" {
				return pic, nil
			}
		}
	}

	// No exact name match; settle for the top hit's picture.
	for _, a := range searchResp.Data {
		for _, pic := range []string{a.PictureXL, a.PictureBig, a.PictureMedium} {
			if pic != "" {
				return pic, nil
			}
		}
	}
	return "", nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dest any) error {
	c.logger.Debug("querying Deezer", "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	if err := json.UnmarshalRead(resp.Body, dest); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
