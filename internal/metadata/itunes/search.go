package itunes

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

const defaultLimit = 10

// CoverSize is the artwork size requested from iTunes.
// iTunes serves the largest available size up to this.
const CoverSize = "600x600bb.jpg"

// sizePattern matches iTunes artwork size patterns like "100x100bb.jpg"
var sizePattern = regexp.MustCompile(`/\d+x\d+bb\.jpg$`)

// UpscaleArtworkURL transforms an iTunes artwork URL to request a
// higher resolution than the 100x100 thumbnail the search API returns.
func UpscaleArtworkURL(artworkURL string) string {
	if artworkURL == "" {
		return ""
	}
	return sizePattern.ReplaceAllString(artworkURL, "/"+CoverSize)
}

// SearchAlbumCover returns an artwork URL for the given artist and
// album, or empty when iTunes has no match.
func (c *Client) SearchAlbumCover(ctx context.Context, artist, album string) (string, error) {
	term := strings.TrimSpace(artist + " " + album)
	results, err := c.search(ctx, term, "album")
	if err != nil {
		return "", err
	}

	for i := range results {
		r := &results[i]
		if r.WrapperType != "collection" && r.CollectionType != "Album" {
			continue
		}

		artworkURL := r.ArtworkURL100
		if artworkURL == "" {
			artworkURL = r.ArtworkURL60
		}
		if artworkURL != "" {
			return UpscaleArtworkURL(artworkURL), nil
		}
	}

	return "", nil
}

// SearchArtistImage returns artwork associated with the artist's
// catalog, or empty when nothing matches. iTunes has no portrait
// endpoint, so the best available album artwork stands in.
func (c *Client) SearchArtistImage(ctx context.Context, artist string) (string, error) {
	results, err := c.search(ctx, strings.TrimSpace(artist), "album")
	if err != nil {
		return "", err
	}

	for i := range results {
		r := &results[i]
		if !strings.EqualFold(r.ArtistName, strings.TrimSpace(artist)) {
			continue
		}
		if r.ArtworkURL100 != "" {
			return UpscaleArtworkURL(r.ArtworkURL100), nil
		}
	}

	return "", nil
}

func (c *Client) search(ctx context.Context, term, entity string) ([]searchResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("term", term)
	params.Set("media", "music")
	params.Set("entity", entity)
	params.Set("limit", fmt.Sprintf("%d", defaultLimit))

	searchURL := c.baseURL + "?" + params.Encode()

	c.logger.Debug("searching iTunes",
		"term", term,
		"entity", entity,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("iTunes search results",
		"term", term,
		"count", searchResp.ResultCount,
	)

	return searchResp.Results, nil
}
