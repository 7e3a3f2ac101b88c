package musicbrainz

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

const searchLimit = 100

// SearchArtists searches for artists matching the given name.
func (c *Client) SearchArtists(ctx context.Context, name string) ([]Artist, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("query", name)
	params.Set("fmt", "json")
	params.Set("limit", fmt.Sprintf("%d", searchLimit))

	searchURL := c.baseURL + "/artist?" + params.Encode()

	c.logger.Debug("searching MusicBrainz artists",
		"query", name,
	)

	resp, err := c.do(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("artist search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artist search failed: status %d", resp.StatusCode)
	}

	var searchResp artistSearchResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	artists := make([]Artist, 0, len(searchResp.Artists))
	for _, a := range searchResp.Artists {
		artists = append(artists, Artist{
			ID:             a.ID,
			Name:           a.Name,
			Disambiguation: a.Disambiguation,
			Country:        a.Country,
			Score:          a.Score,
		})
	}

	return artists, nil
}

// SearchAlbumsByArtist returns the artist's studio albums and EPs,
// ordered ascending by first release date. Release groups carrying
// secondary types (live, compilation, remix and so on) are excluded.
// Records without a release date sort last.
func (c *Client) SearchAlbumsByArtist(ctx context.Context, artistID string) ([]ReleaseGroup, error) {
	query := fmt.Sprintf("arid:%s AND primarytype:album", artistID)

	groups, err := c.searchReleaseGroups(ctx, query, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(groups, func(a, b ReleaseGroup) int {
		return strings.Compare(sortDate(a.FirstReleaseDate), sortDate(b.FirstReleaseDate))
	})

	return groups, nil
}

// SearchAlbumsByQuery searches release groups by free text, keeping the
// provider's native relevance order. Live albums, compilations and other
// secondary-typed groups stay in: someone typing an exact title wants
// that record even when it isn't a plain studio album.
func (c *Client) SearchAlbumsByQuery(ctx context.Context, text string) ([]ReleaseGroup, error) {
	return c.searchReleaseGroups(ctx, text, true)
}

func (c *Client) searchReleaseGroups(ctx context.Context, query string, keepSecondary bool) ([]ReleaseGroup, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("fmt", "json")
	params.Set("limit", fmt.Sprintf("%d", searchLimit))

	searchURL := c.baseURL + "/release-group?" + params.Encode()

	c.logger.Debug("searching MusicBrainz release groups",
		"query", query,
	)

	resp, err := c.do(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("release group search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release group search failed: status %d", resp.StatusCode)
	}

	var searchResp releaseGroupSearchResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	groups := make([]ReleaseGroup, 0, len(searchResp.ReleaseGroups))
	for _, rg := range searchResp.ReleaseGroups {
		if !includeReleaseGroup(rg, keepSecondary) {
			continue
		}

		group := ReleaseGroup{
			ID:               rg.ID,
			Title:            rg.Title,
			PrimaryType:      rg.PrimaryType,
			FirstReleaseDate: rg.FirstReleaseDate,
		}
		if len(rg.ArtistCredit) > 0 {
			group.ArtistName = rg.ArtistCredit[0].Name
			group.ArtistID = rg.ArtistCredit[0].Artist.ID
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// includeReleaseGroup keeps albums and EPs. Secondary-typed groups
// (live, compilation, remix) are excluded unless keepSecondary is set.
func includeReleaseGroup(rg wireReleaseGroup, keepSecondary bool) bool {
	if !keepSecondary && len(rg.SecondaryTypes) > 0 {
		return false
	}
	switch rg.PrimaryType {
	case "Album", "EP":
		return true
	}
	return false
}

// sortDate makes missing release dates sort after every real date.
func sortDate(d string) string {
	if d == "" {
		return "9999"
	}
	return d
}
