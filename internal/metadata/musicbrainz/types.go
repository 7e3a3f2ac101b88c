package musicbrainz

// Artist is one artist search match.
type Artist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Disambiguation string `json:"disambiguation,omitempty"`
	Country        string `json:"country,omitempty"`
	Score          int    `json:"score,omitempty"`
}

// ReleaseGroup is one album-level release record.
type ReleaseGroup struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	PrimaryType      string `json:"primary_type,omitempty"`
	FirstReleaseDate string `json:"first_release_date,omitempty"`
	ArtistName       string `json:"artist_name,omitempty"`
	ArtistID         string `json:"artist_id,omitempty"`
}

// Wire shapes of the MusicBrainz JSON responses.

type artistSearchResponse struct {
	Artists []wireArtist `json:"artists"`
}

type wireArtist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Disambiguation string `json:"disambiguation"`
	Country        string `json:"country"`
	Score          int    `json:"score"`
}

type releaseGroupSearchResponse struct {
	ReleaseGroups []wireReleaseGroup `json:"release-groups"`
}

type wireReleaseGroup struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	PrimaryType      string           `json:"primary-type"`
	SecondaryTypes   []string         `json:"secondary-types"`
	FirstReleaseDate string           `json:"first-release-date"`
	ArtistCredit     []wireArtistTerm `json:"artist-credit"`
}

type wireArtistTerm struct {
	Name   string     `json:"name"`
	Artist wireArtist `json:"artist"`
}
