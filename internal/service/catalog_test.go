package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushestargate/stargate-server/internal/domain"
	"github.com/sushestargate/stargate-server/internal/metadata/musicbrainz"
)

type fakeCatalog struct {
	artists []musicbrainz.Artist
	albums  []musicbrainz.ReleaseGroup
	err     error
}

func (f *fakeCatalog) SearchArtists(ctx context.Context, name string) ([]musicbrainz.Artist, error) {
	return f.artists, f.err
}

func (f *fakeCatalog) SearchAlbumsByArtist(ctx context.Context, artistID string) ([]musicbrainz.ReleaseGroup, error) {
	return f.albums, f.err
}

func (f *fakeCatalog) SearchAlbumsByQuery(ctx context.Context, text string) ([]musicbrainz.ReleaseGroup, error) {
	return f.albums, f.err
}

func TestSearchArtists_RecordsSearch(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", domain.RoleUser)
	catalog := &fakeCatalog{artists: []musicbrainz.Artist{{ID: "mb-1", Name: "Opeth"}}}
	svc := NewCatalogService(catalog, env.activity, env.logger)
	ctx := context.Background()

	artists, err := svc.SearchArtists(ctx, user.ID, "opeth")
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, "Opeth", artists[0].Name)

	env.activity.Stop()
	records, err := env.store.ListUserActivities(ctx, user.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.ActionSearch, records[0].Action)
	assert.Equal(t, "opeth", records[0].Details["query"])
}

func TestSearchArtists_EmptyQuery(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(&fakeCatalog{}, env.activity, env.logger)

	_, err := svc.SearchArtists(context.Background(), "u1", "   ")
	require.Error(t, err)
}

func TestSearchArtists_UpstreamFailureYieldsEmpty(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCatalogService(&fakeCatalog{err: errors.New("503")}, env.activity, env.logger)

	artists, err := svc.SearchArtists(context.Background(), "u1", "opeth")
	require.NoError(t, err)
	assert.Empty(t, artists)
}

func TestAlbumsByArtist(t *testing.T) {
	env := newTestEnv(t)
	catalog := &fakeCatalog{albums: []musicbrainz.ReleaseGroup{{ID: "rg-1", Title: "Damnation"}}}
	svc := NewCatalogService(catalog, env.activity, env.logger)

	albums, err := svc.AlbumsByArtist(context.Background(), "u1", "mb-1")
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, "Damnation", albums[0].Title)

	_, err = svc.AlbumsByArtist(context.Background(), "u1", "")
	require.Error(t, err)
}

func TestSearchAlbums(t *testing.T) {
	env := newTestEnv(t)
	catalog := &fakeCatalog{albums: []musicbrainz.ReleaseGroup{{ID: "rg-1", Title: "Damnation"}}}
	svc := NewCatalogService(catalog, env.activity, env.logger)

	albums, err := svc.SearchAlbums(context.Background(), "u1", "damnation")
	require.NoError(t, err)
	assert.Len(t, albums, 1)
}
