package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushestargate/stargate-server/internal/admincode"
	"github.com/sushestargate/stargate-server/internal/auth"
	"github.com/sushestargate/stargate-server/internal/backup"
	"github.com/sushestargate/stargate-server/internal/cache"
	"github.com/sushestargate/stargate-server/internal/metadata/musicbrainz"
	"github.com/sushestargate/stargate-server/internal/service"
	"github.com/sushestargate/stargate-server/internal/store"
)

// testEnvelope mirrors the wire envelope for decoding API responses in
// tests. Data is typed per call site.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// stubCatalog is a programmable ArtistSearcher.
type stubCatalog struct {
	artists []musicbrainz.Artist
	albums  []musicbrainz.ReleaseGroup
}

func (c *stubCatalog) SearchArtists(_ context.Context, _ string) ([]musicbrainz.Artist, error) {
	return c.artists, nil
}

func (c *stubCatalog) SearchAlbumsByArtist(_ context.Context, _ string) ([]musicbrainz.ReleaseGroup, error) {
	return c.albums, nil
}

func (c *stubCatalog) SearchAlbumsByQuery(_ context.Context, _ string) ([]musicbrainz.ReleaseGroup, error) {
	return c.albums, nil
}

// stubCoverProvider returns a fixed URL for every cover lookup.
type stubCoverProvider struct {
	url string
}

func (p *stubCoverProvider) SearchAlbumCover(_ context.Context, _, _ string) (string, error) {
	return p.url, nil
}

func (p *stubCoverProvider) SearchArtistImage(_ context.Context, _ string) (string, error) {
	return p.url, nil
}

// stubArchive never finds anything.
type stubArchive struct{}

func (stubArchive) FrontCoverURL(_ context.Context, _ string) (string, error) {
	return "", nil
}

// testServer wraps the API server with test helpers.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
	catalog      *stubCatalog
}

// setupTestServer builds a full server against a throwaway BadgerDB.
// The audit search index is left nil; search endpoints return empty
// results, which is the degraded-but-working path.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokenService, err := auth.NewTokenService(strings.Repeat("ab", 32), 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	activityService := service.NewActivityService(st, nil, 90*24*time.Hour, logger)
	t.Cleanup(activityService.Stop)

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, activityService, logger)

	catalog := &stubCatalog{}
	catalogService := service.NewCatalogService(catalog, activityService, logger)

	covers := &stubCoverProvider{url: "https://img.example/cover.jpg"}
	artworkService := service.NewArtworkService(
		covers, covers, covers, covers, stubArchive{},
		cache.New[string](50, time.Hour),
		cache.New[string](50, time.Hour),
		logger,
	)

	listService := service.NewListService(st, activityService, logger)
	importService := service.NewImportService(st, activityService, logger)

	adminService := service.NewAdminService(
		st, activityService,
		backup.NewService(st, t.TempDir(), logger),
		admincode.NewGenerator(),
		admincode.DefaultLifetime,
		logger,
	)
	t.Cleanup(adminService.Close)

	services := &Services{
		Auth:     authService,
		Session:  sessionService,
		Catalog:  catalogService,
		Artwork:  artworkService,
		List:     listService,
		Import:   importService,
		Activity: activityService,
		Admin:    adminService,
	}

	s := NewServer(st, services, logger)

	return &testServer{
		Server:       s,
		api:          humatest.Wrap(t, s.api),
		tokenService: tokenService,
		catalog:      catalog,
	}
}

// registerUser creates an account through the API and returns its
// access token and user ID. The first account on a fresh store is an
// admin, later ones are plain users.
func (ts *testServer) registerUser(t *testing.T, username string) (token string, userID string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": username,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, resp.Code, "Register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	claims, err := ts.tokenService.VerifyAccessToken(envelope.Data.AccessToken)
	require.NoError(t, err)

	return envelope.Data.AccessToken, claims.UserID
}

// === Tests ===

func TestHealthCheck_Healthy(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Status)
	assert.Contains(t, envelope.Data.Components, "database")
	assert.Contains(t, envelope.Data.Components, "search")
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/lists")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[any]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	assert.False(t, envelope.Success)
}

func TestMalformedBearerTokenRejected(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/lists", "Authorization: Bearer v4.local.garbage")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/lists", "Authorization: NotBearer abc")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
