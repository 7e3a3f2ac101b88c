package api

import (
	"github.com/sushestargate/stargate-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth     *service.AuthService
	Session  *service.SessionService
	Catalog  *service.CatalogService
	Artwork  *service.ArtworkService
	List     *service.ListService
	Import   *service.ImportService
	Activity *service.ActivityService
	Admin    *service.AdminService
}
