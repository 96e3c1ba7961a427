package api

import "Buildrs/internal/api/handler"

// HandlersGroup holds every initialized handler.
type HandlersGroup struct {
	AuthHandler        *handler.AuthHandler
	ProfileHandler     *handler.ProfileHandler
	BuildHandler       *handler.BuildHandler
	FollowHandler      *handler.FollowHandler
	LeaderboardHandler *handler.LeaderboardHandler
	MediaHandler       *handler.MediaHandler
}
