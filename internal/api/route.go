package api

import (
	"Buildrs/internal/api/middleware"
	"Buildrs/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware("/api/auth/login", "/api/media/upload"))
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	r.GET("/ping", pong)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", pong)

		authGroup := apiGroup.Group("/auth")
		{
			authGroup.GET("/challenge", group.AuthHandler.Challenge)
			authGroup.POST("/login", group.AuthHandler.Login)

			loggedIn := authGroup.Group("")
			loggedIn.Use(middleware.AuthMiddleware())
			{
				loggedIn.POST("/logout", group.AuthHandler.Logout)
				loggedIn.GET("/me", group.AuthHandler.Me)
			}
		}

		profileGroup := apiGroup.Group("/profiles")
		{
			profileGroup.GET("/:address", group.ProfileHandler.GetProfile)
			profileGroup.GET("/:address/builds", group.ProfileHandler.GetProfileBuilds)
			profileGroup.GET("/username/:username", group.ProfileHandler.GetProfileByUsername)
		}

		selfGroup := apiGroup.Group("/profile")
		selfGroup.Use(middleware.AuthMiddleware())
		{
			selfGroup.PUT("", group.ProfileHandler.UpdateProfile)
			selfGroup.POST("/onboarding", group.ProfileHandler.CompleteOnboarding)
		}

		buildGroup := apiGroup.Group("/builds")
		{
			buildGroup.GET("", group.BuildHandler.ListBuilds)
			buildGroup.GET("/:id", group.BuildHandler.GetBuild)
			buildGroup.GET("/:id/comments", group.BuildHandler.ListComments)

			optGroup := buildGroup.Group("")
			optGroup.Use(middleware.AuthOptionalMiddleware())
			{
				optGroup.GET("/:id/vote", group.BuildHandler.GetVoteState)
			}

			authBuildGroup := buildGroup.Group("")
			authBuildGroup.Use(middleware.AuthMiddleware())
			{
				authBuildGroup.POST("", group.BuildHandler.CreateBuild)
				authBuildGroup.POST("/:id/vote", group.BuildHandler.Vote)
				authBuildGroup.POST("/:id/comments", group.BuildHandler.CreateComment)
			}
		}

		followGroup := apiGroup.Group("/follows")
		{
			followGroup.GET("/:address/followers", group.FollowHandler.ListFollowers)
			followGroup.GET("/:address/following", group.FollowHandler.ListFollowing)

			authFollowGroup := followGroup.Group("")
			authFollowGroup.Use(middleware.AuthMiddleware())
			{
				authFollowGroup.GET("/:address", group.FollowHandler.IsFollowing)
				authFollowGroup.POST("/:address", group.FollowHandler.Follow)
				authFollowGroup.DELETE("/:address", group.FollowHandler.Unfollow)
			}
		}

		leaderboardGroup := apiGroup.Group("/leaderboard")
		{
			leaderboardGroup.GET("", group.LeaderboardHandler.GetLeaderboard)
			leaderboardGroup.GET("/stats", group.LeaderboardHandler.GetStats)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(middleware.AuthMiddleware())
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
		}
	}

	return r
}

func pong(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "pong",
		"data":    nil,
	})
}
