package router

import (
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/user/siamlacorns/internal/handler"
	"github.com/user/siamlacorns/internal/middleware"
	"github.com/user/siamlacorns/internal/model"
	"github.com/user/siamlacorns/internal/token"
)

// Setup 组装全部路由
func Setup(h *handler.Handler, codec *token.Codec, userFinder middleware.UserFinder, avatarDir, avatarURLBase string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.Authenticate(codec, userFinder))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 头像静态文件
	r.Static(avatarURLBase, avatarDir)

	api := r.Group("/api")
	{
		api.POST("/auth/login", h.Login)
		api.POST("/users/register", h.Register)

		users := api.Group("/users")
		{
			users.GET("/me", middleware.RequireAuth(), h.Me)
			users.GET("", middleware.RequireRole(model.RoleAdmin), h.ListUsers)
			users.GET("/:id", h.GetUser)
			users.GET("/username/:username", h.GetUserByUsername)
			users.PUT("/:id", middleware.RequireAuth(), h.UpdateUser)
			users.DELETE("/:id", middleware.RequireAuth(), h.DeleteUser)
			users.POST("/avatar", middleware.RequireAuth(), h.UploadAvatar)

			// 收藏夹挂在用户路径下，只允许本人读写
			collections := users.Group("/:id/user-collections", middleware.RequireAuth())
			{
				collections.GET("", h.ListCollections)
				collections.GET("/:name", h.GetCollection)
				collections.POST("/:name/series/:lacornId", h.AddToCollection)
				collections.DELETE("/:name/series/:lacornId", h.RemoveFromCollection)
			}
		}

		lacorns := api.Group("/lacorns")
		{
			lacorns.GET("", h.ListLacorns)
			lacorns.GET("/search", h.SearchLacorns)
			lacorns.GET("/top", h.TopLacorns)
			lacorns.GET("/genre/:genre", h.LacornsByGenre)
			lacorns.GET("/:id", h.GetLacorn)
			lacorns.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateLacorn)
			lacorns.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateLacorn)
			lacorns.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteLacorn)

			lacorns.GET("/:id/episodes", h.ListEpisodes)
			lacorns.POST("/:id/episodes", middleware.RequireRole(model.RoleAdmin), h.AddEpisode)

			lacorns.GET("/:id/actors", h.LacornActors)
			lacorns.POST("/:id/actors/:actorId", middleware.RequireRole(model.RoleAdmin), h.AddLacornActor)
			lacorns.DELETE("/:id/actors/:actorId", middleware.RequireRole(model.RoleAdmin), h.RemoveLacornActor)

			lacorns.POST("/watch", middleware.RequireAuth(), h.RecordProgress)
			lacorns.GET("/:id/progress", middleware.RequireAuth(), h.GetProgress)
			lacorns.GET("/watch/history", middleware.RequireAuth(), h.WatchHistory)
			lacorns.GET("/watch/in-progress", middleware.RequireAuth(), h.WatchInProgress)

			episodes := lacorns.Group("/episodes")
			{
				episodes.GET("/:episodeId", h.GetEpisode)
				episodes.GET("/:episodeId/video", h.EpisodeVideoURL)
				episodes.GET("/:episodeId/voiceovers", h.EpisodeVoiceovers)
				episodes.POST("/:episodeId/voiceovers", middleware.RequireRole(model.RoleAdmin), h.AddEpisodeVoiceover)
				episodes.PUT("/:episodeId", middleware.RequireRole(model.RoleAdmin), h.UpdateEpisode)
				episodes.DELETE("/:episodeId", middleware.RequireRole(model.RoleAdmin), h.DeleteEpisode)
			}
		}

		actors := api.Group("/actors")
		{
			actors.GET("", h.ListActors)
			actors.GET("/:id", h.GetActor)
			actors.POST("", middleware.RequireRole(model.RoleAdmin), h.CreateActor)
			actors.PUT("/:id", middleware.RequireRole(model.RoleAdmin), h.UpdateActor)
			actors.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteActor)
		}

		tmdb := api.Group("/tmdb", middleware.RequireRole(model.RoleAdmin))
		{
			tmdb.GET("/search", h.TMDBSearch)
			tmdb.GET("/details/:tmdbId", h.TMDBDetails)
			tmdb.POST("/import", h.TMDBImport)
			tmdb.POST("/auto-import", h.TMDBAutoImport)
		}
	}

	return r
}
