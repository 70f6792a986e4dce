package router

import (
	"net/http"

	"github.com/conduit/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const sessionName = "conduit_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, sessionSecret string, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(handler.RequestID())
	r.Use(handler.Recovery(log))
	r.Use(handler.RequestLogger(log))

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	api := handler.NewAPI(gdb, log)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	routes := r.Group("/api")
	{
		routes.POST("/users/login", api.Login)
		routes.POST("/users/logout", api.Logout)

		routes.GET("/profiles/:username", api.GetProfile)
		routes.GET("/articles", api.ListArticles)
		routes.GET("/articles/:slug", api.GetArticle)
		routes.GET("/articles/:slug/comments", api.ListComments)
		routes.GET("/tags", api.GetTags)

		// 需要认证的路由
		auth := routes.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.POST("/profiles/:username/follow", api.FollowProfile)
			auth.DELETE("/profiles/:username/follow", api.UnfollowProfile)

			auth.GET("/articles/feed", api.FeedArticles)
			auth.POST("/articles", api.CreateArticle)
			auth.PUT("/articles/:slug", api.UpdateArticle)
			auth.DELETE("/articles/:slug", api.DeleteArticle)
			auth.PUT("/articles/:slug/publish", api.PublishArticle)
			auth.POST("/articles/:slug/favorite", api.FavoriteArticle)
			auth.DELETE("/articles/:slug/favorite", api.UnfavoriteArticle)
			auth.POST("/articles/:slug/comments", api.AddComment)
			auth.DELETE("/articles/:slug/comments/:id", api.DeleteComment)

			auth.GET("/drafts", api.ListDrafts)
			auth.POST("/drafts", api.CreateDraft)
			auth.GET("/drafts/:id", api.GetDraft)
			auth.PUT("/drafts/:id", api.UpdateDraft)
			auth.DELETE("/drafts/:id", api.DeleteDraft)
			auth.PUT("/drafts/:id/publish", api.PublishDraft)
		}
	}

	return r
}
