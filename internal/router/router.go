package router

import (
	"net/http"
	"time"

	"lifora/internal/handlers"
	"lifora/internal/middleware"
	"lifora/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Comments *services.CommentService
	Auth     *services.AuthService
	Tokens   *services.TokenIssuer

	// Limiter may be nil, which disables rate limiting.
	Limiter     middleware.Limiter
	CommentRate int64
	RateWindow  time.Duration
}

// RegisterRoutes expects the sessions middleware to be installed on r already.
func RegisterRoutes(r *gin.Engine, d Deps) {
	commentHandler := handlers.NewCommentHandler(d.Comments)
	authHandler := handlers.NewAuthHandler(d.Auth)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(middleware.LoadUser(d.Tokens))

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register) // 注册
		auth.POST("/login", authHandler.Login)       // 登录
		auth.POST("/logout", authHandler.Logout)     // 退出登录

		auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		auth.PATCH("/me", middleware.AuthRequired(), authHandler.UpdateProfile)
	}

	// :id is a post id on the read routes and a comment id on the write routes
	comments := api.Group("/comments")
	comments.Use(middleware.AuthRequired())
	{
		comments.POST("/", middleware.RateLimit(d.Limiter, "comment", d.CommentRate, d.RateWindow), commentHandler.Create)
		comments.GET("/:id", commentHandler.List)
		comments.GET("/:id/count", commentHandler.Count)
		comments.DELETE("/:id", commentHandler.Delete)
		comments.PUT("/:id/vote", commentHandler.Vote)
		comments.PUT("/:id/react", commentHandler.React)
	}
}
