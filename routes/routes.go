package routes

import (
	"blog-api/cache"
	"blog-api/config"
	"blog-api/handlers"
	"blog-api/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// corsConfig allows any origin to send bearer tokens.
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cfg
}

// NewRouter assembles middleware and every API route. store may be nil, in
// which case caching and rate limiting are off.
func NewRouter(cfg *config.Config, app *Container, store *cache.Store, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(log, app.Helper),
		middleware.RequestLogger(log),
		cors.New(corsConfig()),
		gzip.Gzip(gzip.DefaultCompression),
	)

	auth := middleware.NewAuth(app.Tokens, app.Auth, app.Helper)
	cached := middleware.ResponseCache(store, cfg.Cache.TTL, log)
	limited := middleware.RateLimit(store, cfg.RateLimit.AuthPerMinute, app.Helper, log)

	authHandler := handlers.NewAuthHandler(app.Auth, app.Helper)
	articleHandler := handlers.NewArticleHandler(app.Articles, app.Helper)
	commentHandler := handlers.NewCommentHandler(app.Comments, app.Helper)
	tagHandler := handlers.NewTagHandler(app.Tags, app.Helper)
	profileHandler := handlers.NewProfileHandler(app.Profiles, app.Helper)
	userHandler := handlers.NewUserHandler(app.Users, app.Helper)

	r.NoRoute(func(c *gin.Context) {
		app.Helper.SendNotFoundError(c, "Not found.")
	})
	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	api.GET("/", handlers.Index)

	// Authentication
	{
		api.POST("/register/", limited, authHandler.Register)
		api.POST("/token/", limited, authHandler.Login)
		api.POST("/login/", limited, authHandler.Login)
		api.POST("/token/refresh/", limited, authHandler.Refresh)
		api.POST("/deactivate/", auth.Required(), authHandler.Deactivate)
		api.GET("/me/", auth.Required(), authHandler.GetProfile)
	}

	// Public reads with optional identity
	public := api.Group("/", auth.Optional())
	{
		public.GET("/articles/", cached, articleHandler.GetArticles)
		public.GET("/articles/popular/", cached, articleHandler.GetPopularArticles)
		public.GET("/articles/:id/", cached, articleHandler.GetArticle)
		public.GET("/articles/:id/comments/", commentHandler.GetArticleComments)
		public.GET("/comments/:id/", commentHandler.GetComment)
		public.GET("/tags/", tagHandler.GetTags)
		public.GET("/tags/:id/", tagHandler.GetTag)
		public.GET("/profile/:id/", profileHandler.GetProfile)
	}

	protected := api.Group("/", auth.Required())
	{
		protected.POST("/articles/", articleHandler.CreateArticle)
		protected.PUT("/articles/:id/", articleHandler.ReplaceArticle)
		protected.PATCH("/articles/:id/", articleHandler.PatchArticle)
		protected.DELETE("/articles/:id/", articleHandler.DeleteArticle)

		protected.POST("/articles/:id/comments/", commentHandler.CreateComment)
		protected.PUT("/comments/:id/", commentHandler.UpdateComment)
		protected.PATCH("/comments/:id/", commentHandler.UpdateComment)
		protected.DELETE("/comments/:id/", commentHandler.DeleteComment)
		protected.POST("/comments/:id/reply/", commentHandler.Reply)

		protected.POST("/tags/", tagHandler.CreateTag)

		protected.GET("/profile/", profileHandler.GetProfile)
		protected.PUT("/profile/", profileHandler.UpdateProfile)
		protected.PATCH("/profile/", profileHandler.UpdateProfile)
		protected.PUT("/profile/:id/", profileHandler.UpdateProfile)
		protected.PATCH("/profile/:id/", profileHandler.UpdateProfile)

		protected.GET("/users/", userHandler.GetUsers)
		protected.POST("/users/:id/groups/", userHandler.AssignGroup)
	}

	return r
}
