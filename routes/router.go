package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pagecrest/blogapi/config"
	"github.com/pagecrest/blogapi/controllers"
	"github.com/pagecrest/blogapi/middleware"
	"github.com/pagecrest/blogapi/repositories"
	"github.com/pagecrest/blogapi/services"
	"github.com/pagecrest/blogapi/utils"
)

// SetupRouter builds the route table once at startup: middlewares,
// repositories, services and controllers wired in order. The cache is
// injected so tests can pass a no-op or spy.
func SetupRouter(db *gorm.DB, cache utils.Cache) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log and recovery go to a rolling file, separate from the app log.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(middleware.AccessLog(gl))
		r.Use(middleware.Recovery(gl))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postRepo := repositories.NewPostRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	commentRepo := repositories.NewCommentRepository(db)

	postService := services.NewPostService(postRepo, tagRepo, cache)
	commentService := services.NewCommentService(commentRepo, postRepo, cache)
	tagService := services.NewTagService(tagRepo)
	sitemapService := services.NewSitemapService(postRepo)

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	postController := controllers.NewPostController(postService, cache, ttl)
	commentController := controllers.NewCommentController(commentService, cache, ttl)
	tagController := controllers.NewTagController(tagService, cache, ttl)
	sitemapController := controllers.NewSitemapController(sitemapService, cache, ttl)

	api := r.Group("/api/v1")

	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:slugOrId", postController.GetPost)
	// gin requires the same wildcard name at this position as the GET route
	api.PATCH("/posts/:slugOrId/views", postController.IncrementViews)

	api.GET("/comments/:postId", commentController.ListComments)
	api.POST("/comments/:postId", middleware.RateLimitMiddleware(), commentController.CreateComment)

	api.GET("/tags", tagController.ListTags)
	api.GET("/sitemap", sitemapController.GetSitemap)

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, utils.Envelope{
			Success: false,
			Error:   &utils.ErrorBody{Code: http.StatusNotFound, Message: "route not found"},
		})
	})

	return r
}
