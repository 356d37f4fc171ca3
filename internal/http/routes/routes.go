package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/growth-journal/internal/http/handlers"
	"github.com/phambaophuc/growth-journal/internal/http/middleware"
	"go.uber.org/zap"
)

type Router struct {
	imageHandler *handlers.ImageHandler
	logger       *zap.Logger
	corsOrigins  []string
}

func NewRouter(
	imageHandler *handlers.ImageHandler,
	logger *zap.Logger,
	corsOrigins []string,
) *Router {
	return &Router{
		imageHandler: imageHandler,
		logger:       logger,
		corsOrigins:  corsOrigins,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.CORS(r.corsOrigins))
	router.Use(middleware.SecurityHeaders())

	upload := middleware.RequireMultipart()

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.imageHandler.HealthCheck)
		v1.GET("/stats", r.imageHandler.GetStats)
		v1.GET("/profiles", r.imageHandler.ListProfiles)
		v1.GET("/placeholder", r.imageHandler.Placeholder)

		images := v1.Group("/images")
		{
			images.POST("/reencode", upload, r.imageHandler.ReencodeImage)
			images.POST("/batch/reencode", upload, r.imageHandler.BatchReencode)
		}

		photos := v1.Group("/photos")
		{
			photos.POST("", upload, r.imageHandler.UploadPhoto)
			photos.GET("", r.imageHandler.ListPhotos)
			photos.GET("/:id", r.imageHandler.GetPhoto)
			photos.PUT("/:id/like", r.imageHandler.LikePhoto)
			photos.DELETE("/:id", r.imageHandler.DeletePhoto)
		}

		trips := v1.Group("/trips")
		{
			trips.POST("/:id/photos", upload, r.imageHandler.UploadTripPhoto)
			trips.GET("/:id/photos", r.imageHandler.ListTripPhotos)
		}

		profile := v1.Group("/profile")
		{
			profile.GET("", r.imageHandler.GetProfile)
			profile.PUT("/avatar", upload, r.imageHandler.UpdateAvatar)
		}

		jobs := v1.Group("/jobs")
		{
			jobs.POST("", r.imageHandler.CreateJob)
			jobs.GET("/:id", r.imageHandler.GetJob)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Growth journal media service is running",
		})
	})

	return router
}
