package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"rentcam/internal/infra/config"
	"rentcam/internal/infra/obs"
)

type ListingHTTP interface {
	Search(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	SetAvailability(c *gin.Context)
	Delete(c *gin.Context)
	UploadPhoto(c *gin.Context)
}

type ThreadHTTP interface {
	Start(c *gin.Context)
	List(c *gin.Context)
	UnreadTotal(c *gin.Context)
	MarkAllRead(c *gin.Context)
	Messages(c *gin.Context)
	Send(c *gin.Context)
	MarkRead(c *gin.Context)
}

type NotificationHTTP interface {
	List(c *gin.Context)
	Add(c *gin.Context)
	MarkRead(c *gin.Context)
	MarkAllRead(c *gin.Context)
	Clear(c *gin.Context)
}

type ReviewHTTP interface {
	List(c *gin.Context)
	Submit(c *gin.Context)
}

type MeHTTP interface {
	Get(c *gin.Context)
	Update(c *gin.Context)
	ApplyLandlord(c *gin.Context)
}

type Handlers struct {
	Listing        ListingHTTP
	Thread         ThreadHTTP
	Notification   NotificationHTTP
	Review         ReviewHTTP
	Me             MeHTTP
	AuthMiddleware gin.HandlerFunc
	Metrics        http.Handler

	// Photos serves uploaded images under PhotoPrefix when uploads are kept
	// in process.
	Photos http.Handler
}

// PhotoPrefix is the URL path in-process photo uploads are served from.
const PhotoPrefix = "/static/photos"

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewRouter builds the gin engine without touching the global gin mode.
func NewRouter(obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", userHeader},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)
	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}
	if h.Photos != nil {
		router.GET(PhotoPrefix+"/*key", gin.WrapH(http.StripPrefix(PhotoPrefix, h.Photos)))
	}

	api := router.Group("/api/v1")
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Search)
		api.POST("/listings", h.Listing.Create)
		api.GET("/listings/:id", h.Listing.Get)
		api.PATCH("/listings/:id", h.Listing.Update)
		api.DELETE("/listings/:id", h.Listing.Delete)
		api.POST("/listings/:id/availability", h.Listing.SetAvailability)
		api.POST("/listings/:id/photos", h.Listing.UploadPhoto)
	}
	if h.Review != nil {
		api.GET("/listings/:id/reviews", h.Review.List)
		api.POST("/listings/:id/reviews", h.Review.Submit)
	}
	if h.Thread != nil {
		api.POST("/listings/:id/threads", h.Thread.Start)
		threads := api.Group("/threads")
		threads.GET("", h.Thread.List)
		threads.GET("/unread", h.Thread.UnreadTotal)
		threads.POST("/read", h.Thread.MarkAllRead)
		threads.GET("/:id/messages", h.Thread.Messages)
		threads.POST("/:id/messages", h.Thread.Send)
		threads.POST("/:id/read", h.Thread.MarkRead)
	}
	if h.Notification != nil {
		notifications := api.Group("/notifications")
		notifications.GET("", h.Notification.List)
		notifications.POST("", h.Notification.Add)
		notifications.DELETE("", h.Notification.Clear)
		notifications.POST("/read", h.Notification.MarkAllRead)
		notifications.POST("/:id/read", h.Notification.MarkRead)
	}
	if h.Me != nil {
		me := api.Group("/me")
		me.GET("", h.Me.Get)
		me.PUT("", h.Me.Update)
		me.POST("/landlord-application", h.Me.ApplyLandlord)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug", "dev", "local":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
