package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"roomly/internal/infra/config"
	"roomly/internal/infra/obs"
)

type ReservationHTTP interface {
	Create(c *gin.Context)
	Transition(c *gin.Context)
	ListMine(c *gin.Context)
	ListOwner(c *gin.Context)
}

type ListingHTTP interface {
	Search(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type Handlers struct {
	Reservation    ReservationHTTP
	Listing        ListingHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
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

	api := router.Group("/api/v1")
	if h.Reservation != nil {
		api.POST("/reservations", h.Reservation.Create)
		api.GET("/reservations/mine", h.Reservation.ListMine)
		api.GET("/reservations/owner", h.Reservation.ListOwner)
		api.PATCH("/reservations/:id/status", h.Reservation.Transition)
	}
	if h.Listing != nil {
		api.GET("/listings", h.Listing.Search)
		api.GET("/listings/:id", h.Listing.Get)
		api.POST("/listings", h.Listing.Create)
		api.PUT("/listings/:id", h.Listing.Update)
		api.DELETE("/listings/:id", h.Listing.Delete)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
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
