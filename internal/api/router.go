package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/beatbook/dj-agency-backend/internal/agency"
	agencyHttp "github.com/beatbook/dj-agency-backend/internal/agency/http"
	"github.com/beatbook/dj-agency-backend/internal/auth"
	"github.com/beatbook/dj-agency-backend/internal/availability"
	availabilityHttp "github.com/beatbook/dj-agency-backend/internal/availability/http"
	"github.com/beatbook/dj-agency-backend/internal/dj"
	djHttp "github.com/beatbook/dj-agency-backend/internal/dj/http"
	"github.com/beatbook/dj-agency-backend/internal/event"
	eventHttp "github.com/beatbook/dj-agency-backend/internal/event/http"
	"github.com/beatbook/dj-agency-backend/internal/reservation"
	reservationHttp "github.com/beatbook/dj-agency-backend/internal/reservation/http"
	"github.com/beatbook/dj-agency-backend/internal/user"
	userHttp "github.com/beatbook/dj-agency-backend/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	AgencyService       agency.Service
	DJService           dj.Service
	EventService        event.Service
	AvailabilityService availability.Service
	ReservationService  reservation.Service
	JWTManager          *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, Logger, Auth) and registers routes for
// every module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:8081"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	sysAdminMiddleware := RequireSystemAdmin()

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	agencyHandler := agencyHttp.NewHandler(cfg.AgencyService)
	djHandler := djHttp.NewHandler(cfg.DJService)
	eventHandler := eventHttp.NewHandler(cfg.EventService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		agencyHttp.RegisterRoutes(v1, agencyHandler, authMiddleware)
		djHttp.RegisterRoutes(v1, djHandler, authMiddleware)
		eventHttp.RegisterRoutes(v1, eventHandler, authMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, authMiddleware)
		reservationHttp.RegisterRoutes(v1, reservationHandler, authMiddleware, sysAdminMiddleware)
	}

	return r
}
