package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/arena-booking-backend/internal/auth"
	"github.com/nekogravitycat/arena-booking-backend/internal/facility"
	facilityHttp "github.com/nekogravitycat/arena-booking-backend/internal/facility/http"
	"github.com/nekogravitycat/arena-booking-backend/internal/logging"
	"github.com/nekogravitycat/arena-booking-backend/internal/notification"
	notificationHttp "github.com/nekogravitycat/arena-booking-backend/internal/notification/http"
	"github.com/nekogravitycat/arena-booking-backend/internal/payment"
	paymentHttp "github.com/nekogravitycat/arena-booking-backend/internal/payment/http"
	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/arena-booking-backend/internal/reservation"
	reservationHttp "github.com/nekogravitycat/arena-booking-backend/internal/reservation/http"
)

// Config carries the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       zerolog.Logger

	JWTManager          *auth.JWTManager
	FacilityService     facility.Service
	ReservationService  reservation.Service
	PaymentService      payment.Service
	NotificationService notification.Service

	// BookingLimiter throttles reservation creation per client IP. May be nil.
	BookingLimiter *RateLimiter
	// Ready reports whether dependencies are reachable. May be nil.
	Ready func(ctx context.Context) error
}

// NewRouter assembles middleware and registers the routes of every module.
func NewRouter(cfg Config) *gin.Engine {
	metrics.Register()

	r := gin.New()
	r.Use(logging.RequestLogger(cfg.Logger), gin.Recovery(), metrics.Middleware())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = splitOrigins(cfg.ProdOrigins)
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Web client
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition"}
	if len(corsConfig.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig))
	}

	r.GET("/healthz", healthz(cfg.Ready))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	adminMiddleware := auth.RequireAdmin()

	facilityHandler := facilityHttp.NewHandler(cfg.FacilityService)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService)
	paymentHandler := paymentHttp.NewHandler(cfg.PaymentService, cfg.Logger)
	notificationHandler := notificationHttp.NewHandler(cfg.NotificationService)

	var createLimit gin.HandlerFunc
	if cfg.BookingLimiter != nil {
		createLimit = cfg.BookingLimiter.Middleware()
	}

	v1 := r.Group("/v1")
	{
		facilityHttp.RegisterRoutes(v1, facilityHandler)
		reservationHttp.RegisterRoutes(v1, reservationHandler, reservationHttp.Middlewares{
			Auth:         authMiddleware,
			OptionalAuth: auth.OptionalAuth(cfg.JWTManager),
			CreateLimit:  createLimit,
		})
		paymentHttp.RegisterRoutes(v1.Group("", authMiddleware), paymentHandler)
		notificationHttp.RegisterRoutes(v1, notificationHandler, authMiddleware)

		admin := v1.Group("/admin", authMiddleware, adminMiddleware)
		facilityHttp.RegisterAdminRoutes(admin, facilityHandler)
		reservationHttp.RegisterAdminRoutes(admin, reservationHandler)
		paymentHttp.RegisterAdminRoutes(admin, paymentHandler)
	}

	return r
}

func splitOrigins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func healthz(ready func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
