package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/arena-booking-backend/internal/api"
	"github.com/nekogravitycat/arena-booking-backend/internal/auth"
	"github.com/nekogravitycat/arena-booking-backend/internal/config"
	"github.com/nekogravitycat/arena-booking-backend/internal/facility"
	"github.com/nekogravitycat/arena-booking-backend/internal/notification"
	"github.com/nekogravitycat/arena-booking-backend/internal/payment"
	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/arena-booking-backend/internal/pkg/storage"
	"github.com/nekogravitycat/arena-booking-backend/internal/promotion"
	"github.com/nekogravitycat/arena-booking-backend/internal/reservation"
)

// Container holds the initialized components that are needed externally.
type Container struct {
	Router             *gin.Engine
	JWTManager         *auth.JWTManager
	ReservationService reservation.Service

	closers []io.Closer
}

// NewContainer initializes all modules. Redis and RabbitMQ are optional:
// an empty address disables them, and an unreachable broker is logged and
// skipped.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool, logger zerolog.Logger) (*Container, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	c := &Container{}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	// Facility Module
	var facilityRepo facility.Repository = facility.NewPgxRepository(pool)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		c.closers = append(c.closers, rdb)
		facilityRepo = facility.NewCachedRepository(facilityRepo, rdb, cfg.FacilityCacheTTL, logger)
	}
	facilityService := facility.NewService(facilityRepo)

	// Promotion Module
	promotionService := promotion.NewService(promotion.NewPgxRepository(pool))

	// Notification Module
	var publisher notification.Publisher
	if cfg.AMQPURL != "" {
		p, err := notification.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			logger.Warn().Err(err).Msg("event publishing disabled")
		} else {
			publisher = p
			c.closers = append(c.closers, p)
		}
	}
	notificationService := notification.NewService(notification.NewPgxRepository(pool), publisher, logger)

	// Reservation Module
	reservationService := reservation.NewService(
		reservation.NewPgxRepository(pool),
		facilityService,
		promotionService,
		notificationService,
		reservation.Options{
			Location:     loc,
			WriteTimeout: cfg.BookingTimeout,
			Logger:       logger.With().Str("module", "reservation").Logger(),
			Metrics: reservation.Metrics{
				Created:    metrics.IncReservationCreated,
				Conflict:   metrics.IncSlotConflict,
				Transition: metrics.IncStatusTransition,
			},
		},
	)

	// Payment Module
	store, err := storage.NewLocalStorage(cfg.StorageRoot)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init slip storage: %w", err)
	}
	paymentService := payment.NewService(payment.NewPgxRepository(pool), reservationService, store, logger)

	c.Router = api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction(),
		ProdOrigins:         cfg.ProdOrigins,
		Logger:              logger,
		JWTManager:          jwtManager,
		FacilityService:     facilityService,
		ReservationService:  reservationService,
		PaymentService:      paymentService,
		NotificationService: notificationService,
		BookingLimiter:      api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		Ready: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
	})
	c.JWTManager = jwtManager
	c.ReservationService = reservationService
	return c, nil
}

// Close releases broker and cache connections.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
