// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"venuepass/internal/bookings"
	"venuepass/internal/capacity"
	"venuepass/internal/exhibitions"
	"venuepass/internal/locks"
	"venuepass/internal/notifications"
	"venuepass/internal/pricing"
	"venuepass/internal/seatmap"
	"venuepass/internal/shared/config"
	"venuepass/internal/shared/database"
	"venuepass/internal/slots"
	"venuepass/internal/venues"
	"venuepass/pkg/cache"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	db       *database.DB
	producer notifications.TicketProducer

	// services kept for cross-package wiring
	venueService      venues.Service
	exhibitionService exhibitions.Service
	pricingService    pricing.Service
	slotService       slots.Service
	capacityService   capacity.Service
	lockService       locks.Service
	seatMapService    seatmap.Service
	bookingService    bookings.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, producer notifications.TicketProducer) *Router {
	return &Router{
		config:   cfg,
		db:       db,
		producer: producer,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	r.buildServices()

	api := engine.Group(r.config.GetAPIBasePath())
	{
		venues.SetupVenueRoutes(api, venues.NewController(r.venueService))
		exhibitions.SetupExhibitionRoutes(api, exhibitions.NewController(r.exhibitionService))
		pricing.SetupPricingRoutes(api, pricing.NewController(r.pricingService))
		slots.SetupSlotRoutes(api, slots.NewController(r.slotService))
		seatmap.SetupSeatMapRoutes(api, seatmap.NewController(r.seatMapService))
		locks.SetupLockRoutes(api, locks.NewController(r.lockService))
		capacity.SetupCapacityRoutes(api, capacity.NewController(r.capacityService))
		bookings.SetupBookingRoutes(api, bookings.NewController(r.bookingService))
	}
}

// LockService exposes the lock manager for startup tasks (script preloading).
func (r *Router) LockService() locks.Service {
	return r.lockService
}

// buildServices constructs every service and wires the cross-package
// dependencies that use local interfaces to avoid import cycles.
func (r *Router) buildServices() {
	pg := r.db.GetPostgreSQL()
	redisClient := r.db.GetRedisClient()

	r.venueService = venues.NewService(venues.NewRepository(pg))

	r.exhibitionService = exhibitions.NewService(exhibitions.NewRepository(pg))
	if redisClient != nil {
		r.exhibitionService.SetCacheService(cache.NewService(redisClient))
	}

	r.pricingService = pricing.NewService(pricing.NewRepository(pg))

	r.slotService = slots.NewService(slots.NewRepository(pg), r.config)
	r.slotService.SetPricingService(r.pricingService)

	r.capacityService = capacity.NewService(capacity.NewRepository(pg))

	r.lockService = locks.NewService(
		locks.NewRepository(redisClient),
		r.config.Redis.SeatLockTTL,
		r.config.Booking.MaxSeatsPerLock,
	)

	r.seatMapService = seatmap.NewService(r.exhibitionService, r.venueService)

	r.bookingService = bookings.NewService(
		bookings.NewRepository(pg),
		r.lockService,
		r.capacityService,
		r.pricingService,
		r.exhibitionService,
		r.venueService,
		r.producer,
	)

	// Cross wiring: the seat map overlays locks and bookings, the lock
	// manager validates requests against the seat map.
	r.seatMapService.SetLockReader(r.lockService)
	r.seatMapService.SetBookedSeatSource(r.bookingService)
	r.lockService.SetLayoutService(r.seatMapService)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "venuepass-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "venuepass-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}
