package routes

import (
	"net/http"
	"time"

	"aerobook/internal/bookings"
	"aerobook/internal/flights"
	"aerobook/internal/search"
	"aerobook/internal/shared/config"
	"aerobook/internal/shared/database"
	"aerobook/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher bookings.EventPublisher

	// flightStore is shared between the inventory and booking modules so
	// both observe the same seat state.
	flightStore flights.Store
}

// NewRouter creates a new router instance. publisher may be nil when event
// streaming is disabled.
func NewRouter(cfg *config.Config, db *database.DB, publisher bookings.EventPublisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Search must be registered before the inventory routes so the
		// static /flights/search segment wins over /flights/:id.
		r.setupSearchRoutes(api)
		r.setupFlightRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "aerobook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "aerobook-backend",
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

// setupFlightRoutes configures flight inventory routes
func (r *Router) setupFlightRoutes(rg *gin.RouterGroup) {
	r.flightStore = flights.NewStore(r.db.GetPostgreSQL())
	flightService := flights.NewService(r.flightStore)
	flightController := flights.NewController(flightService)

	flights.SetupFlightRoutes(rg, flightController)
}

// setupBookingRoutes configures booking ledger routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())

	opts := []bookings.Option{
		bookings.WithCommitRetries(r.config.Booking.CommitRetries),
		bookings.WithCurrency(r.config.Booking.Currency),
	}
	if r.publisher != nil {
		opts = append(opts, bookings.WithEventPublisher(r.publisher))
	}

	bookingService := bookings.NewService(bookingRepo, r.flightStore, opts...)
	bookingController := bookings.NewController(bookingService)

	bookings.SetupBookingRoutes(rg, bookingController)
}

// setupSearchRoutes configures the fare search aggregator routes
func (r *Router) setupSearchRoutes(rg *gin.RouterGroup) {
	provider := search.NewHTTPProvider(r.config.FlightProvider)

	opts := []search.Option{}
	if r.db.Redis != nil {
		cacheService := cache.NewService(r.db.GetRedis())
		opts = append(opts, search.WithCache(cacheService, r.config.Redis.SearchCacheTTL))
	}

	searchService := search.NewService(provider, opts...)
	searchController := search.NewController(searchService)

	search.SetupSearchRoutes(rg, searchController)
}
