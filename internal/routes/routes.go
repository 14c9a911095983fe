package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/slotwise/scheduler-api/internal/cache"
	"github.com/slotwise/scheduler-api/internal/config"
	"github.com/slotwise/scheduler-api/internal/handlers"
	infraRepo "github.com/slotwise/scheduler-api/internal/infra/repository"
	"github.com/slotwise/scheduler-api/internal/middleware"
	"github.com/slotwise/scheduler-api/internal/notification"
	ucAvailability "github.com/slotwise/scheduler-api/internal/usecase/availability"
	ucBooking "github.com/slotwise/scheduler-api/internal/usecase/booking"
)

// RegisterRoutes wires the whole engine: repository, cache, dispatcher,
// use cases, handlers, route groups. The returned dispatcher must be
// closed on shutdown so queued notifications drain.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.Logger,
) *notification.Dispatcher {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	repo := infraRepo.NewGormRepository(db, cfg.StoreTimeout)

	availCache := cache.NewAvailabilityCache(rdb, cfg.AvailabilityCacheTTL, log)

	notifStore := notification.NewStore(db)
	dispatcher := notification.NewDispatcher(
		notifStore,
		log,
		notification.NewEmailSender(log),
		notification.NewSMSSender(log),
	)

	// ======================================================
	// USE CASES
	// ======================================================
	availabilityUC := ucAvailability.NewGetAvailability(
		repo,
		cfg.MinLeadMinutes,
		cfg.HorizonDays,
	)

	guard := ucBooking.NewConflictGuard(repo)

	createBookingUC := ucBooking.NewCreate(
		repo,
		availabilityUC,
		guard,
		dispatcher,
		availCache,
		cfg.MinLeadMinutes,
		cfg.HorizonDays,
	)

	transitionBookingUC := ucBooking.NewTransition(
		repo,
		dispatcher,
		availCache,
	)

	rescheduleBookingUC := ucBooking.NewReschedule(
		repo,
		availabilityUC,
		guard,
		dispatcher,
		availCache,
		cfg.MinLeadMinutes,
		cfg.HorizonDays,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	businessHandler := handlers.NewBusinessHandler(db)
	staffHandler := handlers.NewStaffHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	scheduleHandler := handlers.NewScheduleHandler(db, availCache)

	availabilityHandler := handlers.NewAvailabilityHandler(repo, availabilityUC, availCache)

	bookingHandler := handlers.NewBookingHandler(
		db,
		createBookingUC,
		transitionBookingUC,
		rescheduleBookingUC,
	)

	publicHandler := handlers.NewPublicHandler(
		db,
		repo,
		availabilityHandler,
		createBookingUC,
		transitionBookingUC,
		rescheduleBookingUC,
		dispatcher,
	)

	notificationHandler := handlers.NewNotificationHandler(notifStore)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug", publicHandler.GetBusiness)
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/staff", publicHandler.ListStaff)
			publicAPI.GET("/:slug/availability", publicHandler.GetAvailability)

			publicAPI.POST("/:slug/bookings", publicHandler.CreateBooking)
			publicAPI.GET("/:slug/bookings/:reference", publicHandler.GetBooking)
			publicAPI.PATCH("/:slug/bookings/:reference/cancel", publicHandler.CancelBooking)
			publicAPI.PATCH("/:slug/bookings/:reference/reschedule", publicHandler.RescheduleBooking)
			publicAPI.POST("/:slug/bookings/:reference/review", publicHandler.SubmitReview)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me/business", businessHandler.Get)
			secured.PATCH("/me/business", businessHandler.Update)

			secured.GET("/me/staff", staffHandler.List)
			secured.POST("/me/staff", staffHandler.Create)
			secured.PATCH("/me/staff/:id", staffHandler.Update)

			secured.GET("/me/services", serviceHandler.List)
			secured.POST("/me/services", serviceHandler.Create)
			secured.PATCH("/me/services/:id", serviceHandler.Update)

			// ------------------------------
			// SCHEDULES
			// ------------------------------
			secured.GET("/me/staff/:staffId/shifts", scheduleHandler.GetShifts)
			secured.PUT("/me/staff/:staffId/shifts", scheduleHandler.UpdateShifts)

			secured.GET("/me/staff/:staffId/time-off", scheduleHandler.ListTimeOff)
			secured.POST("/me/staff/:staffId/time-off", scheduleHandler.CreateTimeOff)
			secured.DELETE("/me/staff/:staffId/time-off/:id", scheduleHandler.DeleteTimeOff)

			secured.PUT("/me/staff/:staffId/overrides", scheduleHandler.UpsertOverride)
			secured.DELETE("/me/staff/:staffId/overrides/:date", scheduleHandler.DeleteOverride)

			secured.GET("/me/availability", availabilityHandler.GetForOperator)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.POST("/me/bookings", bookingHandler.Create)
			secured.GET("/me/bookings", bookingHandler.ListByDate)
			secured.PATCH("/me/bookings/:id/confirm", bookingHandler.Confirm)
			secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/me/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/me/bookings/:id/reschedule", bookingHandler.Reschedule)

			secured.GET("/me/notifications", notificationHandler.List)
			secured.PATCH("/me/notifications/:id/ack", notificationHandler.Acknowledge)
		}
	}

	return dispatcher
}
