package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clinic-scheduler/internal/handler/api"
	"clinic-scheduler/internal/handler/middleware"
	"clinic-scheduler/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	slotHandler *api.SlotHandler,
	bookingHandler *api.BookingHandler,
	scheduleHandler *api.ScheduleHandler,
	roomHandler *api.RoomHandler,
	cacheHandler *api.CacheHandler,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, slotHandler, bookingHandler, scheduleHandler, roomHandler, cacheHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	slotHandler *api.SlotHandler,
	bookingHandler *api.BookingHandler,
	scheduleHandler *api.ScheduleHandler,
	roomHandler *api.RoomHandler,
	cacheHandler *api.CacheHandler,
) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := engine.Group("/api")
	{
		slots := apiGroup.Group("/slots")
		{
			addRoutes(slots, []route{
				{Method: http.MethodGet, Path: "", Handler: slotHandler.ListSlots},
				{Method: http.MethodGet, Path: "/next", Handler: slotHandler.NextSlot},
				{Method: http.MethodGet, Path: "/check", Handler: slotHandler.CheckSlot},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				{Method: http.MethodGet, Path: "/:id", Handler: bookingHandler.GetBooking},
				{Method: http.MethodPost, Path: "/:id/confirm", Handler: bookingHandler.ConfirmBooking},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: bookingHandler.CancelBooking},
				{Method: http.MethodPost, Path: "/:id/complete", Handler: bookingHandler.CompleteBooking},
				{Method: http.MethodPost, Path: "/:id/no-show", Handler: bookingHandler.MarkNoShow},
				{Method: http.MethodPost, Path: "/:id/reschedule", Handler: bookingHandler.RescheduleBooking},
			})
		}

		schedule := apiGroup.Group("/schedule")
		{
			addRoutes(schedule, []route{
				{Method: http.MethodPost, Path: "/working-hours", Handler: scheduleHandler.CreateWorkingHours},
				{Method: http.MethodPut, Path: "/working-hours/:id", Handler: scheduleHandler.UpdateWorkingHours},
				{Method: http.MethodDelete, Path: "/working-hours/:id", Handler: scheduleHandler.DeleteWorkingHours},
				{Method: http.MethodPost, Path: "/exceptions", Handler: scheduleHandler.CreateException},
				{Method: http.MethodDelete, Path: "/exceptions/:id", Handler: scheduleHandler.DeleteException},
				{Method: http.MethodPost, Path: "/types", Handler: scheduleHandler.CreateTypeRule},
				{Method: http.MethodPut, Path: "/types/:id", Handler: scheduleHandler.UpdateTypeRule},
			})
		}

		rooms := apiGroup.Group("/rooms")
		{
			addRoutes(rooms, []route{
				{Method: http.MethodPost, Path: "", Handler: roomHandler.CreateRoom},
				{Method: http.MethodPut, Path: "/:id/status", Handler: roomHandler.SetRoomStatus},
			})
		}

		cache := apiGroup.Group("/cache")
		{
			addRoutes(cache, []route{
				{Method: http.MethodPost, Path: "/invalidate", Handler: cacheHandler.InvalidateCache},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(group *gin.RouterGroup, routes []route) {
	for _, r := range routes {
		handlers := make([]gin.HandlerFunc, 0, len(r.Mw)+1)
		handlers = append(handlers, r.Mw...)
		handlers = append(handlers, r.Handler)
		group.Handle(r.Method, r.Path, handlers...)
	}
}
