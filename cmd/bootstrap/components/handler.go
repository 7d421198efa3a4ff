package components

import (
	"clinic-scheduler/internal/handler"
	"clinic-scheduler/internal/handler/api"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/usecase/queries"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		NewSlotHandler,
		api.NewBookingHandler,
		api.NewScheduleHandler,
		api.NewRoomHandler,
		api.NewCacheHandler,
	),
	fx.Invoke(handler.NewRouter),
)

func NewSlotHandler(slotQueries queries.SlotQueries, cfg config.Config) *api.SlotHandler {
	return api.NewSlotHandler(slotQueries, cfg.Engine)
}
