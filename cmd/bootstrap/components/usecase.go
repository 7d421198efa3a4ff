package components

import (
	"time"

	"clinic-scheduler/internal/domain/slot"
	"clinic-scheduler/internal/infra/cache"
	"clinic-scheduler/internal/pkg/clock"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewGenerator,
)

// NewGenerator anchors slot arithmetic in the clinic-local zone.
func NewGenerator(cfg config.Config) (*slot.Generator, error) {
	loc, err := time.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		return nil, err
	}
	return slot.NewGenerator(loc), nil
}

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewSlotQueries,
		queries.NewBookingQueries,
	),
)

func NewSlotQueries(
	schedules queries.ScheduleReader,
	bookings queries.BookingReader,
	typeRules queries.TypeRuleReader,
	rooms queries.RoomReader,
	slotCache cache.SlotCache,
	gen *slot.Generator,
	clk clock.Clock,
	cfg config.Config,
) queries.SlotQueries {
	return queries.NewSlotQueries(schedules, bookings, typeRules, rooms, slotCache, gen, clk, cfg.Engine, cfg.Cache.TTL)
}

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
		commands.NewScheduleCommands,
		commands.NewTypeRuleCommands,
		commands.NewRoomCommands,
		commands.NewCacheCommands,
	),
)
