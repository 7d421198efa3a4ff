package components

import (
	"clinic-scheduler/internal/infra/db"
	"clinic-scheduler/internal/infra/readstore"
	"clinic-scheduler/internal/infra/uow"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		uow.NewPostgresUoW,
		fx.Annotate(
			readstore.NewScheduleReadStore,
			fx.As(new(queries.ScheduleReader)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReader)),
			fx.As(new(queries.BookingViewRepo)),
		),
		fx.Annotate(
			readstore.NewTypeRuleReadStore,
			fx.As(new(queries.TypeRuleReader)),
		),
		fx.Annotate(
			readstore.NewRoomReadStore,
			fx.As(new(queries.RoomReader)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
