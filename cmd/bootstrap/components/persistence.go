package components

import (
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/infra/readstore"
	"mentor-booking/internal/infra/uow"
	"mentor-booking/internal/usecase/queries"
	"mentor-booking/internal/usecase/shared"
	"mentor-booking/internal/usecase/stats"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// Write-side repositories are created per transaction by the unit of work.
var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	uowModule,
)

var baseOption = fx.Provide(
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Mentor
		fx.Annotate(
			readstore.NewMentorReadStore,
			fx.As(new(queries.MentorProfileStore)),
			fx.As(new(stats.StatsReadStore)),
		),
		// Booking
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingSlotStore)),
			fx.As(new(queries.BookingViewStore)),
		),
	),
)

var uowModule = fx.Module("persistence/uow",
	fx.Provide(
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
