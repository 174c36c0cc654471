package components

import (
	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/pkg/meetcode"
	"mentor-booking/internal/usecase/commands"
	"mentor-booking/internal/usecase/outbox"
	"mentor-booking/internal/usecase/queries"
	"mentor-booking/internal/usecase/shared"
	"mentor-booking/internal/usecase/stats"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseStatsModule,
	usecaseOutboxModule,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		func(cfg config.Config) *meetcode.Generator {
			return meetcode.NewGenerator(cfg.Booking.MeetingBaseURL)
		},
		fx.As(new(booking.MeetingCodes)),
	),
	func(clock clock.Clock, codes booking.MeetingCodes) *booking.Services {
		return &booking.Services{
			Clock: clock,
			Codes: codes,
		}
	},
)

var usecaseStatsModule = fx.Module("usecase/stats",
	fx.Provide(
		stats.NewService,
	),
)

var usecaseOutboxModule = fx.Module("usecase/outbox",
	fx.Provide(
		outbox.NewProcessor,
		func(p *outbox.Processor) shared.EffectApplier {
			return p
		},
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewAvailabilityQueries,
	),
)
