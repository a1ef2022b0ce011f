package components

import (
	"parkshare/internal/domain/booking"
	"parkshare/internal/pkg/clock"
	"parkshare/internal/pkg/config"
	"parkshare/internal/usecase/commands"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewHourlyPriceCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
	NewBookingFactory,
)

func NewBookingFactory(cfg config.Config, clk clock.Clock, calc booking.PriceCalculator) *booking.Factory {
	policy := booking.Policy{
		MinDuration:    cfg.Booking.MinDuration,
		MaxDuration:    cfg.Booking.MaxDuration,
		AdvanceHorizon: cfg.Booking.AdvanceHorizon,
		PastGrace:      cfg.Booking.PastGrace,
	}
	return booking.NewFactory(clk, policy, calc)
}

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewSlotCommands,
		commands.NewBookingCommands,
	),
)
