package app

import (
	"go.uber.org/fx"

	"github.com/PinkD/telegram-bili-feed-helper/config"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain"
	"github.com/PinkD/telegram-bili-feed-helper/internal/infrastructure"
)

// CreateApp creates the fx application with all dependencies
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),
		infrastructure.Module,
		domain.Module,
	)
}
