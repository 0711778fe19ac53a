package database

import (
	"context"

	"github.com/PinkD/telegram-bili-feed-helper/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module provides database components for fx dependency injection
var Module = fx.Module("database",
	fx.Provide(NewDBFx),
)

// NewDBFx creates the cache database connection with fx lifecycle management
func NewDBFx(
	lc fx.Lifecycle,
	cfg *config.DatabaseConfig,
	logger zerolog.Logger,
) (*gorm.DB, error) {
	db, err := NewDB(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Closing database connection")
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	logger.Info().
		Str("driver", cfg.Driver()).
		Msg("Cache database connected")

	return db, nil
}
