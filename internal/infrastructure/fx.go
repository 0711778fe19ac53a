package infrastructure

import (
	"github.com/PinkD/telegram-bili-feed-helper/internal/infrastructure/compressor"
	"github.com/PinkD/telegram-bili-feed-helper/internal/infrastructure/database"
	"github.com/PinkD/telegram-bili-feed-helper/internal/infrastructure/httpclient"
	"github.com/PinkD/telegram-bili-feed-helper/internal/infrastructure/logger"
	"github.com/PinkD/telegram-bili-feed-helper/internal/infrastructure/telegraph"
	"go.uber.org/fx"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	database.Module, // Must be before the repository (it depends on *gorm.DB)
	httpclient.Module,
	telegraph.Module,
	compressor.Module,
)
