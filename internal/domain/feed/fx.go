package feed

import (
	"go.uber.org/fx"

	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/repository/cache"
	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/usecase/parser"
)

// Module provides feed domain dependencies
var Module = fx.Module(
	"feed",
	fx.Provide(
		cache.NewRepository,
		parser.NewParser,
	),
)
