package domain

import (
	"go.uber.org/fx"

	"github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed"
)

// Module aggregates all domain modules
var Module = fx.Module(
	"domain",
	feed.Module,
)
