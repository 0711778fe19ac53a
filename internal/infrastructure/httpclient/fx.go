package httpclient

import (
	"go.uber.org/fx"
)

// Module provides the upstream HTTP client for fx DI
var Module = fx.Module("httpclient",
	fx.Provide(NewClient),
)
