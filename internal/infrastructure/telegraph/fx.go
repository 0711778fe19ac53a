package telegraph

import (
	"go.uber.org/fx"
)

// Module provides the page publisher for fx DI
var Module = fx.Module("telegraph",
	fx.Provide(NewClient),
)
