package compressor

import (
	"go.uber.org/fx"
)

// Module provides the image compressor for fx DI
var Module = fx.Module("compressor",
	fx.Provide(NewCompressor),
)
