package mcpsrv

import (
	"github.com/usestring/prisma-infer/internal/cache"
	"github.com/usestring/prisma-infer/internal/config"
	"github.com/usestring/prisma-infer/internal/query"
	"github.com/usestring/prisma-infer/internal/source"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config *config.Config
	Cache  *cache.ResultCache
	Loader *source.Loader
	Query  *query.Engine
}
