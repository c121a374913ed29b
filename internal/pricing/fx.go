package pricing

import (
	"github.com/smallbiznis/quotient/internal/cache"
	"github.com/smallbiznis/quotient/internal/pricing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pricing.engine",
	fx.Provide(cache.NewCatalogCache),
	fx.Provide(service.New),
)
