package migrationpath

import (
	"github.com/smallbiznis/quotient/internal/migrationpath/repository"
	"github.com/smallbiznis/quotient/internal/migrationpath/service"
	"go.uber.org/fx"
)

var Module = fx.Module("migrationpath.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
