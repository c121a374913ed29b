package migration

import (
	"strings"

	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	"github.com/smallbiznis/quotient/internal/config"
	migrationpathdomain "github.com/smallbiznis/quotient/internal/migrationpath/domain"
	quotedomain "github.com/smallbiznis/quotient/internal/quote/domain"
	"github.com/smallbiznis/quotient/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if strings.EqualFold(cfg.DBType, "postgres") {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := conn.AutoMigrate(
				&catalogdomain.Product{},
				&catalogdomain.RatePlan{},
				&catalogdomain.Charge{},
				&catalogdomain.Pricing{},
				&catalogdomain.Tier{},
				&quotedomain.Quote{},
				&quotedomain.QuoteItem{},
				&migrationpathdomain.MigrationPath{},
				&migrationpathdomain.PathProduct{},
				&migrationpathdomain.NonMigratableReason{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoCatalog {
			return seed.EnsureDemoCatalog(conn)
		}
		return nil
	}),
)
