package seed

import (
	"testing"

	"github.com/glebarez/sqlite"
	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	migrationpathdomain "github.com/smallbiznis/quotient/internal/migrationpath/domain"
	quotedomain "github.com/smallbiznis/quotient/internal/quote/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func TestEnsureDemoCatalog(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, EnsureDemoCatalog(db))

	var productCount int64
	require.NoError(t, db.Model(&catalogdomain.Product{}).Count(&productCount).Error)
	assert.Greater(t, productCount, int64(0))

	var expiredPlans int64
	require.NoError(t, db.Model(&catalogdomain.RatePlan{}).
		Where("status = ?", catalogdomain.RatePlanExpired).
		Count(&expiredPlans).Error)
	assert.Greater(t, expiredPlans, int64(0), "demo catalog should carry a retired plan")

	for _, model := range []catalogdomain.ChargeModel{
		catalogdomain.ModelFlatFee,
		catalogdomain.ModelPerUnit,
		catalogdomain.ModelVolume,
	} {
		var count int64
		require.NoError(t, db.Model(&catalogdomain.Charge{}).
			Where("model = ?", model).
			Count(&count).Error)
		assert.Greater(t, count, int64(0), "missing charges for model %s", model)
	}

	var paths []migrationpathdomain.MigrationPath
	require.NoError(t, db.Preload("Products").Find(&paths).Error)
	require.NotEmpty(t, paths)
	require.NotEmpty(t, paths[0].Products)
	assert.NotNil(t, paths[0].Products[0].ReplacesProductID)

	var reasons []migrationpathdomain.NonMigratableReason
	require.NoError(t, db.Find(&reasons).Error)
	require.Len(t, reasons, 2)

	blank := 0
	for _, reason := range reasons {
		if reason.Reason == "" {
			blank++
		}
	}
	assert.Equal(t, 1, blank, "exactly one seeded reason stays blank for the default-text fallback")
}

func TestEnsureDemoCatalog_Idempotent(t *testing.T) {
	db := newSeedDB(t)

	require.NoError(t, EnsureDemoCatalog(db))

	var before int64
	require.NoError(t, db.Model(&catalogdomain.Product{}).Count(&before).Error)

	require.NoError(t, EnsureDemoCatalog(db))

	var after int64
	require.NoError(t, db.Model(&catalogdomain.Product{}).Count(&after).Error)
	assert.Equal(t, before, after)
}

func TestEnsureDemoCatalog_NilDB(t *testing.T) {
	assert.Error(t, EnsureDemoCatalog(nil))
}
