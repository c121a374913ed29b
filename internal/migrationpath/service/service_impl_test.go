package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/quotient/internal/config"
	"github.com/smallbiznis/quotient/internal/migrationpath/domain"
	"github.com/smallbiznis/quotient/internal/migrationpath/repository"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.MigrationPath{},
		&domain.PathProduct{},
		&domain.NonMigratableReason{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		Repo:       repository.Provide(),
		PricingCfg: config.StaticPricingConfig(config.DefaultPricingConfig()),
	})
	return svc, db, node
}

func seedPath(t *testing.T, db *gorm.DB, node *snowflake.Node, title string, replaces *snowflake.ID, prices ...float64) snowflake.ID {
	t.Helper()

	pathID := node.Generate()
	require.NoError(t, db.Create(&domain.MigrationPath{
		ID:    pathID,
		Code:  "path-" + pathID.String(),
		Title: title,
	}).Error)

	for i, price := range prices {
		product := domain.PathProduct{
			ID:        node.Generate(),
			PathID:    pathID,
			ProductID: node.Generate(),
			Name:      "Candidate",
			Price:     price,
			Quantity:  1,
			Position:  int32(i),
		}
		if i == 0 {
			product.ReplacesProductID = replaces
		}
		require.NoError(t, db.Create(&product).Error)
	}
	return pathID
}

func TestSummary_AgainstSeededPaths(t *testing.T) {
	svc, db, node := newService(t)
	ctx := context.Background()

	sourceID := snowflake.ID(42)
	pathID := seedPath(t, db, node, "Cloud Consolidation", &sourceID, 7700, 4000)

	summary, err := svc.Summary(ctx, domain.SummaryRequest{
		Products: []pricingdomain.ConfiguredProduct{
			{ProductID: 1, Price: 5000, Quantity: 1},
			{ProductID: 2, Price: 2500, Quantity: 1},
			{ProductID: 3, Price: 3000, Quantity: 1},
			{ProductID: 4, Price: 1500, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 12000.0, summary.CurrentValue)
	require.Len(t, summary.Paths, 1)
	assert.Equal(t, pathID, summary.Paths[0].ID)
	assert.Equal(t, 11700.0, summary.Paths[0].TotalValue)
	assert.Equal(t, -2.5, summary.Paths[0].PercentChange)
	assert.Empty(t, summary.NonMigratable)
}

func TestSummary_NonMigratableDefaultReason(t *testing.T) {
	svc, db, _ := newService(t)
	ctx := context.Background()

	// One product carries its own reason, one relies on the default text.
	require.NoError(t, db.Create(&domain.NonMigratableReason{
		ProductID: 7, Reason: "Discontinued platform",
	}).Error)
	require.NoError(t, db.Create(&domain.NonMigratableReason{
		ProductID: 8, Reason: "",
	}).Error)

	summary, err := svc.Summary(ctx, domain.SummaryRequest{
		Products: []pricingdomain.ConfiguredProduct{
			{ProductID: 7, Name: "Legacy Suite", Price: 100, Quantity: 1},
			{ProductID: 8, Name: "Legacy Addon", Price: 50, Quantity: 1},
			{ProductID: 9, Name: "Portable", Price: 25, Quantity: 1},
		},
	})
	require.NoError(t, err)

	require.Len(t, summary.NonMigratable, 2)
	assert.Equal(t, snowflake.ID(7), summary.NonMigratable[0].ProductID)
	assert.Equal(t, "Discontinued platform", summary.NonMigratable[0].Reason)
	assert.Equal(t, snowflake.ID(8), summary.NonMigratable[1].ProductID)
	assert.Equal(t, config.DefaultPricingConfig().DefaultNonMigratableText, summary.NonMigratable[1].Reason)
}

func TestSummary_RequiresSource(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Summary(context.Background(), domain.SummaryRequest{})
	assert.ErrorIs(t, err, domain.ErrNoSource)
}

func TestList_PreservesReplacesLink(t *testing.T) {
	svc, db, node := newService(t)
	ctx := context.Background()

	sourceID := snowflake.ID(42)
	seedPath(t, db, node, "Cloud Consolidation", &sourceID, 9000)

	views, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 9000.0, views[0].TotalValue)

	// The advisory link passes through untouched.
	products := views[0].ConfiguredProducts()
	require.Len(t, products, 1)
	require.NotNil(t, products[0].ReplacesProductID)
	assert.Equal(t, sourceID, *products[0].ReplacesProductID)
}

func TestList_FiltersByID(t *testing.T) {
	svc, db, node := newService(t)
	ctx := context.Background()

	first := seedPath(t, db, node, "First", nil, 100)
	seedPath(t, db, node, "Second", nil, 200)

	views, err := svc.List(ctx, domain.ListRequest{PathIDs: []snowflake.ID{first}})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "First", views[0].Title)
}
