// Package seed bootstraps a demo catalog so a fresh install can price quotes
// and compare migration paths without any manual data entry. Seeding is
// idempotent and skipped entirely once products exist.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	migrationpathdomain "github.com/smallbiznis/quotient/internal/migrationpath/domain"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	pkgdb "github.com/smallbiznis/quotient/pkg/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureDemoCatalog seeds demo products, rate plans, charges, pricings,
// migration paths and non-migratable reasons. It returns without touching the
// database when any product already exists.
func EnsureDemoCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var count int64
	if err := db.WithContext(ctx).Model(&catalogdomain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalog, err := seedCatalog(ctx, tx, node)
		if err != nil {
			return err
		}
		if err := seedMigrationPaths(ctx, tx, node, catalog); err != nil {
			return err
		}
		return seedNonMigratableReasons(ctx, tx, catalog)
	})
	// Another instance may have seeded between the count and the insert.
	if pkgdb.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}

// seededCatalog exposes the handful of products later seed steps link to.
type seededCatalog struct {
	enterpriseSuite catalogdomain.Product
	analyticsPro    catalogdomain.Product
	peopleHR        catalogdomain.Product
	connectCross    catalogdomain.Product
	saasSuite       catalogdomain.Product
	legacyReports   catalogdomain.Product
	archiveVault    catalogdomain.Product

	saasSuitePlan catalogdomain.RatePlan
}

func seedCatalog(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (seededCatalog, error) {
	now := time.Now().UTC()

	newProduct := func(name, description string, category catalogdomain.ProductCategory) catalogdomain.Product {
		return catalogdomain.Product{
			ID:          node.Generate(),
			Code:        slug.Make(name),
			Name:        name,
			Description: description,
			Category:    category,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	newPlan := func(product catalogdomain.Product, name, technology string, status catalogdomain.RatePlanStatus, position int32) catalogdomain.RatePlan {
		return catalogdomain.RatePlan{
			ID:         node.Generate(),
			ProductID:  product.ID,
			Name:       name,
			Technology: technology,
			Status:     status,
			Position:   position,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	newCharge := func(plan catalogdomain.RatePlan, name string, chargeType catalogdomain.ChargeType, model catalogdomain.ChargeModel, uom string, position int32) catalogdomain.Charge {
		charge := catalogdomain.Charge{
			ID:         node.Generate(),
			RatePlanID: plan.ID,
			Name:       name,
			Type:       chargeType,
			Model:      model,
			Position:   position,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if uom != "" {
			charge.UOM = &uom
		}
		return charge
	}
	newPricing := func(charge catalogdomain.Charge, currency string, price float64) catalogdomain.Pricing {
		return catalogdomain.Pricing{
			ID:        node.Generate(),
			ChargeID:  charge.ID,
			Currency:  currency,
			Price:     price,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	newTier := func(pricing catalogdomain.Pricing, start float64, end *float64, price float64) catalogdomain.Tier {
		return catalogdomain.Tier{
			ID:           node.Generate(),
			PricingID:    pricing.ID,
			StartingUnit: start,
			EndingUnit:   end,
			Price:        price,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}
	bound := func(v float64) *float64 { return &v }

	catalog := seededCatalog{
		enterpriseSuite: newProduct("Enterprise Suite", "Full-stack ERP suite for large organisations.", catalogdomain.CategoryEnterprise),
		analyticsPro:    newProduct("Analytics Professional", "Self-service reporting and dashboards.", catalogdomain.CategoryProfessional),
		peopleHR:        newProduct("People HR Cloud", "Core HR, payroll and absence management.", catalogdomain.CategoryHR),
		connectCross:    newProduct("Connect Cross Platform", "Integration bus connecting all product lines.", catalogdomain.CategoryCross),
		saasSuite:       newProduct("Enterprise Suite SaaS", "Cloud-native successor to the on-premise suite.", catalogdomain.CategoryEnterprise),
		legacyReports:   newProduct("Legacy Report Server", "Discontinued on-premise reporting server.", catalogdomain.CategoryProfessional),
		archiveVault:    newProduct("Archive Vault", "Long-term document archive appliance.", catalogdomain.CategoryCross),
	}

	products := []catalogdomain.Product{
		catalog.enterpriseSuite,
		catalog.analyticsPro,
		catalog.peopleHR,
		catalog.connectCross,
		catalog.saasSuite,
		catalog.legacyReports,
		catalog.archiveVault,
	}
	if err := tx.WithContext(ctx).Create(&products).Error; err != nil {
		return seededCatalog{}, err
	}

	var (
		plans    []catalogdomain.RatePlan
		charges  []catalogdomain.Charge
		pricings []catalogdomain.Pricing
		tiers    []catalogdomain.Tier
	)

	// Enterprise Suite: one plan per hosting technology plus a retired plan
	// that must stay out of default plan selection.
	suiteOnPrem := newPlan(catalog.enterpriseSuite, "Perpetual License", "On Premise", catalogdomain.RatePlanActive, 0)
	suiteSaaS := newPlan(catalog.enterpriseSuite, "Suite Subscription", "SAAS", catalogdomain.RatePlanActive, 1)
	suiteLegacy := newPlan(catalog.enterpriseSuite, "Hosted Legacy", "IAAS", catalogdomain.RatePlanExpired, 2)
	plans = append(plans, suiteOnPrem, suiteSaaS, suiteLegacy)

	onPremLicense := newCharge(suiteOnPrem, "Base License", catalogdomain.ChargeOneTime, catalogdomain.ModelFlatFee, "", 0)
	onPremMaint := newCharge(suiteOnPrem, "Annual Maintenance", catalogdomain.ChargeRecurring, catalogdomain.ModelFlatFee, "", 1)
	saasSeats := newCharge(suiteSaaS, "Named Users", catalogdomain.ChargeRecurring, catalogdomain.ModelPerUnit, "user", 0)
	legacyHosting := newCharge(suiteLegacy, "Hosting Fee", catalogdomain.ChargeRecurring, catalogdomain.ModelFlatFee, "", 0)
	charges = append(charges, onPremLicense, onPremMaint, saasSeats, legacyHosting)

	pricings = append(pricings,
		newPricing(onPremLicense, "USD", 12000),
		newPricing(onPremLicense, "EUR", 11000),
		newPricing(onPremMaint, "USD", 2400),
		newPricing(onPremMaint, "EUR", 2200),
		newPricing(saasSeats, "USD", 85),
		newPricing(saasSeats, "EUR", 79),
		newPricing(legacyHosting, "USD", 5000),
	)

	// Analytics Professional: volume pricing with bounded bands. Quantities
	// past the last band price to zero, matching evaluator behaviour.
	analyticsPlan := newPlan(catalog.analyticsPro, "Team Analytics", "", catalogdomain.RatePlanActive, 0)
	plans = append(plans, analyticsPlan)

	analystPacks := newCharge(analyticsPlan, "Analyst Packs", catalogdomain.ChargeRecurring, catalogdomain.ModelVolume, "pack", 0)
	charges = append(charges, analystPacks)

	analystPacksUSD := newPricing(analystPacks, "USD", 0)
	pricings = append(pricings, analystPacksUSD)
	tiers = append(tiers,
		newTier(analystPacksUSD, 1, bound(5), 100),
		newTier(analystPacksUSD, 6, bound(10), 180),
	)

	// People HR Cloud: per-employee subscription plus a volume onboarding
	// charge with an unbounded top band.
	hrPlan := newPlan(catalog.peopleHR, "Workforce Subscription", "SAAS", catalogdomain.RatePlanActive, 0)
	plans = append(plans, hrPlan)

	hrEmployees := newCharge(hrPlan, "Managed Employees", catalogdomain.ChargeRecurring, catalogdomain.ModelPerUnit, "employee", 0)
	hrOnboarding := newCharge(hrPlan, "Onboarding Batches", catalogdomain.ChargeUsage, catalogdomain.ModelVolume, "batch", 1)
	charges = append(charges, hrEmployees, hrOnboarding)

	hrOnboardingUSD := newPricing(hrOnboarding, "USD", 0)
	pricings = append(pricings,
		newPricing(hrEmployees, "USD", 12),
		newPricing(hrEmployees, "EUR", 11),
		hrOnboardingUSD,
	)
	tiers = append(tiers,
		newTier(hrOnboardingUSD, 1, bound(10), 900),
		newTier(hrOnboardingUSD, 11, nil, 700),
	)

	// Connect Cross Platform: single flat-fee plan.
	connectPlan := newPlan(catalog.connectCross, "Platform Connect", "SAAS", catalogdomain.RatePlanActive, 0)
	plans = append(plans, connectPlan)

	connectFee := newCharge(connectPlan, "Platform Fee", catalogdomain.ChargeRecurring, catalogdomain.ModelFlatFee, "", 0)
	charges = append(charges, connectFee)
	pricings = append(pricings,
		newPricing(connectFee, "USD", 1500),
		newPricing(connectFee, "EUR", 1400),
	)

	// Enterprise Suite SaaS: the migration target for the on-premise suite.
	targetPlan := newPlan(catalog.saasSuite, "Cloud Subscription", "SAAS", catalogdomain.RatePlanActive, 0)
	plans = append(plans, targetPlan)
	catalog.saasSuitePlan = targetPlan

	targetBase := newCharge(targetPlan, "Platform Subscription", catalogdomain.ChargeRecurring, catalogdomain.ModelFlatFee, "", 0)
	targetSeats := newCharge(targetPlan, "Named Users", catalogdomain.ChargeRecurring, catalogdomain.ModelPerUnit, "user", 1)
	charges = append(charges, targetBase, targetSeats)
	pricings = append(pricings,
		newPricing(targetBase, "USD", 9000),
		newPricing(targetBase, "EUR", 8400),
		newPricing(targetSeats, "USD", 60),
		newPricing(targetSeats, "EUR", 55),
	)

	// Legacy Report Server and Archive Vault stay priced but have no
	// replacement path; both feed the non-migratable list.
	legacyPlan := newPlan(catalog.legacyReports, "Server License", "On Premise", catalogdomain.RatePlanActive, 0)
	vaultPlan := newPlan(catalog.archiveVault, "Appliance License", "On Premise", catalogdomain.RatePlanActive, 0)
	plans = append(plans, legacyPlan, vaultPlan)

	legacyFee := newCharge(legacyPlan, "Server License", catalogdomain.ChargeOneTime, catalogdomain.ModelFlatFee, "", 0)
	vaultFee := newCharge(vaultPlan, "Appliance License", catalogdomain.ChargeOneTime, catalogdomain.ModelFlatFee, "", 0)
	charges = append(charges, legacyFee, vaultFee)
	pricings = append(pricings,
		newPricing(legacyFee, "USD", 3200),
		newPricing(vaultFee, "USD", 4800),
	)

	if err := tx.WithContext(ctx).Create(&plans).Error; err != nil {
		return seededCatalog{}, err
	}
	if err := tx.WithContext(ctx).Create(&charges).Error; err != nil {
		return seededCatalog{}, err
	}
	if err := tx.WithContext(ctx).Create(&pricings).Error; err != nil {
		return seededCatalog{}, err
	}
	if err := tx.WithContext(ctx).Create(&tiers).Error; err != nil {
		return seededCatalog{}, err
	}

	return catalog, nil
}

func seedMigrationPaths(ctx context.Context, tx *gorm.DB, node *snowflake.Node, catalog seededCatalog) error {
	now := time.Now().UTC()

	// Candidate charges are frozen at seed time the same way a configured
	// quote item freezes its evaluated charges.
	targetCharges, err := json.Marshal([]pricingdomain.ComputedCharge{
		{
			ID:              node.Generate(),
			Name:            "Platform Subscription",
			Type:            catalogdomain.ChargeRecurring,
			Model:           catalogdomain.ModelFlatFee,
			Value:           1,
			CalculatedPrice: 9000,
		},
	})
	if err != nil {
		return err
	}

	suiteID := catalog.enterpriseSuite.ID
	path := migrationpathdomain.MigrationPath{
		ID:          node.Generate(),
		Code:        slug.Make("Move to Enterprise Suite SaaS"),
		Title:       "Move to Enterprise Suite SaaS",
		Description: "Replace the on-premise suite with its cloud subscription.",
		Benefits: datatypes.JSONSlice[string]{
			"No upfront license spend",
			"Quarterly feature releases",
		},
		Position:  0,
		CreatedAt: now,
		UpdatedAt: now,
		Products: []migrationpathdomain.PathProduct{
			{
				ID:                node.Generate(),
				ProductID:         catalog.saasSuite.ID,
				Name:              catalog.saasSuite.Name,
				Description:       catalog.saasSuite.Description,
				Category:          catalog.saasSuite.Category,
				RatePlanID:        catalog.saasSuitePlan.ID,
				RatePlanName:      catalog.saasSuitePlan.Name,
				Charges:           datatypes.JSON(targetCharges),
				Price:             9000,
				Quantity:          1,
				ReplacesProductID: &suiteID,
				Position:          0,
				CreatedAt:         now,
				UpdatedAt:         now,
			},
		},
	}
	return tx.WithContext(ctx).Create(&path).Error
}

func seedNonMigratableReasons(ctx context.Context, tx *gorm.DB, catalog seededCatalog) error {
	now := time.Now().UTC()

	reasons := []migrationpathdomain.NonMigratableReason{
		{
			ProductID: catalog.legacyReports.ID,
			Reason:    "Reporting moved into Analytics Professional; historical reports need a manual export.",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			// Blank on purpose so the summary falls back to the default text.
			ProductID: catalog.archiveVault.ID,
			Reason:    "",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	return tx.WithContext(ctx).Create(&reasons).Error
}
