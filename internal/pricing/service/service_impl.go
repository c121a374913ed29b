package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/quotient/internal/cache"
	catalogdomain "github.com/smallbiznis/quotient/internal/catalog/domain"
	"github.com/smallbiznis/quotient/internal/cloudmetrics"
	"github.com/smallbiznis/quotient/internal/config"
	obsmetrics "github.com/smallbiznis/quotient/internal/observability/metrics"
	"github.com/smallbiznis/quotient/internal/pricing/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Catalog    catalogdomain.Service
	PricingCfg *config.PricingConfigHolder
	Cache      *cache.CatalogCache `optional:"true"`
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

// Engine prices products against the catalog. All math lives in the pure
// package functions; the engine only resolves inputs and applies defaults.
type Engine struct {
	log        *zap.Logger
	catalog    catalogdomain.Service
	pricingCfg *config.PricingConfigHolder
	cache      *cache.CatalogCache
	metrics    *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Engine{
		log:        p.Log.Named("pricing.engine"),
		catalog:    p.Catalog,
		pricingCfg: p.PricingCfg,
		cache:      p.Cache,
		metrics:    p.Metrics,
	}
}

func (e *Engine) Configure(ctx context.Context, req domain.ConfigureRequest) (*domain.ConfiguredProduct, error) {
	if req.ProductID == 0 {
		return nil, domain.ErrInvalidProduct
	}

	productID := req.ProductID.String()
	product, ok := e.cache.GetProduct(productID)
	if !ok {
		var err error
		product, err = e.catalog.Get(ctx, productID)
		if err != nil {
			if err == catalogdomain.ErrNotFound || err == catalogdomain.ErrInvalidID {
				return nil, domain.ErrProductNotFound
			}
			cloudmetrics.RecordEngineError("catalog_lookup")
			return nil, err
		}
		e.cache.SetProduct(productID, product)
	}

	defaults := e.pricingCfg.Get()

	includeExpired := defaults.IncludeExpiredPlans
	if req.IncludeExpired != nil {
		includeExpired = *req.IncludeExpired
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaults.DefaultCurrency
	}

	plan, err := e.resolvePlan(product, req, includeExpired)
	if err != nil {
		return nil, err
	}

	charges := ComputeCharges(*plan, req.Quantities, currency)
	listPrice := PlanTotal(*plan, req.Quantities, currency)

	for _, charge := range charges {
		e.metrics.RecordChargeEvaluation(ctx, string(charge.Model))
		cloudmetrics.RecordChargeEvaluation(string(charge.Model))
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = defaults.DefaultQuantity
	}
	if quantity <= 0 {
		quantity = 1
	}

	configured := &domain.ConfiguredProduct{
		ProductID:   product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		RatePlan: domain.RatePlanRef{
			ID:          plan.ID,
			Name:        plan.Name,
			Description: plan.Description,
		},
		Charges:  charges,
		Price:    listPrice,
		Quantity: quantity,
	}

	if req.CustomerPrice != nil {
		override := ParseCustomerPrice(*req.CustomerPrice)
		configured.CustomerPrice = &override
	}

	e.log.Debug("configured product",
		zap.String("product_id", product.ID.String()),
		zap.String("rate_plan_id", plan.ID.String()),
		zap.String("currency", currency),
		zap.Float64("list_price", listPrice),
	)

	return configured, nil
}

func (e *Engine) resolvePlan(product *catalogdomain.Product, req domain.ConfigureRequest, includeExpired bool) (*catalogdomain.RatePlan, error) {
	if req.RatePlanID != nil {
		for i := range product.RatePlans {
			plan := product.RatePlans[i]
			if plan.ID != *req.RatePlanID {
				continue
			}
			if plan.Status == catalogdomain.RatePlanExpired && !includeExpired {
				return nil, domain.ErrPlanNotFound
			}
			return &plan, nil
		}
		return nil, domain.ErrPlanNotFound
	}

	groups := GroupByTechnology(product.RatePlans)

	if technology := strings.TrimSpace(req.Technology); technology != "" {
		plans := SelectPlans(groups, technology, includeExpired)
		if len(plans) == 0 {
			return nil, domain.ErrPlanNotFound
		}
		plan := plans[0]
		return &plan, nil
	}

	_, plan := DefaultSelection(groups, includeExpired)
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	return plan, nil
}
