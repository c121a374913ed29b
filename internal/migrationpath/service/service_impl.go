package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotient/internal/cloudmetrics"
	"github.com/smallbiznis/quotient/internal/config"
	"github.com/smallbiznis/quotient/internal/migrationpath/domain"
	obsmetrics "github.com/smallbiznis/quotient/internal/observability/metrics"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	pricingservice "github.com/smallbiznis/quotient/internal/pricing/service"
	quotedomain "github.com/smallbiznis/quotient/internal/quote/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	Repo       domain.Repository
	Quotes     quotedomain.Service
	PricingCfg *config.PricingConfigHolder
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type pathService struct {
	db         *gorm.DB
	log        *zap.Logger
	repo       domain.Repository
	quotes     quotedomain.Service
	pricingCfg *config.PricingConfigHolder
	metrics    *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &pathService{
		db:         p.DB,
		log:        p.Log.Named("migrationpath.service"),
		repo:       p.Repo,
		quotes:     p.Quotes,
		pricingCfg: p.PricingCfg,
		metrics:    p.Metrics,
	}
}

func (s *pathService) List(ctx context.Context, req domain.ListRequest) ([]domain.PathView, error) {
	paths, err := s.repo.FindAll(ctx, s.db, req.PathIDs)
	if err != nil {
		return nil, err
	}

	views := make([]domain.PathView, 0, len(paths))
	for _, path := range paths {
		views = append(views, domain.PathView{
			MigrationPath: path,
			TotalValue:    pricingservice.QuoteTotal(path.ConfiguredProducts(), pricingdomain.ListPrice),
		})
	}
	return views, nil
}

func (s *pathService) Summary(ctx context.Context, req domain.SummaryRequest) (*domain.MigrationSummary, error) {
	source, err := s.resolveSource(ctx, req)
	if err != nil {
		return nil, err
	}

	paths, err := s.repo.FindAll(ctx, s.db, req.PathIDs)
	if err != nil {
		return nil, err
	}

	candidates := make([]CandidateSet, 0, len(paths))
	for _, path := range paths {
		candidates = append(candidates, CandidateSet{
			ID:       path.ID,
			Title:    path.Title,
			Products: path.ConfiguredProducts(),
		})
	}

	summary := BuildSummary(source, candidates)

	reasons, err := s.reasonIndex(ctx)
	if err != nil {
		return nil, err
	}
	defaultText := s.pricingCfg.Get().DefaultNonMigratableText
	for _, product := range source {
		if IsMigratable(product.ProductID, reasons) {
			continue
		}
		summary.NonMigratable = append(summary.NonMigratable, domain.NonMigratableProduct{
			ProductID: product.ProductID,
			Name:      product.Name,
			Reason:    ReasonFor(product.ProductID, reasons, defaultText),
		})
	}

	s.metrics.RecordMigrationSummary(ctx, len(summary.Paths))
	cloudmetrics.RecordMigrationSummary()

	return &summary, nil
}

func (s *pathService) resolveSource(ctx context.Context, req domain.SummaryRequest) ([]pricingdomain.ConfiguredProduct, error) {
	if req.QuoteID != "" {
		quote, err := s.quotes.Get(ctx, req.QuoteID)
		if err != nil {
			return nil, err
		}
		return quote.ConfiguredProducts(), nil
	}
	if len(req.Products) == 0 {
		return nil, domain.ErrNoSource
	}
	return req.Products, nil
}

func (s *pathService) reasonIndex(ctx context.Context) (map[snowflake.ID]string, error) {
	reasons, err := s.repo.FindReasons(ctx, s.db)
	if err != nil {
		return nil, err
	}
	index := make(map[snowflake.ID]string, len(reasons))
	for _, reason := range reasons {
		index[reason.ProductID] = reason.Reason
	}
	return index, nil
}
