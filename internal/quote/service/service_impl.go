package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/quotient/internal/cloudmetrics"
	"github.com/smallbiznis/quotient/internal/config"
	obsmetrics "github.com/smallbiznis/quotient/internal/observability/metrics"
	pricingdomain "github.com/smallbiznis/quotient/internal/pricing/domain"
	pricingservice "github.com/smallbiznis/quotient/internal/pricing/service"
	"github.com/smallbiznis/quotient/internal/quote/domain"
	"github.com/smallbiznis/quotient/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Pricing    pricingdomain.Service
	PricingCfg *config.PricingConfigHolder
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type quoteService struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	pricing    pricingdomain.Service
	pricingCfg *config.PricingConfigHolder
	metrics    *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &quoteService{
		db:         p.DB,
		log:        p.Log.Named("quote.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		pricing:    p.Pricing,
		pricingCfg: p.PricingCfg,
		metrics:    p.Metrics,
	}
}

func (s *quoteService) List(ctx context.Context, req domain.ListQuoteRequest) (domain.ListQuoteResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	quotes, err := s.repo.FindAll(ctx, s.db, domain.ListQuoteRequest{
		Status:    req.Status,
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListQuoteResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(quotes, pageSize, func(quote *domain.Quote) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        quote.ID.String(),
			CreatedAt: quote.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(quotes) > int(pageSize) {
		quotes = quotes[:pageSize]
	}

	views := make([]domain.QuoteView, 0, len(quotes))
	for _, quote := range quotes {
		if quote == nil {
			continue
		}
		views = append(views, s.view(ctx, *quote))
	}

	resp := domain.ListQuoteResponse{Quotes: views}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *quoteService) Create(ctx context.Context, req domain.CreateQuoteRequest) (*domain.QuoteView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = s.pricingCfg.Get().DefaultCurrency
	}

	quote := &domain.Quote{
		ID:        s.genID.Generate(),
		Reference: ulid.Make().String(),
		Name:      name,
		Status:    domain.QuoteDraft,
		Currency:  currency,
		Metadata:  req.Metadata,
	}

	if err := s.repo.Create(ctx, s.db, quote); err != nil {
		return nil, err
	}

	s.log.Info("quote created",
		zap.String("quote_id", quote.ID.String()),
		zap.String("reference", quote.Reference),
	)

	view := s.view(ctx, *quote)
	return &view, nil
}

func (s *quoteService) Get(ctx context.Context, id string) (*domain.QuoteView, error) {
	quote, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.view(ctx, *quote)
	return &view, nil
}

func (s *quoteService) AddProduct(ctx context.Context, quoteID string, req pricingdomain.ConfigureRequest) (*domain.QuoteView, error) {
	quote, err := s.find(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Currency) == "" {
		req.Currency = quote.Currency
	}

	configured, err := s.pricing.Configure(ctx, req)
	if err != nil {
		return nil, err
	}

	item := domain.ItemFromConfigured(*configured, int32(len(quote.Items)))
	item.ID = s.genID.Generate()
	item.QuoteID = quote.ID

	if err := s.repo.AddItem(ctx, s.db, &item); err != nil {
		return nil, err
	}

	return s.Get(ctx, quoteID)
}

func (s *quoteService) SetCustomerPrice(ctx context.Context, quoteID string, req domain.SetCustomerPriceRequest) (*domain.QuoteView, error) {
	quote, err := s.find(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	itemID, err := snowflake.ParseString(strings.TrimSpace(req.ItemID))
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	var item *domain.QuoteItem
	for i := range quote.Items {
		if quote.Items[i].ID == itemID {
			item = &quote.Items[i]
			break
		}
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	price := pricingservice.ParseCustomerPrice(req.CustomerPrice)
	if price > 0 {
		item.CustomerPrice = &price
	} else {
		item.CustomerPrice = nil
	}

	if err := s.repo.SaveItem(ctx, s.db, item); err != nil {
		return nil, err
	}

	return s.Get(ctx, quoteID)
}

func (s *quoteService) RemoveProduct(ctx context.Context, quoteID, itemID string) (*domain.QuoteView, error) {
	quote, err := s.find(ctx, quoteID)
	if err != nil {
		return nil, err
	}

	id, err := snowflake.ParseString(strings.TrimSpace(itemID))
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	found := false
	for _, item := range quote.Items {
		if item.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrItemNotFound
	}

	if err := s.repo.DeleteItem(ctx, s.db, quote.ID, id); err != nil {
		return nil, err
	}

	return s.Get(ctx, quoteID)
}

func (s *quoteService) Delete(ctx context.Context, id string) error {
	quote, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, quote.ID)
}

func (s *quoteService) find(ctx context.Context, raw string) (*domain.Quote, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	quote, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	return quote, nil
}

// view derives totals from the items on every read.
func (s *quoteService) view(ctx context.Context, quote domain.Quote) domain.QuoteView {
	products := quote.ConfiguredProducts()

	listTotal := pricingservice.QuoteTotal(products, pricingdomain.ListPrice)
	customerTotal := pricingservice.QuoteTotal(products, pricingdomain.EffectivePrice)

	s.metrics.RecordQuoteTotal(ctx, "list")
	s.metrics.RecordQuoteTotal(ctx, "effective")
	cloudmetrics.RecordQuotePricing("list")
	cloudmetrics.RecordQuotePricing("effective")

	return domain.QuoteView{
		Quote: quote,
		Totals: domain.QuoteTotals{
			ListTotal:       listTotal,
			CustomerTotal:   customerTotal,
			DiscountPercent: pricingservice.DiscountPercent(listTotal, customerTotal),
		},
	}
}
