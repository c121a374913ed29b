package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotient/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Product, error) {
	category := strings.ToUpper(strings.TrimSpace(req.Category))
	if category != "" && !validCategory(category) {
		return nil, domain.ErrInvalidCategory
	}

	return s.repo.FindAll(ctx, s.db, domain.ListRequest{
		Category: category,
		Active:   req.Active,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	product, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func validCategory(category string) bool {
	switch domain.ProductCategory(category) {
	case domain.CategoryEnterprise, domain.CategoryProfessional, domain.CategoryHR, domain.CategoryCross:
		return true
	default:
		return false
	}
}
