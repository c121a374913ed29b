package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotient/internal/catalog/domain"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) FindAll(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Product, error) {
	var products []domain.Product

	stmt := withCatalogTree(db.WithContext(ctx)).Order("code")
	if category := strings.TrimSpace(filter.Category); category != "" {
		stmt = stmt.Where("category = ?", strings.ToUpper(category))
	}
	if filter.Active != nil {
		stmt = stmt.Where("active = ?", *filter.Active)
	}

	if err := stmt.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := withCatalogTree(db.WithContext(ctx)).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// withCatalogTree preloads the full plan/charge/pricing/tier tree in its
// catalog order. Tier order matters to the evaluator.
func withCatalogTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("RatePlans", func(db *gorm.DB) *gorm.DB {
			return db.Order("rate_plans.position, rate_plans.id")
		}).
		Preload("RatePlans.Charges", func(db *gorm.DB) *gorm.DB {
			return db.Order("charges.position, charges.id")
		}).
		Preload("RatePlans.Charges.Pricings", func(db *gorm.DB) *gorm.DB {
			return db.Order("pricings.id")
		}).
		Preload("RatePlans.Charges.Pricings.Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("tiers.starting_unit")
		})
}
