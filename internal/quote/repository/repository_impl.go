package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotient/internal/quote/domain"
	"github.com/smallbiznis/quotient/pkg/db/option"
	"github.com/smallbiznis/quotient/pkg/db/pagination"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) FindAll(ctx context.Context, db *gorm.DB, filter domain.ListQuoteRequest) ([]*domain.Quote, error) {
	var quotes []*domain.Quote

	stmt := withItems(db.WithContext(ctx))
	if status := strings.TrimSpace(filter.Status); status != "" {
		stmt = stmt.Where("status = ?", strings.ToUpper(status))
	}
	stmt = option.ApplyPagination(pagination.Pagination{
		PageToken: filter.PageToken,
		PageSize:  int(filter.PageSize),
	}).Apply(stmt)

	if err := stmt.Order("created_at DESC, id DESC").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Quote, error) {
	var quote domain.Quote
	err := withItems(db.WithContext(ctx)).First(&quote, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quote, nil
}

func (r *repository) Create(ctx context.Context, db *gorm.DB, quote *domain.Quote) error {
	return db.WithContext(ctx).Create(quote).Error
}

func (r *repository) Save(ctx context.Context, db *gorm.DB, quote *domain.Quote) error {
	return db.WithContext(ctx).Omit("Items").Save(quote).Error
}

func (r *repository) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quote_id = ?", id).Delete(&domain.QuoteItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Quote{}, "id = ?", id).Error
	})
}

func (r *repository) AddItem(ctx context.Context, db *gorm.DB, item *domain.QuoteItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repository) SaveItem(ctx context.Context, db *gorm.DB, item *domain.QuoteItem) error {
	return db.WithContext(ctx).Save(item).Error
}

func (r *repository) DeleteItem(ctx context.Context, db *gorm.DB, quoteID, itemID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("quote_id = ? AND id = ?", quoteID, itemID).
		Delete(&domain.QuoteItem{}).Error
}

// withItems preloads items in the order they were added.
func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("quote_items.position, quote_items.id")
	})
}
