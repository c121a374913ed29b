package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindAll(ctx context.Context, db *gorm.DB, filter ListQuoteRequest) ([]*Quote, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Quote, error)
	Create(ctx context.Context, db *gorm.DB, quote *Quote) error
	Save(ctx context.Context, db *gorm.DB, quote *Quote) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	AddItem(ctx context.Context, db *gorm.DB, item *QuoteItem) error
	SaveItem(ctx context.Context, db *gorm.DB, item *QuoteItem) error
	DeleteItem(ctx context.Context, db *gorm.DB, quoteID, itemID snowflake.ID) error
}
