package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindAll(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Product, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
}
