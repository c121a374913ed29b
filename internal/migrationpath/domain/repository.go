package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindAll(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]MigrationPath, error)
	FindReasons(ctx context.Context, db *gorm.DB) ([]NonMigratableReason, error)
}
