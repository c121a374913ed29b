package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quotient/internal/migrationpath/domain"
	pkgrepository "github.com/smallbiznis/quotient/pkg/repository"
	"gorm.io/gorm"
)

type repository struct{}

func Provide() domain.Repository {
	return &repository{}
}

func (r *repository) FindAll(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.MigrationPath, error) {
	var paths []domain.MigrationPath

	stmt := db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB {
			return db.Order("migration_path_products.position, migration_path_products.id")
		}).
		Order("position, id")
	if len(ids) > 0 {
		stmt = stmt.Where("id IN ?", ids)
	}

	if err := stmt.Find(&paths).Error; err != nil {
		return nil, err
	}
	return paths, nil
}

func (r *repository) FindReasons(ctx context.Context, db *gorm.DB) ([]domain.NonMigratableReason, error) {
	store := pkgrepository.ProvideStore[domain.NonMigratableReason](db)
	rows, err := store.Find(ctx, &domain.NonMigratableReason{})
	if err != nil {
		return nil, err
	}

	reasons := make([]domain.NonMigratableReason, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		reasons = append(reasons, *row)
	}
	return reasons, nil
}
