package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
}

type ListRequest struct {
	Category string
	Active   *bool
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidCategory = errors.New("invalid_category")
	ErrNotFound        = errors.New("not_found")
)
