package repository

import (
	"context"

	"shop/internal/domain/model"
)

type CategoryRepository interface {
	ListActive(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
}
