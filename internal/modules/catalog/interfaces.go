package catalog

import (
	"context"

	"lashstudio/internal/domain"
)

type ServiceRepository interface {
	ListActiveMain(ctx context.Context) ([]domain.Service, error)
	GetActiveAddon(ctx context.Context) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	ListAll(ctx context.Context) ([]domain.Service, error)
	Create(ctx context.Context, s *domain.Service) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) (*domain.Service, error)
}
