package catalog

import (
	"context"
	"errors"

	"lashstudio/internal/domain"

	"gorm.io/gorm"
)

type Service struct {
	services ServiceRepository
}

func NewService(services ServiceRepository) *Service {
	return &Service{services: services}
}

// ListActive returns the active main services in display order.
func (s *Service) ListActive(ctx context.Context) ([]domain.Service, error) {
	return s.services.ListActiveMain(ctx)
}

// AddonInfo describes the current addon offering, if any is active.
func (s *Service) AddonInfo(ctx context.Context) (*AddonInfoResponse, error) {
	addon, err := s.services.GetActiveAddon(ctx)
	if err != nil {
		return nil, err
	}
	if addon == nil {
		return &AddonInfoResponse{Available: false}, nil
	}
	return &AddonInfoResponse{
		Available: true,
		Name:      addon.Name,
		Price:     addon.Price,
	}, nil
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Service, error) {
	return s.services.ListAll(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateServiceRequest) (*domain.Service, error) {
	class := domain.ServiceClass(req.Class)
	if class == "" {
		class = domain.ServiceMain
	}
	if class != domain.ServiceMain && class != domain.ServiceAddon {
		return nil, ErrValidation
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	svc := &domain.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		DurationMin: req.DurationMin,
		IsActive:    active,
		SortOrder:   req.SortOrder,
		Class:       class,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateServiceRequest) (*domain.Service, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, ErrValidation
		}
		fields["price"] = *req.Price
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			return nil, ErrValidation
		}
		fields["duration_min"] = *req.DurationMin
	}
	if req.SortOrder != nil {
		fields["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}

	updated, err := s.services.Update(ctx, id, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}
