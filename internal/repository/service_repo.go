package repository

import (
	"context"

	"lashstudio/internal/domain"

	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

type serviceModel struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	Name        string `gorm:"column:name"`
	Description string `gorm:"column:description"`
	Price       int64  `gorm:"column:price"`
	DurationMin int64  `gorm:"column:duration_min"`
	IsActive    bool   `gorm:"column:is_active;default:true"`
	SortOrder   int64  `gorm:"column:sort_order"`
	Class       string `gorm:"column:service_type;default:main"`
}

func (serviceModel) TableName() string { return "services" }

func toDomainService(m serviceModel) *domain.Service {
	return &domain.Service{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		DurationMin: m.DurationMin,
		IsActive:    m.IsActive,
		SortOrder:   m.SortOrder,
		Class:       domain.ServiceClass(m.Class),
	}
}

func toServiceModel(s *domain.Service) serviceModel {
	return serviceModel{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Price:       s.Price,
		DurationMin: s.DurationMin,
		IsActive:    s.IsActive,
		SortOrder:   s.SortOrder,
		Class:       string(s.Class),
	}
}

// ListActiveMain returns the bookable catalog in display order.
func (r *ServiceRepository) ListActiveMain(ctx context.Context) ([]domain.Service, error) {
	var ms []serviceModel
	tx := r.db.WithContext(ctx).
		Where("is_active = ? AND service_type = ?", true, string(domain.ServiceMain)).
		Order("sort_order ASC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Service, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainService(m))
	}
	return out, nil
}

// GetActiveAddon returns the active add-on service, or nil when none
// is configured.
func (r *ServiceRepository) GetActiveAddon(ctx context.Context) (*domain.Service, error) {
	var m serviceModel
	tx := r.db.WithContext(ctx).
		Where("is_active = ? AND service_type = ?", true, string(domain.ServiceAddon)).
		Order("id ASC").
		First(&m)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainService(m), nil
}

func (r *ServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	var m serviceModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainService(m), nil
}

func (r *ServiceRepository) ListAll(ctx context.Context) ([]domain.Service, error) {
	var ms []serviceModel
	tx := r.db.WithContext(ctx).Order("sort_order ASC").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Service, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainService(m))
	}
	return out, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.Service) error {
	m := toServiceModel(s)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*s = *toDomainService(m)
	return nil
}

// Update applies only the provided fields. Services are never hard
// deleted; deactivation goes through is_active.
func (r *ServiceRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (*domain.Service, error) {
	if len(fields) > 0 {
		tx := r.db.WithContext(ctx).Model(&serviceModel{}).Where("id = ?", id).Updates(fields)
		if tx.Error != nil {
			return nil, tx.Error
		}
	}
	return r.GetByID(ctx, id)
}
