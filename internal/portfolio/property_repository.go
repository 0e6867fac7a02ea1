package portfolio

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rentdesk/internal/dbmysql"
)

type PropertyRepository interface {
	CreateProperty(ctx context.Context, property *dbmysql.Property) error
	GetPropertyByID(ctx context.Context, id string) (*dbmysql.Property, error)
	ListProperties(ctx context.Context, organizationID string) ([]*dbmysql.Property, error)
	UpdateProperty(ctx context.Context, property *dbmysql.Property) error
	DeleteProperty(ctx context.Context, id string) error
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) CreateProperty(ctx context.Context, property *dbmysql.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) GetPropertyByID(ctx context.Context, id string) (*dbmysql.Property, error) {
	var property dbmysql.Property
	err := r.db.WithContext(ctx).First(&property, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertyRepository) ListProperties(ctx context.Context, organizationID string) ([]*dbmysql.Property, error) {
	var properties []*dbmysql.Property
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&properties).Error
	return properties, err
}

func (r *propertyRepository) UpdateProperty(ctx context.Context, property *dbmysql.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

func (r *propertyRepository) DeleteProperty(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&dbmysql.Property{}, "id = ?", id).Error
}
