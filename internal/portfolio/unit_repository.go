package portfolio

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rentdesk/internal/dbmysql"
)

type UnitRepository interface {
	CreateUnit(ctx context.Context, unit *dbmysql.Unit) error
	GetUnitByID(ctx context.Context, id string) (*dbmysql.Unit, error)
	ListUnitsByProperty(ctx context.Context, propertyID string) ([]*dbmysql.Unit, error)
	ListUnitsByProperties(ctx context.Context, propertyIDs []string) ([]*dbmysql.Unit, error)
	UpdateUnit(ctx context.Context, unit *dbmysql.Unit) error
	UpdateUnitStatus(ctx context.Context, id, status string) error
	DeleteUnit(ctx context.Context, id string) error
}

type unitRepository struct {
	db *gorm.DB
}

func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

func (r *unitRepository) CreateUnit(ctx context.Context, unit *dbmysql.Unit) error {
	return r.db.WithContext(ctx).Create(unit).Error
}

func (r *unitRepository) GetUnitByID(ctx context.Context, id string) (*dbmysql.Unit, error) {
	var unit dbmysql.Unit
	err := r.db.WithContext(ctx).First(&unit, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *unitRepository) ListUnitsByProperty(ctx context.Context, propertyID string) ([]*dbmysql.Unit, error) {
	var units []*dbmysql.Unit
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("unit_number ASC").
		Find(&units).Error
	return units, err
}

func (r *unitRepository) ListUnitsByProperties(ctx context.Context, propertyIDs []string) ([]*dbmysql.Unit, error) {
	if len(propertyIDs) == 0 {
		return nil, nil
	}
	var units []*dbmysql.Unit
	err := r.db.WithContext(ctx).
		Where("property_id IN ?", propertyIDs).
		Find(&units).Error
	return units, err
}

func (r *unitRepository) UpdateUnit(ctx context.Context, unit *dbmysql.Unit) error {
	return r.db.WithContext(ctx).Save(unit).Error
}

func (r *unitRepository) UpdateUnitStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Unit{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *unitRepository) DeleteUnit(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&dbmysql.Unit{}, "id = ?", id).Error
}
