package leasing

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rentdesk/internal/dbmysql"
)

type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *dbmysql.Application) error
	GetApplicationByID(ctx context.Context, id string) (*dbmysql.Application, error)
	ListApplications(ctx context.Context, organizationID string) ([]*dbmysql.Application, error)
	UpdateApplicationStatus(ctx context.Context, id, status string) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) CreateApplication(ctx context.Context, app *dbmysql.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepository) GetApplicationByID(ctx context.Context, id string) (*dbmysql.Application, error) {
	var app dbmysql.Application
	err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) ListApplications(ctx context.Context, organizationID string) ([]*dbmysql.Application, error) {
	var apps []*dbmysql.Application
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *applicationRepository) UpdateApplicationStatus(ctx context.Context, id, status string) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}
