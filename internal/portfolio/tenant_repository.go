package portfolio

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rentdesk/internal/dbmysql"
)

type TenantRepository interface {
	CreateTenant(ctx context.Context, tenant *dbmysql.Tenant) error
	GetTenantByID(ctx context.Context, id string) (*dbmysql.Tenant, error)
	ListTenants(ctx context.Context, organizationID string) ([]*dbmysql.Tenant, error)
	UpdateTenant(ctx context.Context, tenant *dbmysql.Tenant) error
	DeleteTenant(ctx context.Context, id string) error
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) CreateTenant(ctx context.Context, tenant *dbmysql.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepository) GetTenantByID(ctx context.Context, id string) (*dbmysql.Tenant, error) {
	var tenant dbmysql.Tenant
	err := r.db.WithContext(ctx).First(&tenant, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) ListTenants(ctx context.Context, organizationID string) ([]*dbmysql.Tenant, error) {
	var tenants []*dbmysql.Tenant
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&tenants).Error
	return tenants, err
}

func (r *tenantRepository) UpdateTenant(ctx context.Context, tenant *dbmysql.Tenant) error {
	return r.db.WithContext(ctx).Save(tenant).Error
}

func (r *tenantRepository) DeleteTenant(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&dbmysql.Tenant{}, "id = ?", id).Error
}
