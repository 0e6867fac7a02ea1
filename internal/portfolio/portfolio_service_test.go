package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentdesk/internal/dbmysql"
)

type fakePropertyRepo struct {
	createFn func(ctx context.Context, p *dbmysql.Property) error
	getFn    func(ctx context.Context, id string) (*dbmysql.Property, error)
	listFn   func(ctx context.Context, orgID string) ([]*dbmysql.Property, error)
	updateFn func(ctx context.Context, p *dbmysql.Property) error
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakePropertyRepo) CreateProperty(ctx context.Context, p *dbmysql.Property) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}
func (f *fakePropertyRepo) GetPropertyByID(ctx context.Context, id string) (*dbmysql.Property, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, nil
}
func (f *fakePropertyRepo) ListProperties(ctx context.Context, orgID string) ([]*dbmysql.Property, error) {
	if f.listFn != nil {
		return f.listFn(ctx, orgID)
	}
	return nil, nil
}
func (f *fakePropertyRepo) UpdateProperty(ctx context.Context, p *dbmysql.Property) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, p)
	}
	return nil
}
func (f *fakePropertyRepo) DeleteProperty(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeUnitRepo struct {
	createFn       func(ctx context.Context, u *dbmysql.Unit) error
	getFn          func(ctx context.Context, id string) (*dbmysql.Unit, error)
	listFn         func(ctx context.Context, propertyID string) ([]*dbmysql.Unit, error)
	listBatchFn    func(ctx context.Context, propertyIDs []string) ([]*dbmysql.Unit, error)
	updateStatusFn func(ctx context.Context, id, status string) error
}

func (f *fakeUnitRepo) CreateUnit(ctx context.Context, u *dbmysql.Unit) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}
func (f *fakeUnitRepo) GetUnitByID(ctx context.Context, id string) (*dbmysql.Unit, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeUnitRepo) ListUnitsByProperty(ctx context.Context, propertyID string) ([]*dbmysql.Unit, error) {
	if f.listFn != nil {
		return f.listFn(ctx, propertyID)
	}
	return nil, nil
}
func (f *fakeUnitRepo) ListUnitsByProperties(ctx context.Context, propertyIDs []string) ([]*dbmysql.Unit, error) {
	if f.listBatchFn != nil {
		return f.listBatchFn(ctx, propertyIDs)
	}
	return nil, nil
}
func (f *fakeUnitRepo) UpdateUnit(ctx context.Context, u *dbmysql.Unit) error { return nil }
func (f *fakeUnitRepo) UpdateUnitStatus(ctx context.Context, id, status string) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}
func (f *fakeUnitRepo) DeleteUnit(ctx context.Context, id string) error { return nil }

type fakeTenantRepo struct {
	createFn func(ctx context.Context, t *dbmysql.Tenant) error
	getFn    func(ctx context.Context, id string) (*dbmysql.Tenant, error)
	listFn   func(ctx context.Context, orgID string) ([]*dbmysql.Tenant, error)
	updateFn func(ctx context.Context, t *dbmysql.Tenant) error
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeTenantRepo) CreateTenant(ctx context.Context, t *dbmysql.Tenant) error {
	if f.createFn != nil {
		return f.createFn(ctx, t)
	}
	return nil
}
func (f *fakeTenantRepo) GetTenantByID(ctx context.Context, id string) (*dbmysql.Tenant, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeTenantRepo) ListTenants(ctx context.Context, orgID string) ([]*dbmysql.Tenant, error) {
	if f.listFn != nil {
		return f.listFn(ctx, orgID)
	}
	return nil, nil
}
func (f *fakeTenantRepo) UpdateTenant(ctx context.Context, t *dbmysql.Tenant) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, t)
	}
	return nil
}
func (f *fakeTenantRepo) DeleteTenant(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func newService(props *fakePropertyRepo, units *fakeUnitRepo, tenants *fakeTenantRepo) PortfolioService {
	if props == nil {
		props = &fakePropertyRepo{}
	}
	if units == nil {
		units = &fakeUnitRepo{}
	}
	if tenants == nil {
		tenants = &fakeTenantRepo{}
	}
	return NewPortfolioService(props, units, tenants)
}

func TestCreateProperty(t *testing.T) {
	tests := []struct {
		name    string
		params  CreatePropertyParams
		wantErr string
	}{
		{
			name:   "success with default type",
			params: CreatePropertyParams{OrganizationID: "org-1", Name: "Sunset Apartments"},
		},
		{
			name:    "missing org",
			params:  CreatePropertyParams{Name: "Sunset Apartments"},
			wantErr: "organization id",
		},
		{
			name:    "empty name",
			params:  CreatePropertyParams{OrganizationID: "org-1", Name: "  "},
			wantErr: "name",
		},
		{
			name:    "unknown type",
			params:  CreatePropertyParams{OrganizationID: "org-1", Name: "Sunset", Type: "castle"},
			wantErr: "unknown property type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saved *dbmysql.Property
			props := &fakePropertyRepo{createFn: func(_ context.Context, p *dbmysql.Property) error {
				saved = p
				return nil
			}}
			svc := newService(props, nil, nil)

			property, err := svc.CreateProperty(context.Background(), tt.params)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalid))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, saved)
			assert.NotEmpty(t, property.ID)
			assert.Equal(t, "apartment", property.Type)
		})
	}
}

func TestListPropertiesAggregatesUnits(t *testing.T) {
	props := &fakePropertyRepo{listFn: func(_ context.Context, orgID string) ([]*dbmysql.Property, error) {
		return []*dbmysql.Property{
			{ID: "prop-1", OrganizationID: orgID, Name: "Sunset"},
			{ID: "prop-2", OrganizationID: orgID, Name: "Harbor"},
		}, nil
	}}
	var batchCalls int
	units := &fakeUnitRepo{listBatchFn: func(_ context.Context, propertyIDs []string) ([]*dbmysql.Unit, error) {
		batchCalls++
		assert.ElementsMatch(t, []string{"prop-1", "prop-2"}, propertyIDs)
		return []*dbmysql.Unit{
			{ID: "u-1", PropertyID: "prop-1", Status: "occupied", RentAmount: 150000},
			{ID: "u-2", PropertyID: "prop-1", Status: "vacant", RentAmount: 120000},
			{ID: "u-3", PropertyID: "prop-2", Status: "occupied", RentAmount: 90000},
		}, nil
	}}
	svc := newService(props, units, nil)

	views, err := svc.ListProperties(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 1, batchCalls, "all units should come from one batched query")

	assert.Equal(t, 2, views[0].UnitCount)
	assert.Equal(t, 1, views[0].OccupiedCount)
	assert.Equal(t, int64(150000), views[0].MonthlyRent)
	assert.Equal(t, 1, views[1].UnitCount)
	assert.Equal(t, int64(90000), views[1].MonthlyRent)
}

func TestListPropertiesEmpty(t *testing.T) {
	props := &fakePropertyRepo{listFn: func(_ context.Context, _ string) ([]*dbmysql.Property, error) {
		return nil, nil
	}}
	units := &fakeUnitRepo{listBatchFn: func(_ context.Context, _ []string) ([]*dbmysql.Unit, error) {
		t.Fatal("no units query expected for an empty portfolio")
		return nil, nil
	}}
	svc := newService(props, units, nil)

	views, err := svc.ListProperties(context.Background(), "org-1")
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestGetPropertyCrossOrg(t *testing.T) {
	props := &fakePropertyRepo{getFn: func(_ context.Context, id string) (*dbmysql.Property, error) {
		return &dbmysql.Property{ID: id, OrganizationID: "other-org"}, nil
	}}
	svc := newService(props, nil, nil)

	_, err := svc.GetProperty(context.Background(), "org-1", "prop-1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateUnit(t *testing.T) {
	props := &fakePropertyRepo{getFn: func(_ context.Context, id string) (*dbmysql.Property, error) {
		if id == "prop-1" {
			return &dbmysql.Property{ID: "prop-1", OrganizationID: "org-1"}, nil
		}
		return nil, nil
	}}

	t.Run("success starts vacant", func(t *testing.T) {
		units := &fakeUnitRepo{}
		svc := newService(props, units, nil)
		unit, err := svc.CreateUnit(context.Background(), "org-1", CreateUnitParams{
			PropertyID: "prop-1",
			UnitNumber: "4B",
			RentAmount: 120000,
		})
		require.NoError(t, err)
		assert.Equal(t, "vacant", unit.Status)
		assert.Equal(t, "4B", unit.UnitNumber)
	})

	t.Run("missing unit number", func(t *testing.T) {
		svc := newService(props, &fakeUnitRepo{}, nil)
		_, err := svc.CreateUnit(context.Background(), "org-1", CreateUnitParams{PropertyID: "prop-1"})
		assert.True(t, errors.Is(err, ErrInvalid))
	})

	t.Run("property from another org", func(t *testing.T) {
		svc := newService(props, &fakeUnitRepo{}, nil)
		_, err := svc.CreateUnit(context.Background(), "org-2", CreateUnitParams{PropertyID: "prop-1", UnitNumber: "1A"})
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestSetUnitStatus(t *testing.T) {
	props := &fakePropertyRepo{getFn: func(_ context.Context, id string) (*dbmysql.Property, error) {
		return &dbmysql.Property{ID: id, OrganizationID: "org-1"}, nil
	}}
	units := &fakeUnitRepo{
		getFn: func(_ context.Context, id string) (*dbmysql.Unit, error) {
			return &dbmysql.Unit{ID: id, PropertyID: "prop-1", Status: "vacant"}, nil
		},
	}

	t.Run("valid transition", func(t *testing.T) {
		var gotStatus string
		units.updateStatusFn = func(_ context.Context, _, status string) error {
			gotStatus = status
			return nil
		}
		svc := newService(props, units, nil)
		require.NoError(t, svc.SetUnitStatus(context.Background(), "org-1", "u-1", "maintenance"))
		assert.Equal(t, "maintenance", gotStatus)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := newService(props, units, nil)
		err := svc.SetUnitStatus(context.Background(), "org-1", "u-1", "demolished")
		assert.True(t, errors.Is(err, ErrInvalid))
	})
}

func TestCreateTenant(t *testing.T) {
	units := &fakeUnitRepo{getFn: func(_ context.Context, id string) (*dbmysql.Unit, error) {
		if id == "u-1" {
			return &dbmysql.Unit{ID: "u-1", PropertyID: "prop-1"}, nil
		}
		return nil, nil
	}}
	unitID := "u-1"
	ghostUnit := "u-404"

	tests := []struct {
		name    string
		params  CreateTenantParams
		wantErr string
	}{
		{
			name:   "success",
			params: CreateTenantParams{OrganizationID: "org-1", Name: "Riya Kapoor", Email: "riya@example.com", UnitID: &unitID},
		},
		{
			name:    "bad email",
			params:  CreateTenantParams{OrganizationID: "org-1", Name: "Riya", Email: "not-an-email"},
			wantErr: "email",
		},
		{
			name:    "unit does not exist",
			params:  CreateTenantParams{OrganizationID: "org-1", Name: "Riya", UnitID: &ghostUnit},
			wantErr: "does not exist",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(nil, units, &fakeTenantRepo{})
			tenant, err := svc.CreateTenant(context.Background(), tt.params)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "active", tenant.Status)
			assert.NotEmpty(t, tenant.ID)
		})
	}
}

func TestListTenantsFilterAndSort(t *testing.T) {
	now := time.Now()
	tenants := &fakeTenantRepo{listFn: func(_ context.Context, _ string) ([]*dbmysql.Tenant, error) {
		return []*dbmysql.Tenant{
			{ID: "t-1", Name: "zoya", Status: "active", RentAmount: 90000, CreatedAt: now},
			{ID: "t-2", Name: "Aman", Status: "past", RentAmount: 150000, CreatedAt: now.Add(-time.Hour)},
			{ID: "t-3", Name: "meera", Status: "active", RentAmount: 120000, CreatedAt: now.Add(-2 * time.Hour)},
		}, nil
	}}
	svc := newService(nil, nil, tenants)

	t.Run("filter active", func(t *testing.T) {
		got, err := svc.ListTenants(context.Background(), ListTenantsParams{OrganizationID: "org-1", Status: "active"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, tn := range got {
			assert.Equal(t, "active", tn.Status)
		}
	})

	t.Run("sort by name is case-insensitive", func(t *testing.T) {
		got, err := svc.ListTenants(context.Background(), ListTenantsParams{OrganizationID: "org-1", SortBy: "name"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Aman", got[0].Name)
		assert.Equal(t, "meera", got[1].Name)
		assert.Equal(t, "zoya", got[2].Name)
	})

	t.Run("sort by rent descending", func(t *testing.T) {
		got, err := svc.ListTenants(context.Background(), ListTenantsParams{OrganizationID: "org-1", SortBy: "rent"})
		require.NoError(t, err)
		assert.Equal(t, int64(150000), got[0].RentAmount)
		assert.Equal(t, int64(90000), got[2].RentAmount)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		_, err := svc.ListTenants(context.Background(), ListTenantsParams{OrganizationID: "org-1", Status: "evicted"})
		assert.True(t, errors.Is(err, ErrInvalid))
	})
}

func TestUpdateTenantKeepsOrgAndCreatedAt(t *testing.T) {
	created := time.Now().Add(-24 * time.Hour)
	tenants := &fakeTenantRepo{
		getFn: func(_ context.Context, id string) (*dbmysql.Tenant, error) {
			return &dbmysql.Tenant{ID: id, OrganizationID: "org-1", Name: "Riya", CreatedAt: created}, nil
		},
	}
	var saved *dbmysql.Tenant
	tenants.updateFn = func(_ context.Context, tn *dbmysql.Tenant) error {
		saved = tn
		return nil
	}
	svc := newService(nil, nil, tenants)

	err := svc.UpdateTenant(context.Background(), "org-1", &dbmysql.Tenant{
		ID:             "t-1",
		OrganizationID: "org-spoofed",
		Name:           "Riya K",
		Status:         "ending",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "org-1", saved.OrganizationID)
	assert.Equal(t, created, saved.CreatedAt)
	assert.Equal(t, "ending", saved.Status)
}

func TestDeleteTenantNotFound(t *testing.T) {
	tenants := &fakeTenantRepo{getFn: func(_ context.Context, _ string) (*dbmysql.Tenant, error) {
		return nil, nil
	}}
	svc := newService(nil, nil, tenants)

	err := svc.DeleteTenant(context.Background(), "org-1", "t-404")
	assert.True(t, errors.Is(err, ErrNotFound))
}
