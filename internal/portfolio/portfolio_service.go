package portfolio

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"rentdesk/internal/common"
	"rentdesk/internal/dbmysql"
)

// PropertyView is a property plus the aggregates the dashboard cards need,
// computed from one batched units query instead of a query per property.
type PropertyView struct {
	dbmysql.Property
	UnitCount     int   `json:"unit_count"`
	OccupiedCount int   `json:"occupied_count"`
	MonthlyRent   int64 `json:"monthly_rent"`
}

type CreatePropertyParams struct {
	OrganizationID string
	Name           string
	Address        string
	City           string
	Type           string
}

type UpdatePropertyParams struct {
	Name    string
	Address string
	City    string
	Type    string
}

type CreateUnitParams struct {
	PropertyID string
	UnitNumber string
	Bedrooms   int
	Bathrooms  int
	RentAmount int64
}

type CreateTenantParams struct {
	OrganizationID string
	UserID         *string
	UnitID         *string
	Name           string
	Email          string
	Phone          string
	RentAmount     int64
}

type ListTenantsParams struct {
	OrganizationID string
	Status         string // "", active, ending, past
	SortBy         string // "", name, rent, date
}

var validPropertyTypes = map[string]bool{"apartment": true, "house": true, "commercial": true}
var validUnitStatuses = map[string]bool{"vacant": true, "occupied": true, "maintenance": true}
var validTenantStatuses = map[string]bool{"active": true, "ending": true, "past": true}

type PortfolioService interface {
	CreateProperty(ctx context.Context, p CreatePropertyParams) (*dbmysql.Property, error)
	GetProperty(ctx context.Context, orgID, propertyID string) (*PropertyView, error)
	ListProperties(ctx context.Context, orgID string) ([]*PropertyView, error)
	UpdateProperty(ctx context.Context, orgID, propertyID string, p UpdatePropertyParams) (*dbmysql.Property, error)
	DeleteProperty(ctx context.Context, orgID, propertyID string) error

	CreateUnit(ctx context.Context, orgID string, p CreateUnitParams) (*dbmysql.Unit, error)
	ListUnits(ctx context.Context, orgID, propertyID string) ([]*dbmysql.Unit, error)
	SetUnitStatus(ctx context.Context, orgID, unitID, status string) error
	DeleteUnit(ctx context.Context, orgID, unitID string) error

	CreateTenant(ctx context.Context, p CreateTenantParams) (*dbmysql.Tenant, error)
	GetTenant(ctx context.Context, orgID, tenantID string) (*dbmysql.Tenant, error)
	ListTenants(ctx context.Context, p ListTenantsParams) ([]*dbmysql.Tenant, error)
	UpdateTenant(ctx context.Context, orgID string, tenant *dbmysql.Tenant) error
	DeleteTenant(ctx context.Context, orgID, tenantID string) error
}

type portfolioService struct {
	properties PropertyRepository
	units      UnitRepository
	tenants    TenantRepository
}

func NewPortfolioService(properties PropertyRepository, units UnitRepository, tenants TenantRepository) PortfolioService {
	return &portfolioService{properties: properties, units: units, tenants: tenants}
}

func (s *portfolioService) CreateProperty(ctx context.Context, p CreatePropertyParams) (*dbmysql.Property, error) {
	if p.OrganizationID == "" {
		return nil, invalidf("organization id is required")
	}
	if err := common.ValidateName(p.Name); err != nil {
		return nil, invalidf("%v", err)
	}
	if p.Type == "" {
		p.Type = "apartment"
	}
	if !validPropertyTypes[p.Type] {
		return nil, invalidf("unknown property type %q", p.Type)
	}
	property := &dbmysql.Property{
		ID:             uuid.NewString(),
		OrganizationID: p.OrganizationID,
		Name:           strings.TrimSpace(p.Name),
		Address:        strings.TrimSpace(p.Address),
		City:           strings.TrimSpace(p.City),
		Type:           p.Type,
	}
	if err := s.properties.CreateProperty(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *portfolioService) GetProperty(ctx context.Context, orgID, propertyID string) (*PropertyView, error) {
	property, err := s.ownedProperty(ctx, orgID, propertyID)
	if err != nil {
		return nil, err
	}
	units, err := s.units.ListUnitsByProperty(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	view := &PropertyView{Property: *property}
	applyUnitAggregates(view, units)
	return view, nil
}

func (s *portfolioService) ListProperties(ctx context.Context, orgID string) ([]*PropertyView, error) {
	if orgID == "" {
		return nil, invalidf("organization id is required")
	}
	properties, err := s.properties.ListProperties(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return []*PropertyView{}, nil
	}
	ids := make([]string, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}
	units, err := s.units.ListUnitsByProperties(ctx, ids)
	if err != nil {
		return nil, err
	}
	byProperty := make(map[string][]*dbmysql.Unit, len(properties))
	for _, u := range units {
		byProperty[u.PropertyID] = append(byProperty[u.PropertyID], u)
	}
	views := make([]*PropertyView, 0, len(properties))
	for _, p := range properties {
		view := &PropertyView{Property: *p}
		applyUnitAggregates(view, byProperty[p.ID])
		views = append(views, view)
	}
	return views, nil
}

func (s *portfolioService) UpdateProperty(ctx context.Context, orgID, propertyID string, p UpdatePropertyParams) (*dbmysql.Property, error) {
	property, err := s.ownedProperty(ctx, orgID, propertyID)
	if err != nil {
		return nil, err
	}
	if p.Name != "" {
		if err := common.ValidateName(p.Name); err != nil {
			return nil, invalidf("%v", err)
		}
		property.Name = strings.TrimSpace(p.Name)
	}
	if p.Address != "" {
		property.Address = strings.TrimSpace(p.Address)
	}
	if p.City != "" {
		property.City = strings.TrimSpace(p.City)
	}
	if p.Type != "" {
		if !validPropertyTypes[p.Type] {
			return nil, invalidf("unknown property type %q", p.Type)
		}
		property.Type = p.Type
	}
	if err := s.properties.UpdateProperty(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (s *portfolioService) DeleteProperty(ctx context.Context, orgID, propertyID string) error {
	if _, err := s.ownedProperty(ctx, orgID, propertyID); err != nil {
		return err
	}
	return s.properties.DeleteProperty(ctx, propertyID)
}

func (s *portfolioService) CreateUnit(ctx context.Context, orgID string, p CreateUnitParams) (*dbmysql.Unit, error) {
	if _, err := s.ownedProperty(ctx, orgID, p.PropertyID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.UnitNumber) == "" {
		return nil, invalidf("unit number is required")
	}
	if p.RentAmount < 0 {
		return nil, invalidf("rent amount cannot be negative")
	}
	unit := &dbmysql.Unit{
		ID:         uuid.NewString(),
		PropertyID: p.PropertyID,
		UnitNumber: strings.TrimSpace(p.UnitNumber),
		Bedrooms:   p.Bedrooms,
		Bathrooms:  p.Bathrooms,
		RentAmount: p.RentAmount,
		Status:     "vacant",
	}
	if err := s.units.CreateUnit(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *portfolioService) ListUnits(ctx context.Context, orgID, propertyID string) ([]*dbmysql.Unit, error) {
	if _, err := s.ownedProperty(ctx, orgID, propertyID); err != nil {
		return nil, err
	}
	return s.units.ListUnitsByProperty(ctx, propertyID)
}

func (s *portfolioService) SetUnitStatus(ctx context.Context, orgID, unitID, status string) error {
	if !validUnitStatuses[status] {
		return invalidf("unknown unit status %q", status)
	}
	if _, err := s.ownedUnit(ctx, orgID, unitID); err != nil {
		return err
	}
	return s.units.UpdateUnitStatus(ctx, unitID, status)
}

func (s *portfolioService) DeleteUnit(ctx context.Context, orgID, unitID string) error {
	if _, err := s.ownedUnit(ctx, orgID, unitID); err != nil {
		return err
	}
	return s.units.DeleteUnit(ctx, unitID)
}

func (s *portfolioService) CreateTenant(ctx context.Context, p CreateTenantParams) (*dbmysql.Tenant, error) {
	if p.OrganizationID == "" {
		return nil, invalidf("organization id is required")
	}
	if err := common.ValidateName(p.Name); err != nil {
		return nil, invalidf("%v", err)
	}
	if p.Email != "" {
		if err := common.ValidateEmail(p.Email); err != nil {
			return nil, invalidf("%v", err)
		}
	}
	if p.UnitID != nil {
		unit, err := s.units.GetUnitByID(ctx, *p.UnitID)
		if err != nil {
			return nil, err
		}
		if unit == nil {
			return nil, invalidf("unit %s does not exist", *p.UnitID)
		}
	}
	tenant := &dbmysql.Tenant{
		ID:             uuid.NewString(),
		OrganizationID: p.OrganizationID,
		UserID:         p.UserID,
		UnitID:         p.UnitID,
		Name:           strings.TrimSpace(p.Name),
		Email:          strings.TrimSpace(p.Email),
		Phone:          strings.TrimSpace(p.Phone),
		RentAmount:     p.RentAmount,
		Status:         "active",
	}
	if err := s.tenants.CreateTenant(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}

func (s *portfolioService) GetTenant(ctx context.Context, orgID, tenantID string) (*dbmysql.Tenant, error) {
	return s.ownedTenant(ctx, orgID, tenantID)
}

func (s *portfolioService) ListTenants(ctx context.Context, p ListTenantsParams) ([]*dbmysql.Tenant, error) {
	if p.OrganizationID == "" {
		return nil, invalidf("organization id is required")
	}
	if p.Status != "" && !validTenantStatuses[p.Status] {
		return nil, invalidf("unknown tenant status %q", p.Status)
	}
	tenants, err := s.tenants.ListTenants(ctx, p.OrganizationID)
	if err != nil {
		return nil, err
	}
	if p.Status != "" {
		filtered := tenants[:0]
		for _, t := range tenants {
			if t.Status == p.Status {
				filtered = append(filtered, t)
			}
		}
		tenants = filtered
	}
	sortTenants(tenants, p.SortBy)
	if tenants == nil {
		tenants = []*dbmysql.Tenant{}
	}
	return tenants, nil
}

func (s *portfolioService) UpdateTenant(ctx context.Context, orgID string, tenant *dbmysql.Tenant) error {
	if tenant == nil || tenant.ID == "" {
		return invalidf("tenant id is required")
	}
	existing, err := s.ownedTenant(ctx, orgID, tenant.ID)
	if err != nil {
		return err
	}
	if tenant.Status != "" && !validTenantStatuses[tenant.Status] {
		return invalidf("unknown tenant status %q", tenant.Status)
	}
	tenant.OrganizationID = existing.OrganizationID
	tenant.CreatedAt = existing.CreatedAt
	return s.tenants.UpdateTenant(ctx, tenant)
}

func (s *portfolioService) DeleteTenant(ctx context.Context, orgID, tenantID string) error {
	if _, err := s.ownedTenant(ctx, orgID, tenantID); err != nil {
		return err
	}
	return s.tenants.DeleteTenant(ctx, tenantID)
}

// ownedProperty loads a property and rejects anything outside the caller's
// organization the same way as a miss, so IDs don't leak across orgs.
func (s *portfolioService) ownedProperty(ctx context.Context, orgID, propertyID string) (*dbmysql.Property, error) {
	if orgID == "" || propertyID == "" {
		return nil, invalidf("organization id and property id are required")
	}
	property, err := s.properties.GetPropertyByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil || property.OrganizationID != orgID {
		return nil, fmtNotFound("property")
	}
	return property, nil
}

func (s *portfolioService) ownedUnit(ctx context.Context, orgID, unitID string) (*dbmysql.Unit, error) {
	if orgID == "" || unitID == "" {
		return nil, invalidf("organization id and unit id are required")
	}
	unit, err := s.units.GetUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, fmtNotFound("unit")
	}
	if _, err := s.ownedProperty(ctx, orgID, unit.PropertyID); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *portfolioService) ownedTenant(ctx context.Context, orgID, tenantID string) (*dbmysql.Tenant, error) {
	if orgID == "" || tenantID == "" {
		return nil, invalidf("organization id and tenant id are required")
	}
	tenant, err := s.tenants.GetTenantByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil || tenant.OrganizationID != orgID {
		return nil, fmtNotFound("tenant")
	}
	return tenant, nil
}

func applyUnitAggregates(view *PropertyView, units []*dbmysql.Unit) {
	view.UnitCount = len(units)
	for _, u := range units {
		if u.Status == "occupied" {
			view.OccupiedCount++
			view.MonthlyRent += u.RentAmount
		}
	}
}

func sortTenants(tenants []*dbmysql.Tenant, sortBy string) {
	switch sortBy {
	case "name":
		sort.SliceStable(tenants, func(i, j int) bool {
			return strings.ToLower(tenants[i].Name) < strings.ToLower(tenants[j].Name)
		})
	case "rent":
		sort.SliceStable(tenants, func(i, j int) bool {
			return tenants[i].RentAmount > tenants[j].RentAmount
		})
	case "date", "":
		// repository already returns newest first
	}
}
