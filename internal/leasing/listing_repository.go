package leasing

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rentdesk/internal/dbmysql"
)

type ListingRepository interface {
	CreateListing(ctx context.Context, listing *dbmysql.Listing) error
	GetListingByID(ctx context.Context, id string) (*dbmysql.Listing, error)
	ListListings(ctx context.Context, organizationID string) ([]*dbmysql.Listing, error)
	ListPublishedListings(ctx context.Context) ([]*dbmysql.Listing, error)
	UpdateListing(ctx context.Context, listing *dbmysql.Listing) error
	DeleteListing(ctx context.Context, id string) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) CreateListing(ctx context.Context, listing *dbmysql.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *listingRepository) GetListingByID(ctx context.Context, id string) (*dbmysql.Listing, error) {
	var listing dbmysql.Listing
	err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) ListListings(ctx context.Context, organizationID string) ([]*dbmysql.Listing, error) {
	var listings []*dbmysql.Listing
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

// ListPublishedListings is the public marketplace query, not scoped to any
// organization.
func (r *listingRepository) ListPublishedListings(ctx context.Context) ([]*dbmysql.Listing, error) {
	var listings []*dbmysql.Listing
	err := r.db.WithContext(ctx).
		Where("status = ?", "published").
		Order("created_at DESC").
		Find(&listings).Error
	return listings, err
}

func (r *listingRepository) UpdateListing(ctx context.Context, listing *dbmysql.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

func (r *listingRepository) DeleteListing(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&dbmysql.Listing{}, "id = ?", id).Error
}
