package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

type Property struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string         `gorm:"column:organization_id;index;size:36;not null" json:"organization_id"`
	Name           string         `gorm:"column:name;size:120;not null" json:"name"`
	Address        string         `gorm:"column:address;size:255" json:"address"`
	City           string         `gorm:"column:city;size:100" json:"city"`
	Type           string         `gorm:"column:type;type:enum('apartment','house','commercial');default:'apartment'" json:"type"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Unit is a rentable space inside a property.
type Unit struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	PropertyID string         `gorm:"column:property_id;index;size:36;not null" json:"property_id"`
	UnitNumber string         `gorm:"column:unit_number;size:20;not null" json:"unit_number"`
	Bedrooms   int            `gorm:"column:bedrooms;default:0" json:"bedrooms"`
	Bathrooms  int            `gorm:"column:bathrooms;default:0" json:"bathrooms"`
	RentAmount int64          `gorm:"column:rent_amount;default:0" json:"rent_amount"` // cents
	Status     string         `gorm:"column:status;type:enum('vacant','occupied','maintenance');default:'vacant'" json:"status"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

type Tenant struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string         `gorm:"column:organization_id;index;size:36;not null" json:"organization_id"`
	UserID         *string        `gorm:"column:user_id;size:36" json:"user_id,omitempty"`
	UnitID         *string        `gorm:"column:unit_id;size:36" json:"unit_id,omitempty"`
	Name           string         `gorm:"column:name;size:120;not null" json:"name"`
	Email          string         `gorm:"column:email;size:255" json:"email"`
	Phone          string         `gorm:"column:phone;size:20" json:"phone"`
	LeaseStart     *time.Time     `gorm:"column:lease_start" json:"lease_start,omitempty"`
	LeaseEnd       *time.Time     `gorm:"column:lease_end" json:"lease_end,omitempty"`
	RentAmount     int64          `gorm:"column:rent_amount;default:0" json:"rent_amount"`
	Status         string         `gorm:"column:status;type:enum('active','ending','past');default:'active'" json:"status"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
