package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

type Listing struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string         `gorm:"column:organization_id;index;size:36;not null" json:"organization_id"`
	PropertyID     *string        `gorm:"column:property_id;size:36" json:"property_id,omitempty"`
	UnitID         *string        `gorm:"column:unit_id;size:36" json:"unit_id,omitempty"`
	Title          string         `gorm:"column:title;size:200;not null" json:"title"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	RentAmount     int64          `gorm:"column:rent_amount;default:0" json:"rent_amount"`
	AvailableFrom  *time.Time     `gorm:"column:available_from" json:"available_from,omitempty"`
	Status         string         `gorm:"column:status;type:enum('draft','published','closed');default:'draft'" json:"status"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
