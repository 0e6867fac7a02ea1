package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

type Organization struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `gorm:"column:name;size:120;not null" json:"name"`
	Email     string         `gorm:"column:email;size:255" json:"email"`
	Phone     string         `gorm:"column:phone;size:20" json:"phone"`
	Status    string         `gorm:"column:status;type:enum('active','suspended','deleted');default:'active'" json:"status"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// User is any person known to the system: organization staff, tenants,
// applicants and vendors all get a row here. Role decides what they can do.
type User struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID *string        `gorm:"column:organization_id;index;size:36" json:"organization_id,omitempty"`
	Name           string         `gorm:"column:name;size:120;not null" json:"name"`
	Email          string         `gorm:"column:email;uniqueIndex;size:255;not null" json:"email"`
	Phone          string         `gorm:"column:phone;size:20" json:"phone"`
	Role           string         `gorm:"column:role;type:enum('staff','tenant','applicant','vendor');not null" json:"role"`
	Status         string         `gorm:"column:status;type:enum('active','disabled','deleted');default:'active'" json:"status"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
