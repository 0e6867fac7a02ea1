package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

type Invoice struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string         `gorm:"column:organization_id;index;size:36;not null" json:"organization_id"`
	TenantID       *string        `gorm:"column:tenant_id;size:36" json:"tenant_id,omitempty"`
	Number         string         `gorm:"column:number;uniqueIndex;size:30;not null" json:"number"`
	Description    string         `gorm:"column:description;size:255" json:"description"`
	Amount         int64          `gorm:"column:amount;not null" json:"amount"` // cents
	DueDate        time.Time      `gorm:"column:due_date;not null" json:"due_date"`
	Status         string         `gorm:"column:status;type:enum('draft','sent','paid');default:'draft'" json:"status"`
	PaidAt         *time.Time     `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

type Expense struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string         `gorm:"column:organization_id;index;size:36;not null" json:"organization_id"`
	PropertyID     *string        `gorm:"column:property_id;size:36" json:"property_id,omitempty"`
	Category       string         `gorm:"column:category;type:enum('maintenance','utilities','insurance','taxes','management','other');default:'other'" json:"category"`
	Amount         int64          `gorm:"column:amount;not null" json:"amount"`
	IncurredAt     time.Time      `gorm:"column:incurred_at;not null" json:"incurred_at"`
	Notes          string         `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

type Subscription struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string    `gorm:"column:organization_id;uniqueIndex;size:36;not null" json:"organization_id"`
	Plan           string    `gorm:"column:plan;type:enum('starter','growth','portfolio');default:'starter'" json:"plan"`
	Seats          int       `gorm:"column:seats;default:1" json:"seats"`
	RenewsAt       time.Time `gorm:"column:renews_at" json:"renews_at"`
	Status         string    `gorm:"column:status;type:enum('active','past_due','canceled');default:'active'" json:"status"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
