package dbmysql

import (
	"time"

	"gorm.io/gorm"
)

// Application is a rental application. Listing/property/unit references are
// independently nullable: each linked record may be deleted on its own.
type Application struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string         `gorm:"column:organization_id;index;size:36;not null" json:"organization_id"`
	ListingID      *string        `gorm:"column:listing_id;size:36" json:"listing_id,omitempty"`
	PropertyID     *string        `gorm:"column:property_id;size:36" json:"property_id,omitempty"`
	UnitID         *string        `gorm:"column:unit_id;size:36" json:"unit_id,omitempty"`
	InviteID       *string        `gorm:"column:invite_id;size:36" json:"invite_id,omitempty"`
	ApplicantName  string         `gorm:"column:applicant_name;size:120;not null" json:"applicant_name"`
	ApplicantEmail string         `gorm:"column:applicant_email;size:255;not null" json:"applicant_email"`
	ApplicantPhone string         `gorm:"column:applicant_phone;size:20" json:"applicant_phone"`
	MonthlyIncome  int64          `gorm:"column:monthly_income;default:0" json:"monthly_income"`
	MoveInDate     *time.Time     `gorm:"column:move_in_date" json:"move_in_date,omitempty"`
	Notes          string         `gorm:"column:notes;type:text" json:"notes"`
	Status         string         `gorm:"column:status;type:enum('pending','reviewing','approved','rejected');default:'pending'" json:"status"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// Invite grants time-limited access to submit an application without an
// account. Only the bcrypt hash of the code is stored; the clear code exists
// once, in the link handed to the applicant.
type Invite struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID string     `gorm:"column:organization_id;index;size:36;not null" json:"organization_id"`
	ListingID      *string    `gorm:"column:listing_id;size:36" json:"listing_id,omitempty"`
	Email          string     `gorm:"column:email;size:255;not null" json:"email"`
	CodeDigest     string     `gorm:"column:code_digest;size:255;not null" json:"-"`
	CodeHint       string     `gorm:"column:code_hint;uniqueIndex;size:12;not null" json:"-"`
	Status         string     `gorm:"column:status;type:enum('pending','opened','completed','expired');default:'pending'" json:"status"`
	ExpiresAt      time.Time  `gorm:"column:expires_at;not null" json:"expires_at"`
	OpenedAt       *time.Time `gorm:"column:opened_at" json:"opened_at,omitempty"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
