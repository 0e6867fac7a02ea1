package dbmysql

import (
	"time"
)

// Conversation is a message thread between an organization and one
// counterparty (tenant, applicant or vendor). Counterparty references are
// nullable on purpose: the linked record may have been deleted independently.
type Conversation struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	OrganizationID     string    `gorm:"column:organization_id;index;size:36;not null" json:"organization_id"`
	TenantID           *string   `gorm:"column:tenant_id;size:36" json:"tenant_id,omitempty"`
	PropertyID         *string   `gorm:"column:property_id;size:36" json:"property_id,omitempty"`
	UnitID             *string   `gorm:"column:unit_id;size:36" json:"unit_id,omitempty"`
	LastMessagePreview string    `gorm:"column:last_message_preview;size:255" json:"last_message_preview"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Participants []Participant `gorm:"foreignKey:ConversationID" json:"participants"`
}

// Participant is one party attached to a conversation. The unread counter
// lives on the participant row, so a counter can never outlive its participant.
type Participant struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID string    `gorm:"column:conversation_id;not null;index:idx_conv_user,unique;size:36" json:"conversation_id"`
	UserID         string    `gorm:"column:user_id;not null;index:idx_conv_user,unique;size:36" json:"user_id"`
	Role           string    `gorm:"column:role;type:enum('tenant','applicant','vendor','staff');not null" json:"role"`
	Name           string    `gorm:"column:name;size:120;not null" json:"name"`
	UnreadCount    int       `gorm:"column:unread_count;not null;default:0" json:"unread_count"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Participant) TableName() string {
	return "conversation_participants"
}
