package dbmysql

import (
	"time"
)

// Notification is a persisted in-app notification produced by the event
// dispatcher (new message, application received, invite completed).
type Notification struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string     `gorm:"column:user_id;index;size:36;not null" json:"user_id"`
	Type      string     `gorm:"column:type;size:40;not null" json:"type"`
	Header    string     `gorm:"column:header;size:200" json:"header"`
	Content   string     `gorm:"column:content;type:text" json:"content"`
	EntityID  string     `gorm:"column:entity_id;size:36" json:"entity_id"`
	ReadAt    *time.Time `gorm:"column:read_at" json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
