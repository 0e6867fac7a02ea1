package dbmysql

import (
	"time"
)

// Message is a single entry inside a conversation. Messages are only ever
// soft-deleted: content stays in the row but must never be surfaced once
// IsDeleted is set.
type Message struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ConversationID string    `gorm:"column:conversation_id;index;size:36;not null" json:"conversation_id"`
	SenderID       string    `gorm:"column:sender_id;index;size:36;not null" json:"sender_id"`
	Content        string    `gorm:"column:content;type:text" json:"content"`
	ReplyToID      *string   `gorm:"column:reply_to_id;size:36" json:"reply_to_id,omitempty"`
	IsEdited       bool      `gorm:"column:is_edited;not null;default:false" json:"is_edited"`
	IsDeleted      bool      `gorm:"column:is_deleted;not null;default:false" json:"is_deleted"`
	SentAt         time.Time `gorm:"column:sent_at;index" json:"sent_at"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Attachments []MessageAttachment `gorm:"foreignKey:MessageID" json:"attachments"`
	Reactions   []Reaction          `gorm:"foreignKey:MessageID" json:"reactions"`
}

type MessageAttachment struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID string `gorm:"column:message_id;index;size:36;not null" json:"message_id"`
	Name      string `gorm:"column:name;size:255;not null" json:"name"`
	URL       string `gorm:"column:url;size:512;not null" json:"url"`
	MimeType  string `gorm:"column:mime_type;size:100" json:"mime_type"`
}
