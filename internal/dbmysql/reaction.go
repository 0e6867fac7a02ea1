package dbmysql

import "time"

// Reaction is an emoji annotation on a message, unique per
// (message, user, emoji). Toggling is implemented as insert-or-delete.
type Reaction struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID string    `gorm:"column:message_id;not null;index:idx_msg_user_emoji,unique;size:36" json:"message_id"`
	UserID    string    `gorm:"column:user_id;not null;index:idx_msg_user_emoji,unique;size:36" json:"user_id"`
	Emoji     string    `gorm:"column:emoji;not null;index:idx_msg_user_emoji,unique;size:16" json:"emoji"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
