package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rentdesk/internal/dbmysql"
)

// ChatRepository is the persistence boundary of the messaging subsystem.
// Lookups return (nil, nil) for missing rows so callers can tell "not found"
// apart from a real failure; list methods return empty slices, never nil errors
// for empty results.
type ChatRepository interface {
	CreateConversation(ctx context.Context, conv *dbmysql.Conversation) error
	GetConversation(ctx context.Context, id string) (*dbmysql.Conversation, error)
	ListConversations(ctx context.Context, organizationID string) ([]*dbmysql.Conversation, error)

	SaveMessage(ctx context.Context, msg *dbmysql.Message, preview string) error
	GetMessage(ctx context.Context, id string) (*dbmysql.Message, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]*dbmysql.Message, error)
	UpdateMessage(ctx context.Context, msg *dbmysql.Message) error

	ToggleReaction(ctx context.Context, messageID, userID, emoji string) (bool, error)
	MarkAsRead(ctx context.Context, conversationID, userID string) error

	// batched enrichment lookups
	UsersByIDs(ctx context.Context, ids []string) (map[string]*dbmysql.User, error)
	TenantsByIDs(ctx context.Context, ids []string) (map[string]*dbmysql.Tenant, error)
	PropertiesByIDs(ctx context.Context, ids []string) (map[string]*dbmysql.Property, error)
	UnitsByIDs(ctx context.Context, ids []string) (map[string]*dbmysql.Unit, error)
}

type chatRepo struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepo{db: db}
}

func (r *chatRepo) CreateConversation(ctx context.Context, conv *dbmysql.Conversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *chatRepo) GetConversation(ctx context.Context, id string) (*dbmysql.Conversation, error) {
	var conv dbmysql.Conversation
	err := r.db.WithContext(ctx).
		Preload("Participants").
		First(&conv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *chatRepo) ListConversations(ctx context.Context, organizationID string) ([]*dbmysql.Conversation, error) {
	var convs []*dbmysql.Conversation
	q := r.db.WithContext(ctx).Preload("Participants").Order("updated_at DESC")
	if organizationID != "" {
		q = q.Where("organization_id = ?", organizationID)
	}
	err := q.Find(&convs).Error
	return convs, err
}

// SaveMessage inserts the message, refreshes the conversation preview and
// bumps the unread counter of every participant except the sender, in one
// transaction.
func (r *chatRepo) SaveMessage(ctx context.Context, msg *dbmysql.Message, preview string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		if err := tx.Model(&dbmysql.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Update("last_message_preview", preview).Error; err != nil {
			return err
		}

		return tx.Model(&dbmysql.Participant{}).
			Where("conversation_id = ? AND user_id <> ?", msg.ConversationID, msg.SenderID).
			Update("unread_count", gorm.Expr("unread_count + 1")).Error
	})
}

func (r *chatRepo) GetMessage(ctx context.Context, id string) (*dbmysql.Message, error) {
	var msg dbmysql.Message
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Preload("Reactions").
		First(&msg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *chatRepo) ListMessages(ctx context.Context, conversationID string, limit int) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Preload("Attachments").
		Preload("Reactions").
		Where("conversation_id = ?", conversationID).
		Order("sent_at ASC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *chatRepo) UpdateMessage(ctx context.Context, msg *dbmysql.Message) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

// ToggleReaction flips reaction membership: present -> removed, absent ->
// added. Returns whether the reaction exists after the call.
func (r *chatRepo) ToggleReaction(ctx context.Context, messageID, userID, emoji string) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
			Delete(&dbmysql.Reaction{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		added = true
		return tx.Create(&dbmysql.Reaction{
			MessageID: messageID,
			UserID:    userID,
			Emoji:     emoji,
		}).Error
	})
	return added, err
}

func (r *chatRepo) MarkAsRead(ctx context.Context, conversationID, userID string) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("unread_count", 0).Error
}

func (r *chatRepo) UsersByIDs(ctx context.Context, ids []string) (map[string]*dbmysql.User, error) {
	out := make(map[string]*dbmysql.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*dbmysql.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *chatRepo) TenantsByIDs(ctx context.Context, ids []string) (map[string]*dbmysql.Tenant, error) {
	out := make(map[string]*dbmysql.Tenant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var tenants []*dbmysql.Tenant
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tenants).Error; err != nil {
		return nil, err
	}
	for _, tn := range tenants {
		out[tn.ID] = tn
	}
	return out, nil
}

func (r *chatRepo) PropertiesByIDs(ctx context.Context, ids []string) (map[string]*dbmysql.Property, error) {
	out := make(map[string]*dbmysql.Property, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var props []*dbmysql.Property
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&props).Error; err != nil {
		return nil, err
	}
	for _, p := range props {
		out[p.ID] = p
	}
	return out, nil
}

func (r *chatRepo) UnitsByIDs(ctx context.Context, ids []string) (map[string]*dbmysql.Unit, error) {
	out := make(map[string]*dbmysql.Unit, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var units []*dbmysql.Unit
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&units).Error; err != nil {
		return nil, err
	}
	for _, u := range units {
		out[u.ID] = u
	}
	return out, nil
}
