package notify

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rentdesk/internal/dbmysql"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *dbmysql.Notification) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]*dbmysql.Notification, error)
	MarkNotificationRead(ctx context.Context, id uint64, userID string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, n *dbmysql.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepository) ListNotifications(ctx context.Context, userID string, limit int) ([]*dbmysql.Notification, error) {
	var notifications []*dbmysql.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkNotificationRead(ctx context.Context, id uint64, userID string) error {
	return r.db.WithContext(ctx).Model(&dbmysql.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read_at", time.Now()).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
