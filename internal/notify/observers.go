package notify

import (
	"context"
	"fmt"
	"log"

	"rentdesk/internal/common"
	"rentdesk/internal/dbmysql"
)

// LogObserver is always subscribed, it gives every event at least one sink.
type LogObserver struct{}

func (LogObserver) Name() string { return "log_observer" }

func (LogObserver) Update(event common.Event) error {
	log.Printf("event %s: %s (%d recipients)", event.Type, event.Header, len(event.UserIDs))
	return nil
}

// DatabaseObserver persists one in-app notification row per recipient.
type DatabaseObserver struct {
	repo NotificationRepository
}

func NewDatabaseObserver(repo NotificationRepository) *DatabaseObserver {
	return &DatabaseObserver{repo: repo}
}

func (d *DatabaseObserver) Name() string { return "database_observer" }

func (d *DatabaseObserver) Update(event common.Event) error {
	for _, userID := range event.UserIDs {
		notification := &dbmysql.Notification{
			UserID:   userID,
			Type:     string(event.Type),
			Header:   event.Header,
			Content:  event.Content,
			EntityID: event.EntityID,
		}
		if err := d.repo.CreateNotification(context.Background(), notification); err != nil {
			return fmt.Errorf("store notification for %s: %w", userID, err)
		}
	}
	return nil
}

// EmailObserver forwards staff-facing events (applications, completed
// invites) to email. Chat events stay in-app.
type EmailObserver struct {
	email common.EmailService
	to    string
}

func NewEmailObserver(email common.EmailService, to string) *EmailObserver {
	return &EmailObserver{email: email, to: to}
}

func (e *EmailObserver) Name() string { return "email_observer" }

func (e *EmailObserver) Update(event common.Event) error {
	switch event.Type {
	case common.EventApplicationReceived, common.EventInviteCompleted:
	default:
		return nil
	}
	if err := e.email.SendEmail(e.to, event.Header, event.Content); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
