package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentdesk/internal/common"
	"rentdesk/internal/dbmysql"
)

type fakeNotificationRepo struct {
	created []*dbmysql.Notification
	err     error
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, n *dbmysql.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, n)
	return nil
}
func (f *fakeNotificationRepo) ListNotifications(_ context.Context, _ string, _ int) ([]*dbmysql.Notification, error) {
	return nil, nil
}
func (f *fakeNotificationRepo) MarkNotificationRead(_ context.Context, _ uint64, _ string) error {
	return nil
}
func (f *fakeNotificationRepo) CountUnread(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

type fakeEmail struct {
	sent []string
	err  error
}

func (f *fakeEmail) SendEmail(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+"|"+subject)
	return nil
}

func TestDatabaseObserverWritesRowPerRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{}
	obs := NewDatabaseObserver(repo)

	err := obs.Update(common.Event{
		Type:     common.EventMessageSent,
		UserIDs:  []string{"user-1", "user-2"},
		Header:   "New message",
		Content:  "hey there",
		EntityID: "msg-9",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 2)
	assert.Equal(t, "user-1", repo.created[0].UserID)
	assert.Equal(t, "user-2", repo.created[1].UserID)
	assert.Equal(t, "message_sent", repo.created[0].Type)
	assert.Equal(t, "msg-9", repo.created[0].EntityID)
}

func TestDatabaseObserverPropagatesRepoError(t *testing.T) {
	repo := &fakeNotificationRepo{err: errors.New("db down")}
	obs := NewDatabaseObserver(repo)

	err := obs.Update(common.Event{UserIDs: []string{"user-1"}})
	assert.Error(t, err)
}

func TestEmailObserverFiltersEventTypes(t *testing.T) {
	email := &fakeEmail{}
	obs := NewEmailObserver(email, "owner@example.com")

	require.NoError(t, obs.Update(common.Event{Type: common.EventMessageSent, Header: "chat"}))
	assert.Empty(t, email.sent, "chat events stay in-app")

	require.NoError(t, obs.Update(common.Event{Type: common.EventApplicationReceived, Header: "New rental application"}))
	require.Len(t, email.sent, 1)
	assert.Equal(t, "owner@example.com|New rental application", email.sent[0])

	require.NoError(t, obs.Update(common.Event{Type: common.EventInviteCompleted, Header: "Invite completed"}))
	assert.Len(t, email.sent, 2)
}
