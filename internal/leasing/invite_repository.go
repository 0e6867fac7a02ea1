package leasing

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rentdesk/internal/dbmysql"
)

type InviteRepository interface {
	CreateInvite(ctx context.Context, invite *dbmysql.Invite) error
	GetInviteByID(ctx context.Context, id string) (*dbmysql.Invite, error)
	// GetInviteByHint looks an invite up by the clear prefix of its code. The
	// full code is verified against the bcrypt digest by the caller.
	GetInviteByHint(ctx context.Context, hint string) (*dbmysql.Invite, error)
	ListInvites(ctx context.Context, organizationID string) ([]*dbmysql.Invite, error)
	UpdateInvite(ctx context.Context, invite *dbmysql.Invite) error
}

type inviteRepository struct {
	db *gorm.DB
}

func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &inviteRepository{db: db}
}

func (r *inviteRepository) CreateInvite(ctx context.Context, invite *dbmysql.Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *inviteRepository) GetInviteByID(ctx context.Context, id string) (*dbmysql.Invite, error) {
	var invite dbmysql.Invite
	err := r.db.WithContext(ctx).First(&invite, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) GetInviteByHint(ctx context.Context, hint string) (*dbmysql.Invite, error) {
	var invite dbmysql.Invite
	err := r.db.WithContext(ctx).First(&invite, "code_hint = ?", hint).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *inviteRepository) ListInvites(ctx context.Context, organizationID string) ([]*dbmysql.Invite, error) {
	var invites []*dbmysql.Invite
	err := r.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

func (r *inviteRepository) UpdateInvite(ctx context.Context, invite *dbmysql.Invite) error {
	return r.db.WithContext(ctx).Save(invite).Error
}
