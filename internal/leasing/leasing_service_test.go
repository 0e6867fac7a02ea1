package leasing

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentdesk/internal/common"
	"rentdesk/internal/dbmysql"
)

type fakeListingRepo struct {
	createFn        func(ctx context.Context, l *dbmysql.Listing) error
	getFn           func(ctx context.Context, id string) (*dbmysql.Listing, error)
	listFn          func(ctx context.Context, orgID string) ([]*dbmysql.Listing, error)
	listPublishedFn func(ctx context.Context) ([]*dbmysql.Listing, error)
	updateFn        func(ctx context.Context, l *dbmysql.Listing) error
}

func (f *fakeListingRepo) CreateListing(ctx context.Context, l *dbmysql.Listing) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}
func (f *fakeListingRepo) GetListingByID(ctx context.Context, id string) (*dbmysql.Listing, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeListingRepo) ListListings(ctx context.Context, orgID string) ([]*dbmysql.Listing, error) {
	if f.listFn != nil {
		return f.listFn(ctx, orgID)
	}
	return nil, nil
}
func (f *fakeListingRepo) ListPublishedListings(ctx context.Context) ([]*dbmysql.Listing, error) {
	if f.listPublishedFn != nil {
		return f.listPublishedFn(ctx)
	}
	return nil, nil
}
func (f *fakeListingRepo) UpdateListing(ctx context.Context, l *dbmysql.Listing) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}
func (f *fakeListingRepo) DeleteListing(ctx context.Context, id string) error { return nil }

type fakeApplicationRepo struct {
	createFn       func(ctx context.Context, a *dbmysql.Application) error
	getFn          func(ctx context.Context, id string) (*dbmysql.Application, error)
	listFn         func(ctx context.Context, orgID string) ([]*dbmysql.Application, error)
	updateStatusFn func(ctx context.Context, id, status string) error
}

func (f *fakeApplicationRepo) CreateApplication(ctx context.Context, a *dbmysql.Application) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}
func (f *fakeApplicationRepo) GetApplicationByID(ctx context.Context, id string) (*dbmysql.Application, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeApplicationRepo) ListApplications(ctx context.Context, orgID string) ([]*dbmysql.Application, error) {
	if f.listFn != nil {
		return f.listFn(ctx, orgID)
	}
	return nil, nil
}
func (f *fakeApplicationRepo) UpdateApplicationStatus(ctx context.Context, id, status string) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

type fakeInviteRepo struct {
	createFn func(ctx context.Context, inv *dbmysql.Invite) error
	getFn    func(ctx context.Context, id string) (*dbmysql.Invite, error)
	byHintFn func(ctx context.Context, hint string) (*dbmysql.Invite, error)
	listFn   func(ctx context.Context, orgID string) ([]*dbmysql.Invite, error)
	updateFn func(ctx context.Context, inv *dbmysql.Invite) error
}

func (f *fakeInviteRepo) CreateInvite(ctx context.Context, inv *dbmysql.Invite) error {
	if f.createFn != nil {
		return f.createFn(ctx, inv)
	}
	return nil
}
func (f *fakeInviteRepo) GetInviteByID(ctx context.Context, id string) (*dbmysql.Invite, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return nil, nil
}
func (f *fakeInviteRepo) GetInviteByHint(ctx context.Context, hint string) (*dbmysql.Invite, error) {
	if f.byHintFn != nil {
		return f.byHintFn(ctx, hint)
	}
	return nil, nil
}
func (f *fakeInviteRepo) ListInvites(ctx context.Context, orgID string) ([]*dbmysql.Invite, error) {
	if f.listFn != nil {
		return f.listFn(ctx, orgID)
	}
	return nil, nil
}
func (f *fakeInviteRepo) UpdateInvite(ctx context.Context, inv *dbmysql.Invite) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, inv)
	}
	return nil
}

type fakeUnitRepo struct {
	updateStatusFn func(ctx context.Context, id, status string) error
}

func (f *fakeUnitRepo) CreateUnit(ctx context.Context, u *dbmysql.Unit) error { return nil }
func (f *fakeUnitRepo) GetUnitByID(ctx context.Context, id string) (*dbmysql.Unit, error) {
	return nil, nil
}
func (f *fakeUnitRepo) ListUnitsByProperty(ctx context.Context, propertyID string) ([]*dbmysql.Unit, error) {
	return nil, nil
}
func (f *fakeUnitRepo) ListUnitsByProperties(ctx context.Context, propertyIDs []string) ([]*dbmysql.Unit, error) {
	return nil, nil
}
func (f *fakeUnitRepo) UpdateUnit(ctx context.Context, u *dbmysql.Unit) error { return nil }
func (f *fakeUnitRepo) UpdateUnitStatus(ctx context.Context, id, status string) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}
func (f *fakeUnitRepo) DeleteUnit(ctx context.Context, id string) error { return nil }

type recordingDispatcher struct {
	events []common.Event
}

func (d *recordingDispatcher) Subscribe(common.Observer)   {}
func (d *recordingDispatcher) Unsubscribe(common.Observer) {}
func (d *recordingDispatcher) Notify(e common.Event)       { d.events = append(d.events, e) }
func (d *recordingDispatcher) NotifyAsync(e common.Event)  { d.events = append(d.events, e) }

type serviceDeps struct {
	listings   *fakeListingRepo
	apps       *fakeApplicationRepo
	invites    *fakeInviteRepo
	units      *fakeUnitRepo
	dispatcher *recordingDispatcher
}

func newTestService(d *serviceDeps) LeasingService {
	if d.listings == nil {
		d.listings = &fakeListingRepo{}
	}
	if d.apps == nil {
		d.apps = &fakeApplicationRepo{}
	}
	if d.invites == nil {
		d.invites = &fakeInviteRepo{}
	}
	if d.units == nil {
		d.units = &fakeUnitRepo{}
	}
	if d.dispatcher == nil {
		d.dispatcher = &recordingDispatcher{}
	}
	return NewLeasingService(d.listings, d.apps, d.invites, d.units, d.dispatcher, 168*time.Hour, "https://app.rentdesk.io/")
}

// storedInvite builds an invite row the way CreateInvite would persist it.
func storedInvite(t *testing.T, code string, mutate func(*dbmysql.Invite)) *dbmysql.Invite {
	t.Helper()
	digest, err := common.HashInviteCode(code)
	require.NoError(t, err)
	inv := &dbmysql.Invite{
		ID:             "inv-1",
		OrganizationID: "org-1",
		Email:          "applicant@example.com",
		CodeDigest:     digest,
		CodeHint:       common.InviteCodeHint(code),
		Status:         string(common.InvitePending),
		ExpiresAt:      time.Now().Add(time.Hour),
	}
	if mutate != nil {
		mutate(inv)
	}
	return inv
}

func TestCreateInvite(t *testing.T) {
	var saved *dbmysql.Invite
	invites := &fakeInviteRepo{createFn: func(_ context.Context, inv *dbmysql.Invite) error {
		saved = inv
		return nil
	}}
	deps := &serviceDeps{invites: invites}
	svc := newTestService(deps)

	created, err := svc.CreateInvite(context.Background(), CreateInviteParams{
		OrganizationID: "org-1",
		Email:          "Applicant@Example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Len(t, created.Code, 32)
	assert.Equal(t, created.Code[:common.InviteCodeHintLen], saved.CodeHint)
	assert.NoError(t, common.CheckInviteCode(created.Code, saved.CodeDigest),
		"stored digest must verify the returned code")
	assert.NotContains(t, saved.CodeDigest, created.Code)
	assert.Equal(t, "applicant@example.com", saved.Email)
	assert.Equal(t, "https://app.rentdesk.io/apply/invite/"+created.Code, created.Link)
	assert.WithinDuration(t, time.Now().Add(168*time.Hour), saved.ExpiresAt, time.Minute)
}

func TestCreateInviteValidation(t *testing.T) {
	listingID := "lst-1"
	tests := []struct {
		name   string
		params CreateInviteParams
		getFn  func(ctx context.Context, id string) (*dbmysql.Listing, error)
		want   error
	}{
		{
			name:   "bad email",
			params: CreateInviteParams{OrganizationID: "org-1", Email: "nope"},
			want:   ErrInvalid,
		},
		{
			name:   "missing org",
			params: CreateInviteParams{Email: "a@example.com"},
			want:   ErrInvalid,
		},
		{
			name:   "listing from another org",
			params: CreateInviteParams{OrganizationID: "org-1", Email: "a@example.com", ListingID: &listingID},
			getFn: func(_ context.Context, id string) (*dbmysql.Listing, error) {
				return &dbmysql.Listing{ID: id, OrganizationID: "org-2"}, nil
			},
			want: ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&serviceDeps{listings: &fakeListingRepo{getFn: tt.getFn}})
			_, err := svc.CreateInvite(context.Background(), tt.params)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestOpenInvite(t *testing.T) {
	code := strings.Repeat("ab", 16)

	t.Run("pending invite becomes opened", func(t *testing.T) {
		inv := storedInvite(t, code, nil)
		var updated *dbmysql.Invite
		invites := &fakeInviteRepo{
			byHintFn: func(_ context.Context, hint string) (*dbmysql.Invite, error) {
				assert.Equal(t, code[:common.InviteCodeHintLen], hint)
				return inv, nil
			},
			updateFn: func(_ context.Context, i *dbmysql.Invite) error {
				updated = i
				return nil
			},
		}
		svc := newTestService(&serviceDeps{invites: invites})

		preview, err := svc.OpenInvite(context.Background(), code)
		require.NoError(t, err)
		assert.Equal(t, string(common.InviteOpened), preview.Status)
		require.NotNil(t, updated)
		assert.NotNil(t, updated.OpenedAt)
	})

	t.Run("reopening stays opened without another update", func(t *testing.T) {
		inv := storedInvite(t, code, func(i *dbmysql.Invite) {
			now := time.Now()
			i.Status = string(common.InviteOpened)
			i.OpenedAt = &now
		})
		invites := &fakeInviteRepo{
			byHintFn: func(_ context.Context, _ string) (*dbmysql.Invite, error) { return inv, nil },
			updateFn: func(_ context.Context, _ *dbmysql.Invite) error {
				t.Fatal("no update expected for an already-opened invite")
				return nil
			},
		}
		svc := newTestService(&serviceDeps{invites: invites})

		preview, err := svc.OpenInvite(context.Background(), code)
		require.NoError(t, err)
		assert.Equal(t, string(common.InviteOpened), preview.Status)
	})

	t.Run("wrong code with matching hint is a miss", func(t *testing.T) {
		inv := storedInvite(t, code, nil)
		invites := &fakeInviteRepo{
			byHintFn: func(_ context.Context, _ string) (*dbmysql.Invite, error) { return inv, nil },
		}
		svc := newTestService(&serviceDeps{invites: invites})

		forged := code[:common.InviteCodeHintLen] + strings.Repeat("ff", 10)
		_, err := svc.OpenInvite(context.Background(), forged)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("short code is a miss without a lookup", func(t *testing.T) {
		invites := &fakeInviteRepo{
			byHintFn: func(_ context.Context, _ string) (*dbmysql.Invite, error) {
				t.Fatal("no lookup expected for a short code")
				return nil, nil
			},
		}
		svc := newTestService(&serviceDeps{invites: invites})

		_, err := svc.OpenInvite(context.Background(), "short")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("expired invite is rejected and marked expired", func(t *testing.T) {
		inv := storedInvite(t, code, func(i *dbmysql.Invite) {
			i.ExpiresAt = time.Now().Add(-time.Hour)
		})
		var updated *dbmysql.Invite
		invites := &fakeInviteRepo{
			byHintFn: func(_ context.Context, _ string) (*dbmysql.Invite, error) { return inv, nil },
			updateFn: func(_ context.Context, i *dbmysql.Invite) error {
				updated = i
				return nil
			},
		}
		svc := newTestService(&serviceDeps{invites: invites})

		_, err := svc.OpenInvite(context.Background(), code)
		assert.True(t, errors.Is(err, ErrInviteExpired))
		require.NotNil(t, updated)
		assert.Equal(t, string(common.InviteExpired), updated.Status)
	})

	t.Run("completed invite cannot be reused", func(t *testing.T) {
		inv := storedInvite(t, code, func(i *dbmysql.Invite) {
			i.Status = string(common.InviteCompleted)
		})
		invites := &fakeInviteRepo{
			byHintFn: func(_ context.Context, _ string) (*dbmysql.Invite, error) { return inv, nil },
		}
		svc := newTestService(&serviceDeps{invites: invites})

		_, err := svc.OpenInvite(context.Background(), code)
		assert.True(t, errors.Is(err, ErrInvalid))
	})
}

func TestSubmitApplication(t *testing.T) {
	code := strings.Repeat("cd", 16)
	listingID := "lst-1"
	propertyID := "prop-1"
	unitID := "u-1"

	inv := storedInvite(t, code, func(i *dbmysql.Invite) {
		i.ListingID = &listingID
	})
	listings := &fakeListingRepo{getFn: func(_ context.Context, id string) (*dbmysql.Listing, error) {
		return &dbmysql.Listing{ID: id, OrganizationID: "org-1", PropertyID: &propertyID, UnitID: &unitID}, nil
	}}
	var createdApp *dbmysql.Application
	apps := &fakeApplicationRepo{createFn: func(_ context.Context, a *dbmysql.Application) error {
		createdApp = a
		return nil
	}}
	var updatedInvite *dbmysql.Invite
	invites := &fakeInviteRepo{
		byHintFn: func(_ context.Context, _ string) (*dbmysql.Invite, error) { return inv, nil },
		updateFn: func(_ context.Context, i *dbmysql.Invite) error {
			updatedInvite = i
			return nil
		},
	}
	dispatcher := &recordingDispatcher{}
	svc := newTestService(&serviceDeps{listings: listings, apps: apps, invites: invites, dispatcher: dispatcher})

	app, err := svc.SubmitApplication(context.Background(), SubmitApplicationParams{
		Code:           code,
		ApplicantName:  "Riya Kapoor",
		ApplicantEmail: "riya@example.com",
		MonthlyIncome:  450000,
	})
	require.NoError(t, err)
	require.NotNil(t, createdApp)

	assert.Equal(t, "org-1", app.OrganizationID, "org comes from the invite, not the caller")
	assert.Equal(t, string(common.ApplicationPending), app.Status)
	require.NotNil(t, app.InviteID)
	assert.Equal(t, inv.ID, *app.InviteID)
	assert.Equal(t, &propertyID, app.PropertyID, "property carried over from the listing")
	assert.Equal(t, &unitID, app.UnitID)

	require.NotNil(t, updatedInvite)
	assert.Equal(t, string(common.InviteCompleted), updatedInvite.Status)
	assert.NotNil(t, updatedInvite.CompletedAt)

	require.Len(t, dispatcher.events, 2)
	assert.Equal(t, common.EventApplicationReceived, dispatcher.events[0].Type)
	assert.Equal(t, common.EventInviteCompleted, dispatcher.events[1].Type)
}

func TestSubmitApplicationExpiredInvite(t *testing.T) {
	code := strings.Repeat("ef", 16)
	inv := storedInvite(t, code, func(i *dbmysql.Invite) {
		i.ExpiresAt = time.Now().Add(-time.Minute)
	})
	invites := &fakeInviteRepo{
		byHintFn: func(_ context.Context, _ string) (*dbmysql.Invite, error) { return inv, nil },
	}
	apps := &fakeApplicationRepo{createFn: func(_ context.Context, _ *dbmysql.Application) error {
		t.Fatal("no application should be created for an expired invite")
		return nil
	}}
	svc := newTestService(&serviceDeps{invites: invites, apps: apps})

	_, err := svc.SubmitApplication(context.Background(), SubmitApplicationParams{
		Code:           code,
		ApplicantName:  "Riya Kapoor",
		ApplicantEmail: "riya@example.com",
	})
	assert.True(t, errors.Is(err, ErrInviteExpired))
}

func TestSetApplicationStatus(t *testing.T) {
	unitID := "u-1"

	newApp := func(status string) *dbmysql.Application {
		return &dbmysql.Application{ID: "app-1", OrganizationID: "org-1", Status: status, UnitID: &unitID}
	}

	t.Run("pending to reviewing", func(t *testing.T) {
		apps := &fakeApplicationRepo{getFn: func(_ context.Context, _ string) (*dbmysql.Application, error) {
			return newApp("pending"), nil
		}}
		svc := newTestService(&serviceDeps{apps: apps})

		app, err := svc.SetApplicationStatus(context.Background(), "org-1", "app-1", "reviewing")
		require.NoError(t, err)
		assert.Equal(t, "reviewing", app.Status)
	})

	t.Run("approving occupies the unit", func(t *testing.T) {
		apps := &fakeApplicationRepo{getFn: func(_ context.Context, _ string) (*dbmysql.Application, error) {
			return newApp("reviewing"), nil
		}}
		var markedID, markedStatus string
		units := &fakeUnitRepo{updateStatusFn: func(_ context.Context, id, status string) error {
			markedID, markedStatus = id, status
			return nil
		}}
		svc := newTestService(&serviceDeps{apps: apps, units: units})

		_, err := svc.SetApplicationStatus(context.Background(), "org-1", "app-1", "approved")
		require.NoError(t, err)
		assert.Equal(t, unitID, markedID)
		assert.Equal(t, "occupied", markedStatus)
	})

	t.Run("rejecting does not touch units", func(t *testing.T) {
		apps := &fakeApplicationRepo{getFn: func(_ context.Context, _ string) (*dbmysql.Application, error) {
			return newApp("pending"), nil
		}}
		units := &fakeUnitRepo{updateStatusFn: func(_ context.Context, _, _ string) error {
			t.Fatal("unit status should not change on rejection")
			return nil
		}}
		svc := newTestService(&serviceDeps{apps: apps, units: units})

		_, err := svc.SetApplicationStatus(context.Background(), "org-1", "app-1", "rejected")
		require.NoError(t, err)
	})

	t.Run("terminal states are frozen", func(t *testing.T) {
		for _, terminal := range []string{"approved", "rejected"} {
			apps := &fakeApplicationRepo{getFn: func(_ context.Context, _ string) (*dbmysql.Application, error) {
				return newApp(terminal), nil
			}}
			svc := newTestService(&serviceDeps{apps: apps})

			_, err := svc.SetApplicationStatus(context.Background(), "org-1", "app-1", "reviewing")
			assert.True(t, errors.Is(err, ErrBadTransition), "from %s", terminal)
		}
	})

	t.Run("cross-org application is a miss", func(t *testing.T) {
		apps := &fakeApplicationRepo{getFn: func(_ context.Context, _ string) (*dbmysql.Application, error) {
			app := newApp("pending")
			app.OrganizationID = "org-2"
			return app, nil
		}}
		svc := newTestService(&serviceDeps{apps: apps})

		_, err := svc.SetApplicationStatus(context.Background(), "org-1", "app-1", "reviewing")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestListInvitesDerivesExpiry(t *testing.T) {
	invites := &fakeInviteRepo{listFn: func(_ context.Context, _ string) ([]*dbmysql.Invite, error) {
		return []*dbmysql.Invite{
			{ID: "inv-1", Status: string(common.InvitePending), ExpiresAt: time.Now().Add(-time.Hour)},
			{ID: "inv-2", Status: string(common.InvitePending), ExpiresAt: time.Now().Add(time.Hour)},
			{ID: "inv-3", Status: string(common.InviteCompleted), ExpiresAt: time.Now().Add(-time.Hour)},
		}, nil
	}}
	svc := newTestService(&serviceDeps{invites: invites})

	got, err := svc.ListInvites(context.Background(), "org-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, string(common.InviteExpired), got[0].Status)
	assert.Equal(t, string(common.InvitePending), got[1].Status)
	assert.Equal(t, string(common.InviteCompleted), got[2].Status, "completed invites never flip to expired")
}

func TestMarketplaceEmpty(t *testing.T) {
	svc := newTestService(&serviceDeps{})

	listings, err := svc.Marketplace(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, listings)
	assert.Empty(t, listings)
}

func TestListingLifecycle(t *testing.T) {
	listing := &dbmysql.Listing{ID: "lst-1", OrganizationID: "org-1", Status: "draft"}
	listings := &fakeListingRepo{
		getFn: func(_ context.Context, _ string) (*dbmysql.Listing, error) { return listing, nil },
	}
	svc := newTestService(&serviceDeps{listings: listings})

	got, err := svc.SetListingStatus(context.Background(), "org-1", "lst-1", "published")
	require.NoError(t, err)
	assert.Equal(t, "published", got.Status)

	_, err = svc.SetListingStatus(context.Background(), "org-1", "lst-1", "archived")
	assert.True(t, errors.Is(err, ErrInvalid))
}
