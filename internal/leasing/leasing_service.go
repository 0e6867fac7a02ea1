package leasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentdesk/internal/common"
	"rentdesk/internal/dbmysql"
	"rentdesk/internal/portfolio"
)

type CreateListingParams struct {
	OrganizationID string
	PropertyID     *string
	UnitID         *string
	Title          string
	Description    string
	RentAmount     int64
	AvailableFrom  *time.Time
}

type CreateInviteParams struct {
	OrganizationID string
	ListingID      *string
	Email          string
}

// CreatedInvite carries the clear code exactly once; only the digest and the
// lookup hint survive in the database.
type CreatedInvite struct {
	Invite *dbmysql.Invite `json:"invite"`
	Code   string          `json:"code"`
	Link   string          `json:"link"`
}

// InvitePreview is what an applicant sees when they open their link.
type InvitePreview struct {
	InviteID string          `json:"invite_id"`
	Email    string          `json:"email"`
	Status   string          `json:"status"`
	Listing  *dbmysql.Listing `json:"listing,omitempty"`
}

type SubmitApplicationParams struct {
	Code           string
	ApplicantName  string
	ApplicantEmail string
	ApplicantPhone string
	MonthlyIncome  int64
	MoveInDate     *time.Time
	Notes          string
}

type LeasingService interface {
	CreateListing(ctx context.Context, p CreateListingParams) (*dbmysql.Listing, error)
	GetListing(ctx context.Context, orgID, listingID string) (*dbmysql.Listing, error)
	ListListings(ctx context.Context, orgID string) ([]*dbmysql.Listing, error)
	SetListingStatus(ctx context.Context, orgID, listingID, status string) (*dbmysql.Listing, error)
	DeleteListing(ctx context.Context, orgID, listingID string) error
	Marketplace(ctx context.Context) ([]*dbmysql.Listing, error)

	CreateInvite(ctx context.Context, p CreateInviteParams) (*CreatedInvite, error)
	ListInvites(ctx context.Context, orgID string) ([]*dbmysql.Invite, error)
	OpenInvite(ctx context.Context, code string) (*InvitePreview, error)
	SubmitApplication(ctx context.Context, p SubmitApplicationParams) (*dbmysql.Application, error)

	ListApplications(ctx context.Context, orgID string) ([]*dbmysql.Application, error)
	GetApplication(ctx context.Context, orgID, applicationID string) (*dbmysql.Application, error)
	SetApplicationStatus(ctx context.Context, orgID, applicationID, status string) (*dbmysql.Application, error)
}

type leasingService struct {
	listings     ListingRepository
	applications ApplicationRepository
	invites      InviteRepository
	units        portfolio.UnitRepository
	dispatcher   common.Subject
	inviteTTL    time.Duration
	publicOrigin string
}

func NewLeasingService(
	listings ListingRepository,
	applications ApplicationRepository,
	invites InviteRepository,
	units portfolio.UnitRepository,
	dispatcher common.Subject,
	inviteTTL time.Duration,
	publicOrigin string,
) LeasingService {
	return &leasingService{
		listings:     listings,
		applications: applications,
		invites:      invites,
		units:        units,
		dispatcher:   dispatcher,
		inviteTTL:    inviteTTL,
		publicOrigin: strings.TrimRight(publicOrigin, "/"),
	}
}

var validListingStatuses = map[string]bool{"draft": true, "published": true, "closed": true}

func (s *leasingService) CreateListing(ctx context.Context, p CreateListingParams) (*dbmysql.Listing, error) {
	if p.OrganizationID == "" {
		return nil, invalidf("organization id is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, invalidf("title is required")
	}
	if p.RentAmount < 0 {
		return nil, invalidf("rent amount cannot be negative")
	}
	listing := &dbmysql.Listing{
		ID:             uuid.NewString(),
		OrganizationID: p.OrganizationID,
		PropertyID:     p.PropertyID,
		UnitID:         p.UnitID,
		Title:          strings.TrimSpace(p.Title),
		Description:    p.Description,
		RentAmount:     p.RentAmount,
		AvailableFrom:  p.AvailableFrom,
		Status:         "draft",
	}
	if err := s.listings.CreateListing(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *leasingService) GetListing(ctx context.Context, orgID, listingID string) (*dbmysql.Listing, error) {
	return s.ownedListing(ctx, orgID, listingID)
}

func (s *leasingService) ListListings(ctx context.Context, orgID string) ([]*dbmysql.Listing, error) {
	if orgID == "" {
		return nil, invalidf("organization id is required")
	}
	listings, err := s.listings.ListListings(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []*dbmysql.Listing{}
	}
	return listings, nil
}

func (s *leasingService) SetListingStatus(ctx context.Context, orgID, listingID, status string) (*dbmysql.Listing, error) {
	if !validListingStatuses[status] {
		return nil, invalidf("unknown listing status %q", status)
	}
	listing, err := s.ownedListing(ctx, orgID, listingID)
	if err != nil {
		return nil, err
	}
	listing.Status = status
	if err := s.listings.UpdateListing(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

func (s *leasingService) DeleteListing(ctx context.Context, orgID, listingID string) error {
	if _, err := s.ownedListing(ctx, orgID, listingID); err != nil {
		return err
	}
	return s.listings.DeleteListing(ctx, listingID)
}

// Marketplace is unauthenticated: anyone can browse published listings.
func (s *leasingService) Marketplace(ctx context.Context) ([]*dbmysql.Listing, error) {
	listings, err := s.listings.ListPublishedListings(ctx)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []*dbmysql.Listing{}
	}
	return listings, nil
}

func (s *leasingService) CreateInvite(ctx context.Context, p CreateInviteParams) (*CreatedInvite, error) {
	if p.OrganizationID == "" {
		return nil, invalidf("organization id is required")
	}
	if err := common.ValidateEmail(p.Email); err != nil {
		return nil, invalidf("%v", err)
	}
	if p.ListingID != nil {
		listing, err := s.listings.GetListingByID(ctx, *p.ListingID)
		if err != nil {
			return nil, err
		}
		if listing == nil || listing.OrganizationID != p.OrganizationID {
			return nil, notFoundf("listing")
		}
	}

	code, err := common.GenerateInviteCode()
	if err != nil {
		return nil, err
	}
	digest, err := common.HashInviteCode(code)
	if err != nil {
		return nil, err
	}
	invite := &dbmysql.Invite{
		ID:             uuid.NewString(),
		OrganizationID: p.OrganizationID,
		ListingID:      p.ListingID,
		Email:          strings.ToLower(strings.TrimSpace(p.Email)),
		CodeDigest:     digest,
		CodeHint:       common.InviteCodeHint(code),
		Status:         string(common.InvitePending),
		ExpiresAt:      time.Now().Add(s.inviteTTL),
	}
	if err := s.invites.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}
	return &CreatedInvite{
		Invite: invite,
		Code:   code,
		Link:   fmt.Sprintf("%s/apply/invite/%s", s.publicOrigin, code),
	}, nil
}

func (s *leasingService) ListInvites(ctx context.Context, orgID string) ([]*dbmysql.Invite, error) {
	if orgID == "" {
		return nil, invalidf("organization id is required")
	}
	invites, err := s.invites.ListInvites(ctx, orgID)
	if err != nil {
		return nil, err
	}
	// stale pending/opened rows past their deadline read as expired without
	// waiting for someone to click the link
	now := time.Now()
	for _, inv := range invites {
		if inviteExpired(inv, now) {
			inv.Status = string(common.InviteExpired)
		}
	}
	if invites == nil {
		invites = []*dbmysql.Invite{}
	}
	return invites, nil
}

func (s *leasingService) OpenInvite(ctx context.Context, code string) (*InvitePreview, error) {
	invite, err := s.redeemableInvite(ctx, code)
	if err != nil {
		return nil, err
	}
	if invite.Status == string(common.InvitePending) {
		now := time.Now()
		invite.Status = string(common.InviteOpened)
		invite.OpenedAt = &now
		if err := s.invites.UpdateInvite(ctx, invite); err != nil {
			return nil, err
		}
	}
	preview := &InvitePreview{
		InviteID: invite.ID,
		Email:    invite.Email,
		Status:   invite.Status,
	}
	if invite.ListingID != nil {
		listing, err := s.listings.GetListingByID(ctx, *invite.ListingID)
		if err != nil {
			return nil, err
		}
		preview.Listing = listing
	}
	return preview, nil
}

func (s *leasingService) SubmitApplication(ctx context.Context, p SubmitApplicationParams) (*dbmysql.Application, error) {
	invite, err := s.redeemableInvite(ctx, p.Code)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateName(p.ApplicantName); err != nil {
		return nil, invalidf("%v", err)
	}
	if err := common.ValidateEmail(p.ApplicantEmail); err != nil {
		return nil, invalidf("%v", err)
	}
	if p.MonthlyIncome < 0 {
		return nil, invalidf("monthly income cannot be negative")
	}

	app := &dbmysql.Application{
		ID:             uuid.NewString(),
		OrganizationID: invite.OrganizationID,
		ListingID:      invite.ListingID,
		InviteID:       &invite.ID,
		ApplicantName:  strings.TrimSpace(p.ApplicantName),
		ApplicantEmail: strings.ToLower(strings.TrimSpace(p.ApplicantEmail)),
		ApplicantPhone: strings.TrimSpace(p.ApplicantPhone),
		MonthlyIncome:  p.MonthlyIncome,
		MoveInDate:     p.MoveInDate,
		Notes:          p.Notes,
		Status:         string(common.ApplicationPending),
	}
	if invite.ListingID != nil {
		listing, err := s.listings.GetListingByID(ctx, *invite.ListingID)
		if err != nil {
			return nil, err
		}
		if listing != nil {
			app.PropertyID = listing.PropertyID
			app.UnitID = listing.UnitID
		}
	}
	if err := s.applications.CreateApplication(ctx, app); err != nil {
		return nil, err
	}

	now := time.Now()
	invite.Status = string(common.InviteCompleted)
	invite.CompletedAt = &now
	if err := s.invites.UpdateInvite(ctx, invite); err != nil {
		return nil, err
	}

	s.publish(common.Event{
		Type:     common.EventApplicationReceived,
		Header:   "New rental application",
		Content:  fmt.Sprintf("%s applied", app.ApplicantName),
		EntityID: app.ID,
	})
	s.publish(common.Event{
		Type:     common.EventInviteCompleted,
		Header:   "Invite completed",
		Content:  fmt.Sprintf("invite for %s was used", invite.Email),
		EntityID: invite.ID,
	})
	return app, nil
}

func (s *leasingService) ListApplications(ctx context.Context, orgID string) ([]*dbmysql.Application, error) {
	if orgID == "" {
		return nil, invalidf("organization id is required")
	}
	apps, err := s.applications.ListApplications(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []*dbmysql.Application{}
	}
	return apps, nil
}

func (s *leasingService) GetApplication(ctx context.Context, orgID, applicationID string) (*dbmysql.Application, error) {
	return s.ownedApplication(ctx, orgID, applicationID)
}

func (s *leasingService) SetApplicationStatus(ctx context.Context, orgID, applicationID, status string) (*dbmysql.Application, error) {
	app, err := s.ownedApplication(ctx, orgID, applicationID)
	if err != nil {
		return nil, err
	}
	next := common.ApplicationStatus(status)
	if !common.ApplicationStatus(app.Status).CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, app.Status, status)
	}
	if err := s.applications.UpdateApplicationStatus(ctx, applicationID, status); err != nil {
		return nil, err
	}
	app.Status = status

	// approving an application for a concrete unit takes that unit off the
	// vacant list
	if next == common.ApplicationApproved && app.UnitID != nil {
		if err := s.units.UpdateUnitStatus(ctx, *app.UnitID, "occupied"); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func (s *leasingService) ownedListing(ctx context.Context, orgID, listingID string) (*dbmysql.Listing, error) {
	if orgID == "" || listingID == "" {
		return nil, invalidf("organization id and listing id are required")
	}
	listing, err := s.listings.GetListingByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil || listing.OrganizationID != orgID {
		return nil, notFoundf("listing")
	}
	return listing, nil
}

func (s *leasingService) ownedApplication(ctx context.Context, orgID, applicationID string) (*dbmysql.Application, error) {
	if orgID == "" || applicationID == "" {
		return nil, invalidf("organization id and application id are required")
	}
	app, err := s.applications.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil || app.OrganizationID != orgID {
		return nil, notFoundf("application")
	}
	return app, nil
}

// redeemableInvite resolves a clear code to its invite and enforces the
// lifecycle: bad code and wrong digest both read as not found, a past
// deadline flips the row to expired before failing.
func (s *leasingService) redeemableInvite(ctx context.Context, code string) (*dbmysql.Invite, error) {
	code = strings.TrimSpace(code)
	if len(code) < common.InviteCodeHintLen {
		return nil, notFoundf("invite")
	}
	invite, err := s.invites.GetInviteByHint(ctx, common.InviteCodeHint(code))
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, notFoundf("invite")
	}
	if err := common.CheckInviteCode(code, invite.CodeDigest); err != nil {
		return nil, notFoundf("invite")
	}
	if invite.Status == string(common.InviteCompleted) {
		return nil, invalidf("invite was already used")
	}
	if inviteExpired(invite, time.Now()) {
		if invite.Status != string(common.InviteExpired) {
			invite.Status = string(common.InviteExpired)
			if err := s.invites.UpdateInvite(ctx, invite); err != nil {
				return nil, err
			}
		}
		return nil, ErrInviteExpired
	}
	return invite, nil
}

func inviteExpired(invite *dbmysql.Invite, now time.Time) bool {
	if invite.Status == string(common.InviteCompleted) {
		return false
	}
	return invite.Status == string(common.InviteExpired) || now.After(invite.ExpiresAt)
}

func (s *leasingService) publish(event common.Event) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.NotifyAsync(event)
}
