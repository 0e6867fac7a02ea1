package leasing

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"rentdesk/internal/common"
)

// Handler exposes listings, invites and applications over HTTP. Staff routes
// go on the authenticated router; the marketplace and the invite flow are
// public.
type Handler struct {
	svc LeasingService
}

func NewHandler(svc LeasingService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/listings", h.listListings).Methods("GET")
	r.HandleFunc("/listings", h.createListing).Methods("POST")
	r.HandleFunc("/listings/{id}", h.getListing).Methods("GET")
	r.HandleFunc("/listings/{id}/status", h.setListingStatus).Methods("PUT")
	r.HandleFunc("/listings/{id}", h.deleteListing).Methods("DELETE")
	r.HandleFunc("/invites", h.listInvites).Methods("GET")
	r.HandleFunc("/invites", h.createInvite).Methods("POST")
	r.HandleFunc("/applications", h.listApplications).Methods("GET")
	r.HandleFunc("/applications/{id}", h.getApplication).Methods("GET")
	r.HandleFunc("/applications/{id}/status", h.setApplicationStatus).Methods("PUT")
}

// PublicRoutes registers the endpoints applicants hit without a token.
func (h *Handler) PublicRoutes(r *mux.Router) {
	r.HandleFunc("/marketplace", h.marketplace).Methods("GET")
	r.HandleFunc("/apply/invite/{code}", h.openInvite).Methods("GET")
	r.HandleFunc("/apply/invite/{code}", h.submitApplication).Methods("POST")
}

type createListingRequest struct {
	PropertyID    *string    `json:"property_id"`
	UnitID        *string    `json:"unit_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	RentAmount    int64      `json:"rent_amount"`
	AvailableFrom *time.Time `json:"available_from"`
}

func (h *Handler) createListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	listing, err := h.svc.CreateListing(r.Context(), CreateListingParams{
		OrganizationID: common.OrgIDFromContext(r.Context()),
		PropertyID:     req.PropertyID,
		UnitID:         req.UnitID,
		Title:          req.Title,
		Description:    req.Description,
		RentAmount:     req.RentAmount,
		AvailableFrom:  req.AvailableFrom,
	})
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, listing)
}

func (h *Handler) listListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.ListListings(r.Context(), common.OrgIDFromContext(r.Context()))
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, listings)
}

func (h *Handler) getListing(w http.ResponseWriter, r *http.Request) {
	listing, err := h.svc.GetListing(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, listing)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setListingStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	listing, err := h.svc.SetListingStatus(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, listing)
}

func (h *Handler) deleteListing(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteListing(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) marketplace(w http.ResponseWriter, r *http.Request) {
	listings, err := h.svc.Marketplace(r.Context())
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, listings)
}

type createInviteRequest struct {
	ListingID *string `json:"listing_id"`
	Email     string  `json:"email"`
}

func (h *Handler) createInvite(w http.ResponseWriter, r *http.Request) {
	var req createInviteRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := h.svc.CreateInvite(r.Context(), CreateInviteParams{
		OrganizationID: common.OrgIDFromContext(r.Context()),
		ListingID:      req.ListingID,
		Email:          req.Email,
	})
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) listInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := h.svc.ListInvites(r.Context(), common.OrgIDFromContext(r.Context()))
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, invites)
}

func (h *Handler) openInvite(w http.ResponseWriter, r *http.Request) {
	preview, err := h.svc.OpenInvite(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, preview)
}

type submitApplicationRequest struct {
	ApplicantName  string     `json:"applicant_name"`
	ApplicantEmail string     `json:"applicant_email"`
	ApplicantPhone string     `json:"applicant_phone"`
	MonthlyIncome  int64      `json:"monthly_income"`
	MoveInDate     *time.Time `json:"move_in_date"`
	Notes          string     `json:"notes"`
}

func (h *Handler) submitApplication(w http.ResponseWriter, r *http.Request) {
	var req submitApplicationRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	app, err := h.svc.SubmitApplication(r.Context(), SubmitApplicationParams{
		Code:           mux.Vars(r)["code"],
		ApplicantName:  req.ApplicantName,
		ApplicantEmail: req.ApplicantEmail,
		ApplicantPhone: req.ApplicantPhone,
		MonthlyIncome:  req.MonthlyIncome,
		MoveInDate:     req.MoveInDate,
		Notes:          req.Notes,
	})
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, app)
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.ListApplications(r.Context(), common.OrgIDFromContext(r.Context()))
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, apps)
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request) {
	app, err := h.svc.GetApplication(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) setApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	app, err := h.svc.SetApplicationStatus(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeLeasingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, app)
}

func writeLeasingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInviteExpired):
		common.WriteError(w, http.StatusGone, err.Error())
	case errors.Is(err, ErrBadTransition):
		common.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotFound):
		common.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalid):
		common.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		common.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
