package billing

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"rentdesk/internal/common"
)

type Handler struct {
	svc BillingService
}

func NewHandler(svc BillingService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/invoices", h.listInvoices).Methods("GET")
	r.HandleFunc("/invoices", h.createInvoice).Methods("POST")
	r.HandleFunc("/invoices/{id}/send", h.markSent).Methods("POST")
	r.HandleFunc("/invoices/{id}/pay", h.markPaid).Methods("POST")
	r.HandleFunc("/expenses", h.listExpenses).Methods("GET")
	r.HandleFunc("/expenses", h.createExpense).Methods("POST")
	r.HandleFunc("/expenses/{id}", h.deleteExpense).Methods("DELETE")
	r.HandleFunc("/billing/summary", h.monthSummary).Methods("GET")
	r.HandleFunc("/billing/subscription", h.getSubscription).Methods("GET")
	r.HandleFunc("/billing/subscription", h.changePlan).Methods("PUT")
}

type createInvoiceRequest struct {
	TenantID    *string   `json:"tenant_id"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	DueDate     time.Time `json:"due_date"`
}

func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	invoice, err := h.svc.CreateInvoice(r.Context(), CreateInvoiceParams{
		OrganizationID: common.OrgIDFromContext(r.Context()),
		TenantID:       req.TenantID,
		Description:    req.Description,
		Amount:         req.Amount,
		DueDate:        req.DueDate,
	})
	if err != nil {
		writeBillingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, invoice)
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListInvoices(r.Context(), common.OrgIDFromContext(r.Context()))
	if err != nil {
		writeBillingError(w, err)
		return
	}
	if views == nil {
		views = []*InvoiceView{}
	}
	common.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) markSent(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.svc.MarkInvoiceSent(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeBillingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, invoice)
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.svc.MarkInvoicePaid(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeBillingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, invoice)
}

type createExpenseRequest struct {
	PropertyID *string    `json:"property_id"`
	Category   string     `json:"category"`
	Amount     int64      `json:"amount"`
	IncurredAt *time.Time `json:"incurred_at"`
	Notes      string     `json:"notes"`
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	params := CreateExpenseParams{
		OrganizationID: common.OrgIDFromContext(r.Context()),
		PropertyID:     req.PropertyID,
		Category:       req.Category,
		Amount:         req.Amount,
		Notes:          req.Notes,
	}
	if req.IncurredAt != nil {
		params.IncurredAt = *req.IncurredAt
	}
	expense, err := h.svc.CreateExpense(r.Context(), params)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, expense)
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.svc.ListExpenses(r.Context(), common.OrgIDFromContext(r.Context()))
	if err != nil {
		writeBillingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, expenses)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteExpense(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeBillingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) monthSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.MonthSummary(r.Context(), common.OrgIDFromContext(r.Context()))
	if err != nil {
		writeBillingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) getSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.svc.GetSubscription(r.Context(), common.OrgIDFromContext(r.Context()))
	if err != nil {
		writeBillingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, sub)
}

type changePlanRequest struct {
	Plan  string `json:"plan"`
	Seats int    `json:"seats"`
}

func (h *Handler) changePlan(w http.ResponseWriter, r *http.Request) {
	var req changePlanRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sub, err := h.svc.ChangePlan(r.Context(), common.OrgIDFromContext(r.Context()), req.Plan, req.Seats)
	if err != nil {
		writeBillingError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, sub)
}

func writeBillingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalid):
		common.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		common.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
