package portfolio

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"rentdesk/internal/common"
	"rentdesk/internal/dbmysql"
)

// Handler exposes property, unit and tenant management over HTTP.
type Handler struct {
	svc PortfolioService
}

func NewHandler(svc PortfolioService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/properties", h.listProperties).Methods("GET")
	r.HandleFunc("/properties", h.createProperty).Methods("POST")
	r.HandleFunc("/properties/{id}", h.getProperty).Methods("GET")
	r.HandleFunc("/properties/{id}", h.updateProperty).Methods("PUT")
	r.HandleFunc("/properties/{id}", h.deleteProperty).Methods("DELETE")
	r.HandleFunc("/properties/{id}/units", h.listUnits).Methods("GET")
	r.HandleFunc("/properties/{id}/units", h.createUnit).Methods("POST")
	r.HandleFunc("/units/{id}/status", h.setUnitStatus).Methods("PUT")
	r.HandleFunc("/units/{id}", h.deleteUnit).Methods("DELETE")
	r.HandleFunc("/tenants", h.listTenants).Methods("GET")
	r.HandleFunc("/tenants", h.createTenant).Methods("POST")
	r.HandleFunc("/tenants/{id}", h.getTenant).Methods("GET")
	r.HandleFunc("/tenants/{id}", h.updateTenant).Methods("PUT")
	r.HandleFunc("/tenants/{id}", h.deleteTenant).Methods("DELETE")
}

type propertyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Type    string `json:"type"`
}

func (h *Handler) createProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	property, err := h.svc.CreateProperty(r.Context(), CreatePropertyParams{
		OrganizationID: common.OrgIDFromContext(r.Context()),
		Name:           req.Name,
		Address:        req.Address,
		City:           req.City,
		Type:           req.Type,
	})
	if err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, property)
}

func (h *Handler) listProperties(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListProperties(r.Context(), common.OrgIDFromContext(r.Context()))
	if err != nil {
		writePortfolioError(w, err)
		return
	}
	if views == nil {
		views = []*PropertyView{}
	}
	common.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) getProperty(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetProperty(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) updateProperty(w http.ResponseWriter, r *http.Request) {
	var req propertyRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	property, err := h.svc.UpdateProperty(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"], UpdatePropertyParams{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Type:    req.Type,
	})
	if err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, property)
}

func (h *Handler) deleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProperty(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type createUnitRequest struct {
	UnitNumber string `json:"unit_number"`
	Bedrooms   int    `json:"bedrooms"`
	Bathrooms  int    `json:"bathrooms"`
	RentAmount int64  `json:"rent_amount"`
}

func (h *Handler) createUnit(w http.ResponseWriter, r *http.Request) {
	var req createUnitRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	unit, err := h.svc.CreateUnit(r.Context(), common.OrgIDFromContext(r.Context()), CreateUnitParams{
		PropertyID: mux.Vars(r)["id"],
		UnitNumber: req.UnitNumber,
		Bedrooms:   req.Bedrooms,
		Bathrooms:  req.Bathrooms,
		RentAmount: req.RentAmount,
	})
	if err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, unit)
}

func (h *Handler) listUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.svc.ListUnits(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writePortfolioError(w, err)
		return
	}
	if units == nil {
		units = []*dbmysql.Unit{}
	}
	common.WriteJSON(w, http.StatusOK, units)
}

type unitStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setUnitStatus(w http.ResponseWriter, r *http.Request) {
	var req unitStatusRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.SetUnitStatus(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"], req.Status); err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (h *Handler) deleteUnit(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteUnit(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type tenantRequest struct {
	UserID     *string `json:"user_id"`
	UnitID     *string `json:"unit_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	RentAmount int64   `json:"rent_amount"`
	Status     string  `json:"status"`
}

func (h *Handler) createTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tenant, err := h.svc.CreateTenant(r.Context(), CreateTenantParams{
		OrganizationID: common.OrgIDFromContext(r.Context()),
		UserID:         req.UserID,
		UnitID:         req.UnitID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		RentAmount:     req.RentAmount,
	})
	if err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, tenant)
}

func (h *Handler) listTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.svc.ListTenants(r.Context(), ListTenantsParams{
		OrganizationID: common.OrgIDFromContext(r.Context()),
		Status:         r.URL.Query().Get("status"),
		SortBy:         r.URL.Query().Get("sort"),
	})
	if err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, tenants)
}

func (h *Handler) getTenant(w http.ResponseWriter, r *http.Request) {
	tenant, err := h.svc.GetTenant(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, tenant)
}

func (h *Handler) updateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	orgID := common.OrgIDFromContext(r.Context())
	tenantID := mux.Vars(r)["id"]
	existing, err := h.svc.GetTenant(r.Context(), orgID, tenantID)
	if err != nil {
		writePortfolioError(w, err)
		return
	}
	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.Phone != "" {
		existing.Phone = req.Phone
	}
	if req.RentAmount != 0 {
		existing.RentAmount = req.RentAmount
	}
	if req.Status != "" {
		existing.Status = req.Status
	}
	if req.UnitID != nil {
		existing.UnitID = req.UnitID
	}
	if err := h.svc.UpdateTenant(r.Context(), orgID, existing); err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, existing)
}

func (h *Handler) deleteTenant(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteTenant(r.Context(), common.OrgIDFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writePortfolioError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func writePortfolioError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalid):
		common.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		common.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
