package notify

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentdesk/internal/common"
	"rentdesk/internal/dbmysql"
)

const defaultNotificationLimit = 20

// Handler serves the in-app notification feed.
type Handler struct {
	repo NotificationRepository
}

func NewHandler(repo NotificationRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/notifications", h.listNotifications).Methods("GET")
	r.HandleFunc("/notifications/unread-count", h.unreadCount).Methods("GET")
	r.HandleFunc("/notifications/{id}/read", h.markRead).Methods("POST")
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID := common.UserIDFromContext(r.Context())

	limit := defaultNotificationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			common.WriteError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	notifications, err := h.repo.ListNotifications(r.Context(), userID, limit)
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if notifications == nil {
		notifications = []*dbmysql.Notification{}
	}
	common.WriteJSON(w, http.StatusOK, notifications)
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.repo.CountUnread(r.Context(), common.UserIDFromContext(r.Context()))
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid notification id")
		return
	}
	if err := h.repo.MarkNotificationRead(r.Context(), id, common.UserIDFromContext(r.Context())); err != nil {
		common.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
