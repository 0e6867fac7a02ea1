package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentdesk/internal/chat/service"
	"rentdesk/internal/common"
	"rentdesk/internal/dbmysql"
)

// ChatHandler exposes the messaging subsystem over HTTP.
type ChatHandler struct {
	svc service.ChatService
}

func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Routes registers all chat endpoints on the given (authenticated) router.
func (h *ChatHandler) Routes(r *mux.Router) {
	r.HandleFunc("/conversations", h.listConversations).Methods("GET")
	r.HandleFunc("/conversations", h.createConversation).Methods("POST")
	r.HandleFunc("/conversations/{id}", h.getConversation).Methods("GET")
	r.HandleFunc("/conversations/{id}/messages", h.listMessages).Methods("GET")
	r.HandleFunc("/conversations/{id}/messages", h.sendMessage).Methods("POST")
	r.HandleFunc("/conversations/{id}/read", h.markAsRead).Methods("POST")
	r.HandleFunc("/messages/stats", h.messageStats).Methods("GET")
	r.HandleFunc("/messages/unread-count", h.unreadCount).Methods("GET")
	r.HandleFunc("/messages/{id}", h.editMessage).Methods("PUT")
	r.HandleFunc("/messages/{id}", h.deleteMessage).Methods("DELETE")
	r.HandleFunc("/messages/{id}/reactions", h.toggleReaction).Methods("POST")
}

func (h *ChatHandler) listConversations(w http.ResponseWriter, r *http.Request) {
	orgID := common.OrgIDFromContext(r.Context())
	filter := common.ConversationFilter(r.URL.Query().Get("filter"))
	search := r.URL.Query().Get("search")

	views, err := h.svc.ListConversations(r.Context(), orgID, filter, search)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if views == nil {
		views = []*service.ConversationView{}
	}
	common.WriteJSON(w, http.StatusOK, views)
}

type createConversationRequest struct {
	TenantID     *string `json:"tenant_id"`
	PropertyID   *string `json:"property_id"`
	UnitID       *string `json:"unit_id"`
	Participants []struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
		Name   string `json:"name"`
	} `json:"participants"`
}

func (h *ChatHandler) createConversation(w http.ResponseWriter, r *http.Request) {
	var req createConversationRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := service.CreateConversationParams{
		OrganizationID: common.OrgIDFromContext(r.Context()),
		TenantID:       req.TenantID,
		PropertyID:     req.PropertyID,
		UnitID:         req.UnitID,
	}
	for _, p := range req.Participants {
		params.Participants = append(params.Participants, service.ParticipantParams{
			UserID: p.UserID,
			Role:   common.ParticipantRole(p.Role),
			Name:   p.Name,
		})
	}

	conv, err := h.svc.CreateConversation(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, conv)
}

func (h *ChatHandler) getConversation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	view, err := h.svc.GetConversation(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if view == nil {
		common.WriteError(w, http.StatusNotFound, "conversation not found")
		return
	}
	common.WriteJSON(w, http.StatusOK, view)
}

func (h *ChatHandler) listMessages(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			common.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	views, err := h.svc.GetConversationMessages(r.Context(), id, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if views == nil {
		views = []*service.MessageView{}
	}
	common.WriteJSON(w, http.StatusOK, views)
}

type sendMessageRequest struct {
	Content     string  `json:"content"`
	ReplyToID   *string `json:"reply_to_id"`
	Attachments []struct {
		Name     string `json:"name"`
		URL      string `json:"url"`
		MimeType string `json:"mime_type"`
	} `json:"attachments"`
}

func (h *ChatHandler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := service.SendMessageParams{
		ConversationID: mux.Vars(r)["id"],
		SenderID:       common.UserIDFromContext(r.Context()),
		Content:        req.Content,
		ReplyToID:      req.ReplyToID,
	}
	for _, a := range req.Attachments {
		params.Attachments = append(params.Attachments, dbmysql.MessageAttachment{
			Name:     a.Name,
			URL:      a.URL,
			MimeType: a.MimeType,
		})
	}

	msg, err := h.svc.SendMessage(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusCreated, msg)
}

func (h *ChatHandler) markAsRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	userID := common.UserIDFromContext(r.Context())

	if err := h.svc.MarkAsRead(r.Context(), id, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type reactionRequest struct {
	Emoji string `json:"emoji"`
}

func (h *ChatHandler) toggleReaction(w http.ResponseWriter, r *http.Request) {
	var req reactionRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	added, err := h.svc.ToggleReaction(r.Context(), mux.Vars(r)["id"], common.UserIDFromContext(r.Context()), req.Emoji)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"added": added})
}

type editMessageRequest struct {
	Content string `json:"content"`
}

func (h *ChatHandler) editMessage(w http.ResponseWriter, r *http.Request) {
	var req editMessageRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.svc.EditMessage(r.Context(), mux.Vars(r)["id"], common.UserIDFromContext(r.Context()), req.Content)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *ChatHandler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteMessage(r.Context(), mux.Vars(r)["id"], common.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *ChatHandler) messageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetMessageStats(r.Context(), common.OrgIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, stats)
}

func (h *ChatHandler) unreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.GetUnreadCount(r.Context(), common.OrgIDFromContext(r.Context()), common.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// writeServiceError maps the service's sentinel errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		common.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotOwner):
		common.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalid):
		common.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		common.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
