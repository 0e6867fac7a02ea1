package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentdesk/internal/chat/repository"
	"rentdesk/internal/common"
	"rentdesk/internal/dbmysql"
)

const (
	// DefaultMessageLimit is the page size when the caller does not ask for one.
	DefaultMessageLimit = 50

	// ReplySnippetLen caps how much of a reply target is echoed in the thread.
	ReplySnippetLen = 100

	// PreviewLen caps the denormalized conversation preview.
	PreviewLen = 100

	// DeletedMessagePlaceholder replaces the content of soft-deleted messages
	// wherever they surface.
	DeletedMessagePlaceholder = "This message was deleted"
)

// ConversationView is a display-ready conversation: the raw record plus
// denormalized tenant/property/unit fields resolved in a batched pass.
type ConversationView struct {
	dbmysql.Conversation
	TenantName   string `json:"tenant_name,omitempty"`
	PropertyName string `json:"property_name,omitempty"`
	UnitNumber   string `json:"unit_number,omitempty"`
}

// SenderSummary is the compact sender block on each message.
type SenderSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// ReplySnippet is the resolved reply target shown above a reply.
type ReplySnippet struct {
	ID         string `json:"id"`
	SenderName string `json:"sender_name"`
	Content    string `json:"content"`
}

type ReactionView struct {
	Emoji    string `json:"emoji"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
}

// MessageView is a display-ready message.
type MessageView struct {
	ID             string                      `json:"id"`
	ConversationID string                      `json:"conversation_id"`
	Content        string                      `json:"content"`
	Sender         SenderSummary               `json:"sender"`
	ReplyTo        *ReplySnippet               `json:"reply_to,omitempty"`
	Reactions      []ReactionView              `json:"reactions,omitempty"`
	Attachments    []dbmysql.MessageAttachment `json:"attachments,omitempty"`
	IsEdited       bool                        `json:"is_edited"`
	IsDeleted      bool                        `json:"is_deleted"`
	SentAt         time.Time                   `json:"sent_at"`
}

// MessageStats is the aggregate counters block above the conversation list.
type MessageStats struct {
	Total      int `json:"total"`
	Unread     int `json:"unread"`
	Tenants    int `json:"tenants"`
	Applicants int `json:"applicants"`
	Vendors    int `json:"vendors"`
}

type ParticipantParams struct {
	UserID string
	Role   common.ParticipantRole
	Name   string
}

type CreateConversationParams struct {
	OrganizationID string
	TenantID       *string
	PropertyID     *string
	UnitID         *string
	Participants   []ParticipantParams
}

type SendMessageParams struct {
	ConversationID string
	SenderID       string
	Content        string
	ReplyToID      *string
	Attachments    []dbmysql.MessageAttachment
}

// ChatService defines the interface exposed to the handler layer
type ChatService interface {
	ListConversations(ctx context.Context, organizationID string, filter common.ConversationFilter, searchQuery string) ([]*ConversationView, error)
	GetConversation(ctx context.Context, id string) (*ConversationView, error)
	GetConversationMessages(ctx context.Context, conversationID string, limit int) ([]*MessageView, error)
	GetUnreadCount(ctx context.Context, organizationID, userID string) (int, error)
	GetMessageStats(ctx context.Context, organizationID string) (*MessageStats, error)

	CreateConversation(ctx context.Context, params CreateConversationParams) (*dbmysql.Conversation, error)
	SendMessage(ctx context.Context, params SendMessageParams) (*dbmysql.Message, error)
	ToggleReaction(ctx context.Context, messageID, userID, emoji string) (bool, error)
	MarkAsRead(ctx context.Context, conversationID, userID string) error
	EditMessage(ctx context.Context, messageID, senderID, content string) error
	DeleteMessage(ctx context.Context, messageID, senderID string) error
}

type chatService struct {
	repo       repository.ChatRepository
	dispatcher common.Subject // nil when the dispatcher is disabled
}

// Constructor used in DI/wire
func NewChatService(r repository.ChatRepository, dispatcher common.Subject) ChatService {
	return &chatService{repo: r, dispatcher: dispatcher}
}

// ListConversations fetches the organization's conversations newest-first,
// applies the tab filter and search in memory, then resolves display fields
// with batched lookups.
func (s *chatService) ListConversations(ctx context.Context, organizationID string, filter common.ConversationFilter, searchQuery string) ([]*ConversationView, error) {
	if !filter.IsValid() {
		return nil, invalidf("unknown conversation filter")
	}

	convs, err := s.repo.ListConversations(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	matched := make([]*dbmysql.Conversation, 0, len(convs))
	for _, conv := range convs {
		if !matchesFilter(conv, filter) {
			continue
		}
		if !matchesSearch(conv, searchQuery) {
			continue
		}
		matched = append(matched, conv)
	}

	return s.enrichConversations(ctx, matched)
}

func (s *chatService) GetConversation(ctx context.Context, id string) (*ConversationView, error) {
	if id == "" {
		return nil, invalidf("conversation ID is required")
	}

	conv, err := s.repo.GetConversation(ctx, id)
	if err != nil || conv == nil {
		return nil, err
	}

	views, err := s.enrichConversations(ctx, []*dbmysql.Conversation{conv})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// GetConversationMessages returns an ascending page of the oldest messages,
// each with sender summary, resolved reply target and reaction user names.
func (s *chatService) GetConversationMessages(ctx context.Context, conversationID string, limit int) ([]*MessageView, error) {
	if conversationID == "" {
		return nil, invalidf("conversation ID is required")
	}
	if limit <= 0 {
		limit = DefaultMessageLimit
	}

	messages, err := s.repo.ListMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}

	// collect every user id referenced by a message or reaction, plus reply
	// targets, and resolve them in two batched reads
	userIDs := make(map[string]bool)
	replyIDs := make(map[string]bool)
	for _, msg := range messages {
		userIDs[msg.SenderID] = true
		for _, r := range msg.Reactions {
			userIDs[r.UserID] = true
		}
		if msg.ReplyToID != nil {
			replyIDs[*msg.ReplyToID] = true
		}
	}

	replyTargets := make(map[string]*dbmysql.Message, len(replyIDs))
	byID := make(map[string]*dbmysql.Message, len(messages))
	for _, msg := range messages {
		byID[msg.ID] = msg
	}
	for id := range replyIDs {
		if target, ok := byID[id]; ok {
			replyTargets[id] = target
			userIDs[target.SenderID] = true
			continue
		}
		// target fell outside the page
		target, err := s.repo.GetMessage(ctx, id)
		if err != nil {
			return nil, err
		}
		if target != nil {
			replyTargets[id] = target
			userIDs[target.SenderID] = true
		}
	}

	users, err := s.repo.UsersByIDs(ctx, keys(userIDs))
	if err != nil {
		return nil, err
	}

	views := make([]*MessageView, 0, len(messages))
	for _, msg := range messages {
		views = append(views, buildMessageView(msg, replyTargets, users))
	}
	return views, nil
}

func (s *chatService) GetUnreadCount(ctx context.Context, organizationID, userID string) (int, error) {
	convs, err := s.repo.ListConversations(ctx, organizationID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, conv := range convs {
		for _, p := range conv.Participants {
			if p.UserID == userID {
				total += p.UnreadCount
			}
		}
	}
	return total, nil
}

// GetMessageStats recounts the aggregate tiles on every call; the scope is
// small enough that an incremental counter is not worth its bookkeeping.
func (s *chatService) GetMessageStats(ctx context.Context, organizationID string) (*MessageStats, error) {
	convs, err := s.repo.ListConversations(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	stats := &MessageStats{Total: len(convs)}
	for _, conv := range convs {
		if hasUnread(conv) {
			stats.Unread++
		}
		if hasRole(conv, common.RoleTenant) {
			stats.Tenants++
		}
		if hasRole(conv, common.RoleApplicant) {
			stats.Applicants++
		}
		if hasRole(conv, common.RoleVendor) {
			stats.Vendors++
		}
	}
	return stats, nil
}

func (s *chatService) CreateConversation(ctx context.Context, params CreateConversationParams) (*dbmysql.Conversation, error) {
	if params.OrganizationID == "" {
		return nil, invalidf("organization ID is required")
	}
	if len(params.Participants) == 0 {
		return nil, invalidf("at least one participant is required")
	}

	seen := make(map[string]bool)
	participants := make([]dbmysql.Participant, 0, len(params.Participants))
	for _, p := range params.Participants {
		if p.UserID == "" {
			return nil, invalidf("participant user ID is required")
		}
		if !p.Role.IsValid() {
			return nil, invalidf("invalid participant role: %s", p.Role)
		}
		if seen[p.UserID] {
			return nil, invalidf("duplicate participant: %s", p.UserID)
		}
		seen[p.UserID] = true
		participants = append(participants, dbmysql.Participant{
			UserID: p.UserID,
			Role:   string(p.Role),
			Name:   p.Name,
		})
	}

	conv := &dbmysql.Conversation{
		ID:             uuid.NewString(),
		OrganizationID: params.OrganizationID,
		TenantID:       params.TenantID,
		PropertyID:     params.PropertyID,
		UnitID:         params.UnitID,
		Participants:   participants,
	}

	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// SendMessage handles message validation and saving. A reply is the same
// write with ReplyToID set; the target must live in the same conversation.
func (s *chatService) SendMessage(ctx context.Context, params SendMessageParams) (*dbmysql.Message, error) {
	if params.ConversationID == "" {
		return nil, invalidf("conversation ID cannot be empty")
	}
	if params.SenderID == "" {
		return nil, invalidf("sender ID cannot be empty")
	}
	if err := common.ValidateMessageContent(params.Content); err != nil {
		return nil, invalidf("%v", err)
	}

	conv, err := s.repo.GetConversation(ctx, params.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %w", ErrNotFound)
	}

	if params.ReplyToID != nil {
		target, err := s.repo.GetMessage(ctx, *params.ReplyToID)
		if err != nil {
			return nil, err
		}
		if target == nil || target.ConversationID != params.ConversationID {
			return nil, invalidf("reply target is not in this conversation")
		}
	}

	msg := &dbmysql.Message{
		ID:             uuid.NewString(),
		ConversationID: params.ConversationID,
		SenderID:       params.SenderID,
		Content:        params.Content,
		ReplyToID:      params.ReplyToID,
		Attachments:    params.Attachments,
		SentAt:         time.Now().UTC(),
	}

	preview := common.TruncateRunes(params.Content, PreviewLen)
	if err := s.repo.SaveMessage(ctx, msg, preview); err != nil {
		return nil, err
	}

	s.publish(common.Event{
		Type:     common.EventMessageSent,
		UserIDs:  recipientIDs(conv, params.SenderID),
		Header:   "New message",
		Content:  preview,
		EntityID: conv.ID,
	})

	return msg, nil
}

func (s *chatService) ToggleReaction(ctx context.Context, messageID, userID, emoji string) (bool, error) {
	if messageID == "" || userID == "" {
		return false, invalidf("message ID and user ID are required")
	}
	if emoji == "" {
		return false, invalidf("emoji is required")
	}

	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return false, err
	}
	if msg == nil {
		return false, fmt.Errorf("message %w", ErrNotFound)
	}
	if msg.IsDeleted {
		return false, invalidf("cannot react to a deleted message")
	}

	return s.repo.ToggleReaction(ctx, messageID, userID, emoji)
}

func (s *chatService) MarkAsRead(ctx context.Context, conversationID, userID string) error {
	if conversationID == "" || userID == "" {
		return invalidf("conversation ID and user ID are required")
	}
	return s.repo.MarkAsRead(ctx, conversationID, userID)
}

func (s *chatService) EditMessage(ctx context.Context, messageID, senderID, content string) error {
	if err := common.ValidateMessageContent(content); err != nil {
		return invalidf("%v", err)
	}

	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return fmt.Errorf("message %w", ErrNotFound)
	}
	if msg.SenderID != senderID {
		return ErrNotOwner
	}
	if msg.IsDeleted {
		return invalidf("cannot edit a deleted message")
	}

	msg.Content = content
	msg.IsEdited = true
	return s.repo.UpdateMessage(ctx, msg)
}

// DeleteMessage soft-deletes: the flag is set, the row stays.
func (s *chatService) DeleteMessage(ctx context.Context, messageID, senderID string) error {
	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return fmt.Errorf("message %w", ErrNotFound)
	}
	if msg.SenderID != senderID {
		return ErrNotOwner
	}

	msg.IsDeleted = true
	return s.repo.UpdateMessage(ctx, msg)
}

func (s *chatService) publish(event common.Event) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.NotifyAsync(event)
}

// enrichConversations resolves tenant/property/unit display fields for a
// batch of conversations with one lookup per relation.
func (s *chatService) enrichConversations(ctx context.Context, convs []*dbmysql.Conversation) ([]*ConversationView, error) {
	tenantIDs := make(map[string]bool)
	propertyIDs := make(map[string]bool)
	unitIDs := make(map[string]bool)
	for _, conv := range convs {
		if conv.TenantID != nil {
			tenantIDs[*conv.TenantID] = true
		}
		if conv.PropertyID != nil {
			propertyIDs[*conv.PropertyID] = true
		}
		if conv.UnitID != nil {
			unitIDs[*conv.UnitID] = true
		}
	}

	tenants, err := s.repo.TenantsByIDs(ctx, keys(tenantIDs))
	if err != nil {
		return nil, err
	}
	properties, err := s.repo.PropertiesByIDs(ctx, keys(propertyIDs))
	if err != nil {
		return nil, err
	}
	units, err := s.repo.UnitsByIDs(ctx, keys(unitIDs))
	if err != nil {
		return nil, err
	}

	views := make([]*ConversationView, 0, len(convs))
	for _, conv := range convs {
		view := &ConversationView{Conversation: *conv}
		if conv.TenantID != nil {
			if tn, ok := tenants[*conv.TenantID]; ok {
				view.TenantName = tn.Name
			}
		}
		if conv.PropertyID != nil {
			if p, ok := properties[*conv.PropertyID]; ok {
				view.PropertyName = p.Name
			}
		}
		if conv.UnitID != nil {
			if u, ok := units[*conv.UnitID]; ok {
				view.UnitNumber = u.UnitNumber
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func buildMessageView(msg *dbmysql.Message, replyTargets map[string]*dbmysql.Message, users map[string]*dbmysql.User) *MessageView {
	view := &MessageView{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Content:        msg.Content,
		IsEdited:       msg.IsEdited,
		IsDeleted:      msg.IsDeleted,
		SentAt:         msg.SentAt,
		Attachments:    msg.Attachments,
	}
	if msg.IsDeleted {
		view.Content = DeletedMessagePlaceholder
		view.Attachments = nil
	}

	view.Sender = SenderSummary{ID: msg.SenderID}
	if u, ok := users[msg.SenderID]; ok {
		view.Sender.Name = u.Name
		view.Sender.Role = u.Role
	}

	if msg.ReplyToID != nil {
		snippet := &ReplySnippet{ID: *msg.ReplyToID}
		if target, ok := replyTargets[*msg.ReplyToID]; ok {
			if target.IsDeleted {
				snippet.Content = DeletedMessagePlaceholder
			} else {
				snippet.Content = common.TruncateRunes(target.Content, ReplySnippetLen)
			}
			if u, ok := users[target.SenderID]; ok {
				snippet.SenderName = u.Name
			}
		} else {
			snippet.Content = DeletedMessagePlaceholder
		}
		view.ReplyTo = snippet
	}

	for _, r := range msg.Reactions {
		rv := ReactionView{Emoji: r.Emoji, UserID: r.UserID}
		if u, ok := users[r.UserID]; ok {
			rv.UserName = u.Name
		}
		view.Reactions = append(view.Reactions, rv)
	}

	return view
}

func matchesFilter(conv *dbmysql.Conversation, filter common.ConversationFilter) bool {
	switch filter {
	case common.FilterUnread:
		return hasUnread(conv)
	case common.FilterTenants:
		return hasRole(conv, common.RoleTenant)
	case common.FilterApplicants:
		return hasRole(conv, common.RoleApplicant)
	case common.FilterVendors:
		return hasRole(conv, common.RoleVendor)
	default:
		return true
	}
}

func matchesSearch(conv *dbmysql.Conversation, searchQuery string) bool {
	q := strings.ToLower(strings.TrimSpace(searchQuery))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(conv.LastMessagePreview), q) {
		return true
	}
	for _, p := range conv.Participants {
		if strings.Contains(strings.ToLower(p.Name), q) {
			return true
		}
	}
	return false
}

func hasUnread(conv *dbmysql.Conversation) bool {
	for _, p := range conv.Participants {
		if p.UnreadCount > 0 {
			return true
		}
	}
	return false
}

func hasRole(conv *dbmysql.Conversation, role common.ParticipantRole) bool {
	for _, p := range conv.Participants {
		if p.Role == string(role) {
			return true
		}
	}
	return false
}

func recipientIDs(conv *dbmysql.Conversation, senderID string) []string {
	var ids []string
	for _, p := range conv.Participants {
		if p.UserID != senderID {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

func keys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
