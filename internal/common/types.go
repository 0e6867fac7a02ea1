package common

// ParticipantRole tags a conversation participant.
type ParticipantRole string

const (
	RoleTenant    ParticipantRole = "tenant"
	RoleApplicant ParticipantRole = "applicant"
	RoleVendor    ParticipantRole = "vendor"
	RoleStaff     ParticipantRole = "staff"
)

func (r ParticipantRole) IsValid() bool {
	switch r {
	case RoleTenant, RoleApplicant, RoleVendor, RoleStaff:
		return true
	}
	return false
}

// ConversationFilter selects a subset of the conversation list.
type ConversationFilter string

const (
	FilterAll        ConversationFilter = "all"
	FilterUnread     ConversationFilter = "unread"
	FilterTenants    ConversationFilter = "tenants"
	FilterApplicants ConversationFilter = "applicants"
	FilterVendors    ConversationFilter = "vendors"
)

func (f ConversationFilter) IsValid() bool {
	switch f {
	case FilterAll, FilterUnread, FilterTenants, FilterApplicants, FilterVendors, "":
		return true
	}
	return false
}

// Invite lifecycle states. Expiry is enforced server-side whenever an invite
// is opened or redeemed, not just reflected from the stored state.
type InviteStatus string

const (
	InvitePending   InviteStatus = "pending"
	InviteOpened    InviteStatus = "opened"
	InviteCompleted InviteStatus = "completed"
	InviteExpired   InviteStatus = "expired"
)

// Application lifecycle states.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationReviewing ApplicationStatus = "reviewing"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
)

// allowed application transitions
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:   {ApplicationReviewing, ApplicationApproved, ApplicationRejected},
	ApplicationReviewing: {ApplicationApproved, ApplicationRejected},
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Event types published to the notification dispatcher.
type EventType string

const (
	EventMessageSent         EventType = "message_sent"
	EventApplicationReceived EventType = "application_received"
	EventInviteCompleted     EventType = "invite_completed"
)

// Event is what mutations hand to the dispatcher.
type Event struct {
	Type     EventType
	UserIDs  []string // recipients
	Header   string
	Content  string
	EntityID string
}
