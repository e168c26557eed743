package models

// MeetingStatus tracks a meeting request.
type MeetingStatus string

const (
	MeetingPending   MeetingStatus = "Pending"
	MeetingApproved  MeetingStatus = "Approved"
	MeetingRejected  MeetingStatus = "Rejected"
	MeetingCompleted MeetingStatus = "Completed"
	MeetingExpired   MeetingStatus = "Expired"
)

var meetingTransitions = map[MeetingStatus][]MeetingStatus{
	MeetingPending: {MeetingApproved, MeetingRejected, MeetingExpired},
}

// CanTransition reports whether s may move to next.
func (s MeetingStatus) CanTransition(next MeetingStatus) bool {
	return contains(meetingTransitions[s], next)
}

// ComplaintStatus tracks a complaint.
type ComplaintStatus string

const (
	ComplaintSubmitted   ComplaintStatus = "Submitted"
	ComplaintUnderReview ComplaintStatus = "Under Review"
	ComplaintResolved    ComplaintStatus = "Resolved"
	ComplaintClosed      ComplaintStatus = "Closed"
)

// Under Review -> Under Review is a follow-up reply.
var complaintTransitions = map[ComplaintStatus][]ComplaintStatus{
	ComplaintSubmitted:   {ComplaintUnderReview, ComplaintResolved, ComplaintClosed},
	ComplaintUnderReview: {ComplaintUnderReview, ComplaintResolved, ComplaintClosed},
	ComplaintResolved:    {ComplaintClosed},
}

// CanTransition reports whether s may move to next.
func (s ComplaintStatus) CanTransition(next ComplaintStatus) bool {
	return contains(complaintTransitions[s], next)
}

// ActionedComplaintStatuses are the states counted as handled by the office.
var ActionedComplaintStatuses = []ComplaintStatus{ComplaintUnderReview, ComplaintResolved, ComplaintClosed}

// InvitationStatus tracks an event invitation.
type InvitationStatus string

const (
	InvitationSent     InvitationStatus = "Sent"
	InvitationSeen     InvitationStatus = "Seen"
	InvitationAccepted InvitationStatus = "Accepted"
	InvitationDeclined InvitationStatus = "Declined"
	InvitationExpired  InvitationStatus = "Expired"
)

var invitationTransitions = map[InvitationStatus][]InvitationStatus{
	InvitationSent: {InvitationSeen, InvitationAccepted, InvitationDeclined, InvitationExpired},
	InvitationSeen: {InvitationAccepted, InvitationDeclined, InvitationExpired},
}

// CanTransition reports whether s may move to next.
func (s InvitationStatus) CanTransition(next InvitationStatus) bool {
	return contains(invitationTransitions[s], next)
}

// OpenInvitationStatuses are invitations still awaiting an answer.
var OpenInvitationStatuses = []InvitationStatus{InvitationSent, InvitationSeen}

// EventType classifies a calendar entry.
type EventType string

const (
	EventAvailable     EventType = "Available"
	EventBusy          EventType = "Busy"
	EventPublicMeeting EventType = "Public Meeting"
	EventPrivate       EventType = "Private Event"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventAvailable, EventBusy, EventPublicMeeting, EventPrivate:
		return true
	}
	return false
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
