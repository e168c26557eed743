package models

import "time"

// ActivityKind names the submission behind an activity entry.
type ActivityKind string

const (
	ActivityComplaint  ActivityKind = "complaint"
	ActivityMeeting    ActivityKind = "meeting"
	ActivityInvitation ActivityKind = "invitation"
)

// ActivityEvent is one line of the MLA dashboard's activity feed. It is
// returned by the recent-activity endpoint and pushed over the live feed.
type ActivityEvent struct {
	ID        string       `json:"id"`
	Type      ActivityKind `json:"type"`
	Message   string       `json:"message"`
	MlaID     string       `json:"mlaId,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}
