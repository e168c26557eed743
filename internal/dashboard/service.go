// Package dashboard computes the counters and activity feed on the MLA's
// landing page.
package dashboard

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"mlaconnect/backend/internal/apperror"
	"mlaconnect/backend/internal/config"
	"mlaconnect/backend/internal/localization"
	"mlaconnect/backend/internal/models"
)

type Storage interface {
	CountUnreadComplaints(ctx context.Context, mlaID string) (int64, error)
	CountMeetingRequests(ctx context.Context, mlaID string, status models.MeetingStatus) (int64, error)
	CountInvitations(ctx context.Context, mlaID string, statuses []models.InvitationStatus) (int64, error)
	CountComplaintsUpdatedSince(ctx context.Context, mlaID string, statuses []models.ComplaintStatus, since time.Time) (int64, error)
	RecentComplaints(ctx context.Context, mlaID string, limit int) ([]models.Complaint, error)
	RecentMeetingRequests(ctx context.Context, mlaID string, limit int) ([]models.MeetingRequest, error)
}

type Service struct {
	store Storage
	msgs  *localization.Localizer
	loc   *time.Location

	Now func() time.Time
}

func NewService(s Storage, msgs *localization.Localizer, loc *time.Location) *Service {
	return &Service{store: s, msgs: msgs, loc: loc, Now: time.Now}
}

type Stats struct {
	NewComplaints       int64 `json:"newComplaints"`
	PendingMeetings     int64 `json:"pendingMeetings"`
	UpcomingInvitations int64 `json:"upcomingInvitations"`
	ResolvedThisMonth   int64 `json:"resolvedThisMonth"`
}

// startOfMonth is midnight on the first of t's month in loc.
func startOfMonth(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
}

// Stats runs the four counters concurrently.
func (s *Service) Stats(ctx context.Context, mlaID string) (*Stats, error) {
	var st Stats
	since := startOfMonth(s.Now(), s.loc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.NewComplaints, err = s.store.CountUnreadComplaints(gctx, mlaID)
		return
	})
	g.Go(func() (err error) {
		st.PendingMeetings, err = s.store.CountMeetingRequests(gctx, mlaID, models.MeetingPending)
		return
	})
	g.Go(func() (err error) {
		st.UpcomingInvitations, err = s.store.CountInvitations(gctx, mlaID, models.OpenInvitationStatuses)
		return
	})
	g.Go(func() (err error) {
		st.ResolvedThisMonth, err = s.store.CountComplaintsUpdatedSince(gctx, mlaID, models.ActionedComplaintStatuses, since)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(err)
	}
	return &st, nil
}

// RecentActivity merges the latest complaints and meeting requests, newest first.
func (s *Service) RecentActivity(ctx context.Context, mlaID string) ([]models.ActivityEvent, error) {
	var (
		complaints []models.Complaint
		meetings   []models.MeetingRequest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		complaints, err = s.store.RecentComplaints(gctx, mlaID, config.RecentPerKind)
		return
	})
	g.Go(func() (err error) {
		meetings, err = s.store.RecentMeetingRequests(gctx, mlaID, config.RecentPerKind)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(err)
	}

	feed := make([]models.ActivityEvent, 0, len(complaints)+len(meetings))
	for _, c := range complaints {
		feed = append(feed, models.ActivityEvent{
			ID:        c.ID,
			Type:      models.ActivityComplaint,
			Message:   s.msgs.Render("en", "activity.complaint", map[string]any{"Name": c.FillerName}),
			CreatedAt: c.CreatedAt,
		})
	}
	for _, m := range meetings {
		feed = append(feed, models.ActivityEvent{
			ID:        m.ID,
			Type:      models.ActivityMeeting,
			Message:   s.msgs.Render("en", "activity.meeting", map[string]any{"Name": m.FullName}),
			CreatedAt: m.CreatedAt,
		})
	}
	sort.SliceStable(feed, func(i, j int) bool { return feed[i].CreatedAt.After(feed[j].CreatedAt) })
	if len(feed) > config.RecentActivityLimit {
		feed = feed[:config.RecentActivityLimit]
	}
	return feed, nil
}
