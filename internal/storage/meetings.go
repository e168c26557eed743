package storage

import (
	"context"
	"time"

	"mlaconnect/backend/internal/models"

	"gorm.io/gorm"
)

// participantColumns limits joined users to what a submission view shows.
var participantColumns = []string{"id", "full_name", "email", "phone_country_code", "phone_number", "job_profile", "constituency"}

func withParticipants(q *gorm.DB, relations ...string) *gorm.DB {
	for _, rel := range relations {
		q = q.Preload(rel, func(db *gorm.DB) *gorm.DB { return db.Select(participantColumns) })
	}
	return q.Preload("MediaFiles")
}

func (s *Service) CreateMeetingRequest(ctx context.Context, m *models.MeetingRequest) error {
	return translate(s.DB.WithContext(ctx).Create(m).Error)
}

func (s *Service) GetMeetingRequest(ctx context.Context, id string) (*models.MeetingRequest, error) {
	var m models.MeetingRequest
	err := withParticipants(s.DB.WithContext(ctx), "Requester", "Mla").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// TransitionMeetingRequest persists the request's own columns if it is still in from.
func (s *Service) TransitionMeetingRequest(ctx context.Context, m *models.MeetingRequest, from models.MeetingStatus) error {
	return s.transition(ctx, m, from)
}

func (s *Service) ListMeetingRequestsByRequester(ctx context.Context, userID string) ([]models.MeetingRequest, error) {
	var list []models.MeetingRequest
	err := withParticipants(s.DB.WithContext(ctx), "Mla").
		Where("requested_by = ?", userID).
		Order("created_at desc").
		Find(&list).Error
	return list, translate(err)
}

func (s *Service) ListMeetingRequestsByMLA(ctx context.Context, mlaID string) ([]models.MeetingRequest, error) {
	var list []models.MeetingRequest
	err := withParticipants(s.DB.WithContext(ctx), "Requester").
		Where("mla_id = ?", mlaID).
		Order("created_at desc").
		Find(&list).Error
	return list, translate(err)
}

// ExpireMeetingRequests moves Pending requests whose meeting date is before now to Expired.
func (s *Service) ExpireMeetingRequests(ctx context.Context, scope Scope, now time.Time) (int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.MeetingRequest{}).
		Where("status = ? AND meeting_date < ?", models.MeetingPending, now)
	res := applyScope(q, scope, "requested_by").Update("status", models.MeetingExpired)
	return res.RowsAffected, translate(res.Error)
}

func (s *Service) CountMeetingRequests(ctx context.Context, mlaID string, status models.MeetingStatus) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.MeetingRequest{}).
		Where("mla_id = ? AND status = ?", mlaID, status).
		Count(&n).Error
	return n, translate(err)
}

func (s *Service) RecentMeetingRequests(ctx context.Context, mlaID string, limit int) ([]models.MeetingRequest, error) {
	var list []models.MeetingRequest
	err := s.DB.WithContext(ctx).
		Where("mla_id = ?", mlaID).
		Order("created_at desc").
		Limit(limit).
		Find(&list).Error
	return list, translate(err)
}
