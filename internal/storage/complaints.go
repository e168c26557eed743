package storage

import (
	"context"
	"time"

	"mlaconnect/backend/internal/models"
)

func (s *Service) CreateComplaint(ctx context.Context, c *models.Complaint) error {
	return translate(s.DB.WithContext(ctx).Create(c).Error)
}

func (s *Service) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	var c models.Complaint
	err := withParticipants(s.DB.WithContext(ctx), "Submitter", "Mla").
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *Service) TransitionComplaint(ctx context.Context, c *models.Complaint, from models.ComplaintStatus) error {
	return s.transition(ctx, c, from)
}

func (s *Service) ListComplaintsBySubmitter(ctx context.Context, userID string) ([]models.Complaint, error) {
	var list []models.Complaint
	err := withParticipants(s.DB.WithContext(ctx), "Mla").
		Where("submitted_by = ?", userID).
		Order("created_at desc").
		Find(&list).Error
	return list, translate(err)
}

func (s *Service) ListComplaintsByMLA(ctx context.Context, mlaID string) ([]models.Complaint, error) {
	var list []models.Complaint
	err := withParticipants(s.DB.WithContext(ctx), "Submitter").
		Where("mla_id = ?", mlaID).
		Order("created_at desc").
		Find(&list).Error
	return list, translate(err)
}

// ListActionedComplaints returns everything the office has touched, most recently updated first.
func (s *Service) ListActionedComplaints(ctx context.Context, mlaID string) ([]models.Complaint, error) {
	var list []models.Complaint
	err := withParticipants(s.DB.WithContext(ctx), "Submitter").
		Where("mla_id = ? AND status <> ?", mlaID, models.ComplaintSubmitted).
		Order("updated_at desc").
		Find(&list).Error
	return list, translate(err)
}

func (s *Service) CountUnreadComplaints(ctx context.Context, mlaID string) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Where("mla_id = ? AND is_read = ?", mlaID, false).
		Count(&n).Error
	return n, translate(err)
}

func (s *Service) CountComplaintsUpdatedSince(ctx context.Context, mlaID string, statuses []models.ComplaintStatus, since time.Time) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Complaint{}).
		Where("mla_id = ? AND status IN ? AND updated_at >= ?", mlaID, statuses, since).
		Count(&n).Error
	return n, translate(err)
}

func (s *Service) RecentComplaints(ctx context.Context, mlaID string, limit int) ([]models.Complaint, error) {
	var list []models.Complaint
	err := s.DB.WithContext(ctx).
		Where("mla_id = ?", mlaID).
		Order("created_at desc").
		Limit(limit).
		Find(&list).Error
	return list, translate(err)
}
