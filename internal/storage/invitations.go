package storage

import (
	"context"
	"time"

	"mlaconnect/backend/internal/models"
)

func (s *Service) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	return translate(s.DB.WithContext(ctx).Create(inv).Error)
}

func (s *Service) GetInvitation(ctx context.Context, id string) (*models.Invitation, error) {
	var inv models.Invitation
	err := withParticipants(s.DB.WithContext(ctx), "Submitter", "Mla").
		Where("id = ?", id).
		First(&inv).Error
	if err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (s *Service) TransitionInvitation(ctx context.Context, inv *models.Invitation, from models.InvitationStatus) error {
	return s.transition(ctx, inv, from)
}

func (s *Service) ListInvitationsBySubmitter(ctx context.Context, userID string) ([]models.Invitation, error) {
	var list []models.Invitation
	err := withParticipants(s.DB.WithContext(ctx), "Mla").
		Where("submitted_by = ?", userID).
		Order("created_at desc").
		Find(&list).Error
	return list, translate(err)
}

// ListInvitationsByMLA orders by event date, soonest first.
func (s *Service) ListInvitationsByMLA(ctx context.Context, mlaID string) ([]models.Invitation, error) {
	var list []models.Invitation
	err := withParticipants(s.DB.WithContext(ctx), "Submitter").
		Where("mla_id = ?", mlaID).
		Order("event_date asc").
		Find(&list).Error
	return list, translate(err)
}

func (s *Service) MarkInvitationsSeen(ctx context.Context, mlaID string) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&models.Invitation{}).
		Where("mla_id = ? AND status = ?", mlaID, models.InvitationSent).
		Update("status", models.InvitationSeen)
	return res.RowsAffected, translate(res.Error)
}

// ExpireInvitations moves unanswered invitations whose event date is before now to Expired.
func (s *Service) ExpireInvitations(ctx context.Context, scope Scope, now time.Time) (int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Invitation{}).
		Where("status IN ? AND event_date < ?", models.OpenInvitationStatuses, now)
	res := applyScope(q, scope, "submitted_by").Update("status", models.InvitationExpired)
	return res.RowsAffected, translate(res.Error)
}

func (s *Service) CountInvitations(ctx context.Context, mlaID string, statuses []models.InvitationStatus) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Invitation{}).
		Where("mla_id = ? AND status IN ?", mlaID, statuses).
		Count(&n).Error
	return n, translate(err)
}
