package storage

import (
	"context"

	"mlaconnect/backend/internal/models"
)

func (s *Service) CreateCalendarEvent(ctx context.Context, e *models.CalendarEvent) error {
	return translate(s.DB.WithContext(ctx).Create(e).Error)
}

func (s *Service) GetCalendarEvent(ctx context.Context, id string) (*models.CalendarEvent, error) {
	var e models.CalendarEvent
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (s *Service) SaveCalendarEvent(ctx context.Context, e *models.CalendarEvent) error {
	return translate(s.DB.WithContext(ctx).Save(e).Error)
}

func (s *Service) DeleteCalendarEvent(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.CalendarEvent{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) ListCalendarEvents(ctx context.Context, mlaID string) ([]models.CalendarEvent, error) {
	var list []models.CalendarEvent
	err := s.DB.WithContext(ctx).
		Where("mla_id = ?", mlaID).
		Order("start_time asc").
		Find(&list).Error
	return list, translate(err)
}

// ListPublicCalendarEvents skips private entries.
func (s *Service) ListPublicCalendarEvents(ctx context.Context, mlaID string) ([]models.CalendarEvent, error) {
	var list []models.CalendarEvent
	err := s.DB.WithContext(ctx).
		Where("mla_id = ? AND event_type <> ?", mlaID, models.EventPrivate).
		Order("start_time asc").
		Find(&list).Error
	return list, translate(err)
}
