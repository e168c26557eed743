// Package calendar manages the MLA's schedule and its public view.
package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	"mlaconnect/backend/internal/apperror"
	"mlaconnect/backend/internal/models"
	"mlaconnect/backend/internal/storage"
	"mlaconnect/backend/internal/validate"
)

type Storage interface {
	CreateCalendarEvent(ctx context.Context, e *models.CalendarEvent) error
	GetCalendarEvent(ctx context.Context, id string) (*models.CalendarEvent, error)
	SaveCalendarEvent(ctx context.Context, e *models.CalendarEvent) error
	DeleteCalendarEvent(ctx context.Context, id string) error
	ListCalendarEvents(ctx context.Context, mlaID string) ([]models.CalendarEvent, error)
	ListPublicCalendarEvents(ctx context.Context, mlaID string) ([]models.CalendarEvent, error)
}

type Service struct {
	store Storage
	loc   *time.Location
}

func NewService(s Storage, loc *time.Location) *Service {
	return &Service{store: s, loc: loc}
}

// EventInput carries a create or a partial update. Nil fields are left
// untouched on update.
type EventInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	EventType   *string `json:"eventType"`
	Location    *string `json:"location"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	IsAllDay    *bool   `json:"isAllDay"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (s *Service) apply(e *models.CalendarEvent, in EventInput) error {
	if in.Title != nil {
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.EventType != nil {
		e.EventType = models.EventType(strings.TrimSpace(*in.EventType))
	}
	if in.Location != nil {
		e.Location = strings.TrimSpace(*in.Location)
	}
	if in.StartTime != nil {
		t, ok := validate.ParseDate(*in.StartTime, s.loc)
		if !ok {
			return apperror.BadRequest("Invalid start time.")
		}
		e.StartTime = t
	}
	if in.EndTime != nil {
		t, ok := validate.ParseDate(*in.EndTime, s.loc)
		if !ok {
			return apperror.BadRequest("Invalid end time.")
		}
		e.EndTime = t
	}
	if in.IsAllDay != nil {
		e.IsAllDay = *in.IsAllDay
	}

	if e.Title == "" {
		return apperror.BadRequest("Title, event type, start time, and end time are required.")
	}
	if !e.EventType.Valid() {
		return apperror.BadRequest("Event type must be one of 'Available', 'Busy', 'Public Meeting' or 'Private Event'.")
	}
	if !e.EndTime.After(e.StartTime) {
		return apperror.BadRequest("End time must be after start time.")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, mla *models.User, in EventInput) (*models.CalendarEvent, error) {
	if validate.Blank(str(in.Title), str(in.EventType), str(in.StartTime), str(in.EndTime)) {
		return nil, apperror.BadRequest("Title, event type, start time, and end time are required.")
	}
	e := &models.CalendarEvent{MlaID: mla.ID}
	if err := s.apply(e, in); err != nil {
		return nil, err
	}
	if err := s.store.CreateCalendarEvent(ctx, e); err != nil {
		return nil, apperror.Internal(err)
	}
	return e, nil
}

// List returns the MLA's own events by start time.
func (s *Service) List(ctx context.Context, mlaID string) ([]models.CalendarEvent, error) {
	list, err := s.store.ListCalendarEvents(ctx, mlaID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if list == nil {
		list = []models.CalendarEvent{}
	}
	return list, nil
}

func (s *Service) owned(ctx context.Context, mla *models.User, id string) (*models.CalendarEvent, error) {
	e, err := s.store.GetCalendarEvent(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("Event not found.")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if e.MlaID != mla.ID {
		return nil, apperror.Forbidden("Forbidden.")
	}
	return e, nil
}

// Update merges in onto the stored event and validates the result.
func (s *Service) Update(ctx context.Context, mla *models.User, id string, in EventInput) (*models.CalendarEvent, error) {
	e, err := s.owned(ctx, mla, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(e, in); err != nil {
		return nil, err
	}
	if err := s.store.SaveCalendarEvent(ctx, e); err != nil {
		return nil, apperror.Internal(err)
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, mla *models.User, id string) error {
	if _, err := s.owned(ctx, mla, id); err != nil {
		return err
	}
	err := s.store.DeleteCalendarEvent(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperror.NotFound("Event not found.")
	}
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// Public lists an MLA's non-private events without owner details.
func (s *Service) Public(ctx context.Context, mlaID string) ([]models.PublicEvent, error) {
	list, err := s.store.ListPublicCalendarEvents(ctx, mlaID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	out := make([]models.PublicEvent, 0, len(list))
	for i := range list {
		out = append(out, list[i].Public())
	}
	return out, nil
}
