// Package meeting handles citizens' requests for an audience with the MLA and
// the office's decisions on them.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"

	"mlaconnect/backend/internal/apperror"
	"mlaconnect/backend/internal/localization"
	"mlaconnect/backend/internal/models"
	"mlaconnect/backend/internal/storage"
	"mlaconnect/backend/internal/validate"
)

type Storage interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateMeetingRequest(ctx context.Context, m *models.MeetingRequest) error
	GetMeetingRequest(ctx context.Context, id string) (*models.MeetingRequest, error)
	TransitionMeetingRequest(ctx context.Context, m *models.MeetingRequest, from models.MeetingStatus) error
	ListMeetingRequestsByRequester(ctx context.Context, userID string) ([]models.MeetingRequest, error)
	ListMeetingRequestsByMLA(ctx context.Context, mlaID string) ([]models.MeetingRequest, error)
	ExpireMeetingRequests(ctx context.Context, scope storage.Scope, now time.Time) (int64, error)
	PublishActivity(ctx context.Context, ev models.ActivityEvent) error
}

type Notifier interface {
	Email(to, subject, body string)
	SMS(to, body string)
	AlertOffice(text string)
}

type Uploader interface {
	Save(files []*multipart.FileHeader) ([]models.MediaFile, error)
	Remove(media []models.MediaFile)
}

type Service struct {
	store    Storage
	notifier Notifier
	uploads  Uploader
	msgs     *localization.Localizer
	log      *zap.Logger
	loc      *time.Location

	Now func() time.Time
}

func NewService(s Storage, n Notifier, u Uploader, msgs *localization.Localizer, log *zap.Logger, loc *time.Location) *Service {
	return &Service{store: s, notifier: n, uploads: u, msgs: msgs, log: log, loc: loc, Now: time.Now}
}

type CreateInput struct {
	MlaID          string `json:"mlaId" form:"mlaId"`
	FullName       string `json:"fullName" form:"fullName"`
	FatherName     string `json:"fatherName" form:"fatherName"`
	Email          string `json:"email" form:"email"`
	Phone          string `json:"phone" form:"phone"`
	AlternatePhone string `json:"alternatePhone" form:"alternatePhone"`
	AddressLine1   string `json:"addressLine1" form:"addressLine1"`
	AddressLine2   string `json:"addressLine2" form:"addressLine2"`
	PradhanName    string `json:"pradhanName" form:"pradhanName"`
	JobProfile     string `json:"jobProfile" form:"jobProfile"`
	Purpose        string `json:"purpose" form:"purpose"`
	MeetingDate    string `json:"meetingDate" form:"meetingDate"`
}

// Create files a meeting request on behalf of citizen.
func (s *Service) Create(ctx context.Context, citizen *models.User, in CreateInput, files []*multipart.FileHeader) (*models.MeetingRequest, error) {
	if validate.Blank(in.MlaID, in.FullName, in.Email, in.Phone, in.FatherName, in.AddressLine1, in.JobProfile, in.Purpose, in.MeetingDate) {
		return nil, apperror.BadRequest("Please fill all required fields.")
	}
	date, ok := validate.ParseDate(in.MeetingDate, s.loc)
	if !ok {
		return nil, apperror.BadRequest("Invalid meeting date.")
	}

	mla, err := s.store.GetUserByID(ctx, in.MlaID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && !mla.IsMLA()) {
		return nil, apperror.NotFound("MLA not found.")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	media, err := s.uploads.Save(files)
	if err != nil {
		return nil, err
	}

	req := &models.MeetingRequest{
		RequestedBy:    citizen.ID,
		MlaID:          mla.ID,
		FullName:       strings.TrimSpace(in.FullName),
		FatherName:     strings.TrimSpace(in.FatherName),
		Email:          strings.TrimSpace(in.Email),
		Phone:          strings.TrimSpace(in.Phone),
		AlternatePhone: strings.TrimSpace(in.AlternatePhone),
		AddressLine1:   strings.TrimSpace(in.AddressLine1),
		AddressLine2:   strings.TrimSpace(in.AddressLine2),
		PradhanName:    strings.TrimSpace(in.PradhanName),
		JobProfile:     strings.TrimSpace(in.JobProfile),
		Purpose:        strings.TrimSpace(in.Purpose),
		MeetingDate:    date,
		MediaFiles:     media,
		Status:         models.MeetingPending,
	}
	if err := s.store.CreateMeetingRequest(ctx, req); err != nil {
		s.uploads.Remove(media)
		return nil, apperror.Internal(err)
	}

	s.announce(ctx, req)
	return req, nil
}

func (s *Service) announce(ctx context.Context, m *models.MeetingRequest) {
	data := map[string]any{
		"Name":    m.FullName,
		"Purpose": m.Purpose,
		"Date":    m.MeetingDate.In(s.loc).Format("02 Jan 2006"),
	}
	ev := models.ActivityEvent{
		ID:        m.ID,
		Type:      models.ActivityMeeting,
		Message:   s.msgs.Render("en", "activity.meeting", data),
		MlaID:     m.MlaID,
		CreatedAt: m.CreatedAt,
	}
	if err := s.store.PublishActivity(ctx, ev); err != nil {
		s.log.Warn("failed to publish activity", zap.String("meeting", m.ID), zap.Error(err))
	}
	s.notifier.AlertOffice(s.msgs.Render("en", "office.meeting", data))
}

// CitizenHistory is a citizen's requests grouped for the history page.
// Expired requests are shown with the pending ones.
type CitizenHistory struct {
	Pending  []models.MeetingRequest `json:"pending"`
	Approved []models.MeetingRequest `json:"approved"`
	Rejected []models.MeetingRequest `json:"rejected"`
}

func (s *Service) CitizenHistory(ctx context.Context, userID string) (*CitizenHistory, error) {
	if _, err := s.store.ExpireMeetingRequests(ctx, storage.Scope{SubmittedBy: userID}, s.Now()); err != nil {
		return nil, apperror.Internal(err)
	}
	list, err := s.store.ListMeetingRequestsByRequester(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	h := &CitizenHistory{
		Pending:  []models.MeetingRequest{},
		Approved: []models.MeetingRequest{},
		Rejected: []models.MeetingRequest{},
	}
	for _, r := range list {
		switch r.Status {
		case models.MeetingPending, models.MeetingExpired:
			h.Pending = append(h.Pending, r)
		case models.MeetingApproved:
			h.Approved = append(h.Approved, r)
		case models.MeetingRejected:
			h.Rejected = append(h.Rejected, r)
		}
	}
	return h, nil
}

func (s *Service) get(ctx context.Context, id string) (*models.MeetingRequest, error) {
	m, err := s.store.GetMeetingRequest(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("Meeting request not found.")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return m, nil
}

// CitizenDetail returns one of the caller's own requests.
func (s *Service) CitizenDetail(ctx context.Context, user *models.User, id string) (*models.MeetingRequest, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.RequestedBy != user.ID {
		return nil, apperror.Forbidden("Forbidden: You are not authorized to view this request.")
	}
	return m, nil
}

// Detail is visible to the assigned MLA and to the citizen who asked.
func (s *Service) Detail(ctx context.Context, user *models.User, id string) (*models.MeetingRequest, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.MlaID != user.ID && m.RequestedBy != user.ID {
		return nil, apperror.Forbidden("Forbidden: You are not authorized to view this request.")
	}
	return m, nil
}

type DashboardData struct {
	PendingRequests   []models.MeetingRequest `json:"pendingRequests"`
	ApprovedRequests  []models.MeetingRequest `json:"approvedRequests"`
	RejectedRequests  []models.MeetingRequest `json:"rejectedRequests"`
	CompletedRequests []models.MeetingRequest `json:"completedRequests"`
	ExpiredRequests   []models.MeetingRequest `json:"expiredRequests"`
}

type DashboardSummary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Completed int `json:"completed"`
	Expired   int `json:"expired"`
}

type Dashboard struct {
	Data    DashboardData    `json:"data"`
	Summary DashboardSummary `json:"summary"`
}

// MLADashboard expires overdue requests, then buckets everything by status.
func (s *Service) MLADashboard(ctx context.Context, mlaID string) (*Dashboard, error) {
	if _, err := s.store.ExpireMeetingRequests(ctx, storage.Scope{MlaID: mlaID}, s.Now()); err != nil {
		return nil, apperror.Internal(err)
	}
	list, err := s.store.ListMeetingRequestsByMLA(ctx, mlaID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	d := &Dashboard{Data: DashboardData{
		PendingRequests:   []models.MeetingRequest{},
		ApprovedRequests:  []models.MeetingRequest{},
		RejectedRequests:  []models.MeetingRequest{},
		CompletedRequests: []models.MeetingRequest{},
		ExpiredRequests:   []models.MeetingRequest{},
	}}
	for _, r := range list {
		switch r.Status {
		case models.MeetingPending:
			d.Data.PendingRequests = append(d.Data.PendingRequests, r)
		case models.MeetingApproved:
			d.Data.ApprovedRequests = append(d.Data.ApprovedRequests, r)
		case models.MeetingRejected:
			d.Data.RejectedRequests = append(d.Data.RejectedRequests, r)
		case models.MeetingCompleted:
			d.Data.CompletedRequests = append(d.Data.CompletedRequests, r)
		case models.MeetingExpired:
			d.Data.ExpiredRequests = append(d.Data.ExpiredRequests, r)
		}
	}
	d.Summary = DashboardSummary{
		Total:     len(list),
		Pending:   len(d.Data.PendingRequests),
		Approved:  len(d.Data.ApprovedRequests),
		Rejected:  len(d.Data.RejectedRequests),
		Completed: len(d.Data.CompletedRequests),
		Expired:   len(d.Data.ExpiredRequests),
	}
	return d, nil
}

type DecisionInput struct {
	Status        models.MeetingStatus `json:"status"`
	ScheduledDate string               `json:"scheduledDate"`
	ScheduledTime string               `json:"scheduledTime"`
	MeetingNotes  string               `json:"meetingNotes"`
}

// Decide approves or rejects a pending request and tells the citizen.
func (s *Service) Decide(ctx context.Context, mla *models.User, id string, in DecisionInput) (*models.MeetingRequest, error) {
	if in.Status != models.MeetingApproved && in.Status != models.MeetingRejected {
		return nil, apperror.BadRequest("Invalid or missing status provided. Must be 'Approved' or 'Rejected'.")
	}

	m, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.Status.CanTransition(in.Status) {
		return nil, apperror.BadRequest(fmt.Sprintf("This request has already been processed (Status: %s) and cannot be changed.", m.Status))
	}
	if m.MlaID != mla.ID {
		return nil, apperror.Forbidden("Forbidden: You are not authorized to update this request.")
	}
	if m.IsStale(s.Now()) {
		return nil, apperror.BadRequest(fmt.Sprintf("This request has already been processed (Status: %s) and cannot be changed.", models.MeetingExpired))
	}

	notes := strings.TrimSpace(in.MeetingNotes)
	var key string
	data := map[string]any{"Name": m.FullName, "Purpose": m.Purpose}

	switch in.Status {
	case models.MeetingApproved:
		at, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(in.ScheduledDate)+" "+strings.TrimSpace(in.ScheduledTime), s.loc)
		if err != nil {
			return nil, apperror.BadRequest("For approved requests, please provide a 'scheduledDate' (YYYY-MM-DD) and 'scheduledTime' (HH:MM).")
		}
		if notes == "" {
			notes = "No additional notes."
		}
		m.ScheduledMeetingTime = &at
		data["Date"] = at.Format("Monday, 2 January 2006")
		data["Time"] = at.Format("03:04 PM")
		key = "meeting_approved"
	case models.MeetingRejected:
		if notes == "" {
			notes = "No reason provided."
		}
		key = "meeting_rejected"
	}
	from := m.Status
	m.Status = in.Status
	m.MeetingNotes = notes
	data["Notes"] = notes

	err = s.store.TransitionMeetingRequest(ctx, m, from)
	if errors.Is(err, storage.ErrStale) {
		return nil, apperror.Conflict("This request has already been processed and cannot be changed.")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.notifier.Email(m.Email, s.msgs.Render("en", key+".subject", data), s.msgs.Render("en", key+".email", data))
	s.notifier.SMS(m.Phone, s.msgs.Render("en", key+".sms", data))
	return m, nil
}
