// Package invitation handles citizens' invitations for the MLA to attend an
// event and the office's answers to them.
package invitation

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
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitation(ctx context.Context, id string) (*models.Invitation, error)
	TransitionInvitation(ctx context.Context, inv *models.Invitation, from models.InvitationStatus) error
	ListInvitationsBySubmitter(ctx context.Context, userID string) ([]models.Invitation, error)
	ListInvitationsByMLA(ctx context.Context, mlaID string) ([]models.Invitation, error)
	MarkInvitationsSeen(ctx context.Context, mlaID string) (int64, error)
	ExpireInvitations(ctx context.Context, scope storage.Scope, now time.Time) (int64, error)
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
	MlaID         string `json:"mlaId" form:"mlaId"`
	InviterName   string `json:"inviterName" form:"inviterName"`
	InviterPhone  string `json:"inviterPhone" form:"inviterPhone"`
	InviterEmail  string `json:"inviterEmail" form:"inviterEmail"`
	JobProfile    string `json:"jobProfile" form:"jobProfile"`
	Subject       string `json:"subject" form:"subject"`
	EventType     string `json:"eventType" form:"eventType"`
	EventDate     string `json:"eventDate" form:"eventDate"`
	EventTime     string `json:"eventTime" form:"eventTime"`
	EventLocation string `json:"eventLocation" form:"eventLocation"`
	Message       string `json:"message" form:"message"`
}

// Create files an invitation on behalf of citizen and confirms it by email.
func (s *Service) Create(ctx context.Context, citizen *models.User, in CreateInput, files []*multipart.FileHeader) (*models.Invitation, error) {
	if validate.Blank(in.MlaID, in.InviterName, in.InviterPhone, in.InviterEmail, in.Subject, in.JobProfile,
		in.EventType, in.EventDate, in.EventTime, in.EventLocation, in.Message) {
		return nil, apperror.BadRequest("Please fill all required fields.")
	}
	date, ok := validate.ParseDate(in.EventDate, s.loc)
	if !ok {
		return nil, apperror.BadRequest("Invalid event date.")
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

	inv := &models.Invitation{
		SubmittedBy:   citizen.ID,
		MlaID:         mla.ID,
		InviterName:   strings.TrimSpace(in.InviterName),
		InviterPhone:  strings.TrimSpace(in.InviterPhone),
		InviterEmail:  strings.TrimSpace(in.InviterEmail),
		JobProfile:    strings.TrimSpace(in.JobProfile),
		Subject:       strings.TrimSpace(in.Subject),
		EventType:     strings.TrimSpace(in.EventType),
		EventDate:     date,
		EventTime:     strings.TrimSpace(in.EventTime),
		EventLocation: strings.TrimSpace(in.EventLocation),
		Message:       strings.TrimSpace(in.Message),
		MediaFiles:    media,
		Status:        models.InvitationSent,
	}
	if err := s.store.CreateInvitation(ctx, inv); err != nil {
		s.uploads.Remove(media)
		return nil, apperror.Internal(err)
	}

	data := map[string]any{
		"Name":      inv.InviterName,
		"EventType": inv.EventType,
		"Subject":   inv.Subject,
		"Date":      inv.EventDate.In(s.loc).Format("02 Jan 2006"),
		"Time":      inv.EventTime,
		"Location":  inv.EventLocation,
	}
	s.notifier.Email(inv.InviterEmail, s.msgs.Render("en", "invitation_received.subject", data), s.msgs.Render("en", "invitation_received.email", data))

	ev := models.ActivityEvent{
		ID:        inv.ID,
		Type:      models.ActivityInvitation,
		Message:   s.msgs.Render("en", "activity.invitation", data),
		MlaID:     inv.MlaID,
		CreatedAt: inv.CreatedAt,
	}
	if err := s.store.PublishActivity(ctx, ev); err != nil {
		s.log.Warn("failed to publish activity", zap.String("invitation", inv.ID), zap.Error(err))
	}
	s.notifier.AlertOffice(s.msgs.Render("en", "office.invitation", data))
	return inv, nil
}

// CitizenHistory lists a citizen's invitations, newest first.
func (s *Service) CitizenHistory(ctx context.Context, userID string) ([]models.Invitation, error) {
	list, err := s.store.ListInvitationsBySubmitter(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if list == nil {
		list = []models.Invitation{}
	}
	return list, nil
}

type InboxData struct {
	NewInvitations       []models.Invitation `json:"newInvitations"`
	RespondedInvitations []models.Invitation `json:"respondedInvitations"`
}

type InboxSummary struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Responded int `json:"responded"`
}

type Inbox struct {
	Data    InboxData    `json:"data"`
	Summary InboxSummary `json:"summary"`
}

// MLAInbox lists the MLA's invitations and marks every Sent one as Seen.
// The returned list still shows the pre-view status so the office can tell
// which invitations arrived since its last visit.
func (s *Service) MLAInbox(ctx context.Context, mlaID string) (*Inbox, error) {
	list, err := s.store.ListInvitationsByMLA(ctx, mlaID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if _, err := s.store.MarkInvitationsSeen(ctx, mlaID); err != nil {
		return nil, apperror.Internal(err)
	}

	in := &Inbox{Data: InboxData{NewInvitations: []models.Invitation{}, RespondedInvitations: []models.Invitation{}}}
	for _, inv := range list {
		switch inv.Status {
		case models.InvitationSent, models.InvitationSeen:
			in.Data.NewInvitations = append(in.Data.NewInvitations, inv)
		case models.InvitationAccepted, models.InvitationDeclined:
			in.Data.RespondedInvitations = append(in.Data.RespondedInvitations, inv)
		}
	}
	in.Summary = InboxSummary{Total: len(list), New: len(in.Data.NewInvitations), Responded: len(in.Data.RespondedInvitations)}
	return in, nil
}

type DashboardData struct {
	UpcomingInvitations []models.Invitation `json:"upcomingInvitations"`
	InvitationHistory   []models.Invitation `json:"invitationHistory"`
}

type DashboardSummary struct {
	Total    int `json:"total"`
	Upcoming int `json:"upcoming"`
	History  int `json:"history"`
}

type Dashboard struct {
	Data    DashboardData    `json:"data"`
	Summary DashboardSummary `json:"summary"`
}

// MLADashboard expires unanswered invitations whose date has passed, then
// splits the rest into upcoming and history.
func (s *Service) MLADashboard(ctx context.Context, mlaID string) (*Dashboard, error) {
	if _, err := s.store.ExpireInvitations(ctx, storage.Scope{MlaID: mlaID}, s.Now()); err != nil {
		return nil, apperror.Internal(err)
	}
	list, err := s.store.ListInvitationsByMLA(ctx, mlaID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	d := &Dashboard{Data: DashboardData{UpcomingInvitations: []models.Invitation{}, InvitationHistory: []models.Invitation{}}}
	for _, inv := range list {
		switch inv.Status {
		case models.InvitationSent, models.InvitationSeen:
			d.Data.UpcomingInvitations = append(d.Data.UpcomingInvitations, inv)
		case models.InvitationAccepted, models.InvitationDeclined, models.InvitationExpired:
			d.Data.InvitationHistory = append(d.Data.InvitationHistory, inv)
		}
	}
	d.Summary = DashboardSummary{Total: len(list), Upcoming: len(d.Data.UpcomingInvitations), History: len(d.Data.InvitationHistory)}
	return d, nil
}

func (s *Service) get(ctx context.Context, id string) (*models.Invitation, error) {
	inv, err := s.store.GetInvitation(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("Invitation not found.")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return inv, nil
}

func (s *Service) Detail(ctx context.Context, mla *models.User, id string) (*models.Invitation, error) {
	inv, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.MlaID != mla.ID {
		return nil, apperror.Forbidden("Forbidden: You are not authorized to view this invitation.")
	}
	return inv, nil
}

type RespondInput struct {
	ResponseStatus  models.InvitationStatus `json:"responseStatus"`
	ResponseMessage string                  `json:"responseMessage"`
	Subject         string                  `json:"subject"`
}

var defaultReplies = map[models.InvitationStatus]string{
	models.InvitationAccepted: "Thank you for the invitation. I will be there.",
	models.InvitationDeclined: "Thank you for the invitation, but I am unable to attend.",
}

// Respond accepts or declines an open invitation and tells the inviter.
func (s *Service) Respond(ctx context.Context, mla *models.User, id string, in RespondInput) (*models.Invitation, error) {
	reply, ok := defaultReplies[in.ResponseStatus]
	if !ok {
		return nil, apperror.BadRequest("A valid response status ('Accepted' or 'Declined') is required.")
	}

	inv, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.MlaID != mla.ID {
		return nil, apperror.Forbidden("Forbidden: You are not authorized to respond to this invitation.")
	}
	if !inv.Status.CanTransition(in.ResponseStatus) {
		return nil, apperror.BadRequest(fmt.Sprintf("This invitation has already been processed (Status: %s) and cannot be changed.", inv.Status))
	}
	if inv.IsStale(s.Now()) {
		return nil, apperror.BadRequest(fmt.Sprintf("This invitation has already been processed (Status: %s) and cannot be changed.", models.InvitationExpired))
	}

	if msg := strings.TrimSpace(in.ResponseMessage); msg != "" {
		reply = msg
	}
	from := inv.Status
	inv.Status = in.ResponseStatus
	inv.MlaResponse = reply
	err = s.store.TransitionInvitation(ctx, inv, from)
	if errors.Is(err, storage.ErrStale) {
		return nil, apperror.Conflict("This invitation has already been processed and cannot be changed.")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}

	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = inv.Subject
	}
	data := map[string]any{
		"Name":       inv.InviterName,
		"Subject":    subject,
		"JobProfile": inv.JobProfile,
		"Response":   reply,
	}
	s.notifier.Email(inv.InviterEmail, s.msgs.Render("en", "invitation_response.subject", data), s.msgs.Render("en", "invitation_response.email", data))
	s.notifier.SMS(inv.InviterPhone, s.msgs.Render("en", "invitation_response.sms", data))
	return inv, nil
}
