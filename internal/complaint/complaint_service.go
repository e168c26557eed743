// Package complaint handles grievances citizens file with the MLA's office
// and the office's responses to them.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"

	"mlaconnect/backend/internal/apperror"
	"mlaconnect/backend/internal/localization"
	"mlaconnect/backend/internal/models"
	"mlaconnect/backend/internal/storage"
	"mlaconnect/backend/internal/validate"
)

type Storage interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateComplaint(ctx context.Context, c *models.Complaint) error
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	TransitionComplaint(ctx context.Context, c *models.Complaint, from models.ComplaintStatus) error
	ListComplaintsBySubmitter(ctx context.Context, userID string) ([]models.Complaint, error)
	ListComplaintsByMLA(ctx context.Context, mlaID string) ([]models.Complaint, error)
	ListActionedComplaints(ctx context.Context, mlaID string) ([]models.Complaint, error)
	PublishActivity(ctx context.Context, ev models.ActivityEvent) error
}

type Notifier interface {
	Email(to, subject, body string)
	AlertOffice(text string)
}

type Uploader interface {
	Save(files []*multipart.FileHeader) ([]models.MediaFile, error)
	Remove(media []models.MediaFile)
}

// Service handles the business logic for complaints.
type Service struct {
	store    Storage
	notifier Notifier
	uploads  Uploader
	msgs     *localization.Localizer
	log      *zap.Logger
}

// NewService creates a new complaint service.
func NewService(s Storage, n Notifier, u Uploader, msgs *localization.Localizer, log *zap.Logger) *Service {
	return &Service{store: s, notifier: n, uploads: u, msgs: msgs, log: log}
}

type CreateInput struct {
	MlaID                  string `json:"mlaId" form:"mlaId"`
	FillerName             string `json:"fillerName" form:"fillerName"`
	FillerPhone            string `json:"fillerPhone" form:"fillerPhone"`
	FillerEmail            string `json:"fillerEmail" form:"fillerEmail"`
	FillerAddress          string `json:"fillerAddress" form:"fillerAddress"`
	Tehsil                 string `json:"tehsil" form:"tehsil"`
	ProblemLocationAddress string `json:"problemLocationAddress" form:"problemLocationAddress"`
	Message                string `json:"message" form:"message"`
}

// HandleComplaint validates and stores a new complaint, then confirms receipt.
func (s *Service) HandleComplaint(ctx context.Context, citizen *models.User, in CreateInput, files []*multipart.FileHeader) (*models.Complaint, error) {
	if validate.Blank(in.MlaID, in.FillerName, in.FillerPhone, in.FillerEmail, in.FillerAddress, in.Tehsil, in.ProblemLocationAddress, in.Message) {
		return nil, apperror.BadRequest("Please fill all required fields.")
	}

	mla, err := s.store.GetUserByID(ctx, in.MlaID)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && !mla.IsMLA()) {
		return nil, apperror.NotFound("MLA not found.")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	tehsil := strings.TrimSpace(in.Tehsil)
	if !mla.ServesTehsil(tehsil) {
		return nil, apperror.BadRequest(fmt.Sprintf("Tehsil %q is not part of this MLA's constituency.", tehsil))
	}

	media, err := s.uploads.Save(files)
	if err != nil {
		return nil, err
	}

	c := &models.Complaint{
		SubmittedBy:            citizen.ID,
		MlaID:                  mla.ID,
		FillerName:             strings.TrimSpace(in.FillerName),
		FillerPhone:            strings.TrimSpace(in.FillerPhone),
		FillerEmail:            strings.TrimSpace(in.FillerEmail),
		FillerAddress:          strings.TrimSpace(in.FillerAddress),
		Tehsil:                 tehsil,
		ProblemLocationAddress: strings.TrimSpace(in.ProblemLocationAddress),
		Message:                strings.TrimSpace(in.Message),
		MediaFiles:             media,
		Status:                 models.ComplaintSubmitted,
	}
	if err := s.store.CreateComplaint(ctx, c); err != nil {
		s.uploads.Remove(media)
		return nil, apperror.Internal(err)
	}

	data := map[string]any{"Name": c.FillerName, "Location": c.ProblemLocationAddress, "Tehsil": c.Tehsil}
	s.notifier.Email(c.FillerEmail, s.msgs.Render("en", "complaint_received.subject", data), s.msgs.Render("en", "complaint_received.email", data))

	ev := models.ActivityEvent{
		ID:        c.ID,
		Type:      models.ActivityComplaint,
		Message:   s.msgs.Render("en", "activity.complaint", data),
		MlaID:     c.MlaID,
		CreatedAt: c.CreatedAt,
	}
	if err := s.store.PublishActivity(ctx, ev); err != nil {
		s.log.Warn("failed to publish activity", zap.String("complaint", c.ID), zap.Error(err))
	}
	s.notifier.AlertOffice(s.msgs.Render("en", "office.complaint", data))
	return c, nil
}

// CitizenHistory lists a citizen's complaints, newest first.
func (s *Service) CitizenHistory(ctx context.Context, userID string) ([]models.Complaint, error) {
	list, err := s.store.ListComplaintsBySubmitter(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if list == nil {
		list = []models.Complaint{}
	}
	return list, nil
}

type InboxData struct {
	UnreadComplaints []models.Complaint `json:"unreadComplaints"`
	ReadComplaints   []models.Complaint `json:"readComplaints"`
}

type InboxSummary struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
	Read   int `json:"read"`
}

type Inbox struct {
	Data    InboxData    `json:"data"`
	Summary InboxSummary `json:"summary"`
}

// MLAInbox splits the MLA's complaints by read state.
func (s *Service) MLAInbox(ctx context.Context, mlaID string) (*Inbox, error) {
	list, err := s.store.ListComplaintsByMLA(ctx, mlaID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	in := &Inbox{Data: InboxData{UnreadComplaints: []models.Complaint{}, ReadComplaints: []models.Complaint{}}}
	for _, c := range list {
		if c.IsRead {
			in.Data.ReadComplaints = append(in.Data.ReadComplaints, c)
		} else {
			in.Data.UnreadComplaints = append(in.Data.UnreadComplaints, c)
		}
	}
	in.Summary = InboxSummary{Total: len(list), Unread: len(in.Data.UnreadComplaints), Read: len(in.Data.ReadComplaints)}
	return in, nil
}

// MLAHistory lists every complaint the office has acted on.
func (s *Service) MLAHistory(ctx context.Context, mlaID string) ([]models.Complaint, error) {
	list, err := s.store.ListActionedComplaints(ctx, mlaID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if list == nil {
		list = []models.Complaint{}
	}
	return list, nil
}

func (s *Service) owned(ctx context.Context, mla *models.User, id, forbidden string) (*models.Complaint, error) {
	c, err := s.store.GetComplaint(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("Complaint not found.")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if c.MlaID != mla.ID {
		return nil, apperror.Forbidden(forbidden)
	}
	return c, nil
}

func (s *Service) Detail(ctx context.Context, mla *models.User, id string) (*models.Complaint, error) {
	return s.owned(ctx, mla, id, "Forbidden.")
}

// MarkRead is idempotent.
func (s *Service) MarkRead(ctx context.Context, mla *models.User, id string) (*models.Complaint, error) {
	c, err := s.owned(ctx, mla, id, "Forbidden.")
	if err != nil {
		return nil, err
	}
	if c.IsRead {
		return c, nil
	}
	c.IsRead = true
	if err := s.persist(ctx, c, c.Status); err != nil {
		return nil, err
	}
	return c, nil
}

// persist writes c unless its stored status has moved away from from.
func (s *Service) persist(ctx context.Context, c *models.Complaint, from models.ComplaintStatus) error {
	err := s.store.TransitionComplaint(ctx, c, from)
	if errors.Is(err, storage.ErrStale) {
		return apperror.Conflict("This complaint was updated in the meantime. Please reload and try again.")
	}
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

type RespondInput struct {
	ResponseMessage string                 `json:"responseMessage"`
	Status          models.ComplaintStatus `json:"status"`
}

// Respond records the office's reply. Without an explicit status the
// complaint moves to Under Review.
func (s *Service) Respond(ctx context.Context, mla *models.User, id string, in RespondInput) (*models.Complaint, error) {
	if validate.Blank(in.ResponseMessage) {
		return nil, apperror.BadRequest("A response message is required.")
	}
	next := in.Status
	if next == "" {
		next = models.ComplaintUnderReview
	}

	c, err := s.owned(ctx, mla, id, "Forbidden. You cannot respond to this complaint.")
	if err != nil {
		return nil, err
	}
	if !c.Status.CanTransition(next) {
		return nil, apperror.BadRequest(fmt.Sprintf("A complaint in status '%s' cannot move to '%s'.", c.Status, next))
	}

	from := c.Status
	c.IsRead = true
	c.Status = next
	c.MlaResponse = strings.TrimSpace(in.ResponseMessage)
	if err := s.persist(ctx, c, from); err != nil {
		return nil, err
	}

	data := map[string]any{
		"Name":     c.FillerName,
		"Location": c.ProblemLocationAddress,
		"Response": c.MlaResponse,
		"Status":   string(c.Status),
	}
	s.notifier.Email(c.FillerEmail, s.msgs.Render("en", "complaint_response.subject", data), s.msgs.Render("en", "complaint_response.email", data))
	return c, nil
}

// Close is the administrative shortcut that closes a complaint without a reply email.
func (s *Service) Close(ctx context.Context, id string) (*models.Complaint, error) {
	c, err := s.store.GetComplaint(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperror.NotFound("Complaint not found.")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !c.Status.CanTransition(models.ComplaintClosed) {
		return nil, apperror.BadRequest(fmt.Sprintf("A complaint in status '%s' cannot be closed.", c.Status))
	}
	from := c.Status
	c.Status = models.ComplaintClosed
	c.IsRead = true
	if err := s.persist(ctx, c, from); err != nil {
		return nil, err
	}
	return c, nil
}
