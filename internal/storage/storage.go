package storage

import (
	"context"
	"errors"
	"time"

	"mlaconnect/backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrStale means a conditional write found the row's status already changed.
	ErrStale = errors.New("record status changed")
)

// Scope narrows a bulk update to one MLA's inbox or one citizen's submissions.
// An empty Scope matches every row.
type Scope struct {
	MlaID       string
	SubmittedBy string
}

type Storage interface {
	CreateUser(ctx context.Context, user *models.User) error
	SaveUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, hash string) error
	ListMLAs(ctx context.Context) ([]models.User, error)

	SaveResetOTP(ctx context.Context, userID, otpHash string, ttl time.Duration) error
	GetResetOTP(ctx context.Context, userID string) (string, error)
	DeleteResetOTP(ctx context.Context, userID string) error
	RecordOTPFailure(ctx context.Context, userID string, ttl time.Duration) (int64, error)

	CreateMeetingRequest(ctx context.Context, m *models.MeetingRequest) error
	GetMeetingRequest(ctx context.Context, id string) (*models.MeetingRequest, error)
	TransitionMeetingRequest(ctx context.Context, m *models.MeetingRequest, from models.MeetingStatus) error
	ListMeetingRequestsByRequester(ctx context.Context, userID string) ([]models.MeetingRequest, error)
	ListMeetingRequestsByMLA(ctx context.Context, mlaID string) ([]models.MeetingRequest, error)
	ExpireMeetingRequests(ctx context.Context, scope Scope, now time.Time) (int64, error)
	CountMeetingRequests(ctx context.Context, mlaID string, status models.MeetingStatus) (int64, error)
	RecentMeetingRequests(ctx context.Context, mlaID string, limit int) ([]models.MeetingRequest, error)

	CreateComplaint(ctx context.Context, c *models.Complaint) error
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	TransitionComplaint(ctx context.Context, c *models.Complaint, from models.ComplaintStatus) error
	ListComplaintsBySubmitter(ctx context.Context, userID string) ([]models.Complaint, error)
	ListComplaintsByMLA(ctx context.Context, mlaID string) ([]models.Complaint, error)
	ListActionedComplaints(ctx context.Context, mlaID string) ([]models.Complaint, error)
	CountUnreadComplaints(ctx context.Context, mlaID string) (int64, error)
	CountComplaintsUpdatedSince(ctx context.Context, mlaID string, statuses []models.ComplaintStatus, since time.Time) (int64, error)
	RecentComplaints(ctx context.Context, mlaID string, limit int) ([]models.Complaint, error)

	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitation(ctx context.Context, id string) (*models.Invitation, error)
	TransitionInvitation(ctx context.Context, inv *models.Invitation, from models.InvitationStatus) error
	ListInvitationsBySubmitter(ctx context.Context, userID string) ([]models.Invitation, error)
	ListInvitationsByMLA(ctx context.Context, mlaID string) ([]models.Invitation, error)
	MarkInvitationsSeen(ctx context.Context, mlaID string) (int64, error)
	ExpireInvitations(ctx context.Context, scope Scope, now time.Time) (int64, error)
	CountInvitations(ctx context.Context, mlaID string, statuses []models.InvitationStatus) (int64, error)

	CreateCalendarEvent(ctx context.Context, e *models.CalendarEvent) error
	GetCalendarEvent(ctx context.Context, id string) (*models.CalendarEvent, error)
	SaveCalendarEvent(ctx context.Context, e *models.CalendarEvent) error
	DeleteCalendarEvent(ctx context.Context, id string) error
	ListCalendarEvents(ctx context.Context, mlaID string) ([]models.CalendarEvent, error)
	ListPublicCalendarEvents(ctx context.Context, mlaID string) ([]models.CalendarEvent, error)

	PublishActivity(ctx context.Context, ev models.ActivityEvent) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
	}
}

// AutoMigrate creates or alters every table the API uses.
func (s *Service) AutoMigrate() error {
	return s.DB.AutoMigrate(
		&models.User{},
		&models.MediaFile{},
		&models.MeetingRequest{},
		&models.Complaint{},
		&models.Invitation{},
		&models.CalendarEvent{},
	)
}

// invalidTextRepresentation is what postgres reports for a malformed uuid.
const invalidTextRepresentation = "22P02"

// translate maps driver errors onto the package sentinels. The DB must be
// opened with gorm.Config{TranslateError: true} for duplicates to surface.
// A malformed id cannot match any row, so it reads as not found.
func translate(err error) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, redis.Nil):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation:
		return ErrNotFound
	}
	return err
}

// transition writes row's own columns only while the stored status still
// equals from, so a concurrent expiry sweep or second reply cannot be
// overwritten.
func (s *Service) transition(ctx context.Context, row any, from any) error {
	res := s.DB.WithContext(ctx).Model(row).
		Select("*").Omit(clause.Associations).
		Where("status = ?", from).
		Updates(row)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrStale
	}
	return nil
}

// applyScope adds the Scope's owner filters to q. submitterColumn differs
// between tables: meeting requests say requested_by, the rest submitted_by.
func applyScope(q *gorm.DB, scope Scope, submitterColumn string) *gorm.DB {
	if scope.MlaID != "" {
		q = q.Where("mla_id = ?", scope.MlaID)
	}
	if scope.SubmittedBy != "" {
		q = q.Where(submitterColumn+" = ?", scope.SubmittedBy)
	}
	return q
}
