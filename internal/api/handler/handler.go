// Package handler adapts the business services to gin routes and renders the
// JSON envelope every endpoint shares.
package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mlaconnect/backend/internal/account"
	"mlaconnect/backend/internal/activity"
	"mlaconnect/backend/internal/apperror"
	"mlaconnect/backend/internal/calendar"
	"mlaconnect/backend/internal/complaint"
	"mlaconnect/backend/internal/config"
	"mlaconnect/backend/internal/dashboard"
	"mlaconnect/backend/internal/invitation"
	"mlaconnect/backend/internal/meeting"
	"mlaconnect/backend/internal/models"
)

type AccountService interface {
	SignupCitizen(ctx context.Context, in account.SignupInput) (*account.Session, error)
	SignupMLA(ctx context.Context, in account.SignupInput) (*account.Session, error)
	Login(ctx context.Context, email, password string) (*account.Session, error)
	LoginMLA(ctx context.Context, email, password string) (*account.Session, error)
	ChangePassword(ctx context.Context, user *models.User, current, next, confirm string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, in account.ResetInput) error
	Profile(ctx context.Context, id string) (*models.User, error)
	ListMLAs(ctx context.Context) ([]models.MLAListing, error)
}

type MeetingService interface {
	Create(ctx context.Context, citizen *models.User, in meeting.CreateInput, files []*multipart.FileHeader) (*models.MeetingRequest, error)
	CitizenHistory(ctx context.Context, userID string) (*meeting.CitizenHistory, error)
	CitizenDetail(ctx context.Context, user *models.User, id string) (*models.MeetingRequest, error)
	Detail(ctx context.Context, user *models.User, id string) (*models.MeetingRequest, error)
	MLADashboard(ctx context.Context, mlaID string) (*meeting.Dashboard, error)
	Decide(ctx context.Context, mla *models.User, id string, in meeting.DecisionInput) (*models.MeetingRequest, error)
}

type ComplaintService interface {
	HandleComplaint(ctx context.Context, citizen *models.User, in complaint.CreateInput, files []*multipart.FileHeader) (*models.Complaint, error)
	CitizenHistory(ctx context.Context, userID string) ([]models.Complaint, error)
	MLAInbox(ctx context.Context, mlaID string) (*complaint.Inbox, error)
	MLAHistory(ctx context.Context, mlaID string) ([]models.Complaint, error)
	Detail(ctx context.Context, mla *models.User, id string) (*models.Complaint, error)
	MarkRead(ctx context.Context, mla *models.User, id string) (*models.Complaint, error)
	Respond(ctx context.Context, mla *models.User, id string, in complaint.RespondInput) (*models.Complaint, error)
}

type InvitationService interface {
	Create(ctx context.Context, citizen *models.User, in invitation.CreateInput, files []*multipart.FileHeader) (*models.Invitation, error)
	CitizenHistory(ctx context.Context, userID string) ([]models.Invitation, error)
	MLAInbox(ctx context.Context, mlaID string) (*invitation.Inbox, error)
	MLADashboard(ctx context.Context, mlaID string) (*invitation.Dashboard, error)
	Detail(ctx context.Context, mla *models.User, id string) (*models.Invitation, error)
	Respond(ctx context.Context, mla *models.User, id string, in invitation.RespondInput) (*models.Invitation, error)
}

type CalendarService interface {
	Create(ctx context.Context, mla *models.User, in calendar.EventInput) (*models.CalendarEvent, error)
	List(ctx context.Context, mlaID string) ([]models.CalendarEvent, error)
	Update(ctx context.Context, mla *models.User, id string, in calendar.EventInput) (*models.CalendarEvent, error)
	Delete(ctx context.Context, mla *models.User, id string) error
	Public(ctx context.Context, mlaID string) ([]models.PublicEvent, error)
}

type DashboardService interface {
	Stats(ctx context.Context, mlaID string) (*dashboard.Stats, error)
	RecentActivity(ctx context.Context, mlaID string) ([]models.ActivityEvent, error)
}

// Handler holds every service a route can reach.
type Handler struct {
	Accounts    AccountService
	Meetings    MeetingService
	Complaints  ComplaintService
	Invitations InvitationService
	Calendar    CalendarService
	Dashboard   DashboardService
	Hub         *activity.ManagerService
	Log         *zap.Logger

	CookieSecure   bool
	AllowedOrigins []string
}

// respond writes a success envelope. payload keys are merged into the body.
func respond(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// fail renders expected errors verbatim and hides everything else behind a 500.
func (h *Handler) fail(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		if appErr.Status >= http.StatusInternalServerError {
			h.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(appErr))
		}
		c.JSON(appErr.Status, gin.H{"success": false, "message": appErr.Message})
		return
	}
	h.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
}

// bind accepts JSON, urlencoded or multipart bodies.
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		h.fail(c, apperror.BadRequest("Invalid request body."))
		return false
	}
	return true
}

// mediaFiles returns the uploaded attachments, if the request is multipart.
func mediaFiles(c *gin.Context) []*multipart.FileHeader {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File[config.MediaFormField]
}

func (h *Handler) setAuthCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(config.AuthCookieName, token, int(ttl/time.Second), "/", "", h.CookieSecure, true)
}

func (h *Handler) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(config.AuthCookieName, "", -1, "/", "", h.CookieSecure, true)
}
