// Package api assembles the gin engine: global middleware, static uploads and
// every route under /api/auth.
package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mlaconnect/backend/internal/api/handler"
	"mlaconnect/backend/internal/api/middleware"
	"mlaconnect/backend/internal/logger"
	"mlaconnect/backend/internal/upload"
)

type RouterConfig struct {
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For; nil trusts none, so the
	// rate limiter keys on the socket address.
	TrustedProxies []string
	UploadDir      string
	Limiter        *middleware.RateLimiter
	Auth           middleware.Authenticator
	Log            *zap.Logger
}

func NewRouter(h *handler.Handler, cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery(), logger.Middleware(cfg.Log), middleware.Cors(cfg.AllowedOrigins))
	r.MaxMultipartMemory = 8 << 20

	if cfg.UploadDir != "" {
		r.Static(upload.URLPrefix, cfg.UploadDir)
	}

	limited := cfg.Limiter.Limit()
	requireAuth := middleware.RequireAuth(cfg.Auth)
	requireMLA := middleware.RequireMLA(cfg.Auth)

	g := r.Group("/api/auth")

	g.POST("/signup", limited, h.SignupCitizen)
	g.POST("/login", limited, h.Login)
	g.POST("/mla-signup", limited, h.SignupMLA)
	g.POST("/mla-login", limited, h.LoginMLA)
	g.POST("/logout", h.Logout)
	g.POST("/forgot-password", limited, h.ForgotPassword)
	g.PUT("/reset-password", limited, h.ResetPassword)
	g.GET("/mlas", h.ListMLAs)
	g.GET("/public/calendar/:mlaId", h.PublicCalendar)

	citizen := g.Group("", requireAuth)
	citizen.PUT("/change-password", h.ChangePassword)
	citizen.GET("/profile", h.Profile)
	citizen.GET("/profile/:id", h.UserProfile)
	citizen.POST("/request-meeting", h.RequestMeeting)
	citizen.GET("/meeting-requests/history", h.MeetingHistory)
	citizen.GET("/meeting-request/history/:id", h.MeetingHistoryDetail)
	citizen.GET("/mla/meeting/requests/Details/:requestId", h.MeetingDetail)
	citizen.POST("/submit-complaint", h.SubmitComplaint)
	citizen.GET("/complaints/history", h.ComplaintHistory)
	citizen.POST("/submit-invitation", h.SubmitInvitation)
	citizen.GET("/invitations/history", h.InvitationHistory)

	g.GET("/mla-dashboard", requireMLA, h.MLAWelcome)

	mla := g.Group("/mla", requireMLA)
	mla.GET("/dashboard", h.MeetingDashboard)
	mla.PUT("/meeting-requests/:requestId", h.DecideMeeting)

	mla.GET("/complaints", h.MLAComplaints)
	mla.GET("/complaints/history", h.MLAComplaintHistory)
	mla.GET("/complaints/:complaintId", h.ComplaintDetail)
	mla.PUT("/complaints/:complaintId/read", h.MarkComplaintRead)
	mla.PUT("/complaints/:complaintId/respond", h.RespondComplaint)

	mla.GET("/invitations", h.MLAInvitations)
	mla.GET("/invitations/dashboard", h.InvitationDashboard)
	mla.GET("/invitations/details/:invitationId", h.InvitationDetail)
	mla.PUT("/invitations/:invitationId/respond", h.RespondInvitation)

	mla.POST("/calendar/create", h.CreateEvent)
	mla.GET("/calendar", h.ListEvents)
	mla.PUT("/calendar/:eventId", h.UpdateEvent)
	mla.DELETE("/calendar/:eventId", h.DeleteEvent)

	mla.GET("/stats", h.Stats)
	mla.GET("/recent-activity", h.RecentActivity)
	mla.GET("/profile", h.MLAProfile)
	mla.PUT("/change-password", h.ChangeMLAPassword)

	g.GET("/mla/ws", middleware.RequireMLASocket(cfg.Auth), h.ServeWebSocket)

	return r, nil
}
