package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mlaconnect/backend/internal/api/middleware"
	"mlaconnect/backend/internal/meeting"
)

func (h *Handler) RequestMeeting(c *gin.Context) {
	var in meeting.CreateInput
	if !h.bind(c, &in) {
		return
	}
	req, err := h.Meetings.Create(c.Request.Context(), middleware.CurrentUser(c), in, mediaFiles(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Meeting request submitted successfully.", gin.H{"request": req})
}

func (h *Handler) MeetingHistory(c *gin.Context) {
	hist, err := h.Meetings.CitizenHistory(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"requests": hist})
}

func (h *Handler) MeetingHistoryDetail(c *gin.Context) {
	req, err := h.Meetings.CitizenDetail(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"request": req})
}

func (h *Handler) MeetingDetail(c *gin.Context) {
	req, err := h.Meetings.Detail(c.Request.Context(), middleware.CurrentUser(c), c.Param("requestId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"data": req})
}

func (h *Handler) MeetingDashboard(c *gin.Context) {
	d, err := h.Meetings.MLADashboard(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"data": d.Data, "summary": d.Summary})
}

func (h *Handler) DecideMeeting(c *gin.Context) {
	var in meeting.DecisionInput
	if !h.bind(c, &in) {
		return
	}
	req, err := h.Meetings.Decide(c.Request.Context(), middleware.CurrentUser(c), c.Param("requestId"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := fmt.Sprintf("Request status successfully updated to '%s' and notifications have been sent.", req.Status)
	respond(c, http.StatusOK, msg, gin.H{"request": req})
}
