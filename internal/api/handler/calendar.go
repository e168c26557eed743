package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mlaconnect/backend/internal/api/middleware"
	"mlaconnect/backend/internal/calendar"
)

func (h *Handler) CreateEvent(c *gin.Context) {
	var in calendar.EventInput
	if !h.bind(c, &in) {
		return
	}
	ev, err := h.Calendar.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Event created successfully.", gin.H{"event": ev})
}

func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.Calendar.List(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"events": events})
}

func (h *Handler) UpdateEvent(c *gin.Context) {
	var in calendar.EventInput
	if !h.bind(c, &in) {
		return
	}
	ev, err := h.Calendar.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("eventId"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Event updated successfully.", gin.H{"event": ev})
}

func (h *Handler) DeleteEvent(c *gin.Context) {
	if err := h.Calendar.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("eventId")); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Event deleted successfully.", nil)
}

func (h *Handler) PublicCalendar(c *gin.Context) {
	events, err := h.Calendar.Public(c.Request.Context(), c.Param("mlaId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"events": events})
}
