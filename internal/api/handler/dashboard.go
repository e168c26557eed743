package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mlaconnect/backend/internal/api/middleware"
)

func (h *Handler) Stats(c *gin.Context) {
	st, err := h.Dashboard.Stats(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"stats": st})
}

func (h *Handler) RecentActivity(c *gin.Context) {
	feed, err := h.Dashboard.RecentActivity(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"activities": feed})
}
