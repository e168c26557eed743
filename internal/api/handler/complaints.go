package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mlaconnect/backend/internal/api/middleware"
	"mlaconnect/backend/internal/complaint"
)

func (h *Handler) SubmitComplaint(c *gin.Context) {
	var in complaint.CreateInput
	if !h.bind(c, &in) {
		return
	}
	cmp, err := h.Complaints.HandleComplaint(c.Request.Context(), middleware.CurrentUser(c), in, mediaFiles(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Your complaint has been submitted successfully. A confirmation email has been sent.", gin.H{"complaint": cmp})
}

func (h *Handler) ComplaintHistory(c *gin.Context) {
	list, err := h.Complaints.CitizenHistory(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"count": len(list), "complaints": list})
}

func (h *Handler) MLAComplaints(c *gin.Context) {
	inbox, err := h.Complaints.MLAInbox(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"data": inbox.Data, "summary": inbox.Summary})
}

func (h *Handler) MLAComplaintHistory(c *gin.Context) {
	list, err := h.Complaints.MLAHistory(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"data": list})
}

func (h *Handler) ComplaintDetail(c *gin.Context) {
	cmp, err := h.Complaints.Detail(c.Request.Context(), middleware.CurrentUser(c), c.Param("complaintId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"data": cmp})
}

func (h *Handler) MarkComplaintRead(c *gin.Context) {
	cmp, err := h.Complaints.MarkRead(c.Request.Context(), middleware.CurrentUser(c), c.Param("complaintId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Complaint marked as read.", gin.H{"complaint": cmp})
}

func (h *Handler) RespondComplaint(c *gin.Context) {
	var in complaint.RespondInput
	if !h.bind(c, &in) {
		return
	}
	cmp, err := h.Complaints.Respond(c.Request.Context(), middleware.CurrentUser(c), c.Param("complaintId"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Your response has been saved and sent to the citizen.", gin.H{"complaint": cmp})
}
