package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mlaconnect/backend/internal/api/middleware"
	"mlaconnect/backend/internal/invitation"
)

func (h *Handler) SubmitInvitation(c *gin.Context) {
	var in invitation.CreateInput
	if !h.bind(c, &in) {
		return
	}
	inv, err := h.Invitations.Create(c.Request.Context(), middleware.CurrentUser(c), in, mediaFiles(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusCreated, "Your invitation has been sent successfully. A confirmation email has been sent to you.", gin.H{"invitation": inv})
}

func (h *Handler) InvitationHistory(c *gin.Context) {
	list, err := h.Invitations.CitizenHistory(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"count": len(list), "invitations": list})
}

func (h *Handler) MLAInvitations(c *gin.Context) {
	inbox, err := h.Invitations.MLAInbox(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"data": inbox.Data, "summary": inbox.Summary})
}

func (h *Handler) InvitationDashboard(c *gin.Context) {
	d, err := h.Invitations.MLADashboard(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"data": d.Data, "summary": d.Summary})
}

func (h *Handler) InvitationDetail(c *gin.Context) {
	inv, err := h.Invitations.Detail(c.Request.Context(), middleware.CurrentUser(c), c.Param("invitationId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"data": inv})
}

func (h *Handler) RespondInvitation(c *gin.Context) {
	var in invitation.RespondInput
	if !h.bind(c, &in) {
		return
	}
	inv, err := h.Invitations.Respond(c.Request.Context(), middleware.CurrentUser(c), c.Param("invitationId"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	msg := fmt.Sprintf("Your response ('%s') has been saved and sent to the citizen.", inv.Status)
	respond(c, http.StatusOK, msg, gin.H{"invitation": inv})
}
