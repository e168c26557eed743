package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mlaconnect/backend/internal/account"
	"mlaconnect/backend/internal/api/middleware"
	"mlaconnect/backend/internal/config"
)

type credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) SignupCitizen(c *gin.Context) {
	var in account.SignupInput
	if !h.bind(c, &in) {
		return
	}
	sess, err := h.Accounts.SignupCitizen(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setAuthCookie(c, sess.Token, config.LoginTokenTTL)
	respond(c, http.StatusCreated, "Citizen registered successfully.", gin.H{
		"token": sess.Token,
		"user": gin.H{
			"id":       sess.User.ID,
			"fullName": sess.User.FullName,
			"email":    sess.User.Email,
			"role":     sess.User.Role,
		},
	})
}

func (h *Handler) SignupMLA(c *gin.Context) {
	var in account.SignupInput
	if !h.bind(c, &in) {
		return
	}
	sess, err := h.Accounts.SignupMLA(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setAuthCookie(c, sess.Token, config.MlaSignupTokenTTL)
	respond(c, http.StatusCreated, "MLA registered successfully", gin.H{
		"token": sess.Token,
		"user": gin.H{
			"id":       sess.User.ID,
			"fullName": sess.User.FullName,
			"email":    sess.User.Email,
			"role":     sess.User.Role,
		},
	})
}

func (h *Handler) Login(c *gin.Context) {
	var in credentials
	if !h.bind(c, &in) {
		return
	}
	sess, err := h.Accounts.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setAuthCookie(c, sess.Token, config.LoginTokenTTL)
	respond(c, http.StatusOK, "Login successful", gin.H{"token": sess.Token, "user": sess.User})
}

func (h *Handler) LoginMLA(c *gin.Context) {
	var in credentials
	if !h.bind(c, &in) {
		return
	}
	sess, err := h.Accounts.LoginMLA(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setAuthCookie(c, sess.Token, config.LoginTokenTTL)
	respond(c, http.StatusOK, "MLA login successful", gin.H{"token": sess.Token, "user": sess.User})
}

func (h *Handler) Logout(c *gin.Context) {
	h.clearAuthCookie(c)
	respond(c, http.StatusOK, "Logged out successfully", nil)
}

// ChangePassword serves the citizen form field names.
func (h *Handler) ChangePassword(c *gin.Context) {
	var in struct {
		PreviousPassword string `json:"previousPassword"`
		Password         string `json:"password"`
		ConfirmPassword  string `json:"confirmPassword"`
	}
	if !h.bind(c, &in) {
		return
	}
	err := h.Accounts.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), in.PreviousPassword, in.Password, in.ConfirmPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Password changed successfully", nil)
}

// ChangeMLAPassword serves the MLA form field names.
func (h *Handler) ChangeMLAPassword(c *gin.Context) {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if !h.bind(c, &in) {
		return
	}
	err := h.Accounts.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), in.CurrentPassword, in.NewPassword, in.ConfirmPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Password updated successfully.", nil)
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var in struct {
		Email string `json:"email"`
	}
	if !h.bind(c, &in) {
		return
	}
	if err := h.Accounts.ForgotPassword(c.Request.Context(), in.Email); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "An OTP has been sent to your email address and phone number.", nil)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var in account.ResetInput
	if !h.bind(c, &in) {
		return
	}
	if err := h.Accounts.ResetPassword(c.Request.Context(), in); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Password has been reset successfully. Please log in with your new password.", nil)
}

func (h *Handler) Profile(c *gin.Context) {
	respond(c, http.StatusOK, "", gin.H{"user": middleware.CurrentUser(c)})
}

func (h *Handler) UserProfile(c *gin.Context) {
	user, err := h.Accounts.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"user": user})
}

func (h *Handler) MLAProfile(c *gin.Context) {
	respond(c, http.StatusOK, "", gin.H{"profile": middleware.CurrentUser(c)})
}

func (h *Handler) MLAWelcome(c *gin.Context) {
	respond(c, http.StatusOK, "Welcome to MLA Dashboard", gin.H{"user": middleware.CurrentUser(c)})
}

func (h *Handler) ListMLAs(c *gin.Context) {
	mlas, err := h.Accounts.ListMLAs(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{"mlas": mlas})
}
