package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/server/services"
)

const msgForgotPassword = "If your email is registered, you will receive a password reset link."

func (h *Handler) register(c *gin.Context) {
	var in services.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	if err := h.Auth.Register(c.Request.Context(), in); err != nil {
		h.fail(c, err, msgUnexpected, nil)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": "Verification email sent! Please check your inbox."})
}

type loginRequest struct {
	services.LoginInput
	CallbackURL string `json:"callbackUrl"`
	// ReturnToken asks for the session token in the body, for clients
	// that send it back as a bearer header instead of the cookie.
	ReturnToken bool `json:"returnToken"`
}

func (h *Handler) login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), in.LoginInput, in.CallbackURL)
	if err != nil {
		h.fail(c, err, msgUnexpected, overrides{common.ErrorNotFound: "Email does not exist!"})
		return
	}

	if res.VerificationSent {
		c.JSON(http.StatusOK, gin.H{
			"emailVerification": true,
			"message":           "Email verification link sent. Please check your email.",
		})
		return
	}

	token, err := h.Sessions.Issue(res.User)
	if err != nil {
		h.fail(c, err, msgUnexpected, nil)
		return
	}
	h.setSessionCookie(c, token)

	out := gin.H{
		"success":  "Login successful!",
		"redirect": res.Redirect,
	}
	if in.ReturnToken {
		out["token"] = token
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type tokenRequest struct {
	Token string `json:"token"`
}

func (h *Handler) verifyEmail(c *gin.Context) {
	var in tokenRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c)
			return
		}
	}
	if in.Token == "" {
		in.Token = c.Query("token")
	}

	if err := h.Auth.VerifyEmail(c.Request.Context(), in.Token); err != nil {
		h.fail(c, err, msgUnexpected, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": "Email verified successfully!"})
}

func (h *Handler) forgotPassword(c *gin.Context) {
	var in services.EmailInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	if err := h.Auth.ForgotPassword(c.Request.Context(), in); err != nil {
		h.fail(c, err, msgUnexpected, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": msgForgotPassword})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var in services.ResetPasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	if err := h.Auth.ResetPassword(c.Request.Context(), in); err != nil {
		h.fail(c, err, msgUnexpected, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": "Password reset successfully!"})
}

func (h *Handler) resendVerification(c *gin.Context) {
	var in services.EmailInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	if err := h.Auth.ResendVerificationEmail(c.Request.Context(), in); err != nil {
		h.fail(c, err, msgUnexpected, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": "Verification email sent!"})
}

type sessionUser struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          string     `json:"role"`
	WalletBalance float64    `json:"walletBalance"`
	EmailVerified *time.Time `json:"emailVerified"`
}

func (h *Handler) session(c *gin.Context) {
	claims := claimsFrom(c)

	c.JSON(http.StatusOK, gin.H{
		"user": sessionUser{
			ID:            claims.UserID(),
			Name:          claims.Name,
			Email:         claims.Email,
			Role:          claims.Role,
			WalletBalance: claims.WalletBalance,
			EmailVerified: claims.EmailVerified,
		},
		"expires": claims.ExpiresAt,
	})
}
