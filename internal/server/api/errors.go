package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ccsafarmai/farmai/internal/common"
)

// Response messages shared by several handlers.
const (
	msgInvalidFields  = "Invalid fields!"
	msgUnauthorized   = "Unauthorized"
	msgUnexpected     = "An unexpected error occurred"
	msgEmailInUse     = "Email already in use!"
	msgUserNotFound   = "User not found!"
	msgLimitReached   = "You've reached your free tier limit. Please upgrade your account to continue."
	msgTooManyRequest = "Too many requests. Please try again later."
)

type errorMapping struct {
	err    error
	status int
	msg    string
}

// knownErrors is checked in order; the first match wins.
var knownErrors = []errorMapping{
	{common.ErrorValidation, http.StatusBadRequest, msgInvalidFields},
	{common.ErrorUnauthorized, http.StatusForbidden, msgUnauthorized},
	{common.ErrorAlreadyExists, http.StatusConflict, msgEmailInUse},
	{common.ErrorNotFound, http.StatusNotFound, msgUserNotFound},
	{common.ErrorInvalidCredentials, http.StatusUnauthorized, "Invalid credentials!"},
	{common.ErrorInvalidOrExpiredToken, http.StatusBadRequest, "Invalid or expired token!"},
	{common.ErrorAlreadyVerified, http.StatusConflict, "Email already verified!"},
	{common.ErrorSelfDelete, http.StatusBadRequest, "You cannot delete your own account!"},
	{common.ErrorAmountNotPositive, http.StatusBadRequest, "Amount must be greater than zero!"},
	{common.ErrorUsageLimit, http.StatusPaymentRequired, msgLimitReached},
}

// overrides replaces the message for a sentinel in one handler.
type overrides map[error]string

// fail writes {"error": msg}. Known sentinels get their own status and
// message; anything else is logged and reported as generic with a 500.
func (h *Handler) fail(c *gin.Context, err error, generic string, o overrides) {
	for _, m := range knownErrors {
		if errors.Is(err, m.err) {
			msg := m.msg
			if v, ok := o[m.err]; ok {
				msg = v
			}
			c.JSON(m.status, gin.H{"error": msg})
			return
		}
	}

	h.log.Error(c.Request.Context(), "request failed",
		"path", c.FullPath(),
		"request_id", c.GetString(requestIDKey),
		"error", err,
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidFields})
}

func isUnauthorized(err error) bool {
	return errors.Is(err, common.ErrorUnauthorized)
}
