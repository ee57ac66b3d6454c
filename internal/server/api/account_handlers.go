package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ccsafarmai/farmai/internal/common"
	"github.com/ccsafarmai/farmai/internal/server/services"
)

func (h *Handler) updateProfile(c *gin.Context) {
	var in services.UpdateProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	if err := h.Account.UpdateProfile(c.Request.Context(), claimsFrom(c).UserID(), in); err != nil {
		h.fail(c, err, "Failed to update profile.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "Profile updated successfully!"})
}

func (h *Handler) updatePassword(c *gin.Context) {
	var in services.UpdatePasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	err := h.Account.UpdatePassword(c.Request.Context(), claimsFrom(c).UserID(), in)
	if err != nil {
		h.fail(c, err, "Failed to update password.", overrides{
			common.ErrorInvalidCredentials: "Current password is incorrect!",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "Password updated successfully!"})
}

func (h *Handler) updateImage(c *gin.Context) {
	var in services.UpdateImageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	if err := h.Account.UpdateProfileImage(c.Request.Context(), claimsFrom(c).UserID(), in); err != nil {
		h.fail(c, err, "Failed to update profile image.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "Profile image updated successfully!"})
}

func (h *Handler) imageUploadURL(c *gin.Context) {
	var in services.UploadURLInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	out, err := h.Account.PresignProfileImageUpload(c.Request.Context(), claimsFrom(c).UserID(), in)
	if err != nil {
		h.fail(c, err, "Failed to create upload URL.", nil)
		return
	}
	c.JSON(http.StatusOK, out)
}

type walletRequest struct {
	Amount float64 `json:"amount"`
}

func (h *Handler) addFunds(c *gin.Context) {
	var in walletRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	balance, err := h.Account.AddFundsToWallet(c.Request.Context(), claimsFrom(c).UserID(), in.Amount)
	if err != nil {
		h.fail(c, err, "Failed to add funds to wallet.", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       "₦" + strconv.FormatFloat(in.Amount, 'f', -1, 64) + " added to your wallet successfully!",
		"walletBalance": balance,
	})
}
