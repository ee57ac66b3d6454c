package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ccsafarmai/farmai/internal/server/models"
	"github.com/ccsafarmai/farmai/internal/server/services"
)

type adminUser struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Image         string    `json:"image,omitempty"`
	WalletBalance float64   `json:"walletBalance"`
	CreatedAt     time.Time `json:"createdAt"`
	PromptsUsed   int       `json:"promptsUsed"`
}

func toAdminUsers(in []models.UserSummary) []adminUser {
	out := make([]adminUser, 0, len(in))
	for _, u := range in {
		out = append(out, adminUser{
			ID:            u.ID,
			Name:          u.Name,
			Email:         u.Email,
			Role:          u.Role,
			Image:         u.Image,
			WalletBalance: u.WalletBalance,
			CreatedAt:     u.CreatedAt,
			PromptsUsed:   u.PromptsUsed,
		})
	}
	return out
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.Admin.ListUsers(c.Request.Context(), claimsFrom(c).UserID())
	if err != nil {
		h.fail(c, err, "Failed to fetch users.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": toAdminUsers(users)})
}

func (h *Handler) createUser(c *gin.Context) {
	var in services.CreateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	if _, err := h.Admin.CreateUser(c.Request.Context(), claimsFrom(c).UserID(), in); err != nil {
		h.fail(c, err, "Failed to create user.", nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": "User created successfully!"})
}

func (h *Handler) updateUser(c *gin.Context) {
	var in services.UpdateUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}
	in.ID = c.Param("id")

	if err := h.Admin.UpdateUser(c.Request.Context(), claimsFrom(c).UserID(), in); err != nil {
		h.fail(c, err, "Failed to update user.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "User updated successfully!"})
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.Admin.DeleteUser(c.Request.Context(), claimsFrom(c).UserID(), c.Param("id")); err != nil {
		h.fail(c, err, "Failed to delete user.", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": "User deleted successfully!"})
}
