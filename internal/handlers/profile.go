package handlers

import (
	"log"
	"net/http"

	"taskvault/internal/middleware"
	"taskvault/internal/models"
	"taskvault/internal/storage"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	storage storage.Storage
}

func NewProfileHandler(st storage.Storage) *ProfileHandler {
	return &ProfileHandler{storage: st}
}

// GetProfile returns the caller's profile, or a JSON null when none has
// been created yet.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	profile, err := h.storage.GetProfile(c.Request.Context(), userID)
	if err != nil {
		log.Printf("failed to fetch profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile patches the caller's profile, creating it on first write.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var patch models.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": formatValidationError(err)})
		return
	}

	profile, err := h.storage.UpdateProfile(c.Request.Context(), userID, patch)
	if err != nil {
		log.Printf("failed to update profile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
