package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/middleware"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	resp := gin.H{"user": user}

	if c.GetString(middleware.ContextUserType) == models.UserTypeDoctor {
		var profile models.DoctorProfile
		if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err == nil {
			resp["doctor_profile"] = profile
		}
	}

	c.JSON(http.StatusOK, resp)
}
