package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/middleware"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/validators"
)

type AvailabilityHandler struct {
	db *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db}
}

type AvailabilityWindow struct {
	DayOfWeek int    `json:"day_of_week" binding:"min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Active    bool   `json:"active"`
}

type AvailabilityUpdateRequest struct {
	Windows []AvailabilityWindow `json:"windows" binding:"required"`
}

func (h *AvailabilityHandler) Get(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var templates []models.AvailabilityTemplate
	if err := h.db.
		Where("doctor_id = ?", doctorID).
		Order("day_of_week ASC, start_time ASC").
		Find(&templates).Error; err != nil {

		httperr.Internal(c, "failed_to_get_availability", "Could not load availability.")
		return
	}

	c.JSON(http.StatusOK, templates)
}

// Update replaces the doctor's weekly template wholesale. Slots already
// generated from the old template are left alone; regeneration only adds.
func (h *AvailabilityHandler) Update(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var req AvailabilityUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid availability data.")
		return
	}

	for _, w := range req.Windows {
		if !validators.IsValidWallClock(w.StartTime) || !validators.IsValidWallClock(w.EndTime) {
			httperr.BadRequest(c, "invalid_time", "Times must use the HH:MM format.")
			return
		}
		if !validators.WallClockBefore(w.StartTime, w.EndTime) {
			httperr.BadRequest(c, "invalid_window", "Start time must be before end time.")
			return
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", doctorID).Delete(&models.AvailabilityTemplate{}).Error; err != nil {
			return err
		}

		var toCreate []models.AvailabilityTemplate
		for _, w := range req.Windows {
			toCreate = append(toCreate, models.AvailabilityTemplate{
				DoctorID:  doctorID,
				DayOfWeek: w.DayOfWeek,
				StartTime: w.StartTime,
				EndTime:   w.EndTime,
				Active:    w.Active,
			})
		}

		if len(toCreate) > 0 {
			return tx.Create(&toCreate).Error
		}
		return nil
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "duplicate_window", "Two windows share the same day and start time.")
			return
		}
		httperr.Internal(c, "failed_to_save_availability", "Could not save availability.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
