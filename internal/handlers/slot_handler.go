package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/middleware"
	ucscheduling "github.com/mediconnect-dev/telehealth-scheduler/internal/usecase/scheduling"
)

type SlotHandler struct {
	generateUC *ucscheduling.GenerateSlots
}

func NewSlotHandler(generateUC *ucscheduling.GenerateSlots) *SlotHandler {
	return &SlotHandler{generateUC: generateUC}
}

type GenerateSlotsRequest struct {
	DaysAhead int `json:"days_ahead"`
}

// Generate expands the doctor's weekly availability into bookable slots.
// Safe to call repeatedly.
func (h *SlotHandler) Generate(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextDoctorID).(uint)

	var req GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	created, err := h.generateUC.Execute(c.Request.Context(), doctorID, req.DaysAhead)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_generate_slots", "Could not generate slots.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots_created": created})
}
