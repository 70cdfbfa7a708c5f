package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httpresp"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/timezone"
	ucscheduling "github.com/mediconnect-dev/telehealth-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type PublicHandler struct {
	db          *gorm.DB
	listSlotsUC *ucscheduling.ListAvailableSlots
	clinicTZ    string
}

func NewPublicHandler(
	db *gorm.DB,
	listSlotsUC *ucscheduling.ListAvailableSlots,
	clinicTZ string,
) *PublicHandler {
	return &PublicHandler{
		db:          db,
		listSlotsUC: listSlotsUC,
		clinicTZ:    clinicTZ,
	}
}

// ======================================================
// DOCTORS
// ======================================================

func (h *PublicHandler) ListDoctors(c *gin.Context) {
	q := h.db.
		Preload("User").
		Where("verification_status = ?", models.VerificationVerified)

	if spec := c.Query("specialization"); spec != "" {
		q = q.Where("LOWER(specialization) = LOWER(?)", spec)
	}

	if minExp := c.Query("min_experience"); minExp != "" {
		if n, err := strconv.Atoi(minExp); err == nil {
			q = q.Where("experience_years >= ?", n)
		}
	}

	if maxFee := c.Query("max_fee"); maxFee != "" {
		if f, err := strconv.ParseFloat(maxFee, 64); err == nil {
			q = q.Where("consultation_fee <= ?", f)
		}
	}

	var doctors []models.DoctorProfile
	if err := q.Order("id ASC").Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "Could not load doctors.")
		return
	}

	httpresp.List(c, doctors)
}

// ======================================================
// AVAILABLE SLOTS
// ======================================================

func (h *PublicHandler) ListDoctorSlots(c *gin.Context) {
	doctorID, ok := parseIDParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_doctor_id", "Invalid doctor id.")
		return
	}

	loc := timezone.Location(h.clinicTZ)

	from, ok := parseDateQuery(c, "date_from", loc)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "date_from must be YYYY-MM-DD.")
		return
	}
	to, ok := parseDateQuery(c, "date_to", loc)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "date_to must be YYYY-MM-DD.")
		return
	}

	slots, err := h.listSlotsUC.Execute(c.Request.Context(), doctorID, from, to)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_list_slots", "Could not load slots.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor_id": doctorID,
		"slots":     slots,
		"total":     len(slots),
	})
}
