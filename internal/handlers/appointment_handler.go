package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httpresp"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/timezone"
	ucscheduling "github.com/mediconnect-dev/telehealth-scheduler/internal/usecase/scheduling"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	bookUC       *ucscheduling.BookAppointment
	cancelUC     *ucscheduling.CancelAppointment
	rescheduleUC *ucscheduling.RescheduleAppointment
	confirmUC    *ucscheduling.ConfirmAppointment
	progressUC   *ucscheduling.ProgressAppointment
	listUC       *ucscheduling.ListAppointments

	repo     domain.Repository
	clinicTZ string
}

func NewAppointmentHandler(
	bookUC *ucscheduling.BookAppointment,
	cancelUC *ucscheduling.CancelAppointment,
	rescheduleUC *ucscheduling.RescheduleAppointment,
	confirmUC *ucscheduling.ConfirmAppointment,
	progressUC *ucscheduling.ProgressAppointment,
	listUC *ucscheduling.ListAppointments,
	repo domain.Repository,
	clinicTZ string,
) *AppointmentHandler {
	return &AppointmentHandler{
		bookUC:       bookUC,
		cancelUC:     cancelUC,
		rescheduleUC: rescheduleUC,
		confirmUC:    confirmUC,
		progressUC:   progressUC,
		listUC:       listUC,
		repo:         repo,
		clinicTZ:     clinicTZ,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	DoctorID   uint   `json:"doctor_id" binding:"required"`
	TimeSlotID uint   `json:"time_slot_id" binding:"required"`
	Reason     string `json:"reason"`
	Symptoms   string `json:"symptoms"`

	RequireConfirmation bool `json:"require_confirmation"`
}

type CancelAppointmentRequest struct {
	CancellationReason string `json:"cancellation_reason" binding:"required"`
}

type RescheduleAppointmentRequest struct {
	NewTimeSlotID uint `json:"new_time_slot_id" binding:"required"`
}

type RejectAppointmentRequest struct {
	Reason string `json:"reason"`
}

// ======================================================
// BOOK
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	actor := actorFromContext(c)
	if actor.IsDoctor() {
		httperr.Forbidden(c, "patient_only", "Only patients can book appointments.")
		return
	}

	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid booking data.")
		return
	}

	ap, err := h.bookUC.Execute(c.Request.Context(), ucscheduling.BookInput{
		PatientID:           actor.UserID,
		DoctorID:            req.DoctorID,
		TimeSlotID:          req.TimeSlotID,
		Reason:              req.Reason,
		Symptoms:            req.Symptoms,
		RequireConfirmation: req.RequireConfirmation,
	})
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_book", "Could not book appointment.")
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LISTINGS
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	actor := actorFromContext(c)
	loc := timezone.Location(h.clinicTZ)

	dateFrom, ok := parseDateQuery(c, "date_from", loc)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "date_from must be YYYY-MM-DD.")
		return
	}
	dateTo, ok := parseDateQuery(c, "date_to", loc)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "date_to must be YYYY-MM-DD.")
		return
	}

	out, err := h.listUC.Execute(c.Request.Context(), actor, domain.AppointmentFilter{
		Status:   c.Query("status"),
		DateFrom: dateFrom,
		DateTo:   dateTo,
	})
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_list", "Could not load appointments.")
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	actor := actorFromContext(c)

	out, err := h.listUC.Execute(c.Request.Context(), actor, domain.AppointmentFilter{
		UpcomingOnly: true,
	})
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_list", "Could not load appointments.")
		return
	}

	httpresp.List(c, out)
}

func (h *AppointmentHandler) Today(c *gin.Context) {
	actor := actorFromContext(c)

	out, err := h.listUC.ExecuteDoctorDay(
		c.Request.Context(),
		actor.DoctorProfileID,
		timezone.NowIn(h.clinicTZ),
	)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_list", "Could not load appointments.")
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// DETAIL
// ======================================================

type appointmentDetailResponse struct {
	*models.Appointment
	CanCancel     bool `json:"can_cancel"`
	CanReschedule bool `json:"can_reschedule"`
	CanJoin       bool `json:"can_join"`
}

func (h *AppointmentHandler) Detail(c *gin.Context) {
	actor := actorFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.repo.GetAppointmentForActor(c.Request.Context(), id, actor)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_get_appointment", "Could not load appointment.")
		return
	}

	now := time.Now().In(timezone.Location(h.clinicTZ))
	c.JSON(http.StatusOK, appointmentDetailResponse{
		Appointment:   ap,
		CanCancel:     domain.CanCancel(ap, now),
		CanReschedule: domain.CanReschedule(ap, now),
		CanJoin:       domain.CanJoin(ap, now),
	})
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	actor := actorFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A cancellation reason is required.")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), id, actor, req.CancellationReason)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_cancel", "Could not cancel appointment.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	actor := actorFromContext(c)
	if actor.IsDoctor() {
		httperr.Forbidden(c, "patient_only", "Only patients can reschedule appointments.")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	var req RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A new time slot is required.")
		return
	}

	ap, err := h.rescheduleUC.Execute(c.Request.Context(), id, actor, req.NewTimeSlotID)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_reschedule", "Could not reschedule appointment.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	actor := actorFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.confirmUC.Execute(c.Request.Context(), id, actor)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_confirm", "Could not confirm appointment.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Reject(c *gin.Context) {
	actor := actorFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	var req RejectAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ap, err := h.confirmUC.Reject(c.Request.Context(), id, actor, req.Reason)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_reject", "Could not reject appointment.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	actor := actorFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.progressUC.Start(c.Request.Context(), id, actor)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_start", "Could not start appointment.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	actor := actorFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.progressUC.Complete(c.Request.Context(), id, actor)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_complete", "Could not complete appointment.")
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	actor := actorFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.progressUC.MarkNoShow(c.Request.Context(), id, actor)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_mark_no_show", "Could not mark appointment as no-show.")
		return
	}

	httpresp.OK(c, ap)
}
