package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/audit"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/cache"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/config"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/handlers"
	infraRepo "github.com/mediconnect-dev/telehealth-scheduler/internal/infra/repository"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/jobs"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/meeting"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/middleware"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/notify"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/timezone"
	ucscheduling "github.com/mediconnect-dev/telehealth-scheduler/internal/usecase/scheduling"
)

// RegisterRoutes wires infrastructure, use cases and handlers onto the
// engine and returns the background job runner for main to start.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) *jobs.Runner {

	loc := timezone.Location(cfg.ClinicTimezone)

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	schedulingRepo := infraRepo.NewSchedulingGormRepository(db, loc)
	slotCache := cache.NewSlotCache(cfg)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	notifyDispatcher := notify.NewDispatcher(notify.NewEmailSink(cfg))

	meetings := meeting.NewWherebyClient(cfg.WherebyAPIKey)

	// ======================================================
	// USE CASES — SCHEDULING
	// ======================================================
	generateSlotsUC := ucscheduling.NewGenerateSlots(
		schedulingRepo,
		slotCache,
		auditDispatcher,
		loc,
	)

	bookUC := ucscheduling.NewBookAppointment(
		schedulingRepo,
		slotCache,
		auditDispatcher,
		notifyDispatcher,
		loc,
	)

	cancelUC := ucscheduling.NewCancelAppointment(
		schedulingRepo,
		slotCache,
		auditDispatcher,
		notifyDispatcher,
		loc,
	)

	rescheduleUC := ucscheduling.NewRescheduleAppointment(
		schedulingRepo,
		slotCache,
		auditDispatcher,
		notifyDispatcher,
		loc,
	)

	confirmUC := ucscheduling.NewConfirmAppointment(
		schedulingRepo,
		auditDispatcher,
		notifyDispatcher,
		loc,
	)

	progressUC := ucscheduling.NewProgressAppointment(
		schedulingRepo,
		auditDispatcher,
		notifyDispatcher,
	)

	joinSessionUC := ucscheduling.NewJoinSession(
		schedulingRepo,
		meetings,
		auditDispatcher,
		loc,
	)

	listSlotsUC := ucscheduling.NewListAvailableSlots(
		schedulingRepo,
		slotCache,
		loc,
	)

	listAppointmentsUC := ucscheduling.NewListAppointments(
		schedulingRepo,
		loc,
	)

	sweepUC := ucscheduling.NewSweepPastSlots(
		schedulingRepo,
		cfg.SlotRetentionDays,
		loc,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)
	availabilityHandler := handlers.NewAvailabilityHandler(db)
	slotHandler := handlers.NewSlotHandler(generateSlotsUC)

	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		cancelUC,
		rescheduleUC,
		confirmUC,
		progressUC,
		listAppointmentsUC,
		schedulingRepo,
		cfg.ClinicTimezone,
	)

	sessionHandler := handlers.NewSessionHandler(joinSessionUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, listSlotsUC, cfg.ClinicTimezone)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/doctors", publicHandler.ListDoctors)
			publicAPI.GET("/doctors/:id/slots", publicHandler.ListDoctorSlots)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.Get)
			secured.GET("/me/audit-logs", auditLogsHandler.List)

			// ------------------------------
			// DOCTOR SCHEDULE
			// ------------------------------
			doctor := secured.Group("/me")
			doctor.Use(middleware.RequireDoctor())
			{
				doctor.GET("/availability", availabilityHandler.Get)
				doctor.PUT("/availability", availabilityHandler.Update)
				doctor.POST("/slots/generate", slotHandler.Generate)
				doctor.GET("/appointments/today", appointmentHandler.Today)
			}

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Book)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/upcoming", appointmentHandler.Upcoming)
			secured.GET("/appointments/:id", appointmentHandler.Detail)

			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)

			doctorActions := secured.Group("/appointments/:id")
			doctorActions.Use(middleware.RequireDoctor())
			{
				doctorActions.PATCH("/confirm", appointmentHandler.Confirm)
				doctorActions.PATCH("/reject", appointmentHandler.Reject)
				doctorActions.PATCH("/start", appointmentHandler.Start)
				doctorActions.PATCH("/complete", appointmentHandler.Complete)
				doctorActions.PATCH("/no-show", appointmentHandler.NoShow)
				doctorActions.POST("/session/regenerate", sessionHandler.Regenerate)
			}

			secured.GET("/appointments/:id/join", sessionHandler.Join)
		}
	}

	// ======================================================
	// BACKGROUND JOBS
	// ======================================================
	return jobs.New(
		generateSlotsUC,
		sweepUC,
		schedulingRepo,
		notifyDispatcher,
		loc,
	)
}
