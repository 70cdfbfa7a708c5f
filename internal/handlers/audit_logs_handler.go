package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httpresp"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/middleware"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/models"
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List returns the caller's own trail, newest first.
func (h *AuditLogsHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	q := h.db.Where("user_id = ?", userID)
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	var logs []models.AuditLog
	if err := q.Order("id DESC").Limit(limit).Find(&logs).Error; err != nil {
		httperr.Internal(c, "failed_to_list_audit_logs", "Could not load audit logs.")
		return
	}

	httpresp.List(c, logs)
}
