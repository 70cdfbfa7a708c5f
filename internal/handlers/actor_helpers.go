package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/mediconnect-dev/telehealth-scheduler/internal/domain/scheduling"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/middleware"
)

func actorFromContext(c *gin.Context) domain.Actor {
	return domain.Actor{
		UserID:          c.MustGet(middleware.ContextUserID).(uint),
		DoctorProfileID: c.MustGet(middleware.ContextDoctorID).(uint),
		UserType:        c.GetString(middleware.ContextUserType),
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseDateQuery(c *gin.Context, name string, loc *time.Location) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return nil, false
	}
	return &t, true
}
