package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
	"github.com/mediconnect-dev/telehealth-scheduler/internal/httpresp"
	ucscheduling "github.com/mediconnect-dev/telehealth-scheduler/internal/usecase/scheduling"
)

type SessionHandler struct {
	joinUC *ucscheduling.JoinSession
}

func NewSessionHandler(joinUC *ucscheduling.JoinSession) *SessionHandler {
	return &SessionHandler{joinUC: joinUC}
}

// Join hands back the video URL for the caller's role. The room is
// created on the first join inside the window.
func (h *SessionHandler) Join(c *gin.Context) {
	actor := actorFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	url, err := h.joinUC.Execute(c.Request.Context(), id, actor)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_join", "Could not join the meeting.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"join_url": url})
}

// Regenerate discards the current room and provisions a fresh one.
func (h *SessionHandler) Regenerate(c *gin.Context) {
	actor := actorFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_appointment_id", "Invalid appointment id.")
		return
	}

	ap, err := h.joinUC.Regenerate(c.Request.Context(), id, actor)
	if err != nil {
		httperr.WriteBusiness(c, err, "failed_to_regenerate", "Could not regenerate the meeting room.")
		return
	}

	httpresp.OK(c, ap)
}
