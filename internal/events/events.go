// Package events serves the static event catalog scanner clients use to tag
// scans with an eventId. The catalog comes from configuration, not the store.
package events

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"passgate-backend/internal/platform/config"
)

type Service struct {
	events []config.Event
}

func NewService(events []config.Event) *Service {
	return &Service{events: events}
}

func (s *Service) List() []config.Event {
	return s.events
}

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}
	r.GET("/events", h.List)
}

func (h *Handler) List(c *gin.Context) {
	evts := h.svc.List()
	if evts == nil {
		evts = []config.Event{}
	}
	c.JSON(http.StatusOK, gin.H{"events": evts})
}
