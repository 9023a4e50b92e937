package attendance

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// GET /attendance?eventId=&date=&limit=
	r.GET("/attendance", h.List)
}

func (h *Handler) List(c *gin.Context) {
	q := ListQuery{
		EventID: c.Query("eventId"),
		Date:    c.Query("date"),
	}
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			q.Limit = n
		}
	}

	records, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(ToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}
	if records == nil {
		records = []Record{}
	}
	c.JSON(http.StatusOK, ListResponse{Records: records, Count: len(records)})
}
