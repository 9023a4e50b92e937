package scan

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	// POST /scan — classify, never mutate
	r.POST("/scan", h.Scan)
	// POST /scan/confirm — commit a valid decision
	r.POST("/scan/confirm", h.Confirm)
	// POST /sync — replay an offline scan
	r.POST("/sync", h.Sync)
}

// ---------- handlers ----------

func (h *Handler) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Invalid("Missing Pass ID"))
		return
	}

	res, err := h.svc.Verify(c.Request.Context(), req)
	if err != nil {
		h.writeScanError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ConfirmResult{Success: false, Error: "invalid json or missing passId"})
		return
	}

	if err := h.svc.Confirm(c.Request.Context(), req); err != nil {
		status := ToHTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("[ERROR] confirm: %v", err)
			c.JSON(status, ConfirmResult{Success: false, Error: "Failed to record check-in"})
			return
		}
		c.JSON(status, ConfirmResult{Success: false, Error: publicMessage(err, "Failed to record check-in")})
		return
	}
	c.JSON(http.StatusOK, ConfirmResult{Success: true})
}

func (h *Handler) Sync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, SyncResult{Success: false, Status: StatusInvalid, Error: "invalid json or missing passId"})
		return
	}

	res, err := h.svc.Sync(c.Request.Context(), req)
	if err != nil {
		status := ToHTTPStatus(err)
		if status == http.StatusInternalServerError {
			log.Printf("[ERROR] sync: %v", err)
			c.JSON(status, SyncResult{Success: false, Status: StatusInvalid, Error: "Server error"})
			return
		}
		c.JSON(status, SyncResult{Success: false, Status: StatusInvalid, Error: publicMessage(err, "Server error")})
		return
	}
	c.JSON(http.StatusOK, res)
}

// writeScanError translates service errors for /scan: business outcomes keep
// HTTP 200 elsewhere, so everything here is a transport-level failure.
func (h *Handler) writeScanError(c *gin.Context, err error) {
	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case ErrCodeInvalidArgument:
			c.JSON(http.StatusBadRequest, Invalid(de.Message))
			return
		case ErrCodeStoreUnavailable:
			c.JSON(http.StatusServiceUnavailable, Invalid("Database unavailable"))
			return
		}
	}
	log.Printf("[ERROR] scan: %v", err)
	c.JSON(http.StatusInternalServerError, Invalid("Server error"))
}

// publicMessage keeps 503/400 responses informative without leaking internal
// error detail on unexpected faults.
func publicMessage(err error, fallback string) string {
	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case ErrCodeStoreUnavailable:
			return "Database unavailable"
		case ErrCodeInvalidArgument:
			return de.Message
		}
	}
	return fallback
}
