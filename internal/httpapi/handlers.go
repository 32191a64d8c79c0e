package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dialout-service/internal/calllog"
	"dialout-service/internal/dialer"
	"dialout-service/internal/trunk"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Dialer *dialer.Service
	Trunks *trunk.Service

	// Records is optional; the records route is only registered when a
	// call log store is configured.
	Records *calllog.Service

	// CallTimeout bounds one call attempt. Batch attempts run concurrently,
	// so a single window covers the whole batch.
	CallTimeout time.Duration
}

const maxBatchSize = 100

func (h Handlers) callTimeout() time.Duration {
	if h.CallTimeout <= 0 {
		return 30 * time.Second
	}
	return h.CallTimeout
}

// --- Calls ---

// CreateCall handles POST /v1/calls.
func (h Handlers) CreateCall(c *gin.Context) {
	var req dialer.CallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.callTimeout())
	defer cancel()

	res, err := h.Dialer.CreateCall(ctx, req)
	if err != nil {
		writeCallError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

type batchRequest struct {
	PhoneNumbers []string `json:"phone_numbers"`
}

// CreateCallBatch handles POST /v1/calls/batch. Every number gets its own
// independent attempt; the response preserves input order.
func (h Handlers) CreateCallBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(req.PhoneNumbers) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "phone_numbers required"})
		return
	}
	if len(req.PhoneNumbers) > maxBatchSize {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "batch too large, max " + strconv.Itoa(maxBatchSize) + " numbers",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.callTimeout())
	defer cancel()

	entries := h.Dialer.CreateCalls(ctx, req.PhoneNumbers)
	c.JSON(http.StatusOK, gin.H{"calls": entries})
}

// ListRecords handles GET /v1/calls/records.
func (h Handlers) ListRecords(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	recs, err := h.Records.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "record lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": recs})
}

func writeCallError(c *gin.Context, err error) {
	var cerr *dialer.CallError
	if !errors.As(err, &cerr) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// Bad input is the caller's fault; a broken room or dial is upstream's.
	status := http.StatusBadGateway
	if cerr.Stage == dialer.StageValidation {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, cerr)
}

// --- Trunks ---

// ListTrunks handles GET /v1/trunks.
func (h Handlers) ListTrunks(c *gin.Context) {
	trunks, err := h.Trunks.List(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": trunks})
}

// UpdateTrunk handles PATCH /v1/trunks/:trunk_id.
func (h Handlers) UpdateTrunk(c *gin.Context) {
	trunkID := c.Param("trunk_id")
	var req trunk.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updated, err := h.Trunks.Update(c.Request.Context(), trunkID, req)
	if err != nil {
		if errors.Is(err, trunk.ErrTrunkNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// --- Diagnostics ---

// Diagnostics handles GET /v1/diagnostics. The report itself is the
// payload; an unhealthy system still answers 200 with its findings.
func (h Handlers) Diagnostics(c *gin.Context) {
	c.JSON(http.StatusOK, h.Trunks.Diagnose(c.Request.Context()))
}
