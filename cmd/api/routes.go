package main

import (
	"dialout-service/internal/httpapi"
	"dialout-service/internal/observability"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic; handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, metrics *observability.Metrics) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/calls", h.CreateCall)
		v1.POST("/calls/batch", h.CreateCallBatch)
		if h.Records != nil {
			v1.GET("/calls/records", h.ListRecords)
		}
		v1.GET("/trunks", h.ListTrunks)
		v1.PATCH("/trunks/:trunk_id", h.UpdateTrunk)
		v1.GET("/diagnostics", h.Diagnostics)
	}
}
