package petstoreserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OperationalAPI serves liveness and metrics endpoints.
type OperationalAPI struct {
	metrics http.Handler
}

// NewOperationalAPI creates an OperationalAPI. A nil metrics handler leaves
// /metrics unrouted.
func NewOperationalAPI(metrics http.Handler) OperationalAPI {
	return OperationalAPI{metrics: metrics}
}

// Get /healthz
func (api *OperationalAPI) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (api *OperationalAPI) metricsHandler() gin.HandlerFunc {
	if api.metrics == nil {
		return nil
	}
	return gin.WrapH(api.metrics)
}
