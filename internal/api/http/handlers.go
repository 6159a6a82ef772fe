package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/curvelab/backend/internal/logging"
	"github.com/curvelab/backend/internal/service"
	"github.com/curvelab/backend/internal/shared/id"
	"github.com/curvelab/backend/internal/shared/types"
)

// Version is reported by the root endpoint.
const Version = "0.3.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	registry *service.Registry
	log      *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(registry *service.Registry, log *logging.Logger) *Handlers {
	return &Handlers{registry: registry, log: log}
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Function Analysis Service",
		"version": Version,
	})
}

// Health handles the detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service_registry": h.registry.Stats(),
	})
}

// Analyze runs the full analysis pipeline over a submitted expression
func (h *Handlers) Analyze(c *gin.Context) {
	h.runAnalysisTool(c, "analysis.analyze")
}

// Summarize returns the condensed analysis of a submitted expression
func (h *Handlers) Summarize(c *gin.Context) {
	h.runAnalysisTool(c, "analysis.summary")
}

func (h *Handlers) runAnalysisTool(c *gin.Context, toolID string) {
	var req types.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	params := map[string]interface{}{"expression": req.Expression}
	if len(req.Parameters) > 0 {
		bindings := make(map[string]interface{}, len(req.Parameters))
		for name, v := range req.Parameters {
			bindings[name] = v
		}
		params["parameters"] = bindings
	}

	result, err := h.registry.Execute(c.Request.Context(), toolID, params, requestContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Analysis failures (malformed input, bad bindings) are domain
	// outcomes, not transport errors.
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

// ListServices lists registered services, optionally by category
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if raw := c.Query("category"); raw != "" {
		cat := types.Category(raw)
		category = &cat
	}

	services := h.registry.List(category)
	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"stats":    h.registry.Stats(),
	})
}

// ExecuteService runs an arbitrary registered tool
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params, requestContext(c))
	if err != nil {
		h.log.Warn("service execution rejected",
			zap.String("tool_id", req.ToolID),
			zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func requestContext(c *gin.Context) *types.Context {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = id.NewRequestID().String()
	}
	return &types.Context{RequestID: &requestID}
}
