package types

// AnalyzeRequest represents a function analysis request
type AnalyzeRequest struct {
	Expression string             `json:"expression" binding:"required"`
	Parameters map[string]float64 `json:"parameters"`
}

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params" binding:"required"`
}
