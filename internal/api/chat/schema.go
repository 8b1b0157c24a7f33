package chat

import "github.com/motoria/dealer-agent/internal/types"

// Request defines the input contract for the /chat endpoint.
type Request struct {
	UserID  string `json:"user_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Response carries the pipeline's packaged output.
type Response struct {
	RequestID     string                `json:"request_id,omitempty"`
	MessageID     string                `json:"message_id"`
	Response      string                `json:"response"`
	Intent        types.Intent          `json:"intent"`
	Cars          []types.VehicleRecord `json:"cars,omitempty"`
	FinancingPlan *types.FinancingPlan  `json:"financing_plan,omitempty"`
	Success       bool                  `json:"success"`
}
