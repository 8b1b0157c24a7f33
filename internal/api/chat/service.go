package chat

import (
	"context"

	"github.com/google/uuid"

	"github.com/motoria/dealer-agent/internal/agent"
)

// Service adapts the pipeline to the HTTP contract.
type Service struct {
	pipeline *agent.Pipeline
}

func NewService(pipeline *agent.Pipeline) *Service {
	return &Service{pipeline: pipeline}
}

func (s *Service) ProcessMessage(ctx context.Context, req *Request) (*Response, error) {
	result, err := s.pipeline.Process(ctx, req.UserID, req.Message)
	if err != nil {
		return nil, err
	}

	msgID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	return &Response{
		MessageID:     msgID.String(),
		Response:      result.Text,
		Intent:        result.Intent,
		Cars:          result.Cars,
		FinancingPlan: result.FinancingPlan,
		Success:       true,
	}, nil
}
