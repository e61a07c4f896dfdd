package chase

import (
	"context"

	"github.com/meda/backend/internal/domain/chase"
)

// DefaultCommunicationLimit caps the dashboard communication feed
const DefaultCommunicationLimit = 50

// CommunicationService serves the read-only communication feed
type CommunicationService struct {
	communications chase.CommunicationRepository
}

// NewCommunicationService creates a new CommunicationService
func NewCommunicationService(communications chase.CommunicationRepository) *CommunicationService {
	return &CommunicationService{communications: communications}
}

// Recent returns the latest communications across all exceptions, newest
// first, with the owning exception and loan attached.
func (s *CommunicationService) Recent(ctx context.Context, limit int) ([]CommunicationResponse, error) {
	if limit <= 0 || limit > DefaultCommunicationLimit {
		limit = DefaultCommunicationLimit
	}

	comms, err := s.communications.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]CommunicationResponse, 0, len(comms))
	for i := range comms {
		responses = append(responses, ToCommunicationResponse(&comms[i]))
	}
	return responses, nil
}
