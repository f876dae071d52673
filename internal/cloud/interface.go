package cloud

import (
	"context"

	"github.com/learnify/learnify/internal/models"
)

// Store defines the interface for the remote quiz-history document store.
// It is a data source/sink only: the core never queries it for business
// logic, never retries a failed call, and treats every listing as a
// snapshot at call time.
type Store interface {
	// FetchAll lists every record for the owner, ordered by completion
	// time descending and de-duplicated by identifier.
	FetchAll(ctx context.Context, ownerID string) ([]models.CloudQuiz, error)
	// Submit uploads one record with its opaque result payload.
	Submit(ctx context.Context, record models.QuizRecord, payload string) error
}

// Ensure Client implements the interface
var _ Store = (*Client)(nil)
