package repository

import (
	"context"

	"github.com/learnify/learnify/internal/models"
)

// HistoryRepository handles quiz history data access. Callers outside the
// history facade's work queue never touch it directly.
type HistoryRepository interface {
	// Upsert inserts the record or replaces an existing row with the same
	// identifier, regardless of owner.
	Upsert(ctx context.Context, record models.QuizRecord, resultPayload string) error
	// List returns records matching the filter, newest-first unless the
	// filter says otherwise.
	List(ctx context.Context, filter models.HistoryFilter) ([]models.QuizRecord, error)
	// Get returns one record by identifier, nil when absent.
	Get(ctx context.Context, id string) (*models.QuizRecord, error)
	// GetResult returns the deserialized review payload for one record.
	// Missing rows and corrupt payloads both yield (nil, nil).
	GetResult(ctx context.Context, id string) (*models.QuizResult, error)
	// Stats aggregates one owner's history from a single table snapshot.
	Stats(ctx context.Context, ownerID string) (*models.HistoryStats, error)
	// Delete removes one record; removing an absent identifier is a no-op.
	Delete(ctx context.Context, id string) error
	// ClearOwner removes every record belonging to the owner.
	ClearOwner(ctx context.Context, ownerID string) error
}
