package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/learnify/learnify/internal/errors"
	"github.com/learnify/learnify/internal/logger"
	"github.com/learnify/learnify/internal/models"
	"github.com/learnify/learnify/internal/repository"
	"github.com/learnify/learnify/internal/worker"
)

// HistoryService is the Local Store facade. Every operation, read or
// write, runs on one single-worker queue, so writes are applied in
// invocation order and no read ever observes a half-applied batch.
type HistoryService interface {
	// Upsert durably stores a completed attempt. It returns once the
	// write is enqueued; storage failures are logged, never surfaced.
	Upsert(ctx context.Context, record models.QuizRecord, result *models.QuizResult)
	// UpsertRaw stores a record with an already-serialized result
	// payload, as fetched from the remote store.
	UpsertRaw(ctx context.Context, record models.QuizRecord, payload string)
	ListAll(ctx context.Context, ownerID string) ([]models.QuizRecord, error)
	ListRecent(ctx context.Context, ownerID string, limit int) ([]models.QuizRecord, error)
	Search(ctx context.Context, filter models.HistoryFilter) ([]models.QuizRecord, error)
	GetResult(ctx context.Context, id string) (*models.QuizResult, error)
	Stats(ctx context.Context, ownerID string) (*models.HistoryStats, error)
	Delete(ctx context.Context, id string) error
	ClearOwner(ctx context.Context, ownerID string) error
}

type historyService struct {
	repo  repository.HistoryRepository
	queue *worker.Pool // must be a single-worker pool
}

// NewHistoryService creates a new HistoryService. The queue pool must run
// exactly one worker; it is the store's serialization point.
func NewHistoryService(repo repository.HistoryRepository, queue *worker.Pool) HistoryService {
	return &historyService{repo: repo, queue: queue}
}

func (s *historyService) Upsert(ctx context.Context, record models.QuizRecord, result *models.QuizResult) {
	log := logger.FromContext(ctx)

	payload := ""
	if result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			log.Error("failed to encode result payload: id=%s, err=%v", record.ID, err)
		} else {
			payload = string(data)
		}
	}
	s.UpsertRaw(ctx, record, payload)
}

func (s *historyService) UpsertRaw(ctx context.Context, record models.QuizRecord, payload string) {
	log := logger.FromContext(ctx)
	log.Debug("enqueueing upsert: id=%s, owner=%s", record.ID, record.OwnerID)

	s.queue.Submit(worker.Func(fmt.Sprintf("history.upsert(%s)", record.ID), func(jobCtx context.Context) error {
		return s.repo.Upsert(jobCtx, record, payload)
	}))
}

func (s *historyService) ListAll(ctx context.Context, ownerID string) ([]models.QuizRecord, error) {
	return s.Search(ctx, models.HistoryFilter{OwnerID: ownerID})
}

func (s *historyService) ListRecent(ctx context.Context, ownerID string, limit int) ([]models.QuizRecord, error) {
	return s.Search(ctx, models.HistoryFilter{OwnerID: ownerID, Limit: limit})
}

func (s *historyService) Search(ctx context.Context, filter models.HistoryFilter) ([]models.QuizRecord, error) {
	var records []models.QuizRecord
	err := s.queue.Do(ctx, worker.Func("history.list", func(jobCtx context.Context) error {
		var err error
		records, err = s.repo.List(jobCtx, filter)
		return err
	}))
	if err != nil {
		return nil, errors.NewStorageError("list", err)
	}
	return records, nil
}

func (s *historyService) GetResult(ctx context.Context, id string) (*models.QuizResult, error) {
	var result *models.QuizResult
	err := s.queue.Do(ctx, worker.Func("history.result", func(jobCtx context.Context) error {
		var err error
		result, err = s.repo.GetResult(jobCtx, id)
		return err
	}))
	if err != nil {
		return nil, errors.NewStorageError("result", err)
	}
	return result, nil
}

func (s *historyService) Stats(ctx context.Context, ownerID string) (*models.HistoryStats, error) {
	var stats *models.HistoryStats
	err := s.queue.Do(ctx, worker.Func("history.stats", func(jobCtx context.Context) error {
		var err error
		stats, err = s.repo.Stats(jobCtx, ownerID)
		return err
	}))
	if err != nil {
		return nil, errors.NewStorageError("stats", err)
	}
	return stats, nil
}

func (s *historyService) Delete(ctx context.Context, id string) error {
	err := s.queue.Do(ctx, worker.Func(fmt.Sprintf("history.delete(%s)", id), func(jobCtx context.Context) error {
		return s.repo.Delete(jobCtx, id)
	}))
	if err != nil {
		return errors.NewStorageError("delete", err)
	}
	return nil
}

func (s *historyService) ClearOwner(ctx context.Context, ownerID string) error {
	err := s.queue.Do(ctx, worker.Func("history.clear", func(jobCtx context.Context) error {
		return s.repo.ClearOwner(jobCtx, ownerID)
	}))
	if err != nil {
		return errors.NewStorageError("clear", err)
	}
	return nil
}
