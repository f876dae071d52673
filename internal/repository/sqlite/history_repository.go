package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/learnify/learnify/internal/logger"
	"github.com/learnify/learnify/internal/models"
	"github.com/learnify/learnify/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// DefaultDifficulty is assumed for rows written before the difficulty
// column existed.
const DefaultDifficulty = "Medium"

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository implementation
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Upsert(ctx context.Context, rec models.QuizRecord, resultPayload string) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("upserting record: id=%s, owner=%s", rec.ID, rec.OwnerID)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO quiz_history (identifier, ownerId, topic, sourceKind, sourceDescriptor,
                          totalQuestions, correctAnswers, accuracy, elapsedMs,
                          completedAt, difficulty, resultPayload)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(identifier) DO UPDATE SET
    ownerId = excluded.ownerId,
    topic = excluded.topic,
    sourceKind = excluded.sourceKind,
    sourceDescriptor = excluded.sourceDescriptor,
    totalQuestions = excluded.totalQuestions,
    correctAnswers = excluded.correctAnswers,
    accuracy = excluded.accuracy,
    elapsedMs = excluded.elapsedMs,
    completedAt = excluded.completedAt,
    difficulty = excluded.difficulty,
    resultPayload = excluded.resultPayload
`, rec.ID, rec.OwnerID, rec.Topic, string(rec.SourceKind), rec.SourceDescriptor,
		rec.TotalQuestions, rec.CorrectAnswers, rec.Accuracy(), rec.ElapsedMs,
		rec.CompletedAt, rec.Difficulty, resultPayload)
	if err != nil {
		log.Error("failed to upsert record: %v", err)
	}
	return err
}

func (r *historyRepository) List(ctx context.Context, filter models.HistoryFilter) ([]models.QuizRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("listing records: owner=%s, topic=%q, sort=%s, limit=%d",
		filter.OwnerID, filter.Topic, filter.Sort, filter.Limit)

	query := sqlBuilder.Select(
		"identifier", "ownerId", "topic", "sourceKind", "sourceDescriptor",
		"totalQuestions", "correctAnswers", "elapsedMs", "completedAt", "difficulty",
	).From("quiz_history")

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"ownerId": filter.OwnerID})
	}
	if filter.Topic != "" {
		query = query.Where(squirrel.Like{"lower(topic)": "%" + strings.ToLower(filter.Topic) + "%"})
	}

	switch filter.Sort {
	case models.SortOldest:
		query = query.OrderBy("completedAt ASC")
	case models.SortAlphabetical:
		query = query.OrderBy("topic COLLATE NOCASE ASC")
	case models.SortAccuracyLow:
		query = query.OrderBy("accuracy ASC")
	case models.SortAccuracyHigh:
		query = query.OrderBy("accuracy DESC")
	default:
		query = query.OrderBy("completedAt DESC")
	}

	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list records: %v", err)
		return nil, err
	}
	defer rows.Close()

	var records []models.QuizRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			log.Error("failed to scan record row: %v", err)
			return nil, err
		}
		records = append(records, rec)
	}
	log.Debug("found %d records", len(records))
	return records, rows.Err()
}

func (r *historyRepository) Get(ctx context.Context, id string) (*models.QuizRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("getting record: id=%s", id)

	row := r.db.QueryRowContext(ctx, `
SELECT identifier, ownerId, topic, sourceKind, sourceDescriptor,
       totalQuestions, correctAnswers, elapsedMs, completedAt, difficulty
FROM quiz_history
WHERE identifier = ?
`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("record not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get record: %v", err)
		return nil, err
	}
	return &rec, nil
}

func (r *historyRepository) GetResult(ctx context.Context, id string) (*models.QuizResult, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("getting result payload: id=%s", id)

	var payload string
	err := r.db.QueryRowContext(ctx, `
SELECT resultPayload FROM quiz_history WHERE identifier = ?
`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("result not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get result payload: %v", err)
		return nil, err
	}
	if payload == "" {
		return nil, nil
	}

	var result models.QuizResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		// A corrupt payload is treated as absent rather than surfaced.
		log.Error("failed to decode result payload: id=%s, err=%v", id, err)
		return nil, nil
	}
	return &result, nil
}

func (r *historyRepository) Stats(ctx context.Context, ownerID string) (*models.HistoryStats, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("computing stats: owner=%s", ownerID)

	// A single aggregate statement keeps all five values on one snapshot.
	var stats models.HistoryStats
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(totalQuestions), 0),
       COALESCE(SUM(correctAnswers), 0),
       COALESCE(AVG(accuracy), 0)
FROM quiz_history
WHERE ownerId = ?
`, ownerID).Scan(&stats.TotalQuizzes, &stats.TotalQuestions, &stats.TotalCorrect, &stats.AverageAccuracy)
	if err != nil {
		log.Error("failed to compute stats: %v", err)
		return nil, err
	}
	stats.TotalWrong = stats.TotalQuestions - stats.TotalCorrect
	return &stats, nil
}

func (r *historyRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("deleting record: id=%s", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM quiz_history WHERE identifier = ?`, id)
	if err != nil {
		log.Error("failed to delete record: %v", err)
	}
	return err
}

func (r *historyRepository) ClearOwner(ctx context.Context, ownerID string) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("clearing all records: owner=%s", ownerID)

	return tx(ctx, r.db, func(t *sql.Tx) error {
		res, err := t.ExecContext(ctx, `DELETE FROM quiz_history WHERE ownerId = ?`, ownerID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil {
			log.Info("cleared %d records for owner %s", n, ownerID)
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.QuizRecord, error) {
	var rec models.QuizRecord
	var kind string
	var difficulty sql.NullString
	err := row.Scan(&rec.ID, &rec.OwnerID, &rec.Topic, &kind, &rec.SourceDescriptor,
		&rec.TotalQuestions, &rec.CorrectAnswers, &rec.ElapsedMs, &rec.CompletedAt, &difficulty)
	if err != nil {
		return rec, err
	}
	rec.SourceKind = models.SourceKind(kind)
	if difficulty.Valid && difficulty.String != "" {
		rec.Difficulty = difficulty.String
	} else {
		rec.Difficulty = DefaultDifficulty
	}
	return rec, nil
}
