package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/learnify/learnify/internal/db"
	"github.com/learnify/learnify/internal/models"
	"github.com/learnify/learnify/internal/repository/sqlite"
	"github.com/learnify/learnify/internal/services"
	"github.com/learnify/learnify/internal/testutil"
	"github.com/learnify/learnify/internal/worker"
)

type HistoryServiceSuite struct {
	suite.Suite
	db      *db.DB
	queue   *worker.Pool
	history services.HistoryService
}

func (s *HistoryServiceSuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.queue = worker.NewPool(1, 16)
	s.queue.Start(context.Background())
	s.history = services.NewHistoryService(sqlite.NewHistoryRepository(s.db.DB), s.queue)
}

func (s *HistoryServiceSuite) TearDownTest() {
	s.queue.Stop()
	testutil.MustClose(s.T(), s.db)
}

func makeRecord(id, owner, topic string, total, correct int, completedAt int64) models.QuizRecord {
	return models.QuizRecord{
		ID:             id,
		OwnerID:        owner,
		Topic:          topic,
		TotalQuestions: total,
		CorrectAnswers: correct,
		ElapsedMs:      30000,
		SourceKind:     models.SourceYouTube,
		CompletedAt:    completedAt,
		Difficulty:     "Easy",
	}
}

// Reads go through the same single-worker queue as writes, so a listing
// issued right after Upsert returns must observe the new record.
func (s *HistoryServiceSuite) TestUpsertThenListOrdering() {
	ctx := context.Background()

	s.history.Upsert(ctx, makeRecord("quiz_1", "u1", "Volcanoes", 5, 4, 100), nil)

	records, err := s.history.ListAll(ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Assert().Equal("quiz_1", records[0].ID)
}

func (s *HistoryServiceSuite) TestUpsertStoresResultPayload() {
	ctx := context.Background()

	rec := makeRecord("quiz_1", "u1", "Volcanoes", 1, 1, 100)
	result := &models.QuizResult{
		Record:      rec,
		Questions:   []models.QuizQuestion{{Text: "Q1", Answers: []models.QuizAnswer{{Text: "a", Correct: true}}}},
		UserAnswers: map[int]int{0: 0},
	}
	s.history.Upsert(ctx, rec, result)

	got, err := s.history.GetResult(ctx, "quiz_1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Q1", got.Questions[0].Text)
	s.Assert().Equal(map[int]int{0: 0}, got.UserAnswers)
}

func (s *HistoryServiceSuite) TestLastWriteWins() {
	ctx := context.Background()

	s.history.Upsert(ctx, makeRecord("quiz_1", "u1", "First", 5, 1, 100), nil)
	s.history.Upsert(ctx, makeRecord("quiz_1", "u1", "Second", 5, 5, 200), nil)

	records, err := s.history.ListAll(ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Assert().Equal("Second", records[0].Topic)
	s.Assert().Equal(5, records[0].CorrectAnswers)
}

func (s *HistoryServiceSuite) TestListRecent() {
	ctx := context.Background()

	for i, id := range []string{"quiz_1", "quiz_2", "quiz_3", "quiz_4"} {
		s.history.Upsert(ctx, makeRecord(id, "u1", "Topic", 5, 3, int64(100*(i+1))), nil)
	}

	records, err := s.history.ListRecent(ctx, "u1", 3)
	s.Require().NoError(err)
	s.Require().Len(records, 3)
	s.Assert().Equal("quiz_4", records[0].ID)
	s.Assert().Equal("quiz_3", records[1].ID)
	s.Assert().Equal("quiz_2", records[2].ID)
}

func (s *HistoryServiceSuite) TestStatsIdentity() {
	ctx := context.Background()

	s.history.Upsert(ctx, makeRecord("quiz_1", "u1", "A", 10, 7, 100), nil)
	s.history.Upsert(ctx, makeRecord("quiz_2", "u1", "B", 4, 1, 200), nil)

	stats, err := s.history.Stats(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Equal(2, stats.TotalQuizzes)
	s.Assert().Equal(stats.TotalQuestions, stats.TotalCorrect+stats.TotalWrong)
	s.Assert().Equal(8, stats.TotalCorrect)
	s.Assert().Equal(6, stats.TotalWrong)
}

func (s *HistoryServiceSuite) TestDeleteAndClear() {
	ctx := context.Background()

	s.history.Upsert(ctx, makeRecord("quiz_1", "u1", "A", 5, 3, 100), nil)
	s.history.Upsert(ctx, makeRecord("quiz_2", "u1", "B", 5, 3, 200), nil)

	s.Require().NoError(s.history.Delete(ctx, "quiz_1"))
	records, err := s.history.ListAll(ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(records, 1)

	s.Require().NoError(s.history.ClearOwner(ctx, "u1"))
	records, err = s.history.ListAll(ctx, "u1")
	s.Require().NoError(err)
	s.Assert().Empty(records)
}

func TestHistoryServiceSuite(t *testing.T) {
	suite.Run(t, new(HistoryServiceSuite))
}
