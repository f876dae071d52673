package session_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/learnify/learnify/internal/errors"
	"github.com/learnify/learnify/internal/generator"
	"github.com/learnify/learnify/internal/models"
	"github.com/learnify/learnify/internal/session"
	"github.com/learnify/learnify/internal/testutil/mocks"
	"github.com/learnify/learnify/internal/worker"
)

func questions(n int) []models.QuizQuestion {
	out := make([]models.QuizQuestion, n)
	for i := range out {
		out[i] = models.QuizQuestion{
			Text: fmt.Sprintf("Question %d", i+1),
			Answers: []models.QuizAnswer{
				{Text: "right", Correct: true},
				{Text: "wrong a"},
				{Text: "wrong b"},
				{Text: "wrong c"},
			},
		}
	}
	return out
}

func newTestSession(t *testing.T, cfg session.Config, resp *generator.QuizResponse) (*session.Session, *mocks.MockHistoryService) {
	t.Helper()

	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).Return(resp, nil)

	history := new(mocks.MockHistoryService)
	history.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()

	return session.New(cfg, gen, history, nil, nil), history
}

func baseConfig() session.Config {
	return session.Config{
		OwnerID:          "u1",
		SourceKind:       models.SourceDocument,
		SourceDescriptor: "notes.pdf",
		Text:             "mitochondria are the powerhouse of the cell",
		NumQuestions:     2,
		Difficulty:       "Medium",
		Language:         "English",
		TimeLimit:        time.Minute,
	}
}

func TestStart_EmptyTextRejected(t *testing.T) {
	cfg := baseConfig()
	cfg.Text = "   "
	sess, _ := newTestSession(t, cfg, &generator.QuizResponse{Topic: "X", Questions: questions(2)})

	err := sess.Start(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGeneration))
	assert.Equal(t, session.StateLoading, sess.State())
}

func TestStart_GeneratorFailure(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewGenerationError("empty response", nil))
	history := new(mocks.MockHistoryService)

	sess := session.New(baseConfig(), gen, history, nil, nil)
	err := sess.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, session.StateLoading, sess.State())
	history.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestStart_TopicFallback(t *testing.T) {
	sess, _ := newTestSession(t, baseConfig(), &generator.QuizResponse{Topic: "", Questions: questions(2)})
	require.NoError(t, sess.Start(context.Background()))
	assert.Equal(t, "Generated Quiz", sess.Snapshot().Topic)
	sess.Exit()
}

func TestSubmit_RequiresCandidate(t *testing.T) {
	sess, _ := newTestSession(t, baseConfig(), &generator.QuizResponse{Topic: "Cells", Questions: questions(2)})
	require.NoError(t, sess.Start(context.Background()))
	defer sess.Exit()

	err := sess.Submit()
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))

	snap := sess.Snapshot()
	assert.Equal(t, 0, snap.Correct)
	assert.Equal(t, 0, snap.Wrong)
	assert.False(t, snap.Submitted)
}

func TestSelect_LastSelectionWins(t *testing.T) {
	sess, _ := newTestSession(t, baseConfig(), &generator.QuizResponse{Topic: "Cells", Questions: questions(2)})
	require.NoError(t, sess.Start(context.Background()))
	defer sess.Exit()

	require.NoError(t, sess.Select(1))
	require.NoError(t, sess.Select(0))
	assert.Equal(t, 0, sess.Snapshot().Selected)

	require.NoError(t, sess.Submit())
	assert.Equal(t, 1, sess.Snapshot().Correct)

	// After submission further selections are ignored.
	require.NoError(t, sess.Select(2))
	assert.Equal(t, 0, sess.Snapshot().Selected)
}

func TestSelect_OutOfRange(t *testing.T) {
	sess, _ := newTestSession(t, baseConfig(), &generator.QuizResponse{Topic: "Cells", Questions: questions(2)})
	require.NoError(t, sess.Start(context.Background()))
	defer sess.Exit()

	require.Error(t, sess.Select(-1))
	require.Error(t, sess.Select(4))
}

func TestSubmit_ScoresOnlyOnce(t *testing.T) {
	sess, _ := newTestSession(t, baseConfig(), &generator.QuizResponse{Topic: "Cells", Questions: questions(2)})
	require.NoError(t, sess.Start(context.Background()))
	defer sess.Exit()

	require.NoError(t, sess.Select(0))
	require.NoError(t, sess.Submit())
	require.Error(t, sess.Submit())

	snap := sess.Snapshot()
	assert.Equal(t, 1, snap.Correct)
	assert.Equal(t, 0, snap.Wrong)
}

func TestAdvance_RequiresSubmission(t *testing.T) {
	sess, _ := newTestSession(t, baseConfig(), &generator.QuizResponse{Topic: "Cells", Questions: questions(2)})
	require.NoError(t, sess.Start(context.Background()))
	defer sess.Exit()

	require.NoError(t, sess.Select(0))
	err := sess.Advance(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidation))
}

func TestFullRun_FinalizesOnce(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(&generator.QuizResponse{Topic: "Cells", Questions: questions(2)}, nil)

	var committed models.QuizRecord
	var committedResult *models.QuizResult
	history := new(mocks.MockHistoryService)
	history.On("Upsert", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			committed = args.Get(1).(models.QuizRecord)
			committedResult = args.Get(2).(*models.QuizResult)
		}).Return().Once()

	remote := new(mocks.MockCloudStore)
	remote.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	submits := worker.NewPool(1, 4)
	submits.Start(context.Background())

	sess := session.New(baseConfig(), gen, history, remote, submits)
	require.NoError(t, sess.Start(context.Background()))

	require.NoError(t, sess.Select(0))
	require.NoError(t, sess.Submit())
	require.NoError(t, sess.Advance(context.Background()))

	require.NoError(t, sess.Select(1))
	require.NoError(t, sess.Submit())
	require.NoError(t, sess.Advance(context.Background()))

	assert.Equal(t, session.StateFinished, sess.State())

	// Local commit happens before Advance returns.
	history.AssertExpectations(t)
	require.NotNil(t, committedResult)

	assert.Contains(t, committed.ID, "quiz_")
	assert.Equal(t, "u1", committed.OwnerID)
	assert.Equal(t, "Cells", committed.Topic)
	assert.Equal(t, 2, committed.TotalQuestions)
	assert.Equal(t, 1, committed.CorrectAnswers)
	assert.Equal(t, models.SourceDocument, committed.SourceKind)
	assert.Equal(t, "notes.pdf", committed.SourceDescriptor)
	assert.InDelta(t, 50.0, committed.Accuracy(), 0.001)
	assert.Equal(t, map[int]int{0: 0, 1: 1}, committedResult.UserAnswers)

	// Draining the pool forces the best-effort remote submit to run.
	submits.Stop()
	remote.AssertExpectations(t)

	// No input is accepted after the session finished.
	require.Error(t, sess.Select(0))
	require.Error(t, sess.Submit())
	require.Error(t, sess.Advance(context.Background()))
}

func TestTimerExpiry_TruncatesAnswers(t *testing.T) {
	cfg := session.Config{
		OwnerID:          "u1",
		SourceKind:       models.SourceYouTube,
		SourceDescriptor: "dQw4w9WgXcQ",
		Text:             "video transcript",
		NumQuestions:     5,
		Difficulty:       "Easy",
		Language:         "English",
		TimeLimit:        150 * time.Millisecond,
	}

	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(&generator.QuizResponse{Topic: "Video", Questions: questions(5)}, nil)

	done := make(chan struct{})
	var committed models.QuizRecord
	var committedResult *models.QuizResult
	history := new(mocks.MockHistoryService)
	history.On("Upsert", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			committed = args.Get(1).(models.QuizRecord)
			committedResult = args.Get(2).(*models.QuizResult)
			close(done)
		}).Return().Once()

	sess := session.New(cfg, gen, history, nil, nil)
	require.NoError(t, sess.Start(context.Background()))

	// Submit three questions (two correct, one wrong), then let the
	// timer run out.
	require.NoError(t, sess.Select(0))
	require.NoError(t, sess.Submit())
	require.NoError(t, sess.Advance(context.Background()))

	require.NoError(t, sess.Select(0))
	require.NoError(t, sess.Submit())
	require.NoError(t, sess.Advance(context.Background()))

	require.NoError(t, sess.Select(2))
	require.NoError(t, sess.Submit())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never finalized the session")
	}

	assert.Equal(t, session.StateFinished, sess.State())
	assert.Equal(t, 5, committed.TotalQuestions)
	assert.Equal(t, 2, committed.CorrectAnswers)
	assert.InDelta(t, 40.0, committed.Accuracy(), 0.001)
	assert.Equal(t, "Easy", committed.Difficulty)
	assert.Equal(t, cfg.TimeLimit.Milliseconds(), committed.ElapsedMs)

	require.NotNil(t, committedResult)
	assert.Equal(t, map[int]int{0: 0, 1: 0, 2: 2}, committedResult.UserAnswers)
}

func TestExit_PersistsNothing(t *testing.T) {
	gen := new(mocks.MockGenerator)
	gen.On("Generate", mock.Anything, mock.Anything).
		Return(&generator.QuizResponse{Topic: "Cells", Questions: questions(2)}, nil)
	history := new(mocks.MockHistoryService)

	sess := session.New(baseConfig(), gen, history, nil, nil)
	require.NoError(t, sess.Start(context.Background()))

	require.NoError(t, sess.Select(0))
	require.NoError(t, sess.Submit())
	sess.Exit()

	assert.Equal(t, session.StateCancelled, sess.State())
	assert.Nil(t, sess.Record())
	history.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)

	// The cancelled timer must not finalize later.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, session.StateCancelled, sess.State())
}
