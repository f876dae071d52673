package session

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/learnify/learnify/internal/cloud"
	"github.com/learnify/learnify/internal/errors"
	"github.com/learnify/learnify/internal/generator"
	"github.com/learnify/learnify/internal/logger"
	"github.com/learnify/learnify/internal/models"
	"github.com/learnify/learnify/internal/services"
	"github.com/learnify/learnify/internal/worker"
)

// State is the lifecycle phase of a quiz session.
type State string

const (
	StateLoading   State = "LOADING"
	StateActive    State = "ACTIVE"
	StateFinished  State = "FINISHED"
	StateCancelled State = "CANCELLED"
)

const fallbackTopic = "Generated Quiz"

// noAnswer marks a question with no candidate selected yet.
const noAnswer = -1

// Config describes one quiz attempt before generation.
type Config struct {
	OwnerID          string
	SourceKind       models.SourceKind
	SourceDescriptor string
	Text             string
	NumQuestions     int
	Difficulty       string
	Language         string
	// TimeLimit is the total budget for the whole attempt. The session
	// finishes unconditionally when it runs out.
	TimeLimit time.Duration
	// OnTick, if set, is called roughly once per second with the
	// remaining budget while the session is active.
	OnTick func(remaining time.Duration)
}

// Session is the state machine for a single timed quiz attempt. All
// methods are safe for concurrent use; persistence happens exactly once,
// on entry into the finished state.
type Session struct {
	id      string
	cfg     Config
	gen     generator.Generator
	history services.HistoryService
	remote  cloud.Store
	submits *worker.Pool
	log     *logger.Logger
	now     func() time.Time

	mu        sync.Mutex
	state     State
	topic     string
	questions []models.QuizQuestion
	index     int
	answers   []int
	submitted []bool
	correct   int
	wrong     int
	startedAt time.Time
	timer     *time.Timer
	tickStop  chan struct{}
	record    *models.QuizRecord
}

// New creates a session in the loading state. Start must be called
// before any other input.
func New(cfg Config, gen generator.Generator, history services.HistoryService, remote cloud.Store, submits *worker.Pool) *Session {
	id := uuid.NewString()
	return &Session{
		id:      id,
		cfg:     cfg,
		gen:     gen,
		history: history,
		remote:  remote,
		submits: submits,
		log:     logger.Default().WithPrefix("session").WithField("session_id", id),
		now:     time.Now,
		state:   StateLoading,
	}
}

func (s *Session) ID() string {
	return s.id
}

// Start runs the generation request and, on success, moves the session
// to the active state and starts the countdown. A failure leaves the
// session in the loading state; the caller tears it down.
func (s *Session) Start(ctx context.Context) error {
	if strings.TrimSpace(s.cfg.Text) == "" {
		return errors.NewGenerationError("source text is empty", nil)
	}

	resp, err := s.gen.Generate(ctx, generator.Request{
		Text:         s.cfg.Text,
		NumQuestions: s.cfg.NumQuestions,
		Difficulty:   s.cfg.Difficulty,
		Language:     s.cfg.Language,
		Regenerate:   s.cfg.SourceKind == models.SourceRegenerate,
	})
	if err != nil {
		s.log.Error("generation failed: %v", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoading {
		return errors.NewValidationError("session", "already started")
	}

	s.topic = resp.Topic
	if strings.TrimSpace(s.topic) == "" {
		s.topic = fallbackTopic
	}
	s.questions = resp.Questions
	s.answers = make([]int, len(s.questions))
	for i := range s.answers {
		s.answers[i] = noAnswer
	}
	s.submitted = make([]bool, len(s.questions))
	s.startedAt = s.now()
	s.state = StateActive

	s.timer = time.AfterFunc(s.cfg.TimeLimit, s.expire)
	s.tickStop = make(chan struct{})
	go s.tickLoop(s.tickStop)

	s.log.Info("session active: topic=%q, questions=%d, budget=%v", s.topic, len(s.questions), s.cfg.TimeLimit)
	return nil
}

func (s *Session) tickLoop(stop chan struct{}) {
	if s.cfg.OnTick == nil {
		return
	}
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			if s.state != StateActive {
				s.mu.Unlock()
				return
			}
			remaining := s.cfg.TimeLimit - s.now().Sub(s.startedAt)
			s.mu.Unlock()
			if remaining < 0 {
				remaining = 0
			}
			s.cfg.OnTick(remaining)
		}
	}
}

// Select records a candidate answer for the current question. Selecting
// again before submitting replaces the previous candidate; selecting
// after the question was submitted is a no-op.
func (s *Session) Select(answerIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return errors.NewValidationError("session", "not active")
	}
	q := s.questions[s.index]
	if answerIndex < 0 || answerIndex >= len(q.Answers) {
		return errors.NewValidationError("answer", "index out of range")
	}
	if s.submitted[s.index] {
		return nil
	}
	s.answers[s.index] = answerIndex
	return nil
}

// Submit locks in the current question's candidate answer and scores it.
// A question scores at most once; submitting with no candidate is
// rejected without a state change.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return errors.NewValidationError("session", "not active")
	}
	if s.submitted[s.index] {
		return errors.NewValidationError("question", "already submitted")
	}
	candidate := s.answers[s.index]
	if candidate == noAnswer {
		return errors.NewValidationError("answer", "no answer selected")
	}

	s.submitted[s.index] = true
	if s.questions[s.index].Answers[candidate].Correct {
		s.correct++
	} else {
		s.wrong++
	}
	return nil
}

// Advance moves to the next question, or finishes the session when the
// current question was the last. The current question must have been
// submitted first.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return errors.NewValidationError("session", "not active")
	}
	if !s.submitted[s.index] {
		return errors.NewValidationError("question", "not submitted yet")
	}
	if s.index+1 < len(s.questions) {
		s.index++
		return nil
	}

	elapsed := s.now().Sub(s.startedAt)
	if elapsed > s.cfg.TimeLimit {
		elapsed = s.cfg.TimeLimit
	}
	s.finalizeLocked(ctx, elapsed)
	return nil
}

// expire fires when the budget runs out. Elapsed time is pinned to the
// full budget; questions never submitted stay out of the answer map.
func (s *Session) expire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return
	}
	s.log.Info("time budget exhausted, finishing session")
	s.finalizeLocked(context.Background(), s.cfg.TimeLimit)
}

// Exit discards the session before it finishes. Nothing is persisted.
func (s *Session) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateFinished || s.state == StateCancelled {
		return
	}
	s.stopClocksLocked()
	s.state = StateCancelled
	s.log.Info("session cancelled, discarding state")
}

func (s *Session) stopClocksLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.tickStop != nil {
		close(s.tickStop)
		s.tickStop = nil
	}
}

// finalizeLocked commits the attempt. The local write is enqueued before
// returning; the remote submit is dispatched best-effort and its outcome
// never affects the finished state.
func (s *Session) finalizeLocked(ctx context.Context, elapsed time.Duration) {
	s.stopClocksLocked()

	record := models.QuizRecord{
		ID:               "quiz_" + uuid.NewString(),
		OwnerID:          s.cfg.OwnerID,
		Topic:            s.topic,
		TotalQuestions:   len(s.questions),
		CorrectAnswers:   s.correct,
		ElapsedMs:        elapsed.Milliseconds(),
		SourceKind:       s.cfg.SourceKind,
		SourceDescriptor: s.cfg.SourceDescriptor,
		CompletedAt:      s.now().UnixMilli(),
		Difficulty:       s.cfg.Difficulty,
	}

	userAnswers := make(map[int]int)
	for i, done := range s.submitted {
		if done {
			userAnswers[i] = s.answers[i]
		}
	}
	result := &models.QuizResult{
		Record:      record,
		Questions:   s.questions,
		UserAnswers: userAnswers,
	}

	s.record = &record
	s.state = StateFinished
	s.log.Info("session finished: record=%s, correct=%d/%d, elapsed=%v", record.ID, s.correct, len(s.questions), elapsed)

	s.history.Upsert(logger.NewContext(ctx, s.log), record, result)

	if s.remote == nil || s.submits == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		s.log.Error("failed to encode result for remote submit: %v", err)
		return
	}
	s.submits.Submit(worker.Func("remote.submit("+record.ID+")", func(jobCtx context.Context) error {
		submitCtx, cancel := context.WithTimeout(jobCtx, 30*time.Second)
		defer cancel()
		return s.remote.Submit(submitCtx, record, string(payload))
	}))
}

// Snapshot is a point-in-time view of the session for callers that
// render it.
type Snapshot struct {
	ID             string               `json:"id"`
	State          State                `json:"state"`
	Topic          string               `json:"topic"`
	QuestionIndex  int                  `json:"question_index"`
	TotalQuestions int                  `json:"total_questions"`
	Question       *models.QuizQuestion `json:"question,omitempty"`
	Selected       int                  `json:"selected"`
	Submitted      bool                 `json:"submitted"`
	Correct        int                  `json:"correct"`
	Wrong          int                  `json:"wrong"`
	RemainingMs    int64                `json:"remaining_ms"`
	RecordID       string               `json:"record_id,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:             s.id,
		State:          s.state,
		Topic:          s.topic,
		QuestionIndex:  s.index,
		TotalQuestions: len(s.questions),
		Selected:       noAnswer,
		Correct:        s.correct,
		Wrong:          s.wrong,
	}
	if s.state == StateActive {
		snap.Selected = s.answers[s.index]
		snap.Submitted = s.submitted[s.index]
		q := s.questions[s.index]
		snap.Question = &q
		remaining := s.cfg.TimeLimit - s.now().Sub(s.startedAt)
		if remaining < 0 {
			remaining = 0
		}
		snap.RemainingMs = remaining.Milliseconds()
	}
	if s.record != nil {
		snap.RecordID = s.record.ID
	}
	return snap
}

// Record returns the committed record, or nil before the session
// finishes.
func (s *Session) Record() *models.QuizRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
