package models

import (
	"fmt"
	"time"
)

// SourceKind identifies where the text behind a quiz came from.
type SourceKind string

const (
	SourceDocument   SourceKind = "DOCUMENT"
	SourceYouTube    SourceKind = "YOUTUBE"
	SourceRegenerate SourceKind = "REGENERATE"
)

// QuizRecord is the summary of one completed quiz attempt. Records are
// immutable once created; a record with the same ID replaces the old one
// on upsert.
type QuizRecord struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"owner_id"`
	Topic            string     `json:"topic"`
	TotalQuestions   int        `json:"total_questions"`
	CorrectAnswers   int        `json:"correct_answers"`
	ElapsedMs        int64      `json:"elapsed_ms"`
	SourceKind       SourceKind `json:"source_kind"`
	SourceDescriptor string     `json:"source_descriptor"`
	CompletedAt      int64      `json:"completed_at"` // epoch millis
	Difficulty       string     `json:"difficulty"`
}

// Accuracy returns the percentage of correct answers, 0 when the quiz
// had no questions.
func (r QuizRecord) Accuracy() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(r.TotalQuestions) * 100
}

// ElapsedFormatted renders the elapsed time as "3m 42s" or "3m".
func (r QuizRecord) ElapsedFormatted() string {
	d := time.Duration(r.ElapsedMs) * time.Millisecond
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	if seconds > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%dm", minutes)
}

// QuizAnswer is one of the four options shown for a question.
type QuizAnswer struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// QuizQuestion is a single multiple-choice question. Exactly one of its
// answers carries the correct flag; that is guaranteed by the generation
// collaborator, not enforced here.
type QuizQuestion struct {
	Text        string       `json:"text"`
	Explanation string       `json:"explanation"`
	Answers     []QuizAnswer `json:"answers"`
}

// QuizResult is the full review payload for one attempt: the record, the
// ordered questions used, and which answer the user picked per question
// index. Question indexes missing from UserAnswers were never submitted.
type QuizResult struct {
	Record      QuizRecord     `json:"record"`
	Questions   []QuizQuestion `json:"questions"`
	UserAnswers map[int]int    `json:"user_answers"`
}

// CloudQuiz is a record as listed by the remote store, paired with its
// opaque serialized result payload. The payload is never inspected
// locally; it is stored as-is on adoption.
type CloudQuiz struct {
	Record     QuizRecord `json:"record"`
	RawPayload string     `json:"raw_payload"`
}
