package models

// HistoryStats aggregates one owner's quiz history. All five fields are
// computed from a single table snapshot, so TotalWrong is always
// TotalQuestions - TotalCorrect.
type HistoryStats struct {
	TotalQuizzes    int     `json:"total_quizzes"`
	TotalQuestions  int     `json:"total_questions"`
	TotalCorrect    int     `json:"total_correct"`
	TotalWrong      int     `json:"total_wrong"`
	AverageAccuracy float64 `json:"average_accuracy"`
}
