package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnify/learnify/internal/models"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		correct int
		want    float64
	}{
		{"perfect", 10, 10, 100},
		{"partial", 5, 2, 40},
		{"none correct", 4, 0, 0},
		{"no questions", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := models.QuizRecord{TotalQuestions: tt.total, CorrectAnswers: tt.correct}
			assert.InDelta(t, tt.want, rec.Accuracy(), 0.001)
		})
	}
}

func TestElapsedFormatted(t *testing.T) {
	tests := []struct {
		name      string
		elapsedMs int64
		want      string
	}{
		{"minutes and seconds", 222000, "3m 42s"},
		{"whole minutes", 180000, "3m"},
		{"under a minute", 42000, "0m 42s"},
		{"zero", 0, "0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := models.QuizRecord{ElapsedMs: tt.elapsedMs}
			assert.Equal(t, tt.want, rec.ElapsedFormatted())
		})
	}
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, models.SortOldest, models.ParseSortMode("oldest"))
	assert.Equal(t, models.SortAlphabetical, models.ParseSortMode("alphabetical"))
	assert.Equal(t, models.SortAccuracyLow, models.ParseSortMode("accuracy_low"))
	assert.Equal(t, models.SortAccuracyHigh, models.ParseSortMode("accuracy_high"))

	// Anything unrecognized falls back to newest-first.
	assert.Equal(t, models.SortLatest, models.ParseSortMode(""))
	assert.Equal(t, models.SortLatest, models.ParseSortMode("latest"))
	assert.Equal(t, models.SortLatest, models.ParseSortMode("garbage"))
}
