package cloud_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnify/learnify/internal/cloud"
	"github.com/learnify/learnify/internal/models"
)

func TestFetchAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/owners/u1/history", r.URL.Path)
		assert.Equal(t, "completedAt.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"history": [
			{"historyId": "q2", "uid": "u1", "topicName": "Algebra", "sourceType": "DOCUMENT",
			 "totalQuestions": 10, "correctAnswers": 7, "accuracy": 70,
			 "timeTakenMs": 90000, "completedAt": 200, "difficulty": "Hard", "quizData_json": "{}"},
			{"historyId": "q1", "uid": "u1", "topicName": "Geometry", "sourceType": "YOUTUBE",
			 "totalQuestions": 5, "correctAnswers": 3, "accuracy": 60,
			 "timeTakenMs": 60000, "completedAt": 100, "quizData_json": "{}"},
			{"historyId": "q2", "uid": "u1", "topicName": "Algebra dup", "sourceType": "DOCUMENT",
			 "totalQuestions": 10, "correctAnswers": 7, "accuracy": 70,
			 "timeTakenMs": 90000, "completedAt": 200, "quizData_json": "{}"}
		]}`))
	}))
	defer server.Close()

	client := cloud.New(server.URL, "test-key")
	quizzes, err := client.FetchAll(context.Background(), "u1")
	require.NoError(t, err)

	// The duplicate q2 entry is dropped, keeping the first occurrence.
	require.Len(t, quizzes, 2)
	assert.Equal(t, "q2", quizzes[0].Record.ID)
	assert.Equal(t, "Algebra", quizzes[0].Record.Topic)
	assert.Equal(t, "Hard", quizzes[0].Record.Difficulty)
	assert.Equal(t, "q1", quizzes[1].Record.ID)
	assert.Equal(t, models.SourceYouTube, quizzes[1].Record.SourceKind)

	// Missing difficulty falls back to the schema default.
	assert.Equal(t, "Medium", quizzes[1].Record.Difficulty)
}

func TestFetchAll_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := cloud.New(server.URL, "")
	quizzes, err := client.FetchAll(context.Background(), "u1")
	require.Error(t, err)
	assert.Nil(t, quizzes)
}

func TestSubmit(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/history/quiz_abc", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	record := models.QuizRecord{
		ID:             "quiz_abc",
		OwnerID:        "u1",
		Topic:          "Algebra",
		SourceKind:     models.SourceDocument,
		TotalQuestions: 10,
		CorrectAnswers: 7,
		ElapsedMs:      90000,
		CompletedAt:    200,
		Difficulty:     "Hard",
	}

	client := cloud.New(server.URL, "")
	require.NoError(t, client.Submit(context.Background(), record, `{"ok":true}`))

	assert.Equal(t, "quiz_abc", received["historyId"])
	assert.Equal(t, "u1", received["uid"])
	assert.Equal(t, "Algebra", received["topicName"])
	assert.Equal(t, float64(10), received["totalQuestions"])
	assert.Equal(t, float64(70), received["accuracy"])
	assert.Equal(t, `{"ok":true}`, received["quizData_json"])
}

func TestSubmit_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := cloud.New(server.URL, "")
	err := client.Submit(context.Background(), models.QuizRecord{ID: "quiz_abc"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
