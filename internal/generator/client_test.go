package generator_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/learnify/learnify/internal/errors"
	"github.com/learnify/learnify/internal/generator"
)

const validResponse = `{
	"topic": "Photosynthesis",
	"questions": [
		{"text": "Q1", "explanation": "because", "answers": [
			{"text": "a", "correct": true}, {"text": "b"}, {"text": "c"}, {"text": "d"}
		]},
		{"text": "Q2", "answers": [
			{"text": "a"}, {"text": "b", "correct": true}, {"text": "c"}, {"text": "d"}
		]}
	]
}`

func TestGenerate(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/quizzes:generate", r.URL.Path)
		assert.Equal(t, "Bearer api-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(validResponse))
	}))
	defer server.Close()

	client := generator.New(server.URL, "api-key", "gemini-2.0-flash")
	resp, err := client.Generate(context.Background(), generator.Request{
		Text:         "leaves and light",
		NumQuestions: 2,
		Difficulty:   "Medium",
		Language:     "English",
	})
	require.NoError(t, err)

	assert.Equal(t, "Photosynthesis", resp.Topic)
	require.Len(t, resp.Questions, 2)
	assert.True(t, resp.Questions[0].Answers[0].Correct)

	assert.Equal(t, "gemini-2.0-flash", received["model"])
	assert.Equal(t, "leaves and light", received["text"])
	assert.Equal(t, float64(2), received["num_questions"])
	assert.Equal(t, false, received["regenerate"])
}

func TestGenerate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := generator.New(server.URL, "", "gemini-2.0-flash")
	resp, err := client.Generate(context.Background(), generator.Request{Text: "x"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGeneration))
}

func TestGenerate_RejectsMalformedQuiz(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no questions", `{"topic": "X", "questions": []}`},
		{"empty question text", `{"topic": "X", "questions": [{"text": "", "answers": [
			{"text": "a"}, {"text": "b"}, {"text": "c"}, {"text": "d"}]}]}`},
		{"wrong answer count", `{"topic": "X", "questions": [{"text": "Q", "answers": [
			{"text": "a"}, {"text": "b"}]}]}`},
		{"not json", `topic: X`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := generator.New(server.URL, "", "gemini-2.0-flash")
			resp, err := client.Generate(context.Background(), generator.Request{Text: "x"})
			require.Error(t, err)
			assert.Nil(t, resp)
			assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGeneration))
		})
	}
}
