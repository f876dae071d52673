package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/learnify/learnify/internal/errors"
	"github.com/learnify/learnify/internal/logger"
)

// Client calls the generative-model service that turns extracted text into
// a multiple-choice quiz.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	log        *logger.Logger
}

func New(baseURL, apiKey, model string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		log:        logger.Default().WithPrefix("generator"),
	}
}

type generateRequest struct {
	Model        string `json:"model"`
	Text         string `json:"text"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
	Language     string `json:"language"`
	Regenerate   bool   `json:"regenerate"`
}

func (c *Client) Generate(ctx context.Context, req Request) (*QuizResponse, error) {
	log := logger.FromContext(ctx).WithPrefix("generator")
	log.Debug("requesting quiz: questions=%d, difficulty=%s, language=%s, regenerate=%v",
		req.NumQuestions, req.Difficulty, req.Language, req.Regenerate)

	body, err := json.Marshal(generateRequest{
		Model:        c.model,
		Text:         req.Text,
		NumQuestions: req.NumQuestions,
		Difficulty:   req.Difficulty,
		Language:     req.Language,
		Regenerate:   req.Regenerate,
	})
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/v1/quizzes:generate", c.baseURL)
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Error("generation request failed: %v", err)
		return nil, errors.NewGenerationError("request failed", err)
	}
	defer resp.Body.Close()

	log.Debug("generation response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("generation request failed: status=%d, body=%s", resp.StatusCode, string(respBody))
		return nil, errors.NewGenerationError(fmt.Sprintf("status %d", resp.StatusCode), nil)
	}

	var out QuizResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode generation response: %v", err)
		return nil, errors.NewGenerationError("malformed response", err)
	}

	if err := validate(&out); err != nil {
		log.Error("generation response rejected: %v", err)
		return nil, err
	}

	log.Info("generated %d questions on topic %q in %v", len(out.Questions), out.Topic, time.Since(start))
	return &out, nil
}

func validate(resp *QuizResponse) error {
	if len(resp.Questions) == 0 {
		return errors.NewGenerationError("no questions returned", nil)
	}
	for i, q := range resp.Questions {
		if q.Text == "" {
			return errors.NewGenerationError(fmt.Sprintf("question %d has no text", i), nil)
		}
		if len(q.Answers) != 4 {
			return errors.NewGenerationError(fmt.Sprintf("question %d has %d answers, want 4", i, len(q.Answers)), nil)
		}
	}
	return nil
}
