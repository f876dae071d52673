package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/learnify/learnify/internal/logger"
	"github.com/learnify/learnify/internal/models"
)

// Client talks to the cloud quiz-history service over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logger.Logger
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		log:        logger.Default().WithPrefix("cloud"),
	}
}

type historyDoc struct {
	ID               string  `json:"historyId"`
	OwnerID          string  `json:"uid"`
	Topic            string  `json:"topicName"`
	SourceKind       string  `json:"sourceType"`
	SourceDescriptor string  `json:"sourceData"`
	TotalQuestions   int     `json:"totalQuestions"`
	CorrectAnswers   int     `json:"correctAnswers"`
	Accuracy         float64 `json:"accuracy"`
	ElapsedMs        int64   `json:"timeTakenMs"`
	CompletedAt      int64   `json:"completedAt"`
	Difficulty       string  `json:"difficulty"`
	ResultPayload    string  `json:"quizData_json"`
}

func (d historyDoc) record() models.QuizRecord {
	difficulty := d.Difficulty
	if difficulty == "" {
		difficulty = "Medium"
	}
	return models.QuizRecord{
		ID:               d.ID,
		OwnerID:          d.OwnerID,
		Topic:            d.Topic,
		SourceKind:       models.SourceKind(d.SourceKind),
		SourceDescriptor: d.SourceDescriptor,
		TotalQuestions:   d.TotalQuestions,
		CorrectAnswers:   d.CorrectAnswers,
		ElapsedMs:        d.ElapsedMs,
		CompletedAt:      d.CompletedAt,
		Difficulty:       difficulty,
	}
}

func (c *Client) FetchAll(ctx context.Context, ownerID string) ([]models.CloudQuiz, error) {
	log := logger.FromContext(ctx).WithPrefix("cloud").WithField("owner", ownerID)
	reqURL := fmt.Sprintf("%s/v1/owners/%s/history?order=completedAt.desc", c.baseURL, url.PathEscape(ownerID))

	log.Debug("fetching remote history")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to fetch remote history: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("history response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("history request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("history status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		History []historyDoc `json:"history"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Error("failed to decode history response: %v", err)
		return nil, err
	}

	// De-duplicate by identifier at the adapter boundary, keeping the
	// first (newest) occurrence.
	seen := make(map[string]bool, len(payload.History))
	quizzes := make([]models.CloudQuiz, 0, len(payload.History))
	for _, doc := range payload.History {
		if seen[doc.ID] {
			log.Warn("duplicate identifier in remote snapshot: %s", doc.ID)
			continue
		}
		seen[doc.ID] = true
		quizzes = append(quizzes, models.CloudQuiz{Record: doc.record(), RawPayload: doc.ResultPayload})
	}

	log.Info("fetched %d remote records for owner %s", len(quizzes), ownerID)
	return quizzes, nil
}

func (c *Client) Submit(ctx context.Context, record models.QuizRecord, payload string) error {
	log := logger.FromContext(ctx).WithPrefix("cloud").WithField("record", record.ID)

	doc := historyDoc{
		ID:               record.ID,
		OwnerID:          record.OwnerID,
		Topic:            record.Topic,
		SourceKind:       string(record.SourceKind),
		SourceDescriptor: record.SourceDescriptor,
		TotalQuestions:   record.TotalQuestions,
		CorrectAnswers:   record.CorrectAnswers,
		Accuracy:         record.Accuracy(),
		ElapsedMs:        record.ElapsedMs,
		CompletedAt:      record.CompletedAt,
		Difficulty:       record.Difficulty,
		ResultPayload:    payload,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		log.Error("failed to encode record: %v", err)
		return err
	}

	reqURL := fmt.Sprintf("%s/v1/history/%s", c.baseURL, url.PathEscape(record.ID))
	log.Debug("submitting record")
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("failed to submit record: %v", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("submit response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("submit request failed: status=%d, body=%s", resp.StatusCode, string(respBody))
		return fmt.Errorf("submit status %d: %s", resp.StatusCode, string(respBody))
	}

	log.Info("record %s submitted", record.ID)
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
