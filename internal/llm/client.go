package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/wildnetedge/leadflow/internal/domain"
	"github.com/wildnetedge/leadflow/internal/telemetry"
)

// Defaults.
const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 120 * time.Second
)

// Ошибки клиента.
var (
	// ErrRequest — HTTP-вызов LLM-сервиса не удался.
	ErrRequest = errors.New("llm request failed")

	// ErrEmptyResponse — сервис вернул ответ без кандидатов.
	ErrEmptyResponse = errors.New("llm returned empty response")

	// ErrBadAnswer — ответ модели не удалось разобрать в LeadResult.
	ErrBadAnswer = errors.New("llm answer is not valid result json")
)

// Scorer — интерфейс сервиса скоринга.
//
// Вызов синхронный и потенциально долгий; вызывающая сторона
// отвечает за то, чтобы он не блокировал диспетчеризацию других задач.
type Scorer interface {
	Score(ctx context.Context, lead domain.Lead, apiKey string) (*domain.LeadResult, error)
}

// Client — HTTP-клиент Gemini-style generateContent endpoint'а.
//
// Client безопасен для конкурентного использования: состояние
// неизменяемо после создания, http.Client потокобезопасен.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
}

// Config — конфигурация Client.
type Config struct {
	// BaseURL — базовый URL сервиса (default: Google Generative Language API).
	BaseURL string

	// Model — имя модели (default: gemini-2.0-flash).
	Model string

	// Timeout — таймаут одного вызова (default: 120s).
	Timeout time.Duration
}

// NewClient создаёт новый Client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

// NewClientFromEnv создаёт Client из переменных окружения
// LLM_BASE_URL и LLM_MODEL.
func NewClientFromEnv() *Client {
	return NewClient(Config{
		BaseURL: os.Getenv("LLM_BASE_URL"),
		Model:   os.Getenv("LLM_MODEL"),
	})
}

// --- Wire types (generateContent) ---

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// answer — JSON, который модель обязана вернуть согласно промпту.
type answer struct {
	Score         int    `json:"score"`
	Response      string `json:"response"`
	ShouldContact int    `json:"should_contact"`
	Message       string `json:"message"`
	Subject       string `json:"subject"`
}

// Score выполняет один синхронный вызов скоринга.
func (c *Client) Score(ctx context.Context, lead domain.Lead, apiKey string) (*domain.LeadResult, error) {
	start := time.Now()
	result, err := c.score(ctx, lead, apiKey)
	telemetry.ScoringDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		telemetry.ScoringRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	telemetry.ScoringRequestsTotal.WithLabelValues("ok").Inc()
	return result, nil
}

func (c *Client) score(ctx context.Context, lead domain.Lead, apiKey string) (*domain.LeadResult, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: BuildPrompt(lead)}}}},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRequest, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d: %s", ErrRequest, resp.StatusCode, truncate(string(respBody), 200))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	text := candidateText(&genResp)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var ans answer
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &ans); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadAnswer, err)
	}

	return &domain.LeadResult{
		LeadID:        lead.LeadID,
		Tag:           lead.Tag,
		Name:          lead.Name,
		LinkedinURL:   lead.LinkedinURL,
		Location:      lead.Location,
		Score:         ans.Score,
		Response:      ans.Response,
		ShouldContact: ans.ShouldContact,
		Message:       ans.Message,
		Subject:       ans.Subject,
	}, nil
}

// candidateText извлекает текст первого кандидата.
func candidateText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return strings.TrimSpace(parts[0].Text)
}

// stripCodeFence снимает markdown-ограждение (```json … ```),
// которым модели часто оборачивают JSON-ответ.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// truncate обрезает строку до указанной длины.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
