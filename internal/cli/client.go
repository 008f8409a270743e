package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// LeadResponse — лид из API.
type LeadResponse struct {
	LeadID      string `json:"lead_id"`
	Tag         string `json:"tag,omitempty"`
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Location    string `json:"location,omitempty"`
	CompanyName string `json:"company_name,omitempty"`
	LinkedinURL string `json:"linkedin_url,omitempty"`
}

// ResultResponse — результат скоринга из API.
type ResultResponse struct {
	LeadID        string `json:"lead_id"`
	Tag           string `json:"tag,omitempty"`
	Name          string `json:"name,omitempty"`
	LinkedinURL   string `json:"linkedin_url,omitempty"`
	Location      string `json:"location,omitempty"`
	Score         int    `json:"score"`
	Response      string `json:"response,omitempty"`
	ShouldContact int    `json:"should_contact"`
	Message       string `json:"message,omitempty"`
	Subject       string `json:"subject,omitempty"`
}

// LeadOutcomeResponse — исход обработки одного лида.
type LeadOutcomeResponse struct {
	LeadID        string `json:"lead_id"`
	Name          string `json:"name,omitempty"`
	Outcome       string `json:"outcome"`
	Score         int    `json:"score,omitempty"`
	ShouldContact int    `json:"should_contact,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ProcessResponse — сводка one-shot обработки.
type ProcessResponse struct {
	Total     int                   `json:"total"`
	Processed int                   `json:"processed"`
	Skipped   int                   `json:"skipped"`
	NoKey     int                   `json:"no_key"`
	Errors    int                   `json:"errors"`
	Results   []LeadOutcomeResponse `json:"results"`
}

// --- Request types ---

// LeadPayload — лид для отправки на обработку.
type LeadPayload struct {
	LeadID         string `json:"lead_id"`
	Tag            string `json:"tag,omitempty"`
	Name           string `json:"name,omitempty"`
	Title          string `json:"title,omitempty"`
	Location       string `json:"location,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	Experience     string `json:"experience,omitempty"`
	Skills         string `json:"skills,omitempty"`
	Bio            string `json:"bio,omitempty"`
	ProfileURL     string `json:"profile_url,omitempty"`
	LinkedinURL    string `json:"linkedin_url,omitempty"`
	CompanyPageURL string `json:"company_page_url,omitempty"`
}

// ProcessRequest — запрос на one-shot обработку batch'а.
type ProcessRequest struct {
	APIKey          string        `json:"api_key,omitempty"`
	WildnetData     string        `json:"wildnet_data,omitempty"`
	ScoringCriteria string        `json:"scoring_criteria_and_icp,omitempty"`
	MessagePrompt   string        `json:"message_prompt,omitempty"`
	Leads           []LeadPayload `json:"leads"`
}

// ProcessSingleRequest — запрос на обработку одного лида.
type ProcessSingleRequest struct {
	APIKey          string      `json:"api_key,omitempty"`
	WildnetData     string      `json:"wildnet_data,omitempty"`
	ScoringCriteria string      `json:"scoring_criteria_and_icp,omitempty"`
	MessagePrompt   string      `json:"message_prompt,omitempty"`
	Lead            LeadPayload `json:"lead"`
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Leadflow API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Batch-обработка держит соединение на время скоринга.
			Timeout: 10 * time.Minute,
		},
	}
}

// --- Leads ---

// ListEligible возвращает лиды, ожидающие обработки.
func (c *Client) ListEligible(limit int) ([]LeadResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var leads []LeadResponse
	err := c.list("/api/v1/leads/eligible", params, &leads)
	return leads, err
}

// CountEligible возвращает размер backlog'а.
func (c *Client) CountEligible() (int, error) {
	var result struct {
		Count int `json:"count"`
	}
	err := c.get("/api/v1/leads/eligible/count", &result)
	return result.Count, err
}

// EnqueueLeads уведомляет worker о новых лидах в БД.
func (c *Client) EnqueueLeads(leadIDs []string) (int, error) {
	body := map[string][]string{"lead_ids": leadIDs}
	var result struct {
		Enqueued int `json:"enqueued"`
	}
	err := c.post("/api/v1/leads/enqueue", body, &result)
	return result.Enqueued, err
}

// --- Results ---

// ListResults возвращает результаты скоринга.
func (c *Client) ListResults(limit, offset int) ([]ResultResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	var results []ResultResponse
	err := c.list("/api/v1/results", params, &results)
	return results, err
}

// GetResult возвращает результат по лиду.
func (c *Client) GetResult(leadID string) (*ResultResponse, error) {
	var result ResultResponse
	err := c.get("/api/v1/results/"+leadID, &result)
	return &result, err
}

// --- Processing ---

// ProcessLeads отправляет batch лидов на обработку.
func (c *Client) ProcessLeads(req ProcessRequest) (*ProcessResponse, error) {
	var resp ProcessResponse
	err := c.post("/api/v1/leads/process", req, &resp)
	return &resp, err
}

// ProcessLead отправляет один лид на обработку.
func (c *Client) ProcessLead(req ProcessSingleRequest) (*LeadOutcomeResponse, error) {
	var resp LeadOutcomeResponse
	err := c.post("/api/v1/leads/process-one", req, &resp)
	return &resp, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
