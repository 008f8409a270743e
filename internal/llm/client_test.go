package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wildnetedge/leadflow/internal/domain"
)

func modelAnswer(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
}

func TestClient_Score_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotReq generateRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewDecoder(r.Body).Decode(&gotReq)

		json.NewEncoder(w).Encode(modelAnswer(
			`{"score": 85, "response": "strong fit", "should_contact": 1, "message": "Hi Alice", "subject": "Quick question"}`,
		))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "test-model"})
	lead := domain.Lead{LeadID: "lead-1", Name: "Alice", Title: "CTO", ScoringCriteria: "seniority"}

	result, err := client.Score(context.Background(), lead, "key-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v1beta/models/test-model:generateContent" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	if gotKey != "key-123" {
		t.Errorf("api key not passed: %q", gotKey)
	}
	if len(gotReq.Contents) != 1 || len(gotReq.Contents[0].Parts) != 1 {
		t.Fatal("expected one content with one part")
	}
	if !strings.Contains(gotReq.Contents[0].Parts[0].Text, "Alice") {
		t.Error("prompt should contain the lead name")
	}

	if result.LeadID != "lead-1" {
		t.Errorf("expected lead_id carried over, got %s", result.LeadID)
	}
	if result.Score != 85 {
		t.Errorf("expected score 85, got %d", result.Score)
	}
	if result.ShouldContact != 1 {
		t.Errorf("expected should_contact 1, got %d", result.ShouldContact)
	}
	if result.Subject != "Quick question" {
		t.Errorf("unexpected subject: %q", result.Subject)
	}
}

func TestClient_Score_CodeFencedAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(modelAnswer(
			"```json\n{\"score\": 10, \"should_contact\": 0}\n```",
		))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	result, err := client.Score(context.Background(), domain.Lead{LeadID: "l"}, "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 10 {
		t.Errorf("expected score 10, got %d", result.Score)
	}
}

func TestClient_Score_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "key revoked"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.Score(context.Background(), domain.Lead{LeadID: "l"}, "bad-key")
	if !errors.Is(err, ErrRequest) {
		t.Errorf("expected ErrRequest, got %v", err)
	}
}

func TestClient_Score_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.Score(context.Background(), domain.Lead{LeadID: "l"}, "k")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestClient_Score_BadAnswerJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(modelAnswer("I think this lead is great!"))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})

	_, err := client.Score(context.Background(), domain.Lead{LeadID: "l"}, "k")
	if !errors.Is(err, ErrBadAnswer) {
		t.Errorf("expected ErrBadAnswer, got %v", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a": 1}`, `{"a": 1}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  {\"a\": 1}  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildPrompt_Sections(t *testing.T) {
	lead := domain.Lead{
		Name:            "Bob",
		Title:           "VP Engineering",
		WildnetData:     "WildnetEdge builds edge networking.",
		ScoringCriteria: "Must be a decision maker.",
		MessagePrompt:   "Keep it short.",
	}

	prompt := BuildPrompt(lead)

	for _, want := range []string{
		"COMPANY CONTEXT",
		"SCORING CRITERIA AND ICP",
		"LEAD PROFILE",
		"OUTREACH MESSAGE INSTRUCTIONS",
		"- name: Bob",
		"- title: VP Engineering",
		`"should_contact"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_OmitsEmptyFields(t *testing.T) {
	prompt := BuildPrompt(domain.Lead{Name: "Carol"})

	if strings.Contains(prompt, "- bio:") {
		t.Error("empty bio should be omitted")
	}
	if strings.Contains(prompt, "COMPANY CONTEXT") {
		t.Error("empty wildnet_data section should be omitted")
	}
}
