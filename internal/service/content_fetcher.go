package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pvhoang/quizforge/config"
	"github.com/rs/zerolog/log"
)

const (
	reasoningStartMarker = "<think>"
	reasoningEndMarker   = "</think>"

	questionsPerDailyQuiz = 10
)

// GeneratedQuestion is one sanitized question object from the generation API.
type GeneratedQuestion struct {
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer string   `json:"correct_answer"`
}

// QuestionFetcher asks the external text-generation endpoint for a batch of
// questions in the given category.
type QuestionFetcher interface {
	FetchQuestions(ctx context.Context, category string) ([]GeneratedQuestion, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type questionFetcher struct {
	cfg         *config.Config
	client      *http.Client
	maxAttempts int
	backoffBase time.Duration
}

func NewQuestionFetcher(cfg *config.Config) QuestionFetcher {
	if cfg.Generation.APIKey == "" {
		log.Warn().Msg("GENERATION_API_KEY is not set. Daily quiz generation will fail until configured.")
	}
	maxAttempts := cfg.Generation.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &questionFetcher{
		cfg:         cfg,
		client:      &http.Client{Timeout: 90 * time.Second},
		maxAttempts: maxAttempts,
		backoffBase: 2 * time.Second,
	}
}

func buildPrompt(category string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Generate exactly %d quiz questions about the category \"%s\".\n", questionsPerDailyQuiz, category))
	b.WriteString("Respond with a JSON array and nothing else. Each element must be an object with:\n")
	b.WriteString("- \"question\": the question text\n")
	b.WriteString("- \"answers\": a list of exactly four answer strings\n")
	b.WriteString("- \"correct_answer\": one of the strings from \"answers\", copied verbatim\n")
	b.WriteString("Do not wrap the array in markdown code fences and do not add commentary.")
	return b.String()
}

// FetchQuestions retries transport and parse failures with exponential
// backoff and fails terminally after maxAttempts tries.
func (f *questionFetcher) FetchQuestions(ctx context.Context, category string) ([]GeneratedQuestion, error) {
	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		questions, err := f.fetchOnce(ctx, category)
		if err == nil {
			return questions, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", f.maxAttempts).
			Str("category", category).Msg("Question generation attempt failed")

		if attempt == f.maxAttempts {
			break
		}
		wait := f.backoffBase * time.Duration(1<<(attempt-1))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, fmt.Errorf("question generation gave up after %d attempts: %w", f.maxAttempts, lastErr)
}

func (f *questionFetcher) fetchOnce(ctx context.Context, category string) ([]GeneratedQuestion, error) {
	reqBody := chatRequest{
		Model: f.cfg.Generation.Model,
		Messages: []chatMessage{
			{Role: "user", Content: buildPrompt(category)},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.Generation.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.cfg.Generation.APIKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generation response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, &MalformedResponseError{Reason: "response is not valid JSON", Raw: string(body)}
	}
	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return nil, &MalformedResponseError{Reason: "response carries no message content", Raw: string(body)}
	}

	return parseQuestionArray(chat.Choices[0].Message.Content)
}

// parseQuestionArray sanitizes the model output and decodes it with a strict
// shape check: anything that is not an array of complete question objects
// fails closed.
func parseQuestionArray(raw string) ([]GeneratedQuestion, error) {
	text := stripReasoningTrace(raw)
	text = stripCodeFences(text)
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "[") {
		return nil, &MalformedResponseError{Reason: "content does not start with a JSON array", Raw: raw}
	}

	var questions []GeneratedQuestion
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&questions); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("invalid question array: %v", err), Raw: raw}
	}

	if len(questions) == 0 {
		return nil, &MalformedResponseError{Reason: "question array is empty", Raw: raw}
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("question %d has no text", i), Raw: raw}
		}
		if len(q.Answers) < 2 {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("question %d has fewer than two answers", i), Raw: raw}
		}
		found := false
		for _, a := range q.Answers {
			if a == q.CorrectAnswer {
				found = true
				break
			}
		}
		if !found {
			return nil, &MalformedResponseError{Reason: fmt.Sprintf("question %d correct answer is not in the answer list", i), Raw: raw}
		}
	}
	return questions, nil
}

func stripReasoningTrace(text string) string {
	start := strings.Index(text, reasoningStartMarker)
	if start == -1 {
		return text
	}
	end := strings.Index(text, reasoningEndMarker)
	if end == -1 || end < start {
		// Unterminated trace: drop everything up to and including the marker.
		return text[start+len(reasoningStartMarker):]
	}
	return text[:start] + text[end+len(reasoningEndMarker):]
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	// Drop the opening fence line (which may carry a language tag).
	if idx := strings.Index(text, "\n"); idx != -1 {
		text = text[idx+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	if idx := strings.LastIndex(text, "```"); idx != -1 {
		text = text[:idx]
	}
	return text
}
