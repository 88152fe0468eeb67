package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sarikapunglia/Dronacharya/internal/quiz"
)

// Client talks to an OpenAI-compatible chat-completions endpoint. The
// service's reasoning is opaque to us: structured prompt in, structured
// JSON out. Transport failures propagate; unparseable content degrades to
// empty values so a flaky model never crashes the session.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Evaluation is the structured verdict for one submitted test.
type Evaluation struct {
	Score    int           `json:"score"`
	Feedback string        `json:"feedback"`
	Analysis quiz.Analysis `json:"analysis"`
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
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) GenerateQuestions(ctx context.Context, st quiz.Student, topic string, complexity quiz.Complexity, concepts string, count int) ([]quiz.Question, error) {
	content, err := c.complete(ctx, generationPrompt(st, topic, complexity, concepts, count))
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	var questions []quiz.Question
	if err := json.Unmarshal([]byte(stripFences(content)), &questions); err != nil {
		// The model ignored the format instructions; treat it as "nothing
		// usable generated" rather than failing the session.
		return []quiz.Question{}, nil
	}
	return questions, nil
}

func (c *Client) Evaluate(ctx context.Context, st quiz.Student, questions []quiz.Question, answers map[int]string) (Evaluation, error) {
	content, err := c.complete(ctx, evaluationPrompt(st, questions, answers))
	if err != nil {
		return Evaluation{}, fmt.Errorf("evaluate: %w", err)
	}
	ev := emptyEvaluation()
	if err := json.Unmarshal([]byte(stripFences(content)), &ev); err != nil {
		return emptyEvaluation(), nil
	}
	if ev.Score < 0 {
		ev.Score = 0
	}
	if ev.Score > 100 {
		ev.Score = 100
	}
	return ev, nil
}

func emptyEvaluation() Evaluation {
	return Evaluation{Analysis: quiz.Analysis{
		Strengths:   []string{},
		Weaknesses:  []string{},
		Suggestions: []string{},
	}}
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	var payload chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload.Choices) == 0 {
		return "", nil
	}
	return payload.Choices[0].Message.Content, nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON
// in one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
