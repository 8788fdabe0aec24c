package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

type GeneratedTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  int        `json:"difficulty"`
	Deadline    *time.Time `json:"deadline"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// GenerateTasksFromText analyzes free-form text and extracts tasks using
// OpenAI GPT
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	currentTime := time.Now().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are a task extraction assistant. Extract concrete tasks from the text below.

Current time: %s

Text:
%s

Return a JSON array of the extracted tasks in this format:
[
  {
    "title": "short task title",
    "description": "detailed task description",
    "difficulty": 3,
    "deadline": "ISO8601 deadline, e.g. 2026-10-28T23:59:59Z, or null when the text gives none"
  }
]

Rules:
- Return an empty array [] when the text contains no tasks
- Convert relative deadlines ("tomorrow", "next week") into concrete timestamps
- difficulty is an integer from 1 (trivial) to 5 (very hard), default 3
- Return only the JSON, no explanation`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var tasks []GeneratedTask
	if err := json.Unmarshal([]byte(content), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return tasks, nil
}

// SummarizeScores turns a user's recent score records into a short
// natural-language performance summary using OpenAI GPT
func (s *AIService) SummarizeScores(ctx context.Context, scores []models.Score) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("OpenAI client not initialized")
	}
	if len(scores) == 0 {
		return "No completed tasks to summarize yet.", nil
	}

	var sb strings.Builder
	for _, score := range scores {
		line, err := json.Marshal(score.Breakdown)
		if err != nil {
			return "", fmt.Errorf("failed to encode breakdown: %w", err)
		}
		fmt.Fprintf(&sb, "- %s: %.1f points, breakdown %s\n",
			score.CreatedAt.Format("2006-01-02"), score.Points, line)
	}

	prompt := fmt.Sprintf(`You are a productivity coach. Below are a user's recent task score records, newest first. Each breakdown shows which factors (difficulty, priority, quality, punctuality, bonuses) produced the points.

%s
Write a short summary (3-4 sentences) of how the user is performing: what drives their points, where they lose points, and one concrete suggestion. Plain text only.`, sb.String())

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.5,
		},
	)

	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
