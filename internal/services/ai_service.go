package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/healthmateapp/healthmate-server/internal/logger"
)

const geminiModel = "gemini-1.5-flash"

// AIService generates free text with Gemini, falling back to OpenAI when
// Gemini is unavailable or returns nothing usable.
type AIService struct {
	geminiClient *genai.Client
	openaiClient *openai.Client
}

func NewAIService(ctx context.Context, geminiAPIKey, openaiAPIKey string) (*AIService, error) {
	geminiClient, err := genai.NewClient(ctx, option.WithAPIKey(geminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	var openaiClient *openai.Client
	if openaiAPIKey != "" {
		openaiClient = openai.NewClient(openaiAPIKey)
	}

	return &AIService{
		geminiClient: geminiClient,
		openaiClient: openaiClient,
	}, nil
}

// GenerateText runs the prompt through Gemini first and OpenAI second.
func (s *AIService) GenerateText(ctx context.Context, prompt string) (string, error) {
	text, err := s.generateWithGemini(ctx, prompt)
	if err == nil {
		return text, nil
	}

	if s.openaiClient == nil {
		return "", err
	}
	logger.Warningf("Gemini generation failed, falling back to OpenAI: %v", err)
	return s.generateWithOpenAI(ctx, prompt)
}

func (s *AIService) generateWithGemini(ctx context.Context, prompt string) (string, error) {
	model := s.geminiClient.GenerativeModel(geminiModel)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in Gemini response")
	}
	return sb.String(), nil
}

func (s *AIService) generateWithOpenAI(ctx context.Context, prompt string) (string, error) {
	resp, err := s.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

// Close releases the Gemini client connection.
func (s *AIService) Close() error {
	return s.geminiClient.Close()
}
