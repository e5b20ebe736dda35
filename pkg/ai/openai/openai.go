package openai

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/breeew/stellar-api/pkg/ai"
)

const (
	NAME = "openai"
)

type Driver struct {
	client *openai.Client
	model  ai.ModelName
}

// New builds a chat completion driver. endpoint points the client at any
// OpenAI compatible API, it may be empty.
func New(token, endpoint string, model ai.ModelName) *Driver {
	cfg := openai.DefaultConfig(token)
	if endpoint != "" {
		cfg.BaseURL = endpoint
	}

	if model.ChatModel == "" {
		model.ChatModel = openai.GPT4oMini
	}

	return &Driver{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (s *Driver) Name() string {
	return NAME
}

func (s *Driver) query(ctx context.Context, system, user string) (ai.GenerateResponse, error) {
	req := openai.ChatCompletionRequest{
		Model:       s.model.ChatModel,
		Temperature: ai.DEFAULT_TEMPERATURE,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	result := ai.GenerateResponse{Model: s.model.ChatModel}
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return result, fmt.Errorf("Completion error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return result, fmt.Errorf("Completion error: empty choices")
	}

	slog.Debug("Query", slog.String("driver", NAME), slog.String("model", s.model.ChatModel), slog.Int("total_tokens", resp.Usage.TotalTokens))

	for _, v := range resp.Choices {
		result.Received = append(result.Received, v.Message.Content)
	}
	if resp.Model != "" {
		result.Model = resp.Model
	}
	result.Usage = ai.Usage{
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
	}
	return result, nil
}

func (s *Driver) Summarize(ctx context.Context, prompt, doc string) (ai.SummarizeResult, error) {
	slog.Debug("Summarize", slog.String("driver", NAME))
	resp, err := s.query(ctx, prompt, ai.TruncateContent(doc, s.model.ChatModel, ai.MAX_CONTENT_TOKENS))
	if err != nil {
		return ai.SummarizeResult{Model: s.model.ChatModel}, err
	}

	summary := resp.Message()
	if summary == "" {
		return ai.SummarizeResult{Model: resp.Model}, fmt.Errorf("Completion error: empty summary")
	}
	return ai.SummarizeResult{
		Summary: summary,
		Model:   resp.Model,
		Usage:   resp.Usage,
	}, nil
}

func (s *Driver) FilterTitles(ctx context.Context, prompt string, titles []string) (ai.FilterResult, error) {
	slog.Debug("FilterTitles", slog.String("driver", NAME), slog.Int("candidates", len(titles)))
	resp, err := s.query(ctx, prompt, ai.FormatTitleList(titles))
	if err != nil {
		return ai.FilterResult{Model: s.model.ChatModel}, err
	}

	selected, err := ai.ParseTitleList(resp.Message())
	if err != nil {
		return ai.FilterResult{Model: resp.Model, Usage: resp.Usage}, err
	}
	return ai.FilterResult{
		Titles: selected,
		Model:  resp.Model,
		Usage:  resp.Usage,
	}, nil
}
