package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/breeew/stellar-api/pkg/ai"
)

const (
	NAME = "gemini"

	DEFAULT_MODEL = "gemini-1.5-flash"
)

type Driver struct {
	client *genai.Client
	model  ai.ModelName
}

func New(ctx context.Context, token string, model ai.ModelName) (*Driver, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(token))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client, %w", err)
	}
	if model.ChatModel == "" {
		model.ChatModel = DEFAULT_MODEL
	}
	return &Driver{
		client: client,
		model:  model,
	}, nil
}

func (s *Driver) Name() string {
	return NAME
}

func (s *Driver) Close() error {
	return s.client.Close()
}

func (s *Driver) query(ctx context.Context, system, user string) (ai.GenerateResponse, error) {
	model := s.client.GenerativeModel(s.model.ChatModel)
	model.SetTemperature(ai.DEFAULT_TEMPERATURE)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(system)},
	}

	result := ai.GenerateResponse{Model: s.model.ChatModel}
	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return result, fmt.Errorf("GenerateContent error: %w", err)
	}

	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				result.Received = append(result.Received, string(t))
			}
		}
		// 只取第一个候选
		break
	}
	if resp.UsageMetadata != nil {
		result.Usage = ai.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	slog.Debug("Query", slog.String("driver", NAME), slog.String("model", s.model.ChatModel), slog.Int("total_tokens", result.Usage.TotalTokens))
	return result, nil
}

func (s *Driver) Summarize(ctx context.Context, prompt, doc string) (ai.SummarizeResult, error) {
	resp, err := s.query(ctx, prompt, ai.TruncateChars(doc, ai.MAX_CONTENT_CHARS))
	if err != nil {
		return ai.SummarizeResult{Model: s.model.ChatModel}, err
	}
	summary := strings.TrimSpace(resp.Message())
	if summary == "" {
		return ai.SummarizeResult{Model: resp.Model}, fmt.Errorf("GenerateContent error: empty summary")
	}
	return ai.SummarizeResult{
		Summary: summary,
		Model:   resp.Model,
		Usage:   resp.Usage,
	}, nil
}

func (s *Driver) FilterTitles(ctx context.Context, prompt string, titles []string) (ai.FilterResult, error) {
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
