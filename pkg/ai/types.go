package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DEFAULT_TEMPERATURE keeps summaries close to the source text.
const DEFAULT_TEMPERATURE = 0.1

const (
	MAX_CONTENT_CHARS  = 12000
	MAX_CONTENT_TOKENS = 3000

	fallbackEncoding = "cl100k_base"
)

type ModelName struct {
	ChatModel string
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type GenerateResponse struct {
	Received []string
	Model    string
	Usage    Usage
}

func (r GenerateResponse) Message() string {
	return strings.TrimSpace(strings.Join(r.Received, ""))
}

type SummarizeResult struct {
	Summary string
	Model   string
	Usage   Usage
}

type FilterResult struct {
	Titles []string
	Model  string
	Usage  Usage
}

// FormatPaperDocument renders the user message of a summarize request.
func FormatPaperDocument(title, content string) string {
	return fmt.Sprintf("Title: %s\n\nContent:\n%s", title, content)
}

// FormatTitleList renders the dataset titles handed to a filter request.
func FormatTitleList(titles []string) string {
	raw, _ := json.Marshal(titles)
	return string(raw)
}

var jsonArray = regexp.MustCompile(`(?s)\[.*\]`)

// ParseTitleList reads the json string array a model answered with. Code
// fences and prose around the array are ignored.
func ParseTitleList(raw string) ([]string, error) {
	match := jsonArray.FindString(raw)
	if match == "" {
		return nil, fmt.Errorf("no json array in model response")
	}
	var titles []string
	if err := json.Unmarshal([]byte(match), &titles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal title list, %w", err)
	}
	return titles, nil
}

// TruncateChars cuts s to at most n runes.
func TruncateChars(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

var (
	encoderMu sync.Mutex
	encoders  = make(map[string]*tiktoken.Tiktoken)
	noEncoder = make(map[string]bool)
)

func encoderFor(model string) *tiktoken.Tiktoken {
	encoderMu.Lock()
	defer encoderMu.Unlock()

	if enc, ok := encoders[model]; ok {
		return enc
	}
	if noEncoder[model] {
		return nil
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		noEncoder[model] = true
		return nil
	}
	encoders[model] = enc
	return enc
}

// TruncateContent limits content to maxTokens tokens of model, or to
// MAX_CONTENT_CHARS characters when no tokenizer is available.
func TruncateContent(content, model string, maxTokens int) string {
	enc := encoderFor(model)
	if enc == nil {
		return TruncateChars(content, MAX_CONTENT_CHARS)
	}
	tokens := enc.Encode(content, nil, nil)
	if len(tokens) <= maxTokens {
		return content
	}
	return enc.Decode(tokens[:maxTokens])
}
