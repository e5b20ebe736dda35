package srv

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/breeew/stellar-api/pkg/ai"
	"github.com/breeew/stellar-api/pkg/ai/gemini"
	"github.com/breeew/stellar-api/pkg/ai/openai"
)

const (
	USAGE_SUMMARIZE = "summarize"
	USAGE_SEARCH    = "search"
)

type SummaryAI interface {
	Summarize(ctx context.Context, prompt, doc string) (ai.SummarizeResult, error)
}

type FilterAI interface {
	FilterTitles(ctx context.Context, prompt string, titles []string) (ai.FilterResult, error)
}

type AIConfig struct {
	Gemini Gemini `toml:"gemini"`
	Openai Openai `toml:"openai"`
	// Usage list
	// summarize
	// search
	Usage map[string]string `toml:"usage"`
}

func (c *AIConfig) FromENV() {
	c.Usage = make(map[string]string)
	c.Usage[USAGE_SUMMARIZE] = os.Getenv("STELLAR_API_AI_USAGE_SUMMARIZE")
	c.Usage[USAGE_SEARCH] = os.Getenv("STELLAR_API_AI_USAGE_SEARCH")

	c.Gemini.FromENV()
	c.Openai.FromENV()
}

type Gemini struct {
	Token     string `toml:"token"`
	ChatModel string `toml:"chat_model"`
}

func (c *Gemini) FromENV() {
	c.Token = os.Getenv("STELLAR_API_AI_GEMINI_TOKEN")
	c.ChatModel = os.Getenv("STELLAR_API_AI_GEMINI_CHAT_MODEL")
}

func (cfg *Gemini) Install(root *AI) {
	if cfg.Token == "" {
		return
	}
	d, err := gemini.New(context.Background(), cfg.Token, ai.ModelName{
		ChatModel: cfg.ChatModel,
	})
	if err != nil {
		slog.Error("Failed to install ai driver", slog.String("driver", gemini.NAME), slog.String("error", err.Error()))
		return
	}
	root.Install(gemini.NAME, d)
}

type Openai struct {
	Token     string `toml:"token"`
	Endpoint  string `toml:"endpoint"`
	ChatModel string `toml:"chat_model"`
}

func (c *Openai) FromENV() {
	c.Token = os.Getenv("STELLAR_API_AI_OPENAI_TOKEN")
	c.Endpoint = os.Getenv("STELLAR_API_AI_OPENAI_ENDPOINT")
	c.ChatModel = os.Getenv("STELLAR_API_AI_OPENAI_CHAT_MODEL")
}

func (cfg *Openai) Install(root *AI) {
	if cfg.Token == "" {
		return
	}
	root.Install(openai.NAME, openai.New(cfg.Token, cfg.Endpoint, ai.ModelName{
		ChatModel: cfg.ChatModel,
	}))
}

var (
	ERROR_UNSUPPORTED_FEATURE = errors.New("Unsupported feature")
)

// AI routes each purpose to the driver named in the usage table, falling
// back to the first installed driver that supports it.
type AI struct {
	order          []string
	summaryDrivers map[string]SummaryAI
	filterDrivers  map[string]FilterAI

	summaryUsage SummaryAI
	filterUsage  FilterAI

	summaryDefault SummaryAI
	filterDefault  FilterAI
}

func NewAI() *AI {
	return &AI{
		summaryDrivers: make(map[string]SummaryAI),
		filterDrivers:  make(map[string]FilterAI),
	}
}

// Install registers driver under name for every purpose it implements.
func (a *AI) Install(name string, driver any) {
	var installed bool
	if d, ok := driver.(SummaryAI); ok {
		a.summaryDrivers[name] = d
		if a.summaryDefault == nil {
			a.summaryDefault = d
		}
		installed = true
	}
	if d, ok := driver.(FilterAI); ok {
		a.filterDrivers[name] = d
		if a.filterDefault == nil {
			a.filterDefault = d
		}
		installed = true
	}
	if installed {
		a.order = append(a.order, name)
	}
}

func (a *AI) Use(usage map[string]string) {
	for k, v := range usage {
		if v == "" {
			continue
		}
		switch k {
		case USAGE_SUMMARIZE:
			if d := a.summaryDrivers[v]; d != nil {
				a.summaryUsage = d
			}
		case USAGE_SEARCH:
			if d := a.filterDrivers[v]; d != nil {
				a.filterUsage = d
			}
		default:
			slog.Warn("Unknown ai usage", slog.String("usage", k), slog.String("driver", v))
		}
	}
}

// Drivers lists the installed driver names in install order.
func (a *AI) Drivers() []string {
	return a.order
}

func (a *AI) summary() SummaryAI {
	if a.summaryUsage != nil {
		return a.summaryUsage
	}
	return a.summaryDefault
}

func (a *AI) filter() FilterAI {
	if a.filterUsage != nil {
		return a.filterUsage
	}
	return a.filterDefault
}

func (a *AI) SummaryEnabled() bool {
	return a.summary() != nil
}

func (a *AI) SearchEnabled() bool {
	return a.filter() != nil
}

func (a *AI) Summarize(ctx context.Context, prompt, doc string) (ai.SummarizeResult, error) {
	d := a.summary()
	if d == nil {
		return ai.SummarizeResult{}, ERROR_UNSUPPORTED_FEATURE
	}
	return d.Summarize(ctx, prompt, doc)
}

func (a *AI) FilterTitles(ctx context.Context, prompt string, titles []string) (ai.FilterResult, error) {
	d := a.filter()
	if d == nil {
		return ai.FilterResult{}, ERROR_UNSUPPORTED_FEATURE
	}
	return d.FilterTitles(ctx, prompt, titles)
}

// SetupAI installs openai before gemini so the default driver does not
// depend on map order.
func SetupAI(cfg AIConfig) *AI {
	a := NewAI()

	cfg.Openai.Install(a)
	cfg.Gemini.Install(a)

	a.Use(cfg.Usage)

	if len(a.order) == 0 {
		slog.Warn("No ai driver installed, summaries and prompt search are disabled")
	}
	return a
}

type ApplyFunc func(s *Srv)

func ApplyAI(cfg AIConfig) ApplyFunc {
	return func(s *Srv) {
		s.ai = SetupAI(cfg)
	}
}

// ApplyAIDriver installs a prebuilt driver, used when wiring custom or
// test drivers.
func ApplyAIDriver(name string, driver any) ApplyFunc {
	return func(s *Srv) {
		if s.ai == nil {
			s.ai = NewAI()
		}
		s.ai.Install(name, driver)
	}
}
