package process

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/breeew/stellar-api/internal/core"
	"github.com/breeew/stellar-api/internal/core/srv"
	"github.com/breeew/stellar-api/pkg/ai"
	"github.com/breeew/stellar-api/pkg/ai/agents/summary"
	"github.com/breeew/stellar-api/pkg/safe"
	"github.com/breeew/stellar-api/pkg/types"
)

const (
	enrichQueueSize = 1000
	enrichTimeout   = time.Minute * 2
)

var (
	enrichMu      sync.RWMutex
	enrichProcess *EnrichProcess
)

// EnrichProcess fills in the content and summary of journal entries that
// were saved with only a link.
type EnrichProcess struct {
	ctx           context.Context
	core          *core.Core
	EnrichChan    chan *EnrichRequest
	mu            sync.Mutex
	processingMap map[string]struct{}
}

type EnrichRequest struct {
	ctx      context.Context
	userID   string
	entryID  string
	response chan EnrichResponse
}

type EnrichResponse struct {
	Err error
}

func StartEnrichProcess(core *core.Core, concurrency int) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	p := &EnrichProcess{
		ctx:           ctx,
		core:          core,
		EnrichChan:    make(chan *EnrichRequest, enrichQueueSize),
		processingMap: make(map[string]struct{}),
	}

	enrichMu.Lock()
	enrichProcess = p
	enrichMu.Unlock()

	for range max(concurrency, 1) {
		go safe.Run(p.ProcessEnrich)
	}
	return cancel
}

// NewEnrichRequest queues an entry. It returns nil when the process is not
// running or the queue is full.
func NewEnrichRequest(userID, entryID string) chan EnrichResponse {
	enrichMu.RLock()
	p := enrichProcess
	enrichMu.RUnlock()

	if p == nil || p.ctx.Err() != nil {
		slog.Debug("Enrich process not working", slog.String("entry_id", entryID))
		return nil
	}

	resp := make(chan EnrichResponse, 1)
	select {
	case p.EnrichChan <- &EnrichRequest{
		ctx:      context.Background(),
		userID:   userID,
		entryID:  entryID,
		response: resp,
	}:
		return resp
	default:
		slog.Warn("Enrich queue is full", slog.String("entry_id", entryID), slog.String("user_id", userID))
		return nil
	}
}

func (p *EnrichProcess) CheckProcess(id string, handler func()) {
	p.mu.Lock()
	if _, exist := p.processingMap[id]; exist {
		p.mu.Unlock()
		return
	}
	p.processingMap[id] = struct{}{}
	p.mu.Unlock()

	handler()
	p.mu.Lock()
	delete(p.processingMap, id)
	p.mu.Unlock()
}

func (p *EnrichProcess) ProcessEnrich() {
	for {
		select {
		case <-p.ctx.Done():
			return
		case req := <-p.EnrichChan:
			if req == nil {
				continue
			}

			p.CheckProcess(req.entryID, func() {
				p.processEnrich(req)
			})
		}
	}
}

func (p *EnrichProcess) processEnrich(req *EnrichRequest) {
	logAttrs := []any{
		slog.String("user_id", req.userID),
		slog.String("entry_id", req.entryID),
		slog.String("component", "EnrichProcess.processEnrich"),
	}

	var err error
	defer func() {
		if err != nil {
			slog.Error("Enrich failed", append(logAttrs, slog.String("error", err.Error()))...)
		}
		if req.response != nil {
			req.response <- EnrichResponse{Err: err}
			close(req.response)
		}
	}()

	ctx, cancel := context.WithTimeout(req.ctx, enrichTimeout)
	defer cancel()

	entry, err := p.core.Store().JournalEntryStore().Get(ctx, req.userID, req.entryID)
	if err != nil {
		return
	}
	if entry.Paper.Link == "" || (entry.Paper.Content != "" && entry.Paper.Summary != "") {
		return
	}

	scraped, err := p.core.Srv().Scraper().Scrape(ctx, entry.Paper.Link)
	if err != nil {
		return
	}

	var generated string
	if entry.Paper.Summary == "" && p.core.Srv().AI().SummaryEnabled() {
		llmCtx, llmCancel := context.WithTimeout(ctx, time.Minute)
		prompt := summary.BuildSummaryPrompt(p.core.Cfg().Prompt.SummaryOverrides(), types.DEMOGRAPHIC_RESEARCHER)
		res, llmErr := p.core.Srv().AI().Summarize(llmCtx, prompt, ai.FormatPaperDocument(firstNonEmpty(entry.Paper.Title, scraped.Title), scraped.Content))
		llmCancel()
		p.core.Metrics().ObserveLLM(srv.USAGE_SUMMARIZE, llmErr)
		if llmErr != nil {
			slog.Warn("Enrich summary unavailable", append(logAttrs, slog.String("error", llmErr.Error()))...)
		} else {
			generated = strings.TrimSpace(res.Summary)
		}
	}

	// The entry may have been edited while the page and the model were
	// loading, only the still empty fields are written.
	var contentFilled, summaryFilled bool
	err = p.core.Store().Transaction(ctx, func(ctx context.Context) error {
		entries := p.core.Store().JournalEntryStore()
		var err error
		if contentFilled, err = entries.FillPaperField(ctx, req.userID, req.entryID, types.PAPER_FIELD_CONTENT, scraped.Content); err != nil {
			return err
		}
		if summaryFilled, err = entries.FillPaperField(ctx, req.userID, req.entryID, types.PAPER_FIELD_SUMMARY, generated); err != nil {
			return err
		}
		if !summaryFilled {
			return nil
		}
		return entries.AppendAnnotation(ctx, req.userID, req.entryID, types.Annotation{
			Text:        generated,
			CreatedAt:   time.Now().Unix(),
			AIGenerated: true,
		})
	})
	if err == nil {
		slog.Info("Journal entry enriched", append(logAttrs,
			slog.Bool("content", contentFilled), slog.Bool("summary", summaryFilled))...)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
