package v1

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/breeew/stellar-api/internal/core"
	"github.com/breeew/stellar-api/internal/core/srv"
	"github.com/breeew/stellar-api/pkg/ai"
	"github.com/breeew/stellar-api/pkg/ai/agents/summary"
	"github.com/breeew/stellar-api/pkg/dataset"
	"github.com/breeew/stellar-api/pkg/errors"
	"github.com/breeew/stellar-api/pkg/i18n"
	"github.com/breeew/stellar-api/pkg/scraper"
	"github.com/breeew/stellar-api/pkg/types"
	"github.com/breeew/stellar-api/pkg/utils"
)

const (
	LLM_TIMEOUT       = time.Minute
	SCRAPE_CACHE_TTL  = time.Hour * 24 * 30
	SUMMARY_CACHE_TTL = time.Hour * 24 * 7
)

type PaperLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewPaperLogic(ctx context.Context, core *core.Core) *PaperLogic {
	l := &PaperLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: setupUserInfo(ctx, core),
	}

	return l
}

func sharedCache(c *core.Core) core.Cache {
	if c.Plugins == nil {
		return nil
	}
	return c.Cache()
}

func cacheGet[T any](ctx context.Context, c *core.Core, key string) (T, bool) {
	var v T
	cache := sharedCache(c)
	if cache == nil {
		return v, false
	}
	raw, err := cache.Get(ctx, key)
	if err != nil {
		slog.Warn("Failed to read shared cache", slog.String("key", key), slog.String("error", err.Error()))
		return v, false
	}
	if raw == "" {
		return v, false
	}
	if err = json.Unmarshal([]byte(raw), &v); err != nil {
		return v, false
	}
	return v, true
}

func cacheSet(ctx context.Context, c *core.Core, key string, v any, ttl time.Duration) {
	cache := sharedCache(c)
	if cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err = cache.SetEx(ctx, key, string(raw), ttl); err != nil {
		slog.Warn("Failed to write shared cache", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// scrapeLink serves link from the shared cache, then from the scraper.
func scrapeLink(ctx context.Context, c *core.Core, link string) (types.ScrapeResult, error) {
	key := "stellar:scrape:" + utils.MD5(link)
	if res, ok := cacheGet[types.ScrapeResult](ctx, c, key); ok {
		return res, nil
	}

	res, err := c.Srv().Scraper().Scrape(ctx, link)
	if err != nil {
		if errors.Is(err, scraper.ErrEmptyDocument) {
			return res, errors.New("scrapeLink.Scraper.Parse", i18n.ERROR_PARSE, err).Code(http.StatusUnprocessableEntity)
		}
		return res, errors.New("scrapeLink.Scraper.Scrape", i18n.ERROR_UPSTREAM_FETCH, err).Code(http.StatusBadGateway)
	}

	cacheSet(ctx, c, key, res, SCRAPE_CACHE_TTL)
	return res, nil
}

type PaperQuery struct {
	Title string
	Index *int
	Link  string
}

func (l *PaperLogic) resolve(q PaperQuery) (types.Paper, error) {
	ds := l.core.Srv().Dataset()
	switch {
	case q.Title != "":
		p, err := ds.FindByTitle(q.Title)
		if err != nil {
			return p, errors.New("PaperLogic.resolve.FindByTitle", i18n.ERROR_NOTFOUND, err).Code(http.StatusNotFound)
		}
		return p, nil
	case q.Index != nil:
		p, err := ds.Get(*q.Index)
		if err != nil {
			return p, errors.New("PaperLogic.resolve.Get", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
		}
		return p, nil
	case q.Link != "":
		if p, ok := ds.FindByLink(q.Link); ok {
			return p, nil
		}
		return types.Paper{Index: -1, Link: q.Link}, nil
	default:
		p, err := ds.Get(0)
		if err != nil {
			return p, errors.New("PaperLogic.resolve.Default", i18n.ERROR_NOTFOUND, dataset.ErrNotFound).Code(http.StatusNotFound)
		}
		return p, nil
	}
}

// Detail scrapes the requested paper and summarizes it for demographic.
// A missing or failing model degrades to a placeholder summary.
func (l *PaperLogic) Detail(q PaperQuery, demographic string) (*types.PaperDetail, error) {
	paper, err := l.resolve(q)
	if err != nil {
		return nil, err
	}
	if paper.Link == "" {
		return nil, errors.New("PaperLogic.Detail.Link", i18n.ERROR_INVALIDARGUMENT, dataset.ErrNoLink).Code(http.StatusBadRequest)
	}

	scraped, err := scrapeLink(l.ctx, l.core, paper.Link)
	if err != nil {
		return nil, errors.Trace("PaperLogic.Detail", err)
	}

	detail := &types.PaperDetail{
		ScrapeResult: scraped,
		CSVTitle:     paper.Title,
		Link:         paper.Link,
		Index:        paper.Index,
		Total:        l.core.Srv().Dataset().Total(),
		Demographic:  l.demographic(demographic),
	}
	if detail.ImageLinks == nil {
		detail.ImageLinks = []string{}
	}

	detail.Summary, detail.SummaryAvailable = l.summarize(detail)

	if userID := l.GetUserInfo().User; userID != "" {
		title := firstNonEmpty(paper.Title, scraped.Title)
		if entry, err := l.core.Store().JournalEntryStore().GetByTitle(l.ctx, userID, title); err == nil && entry != nil {
			detail.Saved = true
		}
	}
	return detail, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (l *PaperLogic) summarize(detail *types.PaperDetail) (string, bool) {
	a := l.core.Srv().AI()
	if !a.SummaryEnabled() {
		return summary.PLACEHOLDER, false
	}

	key := "stellar:summary:" + utils.MD5(detail.Link+"|"+string(detail.Demographic))
	if cached, ok := cacheGet[string](l.ctx, l.core, key); ok {
		return cached, true
	}

	ctx, cancel := context.WithTimeout(l.ctx, LLM_TIMEOUT)
	defer cancel()

	prompt := summary.BuildSummaryPrompt(l.core.Cfg().Prompt.SummaryOverrides(), detail.Demographic)
	res, err := a.Summarize(ctx, prompt, ai.FormatPaperDocument(detail.Title, detail.Content))
	l.core.Metrics().ObserveLLM(srv.USAGE_SUMMARIZE, err)
	if err != nil {
		slog.Error("Failed to summarize paper", slog.String("link", detail.Link), slog.String("error", err.Error()),
			slog.String("component", "PaperLogic.summarize"))
		return summary.PLACEHOLDER, false
	}
	text := strings.TrimSpace(res.Summary)
	if text == "" {
		return summary.PLACEHOLDER, false
	}

	cacheSet(l.ctx, l.core, key, res.Summary, SUMMARY_CACHE_TTL)
	return res.Summary, true
}

// Reader scrapes link without summarizing it.
func (l *PaperLogic) Reader(link string) (*types.ScrapeResult, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, errors.New("PaperLogic.Reader.Validate", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}
	res, err := scrapeLink(l.ctx, l.core, link)
	if err != nil {
		return nil, errors.Trace("PaperLogic.Reader", err)
	}
	return &res, nil
}
