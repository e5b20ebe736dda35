package srv

import (
	"net/http"
	"time"

	"github.com/breeew/stellar-api/pkg/dataset"
	"github.com/breeew/stellar-api/pkg/scraper"
	"github.com/breeew/stellar-api/pkg/security"
)

type Srv struct {
	ai      *AI
	scraper *scraper.Scraper
	signer  *security.Signer
	dataset *dataset.Dataset
}

func SetupSrvs(opts ...ApplyFunc) *Srv {
	a := &Srv{
		ai:      NewAI(),
		scraper: scraper.New(scraper.NewFetcher()),
		dataset: dataset.New(nil),
	}

	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (s *Srv) AI() *AI {
	return s.ai
}

func (s *Srv) Scraper() *scraper.Scraper {
	return s.scraper
}

func (s *Srv) Signer() *security.Signer {
	return s.signer
}

func (s *Srv) Dataset() *dataset.Dataset {
	return s.dataset
}

type ScraperConfig struct {
	UserAgent string `toml:"user_agent"`
	// seconds of each fetch method
	Timeout int    `toml:"timeout"`
	Proxy   string `toml:"proxy"`
}

func ApplyScraper(cfg ScraperConfig, client *http.Client, observer func(method string, err error)) ApplyFunc {
	return func(s *Srv) {
		opts := []scraper.FetcherOption{
			scraper.WithUserAgent(cfg.UserAgent),
			scraper.WithTimeout(time.Duration(cfg.Timeout) * time.Second),
			scraper.WithProxy(cfg.Proxy),
		}
		if client != nil {
			opts = append(opts, scraper.WithHTTPClient(client))
		}
		if observer != nil {
			opts = append(opts, scraper.WithObserver(observer))
		}
		s.scraper = scraper.New(scraper.NewFetcher(opts...))
	}
}

func ApplySigner(secret string) ApplyFunc {
	return func(s *Srv) {
		s.signer = security.NewSigner(secret)
	}
}

func ApplyDataset(d *dataset.Dataset) ApplyFunc {
	return func(s *Srv) {
		if d != nil {
			s.dataset = d
		}
	}
}
