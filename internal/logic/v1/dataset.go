package v1

import (
	"context"
	"net/http"
	"strings"

	"github.com/breeew/stellar-api/internal/core"
	"github.com/breeew/stellar-api/internal/core/srv"
	"github.com/breeew/stellar-api/pkg/ai/agents/search"
	"github.com/breeew/stellar-api/pkg/dataset"
	"github.com/breeew/stellar-api/pkg/errors"
	"github.com/breeew/stellar-api/pkg/i18n"
	"github.com/breeew/stellar-api/pkg/types"
)

type DatasetLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewDatasetLogic(ctx context.Context, core *core.Core) *DatasetLogic {
	l := &DatasetLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: setupUserInfo(ctx, core),
	}

	return l
}

func (l *DatasetLogic) List(keywords string, tags []string, page, pagesize uint64) ([]types.Paper, int) {
	return l.core.Srv().Dataset().List(dataset.Filter{
		Keywords: keywords,
		Tags:     tags,
	}, page, pagesize)
}

// Search asks the model which dataset titles match prompt.
func (l *DatasetLogic) Search(prompt, demographic string) ([]types.Paper, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errors.New("DatasetLogic.Search.Validate", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	a := l.core.Srv().AI()
	if !a.SearchEnabled() {
		return nil, errors.New("DatasetLogic.Search.Srv.AI", i18n.ERROR_UNSUPPORTED_FEATURE, srv.ERROR_UNSUPPORTED_FEATURE).Code(http.StatusForbidden)
	}

	ds := l.core.Srv().Dataset()
	if ds.Total() == 0 {
		return []types.Paper{}, nil
	}

	ctx, cancel := context.WithTimeout(l.ctx, LLM_TIMEOUT)
	defer cancel()

	instruction := search.BuildFilterPrompt(l.core.Cfg().Prompt.Search, l.demographic(demographic), prompt)
	res, err := a.FilterTitles(ctx, instruction, ds.Titles())
	l.core.Metrics().ObserveLLM(srv.USAGE_SEARCH, err)
	if err != nil {
		return nil, errors.New("DatasetLogic.Search.Srv.AI.FilterTitles", i18n.ERROR_AI_UNAVAILABLE, err).Code(http.StatusBadGateway)
	}

	return ds.FindByTitles(res.Titles), nil
}
