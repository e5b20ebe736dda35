package v1_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/breeew/stellar-api/internal/core"
	"github.com/breeew/stellar-api/internal/core/srv"
	v1 "github.com/breeew/stellar-api/internal/logic/v1"
	"github.com/breeew/stellar-api/internal/plugins"
	"github.com/breeew/stellar-api/pkg/ai"
	"github.com/breeew/stellar-api/pkg/security"
)

type fakeAI struct {
	summary string
	titles  []string
	err     error

	prompts []string
}

func (f *fakeAI) Summarize(ctx context.Context, prompt, doc string) (ai.SummarizeResult, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return ai.SummarizeResult{}, f.err
	}
	return ai.SummarizeResult{Summary: f.summary, Model: "fake"}, nil
}

func (f *fakeAI) FilterTitles(ctx context.Context, prompt string, titles []string) (ai.FilterResult, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return ai.FilterResult{}, f.err
	}
	return ai.FilterResult{Titles: f.titles, Model: "fake"}, nil
}

var errModelDown = errors.New("model down")

func setupCore(t *testing.T, opts ...srv.ApplyFunc) *core.Core {
	t.Helper()
	cfg := core.CoreConfig{
		Log:      core.Log{Level: "error"},
		Store:    core.StoreConfig{Driver: core.STORE_DRIVER_MEMORY},
		Security: core.Security{JWTSecret: "test-secret"},
	}
	c := core.MustSetupCore(cfg, opts...)
	plugins.Setup(c.InstallPlugins, "selfhost")
	return c
}

// userContext signs up a fresh user and returns a context carrying its
// claims.
func userContext(t *testing.T, c *core.Core, email string) (context.Context, string) {
	t.Helper()
	id, err := v1.NewUserLogic(context.Background(), c).Signup("tester", email, "password", "researcher")
	require.NoError(t, err)
	return v1.WithTokenClaim(context.Background(), security.TokenClaims{
		Appid:   c.DefaultAppid(),
		AppName: v1.APP_NAME,
		User:    id,
	}), id
}

func paperServer(t *testing.T, html string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const paperHTML = `<html><head><title>Bone loss in orbit - PMC</title></head><body>
<h1 class="content-title">Bone loss in orbit</h1>
<div class="abstract">Mice flown for thirty days lost trabecular bone.</div>
<figure><img src="/bin/fig1.sml.jpg"></figure>
</body></html>`
