package sqlstore

import (
	"context"
	"embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/breeew/stellar-api/internal/store"
	"github.com/breeew/stellar-api/pkg/register"
	"github.com/breeew/stellar-api/pkg/sqlstore"
)

func init() {
	sq.StatementBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

//go:embed sql/*.sql
var CreateTableFiles embed.FS

var _ store.Provider = (*Provider)(nil)

type Provider struct {
	*sqlstore.SqlProvider
	stores *Stores
}

type Stores struct {
	store.JournalEntryStore
	store.JournalConnectionStore
	store.UserStore
}

type registerKey struct{}

func MustSetup(m sqlstore.ConnectConfig, s ...sqlstore.ConnectConfig) func() *Provider {
	provider := &Provider{
		SqlProvider: sqlstore.MustSetupProvider(m, s...),
		stores:      &Stores{},
	}

	for _, f := range register.ResolveFuncHandlers[*Provider](registerKey{}) {
		f(provider)
	}

	return func() *Provider {
		return provider
	}
}

// Install creates the tables when they do not exist yet.
func (p *Provider) Install() error {
	for _, tableFile := range []string{
		"sql/user.sql",
		"sql/journal_entry.sql",
		"sql/journal_connection.sql",
	} {
		raw, err := CreateTableFiles.ReadFile(tableFile)
		if err != nil {
			return err
		}

		if _, err = p.GetMaster().Exec(string(raw)); err != nil {
			return fmt.Errorf("install %s: %w", tableFile, err)
		}
	}
	return nil
}

func (p *Provider) JournalEntryStore() store.JournalEntryStore {
	return p.stores.JournalEntryStore
}

func (p *Provider) JournalConnectionStore() store.JournalConnectionStore {
	return p.stores.JournalConnectionStore
}

func (p *Provider) UserStore() store.UserStore {
	return p.stores.UserStore
}

type SqlProviderAchieve interface {
	GetMaster(ctxs ...context.Context) sqlstore.SqlCommon
	GetReplica(ctxs ...context.Context) sqlstore.SqlCommon
}

type CommonFields struct {
	provider   SqlProviderAchieve
	table      string
	allColumns []string
}

func (c *CommonFields) SetProvider(p SqlProviderAchieve) {
	c.provider = p
}

func (c *CommonFields) SetTable(t interface{ Name() string }) {
	c.table = t.Name()
}

func (c *CommonFields) SetAllColumns(cols ...string) {
	c.allColumns = cols
}

func (c *CommonFields) GetTable() string {
	return c.table
}

func (c *CommonFields) GetAllColumns() []string {
	return c.allColumns
}

func (c *CommonFields) GetMaster(ctx context.Context) sqlstore.SqlCommon {
	return c.provider.GetMaster(ctx)
}

func (c *CommonFields) GetReplica(ctx context.Context) sqlstore.SqlCommon {
	return c.provider.GetReplica(ctx)
}

func ErrorSqlBuild(err error) error {
	return fmt.Errorf("failed to build sql, %w", err)
}

const pgUniqueViolation = "23505"

// translateError maps driver errors to the store error set.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrDuplicateKey, pqErr.Constraint)
	}
	return err
}
