package sqlstore

import (
	"errors"
	"fmt"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/breeew/stellar-api/internal/store"
	"github.com/breeew/stellar-api/pkg/types"
)

func TestTranslateError(t *testing.T) {
	err := translateError(fmt.Errorf("exec: %w", &pq.Error{Code: "23505", Constraint: "idx_stellar_journal_entry_user_title"}))
	assert.True(t, errors.Is(err, store.ErrDuplicateKey))
	assert.Contains(t, err.Error(), "idx_stellar_journal_entry_user_title")

	other := &pq.Error{Code: "23503"}
	assert.Equal(t, error(other), translateError(other))
}

func TestCreateTableFiles(t *testing.T) {
	for _, f := range []string{"sql/user.sql", "sql/journal_entry.sql", "sql/journal_connection.sql"} {
		raw, err := CreateTableFiles.ReadFile(f)
		assert.NoError(t, err, f)
		assert.Contains(t, string(raw), "CREATE TABLE IF NOT EXISTS", f)
	}
}

func TestFillPaperFieldQuery(t *testing.T) {
	query, args, err := fillPaperFieldQuery(types.TABLE_JOURNAL_ENTRY.Name(), "u1", "7", types.PAPER_FIELD_SUMMARY, "generated", 99).
		PlaceholderFormat(sq.Dollar).ToSql()
	assert.NoError(t, err)

	// only the summary key is rewritten and only while it is empty
	assert.Contains(t, query, "paper = jsonb_set(paper, $1::text[], to_jsonb($2::text))")
	assert.Contains(t, query, "COALESCE(paper->>$6, '') = ''")
	assert.NotContains(t, query, "paper_title")
	assert.Equal(t, []interface{}{"{summary}", "generated", int64(99), "7", "u1", "summary"}, args)
}
