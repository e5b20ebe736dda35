package sqlstore

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/breeew/stellar-api/pkg/register"
	"github.com/breeew/stellar-api/pkg/types"
)

func init() {
	register.RegisterFunc(registerKey{}, func(provider *Provider) {
		provider.stores.JournalConnectionStore = NewJournalConnectionStore(provider)
	})
}

// JournalConnectionStore keeps one row per user drawn edge, so adding or
// removing an edge never rewrites the other edges of the source entry.
type JournalConnectionStore struct {
	CommonFields
}

func NewJournalConnectionStore(provider SqlProviderAchieve) *JournalConnectionStore {
	repo := &JournalConnectionStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_JOURNAL_CONNECTION)
	repo.SetAllColumns("user_id", "source_entry_id", "target_entry_id", "relationship", "edge_type", "ai_generated", "created_at")
	return repo
}

func (s *JournalConnectionStore) Upsert(ctx context.Context, data types.JournalConnection) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.UserID, data.SourceEntryID, data.TargetEntryID, data.Relationship, data.EdgeType, data.AIGenerated, data.CreatedAt).
		Suffix("ON CONFLICT (user_id, source_entry_id, target_entry_id) DO UPDATE SET relationship = EXCLUDED.relationship, edge_type = EXCLUDED.edge_type, ai_generated = EXCLUDED.ai_generated")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...); err != nil {
		return translateError(err)
	}
	return nil
}

func (s *JournalConnectionStore) Delete(ctx context.Context, userID, sourceID, targetID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.Eq{"user_id": userID, "source_entry_id": sourceID, "target_entry_id": targetID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	result, err := s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	if err != nil {
		return err
	}
	if affected, err := result.RowsAffected(); err != nil {
		return err
	} else if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *JournalConnectionStore) ListByUser(ctx context.Context, userID string) ([]types.JournalConnection, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.JournalConnection
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *JournalConnectionStore) DeleteByEntry(ctx context.Context, userID, entryID string) error {
	query := sq.Delete(s.GetTable()).Where(sq.And{
		sq.Eq{"user_id": userID},
		sq.Or{sq.Eq{"source_entry_id": entryID}, sq.Eq{"target_entry_id": entryID}},
	})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}
