package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/breeew/stellar-api/pkg/register"
	"github.com/breeew/stellar-api/pkg/types"
	"github.com/breeew/stellar-api/pkg/utils"
)

func init() {
	register.RegisterFunc(registerKey{}, func(provider *Provider) {
		provider.stores.JournalEntryStore = NewJournalEntryStore(provider)
	})
}

type JournalEntryStore struct {
	CommonFields
}

func NewJournalEntryStore(provider SqlProviderAchieve) *JournalEntryStore {
	repo := &JournalEntryStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_JOURNAL_ENTRY)
	repo.SetAllColumns("id", "user_id", "paper", "category", "annotations", "position", "metadata", "created_at", "updated_at")
	return repo
}

func (s *JournalEntryStore) Create(ctx context.Context, data types.JournalEntry) (string, error) {
	if data.ID == "" {
		data.ID = utils.GenSpecIDStr()
	}
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}
	if data.Annotations == nil {
		data.Annotations = types.Annotations{}
	}

	query := sq.Insert(s.GetTable()).
		Columns("id", "user_id", "paper_title", "paper", "category", "annotations", "position", "metadata", "created_at", "updated_at").
		Values(data.ID, data.UserID, data.Paper.Title, data.Paper, data.Category, data.Annotations, data.Position, data.Metadata, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return "", ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...); err != nil {
		return "", translateError(err)
	}
	return data.ID, nil
}

func (s *JournalEntryStore) get(ctx context.Context, where sq.Eq) (*types.JournalEntry, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(where)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.JournalEntry
	if err = s.GetReplica(ctx).GetContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *JournalEntryStore) Get(ctx context.Context, userID, id string) (*types.JournalEntry, error) {
	return s.get(ctx, sq.Eq{"user_id": userID, "id": id})
}

func (s *JournalEntryStore) GetByTitle(ctx context.Context, userID, title string) (*types.JournalEntry, error) {
	return s.get(ctx, sq.Eq{"user_id": userID, "paper_title": title})
}

func (s *JournalEntryStore) List(ctx context.Context, userID string) ([]types.JournalEntry, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res []types.JournalEntry
	if err = s.GetReplica(ctx).SelectContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return res, nil
}

// exec runs an update or delete and reports sql.ErrNoRows when nothing
// matched.
func (s *JournalEntryStore) exec(ctx context.Context, query sq.Sqlizer) error {
	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	result, err := s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	if err != nil {
		return translateError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *JournalEntryStore) Update(ctx context.Context, userID, id string, args types.UpdateJournalEntryArgs) error {
	query := sq.Update(s.GetTable()).Set("updated_at", time.Now().Unix())
	if args.Paper != nil {
		query = query.Set("paper", *args.Paper).Set("paper_title", args.Paper.Title)
	}
	if args.Category != nil {
		query = query.Set("category", *args.Category)
	}
	if args.Annotations != nil {
		query = query.Set("annotations", *args.Annotations)
	}
	if args.Position != nil {
		query = query.Set("position", *args.Position)
	}

	return s.exec(ctx, query.Where(sq.Eq{"user_id": userID, "id": id}))
}

func (s *JournalEntryStore) UpdatePosition(ctx context.Context, userID, id string, pos types.Position) error {
	return s.exec(ctx, sq.Update(s.GetTable()).
		Set("position", pos).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"user_id": userID, "id": id}))
}

// AppendAnnotation pushes one element onto the annotations array in a
// single statement.
func (s *JournalEntryStore) AppendAnnotation(ctx context.Context, userID, id string, annotation types.Annotation) error {
	raw, err := json.Marshal([]types.Annotation{annotation})
	if err != nil {
		return err
	}
	return s.exec(ctx, sq.Update(s.GetTable()).
		Set("annotations", sq.Expr("annotations || ?::jsonb", string(raw))).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"user_id": userID, "id": id}))
}

// FillPaperField writes one key of the paper document in place, guarded on
// the key still being empty, so concurrent edits to the other paper fields
// are kept.
func (s *JournalEntryStore) FillPaperField(ctx context.Context, userID, id string, field types.PaperField, value string) (bool, error) {
	if !field.Valid() {
		return false, fmt.Errorf("unknown paper field %q", field)
	}
	if value == "" {
		return false, nil
	}
	err := s.exec(ctx, fillPaperFieldQuery(s.GetTable(), userID, id, field, value, time.Now().Unix()))
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func fillPaperFieldQuery(table, userID, id string, field types.PaperField, value string, at int64) sq.UpdateBuilder {
	return sq.Update(table).
		Set("paper", sq.Expr("jsonb_set(paper, ?::text[], to_jsonb(?::text))", "{"+string(field)+"}", value)).
		Set("updated_at", at).
		Where(sq.Eq{"user_id": userID, "id": id}).
		Where(sq.Expr("COALESCE(paper->>?, '') = ''", string(field)))
}

func (s *JournalEntryStore) RecordView(ctx context.Context, userID, id string, at int64) error {
	return s.exec(ctx, sq.Update(s.GetTable()).
		Set("metadata", sq.Expr(
			"jsonb_build_object('viewCount', COALESCE((metadata->>'viewCount')::bigint, 0) + 1, 'lastViewed', ?::bigint)", at)).
		Where(sq.Eq{"user_id": userID, "id": id}))
}

func (s *JournalEntryStore) Touch(ctx context.Context, userID, id string, at int64) error {
	return s.exec(ctx, sq.Update(s.GetTable()).
		Set("updated_at", at).
		Where(sq.Eq{"user_id": userID, "id": id}))
}

func (s *JournalEntryStore) Delete(ctx context.Context, userID, id string) error {
	return s.exec(ctx, sq.Delete(s.GetTable()).Where(sq.Eq{"user_id": userID, "id": id}))
}
