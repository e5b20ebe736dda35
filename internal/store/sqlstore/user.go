package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/breeew/stellar-api/pkg/register"
	"github.com/breeew/stellar-api/pkg/types"
)

func init() {
	register.RegisterFunc(registerKey{}, func(provider *Provider) {
		provider.stores.UserStore = NewUserStore(provider)
	})
}

// UserStore 处理 stellar_user 表的操作
type UserStore struct {
	CommonFields
}

func NewUserStore(provider SqlProviderAchieve) *UserStore {
	repo := &UserStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_USER)
	repo.SetAllColumns("id", "name", "email", "password", "demographic", "created_at", "updated_at")
	return repo
}

// Create 创建新的用户
func (s *UserStore) Create(ctx context.Context, data types.User) error {
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.Name, data.Email, data.Password, data.Demographic, data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...); err != nil {
		return translateError(err)
	}
	return nil
}

func (s *UserStore) get(ctx context.Context, where sq.Eq) (*types.User, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(where)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.User
	if err = s.GetReplica(ctx).GetContext(ctx, &res, queryString, args...); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetUser 根据ID获取用户
func (s *UserStore) GetUser(ctx context.Context, id string) (*types.User, error) {
	return s.get(ctx, sq.Eq{"id": id})
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*types.User, error) {
	return s.get(ctx, sq.Eq{"email": email})
}

func (s *UserStore) UpdateDemographic(ctx context.Context, id string, demographic types.Demographic, updatedAt int64) error {
	query := sq.Update(s.GetTable()).
		Set("demographic", demographic).
		Set("updated_at", updatedAt).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).ExecContext(ctx, queryString, args...)
	return err
}
