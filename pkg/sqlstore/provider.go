package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/jmoiron/sqlx"
)

type ConnectConfig interface {
	FormatDSN() string
}

// SqlCommon is satisfied by both *sqlx.DB and *sqlx.Tx.
type SqlCommon interface {
	Exec(query string, args ...any) (sql.Result, error)
	Get(dest any, query string, args ...any) error
	Select(dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type txKey struct{}

type SqlProvider struct {
	master   *sqlx.DB
	replicas []*sqlx.DB
}

func MustSetupProvider(master ConnectConfig, replicas ...ConnectConfig) *SqlProvider {
	p := &SqlProvider{
		master: mustConnect(master),
	}
	for _, r := range replicas {
		p.replicas = append(p.replicas, mustConnect(r))
	}
	return p
}

func mustConnect(cfg ConnectConfig) *sqlx.DB {
	db, err := sqlx.Connect("postgres", cfg.FormatDSN())
	if err != nil {
		panic(fmt.Sprintf("failed to connect postgres: %v", err))
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)
	return db
}

func txFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx, ok
}

// GetMaster returns the transaction bound to ctx, or the master db.
func (p *SqlProvider) GetMaster(ctxs ...context.Context) SqlCommon {
	for _, ctx := range ctxs {
		if tx, ok := txFromContext(ctx); ok {
			return tx
		}
	}
	return p.master
}

// GetReplica reads from a random replica unless ctx carries a transaction.
func (p *SqlProvider) GetReplica(ctxs ...context.Context) SqlCommon {
	for _, ctx := range ctxs {
		if tx, ok := txFromContext(ctx); ok {
			return tx
		}
	}
	if len(p.replicas) == 0 {
		return p.master
	}
	return p.replicas[rand.Intn(len(p.replicas))]
}

// Transaction runs fn inside a transaction carried by the ctx handed to fn.
// Nested calls join the outer transaction.
func (p *SqlProvider) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := p.master.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w, rollback: %v", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
