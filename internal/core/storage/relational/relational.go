// Package relational implements storage.Backend against PostgreSQL, using
// database/sql with the pgx/v5 stdlib driver, golang-migrate for schema
// setup, and the per-kind mappers in ./mapper. Grounded on
// LerianStudio-midaz/common/mpostgres/postgres.go's Connect/GetDB, simplified
// to a single (non-replica) connection since this system has no read-replica
// concept.
package relational

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
	"github.com/opendut/carl/internal/core/storage"
	"github.com/opendut/carl/internal/core/storage/relational/mapper"
	"github.com/opendut/carl/internal/core/storage/relational/migrations"
	"github.com/opendut/carl/pkg/mlog"
)

// Backend is a storage.Backend backed by a single PostgreSQL connection
// pool.
type Backend struct {
	db      *sql.DB
	mappers map[resource.Kind]mapper.Mapper
	log     mlog.Logger
}

// Connect opens the connection, runs pending migrations, and returns a ready
// Backend. It pings the database first and then runs the migrations.
func Connect(ctx context.Context, info storage.ConnectInfo, log mlog.Logger) (*Backend, error) {
	if log == nil {
		log = mlog.NoOp()
	}

	dsn, err := dataSourceName(info)
	if err != nil {
		return nil, resource.NewError(resource.ErrorConnection, "", nil, err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, resource.NewError(resource.ErrorConnection, "", nil, err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, resource.NewError(resource.ErrorConnection, "", nil, err)
	}

	if err := migrations.Up(dsn); err != nil {
		return nil, resource.NewError(resource.ErrorConnection, "", nil, err)
	}

	log.Info("relational backend connected", "url", info.URL)

	return &Backend{db: db, mappers: mapper.Registry(), log: log}, nil
}

func dataSourceName(info storage.ConnectInfo) (string, error) {
	u, err := url.Parse(info.URL)
	if err != nil {
		return "", fmt.Errorf("relational: invalid database url: %w", err)
	}
	u.User = url.UserPassword(info.Username, info.Password.Secret())
	return u.String(), nil
}

func (b *Backend) Close(_ context.Context) error {
	return b.db.Close()
}

func (b *Backend) mapperFor(kind resource.Kind) mapper.Mapper {
	m, ok := b.mappers[kind]
	if !ok {
		panic(fmt.Sprintf("relational: no mapper registered for kind %q", kind))
	}
	return m
}

func (b *Backend) Get(ctx context.Context, kind resource.Kind, id uuid.UUID) (any, bool, error) {
	return b.mapperFor(kind).Get(ctx, b.db, id)
}

func (b *Backend) List(ctx context.Context, kind resource.Kind) ([]any, error) {
	return b.mapperFor(kind).List(ctx, b.db)
}

func (b *Backend) Begin(ctx context.Context) (storage.Transaction, error) {
	sqlTx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, resource.NewError(resource.ErrorConnection, "", nil, err)
	}
	return &transaction{ctx: ctx, tx: sqlTx, mappers: b.mappers}, nil
}

type transaction struct {
	ctx     context.Context
	tx      *sql.Tx
	mappers map[resource.Kind]mapper.Mapper
}

func (t *transaction) mapperFor(kind resource.Kind) mapper.Mapper {
	m, ok := t.mappers[kind]
	if !ok {
		panic(fmt.Sprintf("relational: no mapper registered for kind %q", kind))
	}
	return m
}

func (t *transaction) Insert(ctx context.Context, kind resource.Kind, id uuid.UUID, value any) error {
	return t.mapperFor(kind).Insert(ctx, t.tx, id, value)
}

func (t *transaction) Remove(ctx context.Context, kind resource.Kind, id uuid.UUID) (any, bool, error) {
	return t.mapperFor(kind).Remove(ctx, t.tx, id)
}

func (t *transaction) Get(ctx context.Context, kind resource.Kind, id uuid.UUID) (any, bool, error) {
	return t.mapperFor(kind).Get(ctx, t.tx, id)
}

func (t *transaction) List(ctx context.Context, kind resource.Kind) ([]any, error) {
	return t.mapperFor(kind).List(ctx, t.tx)
}

func (t *transaction) Commit() error   { return t.tx.Commit() }
func (t *transaction) Rollback() error { return t.tx.Rollback() }
