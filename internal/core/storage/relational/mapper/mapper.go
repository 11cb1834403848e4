// Package mapper implements the per-kind persistable mappers of spec §4.5:
// each resource kind's translation between its domain value and its
// relational row-set. Grounded on
// LerianStudio-midaz/components/ledger/internal/adapters/postgres/account/account.postgresql.go
// (raw parameterized SQL + squirrel-built filtered selects, pgconn.PgError
// handling) and on
// original_source/opendut-carl/src/persistence/model/query/peer_descriptor.rs
// (composite parent+child insert/list ordering) and
// .../persistence/query/cluster_device.rs (join-table upsert mapper).
package mapper

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"

	"github.com/opendut/carl/internal/core/resource"
)

// Queryer is the narrow surface both *sql.DB and *sql.Tx satisfy, letting
// every mapper run unmodified whether invoked directly (Backend.Get/List) or
// inside an open transaction (transaction.Insert/Remove/Get/List).
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Mapper is one resource kind's relational insert/remove/get/list, all
// operating through whatever Queryer it's given.
type Mapper interface {
	Insert(ctx context.Context, q Queryer, id uuid.UUID, value any) error
	Remove(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error)
	Get(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error)
	List(ctx context.Context, q Queryer) ([]any, error)
}

// Registry returns one Mapper per resource kind, wired with the schema this
// package's migrations create.
func Registry() map[resource.Kind]Mapper {
	return map[resource.Kind]Mapper{
		resource.KindClusterConfiguration: &ClusterConfigurationMapper{},
		resource.KindClusterDeployment:    &ClusterDeploymentMapper{},
		resource.KindPeerDescriptor:       &PeerDescriptorMapper{},
		resource.KindPeerConfiguration:    &PeerConfigurationMapper{},
		resource.KindPeerConfigurationOld: &PeerConfigurationLegacyMapper{},
		resource.KindPeerState:            &PeerStateMapper{},
	}
}

// wrap converts a raw driver/SQL error into a *resource.Error. A foreign-key
// violation (pgconn.PgError with a ConstraintName) is annotated with the
// offending constraint so the enclosing transaction's failure is legible —
// this is the Go rendering of spec §3 invariant 3 and of the teacher's
// ValidatePGError/ConstraintName switch, generalized instead of enumerating
// every constraint name by hand since this schema's constraints are uniform
// "child references parent" foreign keys rather than domain-specific rules.
func wrap(op resource.ErrorKind, kind resource.Kind, id uuid.UUID, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return resource.NewError(op, kind, id, errors.Wrapf(err, "violates constraint %q", pgErr.ConstraintName))
	}
	return resource.NewError(op, kind, id, err)
}
