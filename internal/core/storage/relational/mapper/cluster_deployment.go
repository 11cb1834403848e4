package mapper

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

// ClusterDeploymentMapper persists resource.ClusterDeployment. Its id column
// carries a foreign key to cluster_configuration(id): inserting a deployment
// for a cluster that doesn't exist yet fails with a wrapped FK-violation
// error (spec §3 invariant 3, exercised by scenario 3 in spec §8).
type ClusterDeploymentMapper struct{}

func (ClusterDeploymentMapper) Insert(ctx context.Context, q Queryer, id uuid.UUID, value any) error {
	_ = value.(resource.ClusterDeployment)
	_, err := q.ExecContext(ctx, `
		INSERT INTO cluster_deployment (id) VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`, id)
	if err != nil {
		return wrap(resource.ErrorInsert, resource.KindClusterDeployment, id, err)
	}
	return nil
}

func (m ClusterDeploymentMapper) Remove(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	prior, ok, err := m.Get(ctx, q, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM cluster_deployment WHERE id = $1`, id); err != nil {
		return nil, false, wrap(resource.ErrorRemove, resource.KindClusterDeployment, id, err)
	}
	return prior, true, nil
}

func (ClusterDeploymentMapper) Get(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	row := q.QueryRowContext(ctx, `SELECT id FROM cluster_deployment WHERE id = $1`, id)
	var found uuid.UUID
	if err := row.Scan(&found); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, wrap(resource.ErrorGet, resource.KindClusterDeployment, id, err)
	}
	return resource.ClusterDeployment{ID: resource.ClusterID(found)}, true, nil
}

func (ClusterDeploymentMapper) List(ctx context.Context, q Queryer) ([]any, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM cluster_deployment ORDER BY id`)
	if err != nil {
		return nil, wrap(resource.ErrorList, resource.KindClusterDeployment, uuid.Nil, err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, wrap(resource.ErrorList, resource.KindClusterDeployment, uuid.Nil, err)
		}
		out = append(out, resource.ClusterDeployment{ID: resource.ClusterID(id)})
	}
	return out, rows.Err()
}
