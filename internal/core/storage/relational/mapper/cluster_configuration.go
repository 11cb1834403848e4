package mapper

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

// ClusterConfigurationMapper persists resource.ClusterConfiguration,
// composing the cluster_device join table for member devices (grounded on
// persistence/query/cluster_device.rs).
type ClusterConfigurationMapper struct{}

func (ClusterConfigurationMapper) Insert(ctx context.Context, q Queryer, id uuid.UUID, value any) error {
	cc := value.(resource.ClusterConfiguration)
	_, err := q.ExecContext(ctx, `
		INSERT INTO cluster_configuration (id, name, leader_peer_id) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, leader_peer_id = EXCLUDED.leader_peer_id
	`, id, cc.Name, cc.LeaderPeerID.UUID())
	if err != nil {
		return wrap(resource.ErrorInsert, resource.KindClusterConfiguration, id, err)
	}

	if err := replaceClusterDevices(ctx, q, id, cc.Devices); err != nil {
		return wrap(resource.ErrorInsert, resource.KindClusterConfiguration, id, err)
	}
	return nil
}

func (m ClusterConfigurationMapper) Remove(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	prior, ok, err := m.Get(ctx, q, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM cluster_configuration WHERE id = $1`, id); err != nil {
		return nil, false, wrap(resource.ErrorRemove, resource.KindClusterConfiguration, id, err)
	}
	return prior, true, nil
}

func (ClusterConfigurationMapper) Get(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	var name string
	var leaderPeerID uuid.UUID
	row := q.QueryRowContext(ctx, `SELECT name, leader_peer_id FROM cluster_configuration WHERE id = $1`, id)
	if err := row.Scan(&name, &leaderPeerID); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, wrap(resource.ErrorGet, resource.KindClusterConfiguration, id, err)
	}

	devices, err := listClusterDevices(ctx, q, id)
	if err != nil {
		return nil, false, wrap(resource.ErrorGet, resource.KindClusterConfiguration, id, err)
	}

	return resource.ClusterConfiguration{
		ID:           resource.ClusterID(id),
		Name:         name,
		LeaderPeerID: resource.PeerID(leaderPeerID),
		Devices:      devices,
	}, true, nil
}

func (m ClusterConfigurationMapper) List(ctx context.Context, q Queryer) ([]any, error) {
	query, args, err := squirrel.Select("id").From("cluster_configuration").OrderBy("id").PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, wrap(resource.ErrorList, resource.KindClusterConfiguration, uuid.Nil, err)
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(resource.ErrorList, resource.KindClusterConfiguration, uuid.Nil, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, wrap(resource.ErrorList, resource.KindClusterConfiguration, uuid.Nil, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(resource.ErrorList, resource.KindClusterConfiguration, uuid.Nil, err)
	}

	out := make([]any, 0, len(ids))
	for _, id := range ids {
		value, ok, err := m.Get(ctx, q, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, value)
		}
	}
	return out, nil
}
