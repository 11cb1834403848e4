package mapper

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

// PeerStateMapper persists resource.PeerState: id plus a reachability enum.
type PeerStateMapper struct{}

func (PeerStateMapper) Insert(ctx context.Context, q Queryer, id uuid.UUID, value any) error {
	ps := value.(resource.PeerState)
	_, err := q.ExecContext(ctx, `
		INSERT INTO peer_state (id, reachability) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET reachability = EXCLUDED.reachability
	`, id, string(ps.Reachability))
	if err != nil {
		return wrap(resource.ErrorInsert, resource.KindPeerState, id, err)
	}
	return nil
}

func (m PeerStateMapper) Remove(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	prior, ok, err := m.Get(ctx, q, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM peer_state WHERE id = $1`, id); err != nil {
		return nil, false, wrap(resource.ErrorRemove, resource.KindPeerState, id, err)
	}
	return prior, true, nil
}

func (PeerStateMapper) Get(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	var reachability string
	row := q.QueryRowContext(ctx, `SELECT reachability FROM peer_state WHERE id = $1`, id)
	if err := row.Scan(&reachability); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, wrap(resource.ErrorGet, resource.KindPeerState, id, err)
	}
	return resource.PeerState{ID: resource.PeerID(id), Reachability: resource.PeerReachability(reachability)}, true, nil
}

func (m PeerStateMapper) List(ctx context.Context, q Queryer) ([]any, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, reachability FROM peer_state ORDER BY id`)
	if err != nil {
		return nil, wrap(resource.ErrorList, resource.KindPeerState, uuid.Nil, err)
	}
	defer rows.Close()

	var out []any
	for rows.Next() {
		var id uuid.UUID
		var reachability string
		if err := rows.Scan(&id, &reachability); err != nil {
			return nil, wrap(resource.ErrorList, resource.KindPeerState, uuid.Nil, err)
		}
		out = append(out, resource.PeerState{ID: resource.PeerID(id), Reachability: resource.PeerReachability(reachability)})
	}
	return out, rows.Err()
}
