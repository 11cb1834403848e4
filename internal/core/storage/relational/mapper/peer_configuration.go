package mapper

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

// PeerConfigurationMapper persists resource.PeerConfiguration. The desired
// executor set is stored as a single JSON column rather than normalized
// child rows — see SPEC_FULL.md Open Question 3 for the rationale shared
// with the peer descriptor's executor rows.
type PeerConfigurationMapper struct{}

func (PeerConfigurationMapper) Insert(ctx context.Context, q Queryer, id uuid.UUID, value any) error {
	pc := value.(resource.PeerConfiguration)
	payload, err := json.Marshal(pc.Executors)
	if err != nil {
		return wrap(resource.ErrorInsert, resource.KindPeerConfiguration, id, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO peer_configuration (id, executors) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET executors = EXCLUDED.executors
	`, id, payload)
	if err != nil {
		return wrap(resource.ErrorInsert, resource.KindPeerConfiguration, id, err)
	}
	return nil
}

func (m PeerConfigurationMapper) Remove(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	prior, ok, err := m.Get(ctx, q, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM peer_configuration WHERE id = $1`, id); err != nil {
		return nil, false, wrap(resource.ErrorRemove, resource.KindPeerConfiguration, id, err)
	}
	return prior, true, nil
}

func (PeerConfigurationMapper) Get(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	var payload []byte
	row := q.QueryRowContext(ctx, `SELECT executors FROM peer_configuration WHERE id = $1`, id)
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, wrap(resource.ErrorGet, resource.KindPeerConfiguration, id, err)
	}
	var executors []resource.ExecutorDescriptor
	if err := json.Unmarshal(payload, &executors); err != nil {
		return nil, false, wrap(resource.ErrorValidation, resource.KindPeerConfiguration, id, err)
	}
	return resource.PeerConfiguration{ID: resource.PeerID(id), Executors: executors}, true, nil
}

func (m PeerConfigurationMapper) List(ctx context.Context, q Queryer) ([]any, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM peer_configuration ORDER BY id`)
	if err != nil {
		return nil, wrap(resource.ErrorList, resource.KindPeerConfiguration, uuid.Nil, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, wrap(resource.ErrorList, resource.KindPeerConfiguration, uuid.Nil, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(resource.ErrorList, resource.KindPeerConfiguration, uuid.Nil, err)
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
