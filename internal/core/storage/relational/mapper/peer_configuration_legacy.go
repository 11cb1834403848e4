package mapper

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

// PeerConfigurationLegacyMapper persists resource.PeerConfigurationLegacy,
// kept alongside PeerConfiguration for peers that haven't upgraded (spec §3).
type PeerConfigurationLegacyMapper struct{}

func (PeerConfigurationLegacyMapper) Insert(ctx context.Context, q Queryer, id uuid.UUID, value any) error {
	pc := value.(resource.PeerConfigurationLegacy)
	payload, err := json.Marshal(pc.Executors)
	if err != nil {
		return wrap(resource.ErrorInsert, resource.KindPeerConfigurationOld, id, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO peer_configuration_legacy (id, executors) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET executors = EXCLUDED.executors
	`, id, payload)
	if err != nil {
		return wrap(resource.ErrorInsert, resource.KindPeerConfigurationOld, id, err)
	}
	return nil
}

func (m PeerConfigurationLegacyMapper) Remove(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	prior, ok, err := m.Get(ctx, q, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM peer_configuration_legacy WHERE id = $1`, id); err != nil {
		return nil, false, wrap(resource.ErrorRemove, resource.KindPeerConfigurationOld, id, err)
	}
	return prior, true, nil
}

func (PeerConfigurationLegacyMapper) Get(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	var payload []byte
	row := q.QueryRowContext(ctx, `SELECT executors FROM peer_configuration_legacy WHERE id = $1`, id)
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, wrap(resource.ErrorGet, resource.KindPeerConfigurationOld, id, err)
	}
	var executors []resource.LegacyExecutorDescriptor
	if err := json.Unmarshal(payload, &executors); err != nil {
		return nil, false, wrap(resource.ErrorValidation, resource.KindPeerConfigurationOld, id, err)
	}
	return resource.PeerConfigurationLegacy{ID: resource.PeerID(id), Executors: executors}, true, nil
}

func (m PeerConfigurationLegacyMapper) List(ctx context.Context, q Queryer) ([]any, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM peer_configuration_legacy ORDER BY id`)
	if err != nil {
		return nil, wrap(resource.ErrorList, resource.KindPeerConfigurationOld, uuid.Nil, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, wrap(resource.ErrorList, resource.KindPeerConfigurationOld, uuid.Nil, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(resource.ErrorList, resource.KindPeerConfigurationOld, uuid.Nil, err)
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
