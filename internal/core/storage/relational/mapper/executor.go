package mapper

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

// executorPayload is the JSON shape stored in executor.payload: exactly one
// of Container/Executable is populated, mirroring resource.ExecutorDescriptor
// (spec §4.5 step 4: "upsert an executor row and its kind-specific child
// rows ... or other executor variants" — rendered here as a serialised
// variant payload rather than further-normalized per-variant tables, see
// SPEC_FULL.md Open Question 3).
type executorPayload struct {
	Container  *resource.ContainerExecutor  `json:"container,omitempty"`
	Executable *resource.ExecutableExecutor `json:"executable,omitempty"`
}

func replaceExecutors(ctx context.Context, q Queryer, peerID uuid.UUID, executors []resource.ExecutorDescriptor) error {
	keep := make([]uuid.UUID, 0, len(executors))
	for _, e := range executors {
		payload, err := json.Marshal(executorPayload{Container: e.Container, Executable: e.Executable})
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO executor (id, peer_id, kind, payload)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET kind = EXCLUDED.kind, payload = EXCLUDED.payload
		`, e.ID, peerID, string(e.Kind), payload)
		if err != nil {
			return err
		}
		keep = append(keep, e.ID)
	}
	return deleteMissing(ctx, q, "executor", peerID, keep)
}

func listExecutors(ctx context.Context, q Queryer, peerID uuid.UUID) ([]resource.ExecutorDescriptor, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, kind, payload FROM executor WHERE peer_id = $1 ORDER BY id
	`, peerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []resource.ExecutorDescriptor
	for rows.Next() {
		var id uuid.UUID
		var kind string
		var raw []byte
		if err := rows.Scan(&id, &kind, &raw); err != nil {
			return nil, err
		}
		var payload executorPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, err
		}
		out = append(out, resource.ExecutorDescriptor{
			ID:         id,
			Kind:       resource.ExecutorKind(kind),
			Container:  payload.Container,
			Executable: payload.Executable,
		})
	}
	return out, rows.Err()
}
