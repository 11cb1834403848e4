package mapper

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

// replaceDevices upserts a peer's topology device rows (spec §4.5 step 3).
func replaceDevices(ctx context.Context, q Queryer, peerID uuid.UUID, devices []resource.DeviceDescriptor) error {
	keep := make([]uuid.UUID, 0, len(devices))
	for _, d := range devices {
		tags, err := json.Marshal(d.Tags)
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO device (id, peer_id, name, description, tags)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				tags = EXCLUDED.tags
		`, d.ID, peerID, d.Name, d.Description, tags)
		if err != nil {
			return err
		}
		keep = append(keep, d.ID)
	}
	return deleteMissing(ctx, q, "device", peerID, keep)
}

func listDevices(ctx context.Context, q Queryer, peerID uuid.UUID) ([]resource.DeviceDescriptor, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, description, tags FROM device WHERE peer_id = $1 ORDER BY id
	`, peerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []resource.DeviceDescriptor
	for rows.Next() {
		var d resource.DeviceDescriptor
		var tags []byte
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &tags); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tags, &d.Tags); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
