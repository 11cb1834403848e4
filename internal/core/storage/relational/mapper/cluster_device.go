package mapper

import (
	"context"

	"github.com/google/uuid"
)

// replaceClusterDevices upserts the cluster's member-device join rows and
// deletes any no-longer-present ones, keyed by (cluster_id, device_id).
// Grounded on original_source's persistence/query/cluster_device.rs
// (PersistableClusterDevice, upsert-on-conflict by the composite key).
func replaceClusterDevices(ctx context.Context, q Queryer, clusterID uuid.UUID, deviceIDs []uuid.UUID) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM cluster_device WHERE cluster_id = $1`, clusterID); err != nil {
		return err
	}
	for _, deviceID := range deviceIDs {
		_, err := q.ExecContext(ctx, `
			INSERT INTO cluster_device (cluster_id, device_id) VALUES ($1, $2)
			ON CONFLICT (cluster_id, device_id) DO NOTHING
		`, clusterID, deviceID)
		if err != nil {
			return err
		}
	}
	return nil
}

func listClusterDevices(ctx context.Context, q Queryer, clusterID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.QueryContext(ctx, `SELECT device_id FROM cluster_device WHERE cluster_id = $1 ORDER BY device_id`, clusterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
