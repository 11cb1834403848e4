package mapper

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

// replaceNetworkInterfaces upserts a peer's interface rows and deletes any
// no longer present. Each row's configuration variant is stored serialised
// (spec §4.5 step 2: "upsert an interface row ... with its configuration
// variant serialised").
func replaceNetworkInterfaces(ctx context.Context, q Queryer, peerID uuid.UUID, interfaces []resource.NetworkInterfaceDescriptor) error {
	keep := make([]uuid.UUID, 0, len(interfaces))
	for _, iface := range interfaces {
		payload, err := json.Marshal(iface.Configuration)
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO network_interface (id, peer_id, name, configuration_kind, configuration)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				configuration_kind = EXCLUDED.configuration_kind,
				configuration = EXCLUDED.configuration
		`, iface.ID, peerID, iface.Name, string(iface.Configuration.Kind), payload)
		if err != nil {
			return err
		}
		keep = append(keep, iface.ID)
	}
	return deleteMissing(ctx, q, "network_interface", peerID, keep)
}

func listNetworkInterfaces(ctx context.Context, q Queryer, peerID uuid.UUID) ([]resource.NetworkInterfaceDescriptor, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, configuration FROM network_interface WHERE peer_id = $1 ORDER BY id
	`, peerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []resource.NetworkInterfaceDescriptor
	for rows.Next() {
		var id uuid.UUID
		var name string
		var payload []byte
		if err := rows.Scan(&id, &name, &payload); err != nil {
			return nil, err
		}
		var configuration resource.NetworkInterfaceConfiguration
		if err := json.Unmarshal(payload, &configuration); err != nil {
			return nil, err
		}
		out = append(out, resource.NetworkInterfaceDescriptor{ID: id, Name: name, Configuration: configuration})
	}
	return out, rows.Err()
}

// deleteMissing removes child rows of table scoped to peerID whose id is not
// in keep — the Go rendering of "a logical insert upserts the current set,
// a logical remove relies on referential cascade" from spec §4.5 applied to
// the *update* path (full-value replacement, not partial merge, per §3).
func deleteMissing(ctx context.Context, q Queryer, table string, peerID uuid.UUID, keep []uuid.UUID) error {
	if len(keep) == 0 {
		_, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE peer_id = $1`, peerID)
		return err
	}
	placeholders := make([]any, 0, len(keep)+1)
	placeholders = append(placeholders, peerID)
	query := `DELETE FROM ` + table + ` WHERE peer_id = $1 AND id NOT IN (`
	for i, id := range keep {
		if i > 0 {
			query += ", "
		}
		query += "$" + strconv.Itoa(i+2)
		placeholders = append(placeholders, id)
	}
	query += ")"
	_, err := q.ExecContext(ctx, query, placeholders...)
	return err
}
