package mapper

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/opendut/carl/internal/core/resource"
)

// PeerDescriptorMapper persists resource.PeerDescriptor, composing the
// network_interface, device and executor child tables. Grounded on
// original_source/opendut-carl/src/persistence/model/query/peer_descriptor.rs:
// insert order is parent row, then interfaces, then devices, then executors;
// list reverses the composition, querying each relation and assembling.
type PeerDescriptorMapper struct{}

func (PeerDescriptorMapper) Insert(ctx context.Context, q Queryer, id uuid.UUID, value any) error {
	pd := value.(resource.PeerDescriptor)

	_, err := q.ExecContext(ctx, `
		INSERT INTO peer_descriptor (id, name, location, bridge_name) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			location = EXCLUDED.location,
			bridge_name = EXCLUDED.bridge_name
	`, id, pd.Name, pd.Location, pd.Network.BridgeName)
	if err != nil {
		return wrap(resource.ErrorInsert, resource.KindPeerDescriptor, id, err)
	}

	if err := replaceNetworkInterfaces(ctx, q, id, pd.Network.Interfaces); err != nil {
		return wrap(resource.ErrorInsert, resource.KindPeerDescriptor, id, err)
	}
	if err := replaceDevices(ctx, q, id, pd.Topology.Devices); err != nil {
		return wrap(resource.ErrorInsert, resource.KindPeerDescriptor, id, err)
	}
	if err := replaceExecutors(ctx, q, id, pd.Executors); err != nil {
		return wrap(resource.ErrorInsert, resource.KindPeerDescriptor, id, err)
	}
	return nil
}

func (m PeerDescriptorMapper) Remove(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	prior, ok, err := m.Get(ctx, q, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	// Child rows (network_interface, device, executor) carry ON DELETE
	// CASCADE foreign keys to peer_descriptor(id) — spec §4.5: "a logical
	// remove relies on referential cascade: deleting the parent row removes
	// children."
	if _, err := q.ExecContext(ctx, `DELETE FROM peer_descriptor WHERE id = $1`, id); err != nil {
		return nil, false, wrap(resource.ErrorRemove, resource.KindPeerDescriptor, id, err)
	}
	return prior, true, nil
}

func (PeerDescriptorMapper) Get(ctx context.Context, q Queryer, id uuid.UUID) (any, bool, error) {
	var name string
	var location *string
	var bridgeName *string
	row := q.QueryRowContext(ctx, `SELECT name, location, bridge_name FROM peer_descriptor WHERE id = $1`, id)
	if err := row.Scan(&name, &location, &bridgeName); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, wrap(resource.ErrorGet, resource.KindPeerDescriptor, id, err)
	}

	interfaces, err := listNetworkInterfaces(ctx, q, id)
	if err != nil {
		return nil, false, wrap(resource.ErrorGet, resource.KindPeerDescriptor, id, err)
	}
	devices, err := listDevices(ctx, q, id)
	if err != nil {
		return nil, false, wrap(resource.ErrorGet, resource.KindPeerDescriptor, id, err)
	}
	executors, err := listExecutors(ctx, q, id)
	if err != nil {
		return nil, false, wrap(resource.ErrorGet, resource.KindPeerDescriptor, id, err)
	}

	return resource.PeerDescriptor{
		ID:       resource.PeerID(id),
		Name:     name,
		Location: location,
		Network: resource.PeerNetworkDescriptor{
			Interfaces: interfaces,
			BridgeName: bridgeName,
		},
		Topology:  resource.PeerTopology{Devices: devices},
		Executors: executors,
	}, true, nil
}

func (m PeerDescriptorMapper) List(ctx context.Context, q Queryer) ([]any, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM peer_descriptor ORDER BY id`)
	if err != nil {
		return nil, wrap(resource.ErrorList, resource.KindPeerDescriptor, uuid.Nil, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, wrap(resource.ErrorList, resource.KindPeerDescriptor, uuid.Nil, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(resource.ErrorList, resource.KindPeerDescriptor, uuid.Nil, err)
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
