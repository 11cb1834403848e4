package resource

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// ClusterID identifies a cluster configuration and its deployment. Distinct
// from PeerID at the type level even though both are UUID-backed, so the
// resource structs' id fields cannot be mixed up. The resourcemanager
// operations take a plain uuid.UUID for every kind, so they do not check
// which kind an id belongs to.
type ClusterID uuid.UUID

// PeerID identifies a peer descriptor, its current and legacy configuration,
// and its state.
type PeerID uuid.UUID

// NewClusterID generates a random cluster id.
func NewClusterID() ClusterID { return ClusterID(uuid.New()) }

// NewPeerID generates a random peer id.
func NewPeerID() PeerID { return PeerID(uuid.New()) }

func (id ClusterID) UUID() uuid.UUID { return uuid.UUID(id) }
func (id PeerID) UUID() uuid.UUID    { return uuid.UUID(id) }

func (id ClusterID) String() string { return uuid.UUID(id).String() }
func (id PeerID) String() string    { return uuid.UUID(id).String() }

func (id ClusterID) Value() (driver.Value, error) { return uuid.UUID(id).String(), nil }
func (id PeerID) Value() (driver.Value, error)    { return uuid.UUID(id).String(), nil }

func (id *ClusterID) Scan(src any) error {
	u, err := scanUUID(src)
	if err != nil {
		return err
	}
	*id = ClusterID(u)
	return nil
}

func (id *PeerID) Scan(src any) error {
	u, err := scanUUID(src)
	if err != nil {
		return err
	}
	*id = PeerID(u)
	return nil
}

func scanUUID(src any) (uuid.UUID, error) {
	switch v := src.(type) {
	case string:
		return uuid.Parse(v)
	case []byte:
		return uuid.ParseBytes(v)
	case [16]byte:
		return uuid.UUID(v), nil
	default:
		return uuid.UUID{}, fmt.Errorf("resource: cannot scan %T into uuid-backed id", src)
	}
}
