package resource

import "github.com/google/uuid"

// ClusterConfiguration declares a cluster's name, leader peer and the devices
// that are members of it.
type ClusterConfiguration struct {
	ID           ClusterID
	Name         string
	LeaderPeerID PeerID
	Devices      []uuid.UUID
}

func (ClusterConfiguration) ResourceKind() Kind { return KindClusterConfiguration }

// ClusterDeployment records that a cluster configuration should be actively
// deployed. Its id may reference a not-yet-existing ClusterConfiguration in
// the volatile backend; the relational backend refuses the orphan row.
type ClusterDeployment struct {
	ID ClusterID
}

func (ClusterDeployment) ResourceKind() Kind { return KindClusterDeployment }

// NetworkInterfaceConfigurationKind is the tagged-variant discriminator for a
// network interface's configuration.
type NetworkInterfaceConfigurationKind string

const (
	NetworkInterfaceEthernet NetworkInterfaceConfigurationKind = "ethernet"
	NetworkInterfaceCAN      NetworkInterfaceConfigurationKind = "can"
)

// CANParameters carries the extra fields a CAN interface variant needs; nil
// for an Ethernet interface.
type CANParameters struct {
	Bitrate       uint32
	SamplePoint   float64
	FDBitrate     *uint32
	FDSamplePoint *float64
}

// NetworkInterfaceConfiguration is a tagged variant: exactly one of its
// payload fields is meaningful, selected by Kind.
type NetworkInterfaceConfiguration struct {
	Kind NetworkInterfaceConfigurationKind
	CAN  *CANParameters
}

type NetworkInterfaceDescriptor struct {
	ID            uuid.UUID
	Name          string
	Configuration NetworkInterfaceConfiguration
}

type DeviceDescriptor struct {
	ID          uuid.UUID
	Name        string
	Description string
	Tags        []string
}

// PeerTopology is the set of devices attached to a peer.
type PeerTopology struct {
	Devices []DeviceDescriptor
}

// PeerNetworkDescriptor groups a peer's network interfaces and its optional
// bridge name.
type PeerNetworkDescriptor struct {
	Interfaces []NetworkInterfaceDescriptor
	BridgeName *string
}

// ExecutorKind is the tagged-variant discriminator for an executor
// descriptor.
type ExecutorKind string

const (
	ExecutorContainer  ExecutorKind = "container"
	ExecutorExecutable ExecutorKind = "executable"
)

type ContainerExecutor struct {
	Engine  string
	Name    string
	Image   string
	Volumes []string
	Devices []string
	Envs    map[string]string
	Ports   []string
	Command string
	Args    []string
}

type ExecutableExecutor struct {
	Path string
	Args []string
}

// ExecutorDescriptor is a tagged variant: exactly one of Container or
// Executable is populated, selected by Kind.
type ExecutorDescriptor struct {
	ID         uuid.UUID
	Kind       ExecutorKind
	Container  *ContainerExecutor
	Executable *ExecutableExecutor
}

// PeerDescriptor is the full description of a peer.
type PeerDescriptor struct {
	ID        PeerID
	Name      string
	Location  *string
	Network   PeerNetworkDescriptor
	Topology  PeerTopology
	Executors []ExecutorDescriptor
}

func (PeerDescriptor) ResourceKind() Kind { return KindPeerDescriptor }

// PeerConfiguration is the desired runtime configuration for a peer: the set
// of executors it should be running.
type PeerConfiguration struct {
	ID        PeerID
	Executors []ExecutorDescriptor
}

func (PeerConfiguration) ResourceKind() Kind { return KindPeerConfiguration }

// LegacyExecutorDescriptor is the previous-generation executor shape: a bare
// container image, no variants.
type LegacyExecutorDescriptor struct {
	ID    uuid.UUID
	Image string
}

// PeerConfigurationLegacy is the previous-generation peer configuration, kept
// for compatibility with peers that have not upgraded.
type PeerConfigurationLegacy struct {
	ID        PeerID
	Executors []LegacyExecutorDescriptor
}

func (PeerConfigurationLegacy) ResourceKind() Kind { return KindPeerConfigurationOld }

// PeerReachability is a peer's current reachability/activity state.
type PeerReachability string

const (
	PeerReachabilityOnline  PeerReachability = "online"
	PeerReachabilityOffline PeerReachability = "offline"
)

type PeerState struct {
	ID           PeerID
	Reachability PeerReachability
}

func (PeerState) ResourceKind() Kind { return KindPeerState }
