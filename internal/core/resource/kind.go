// Package resource defines the closed set of resource kinds managed by carl:
// the types, identifiers and error taxonomy shared by the resource manager,
// the subscription bus and both storage backends.
package resource

// Kind identifies one of the six resource kinds the manager knows about. The
// set is closed: no caller can register a new kind at runtime.
type Kind string

const (
	KindClusterConfiguration  Kind = "cluster_configuration"
	KindClusterDeployment     Kind = "cluster_deployment"
	KindPeerDescriptor        Kind = "peer_descriptor"
	KindPeerConfiguration     Kind = "peer_configuration"
	KindPeerConfigurationOld  Kind = "peer_configuration_legacy"
	KindPeerState             Kind = "peer_state"
)

// Resource is implemented by every value the manager stores. A value's kind
// determines which map, table and subscription channel it lives in.
type Resource interface {
	ResourceKind() Kind
}

func (k Kind) String() string { return string(k) }
