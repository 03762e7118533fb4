package corenet

// Synapse is a scalar value carried on a single connection for one
// activation cycle.
type Synapse = float64

// ActivationOption is carried on every ReceiveInput message and decides
// whether the receiving node should attempt to fire once the value has
// been placed in its barrier.
type ActivationOption int

const (
	ActivateIfBarrierIsFull ActivationOption = iota
	ActivateIfNeuronHasOneConnection
	DoNotActivate
)

// OutboundConnection is a node's live view of one of its outbound edges.
type OutboundConnection struct {
	NeuronConnectionId NeuronConnectionId
	ConnectionOrder    int
	InitialWeight      float64
	TargetNodeId       NodeId
	Target             *NodeActor
}

// InboundConnection is a node's live view of one of its inbound edges.
// InitialWeight never changes after wiring; Weight is mutated by learning
// and reset to InitialWeight by ResetNeuron.
type InboundConnection struct {
	NeuronConnectionId NeuronConnectionId
	ConnectionOrder    int
	FromNodeId         NodeId
	InitialWeight      float64
	Weight             float64
}
