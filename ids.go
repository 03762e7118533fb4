package corenet

import "github.com/google/uuid"

// NodeId is an opaque identifier, unique per node within a network.
type NodeId string

// NeuronConnectionId is an opaque identifier, unique per connection across
// the network. It is generated at wiring time.
type NeuronConnectionId string

// NewNodeId returns a fresh, collision-free NodeId. Callers re-hydrating a
// persisted NodeRecord should reuse the record's existing id instead of
// calling this.
func NewNodeId() NodeId {
	return NodeId(uuid.NewString())
}

// NewConnectionId returns a fresh NeuronConnectionId for use when wiring a
// new connection.
func NewConnectionId() NeuronConnectionId {
	return NeuronConnectionId(uuid.NewString())
}
