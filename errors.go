package corenet

import "fmt"

// NeuronInstanceUnavailableError is returned by the coordinator when a
// status or command reply does not arrive within the node's reply budget
// (~500ms). It is fatal to the operation in progress; no automatic retry
// is performed.
type NeuronInstanceUnavailableError struct {
	Node NodeId
	Op   string
}

func (e *NeuronInstanceUnavailableError) Error() string {
	return fmt.Sprintf("corenet: node %s unavailable during %s", e.Node, e.Op)
}

// SensorHasNoOutboundConnectionsError is raised to the Sync caller when a
// sensor with an empty fan-out is asked to synchronize. Actor state is
// undefined afterwards; the caller should not continue driving this
// sensor.
type SensorHasNoOutboundConnectionsError struct {
	Node NodeId
}

func (e *SensorHasNoOutboundConnectionsError) Error() string {
	return fmt.Sprintf("corenet: sensor %s has no outbound connections", e.Node)
}

// MissingInboundConnectionError indicates a structural bug: a neuron's
// satisfied barrier is missing an entry for one of its own inbound
// connection ids. This should never happen in a correctly wired network;
// the actor that discovers it terminates.
type MissingInboundConnectionError struct {
	Node NodeId
	Conn NeuronConnectionId
}

func (e *MissingInboundConnectionError) Error() string {
	return fmt.Sprintf("corenet: node %s missing barrier entry for connection %s", e.Node, e.Conn)
}

// SensorReceivedInputError indicates a structural bug: a ReceiveInput
// message was routed to a sensor, which never has inbound connections.
type SensorReceivedInputError struct {
	Node NodeId
}

func (e *SensorReceivedInputError) Error() string {
	return fmt.Sprintf("corenet: sensor %s received input directly", e.Node)
}
