package corenet

import (
	"encoding/json"
	"fmt"
)

// NodeKind discriminates the three node roles.
type NodeKind int

const (
	NeuronNode NodeKind = iota
	SensorNode
	ActuatorNode
)

func (k NodeKind) String() string {
	switch k {
	case NeuronNode:
		return "neuron"
	case SensorNode:
		return "sensor"
	case ActuatorNode:
		return "actuator"
	default:
		return "unknown"
	}
}

// NodeType is the sum Neuron | Sensor(fanOut) | Actuator. FanOut is only
// meaningful when Kind == SensorNode.
type NodeType struct {
	Kind   NodeKind
	FanOut int
}

// InactiveConnection is the persisted form of a single inbound connection:
// {NodeId (source), Weight, ConnectionOrder}.
type InactiveConnection struct {
	NodeId          NodeId
	Weight          float64
	ConnectionOrder int
}

// NodeRecord is the persistent form of a node: everything needed to
// re-hydrate a live actor except the opaque runtime callables (sync
// function, output hook, activation function) it references by id.
type NodeRecord struct {
	NodeId               NodeId
	Layer                int
	NodeType             NodeType
	InboundConnections   map[NeuronConnectionId]InactiveConnection
	Bias                 *float64
	ActivationFunctionId *string
	SyncFunctionId       *string
	OutputHookId         *string
	MaximumVectorLength  *int
	LearningAlgorithm    LearningAlgorithm
}

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }
func ptrString(v string) *string { return &v }

// String renders the record as JSON, for the same kind of quick debug
// trace the teacher's Neuron.String() produces.
func (r NodeRecord) String() string {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%+v", r)
	}
	return string(b)
}

// NewNeuronRecord builds a fresh neuron record. id defaults to a new
// generated id when empty.
func NewNeuronRecord(id NodeId, layer int, bias float64, activationFunctionId string, learning LearningAlgorithm) NodeRecord {
	if id == "" {
		id = NewNodeId()
	}
	return NodeRecord{
		NodeId:               id,
		Layer:                layer,
		NodeType:             NodeType{Kind: NeuronNode},
		InboundConnections:   map[NeuronConnectionId]InactiveConnection{},
		Bias:                 ptrFloat(bias),
		ActivationFunctionId: ptrString(activationFunctionId),
		LearningAlgorithm:    learning,
	}
}

// NewSensorRecord builds a fresh sensor record with the given fan-out and
// sync-function id. MaximumVectorLength starts at fanOut and is updated
// as Sync observes longer input vectors.
func NewSensorRecord(id NodeId, layer int, fanOut int, syncFunctionId string) NodeRecord {
	if id == "" {
		id = NewNodeId()
	}
	return NodeRecord{
		NodeId:              id,
		Layer:               layer,
		NodeType:            NodeType{Kind: SensorNode, FanOut: fanOut},
		InboundConnections:  map[NeuronConnectionId]InactiveConnection{},
		SyncFunctionId:      ptrString(syncFunctionId),
		MaximumVectorLength: ptrInt(fanOut),
	}
}

// NewActuatorRecord builds a fresh actuator record bound to the named
// output hook.
func NewActuatorRecord(id NodeId, layer int, outputHookId string) NodeRecord {
	if id == "" {
		id = NewNodeId()
	}
	return NodeRecord{
		NodeId:             id,
		Layer:              layer,
		NodeType:           NodeType{Kind: ActuatorNode},
		InboundConnections: map[NeuronConnectionId]InactiveConnection{},
		OutputHookId:       ptrString(outputHookId),
	}
}
