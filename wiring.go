package corenet

import "time"

// NewNodeActor builds a fresh node actor from primitive parameters and
// starts its goroutine immediately, mirroring the teacher's "go
// neuron.Run()" pattern generalized to all three kinds. The returned
// handle has no connections; wire it with ConnectNodeToNode,
// ConnectNodeToActuator, or ConnectSensorToNode.
func NewNodeActor(id NodeId, layer int, kind NodeKind, deps NodeDependencies) *NodeActor {
	if id == "" {
		id = NewNodeId()
	}

	n := &NodeActor{
		id:            id,
		layer:         layer,
		kind:          kind,
		mailbox:       make(chan message, mailboxCapacity),
		barrier:       newBarrier(),
		overflow:      newBarrier(),
		activation:    deps.ActivationFunc,
		syncFunc:      deps.SyncFunc,
		outputHook:    deps.OutputHook,
		pollInterval:  DefaultPollInterval,
		statusTimeout: DefaultStatusTimeout,
		logSink:       deps.LogSink,
	}
	if n.activation == nil {
		n.activation = Sigmoid
	}
	if n.logSink == nil {
		n.logSink = DefaultInfoLogSink
	}

	go n.Run()
	return n
}

// HydrateNode re-builds a live, unwired node actor from a persisted
// NodeRecord plus the runtime dependencies its ids reference. Inbound
// connections carried on the record are restored as live
// InboundConnections; the outbound side must be rewired by the caller
// since it depends on other live actors this function has no knowledge
// of. The sync function and output hook are not resolved from their ids
// here; callers look them up themselves and pass them in via deps. The
// ActivationFunctionId is resolved through LookupActivationFunction: a
// registered id replaces deps.ActivationFunc, and an unknown id leaves
// deps.ActivationFunc (or the Sigmoid default) in place.
func HydrateNode(record NodeRecord, deps NodeDependencies) *NodeActor {
	n := NewNodeActor(record.NodeId, record.Layer, record.NodeType.Kind, deps)

	n.learning = record.LearningAlgorithm
	if record.Bias != nil {
		n.bias = *record.Bias
	}
	if record.ActivationFunctionId != nil {
		n.activationId = *record.ActivationFunctionId
		if fn, ok := LookupActivationFunction(n.activationId); ok {
			n.activation = fn
		}
	}
	if record.SyncFunctionId != nil {
		n.syncFuncId = *record.SyncFunctionId
	}
	if record.OutputHookId != nil {
		n.outputHookId = *record.OutputHookId
	}
	if record.MaximumVectorLength != nil {
		n.maxVectorLen = *record.MaximumVectorLength
	} else {
		n.maxVectorLen = record.NodeType.FanOut
	}

	inbound := make([]*InboundConnection, 0, len(record.InboundConnections))
	for connId, inactive := range record.InboundConnections {
		inbound = append(inbound, &InboundConnection{
			NeuronConnectionId: connId,
			ConnectionOrder:    inactive.ConnectionOrder,
			FromNodeId:         inactive.NodeId,
			InitialWeight:      inactive.Weight,
			Weight:             inactive.Weight,
		})
	}
	n.inbound = inbound

	return n
}

// ConnectNodeToNode wires source's output to target's input with the
// given weight. It synchronously posts AddOutboundConnection to source
// and returns only after target has acknowledged the inner
// AddInboundConnection, so both endpoints agree on the connection's
// identity and weight once this returns.
func ConnectNodeToNode(source, target *NodeActor, weight float64) error {
	reply := make(chan struct{}, 1)
	msg := addOutboundConnectionMsg{target: target.id, weight: weight, handle: target, reply: reply}
	select {
	case source.mailbox <- msg:
	case <-time.After(source.statusTimeout):
		return &NeuronInstanceUnavailableError{Node: source.id, Op: "ConnectNodeToNode"}
	}
	select {
	case <-reply:
		return nil
	case <-time.After(source.statusTimeout):
		return &NeuronInstanceUnavailableError{Node: source.id, Op: "ConnectNodeToNode"}
	}
}

// ConnectNodeToActuator wires source to an actuator with a fixed weight
// of zero, since an actuator never performs a weighted sum.
func ConnectNodeToActuator(source, actuator *NodeActor) error {
	return ConnectNodeToNode(source, actuator, 0)
}

// ConnectSensorToNode wires one connection per weight in order,
// preserving order, so the sensor's fan-out carries the stable ordinal
// that later determines input-vector alignment.
func ConnectSensorToNode(sensor, target *NodeActor, weights []float64) error {
	for _, w := range weights {
		if err := ConnectNodeToNode(sensor, target, w); err != nil {
			return err
		}
	}
	return nil
}
