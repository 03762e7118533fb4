package corenet

import (
	"fmt"
	"sort"
	"time"

	"github.com/proxypoke/vector"
)

// DefaultPollInterval is how long a node actor's mailbox receive blocks
// before re-entering its loop to permit periodic liveness checks without
// busy-waiting.
const DefaultPollInterval = 250 * time.Millisecond

// DefaultStatusTimeout is the reply budget for status/command probes
// issued against a node actor.
const DefaultStatusTimeout = 500 * time.Millisecond

// mailboxCapacity bounds how many messages a node's mailbox can hold
// before a sender blocks. It exists so GetNodeStatus's "mailbox empty"
// check (len(mailbox) == 0) is meaningful; an unbuffered channel always
// reports length zero and would make the check useless.
const mailboxCapacity = 256

// NodeActor is the uniform actor behind all three node kinds. Its
// private state (barrier, inbound, outbound, maxVectorLen, gating,
// recurrentOutbound, overflow) is touched only by its own goroutine;
// nothing here needs a mutex.
type NodeActor struct {
	id    NodeId
	layer int
	kind  NodeKind

	mailbox chan message

	inbound           []*InboundConnection
	outbound          []*OutboundConnection
	recurrentOutbound []*OutboundConnection

	barrier  Barrier
	overflow Barrier

	bias         float64
	activationId string
	activation   ActivationFunction
	learning     LearningAlgorithm

	syncFuncId   string
	syncFunc     func() []float64
	maxVectorLen int

	outputHookId string
	outputHook   func(float64)
	gating       *bool // nil = no cortex; non-nil = Some(ready?)

	pollInterval  time.Duration
	statusTimeout time.Duration
	logSink       InfoLogSink
}

// NodeDependencies bundles the opaque runtime callables a node actor
// needs that the core itself never constructs: the sensor's sync
// function, the actuator's output hook, and the neuron's activation
// function. A sensor or actuator only needs the field relevant to its
// kind; the others are ignored.
type NodeDependencies struct {
	SyncFunc       func() []float64
	OutputHook     func(float64)
	ActivationFunc ActivationFunction
	LogSink        InfoLogSink
}

func (n *NodeActor) Id() NodeId    { return n.id }
func (n *NodeActor) Layer() int    { return n.layer }
func (n *NodeActor) Kind() NodeKind { return n.kind }

// Run is the node actor's message loop. It polls the mailbox with a
// bounded wait; a timeout simply re-enters the loop. Structural bugs
// (MissingInboundConnection, SensorReceivedInput) are recovered,
// forwarded to the info log sink, and terminate the actor rather than
// crashing the process.
func (n *NodeActor) Run() {
	for {
		select {
		case msg := <-n.mailbox:
			stop := n.dispatch(msg)
			if stop {
				return
			}
		case <-time.After(n.pollInterval):
			continue
		}
	}
}

func (n *NodeActor) dispatch(msg message) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			n.logf("NODE_PANIC", "%v terminating after structural error: %v", n.id, r)
			stop = true
		}
	}()

	switch m := msg.(type) {
	case syncMsg:
		n.handleSync(m)
	case receiveInputMsg:
		n.handleReceiveInput(m)
	case addOutboundConnectionMsg:
		n.handleAddOutboundConnection(m)
	case addInboundConnectionMsg:
		n.handleAddInboundConnection(m)
	case getNodeRecordMsg:
		n.handleGetNodeRecord(m)
	case dieMsg:
		m.reply <- struct{}{}
		return true
	case registerCortexMsg:
		n.handleRegisterCortex(m)
	case activateActuatorMsg:
		n.handleActivateActuator(m)
	case getNodeStatusMsg:
		n.handleGetNodeStatus(m)
	case resetNeuronMsg:
		n.handleResetNeuron(m)
	case sendRecurrentSignalsMsg:
		n.handleSendRecurrentSignals(m)
	default:
		panic(fmt.Sprintf("corenet: unknown message type %T", msg))
	}
	return false
}

// --- Sync ---

func (n *NodeActor) handleSync(m syncMsg) {
	if n.kind != SensorNode {
		m.reply <- nil
		return
	}

	if len(n.outbound) == 0 {
		m.reply <- &SensorHasNoOutboundConnectionsError{Node: n.id}
		return
	}

	data := n.syncFunc()
	if len(data) > n.maxVectorLen {
		n.maxVectorLen = len(data)
	}

	ordered := append([]*OutboundConnection(nil), n.outbound...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ConnectionOrder < ordered[j].ConnectionOrder })

	for i, conn := range ordered {
		var value float64
		if i < len(data) {
			value = data[i]
		}
		n.post(conn, receiveInputMsg{connId: conn.NeuronConnectionId, value: value, option: ActivateIfBarrierIsFull})
	}

	m.reply <- nil
}

// --- ReceiveInput ---

func (n *NodeActor) handleReceiveInput(m receiveInputMsg) {
	if n.kind == SensorNode {
		panic(&SensorReceivedInputError{Node: n.id})
	}

	n.barrier.put(n.overflow, m.connId, m.value)

	doFire := (m.option == ActivateIfBarrierIsFull ||
		(m.option == ActivateIfNeuronHasOneConnection && len(n.inbound) == 1)) &&
		n.barrier.satisfied(n.inbound)

	if !doFire {
		return
	}

	if n.kind == NeuronNode {
		n.fireNeuron()
	} else {
		n.fireActuator()
	}
}

func (n *NodeActor) fireNeuron() {
	inputs := make([]float64, len(n.inbound))
	weights := make([]float64, len(n.inbound))
	for i, conn := range n.inbound {
		synapse, ok := n.barrier[conn.NeuronConnectionId]
		if !ok {
			panic(&MissingInboundConnectionError{Node: n.id, Conn: conn.NeuronConnectionId})
		}
		inputs[i] = synapse
		weights[i] = conn.Weight
	}

	dotProduct, err := vector.DotProduct(vector.NewFrom(inputs), vector.NewFrom(weights))
	if err != nil {
		panic(fmt.Sprintf("corenet: dot product failed for %v: %v", n.id, err))
	}

	output := n.activation(n.bias + dotProduct)

	updated := make([]*InboundConnection, len(n.inbound))
	for i, conn := range n.inbound {
		synapse := inputs[i]
		newWeight := n.learning.updateWeight(conn.Weight, synapse, output)
		updatedConn := *conn
		updatedConn.Weight = newWeight
		updated[i] = &updatedConn
	}
	n.inbound = updated

	for _, oc := range n.outbound {
		n.post(oc, receiveInputMsg{connId: oc.NeuronConnectionId, value: output, option: ActivateIfBarrierIsFull})
	}

	n.barrier = n.overflow.clone()
	n.overflow = newBarrier()

	n.logf("NODE_STATE", "%v fired, output=%v", n.id, output)
}

func (n *NodeActor) fireActuator() {
	if n.gating == nil {
		sum := n.barrier.sum()
		n.outputHook(sum)
		n.barrier = n.overflow.clone()
		n.overflow = newBarrier()
		return
	}

	ready := true
	n.gating = &ready
}

// post delivers a message to a single outbound connection. A self-loop
// (recurrent connection back to the same node) is queued on the node's
// own mailbox, so it is handled as a later message instead of
// re-entering the activation in progress; if that mailbox is full the
// send is handed to a goroutine so the node never blocks against its
// own mailbox.
func (n *NodeActor) post(oc *OutboundConnection, msg receiveInputMsg) {
	if oc.TargetNodeId == n.id {
		select {
		case n.mailbox <- msg:
		default:
			go func() { n.mailbox <- msg }()
		}
		return
	}
	oc.Target.mailbox <- msg
}

// --- Wiring ---

func (n *NodeActor) handleAddOutboundConnection(m addOutboundConnectionMsg) {
	connId := NewConnectionId()

	order := 0
	if n.kind == SensorNode {
		order = len(n.outbound)
	}

	oc := &OutboundConnection{
		NeuronConnectionId: connId,
		ConnectionOrder:    order,
		InitialWeight:      m.weight,
		TargetNodeId:       m.target,
		Target:             m.handle,
	}
	n.outbound = append(n.outbound, oc)

	if n.kind == NeuronNode && m.handle.Kind() == NeuronNode && n.layer >= m.handle.Layer() {
		n.recurrentOutbound = append(n.recurrentOutbound, oc)
	}

	inboundConn := InboundConnection{
		NeuronConnectionId: connId,
		ConnectionOrder:    order,
		FromNodeId:         n.id,
		InitialWeight:      m.weight,
		Weight:             m.weight,
	}

	if m.target == n.id {
		n.handleAddInboundConnection(addInboundConnectionMsg{conn: inboundConn, reply: nil})
	} else {
		ack := make(chan struct{}, 1)
		m.handle.mailbox <- addInboundConnectionMsg{conn: inboundConn, reply: ack}
		<-ack
	}

	m.reply <- struct{}{}
}

func (n *NodeActor) handleAddInboundConnection(m addInboundConnectionMsg) {
	conn := m.conn
	n.inbound = append(n.inbound, &conn)
	if m.reply != nil {
		m.reply <- struct{}{}
	}
}

// --- GetNodeRecord ---

func (n *NodeActor) handleGetNodeRecord(m getNodeRecordMsg) {
	record := n.snapshotRecord()
	go func() { m.reply <- record }()
}

func (n *NodeActor) snapshotRecord() NodeRecord {
	inboundMap := make(map[NeuronConnectionId]InactiveConnection, len(n.inbound))
	for _, conn := range n.inbound {
		inboundMap[conn.NeuronConnectionId] = InactiveConnection{
			NodeId:          conn.FromNodeId,
			Weight:          conn.Weight,
			ConnectionOrder: conn.ConnectionOrder,
		}
	}

	record := NodeRecord{
		NodeId:             n.id,
		Layer:              n.layer,
		InboundConnections: inboundMap,
		LearningAlgorithm:  n.learning,
	}

	switch n.kind {
	case SensorNode:
		record.NodeType = NodeType{Kind: SensorNode, FanOut: len(n.outbound)}
		record.SyncFunctionId = ptrString(n.syncFuncId)
		record.MaximumVectorLength = ptrInt(n.maxVectorLen)
	case NeuronNode:
		record.NodeType = NodeType{Kind: NeuronNode}
		record.Bias = ptrFloat(n.bias)
		record.ActivationFunctionId = ptrString(n.activationId)
	case ActuatorNode:
		record.NodeType = NodeType{Kind: ActuatorNode}
		record.OutputHookId = ptrString(n.outputHookId)
	}

	return record
}

// --- Cortex gating ---

func (n *NodeActor) handleRegisterCortex(m registerCortexMsg) {
	if n.kind == ActuatorNode && n.gating == nil {
		notReady := false
		n.gating = &notReady
	}
	m.reply <- struct{}{}
}

func (n *NodeActor) handleActivateActuator(m activateActuatorMsg) {
	if n.kind == ActuatorNode && n.gating != nil && *n.gating {
		sum := n.barrier.sum()
		n.outputHook(sum)
		notReady := false
		n.gating = &notReady
		n.barrier = n.overflow.clone()
		n.overflow = newBarrier()
	}
	m.reply <- struct{}{}
}

// --- Status ---

func (n *NodeActor) handleGetNodeStatus(m getNodeStatusMsg) {
	ready := len(n.mailbox) == 0
	if ready && n.kind == ActuatorNode && n.gating != nil && m.checkActuators {
		ready = *n.gating
	}
	if ready {
		m.reply <- NodeIsReady
	} else {
		m.reply <- NodeIsBusy
	}
}

// --- Reset ---

func (n *NodeActor) handleResetNeuron(m resetNeuronMsg) {
	for _, conn := range n.inbound {
		conn.Weight = conn.InitialWeight
	}
	n.barrier = newBarrier()
	n.overflow = newBarrier()

drain:
	for {
		select {
		case <-n.mailbox:
		default:
			break drain
		}
	}

	m.reply <- struct{}{}
}

// --- Recurrent bootstrap ---

func (n *NodeActor) handleSendRecurrentSignals(m sendRecurrentSignalsMsg) {
	for _, oc := range n.recurrentOutbound {
		n.post(oc, receiveInputMsg{connId: oc.NeuronConnectionId, value: 0, option: ActivateIfNeuronHasOneConnection})
	}
	m.reply <- struct{}{}
}
