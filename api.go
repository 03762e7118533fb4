package corenet

import "time"

// Sync asks a sensor to pull a fresh vector from its sync function and
// fan it out to every outbound connection. It is a no-op reply on a
// neuron or actuator. Returns SensorHasNoOutboundConnectionsError if the
// sensor has no outbound connections, or NeuronInstanceUnavailableError
// if the actor does not reply within timeout.
func (n *NodeActor) Sync(timeout time.Duration) error {
	reply := make(chan error, 1)
	if err := n.send(syncMsg{reply: reply}, timeout); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-time.After(timeout):
		return &NeuronInstanceUnavailableError{Node: n.id, Op: "Sync"}
	}
}

// ReceiveInput places a synapse on the named connection. It is
// fire-and-forget: the caller does not wait for activation to complete.
func (n *NodeActor) ReceiveInput(connId NeuronConnectionId, value Synapse, option ActivationOption) {
	n.mailbox <- receiveInputMsg{connId: connId, value: value, option: option}
}

// GetNodeRecord snapshots the node's current state as a persistable
// NodeRecord.
func (n *NodeActor) GetNodeRecord(timeout time.Duration) (NodeRecord, error) {
	reply := make(chan NodeRecord, 1)
	if err := n.send(getNodeRecordMsg{reply: reply}, timeout); err != nil {
		return NodeRecord{}, err
	}
	select {
	case record := <-reply:
		return record, nil
	case <-time.After(timeout):
		return NodeRecord{}, &NeuronInstanceUnavailableError{Node: n.id, Op: "GetNodeRecord"}
	}
}

// Die asks the actor to exit its loop after replying.
func (n *NodeActor) Die(timeout time.Duration) error {
	reply := make(chan struct{}, 1)
	if err := n.send(dieMsg{reply: reply}, timeout); err != nil {
		return err
	}
	return n.await(reply, timeout, "Die")
}

// RegisterCortex transitions an actuator's gating from None to
// Some(false): a cortex now exists and the actuator will not fire on
// barrier satisfaction alone. It is a no-op on a sensor or neuron.
func (n *NodeActor) RegisterCortex(timeout time.Duration) error {
	reply := make(chan struct{}, 1)
	if err := n.send(registerCortexMsg{reply: reply}, timeout); err != nil {
		return err
	}
	return n.await(reply, timeout, "RegisterCortex")
}

// ActivateActuator fires an actuator's output hook if it is gated and
// ready; it is ignored otherwise.
func (n *NodeActor) ActivateActuator(timeout time.Duration) error {
	reply := make(chan struct{}, 1)
	if err := n.send(activateActuatorMsg{reply: reply}, timeout); err != nil {
		return err
	}
	return n.await(reply, timeout, "ActivateActuator")
}

// GetNodeStatus reports whether the node is ready (empty mailbox, and
// ready-to-fire if it is a cortex-gated actuator and checkActuators is
// set) or busy.
func (n *NodeActor) GetNodeStatus(checkActuators bool, timeout time.Duration) (NodeStatus, error) {
	reply := make(chan NodeStatus, 1)
	if err := n.send(getNodeStatusMsg{checkActuators: checkActuators, reply: reply}, timeout); err != nil {
		return NodeIsBusy, err
	}
	select {
	case status := <-reply:
		return status, nil
	case <-time.After(timeout):
		return NodeIsBusy, &NeuronInstanceUnavailableError{Node: n.id, Op: "GetNodeStatus"}
	}
}

// ResetNeuron resets every inbound weight to its InitialWeight, clears
// both barriers, and drains any messages already queued in the mailbox.
func (n *NodeActor) ResetNeuron(timeout time.Duration) error {
	reply := make(chan struct{}, 1)
	if err := n.send(resetNeuronMsg{reply: reply}, timeout); err != nil {
		return err
	}
	return n.await(reply, timeout, "ResetNeuron")
}

// SendRecurrentSignals posts a zero-valued synapse on every recurrent
// outbound connection, breaking start-up deadlock in purely feedback
// graphs.
func (n *NodeActor) SendRecurrentSignals(timeout time.Duration) error {
	reply := make(chan struct{}, 1)
	if err := n.send(sendRecurrentSignalsMsg{reply: reply}, timeout); err != nil {
		return err
	}
	return n.await(reply, timeout, "SendRecurrentSignals")
}

func (n *NodeActor) send(msg message, timeout time.Duration) error {
	select {
	case n.mailbox <- msg:
		return nil
	case <-time.After(timeout):
		return &NeuronInstanceUnavailableError{Node: n.id, Op: "send"}
	}
}

func (n *NodeActor) await(reply chan struct{}, timeout time.Duration, op string) error {
	select {
	case <-reply:
		return nil
	case <-time.After(timeout):
		return &NeuronInstanceUnavailableError{Node: n.id, Op: op}
	}
}
