package corenet

import "time"

// NetworkPollInterval is how often waitOnNeuralNetwork re-polls node
// status while waiting for quiescence.
const NetworkPollInterval = 20 * time.Millisecond

// LiveNetwork is a live-network handle: the sequence of node actors the
// coordinator operates over.
type LiveNetwork struct {
	Nodes []*NodeActor
}

// NewLiveNetwork wraps a set of already-wired, already-running node
// actors as a coordinator-addressable network.
func NewLiveNetwork(nodes ...*NodeActor) *LiveNetwork {
	return &LiveNetwork{Nodes: append([]*NodeActor(nil), nodes...)}
}

// WaitOnNeuralNetwork polls every node with GetNodeStatus. It returns
// true once all nodes are ready, and false if the optional think-time
// budget elapses first. An unresponsive node (a status request that
// itself times out) is fatal to the call and is surfaced as an error.
func (net *LiveNetwork) WaitOnNeuralNetwork(checkActuators bool, maybeTimeout *time.Duration) (bool, error) {
	var deadline time.Time
	hasDeadline := maybeTimeout != nil
	if hasDeadline {
		deadline = time.Now().Add(*maybeTimeout)
	}

	for {
		allReady := true
		for _, node := range net.Nodes {
			status, err := node.GetNodeStatus(checkActuators, node.statusTimeout)
			if err != nil {
				return false, err
			}
			if status != NodeIsReady {
				allReady = false
			}
		}
		if allReady {
			return true, nil
		}
		if hasDeadline && time.Now().After(deadline) {
			return false, nil
		}
		time.Sleep(NetworkPollInterval)
	}
}

// SynchronizeNN broadcasts Sync to every node in parallel; each sensor
// initiates its fan-out, non-sensors are no-ops.
func (net *LiveNetwork) SynchronizeNN(timeout time.Duration) error {
	return net.broadcast(func(node *NodeActor) error {
		return node.Sync(timeout)
	})
}

// ActivateActuators broadcasts ActivateActuator to every node in
// parallel; only cortex-gated actuators that are ready will actually
// fire.
func (net *LiveNetwork) ActivateActuators(timeout time.Duration) error {
	return net.broadcast(func(node *NodeActor) error {
		return node.ActivateActuator(timeout)
	})
}

// PrimeRecurrentConnections broadcasts SendRecurrentSignals to every
// node in parallel, seeding single-recurrent-input neurons so a purely
// feedback graph does not deadlock at start-up.
func (net *LiveNetwork) PrimeRecurrentConnections(timeout time.Duration) error {
	return net.broadcast(func(node *NodeActor) error {
		return node.SendRecurrentSignals(timeout)
	})
}

// KillNeuralNetwork first waits for quiescence (without an
// actuator-readiness check), then broadcasts Die to every node in
// parallel.
func (net *LiveNetwork) KillNeuralNetwork(timeout time.Duration) error {
	if _, err := net.WaitOnNeuralNetwork(false, &timeout); err != nil {
		return err
	}
	return net.broadcast(func(node *NodeActor) error {
		return node.Die(timeout)
	})
}

// broadcast runs fn against every node concurrently and returns the
// first error encountered, if any, after all goroutines complete.
func (net *LiveNetwork) broadcast(fn func(*NodeActor) error) error {
	errs := make(chan error, len(net.Nodes))
	for _, node := range net.Nodes {
		node := node
		go func() { errs <- fn(node) }()
	}
	var firstErr error
	for range net.Nodes {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
