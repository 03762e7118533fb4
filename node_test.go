package corenet

import (
	"testing"
	"time"

	"github.com/couchbaselabs/go.assert"
)

const testTimeout = 2 * time.Second

func collectingHook(ch chan<- float64) func(float64) {
	return func(v float64) { ch <- v }
}

func waitForValue(t *testing.T, ch <-chan float64) float64 {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for actuator output")
		return 0
	}
}

func assertNoValue(t *testing.T, ch <-chan float64) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("expected no actuator output, got %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

// S1 — single sigmoid neuron, one sensor, one actuator.
func TestSingleSigmoidNeuron(t *testing.T) {
	sensor := NewNodeActor("sensor", 0, SensorNode, NodeDependencies{
		SyncFunc: func() []float64 { return []float64{0.0} },
	})
	neuron := NewNodeActor("neuron", 1, NeuronNode, NodeDependencies{ActivationFunc: Sigmoid})

	results := make(chan float64, 1)
	actuator := NewNodeActor("actuator", 2, ActuatorNode, NodeDependencies{
		OutputHook: collectingHook(results),
	})

	assert.True(t, ConnectSensorToNode(sensor, neuron, []float64{1.0}) == nil)
	assert.True(t, ConnectNodeToActuator(neuron, actuator) == nil)

	assert.True(t, sensor.Sync(testTimeout) == nil)

	output := waitForValue(t, results)
	assert.True(t, EqualsWithMaxDelta(output, 0.5, 1e-9))
}

// S2 — two-input neuron.
func TestTwoInputNeuron(t *testing.T) {
	sensorA := NewNodeActor("sensorA", 0, SensorNode, NodeDependencies{
		SyncFunc: func() []float64 { return []float64{2.0} },
	})
	sensorB := NewNodeActor("sensorB", 0, SensorNode, NodeDependencies{
		SyncFunc: func() []float64 { return []float64{2.0} },
	})
	neuron := NewNodeActor("neuron", 1, NeuronNode, NodeDependencies{ActivationFunc: Sigmoid})

	results := make(chan float64, 1)
	actuator := NewNodeActor("actuator", 2, ActuatorNode, NodeDependencies{
		OutputHook: collectingHook(results),
	})

	assert.True(t, ConnectSensorToNode(sensorA, neuron, []float64{0.5}) == nil)
	assert.True(t, ConnectSensorToNode(sensorB, neuron, []float64{-0.5}) == nil)
	assert.True(t, ConnectNodeToActuator(neuron, actuator) == nil)

	assert.True(t, sensorA.Sync(testTimeout) == nil)
	assert.True(t, sensorB.Sync(testTimeout) == nil)

	output := waitForValue(t, results)
	assert.True(t, EqualsWithMaxDelta(output, 0.5, 1e-9))
}

// S3 — Hebbian update, then ResetNeuron restores InitialWeight.
func TestHebbianUpdateAndReset(t *testing.T) {
	sensor := NewNodeActor("sensor", 0, SensorNode, NodeDependencies{
		SyncFunc: func() []float64 { return []float64{2.0} },
	})
	neuron := NewNodeActor("neuron", 1, NeuronNode, NodeDependencies{
		ActivationFunc: Identity,
	})
	neuron.learning = Hebbian(0.1)

	results := make(chan float64, 1)
	actuator := NewNodeActor("actuator", 2, ActuatorNode, NodeDependencies{
		OutputHook: collectingHook(results),
	})

	assert.True(t, ConnectSensorToNode(sensor, neuron, []float64{1.0}) == nil)
	assert.True(t, ConnectNodeToActuator(neuron, actuator) == nil)

	assert.True(t, sensor.Sync(testTimeout) == nil)
	output := waitForValue(t, results)
	assert.True(t, EqualsWithMaxDelta(output, 2.0, 1e-9))

	record, err := neuron.GetNodeRecord(testTimeout)
	assert.True(t, err == nil)
	assert.Equals(t, len(record.InboundConnections), 1)
	for _, conn := range record.InboundConnections {
		assert.True(t, EqualsWithMaxDelta(conn.Weight, 1.4, 1e-9))
	}

	assert.True(t, neuron.ResetNeuron(testTimeout) == nil)
	record, err = neuron.GetNodeRecord(testTimeout)
	assert.True(t, err == nil)
	for _, conn := range record.InboundConnections {
		assert.True(t, EqualsWithMaxDelta(conn.Weight, 1.0, 1e-9))
	}
}

// S4 — a second synapse on an already-filled connection id is deferred
// to the overflow barrier rather than corrupting the current cycle.
func TestOverflowBarrier(t *testing.T) {
	sensorA := NewNodeActor("sensorA", 0, SensorNode, NodeDependencies{})
	sensorB := NewNodeActor("sensorB", 0, SensorNode, NodeDependencies{})
	neuron := NewNodeActor("neuron", 1, NeuronNode, NodeDependencies{ActivationFunc: Identity})

	results := make(chan float64, 4)
	actuator := NewNodeActor("actuator", 2, ActuatorNode, NodeDependencies{
		OutputHook: collectingHook(results),
	})

	assert.True(t, ConnectNodeToNode(sensorA, neuron, 1.0) == nil)
	assert.True(t, ConnectNodeToNode(sensorB, neuron, 1.0) == nil)
	assert.True(t, ConnectNodeToActuator(neuron, actuator) == nil)

	record, err := neuron.GetNodeRecord(testTimeout)
	assert.True(t, err == nil)
	connA := findConnection(t, record, sensorA.Id())
	connB := findConnection(t, record, sensorB.Id())

	// two synapses on the same connection before the other input arrives
	neuron.ReceiveInput(connA, 5.0, ActivateIfBarrierIsFull)
	neuron.ReceiveInput(connA, 9.0, ActivateIfBarrierIsFull)
	assertNoValue(t, results)

	// now the other connection arrives and the neuron fires using the
	// first of the two values on connA
	neuron.ReceiveInput(connB, 3.0, ActivateIfBarrierIsFull)
	output := waitForValue(t, results)
	assert.True(t, EqualsWithMaxDelta(output, 8.0, 1e-9)) // 5 (first on connA) + 3

	// the deferred 9.0 now begins the next cycle's barrier
	neuron.ReceiveInput(connB, 1.0, ActivateIfBarrierIsFull)
	output = waitForValue(t, results)
	assert.True(t, EqualsWithMaxDelta(output, 10.0, 1e-9)) // 9 (deferred) + 1
}

func findConnection(t *testing.T, record NodeRecord, from NodeId) NeuronConnectionId {
	t.Helper()
	for id, inactive := range record.InboundConnections {
		if inactive.NodeId == from {
			return id
		}
	}
	t.Fatalf("no connection from %v found", from)
	return ""
}

// S5 — a neuron whose only input is a self-recurrent edge cannot ever
// see a full barrier until SendRecurrentSignals primes it.
func TestRecurrentBootstrap(t *testing.T) {
	neuron := NewNodeActor("neuron", 2, NeuronNode, NodeDependencies{ActivationFunc: Identity})

	results := make(chan float64, 1)
	actuator := NewNodeActor("actuator", 3, ActuatorNode, NodeDependencies{
		OutputHook: collectingHook(results),
	})

	assert.True(t, ConnectNodeToNode(neuron, neuron, 1.0) == nil)
	assert.True(t, ConnectNodeToActuator(neuron, actuator) == nil)

	record, err := neuron.GetNodeRecord(testTimeout)
	assert.True(t, err == nil)
	assert.Equals(t, len(record.InboundConnections), 1)

	assert.True(t, neuron.SendRecurrentSignals(testTimeout) == nil)

	output := waitForValue(t, results)
	assert.True(t, EqualsWithMaxDelta(output, 0.0, 1e-9))
}

// S6 — cortex-gated actuator does not fire until ActivateActuator
// arrives, and a second broadcast without a new barrier is a no-op.
func TestCortexGatedActuator(t *testing.T) {
	sensor := NewNodeActor("sensor", 0, SensorNode, NodeDependencies{
		SyncFunc: func() []float64 { return []float64{3.0} },
	})

	results := make(chan float64, 2)
	actuator := NewNodeActor("actuator", 1, ActuatorNode, NodeDependencies{
		OutputHook: collectingHook(results),
	})

	assert.True(t, ConnectNodeToActuator(sensor, actuator) == nil)
	assert.True(t, actuator.RegisterCortex(testTimeout) == nil)

	assert.True(t, sensor.Sync(testTimeout) == nil)

	net := NewLiveNetwork(sensor, actuator)
	ready, err := net.WaitOnNeuralNetwork(true, nil)
	assert.True(t, err == nil)
	assert.True(t, ready)

	assertNoValue(t, results)

	assert.True(t, net.ActivateActuators(testTimeout) == nil)
	output := waitForValue(t, results)
	assert.True(t, EqualsWithMaxDelta(output, 3.0, 1e-9))

	// second activation without a new barrier is a no-op
	assert.True(t, net.ActivateActuators(testTimeout) == nil)
	assertNoValue(t, results)
}

// Invariant 5 — recurrent classification.
func TestRecurrentClassification(t *testing.T) {
	earlier := NewNodeActor("earlier", 1, NeuronNode, NodeDependencies{})
	later := NewNodeActor("later", 2, NeuronNode, NodeDependencies{})
	actuator := NewNodeActor("actuator", 3, ActuatorNode, NodeDependencies{OutputHook: func(float64) {}})
	sensor := NewNodeActor("sensor", 0, SensorNode, NodeDependencies{})

	// forward edge: not recurrent
	assert.True(t, ConnectNodeToNode(earlier, later, 1.0) == nil)
	assert.Equals(t, len(earlier.recurrentOutbound), 0)

	// same-layer edge between neurons: recurrent (localLayer >= targetLayer)
	sameLayerPeer := NewNodeActor("peer", 2, NeuronNode, NodeDependencies{})
	assert.True(t, ConnectNodeToNode(later, sameLayerPeer, 1.0) == nil)
	assert.Equals(t, len(later.recurrentOutbound), 1)

	// sensor never originates a recurrent edge
	assert.True(t, ConnectNodeToNode(sensor, earlier, 1.0) == nil)
	assert.Equals(t, len(sensor.recurrentOutbound), 0)

	// a neuron connecting to an actuator is never recurrent
	assert.True(t, ConnectNodeToActuator(later, actuator) == nil)
	assert.Equals(t, len(later.recurrentOutbound), 1) // unchanged by the actuator edge
}
