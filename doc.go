// Package corenet is the runtime core of a message-passing neural network
// engine. Every node in a network — sensor, neuron, or actuator — is a
// long-lived actor with its own mailbox; nodes exchange synapses
// asynchronously and a coordinator drives synchronised activation ticks
// across the whole graph.
//
// The genetic/mutation layer that produces topologies, persistence of
// node records to disk, sync functions and output hooks themselves, and
// any CLI/wiring code all live outside this package and are supplied to
// it as opaque callables and records.
package corenet
