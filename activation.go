package corenet

import "math"

// ActivationFunction is the pure float64->float64 transform applied to a
// neuron's summed input. Sigmoid is the supplied default.
type ActivationFunction func(float64) float64

// Sigmoid is the default activation function: 1/(1+e^-x).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// Identity passes its input through unchanged; useful in tests and for
// pass-through input layers.
func Identity(x float64) float64 {
	return x
}

// activationRegistry maps the persisted ActivationFunctionId strings from
// a NodeRecord to the concrete function they name, mirroring the
// teacher's EncodableActivation: an activation function is not itself
// serializable, so the record carries an id and the caller resolves it.
var activationRegistry = map[string]ActivationFunction{
	"sigmoid":  Sigmoid,
	"identity": Identity,
}

// RegisterActivationFunction makes a named activation function resolvable
// by HydrateNode. Built-in ids ("sigmoid", "identity") are always
// present; callers may add their own.
func RegisterActivationFunction(id string, fn ActivationFunction) {
	activationRegistry[id] = fn
}

// LookupActivationFunction resolves a persisted ActivationFunctionId to
// its concrete function. ok is false for an unknown id.
func LookupActivationFunction(id string) (fn ActivationFunction, ok bool) {
	fn, ok = activationRegistry[id]
	return
}
