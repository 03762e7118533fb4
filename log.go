package corenet

import (
	"fmt"

	"github.com/couchbaselabs/logg"
)

// InfoLogSink is a side-band textual trace sink: one line per event. The
// default, DefaultInfoLogSink, is not safe to assume thread-safe by
// callers who supply their own — it may be invoked from many node
// actor goroutines concurrently.
type InfoLogSink func(destination, message string)

// DefaultInfoLogSink writes through github.com/couchbaselabs/logg, keyed
// by destination the same way the node actor tags its own trace lines
// ("NODE_STATE" when a neuron fires, "NODE_PANIC" when a structural
// error terminates an actor).
func DefaultInfoLogSink(destination, message string) {
	logg.LogTo(destination, message)
}

func (n *NodeActor) logf(destination, format string, args ...interface{}) {
	if n.logSink == nil {
		return
	}
	n.logSink(destination, fmt.Sprintf(format, args...))
}
