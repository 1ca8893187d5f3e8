// Package store holds the two state machines of the console: the session
// and the directory collection.
//
// Both are pure reducers: Reduce(state, event) returns the next state and
// never performs I/O or mutates its input. Network calls and persistence
// live in the services package, which dispatches the events defined here
// around each call (Started before, Succeeded or Failed after).
package store

// RequestStatus is the lifecycle of the most recent async operation.
type RequestStatus int

const (
	Idle RequestStatus = iota
	Pending
	Failed
)

func (s RequestStatus) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
