package event

const (
	EventIDFlagged    = "pacer:flagged"
	EventIDMitigation = "pacer:mitigation"
)

// RemoteEvent is an event sent to the host so that it can relay it, for instance to staff or a log
// pipeline. Every RemoteEvent is JSON encodable.
type RemoteEvent interface {
	ID() string
}
