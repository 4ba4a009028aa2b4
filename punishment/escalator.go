package punishment

// Action is what a connection should do in response to a verdict.
type Action uint8

const (
	// ActionNone means nothing has to be done, for instance because the connection is already being
	// removed.
	ActionNone Action = iota
	// ActionMitigate means the offending packet should be dropped.
	ActionMitigate
	// ActionKick means the connection should be closed.
	ActionKick
	// ActionBan means the connection should be closed and its identity refused for a while.
	ActionBan
)

func (a Action) String() string {
	switch a {
	case ActionMitigate:
		return "mitigate"
	case ActionKick:
		return "kick"
	case ActionBan:
		return "ban"
	}
	return "none"
}

// Escalator accumulates the verdicts of a single connection and maps each one to an Action. It is owned by
// the goroutine processing the connection's client packets.
type Escalator struct {
	counts   [SeverityBan + 1]int64
	punished bool
}

// NewEscalator ...
func NewEscalator() *Escalator {
	return &Escalator{}
}

// Record counts the verdict and returns the action the connection should take. Once a kick or ban has
// been returned, every further verdict results in ActionNone: the connection is already on its way out.
func (e *Escalator) Record(v Verdict) Action {
	if e.punished {
		return ActionNone
	}
	if int(v.Severity()) < len(e.counts) {
		e.counts[v.Severity()]++
	}

	switch v.Severity() {
	case SeverityKick:
		e.punished = true
		return ActionKick
	case SeverityBan:
		e.punished = true
		return ActionBan
	default:
		return ActionMitigate
	}
}

// Violations returns the total amount of verdicts recorded.
func (e *Escalator) Violations() int64 {
	var n int64
	for _, c := range e.counts {
		n += c
	}
	return n
}

// Count returns the amount of verdicts recorded with the severity passed.
func (e *Escalator) Count(s Severity) int64 {
	if int(s) >= len(e.counts) {
		return 0
	}
	return e.counts[s]
}

// Punished returns true if a kick or ban was issued.
func (e *Escalator) Punished() bool {
	return e.punished
}

// Pardon reverts the punished state after the host cancelled a kick or ban, so that later verdicts are
// escalated again.
func (e *Escalator) Pardon() {
	e.punished = false
}
