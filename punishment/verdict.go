package punishment

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/pacer/utils"
)

// Severity is how harshly a verdict should be punished.
type Severity uint8

const (
	// SeverityMitigate means the offending packet should be dropped, nothing more.
	SeverityMitigate Severity = iota
	// SeverityKick means the connection should be closed.
	SeverityKick
	// SeverityBan means the connection should be closed and the identity refused for a while.
	SeverityBan
)

func (s Severity) String() string {
	switch s {
	case SeverityMitigate:
		return "mitigate"
	case SeverityKick:
		return "kick"
	case SeverityBan:
		return "ban"
	}
	return fmt.Sprintf("severity(%d)", uint8(s))
}

// Effect is a side effect the engine requests alongside a verdict. Effects are executed by the
// connection, never by the engine.
type Effect uint8

const (
	// EffectRefreshInventory asks the connection to resynchronise the client's inventory view.
	EffectRefreshInventory Effect = 1 << iota
)

// Verdict is the outcome of a detected anomaly. A Verdict is immutable once created.
type Verdict struct {
	reason   string
	severity Severity
	effects  Effect
	extra    *orderedmap.OrderedMap[string, any]
}

// NewVerdict creates a verdict with the reason and severity passed. extra holds diagnostics only and may
// be nil; the verdict keeps its own copy.
func NewVerdict(reason string, severity Severity, extra *orderedmap.OrderedMap[string, any]) Verdict {
	v := Verdict{reason: reason, severity: severity}
	if extra != nil {
		v.extra = extra.Copy()
	}
	return v
}

// WithEffects returns a copy of the verdict that also requests the effects passed.
func (v Verdict) WithEffects(e Effect) Verdict {
	v.effects |= e
	return v
}

// Reason returns the human readable reason of the verdict.
func (v Verdict) Reason() string {
	return v.reason
}

// Severity ...
func (v Verdict) Severity() Severity {
	return v.severity
}

// Requests returns true if the verdict requests the effect passed.
func (v Verdict) Requests(e Effect) bool {
	return v.effects&e != 0
}

// Extra returns a copy of the diagnostic data attached to the verdict.
func (v Verdict) Extra() *orderedmap.OrderedMap[string, any] {
	if v.extra == nil {
		return orderedmap.NewOrderedMap[string, any]()
	}
	return v.extra.Copy()
}

func (v Verdict) String() string {
	if v.extra == nil || v.extra.Len() == 0 {
		return fmt.Sprintf("%s (%s)", v.reason, v.severity)
	}
	return fmt.Sprintf("%s (%s) %s", v.reason, v.severity, utils.OrderedMapToString(*v.extra))
}
