package event

// FlaggedEvent is sent when a connection is kicked or banned for a verdict.
type FlaggedEvent struct {
	Player     string `json:"player"`
	Kind       string `json:"kind"`
	Severity   string `json:"severity"`
	Reason     string `json:"reason"`
	Violations int64  `json:"violations"`
	ExtraData  string `json:"extraData"`
}

func (e *FlaggedEvent) ID() string {
	return EventIDFlagged
}

func NewFlaggedEvent(player, kind, severity, reason string, violations int64, extraData string) *FlaggedEvent {
	return &FlaggedEvent{
		Player:     player,
		Kind:       kind,
		Severity:   severity,
		Reason:     reason,
		Violations: violations,
		ExtraData:  extraData,
	}
}
