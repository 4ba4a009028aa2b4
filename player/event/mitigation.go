package event

// MitigationEvent is sent when a packet of a connection was dropped for a verdict.
type MitigationEvent struct {
	Player    string `json:"player"`
	Kind      string `json:"kind"`
	Reason    string `json:"reason"`
	ExtraData string `json:"extra_data"`
	Count     int64  `json:"count"`
}

func (e *MitigationEvent) ID() string {
	return EventIDMitigation
}

func NewMitigationEvent(player, kind, reason, extraData string, count int64) *MitigationEvent {
	return &MitigationEvent{
		Player:    player,
		Kind:      kind,
		Reason:    reason,
		ExtraData: extraData,
		Count:     count,
	}
}
