package encounter

// EventType tags a single state change produced while resolving an action
// or a phase.
type EventType string

const (
	EventFateDraw       EventType = "fate_draw"
	EventAttack         EventType = "attack"
	EventSpiritAttack   EventType = "spirit_attack"
	EventMiss           EventType = "miss"
	EventWeakness       EventType = "weakness_triggered"
	EventResistance     EventType = "resistance_triggered"
	EventCriticalCard   EventType = "critical_card"
	EventCardPlayed     EventType = "card_played"
	EventMulligan       EventType = "mulligan"
	EventWait           EventType = "wait"
	EventEnemyKilled    EventType = "enemy_killed"
	EventEnemyPacified  EventType = "enemy_pacified"
	EventEnemySummoned  EventType = "enemy_summoned"
	EventEnemyDefend    EventType = "enemy_defend"
	EventEnemyProvoke   EventType = "enemy_provoke"
	EventEnemyPlea      EventType = "enemy_plea"
	EventCurseApplied   EventType = "curse_applied"
	EventResonanceShift EventType = "resonance_shift"
	EventTensionShift   EventType = "tension_shift"
	EventEscalation     EventType = "escalation"
	EventRageShield     EventType = "rage_shield"
	EventRegeneration   EventType = "regeneration"
	EventHeroDefeated   EventType = "hero_defeated"
	EventVictory        EventType = "victory"
)

// Event is one typed state change. Actor and Target hold "hero" or an
// enemy instance id; unused fields stay zero and are omitted on the wire.
type Event struct {
	Type   EventType `json:"type"`
	Actor  string    `json:"actor,omitempty"`
	Target string    `json:"target,omitempty"`
	Amount int       `json:"amount,omitempty"`
	CardID string    `json:"card_id,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// ActionResult is returned from every engine call. A rejected action has
// Success=false, a machine-checkable Reason and no state mutation.
type ActionResult struct {
	Success bool    `json:"success"`
	Reason  string  `json:"reason,omitempty"`
	Events  []Event `json:"events"`
}

func rejected(reason string) ActionResult {
	return ActionResult{Success: false, Reason: reason}
}

// eventLog accumulates typed events during one engine call.
type eventLog struct {
	events []Event
}

func newEventLog() *eventLog {
	return &eventLog{events: make([]Event, 0, 8)}
}

func (l *eventLog) add(e Event) { l.events = append(l.events, e) }
