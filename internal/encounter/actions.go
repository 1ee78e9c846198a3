package encounter

import (
	"math"

	"github.com/velesar/fateweaver/internal/fate"
	"github.com/velesar/fateweaver/internal/game"
)

// ActionKind is a player action.
type ActionKind string

const (
	ActionAttack       ActionKind = "attack"
	ActionSpiritAttack ActionKind = "spirit_attack"
	ActionUseCard      ActionKind = "use_card"
	ActionWait         ActionKind = "wait"
	ActionMulligan     ActionKind = "mulligan"
)

// Action is one player request. Target names an enemy for attacks and
// optionally for card play; CardIDs lists the hand cards to mulligan.
type Action struct {
	Kind    ActionKind `json:"kind"`
	Target  string     `json:"target,omitempty"`
	CardID  string     `json:"card_id,omitempty"`
	CardIDs []string   `json:"card_ids,omitempty"`
}

// Rejection reasons, machine-checkable.
const (
	ReasonInvalidPhase  = "invalid_phase"
	ReasonAlreadyActed  = "already_acted"
	ReasonInvalidTarget = "invalid_target"
	ReasonTargetFallen  = "target_fallen"
	ReasonNoSpiritTrack = "no_spirit_track"
	ReasonUnknownCard   = "unknown_card"
	ReasonUnknownAction = "unknown_action"
)

const (
	weaknessMultiplier   = 1.5
	resistanceMultiplier = 0.67
	surpriseMultiplier   = 1.5
	escalationShift      = 5.0
)

// drawOutcome is one resolved Fate draw, or the bounded fallback
// modifier when the deck is fully exhausted.
type drawOutcome struct {
	card     *fate.Card
	effect   int
	fallback bool
}

// drawFate draws one card against the current resonance zone and applies
// its on-draw effects. An exhausted deck falls back to a bounded random
// modifier instead of failing the action.
func (e *Engine) drawFate(log *eventLog) drawOutcome {
	res := e.deck.DrawAndResolve(e.res.Value())
	if res == nil {
		mod := e.src.Range(-2, 2)
		log.add(Event{Type: EventFateDraw, Amount: mod, Detail: "deck_exhausted"})
		return drawOutcome{effect: mod, fallback: true}
	}
	log.add(Event{Type: EventFateDraw, Amount: res.EffectiveValue, CardID: res.Card.ID})
	for _, eff := range res.DrawEffects {
		switch eff.Type {
		case fate.DrawEffectShiftResonance:
			rec := e.res.Shift(eff.Magnitude, "card:"+res.Card.ID)
			log.add(Event{Type: EventResonanceShift, Amount: int(eff.Magnitude), CardID: res.Card.ID, Detail: rec.Source})
		case fate.DrawEffectShiftTension:
			e.tension += int(eff.Magnitude)
			log.add(Event{Type: EventTensionShift, Amount: int(eff.Magnitude), CardID: res.Card.ID})
		}
	}
	c := res.Card
	return drawOutcome{card: &c, effect: res.EffectiveValue}
}

// PerformAction executes one player action. Card play and mulligan are
// free actions; attack, spirit attack and wait end the player's turn.
// Rejected actions mutate nothing.
func (e *Engine) PerformAction(a Action) ActionResult {
	if e.phase != PhasePlayerAction {
		return rejected(ReasonInvalidPhase)
	}
	switch a.Kind {
	case ActionAttack:
		return e.turnEnding(e.performAttack(a, modalityPhysical))
	case ActionSpiritAttack:
		return e.turnEnding(e.performAttack(a, modalitySpiritual))
	case ActionUseCard:
		return e.performUseCard(a)
	case ActionWait:
		if e.acted {
			return rejected(ReasonAlreadyActed)
		}
		e.acted = true
		return ActionResult{Success: true, Events: []Event{{Type: EventWait, Actor: "hero"}}}
	case ActionMulligan:
		return e.performMulligan(a)
	default:
		return rejected(ReasonUnknownAction)
	}
}

func (e *Engine) turnEnding(r ActionResult) ActionResult {
	if r.Success {
		e.acted = true
	}
	return r
}

// performAttack resolves a physical or spiritual hero attack against one
// enemy: one Fate draw, hit check against effective defense, damage with
// weakness, escalation and critical multipliers, then disposition drift.
func (e *Engine) performAttack(a Action, mod modality) ActionResult {
	if e.acted {
		return rejected(ReasonAlreadyActed)
	}
	target := e.findEnemy(a.Target)
	if target == nil {
		return rejected(ReasonInvalidTarget)
	}
	if !target.Alive() {
		return rejected(ReasonTargetFallen)
	}
	if mod == modalitySpiritual && target.Def.WP <= 0 {
		return rejected(ReasonNoSpiritTrack)
	}

	log := newEventLog()
	e.applyEscalation(mod, target, log)
	draw := e.drawFate(log)

	var stat, effDefense int
	if mod == modalityPhysical {
		stat = e.hero.Strength + e.hero.AttackBonus - e.hero.ProvokePenalty
		effDefense = target.Def.Defense + target.Def.AbilityAmount(game.AbilityArmor) + target.DefenseBonus
	} else {
		stat = e.hero.Wisdom + e.hero.InfluenceBonus - e.hero.ProvokePenalty
		effDefense = target.Def.SpiritDefense + target.DefenseBonus
	}

	total := stat + draw.effect
	if total <= effDefense {
		evt := EventAttack
		if mod == modalitySpiritual {
			evt = EventSpiritAttack
		}
		log.add(Event{Type: EventMiss, Actor: "hero", Target: target.InstanceID, Detail: string(evt)})
		return ActionResult{Success: true, Events: log.events}
	}

	multiplier := 1.0
	if draw.card != nil && draw.card.Keyword != "" {
		if target.Def.IsWeakTo(draw.card.Keyword) {
			multiplier = weaknessMultiplier
			log.add(Event{Type: EventWeakness, Target: target.InstanceID, CardID: draw.card.ID})
		} else if target.Def.IsStrongAgainst(draw.card.Keyword) {
			multiplier = resistanceMultiplier
			log.add(Event{Type: EventResistance, Target: target.InstanceID, CardID: draw.card.ID})
		}
	}
	if e.surprise {
		multiplier *= surpriseMultiplier
		e.surprise = false
	}

	dmg := int(math.Floor(float64(total-effDefense+draw.effect) * multiplier))
	if draw.card != nil && draw.card.IsCritical {
		dmg *= 2
		log.add(Event{Type: EventCriticalCard, Actor: "hero", CardID: draw.card.ID})
	}
	if dmg < 1 {
		dmg = 1
	}

	if mod == modalityPhysical {
		target.HP -= dmg
		target.Disposition = clampDisposition(target.Disposition + float64(2*dmg))
		log.add(Event{Type: EventAttack, Actor: "hero", Target: target.InstanceID, Amount: dmg})
	} else {
		absorbed := 0
		if target.RageShield > 0 {
			absorbed = dmg
			if absorbed > target.RageShield {
				absorbed = target.RageShield
			}
			target.RageShield -= absorbed
		}
		wpDmg := dmg - absorbed
		target.WP -= wpDmg
		target.Disposition = clampDisposition(target.Disposition - float64(2*dmg))
		log.add(Event{Type: EventSpiritAttack, Actor: "hero", Target: target.InstanceID, Amount: wpDmg})
	}
	e.markFallen(target, log)
	e.checkEnd(log)
	return ActionResult{Success: true, Events: log.events}
}

// applyEscalation handles the modality switch rule: a one-time resonance
// shift, a surprise multiplier on the switching attack, and a rage
// shield on the target when combat turns from physical to spiritual.
func (e *Engine) applyEscalation(mod modality, target *Enemy, log *eventLog) {
	prev := e.lastModality
	e.lastModality = mod
	if prev == modalityNone || prev == mod {
		return
	}
	shift := escalationShift
	if mod == modalityPhysical {
		shift = -escalationShift
	}
	rec := e.res.Shift(shift, "escalation")
	log.add(Event{Type: EventEscalation, Actor: "hero", Detail: string(mod)})
	log.add(Event{Type: EventResonanceShift, Amount: int(shift), Detail: rec.Source})
	e.surprise = true
	if prev == modalityPhysical && mod == modalitySpiritual && target.Def.WP > 0 {
		shield := target.Def.Power * e.round
		target.RageShield += shield
		log.add(Event{Type: EventRageShield, Target: target.InstanceID, Amount: shield})
	}
}

// performUseCard plays a hand card for its suit bonus. A free action;
// the card moves to the discard pile (sticky cards to the retained set).
func (e *Engine) performUseCard(a Action) ActionResult {
	if e.acted {
		return rejected(ReasonAlreadyActed)
	}
	idx := -1
	for i := range e.hand {
		if e.hand[i].ID == a.CardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return rejected(ReasonUnknownCard)
	}
	card := e.hand[idx]
	e.hand = append(e.hand[:idx], e.hand[idx+1:]...)
	e.deck.Discard(card)

	bonus := card.Modifier
	if bonus < 0 {
		bonus = -bonus
	}
	var detail string
	switch card.Suit {
	case fate.SuitNav:
		e.hero.AttackBonus += bonus
		detail = "attack_bonus"
	case fate.SuitPrav:
		e.hero.InfluenceBonus += bonus
		detail = "influence_bonus"
	default:
		e.hero.DefenseBonus += bonus
		detail = "defense_bonus"
	}
	return ActionResult{Success: true, Events: []Event{
		{Type: EventCardPlayed, Actor: "hero", CardID: card.ID, Amount: bonus, Detail: detail},
	}}
}

// performMulligan returns the named hand cards to the draw pile,
// reshuffles it and redraws the same count. One-time only; later calls
// are strict no-ops.
func (e *Engine) performMulligan(a Action) ActionResult {
	if e.acted {
		return rejected(ReasonAlreadyActed)
	}
	if e.mulliganUsed {
		return ActionResult{Success: true, Events: []Event{}}
	}
	returned := 0
	for _, id := range a.CardIDs {
		for i := range e.hand {
			if e.hand[i].ID == id {
				e.deck.ReturnToDraw(e.hand[i])
				e.hand = append(e.hand[:i], e.hand[i+1:]...)
				returned++
				break
			}
		}
	}
	e.mulliganUsed = true
	if returned == 0 {
		return ActionResult{Success: true, Events: []Event{{Type: EventMulligan, Actor: "hero", Amount: 0}}}
	}
	e.deck.ShuffleDraw()
	for i := 0; i < returned; i++ {
		c := e.deck.TakeFromDraw()
		if c == nil {
			break
		}
		e.hand = append(e.hand, *c)
	}
	return ActionResult{Success: true, Events: []Event{{Type: EventMulligan, Actor: "hero", Amount: returned}}}
}

func clampDisposition(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < -100 {
		return -100
	}
	return v
}
