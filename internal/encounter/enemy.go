package encounter

import (
	"github.com/velesar/fateweaver/internal/ai"
	"github.com/velesar/fateweaver/internal/game"
)

// resolveEnemies runs the enemy half of the round: each living enemy
// with a pending intent evaluates its mode, picks an action and applies
// it. Summon and curse intents resolve directly with no Fate draw;
// attack intents feed the mode-driven action table.
func (e *Engine) resolveEnemies(log *eventLog) {
	// The roster may grow mid-loop through summons; summoned enemies
	// have no intent yet and act from the next round.
	for i := 0; i < len(e.enemies); i++ {
		en := e.enemies[i]
		if !en.Alive() || en.Intent == nil {
			continue
		}
		if e.hero.HP <= 0 {
			return
		}
		intent := en.Intent
		en.Intent = nil

		switch intent.Kind {
		case IntentSummon:
			e.resolveSummon(en, intent.SummonID, log)
		case IntentCurse:
			e.resolveCurse(en, intent.CardID, log)
		default:
			mode := en.Mode.Evaluate(en.Disposition)
			action := ai.SelectAction(mode, ai.Profile{
				BaseDamage:  intent.Value,
				BaseProvoke: en.Def.BaseProvoke,
			}, e.src)
			ai.Resolve(action, &enemySim{engine: e, enemy: en, log: log})
		}
	}
}

func (e *Engine) resolveSummon(en *Enemy, summonID string, log *eventLog) {
	def, ok := e.summonPool[summonID]
	if !ok {
		return
	}
	spawned := e.spawn(def)
	e.enemies = append(e.enemies, spawned)
	en.SummonUsed = true
	log.add(Event{Type: EventEnemySummoned, Actor: en.InstanceID, Target: spawned.InstanceID})
}

// resolveCurse shuffles the referenced curse card into the player's
// Fate deck. One use per enemy.
func (e *Engine) resolveCurse(en *Enemy, cardID string, log *eventLog) {
	card, ok := e.cardPool[cardID]
	if !ok {
		return
	}
	e.deck.AddCard(card)
	en.CurseUsed = true
	log.add(Event{Type: EventCurseApplied, Actor: en.InstanceID, CardID: cardID})
}

// enemySim adapts one acting enemy onto the selector's simulation
// surface. Attack damage is rolled against the hero's Fate defense draw
// here so the selector stays free of deck knowledge.
type enemySim struct {
	engine *Engine
	enemy  *Enemy
	log    *eventLog
}

func (s *enemySim) DamageHero(amount int) {
	e := s.engine
	draw := e.drawFate(s.log)
	defense := e.hero.Armor + e.hero.DefenseBonus + draw.effect
	if draw.card != nil && draw.card.IsCritical {
		s.log.add(Event{Type: EventCriticalCard, Actor: "hero", CardID: draw.card.ID, Detail: "defense"})
		s.log.add(Event{Type: EventMiss, Actor: s.enemy.InstanceID, Target: "hero"})
		return
	}
	dmg := amount - defense
	if dmg <= 0 {
		s.log.add(Event{Type: EventMiss, Actor: s.enemy.InstanceID, Target: "hero"})
		return
	}
	e.hero.HP -= dmg
	s.log.add(Event{Type: EventAttack, Actor: s.enemy.InstanceID, Target: "hero", Amount: dmg})
}

func (s *enemySim) RaiseDefense(amount int) {
	s.enemy.DefenseBonus += amount
	s.log.add(Event{Type: EventEnemyDefend, Actor: s.enemy.InstanceID, Amount: amount})
}

func (s *enemySim) Provoke(amount int) {
	s.engine.hero.ProvokePenalty += amount
	s.engine.tension++
	s.log.add(Event{Type: EventEnemyProvoke, Actor: s.enemy.InstanceID, Target: "hero", Amount: amount})
}

func (s *enemySim) Plea() {
	s.enemy.Disposition /= 2
	s.log.add(Event{Type: EventEnemyPlea, Actor: s.enemy.InstanceID})
}

func (s *enemySim) Summon(id string) {
	s.engine.resolveSummon(s.enemy, id, s.log)
}

// ClassifyOutcomes is a convenience for callers needing only the
// aggregate violence classification.
func (e *Engine) ClassifyOutcomes() game.Classification {
	return e.FinishEncounter().Classification
}
