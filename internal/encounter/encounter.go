package encounter

import (
	"errors"
	"fmt"

	"github.com/velesar/fateweaver/internal/ai"
	"github.com/velesar/fateweaver/internal/fate"
	"github.com/velesar/fateweaver/internal/game"
	"github.com/velesar/fateweaver/internal/resonance"
	"github.com/velesar/fateweaver/internal/rng"
)

// Phase is the encounter round phase.
type Phase string

const (
	PhaseIntent          Phase = "intent"
	PhasePlayerAction    Phase = "player_action"
	PhaseEnemyResolution Phase = "enemy_resolution"
	PhaseRoundEnd        Phase = "round_end"
	PhaseFinished        Phase = "finished"
)

const defaultHandSize = 3

var (
	ErrEncounterFinished = errors.New("encounter already finished")
	ErrNoEnemies         = errors.New("encounter requires at least one enemy")
)

// IntentKind tags a pre-announced enemy plan for the round.
type IntentKind string

const (
	IntentAttack IntentKind = "attack"
	IntentSummon IntentKind = "summon"
	IntentCurse  IntentKind = "curse"
)

// Intent is shown to the player during the intent phase. Value carries
// the attack amount for attack intents.
type Intent struct {
	Kind     IntentKind `json:"kind"`
	Value    int        `json:"value,omitempty"`
	SummonID string     `json:"summon_id,omitempty"`
	CardID   string     `json:"card_id,omitempty"`
}

// Hero is the player's mutable combat state. Bonus fields hold temporary
// per-round bonuses from played Fate cards and reset at round end.
type Hero struct {
	HP             int `json:"hp"`
	MaxHP          int `json:"max_hp"`
	Strength       int `json:"strength"`
	Armor          int `json:"armor"`
	Wisdom         int `json:"wisdom"`
	AttackBonus    int `json:"attack_bonus"`
	DefenseBonus   int `json:"defense_bonus"`
	InfluenceBonus int `json:"influence_bonus"`
	ProvokePenalty int `json:"provoke_penalty"`
}

// Enemy is one live roster entry. Outcome is fixed the first time hp or
// wp crosses zero and never changes afterwards.
type Enemy struct {
	InstanceID   string
	Def          *game.EnemyDefinition
	HP           int
	WP           int
	Disposition  float64
	Outcome      game.Outcome
	Mode         *ai.ModeState
	Intent       *Intent
	DefenseBonus int
	RageShield   int
	SummonUsed   bool
	CurseUsed    bool
}

// Alive reports whether the enemy is still an active combatant.
func (e *Enemy) Alive() bool { return e.Outcome == game.OutcomeAlive }

// Context supplies everything needed to construct an encounter engine.
// Content is plain data; the engine performs no file I/O.
type Context struct {
	Hero             game.HeroStats
	Enemies          []game.EnemyDefinition
	FateCards        []fate.Card
	CardPool         []fate.Card
	SummonPool       []game.EnemyDefinition
	Seed             uint64
	InitialResonance float64
	InitialTension   int
	HandSize         int
}

type modality string

const (
	modalityNone      modality = ""
	modalityPhysical  modality = "physical"
	modalitySpiritual modality = "spiritual"
)

// Engine drives one encounter. All randomness flows through the single
// src stream in fixed phase order, which is what makes replays exact.
// Callers interact only through PerformAction and AdvancePhase.
type Engine struct {
	src        *rng.Source
	deck       *fate.Deck
	res        *resonance.Engine
	hero       *Hero
	enemies    []*Enemy
	summonPool map[string]game.EnemyDefinition
	cardPool   map[string]fate.Card

	round   int
	phase   Phase
	tension int

	hand         []fate.Card
	mulliganUsed bool
	acted        bool

	lastModality modality
	surprise     bool

	heroDefeated bool
	seed         uint64
	heroBase     game.HeroStats
	enemyDefs    map[string]game.EnemyDefinition
	summonSeq    int
}

// NewEngine validates the context, shuffles the Fate deck, deals the
// opening hand and computes first-round intents. Dangling summon or
// curse card references are construction errors.
func NewEngine(ctx Context) (*Engine, error) {
	if len(ctx.Enemies) == 0 {
		return nil, ErrNoEnemies
	}

	e := &Engine{
		src:        rng.New(ctx.Seed),
		res:        resonance.NewEngine(ctx.InitialResonance),
		summonPool: make(map[string]game.EnemyDefinition, len(ctx.SummonPool)),
		cardPool:   make(map[string]fate.Card, len(ctx.CardPool)),
		enemyDefs:  make(map[string]game.EnemyDefinition, len(ctx.Enemies)),
		round:      1,
		phase:      PhaseIntent,
		tension:    ctx.InitialTension,
		seed:       ctx.Seed,
		heroBase:   ctx.Hero,
	}
	for _, d := range ctx.SummonPool {
		e.summonPool[d.ID] = d
	}
	for _, c := range ctx.CardPool {
		e.cardPool[c.ID] = c
	}

	e.hero = &Hero{
		HP:       ctx.Hero.HP,
		MaxHP:    ctx.Hero.MaxHP,
		Strength: ctx.Hero.Strength,
		Armor:    ctx.Hero.Armor,
		Wisdom:   ctx.Hero.Wisdom,
	}

	for i := range ctx.Enemies {
		def := ctx.Enemies[i]
		if err := e.validateAbilities(&def); err != nil {
			return nil, err
		}
		e.enemyDefs[def.ID] = def
		e.enemies = append(e.enemies, e.spawn(def))
	}

	e.deck = fate.NewDeck(ctx.FateCards, e.src)
	handSize := ctx.HandSize
	if handSize <= 0 {
		handSize = defaultHandSize
	}
	for i := 0; i < handSize; i++ {
		c := e.deck.TakeFromDraw()
		if c == nil {
			break
		}
		e.hand = append(e.hand, *c)
	}

	e.computeIntents()
	return e, nil
}

func (e *Engine) validateAbilities(def *game.EnemyDefinition) error {
	for _, ab := range def.Abilities {
		switch ab.Kind {
		case game.AbilitySummon:
			if _, ok := e.summonPool[ab.EnemyID]; !ok {
				return fmt.Errorf("enemy %s: summon references unknown enemy %q", def.ID, ab.EnemyID)
			}
		case game.AbilityApplyCurse:
			if _, ok := e.cardPool[ab.CardID]; !ok {
				return fmt.Errorf("enemy %s: curse references unknown card %q", def.ID, ab.CardID)
			}
		}
	}
	return nil
}

func (e *Engine) spawn(def game.EnemyDefinition) *Enemy {
	e.summonSeq++
	d := def
	return &Enemy{
		InstanceID: fmt.Sprintf("%s#%d", def.ID, e.summonSeq),
		Def:        &d,
		HP:         def.HP,
		WP:         def.WP,
		Outcome:    game.OutcomeAlive,
		Mode:       ai.NewModeState(e.seed),
	}
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// Round returns the 1-based round counter.
func (e *Engine) Round() int { return e.round }

// Tension returns the encounter tension counter.
func (e *Engine) Tension() int { return e.tension }

// Resonance returns the current world resonance value.
func (e *Engine) Resonance() float64 { return e.res.Value() }

// Hero returns the hero's mutable state.
func (e *Engine) Hero() *Hero { return e.hero }

// Enemies returns the live roster, including fallen entries.
func (e *Engine) Enemies() []*Enemy { return e.enemies }

// Hand returns the player's current hand.
func (e *Engine) Hand() []fate.Card { return e.hand }

// Deck exposes the Fate deck for inspection.
func (e *Engine) Deck() *fate.Deck { return e.deck }

// RNGDraws reports how many values the encounter stream has produced.
func (e *Engine) RNGDraws() uint64 { return e.src.Draws() }

// RNGState exposes the stream position for replay digests.
func (e *Engine) RNGState() rng.State { return e.src.Snapshot() }

// computeIntents fills each living enemy's intent for the round. Intent
// computation consumes no RNG.
func (e *Engine) computeIntents() {
	for _, en := range e.enemies {
		if !en.Alive() {
			en.Intent = nil
			continue
		}
		if ab := en.Def.FindAbility(game.AbilitySummon); ab != nil && !en.SummonUsed {
			en.Intent = &Intent{Kind: IntentSummon, SummonID: ab.EnemyID}
			continue
		}
		if ab := en.Def.FindAbility(game.AbilityApplyCurse); ab != nil && !en.CurseUsed && e.round > 1 {
			en.Intent = &Intent{Kind: IntentCurse, CardID: ab.CardID}
			continue
		}
		value := en.Def.Power + en.Def.AbilityAmount(game.AbilityBonusDamage)
		en.Intent = &Intent{Kind: IntentAttack, Value: value}
	}
}

// AdvancePhase moves the encounter forward one phase and performs the
// work of the phase it enters. It is the only way phases change.
func (e *Engine) AdvancePhase() (ActionResult, error) {
	if e.phase == PhaseFinished {
		return ActionResult{}, ErrEncounterFinished
	}
	log := newEventLog()
	switch e.phase {
	case PhaseIntent:
		e.phase = PhasePlayerAction
		e.acted = false
	case PhasePlayerAction:
		e.phase = PhaseEnemyResolution
		e.resolveEnemies(log)
		e.checkEnd(log)
	case PhaseEnemyResolution:
		e.phase = PhaseRoundEnd
		e.endRound(log)
	case PhaseRoundEnd:
		e.phase = PhaseIntent
		e.computeIntents()
	}
	return ActionResult{Success: true, Events: log.events}, nil
}

// endRound applies over-time effects, clears per-round bonuses and
// advances the round counter.
func (e *Engine) endRound(log *eventLog) {
	for _, en := range e.enemies {
		if !en.Alive() {
			continue
		}
		if ab := en.Def.FindAbility(game.AbilityRegeneration); ab != nil && en.HP < en.Def.HP {
			heal := ab.Amount
			if en.HP+heal > en.Def.HP {
				heal = en.Def.HP - en.HP
			}
			if heal > 0 {
				en.HP += heal
				log.add(Event{Type: EventRegeneration, Actor: en.InstanceID, Amount: heal})
			}
		}
		en.DefenseBonus = 0
	}
	e.hero.AttackBonus = 0
	e.hero.DefenseBonus = 0
	e.hero.InfluenceBonus = 0
	e.hero.ProvokePenalty = 0
	e.round++
}

// checkEnd fixes the encounter outcome when the hero falls or no enemy
// remains alive.
func (e *Engine) checkEnd(log *eventLog) {
	if e.hero.HP <= 0 {
		e.heroDefeated = true
		e.phase = PhaseFinished
		log.add(Event{Type: EventHeroDefeated, Target: "hero"})
		return
	}
	for _, en := range e.enemies {
		if en.Alive() {
			return
		}
	}
	e.phase = PhaseFinished
	log.add(Event{Type: EventVictory, Actor: "hero"})
}

// markFallen fixes the enemy's outcome the instant a track crosses zero.
// Hp takes priority when both cross in the same step.
func (e *Engine) markFallen(en *Enemy, log *eventLog) {
	if en.Outcome != game.OutcomeAlive {
		return
	}
	if en.HP <= 0 {
		en.Outcome = game.OutcomeKilled
		log.add(Event{Type: EventEnemyKilled, Target: en.InstanceID})
		return
	}
	if en.Def.WP > 0 && en.WP <= 0 {
		en.Outcome = game.OutcomePacified
		log.add(Event{Type: EventEnemyPacified, Target: en.InstanceID})
	}
}

// Result is the final per-entity outcome map plus the aggregate
// classification used by the narrative layer.
type Result struct {
	Victory        bool                    `json:"victory"`
	HeroDefeated   bool                    `json:"hero_defeated"`
	Outcomes       map[string]game.Outcome `json:"outcomes"`
	Classification game.Classification     `json:"classification"`
	Rounds         int                     `json:"rounds"`
}

// FinishEncounter reports the encounter result. Valid at any time; the
// Victory flag is meaningful only once the finished phase is reached.
func (e *Engine) FinishEncounter() Result {
	outcomes := make(map[string]game.Outcome, len(e.enemies))
	killed, pacified := 0, 0
	victory := true
	for _, en := range e.enemies {
		outcomes[en.InstanceID] = en.Outcome
		switch en.Outcome {
		case game.OutcomeKilled:
			killed++
		case game.OutcomePacified:
			pacified++
		default:
			victory = false
		}
	}
	return Result{
		Victory:        victory && !e.heroDefeated,
		HeroDefeated:   e.heroDefeated,
		Outcomes:       outcomes,
		Classification: game.Classify(killed, pacified),
		Rounds:         e.round,
	}
}

func (e *Engine) findEnemy(id string) *Enemy {
	for _, en := range e.enemies {
		if en.InstanceID == id || en.Def.ID == id {
			return en
		}
	}
	return nil
}
