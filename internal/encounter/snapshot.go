package encounter

import (
	"fmt"

	"github.com/velesar/fateweaver/internal/ai"
	"github.com/velesar/fateweaver/internal/fate"
	"github.com/velesar/fateweaver/internal/game"
	"github.com/velesar/fateweaver/internal/resonance"
	"github.com/velesar/fateweaver/internal/rng"
)

// EnemySnapshot captures one roster entry by definition id. Definitions
// themselves are content, not state, and are re-resolved on restore.
type EnemySnapshot struct {
	InstanceID   string       `json:"instance_id"`
	DefID        string       `json:"def_id"`
	HP           int          `json:"hp"`
	WP           int          `json:"wp"`
	Disposition  float64      `json:"disposition"`
	Outcome      game.Outcome `json:"outcome"`
	Mode         ai.ModeState `json:"mode"`
	Intent       *Intent      `json:"intent,omitempty"`
	DefenseBonus int          `json:"defense_bonus"`
	RageShield   int          `json:"rage_shield"`
	SummonUsed   bool         `json:"summon_used"`
	CurseUsed    bool         `json:"curse_used"`
}

// Snapshot is the full mid-encounter state. Restoring it and continuing
// must reproduce the exact RNG draws and transitions of an
// uninterrupted run.
type Snapshot struct {
	Round        int             `json:"round"`
	Phase        Phase           `json:"phase"`
	Tension      int             `json:"tension"`
	Resonance    float64         `json:"resonance"`
	Hero         Hero            `json:"hero"`
	Enemies      []EnemySnapshot `json:"enemies"`
	Deck         fate.State      `json:"deck"`
	Hand         []fate.Card     `json:"hand"`
	MulliganUsed bool            `json:"mulligan_used"`
	Acted        bool            `json:"acted"`
	LastModality string          `json:"last_modality,omitempty"`
	Surprise     bool            `json:"surprise,omitempty"`
	HeroDefeated bool            `json:"hero_defeated,omitempty"`
	SummonSeq    int             `json:"summon_seq"`
	Seed         uint64          `json:"seed"`
	RNG          rng.State       `json:"rng"`
}

// Snapshot captures the engine state for checkpointing.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Round:        e.round,
		Phase:        e.phase,
		Tension:      e.tension,
		Resonance:    e.res.Value(),
		Hero:         *e.hero,
		Deck:         e.deck.GetState(),
		Hand:         append([]fate.Card(nil), e.hand...),
		MulliganUsed: e.mulliganUsed,
		Acted:        e.acted,
		LastModality: string(e.lastModality),
		Surprise:     e.surprise,
		HeroDefeated: e.heroDefeated,
		SummonSeq:    e.summonSeq,
		Seed:         e.seed,
		RNG:          e.src.Snapshot(),
	}
	for _, en := range e.enemies {
		es := EnemySnapshot{
			InstanceID:   en.InstanceID,
			DefID:        en.Def.ID,
			HP:           en.HP,
			WP:           en.WP,
			Disposition:  en.Disposition,
			Outcome:      en.Outcome,
			Mode:         *en.Mode,
			DefenseBonus: en.DefenseBonus,
			RageShield:   en.RageShield,
			SummonUsed:   en.SummonUsed,
			CurseUsed:    en.CurseUsed,
		}
		if en.Intent != nil {
			intent := *en.Intent
			es.Intent = &intent
		}
		snap.Enemies = append(snap.Enemies, es)
	}
	return snap
}

// Restore rebuilds an engine from a snapshot plus the original content
// context. Definitions referenced by the snapshot must still exist in
// the context.
func Restore(ctx Context, snap Snapshot) (*Engine, error) {
	e := &Engine{
		res:          resonance.NewEngine(snap.Resonance),
		summonPool:   make(map[string]game.EnemyDefinition, len(ctx.SummonPool)),
		cardPool:     make(map[string]fate.Card, len(ctx.CardPool)),
		enemyDefs:    make(map[string]game.EnemyDefinition, len(ctx.Enemies)),
		round:        snap.Round,
		phase:        snap.Phase,
		tension:      snap.Tension,
		mulliganUsed: snap.MulliganUsed,
		acted:        snap.Acted,
		lastModality: modality(snap.LastModality),
		surprise:     snap.Surprise,
		heroDefeated: snap.HeroDefeated,
		summonSeq:    snap.SummonSeq,
		seed:         snap.Seed,
		heroBase:     ctx.Hero,
	}
	for _, d := range ctx.SummonPool {
		e.summonPool[d.ID] = d
	}
	for _, c := range ctx.CardPool {
		e.cardPool[c.ID] = c
	}
	for _, d := range ctx.Enemies {
		e.enemyDefs[d.ID] = d
	}

	hero := snap.Hero
	e.hero = &hero

	e.src = rng.Restore(snap.RNG)
	e.deck = fate.RestoredDeck(snap.Deck, e.src)
	e.hand = append([]fate.Card(nil), snap.Hand...)

	for _, es := range snap.Enemies {
		def, ok := e.enemyDefs[es.DefID]
		if !ok {
			def, ok = e.summonPool[es.DefID]
		}
		if !ok {
			return nil, fmt.Errorf("snapshot references unknown enemy definition %q", es.DefID)
		}
		d := def
		mode := es.Mode
		en := &Enemy{
			InstanceID:   es.InstanceID,
			Def:          &d,
			HP:           es.HP,
			WP:           es.WP,
			Disposition:  es.Disposition,
			Outcome:      es.Outcome,
			Mode:         &mode,
			DefenseBonus: es.DefenseBonus,
			RageShield:   es.RageShield,
			SummonUsed:   es.SummonUsed,
			CurseUsed:    es.CurseUsed,
		}
		if es.Intent != nil {
			intent := *es.Intent
			en.Intent = &intent
		}
		e.enemies = append(e.enemies, en)
	}
	return e, nil
}
