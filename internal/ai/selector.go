package ai

import (
	"github.com/velesar/fateweaver/internal/rng"
)

// ActionKind enumerates every action an enemy can take.
type ActionKind string

const (
	ActionAttack  ActionKind = "attack"
	ActionRage    ActionKind = "rage"
	ActionDefend  ActionKind = "defend"
	ActionProvoke ActionKind = "provoke"
	ActionPlea    ActionKind = "plea"
	ActionSummon  ActionKind = "summon"
)

// SelectedAction is a chosen action with its resolved numeric payload.
// Amount holds damage for attack/rage, the provoke penalty for provoke,
// and the defense bonus for defend. SummonID is set only for summon.
type SelectedAction struct {
	Kind     ActionKind `json:"kind"`
	Amount   int        `json:"amount,omitempty"`
	SummonID string     `json:"summon_id,omitempty"`
}

// Profile carries the per-enemy numbers the selector works from.
type Profile struct {
	BaseDamage  int
	BaseProvoke int
	SummonID    string
	SummonUsed  bool
}

// defendBonus is the flat defense gained from a defend action.
const defendBonus = 2

// SelectAction picks one action for the given mode. Weakened mode is
// fully deterministic and consumes no RNG; an available unused summon
// also bypasses the RNG table. Every other mode consumes exactly one
// weighted draw from src.
func SelectAction(mode Mode, p Profile, src *rng.Source) SelectedAction {
	if mode == ModeWeakened {
		dmg := p.BaseDamage / 2
		if dmg < 1 {
			dmg = 1
		}
		return SelectedAction{Kind: ActionAttack, Amount: dmg}
	}
	if p.SummonID != "" && !p.SummonUsed && mode == ModeNormal {
		return SelectedAction{Kind: ActionSummon, SummonID: p.SummonID}
	}

	switch mode {
	case ModeSurvival:
		switch src.WeightedIndex([]int{60, 30, 10}) {
		case 1:
			return SelectedAction{Kind: ActionRage, Amount: p.BaseDamage * 2}
		default:
			return SelectedAction{Kind: ActionAttack, Amount: p.BaseDamage}
		}
	case ModeDesperation:
		// Desperation never defends.
		switch src.WeightedIndex([]int{40, 30, 30}) {
		case 0:
			return SelectedAction{Kind: ActionProvoke, Amount: p.BaseProvoke + 2}
		case 1:
			return SelectedAction{Kind: ActionPlea}
		default:
			return SelectedAction{Kind: ActionAttack, Amount: p.BaseDamage * 2}
		}
	default:
		switch src.WeightedIndex([]int{1, 1, 1}) {
		case 0:
			return SelectedAction{Kind: ActionAttack, Amount: p.BaseDamage}
		case 1:
			return SelectedAction{Kind: ActionDefend, Amount: defendBonus}
		default:
			return SelectedAction{Kind: ActionProvoke, Amount: p.BaseProvoke}
		}
	}
}

// Simulation is the mutable state a resolved enemy action acts on. The
// encounter engine supplies a per-enemy adapter.
type Simulation interface {
	// DamageHero applies physical damage to the hero, after the hero's
	// defense roll.
	DamageHero(amount int)
	// RaiseDefense adds a temporary defense bonus to the acting enemy.
	RaiseDefense(amount int)
	// Provoke applies the enemy's provoke penalty to the hero.
	Provoke(amount int)
	// Plea halves the acting enemy's disposition toward zero.
	Plea()
	// Summon appends the identified enemy to the live roster.
	Summon(id string)
}

// Resolve applies the chosen action to the simulation. It only mutates;
// the engine layer mirrors each mutation with state-change events.
func Resolve(a SelectedAction, sim Simulation) {
	switch a.Kind {
	case ActionAttack, ActionRage:
		sim.DamageHero(a.Amount)
	case ActionDefend:
		sim.RaiseDefense(a.Amount)
	case ActionProvoke:
		sim.Provoke(a.Amount)
	case ActionPlea:
		sim.Plea()
	case ActionSummon:
		sim.Summon(a.SummonID)
	}
}
