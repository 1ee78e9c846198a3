package game

import "github.com/velesar/fateweaver/internal/fate"

// HeroStats is the hero block supplied by the orchestration layer. The
// encounter engine copies it; content stays immutable.
type HeroStats struct {
	HP       int `json:"hp"`
	MaxHP    int `json:"max_hp"`
	Strength int `json:"strength"`
	Armor    int `json:"armor"`
	Wisdom   int `json:"wisdom"`
}

// AbilityKind is the closed set of enemy ability effects.
type AbilityKind string

const (
	AbilityArmor        AbilityKind = "armor"
	AbilityRegeneration AbilityKind = "regeneration"
	AbilityBonusDamage  AbilityKind = "bonus_damage"
	AbilityApplyCurse   AbilityKind = "apply_curse"
	AbilitySummon       AbilityKind = "summon"
)

// Ability is a tagged ability effect with its payload. Amount carries the
// numeric magnitude (armor bonus, heal per round, flat damage); CardID and
// EnemyID reference content for apply_curse and summon respectively.
type Ability struct {
	Kind    AbilityKind `json:"kind"`
	Amount  int         `json:"amount,omitempty"`
	CardID  string      `json:"card_id,omitempty"`
	EnemyID string      `json:"enemy_id,omitempty"`
}

// EnemyDefinition is the immutable content block for one enemy archetype.
// WP of zero means the enemy has no will track and cannot be pacified.
type EnemyDefinition struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	HP            int            `json:"hp"`
	WP            int            `json:"wp,omitempty"`
	Power         int            `json:"power"`
	Defense       int            `json:"defense"`
	SpiritDefense int            `json:"spirit_defense,omitempty"`
	BaseProvoke   int            `json:"base_provoke,omitempty"`
	Weaknesses    []fate.Keyword `json:"weaknesses,omitempty"`
	Strengths     []fate.Keyword `json:"strengths,omitempty"`
	Abilities     []Ability      `json:"abilities,omitempty"`
}

// AbilityAmount sums the amounts of all abilities of the given kind.
func (d EnemyDefinition) AbilityAmount(kind AbilityKind) int {
	total := 0
	for _, a := range d.Abilities {
		if a.Kind == kind {
			total += a.Amount
		}
	}
	return total
}

// FindAbility returns the first ability of the given kind, or nil.
func (d EnemyDefinition) FindAbility(kind AbilityKind) *Ability {
	for i := range d.Abilities {
		if d.Abilities[i].Kind == kind {
			return &d.Abilities[i]
		}
	}
	return nil
}

// IsWeakTo reports whether the definition lists the keyword as a weakness.
func (d EnemyDefinition) IsWeakTo(k fate.Keyword) bool {
	return containsKeyword(d.Weaknesses, k)
}

// IsStrongAgainst reports whether the definition resists the keyword.
func (d EnemyDefinition) IsStrongAgainst(k fate.Keyword) bool {
	return containsKeyword(d.Strengths, k)
}

func containsKeyword(list []fate.Keyword, k fate.Keyword) bool {
	if k == fate.KeywordNone {
		return false
	}
	for _, w := range list {
		if w == k {
			return true
		}
	}
	return false
}

// Outcome is the terminal state of one enemy. It transitions exactly once,
// away from alive.
type Outcome string

const (
	OutcomeAlive    Outcome = "alive"
	OutcomeKilled   Outcome = "killed"
	OutcomePacified Outcome = "pacified"
)

// Classification aggregates per-enemy outcomes for the narrative layer.
type Classification string

const (
	ClassificationKilledDominant   Classification = "killed_dominant"
	ClassificationPacifiedDominant Classification = "pacified_dominant"
	ClassificationMixed            Classification = "mixed"
)

// Classify picks the aggregate outcome classification from counts.
func Classify(killed, pacified int) Classification {
	switch {
	case killed > pacified:
		return ClassificationKilledDominant
	case pacified > killed:
		return ClassificationPacifiedDominant
	default:
		return ClassificationMixed
	}
}
