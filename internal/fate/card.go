package fate

import "github.com/velesar/fateweaver/internal/resonance"

// Suit aligns a card with one of the three worlds (or none).
type Suit string

const (
	SuitNone    Suit = ""
	SuitNav     Suit = "nav"
	SuitPrav    Suit = "prav"
	SuitYav     Suit = "yav"
	SuitNeutral Suit = "neutral"
)

// Keyword is the small fixed vocabulary used for weakness/resistance
// matching on enemies.
type Keyword string

const (
	KeywordNone   Keyword = ""
	KeywordSurge  Keyword = "surge"
	KeywordFocus  Keyword = "focus"
	KeywordEcho   Keyword = "echo"
	KeywordShadow Keyword = "shadow"
	KeywordWard   Keyword = "ward"
)

// ValidKeyword reports whether k belongs to the fixed keyword vocabulary.
func ValidKeyword(k Keyword) bool {
	switch k {
	case KeywordNone, KeywordSurge, KeywordFocus, KeywordEcho, KeywordShadow, KeywordWard:
		return true
	}
	return false
}

// ResonanceRule adjusts a card's value when drawn in a specific zone.
type ResonanceRule struct {
	Zone        resonance.Zone `json:"zone"`
	ModifyValue int            `json:"modify_value"`
}

// DrawEffectType tags a side effect attached to drawing a card.
type DrawEffectType string

const (
	DrawEffectShiftResonance DrawEffectType = "shift_resonance"
	DrawEffectShiftTension   DrawEffectType = "shift_tension"
)

// DrawEffect is a typed side effect the caller applies after a draw. The
// deck never applies effects itself.
type DrawEffect struct {
	Type      DrawEffectType `json:"type"`
	Magnitude float64        `json:"magnitude"`
}

// Card is an immutable Fate card definition. Cards are copied by value into
// piles; nothing mutates a card after construction.
type Card struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Modifier       int             `json:"modifier"`
	IsCritical     bool            `json:"is_critical"`
	IsSticky       bool            `json:"is_sticky"`
	Suit           Suit            `json:"suit,omitempty"`
	Keyword        Keyword         `json:"keyword,omitempty"`
	ResonanceRules []ResonanceRule `json:"resonance_rules,omitempty"`
	OnDrawEffects  []DrawEffect    `json:"on_draw_effects,omitempty"`
}

// DrawResult is the resolved outcome of a single draw. It lives only for
// the action that produced it.
type DrawResult struct {
	Card           Card           `json:"card"`
	BaseValue      int            `json:"base_value"`
	EffectiveValue int            `json:"effective_value"`
	AppliedRule    *ResonanceRule `json:"applied_rule,omitempty"`
	DrawEffects    []DrawEffect   `json:"draw_effects,omitempty"`
}
