package fate

import (
	"github.com/velesar/fateweaver/internal/resonance"
	"github.com/velesar/fateweaver/internal/rng"
)

// Deck owns the draw and discard piles of Fate cards. Pile order matters:
// shuffles consume the encounter RNG stream, so the same seed always yields
// the same deck order. The deck never owns its RNG; it shares the single
// per-encounter stream supplied at construction.
type Deck struct {
	drawPile    []Card
	discardPile []Card
	// retained holds sticky cards that were consumed after a draw. They
	// rejoin the draw pile on the next reshuffle so a sticky card can
	// never be permanently lost.
	retained []Card
	src      *rng.Source
}

// NewDeck builds a deck from the initial card list, shuffled with the
// shared stream.
func NewDeck(cards []Card, src *rng.Source) *Deck {
	d := &Deck{
		drawPile: append([]Card(nil), cards...),
		src:      src,
	}
	d.shuffleDrawPile()
	return d
}

// shuffleDrawPile applies a Fisher-Yates shuffle driven by the shared
// stream.
func (d *Deck) shuffleDrawPile() {
	for i := len(d.drawPile) - 1; i > 0; i-- {
		j := d.src.Intn(i + 1)
		d.drawPile[i], d.drawPile[j] = d.drawPile[j], d.drawPile[i]
	}
}

// Draw pops the top of the draw pile, pushes it onto the discard pile and
// returns it. An empty draw pile reshuffles first. Returns nil only when
// the deck holds no cards at all.
func (d *Deck) Draw() *Card {
	if len(d.drawPile) == 0 {
		d.Reshuffle()
	}
	if len(d.drawPile) == 0 {
		return nil
	}
	card := d.drawPile[len(d.drawPile)-1]
	d.drawPile = d.drawPile[:len(d.drawPile)-1]
	d.discardPile = append(d.discardPile, card)
	return &card
}

// DrawAndResolve draws one card and resolves its effective value against
// the zone of the supplied world resonance. The first rule matching the
// active zone applies; the card's on-draw effects are returned unmodified
// for the caller to apply.
func (d *Deck) DrawAndResolve(worldResonance float64) *DrawResult {
	card := d.Draw()
	if card == nil {
		return nil
	}
	zone := resonance.ZoneFor(worldResonance)
	result := &DrawResult{
		Card:           *card,
		BaseValue:      card.Modifier,
		EffectiveValue: card.Modifier,
		DrawEffects:    card.OnDrawEffects,
	}
	for i := range card.ResonanceRules {
		if card.ResonanceRules[i].Zone == zone {
			rule := card.ResonanceRules[i]
			result.AppliedRule = &rule
			result.EffectiveValue = card.Modifier + rule.ModifyValue
			break
		}
	}
	return result
}

// Reshuffle rebuilds the draw pile from the discard pile plus any retained
// sticky cards, in a stream-derived order. The discard pile ends empty.
func (d *Deck) Reshuffle() {
	d.drawPile = append(d.drawPile, d.discardPile...)
	d.drawPile = append(d.drawPile, d.retained...)
	d.discardPile = d.discardPile[:0]
	d.retained = d.retained[:0]
	d.shuffleDrawPile()
}

// AddCard inserts a card into the draw pile (mid-encounter boons and
// curses go through here).
func (d *Deck) AddCard(card Card) {
	d.drawPile = append(d.drawPile, card)
}

// RemoveCard removes the card with the given id from whichever pile holds
// it and reports whether it was found.
func (d *Deck) RemoveCard(id string) bool {
	if removeByID(&d.drawPile, id) {
		return true
	}
	return removeByID(&d.discardPile, id)
}

// Consume removes a just-drawn card from the discard pile after its effect
// was spent. Sticky cards are moved to the retained set instead of being
// dropped, so the next reshuffle puts them back into play.
func (d *Deck) Consume(id string) bool {
	for i := range d.discardPile {
		if d.discardPile[i].ID == id {
			card := d.discardPile[i]
			d.discardPile = append(d.discardPile[:i], d.discardPile[i+1:]...)
			if card.IsSticky {
				d.retained = append(d.retained, card)
			}
			return true
		}
	}
	return false
}

// TakeFromDraw removes and returns the top card of the draw pile without
// touching the discard pile (opening hand, mulligan replacements).
// Reshuffles when the draw pile is empty.
func (d *Deck) TakeFromDraw() *Card {
	if len(d.drawPile) == 0 {
		d.Reshuffle()
	}
	if len(d.drawPile) == 0 {
		return nil
	}
	card := d.drawPile[len(d.drawPile)-1]
	d.drawPile = d.drawPile[:len(d.drawPile)-1]
	return &card
}

// Discard places a card onto the discard pile (played hand cards).
func (d *Deck) Discard(card Card) {
	d.discardPile = append(d.discardPile, card)
}

// ReturnToDraw puts a hand card back on top of the draw pile (mulligan).
func (d *Deck) ReturnToDraw(card Card) {
	d.drawPile = append(d.drawPile, card)
}

// ShuffleDraw reshuffles the draw pile in place.
func (d *Deck) ShuffleDraw() {
	d.shuffleDrawPile()
}

// Counts returns the sizes of the draw and discard piles.
func (d *Deck) Counts() (draw, discard int) {
	return len(d.drawPile), len(d.discardPile)
}

// TotalCards reports every card the deck still tracks, including retained
// sticky cards.
func (d *Deck) TotalCards() int {
	return len(d.drawPile) + len(d.discardPile) + len(d.retained)
}

func removeByID(pile *[]Card, id string) bool {
	for i := range *pile {
		if (*pile)[i].ID == id {
			*pile = append((*pile)[:i], (*pile)[i+1:]...)
			return true
		}
	}
	return false
}

// State is an exact snapshot of both piles plus the retained set, used for
// save-game checkpoints and replay verification.
type State struct {
	DrawPile    []Card `json:"draw_pile"`
	DiscardPile []Card `json:"discard_pile"`
	Retained    []Card `json:"retained,omitempty"`
}

// GetState deep-copies the deck contents.
func (d *Deck) GetState() State {
	return State{
		DrawPile:    append([]Card(nil), d.drawPile...),
		DiscardPile: append([]Card(nil), d.discardPile...),
		Retained:    append([]Card(nil), d.retained...),
	}
}

// RestoreState replaces the deck contents with the snapshot.
func (d *Deck) RestoreState(st State) {
	d.drawPile = append([]Card(nil), st.DrawPile...)
	d.discardPile = append([]Card(nil), st.DiscardPile...)
	d.retained = append([]Card(nil), st.Retained...)
}

// RestoredDeck builds a deck directly from a snapshot and the shared
// stream, without the construction-time shuffle.
func RestoredDeck(st State, src *rng.Source) *Deck {
	d := &Deck{src: src}
	d.RestoreState(st)
	return d
}
