package encounter

import (
	"fmt"
	"testing"

	"github.com/velesar/fateweaver/internal/fate"
	"github.com/velesar/fateweaver/internal/game"
)

func flatCards(n, modifier int) []fate.Card {
	cards := make([]fate.Card, 0, n)
	for i := 0; i < n; i++ {
		cards = append(cards, fate.Card{
			ID:       fmt.Sprintf("card-%d", i),
			Name:     fmt.Sprintf("Card %d", i),
			Modifier: modifier,
			Suit:     fate.SuitNav,
		})
	}
	return cards
}

func testContext(seed uint64) Context {
	return Context{
		Hero: game.HeroStats{HP: 20, MaxHP: 20, Strength: 5, Armor: 2, Wisdom: 4},
		Enemies: []game.EnemyDefinition{{
			ID: "wolf", Name: "Grey Wolf",
			HP: 10, WP: 8, Power: 3, Defense: 5, SpiritDefense: 3, BaseProvoke: 1,
		}},
		FateCards: flatCards(4, 2),
		Seed:      seed,
	}
}

func mustEngine(t *testing.T, ctx Context) *Engine {
	t.Helper()
	e, err := NewEngine(ctx)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func toPlayerAction(t *testing.T, e *Engine) {
	t.Helper()
	if _, err := e.AdvancePhase(); err != nil {
		t.Fatalf("AdvancePhase: %v", err)
	}
	if e.Phase() != PhasePlayerAction {
		t.Fatalf("expected player_action phase, got %s", e.Phase())
	}
}

func TestAttackDamageCalculation(t *testing.T) {
	// strength 5, Fate +2, defense 5: total 7, hit, damage max(1,7-5+2)=4
	e := mustEngine(t, testContext(1))
	toPlayerAction(t, e)
	r := e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
	if !r.Success {
		t.Fatalf("attack rejected: %s", r.Reason)
	}
	wolf := e.Enemies()[0]
	if wolf.HP != 6 {
		t.Fatalf("wolf hp = %d, expected 6 (4 damage)", wolf.HP)
	}
	if wolf.Disposition != 8 {
		t.Fatalf("wolf disposition = %v, expected 8", wolf.Disposition)
	}
}

func TestAttackMissesBelowDefense(t *testing.T) {
	// strength 3, Fate -2, defense 5: total 1, miss, no damage
	ctx := testContext(1)
	ctx.Hero.Strength = 3
	ctx.FateCards = flatCards(4, -2)
	e := mustEngine(t, ctx)
	toPlayerAction(t, e)
	r := e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
	if !r.Success {
		t.Fatalf("attack rejected: %s", r.Reason)
	}
	missed := false
	for _, evt := range r.Events {
		if evt.Type == EventMiss {
			missed = true
		}
	}
	if !missed {
		t.Fatalf("expected miss event, got %+v", r.Events)
	}
	if e.Enemies()[0].HP != 10 {
		t.Fatalf("wolf hp = %d, expected untouched 10", e.Enemies()[0].HP)
	}
}

func TestWeaknessAndResistanceMultipliers(t *testing.T) {
	base := func(weak, strong []fate.Keyword) int {
		ctx := testContext(9)
		ctx.Enemies[0].Weaknesses = weak
		ctx.Enemies[0].Strengths = strong
		for i := range ctx.FateCards {
			ctx.FateCards[i].Keyword = fate.KeywordSurge
		}
		e := mustEngine(t, ctx)
		toPlayerAction(t, e)
		e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
		return 10 - e.Enemies()[0].HP
	}
	plain := base(nil, nil)
	weak := base([]fate.Keyword{fate.KeywordSurge}, nil)
	resist := base(nil, []fate.Keyword{fate.KeywordSurge})
	if weak <= plain {
		t.Errorf("weakness damage %d not greater than plain %d", weak, plain)
	}
	if resist >= plain {
		t.Errorf("resistance damage %d not less than plain %d", resist, plain)
	}
	if plain < 1 || resist < 1 {
		t.Errorf("connected attack dealt less than 1 damage: plain %d resist %d", plain, resist)
	}
}

func TestWaitIsStrictDeckNoOp(t *testing.T) {
	e := mustEngine(t, testContext(5))
	for round := 0; round < 3; round++ {
		toPlayerAction(t, e)
		drawBefore, discardBefore := e.Deck().Counts()
		rngBefore := e.RNGDraws()
		r := e.PerformAction(Action{Kind: ActionWait})
		if !r.Success {
			t.Fatalf("wait rejected: %s", r.Reason)
		}
		drawAfter, discardAfter := e.Deck().Counts()
		if drawAfter != drawBefore || discardAfter != discardBefore {
			t.Fatalf("wait changed piles: %d/%d -> %d/%d", drawBefore, discardBefore, drawAfter, discardAfter)
		}
		if e.RNGDraws() != rngBefore {
			t.Fatalf("wait consumed RNG: %d -> %d", rngBefore, e.RNGDraws())
		}
		// enemy_resolution, round_end, intent
		for i := 0; i < 3; i++ {
			if _, err := e.AdvancePhase(); err != nil {
				t.Fatalf("AdvancePhase: %v", err)
			}
		}
	}
}

func TestActionOutsidePlayerPhaseRejected(t *testing.T) {
	e := mustEngine(t, testContext(2))
	r := e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
	if r.Success || r.Reason != ReasonInvalidPhase {
		t.Fatalf("expected invalid_phase rejection, got %+v", r)
	}
	if e.Enemies()[0].HP != 10 {
		t.Fatalf("rejected action mutated state")
	}
}

func TestInvalidTargetRejected(t *testing.T) {
	e := mustEngine(t, testContext(2))
	toPlayerAction(t, e)
	before := e.RNGDraws()
	r := e.PerformAction(Action{Kind: ActionAttack, Target: "ghost"})
	if r.Success || r.Reason != ReasonInvalidTarget {
		t.Fatalf("expected invalid_target rejection, got %+v", r)
	}
	if e.RNGDraws() != before {
		t.Fatalf("rejected action consumed RNG")
	}
}

func TestSpiritAttackRequiresWPTrack(t *testing.T) {
	ctx := testContext(3)
	ctx.Enemies[0].WP = 0
	e := mustEngine(t, ctx)
	toPlayerAction(t, e)
	r := e.PerformAction(Action{Kind: ActionSpiritAttack, Target: "wolf"})
	if r.Success || r.Reason != ReasonNoSpiritTrack {
		t.Fatalf("expected no_spirit_track rejection, got %+v", r)
	}
}

func TestTurnEndingActionBlocksFurtherActions(t *testing.T) {
	e := mustEngine(t, testContext(4))
	toPlayerAction(t, e)
	e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
	r := e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
	if r.Success || r.Reason != ReasonAlreadyActed {
		t.Fatalf("expected already_acted rejection, got %+v", r)
	}
	r = e.PerformAction(Action{Kind: ActionUseCard, CardID: e.Hand()[0].ID})
	if r.Success {
		t.Fatalf("card play allowed after turn ended")
	}
}

func TestUseCardIsFreeAction(t *testing.T) {
	e := mustEngine(t, testContext(6))
	toPlayerAction(t, e)
	card := e.Hand()[0]
	r := e.PerformAction(Action{Kind: ActionUseCard, CardID: card.ID})
	if !r.Success {
		t.Fatalf("card play rejected: %s", r.Reason)
	}
	if e.Hero().AttackBonus != 2 {
		t.Fatalf("nav card bonus = %d, expected 2", e.Hero().AttackBonus)
	}
	if len(e.Hand()) != 2 {
		t.Fatalf("hand size = %d, expected 2", len(e.Hand()))
	}
	// Turn has not ended; an attack is still allowed and benefits from
	// the bonus.
	r = e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
	if !r.Success {
		t.Fatalf("attack after card play rejected: %s", r.Reason)
	}
	if got := 10 - e.Enemies()[0].HP; got != 6 {
		t.Fatalf("boosted damage = %d, expected 6", got)
	}
}

func TestMulliganOnceThenNoOp(t *testing.T) {
	ctx := testContext(7)
	ctx.FateCards = flatCards(8, 2)
	e := mustEngine(t, ctx)
	toPlayerAction(t, e)
	first := e.Hand()[0].ID
	r := e.PerformAction(Action{Kind: ActionMulligan, CardIDs: []string{first}})
	if !r.Success {
		t.Fatalf("mulligan rejected: %s", r.Reason)
	}
	if len(e.Hand()) != 3 {
		t.Fatalf("hand size after mulligan = %d, expected 3", len(e.Hand()))
	}

	handBefore := append([]fate.Card(nil), e.Hand()...)
	drawBefore, discardBefore := e.Deck().Counts()
	r = e.PerformAction(Action{Kind: ActionMulligan, CardIDs: []string{e.Hand()[0].ID}})
	if !r.Success || len(r.Events) != 0 {
		t.Fatalf("second mulligan should be an event-free no-op, got %+v", r)
	}
	drawAfter, discardAfter := e.Deck().Counts()
	if drawAfter != drawBefore || discardAfter != discardBefore {
		t.Fatalf("second mulligan altered piles")
	}
	for i := range handBefore {
		if e.Hand()[i].ID != handBefore[i].ID {
			t.Fatalf("second mulligan altered hand")
		}
	}
}

func TestKilledTakesPriorityOverPacified(t *testing.T) {
	e := mustEngine(t, testContext(8))
	en := e.Enemies()[0]
	en.HP = 0
	en.WP = 0
	log := newEventLog()
	e.markFallen(en, log)
	if en.Outcome != game.OutcomeKilled {
		t.Fatalf("outcome = %s, expected killed when hp and wp cross together", en.Outcome)
	}
}

func TestSummonGrowsRoster(t *testing.T) {
	ctx := testContext(11)
	ctx.Enemies[0].Abilities = []game.Ability{{Kind: game.AbilitySummon, EnemyID: "pup"}}
	ctx.SummonPool = []game.EnemyDefinition{{ID: "pup", Name: "Wolf Pup", HP: 4, Power: 2, Defense: 1}}
	e := mustEngine(t, ctx)
	if e.Enemies()[0].Intent.Kind != IntentSummon {
		t.Fatalf("expected summon intent, got %+v", e.Enemies()[0].Intent)
	}
	toPlayerAction(t, e)
	e.PerformAction(Action{Kind: ActionWait})
	r, err := e.AdvancePhase()
	if err != nil {
		t.Fatalf("AdvancePhase: %v", err)
	}
	if len(e.Enemies()) != 2 {
		t.Fatalf("roster size = %d, expected 2 after summon", len(e.Enemies()))
	}
	summoned := false
	for _, evt := range r.Events {
		if evt.Type == EventEnemySummoned {
			summoned = true
		}
	}
	if !summoned {
		t.Fatalf("no summon event in %+v", r.Events)
	}
	if !e.Enemies()[0].SummonUsed {
		t.Fatalf("summon not marked used")
	}
}

func TestDanglingSummonReferenceIsConstructionError(t *testing.T) {
	ctx := testContext(11)
	ctx.Enemies[0].Abilities = []game.Ability{{Kind: game.AbilitySummon, EnemyID: "nobody"}}
	if _, err := NewEngine(ctx); err == nil {
		t.Fatalf("expected construction error for dangling summon reference")
	}
}

func TestRegenerationCapsAtMaxHP(t *testing.T) {
	ctx := testContext(12)
	ctx.Enemies[0].Abilities = []game.Ability{{Kind: game.AbilityRegeneration, Amount: 3}}
	e := mustEngine(t, ctx)
	en := e.Enemies()[0]
	en.HP = 9
	log := newEventLog()
	e.endRound(log)
	if en.HP != 10 {
		t.Fatalf("hp after regeneration = %d, expected capped at 10", en.HP)
	}
}

func TestRoundEndResetsTemporaryBonuses(t *testing.T) {
	e := mustEngine(t, testContext(13))
	e.Hero().AttackBonus = 2
	e.Hero().DefenseBonus = 1
	e.Hero().InfluenceBonus = 3
	e.Hero().ProvokePenalty = 2
	e.Enemies()[0].DefenseBonus = 2
	round := e.Round()
	log := newEventLog()
	e.endRound(log)
	h := e.Hero()
	if h.AttackBonus != 0 || h.DefenseBonus != 0 || h.InfluenceBonus != 0 || h.ProvokePenalty != 0 {
		t.Fatalf("hero bonuses not reset: %+v", h)
	}
	if e.Enemies()[0].DefenseBonus != 0 {
		t.Fatalf("enemy defend bonus not reset")
	}
	if e.Round() != round+1 {
		t.Fatalf("round not incremented")
	}
}

func TestEscalationPhysicalToSpiritual(t *testing.T) {
	ctx := testContext(14)
	ctx.FateCards = flatCards(10, 2)
	e := mustEngine(t, ctx)
	toPlayerAction(t, e)
	e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
	for i := 0; i < 3; i++ {
		if _, err := e.AdvancePhase(); err != nil {
			t.Fatalf("AdvancePhase: %v", err)
		}
	}
	toPlayerAction(t, e)

	resBefore := e.Resonance()
	r := e.PerformAction(Action{Kind: ActionSpiritAttack, Target: "wolf"})
	if !r.Success {
		t.Fatalf("spirit attack rejected: %s", r.Reason)
	}
	if e.Resonance() != resBefore+5 {
		t.Fatalf("resonance = %v, expected shift +5 from %v", e.Resonance(), resBefore)
	}
	var shield, escalation bool
	for _, evt := range r.Events {
		if evt.Type == EventRageShield {
			shield = true
			if evt.Amount != e.Enemies()[0].Def.Power*e.Round() {
				t.Fatalf("rage shield %d, expected power*rounds %d", evt.Amount, e.Enemies()[0].Def.Power*e.Round())
			}
		}
		if evt.Type == EventEscalation {
			escalation = true
		}
	}
	if !shield || !escalation {
		t.Fatalf("expected rage shield and escalation events, got %+v", r.Events)
	}
}

func TestDeckExhaustionFallsBackToBoundedModifier(t *testing.T) {
	ctx := testContext(15)
	ctx.FateCards = flatCards(3, 2) // whole deck dealt to hand
	e := mustEngine(t, ctx)
	if e.Deck().TotalCards() != 0 {
		t.Fatalf("expected empty deck after dealing, %d cards left", e.Deck().TotalCards())
	}
	toPlayerAction(t, e)
	r := e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
	if !r.Success {
		t.Fatalf("attack with exhausted deck rejected: %s", r.Reason)
	}
	found := false
	for _, evt := range r.Events {
		if evt.Type == EventFateDraw {
			found = true
			if evt.Detail != "deck_exhausted" {
				t.Fatalf("expected fallback draw, got %+v", evt)
			}
			if evt.Amount < -2 || evt.Amount > 2 {
				t.Fatalf("fallback modifier %d outside [-2,2]", evt.Amount)
			}
		}
	}
	if !found {
		t.Fatalf("no fate draw event in %+v", r.Events)
	}
}

func TestVictoryAndClassification(t *testing.T) {
	ctx := testContext(16)
	ctx.Enemies[0].HP = 1
	e := mustEngine(t, ctx)
	toPlayerAction(t, e)
	r := e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
	if !r.Success {
		t.Fatalf("attack rejected: %s", r.Reason)
	}
	if e.Phase() != PhaseFinished {
		t.Fatalf("phase = %s, expected finished", e.Phase())
	}
	res := e.FinishEncounter()
	if !res.Victory {
		t.Fatalf("expected victory, got %+v", res)
	}
	if res.Outcomes[e.Enemies()[0].InstanceID] != game.OutcomeKilled {
		t.Fatalf("expected killed outcome, got %+v", res.Outcomes)
	}
	if res.Classification != game.ClassificationKilledDominant {
		t.Fatalf("classification = %s, expected killed dominant", res.Classification)
	}
	if _, err := e.AdvancePhase(); err != ErrEncounterFinished {
		t.Fatalf("expected ErrEncounterFinished, got %v", err)
	}
}

func TestCurseIntentAddsCardToDeck(t *testing.T) {
	ctx := testContext(17)
	ctx.FateCards = flatCards(10, 2)
	ctx.Enemies[0].Abilities = []game.Ability{{Kind: game.AbilityApplyCurse, CardID: "curse-of-rot"}}
	ctx.CardPool = []fate.Card{{ID: "curse-of-rot", Name: "Curse of Rot", Modifier: -3, Suit: fate.SuitNeutral}}
	e := mustEngine(t, ctx)

	// Curse intents only appear from round 2 on.
	if e.Enemies()[0].Intent.Kind != IntentAttack {
		t.Fatalf("round 1 intent = %+v, expected attack", e.Enemies()[0].Intent)
	}
	toPlayerAction(t, e)
	e.PerformAction(Action{Kind: ActionWait})
	for i := 0; i < 3; i++ {
		if _, err := e.AdvancePhase(); err != nil {
			t.Fatalf("AdvancePhase: %v", err)
		}
	}
	if e.Enemies()[0].Intent.Kind != IntentCurse {
		t.Fatalf("round 2 intent = %+v, expected curse", e.Enemies()[0].Intent)
	}
	total := e.Deck().TotalCards()
	toPlayerAction(t, e)
	e.PerformAction(Action{Kind: ActionWait})
	if _, err := e.AdvancePhase(); err != nil {
		t.Fatalf("AdvancePhase: %v", err)
	}
	if e.Deck().TotalCards() != total+1 {
		t.Fatalf("deck size %d, expected %d after curse", e.Deck().TotalCards(), total+1)
	}
}

func TestSnapshotRestoreContinuesIdentically(t *testing.T) {
	ctx := testContext(21)
	ctx.FateCards = flatCards(12, 1)

	run := func(checkpoint bool) (int, uint64) {
		e := mustEngine(t, ctx)
		toPlayerAction(t, e)
		e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
		if checkpoint {
			snap := e.Snapshot()
			restored, err := Restore(ctx, snap)
			if err != nil {
				t.Fatalf("Restore: %v", err)
			}
			e = restored
		}
		for i := 0; i < 3; i++ {
			if _, err := e.AdvancePhase(); err != nil {
				t.Fatalf("AdvancePhase: %v", err)
			}
		}
		toPlayerAction(t, e)
		e.PerformAction(Action{Kind: ActionAttack, Target: "wolf"})
		return e.Enemies()[0].HP, e.RNGDraws()
	}

	hpPlain, drawsPlain := run(false)
	hpCheckpointed, drawsCheckpointed := run(true)
	if hpPlain != hpCheckpointed || drawsPlain != drawsCheckpointed {
		t.Fatalf("checkpointed run diverged: hp %d vs %d, draws %d vs %d",
			hpPlain, hpCheckpointed, drawsPlain, drawsCheckpointed)
	}
}
