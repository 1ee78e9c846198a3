package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/velesar/fateweaver/internal/fate"
	"github.com/velesar/fateweaver/internal/game"
)

type cardEntry struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Modifier       int                  `json:"modifier"`
	IsCritical     bool                 `json:"is_critical"`
	IsSticky       bool                 `json:"is_sticky"`
	Suit           string               `json:"suit"`
	Keyword        string               `json:"keyword"`
	ResonanceRules []fate.ResonanceRule `json:"resonance_rules"`
	OnDrawEffects  []fate.DrawEffect    `json:"on_draw_effects"`
}

type rawConfig struct {
	Hero       *game.HeroStats        `json:"hero"`
	EnemyList  []game.EnemyDefinition `json:"enemy_list"`
	SummonList []game.EnemyDefinition `json:"summon_list"`
	FateDeck   []cardEntry            `json:"fate_deck"`
	// extra_cards holds cards outside the starting deck, such as curse
	// cards that enemies shuffle in mid-encounter.
	ExtraCards []cardEntry `json:"extra_cards"`
	Server     *struct {
		Address string `json:"address"`
	} `json:"server"`
}

// LoadedConfig is the validated content pack plus the server address.
type LoadedConfig struct {
	Hero          game.HeroStats
	Enemies       []game.EnemyDefinition
	SummonPool    []game.EnemyDefinition
	Deck          []fate.Card
	CardPool      []fate.Card
	ServerAddress string
}

// LoadConfig reads and validates the content file at path. Any dangling
// ability reference (summon to an unknown enemy, curse to an unknown
// card) is an error; callers treat it as fatal at startup.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(rc.EnemyList) == 0 {
		return nil, fmt.Errorf("config file %s: enemy_list is empty (provide 'enemy_list' array)", path)
	}
	if len(rc.FateDeck) == 0 {
		return nil, fmt.Errorf("config file %s: fate_deck is empty (provide 'fate_deck' array)", path)
	}
	if rc.Hero == nil {
		return nil, fmt.Errorf("config file %s: missing 'hero' block", path)
	}
	if rc.Hero.HP <= 0 || rc.Hero.MaxHP <= 0 {
		return nil, fmt.Errorf("config file %s: hero hp and max_hp must be positive", path)
	}

	deck, err := convertCards(path, "fate_deck", rc.FateDeck)
	if err != nil {
		return nil, err
	}
	extra, err := convertCards(path, "extra_cards", rc.ExtraCards)
	if err != nil {
		return nil, err
	}
	cardPool := append(append([]fate.Card(nil), deck...), extra...)

	cardIDs := make(map[string]struct{}, len(cardPool))
	for _, c := range cardPool {
		if _, dup := cardIDs[c.ID]; dup {
			return nil, fmt.Errorf("config file %s: duplicate card id %q", path, c.ID)
		}
		cardIDs[c.ID] = struct{}{}
	}

	enemyIDs := make(map[string]struct{}, len(rc.EnemyList)+len(rc.SummonList))
	summonIDs := make(map[string]struct{}, len(rc.SummonList))
	for _, e := range rc.EnemyList {
		if e.ID == "" {
			return nil, fmt.Errorf("config file %s: enemy entry missing 'id'", path)
		}
		if _, dup := enemyIDs[e.ID]; dup {
			return nil, fmt.Errorf("config file %s: duplicate enemy id %q", path, e.ID)
		}
		enemyIDs[e.ID] = struct{}{}
	}
	for _, e := range rc.SummonList {
		if e.ID == "" {
			return nil, fmt.Errorf("config file %s: summon entry missing 'id'", path)
		}
		if _, dup := enemyIDs[e.ID]; dup {
			return nil, fmt.Errorf("config file %s: duplicate enemy id %q", path, e.ID)
		}
		enemyIDs[e.ID] = struct{}{}
		summonIDs[e.ID] = struct{}{}
	}

	// Reference validation across both rosters.
	all := append(append([]game.EnemyDefinition(nil), rc.EnemyList...), rc.SummonList...)
	for _, e := range all {
		for _, ab := range e.Abilities {
			switch ab.Kind {
			case game.AbilitySummon:
				if _, ok := summonIDs[ab.EnemyID]; !ok {
					return nil, fmt.Errorf("config file %s: enemy %q summon references %q, not present in summon_list", path, e.ID, ab.EnemyID)
				}
			case game.AbilityApplyCurse:
				if _, ok := cardIDs[ab.CardID]; !ok {
					return nil, fmt.Errorf("config file %s: enemy %q curse references unknown card %q", path, e.ID, ab.CardID)
				}
			case game.AbilityArmor, game.AbilityRegeneration, game.AbilityBonusDamage:
				if ab.Amount <= 0 {
					return nil, fmt.Errorf("config file %s: enemy %q ability %q needs a positive amount", path, e.ID, ab.Kind)
				}
			default:
				return nil, fmt.Errorf("config file %s: enemy %q has unknown ability kind %q", path, e.ID, ab.Kind)
			}
		}
	}

	addr := ":8080"
	if rc.Server != nil && rc.Server.Address != "" {
		addr = rc.Server.Address
	}

	return &LoadedConfig{
		Hero:          *rc.Hero,
		Enemies:       rc.EnemyList,
		SummonPool:    rc.SummonList,
		Deck:          deck,
		CardPool:      cardPool,
		ServerAddress: addr,
	}, nil
}

func convertCards(path, section string, entries []cardEntry) ([]fate.Card, error) {
	out := make([]fate.Card, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, c := range entries {
		if strings.TrimSpace(c.ID) == "" {
			return nil, fmt.Errorf("config file %s: %s entry missing 'id'", path, section)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("config file %s: duplicate card id %q in %s", path, c.ID, section)
		}
		seen[c.ID] = struct{}{}
		kw := fate.Keyword(c.Keyword)
		if !fate.ValidKeyword(kw) {
			return nil, fmt.Errorf("config file %s: card %q has unknown keyword %q", path, c.ID, c.Keyword)
		}
		out = append(out, fate.Card{
			ID:             c.ID,
			Name:           c.Name,
			Modifier:       c.Modifier,
			IsCritical:     c.IsCritical,
			IsSticky:       c.IsSticky,
			Suit:           fate.Suit(c.Suit),
			Keyword:        kw,
			ResonanceRules: c.ResonanceRules,
			OnDrawEffects:  c.OnDrawEffects,
		})
	}
	return out, nil
}
