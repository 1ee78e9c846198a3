package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `{
  "hero": {"hp": 20, "max_hp": 20, "strength": 5, "armor": 2, "wisdom": 4},
  "enemy_list": [
    {"id": "wolf", "name": "Grey Wolf", "hp": 10, "wp": 8, "power": 3, "defense": 4, "spirit_defense": 3,
     "abilities": [{"kind": "summon", "enemy_id": "pup"}]},
    {"id": "hag", "name": "Bog Hag", "hp": 8, "wp": 10, "power": 2, "defense": 2, "spirit_defense": 5,
     "abilities": [{"kind": "apply_curse", "card_id": "curse-of-rot"}]}
  ],
  "summon_list": [
    {"id": "pup", "name": "Wolf Pup", "hp": 4, "power": 2, "defense": 1}
  ],
  "fate_deck": [
    {"id": "c1", "name": "Ember", "modifier": 2, "suit": "nav", "keyword": "surge"},
    {"id": "c2", "name": "Mist", "modifier": -1, "suit": "yav"}
  ],
  "extra_cards": [
    {"id": "curse-of-rot", "name": "Curse of Rot", "modifier": -3, "is_sticky": true, "suit": "neutral"}
  ],
  "server": {"address": ":9090"}
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadConfigValid(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.Enemies) != 2 || len(cfg.SummonPool) != 1 {
		t.Fatalf("unexpected roster sizes: %d enemies, %d summons", len(cfg.Enemies), len(cfg.SummonPool))
	}
	if len(cfg.Deck) != 2 || len(cfg.CardPool) != 3 {
		t.Fatalf("unexpected card counts: deck %d, pool %d", len(cfg.Deck), len(cfg.CardPool))
	}
	if cfg.ServerAddress != ":9090" {
		t.Fatalf("server address = %q", cfg.ServerAddress)
	}
	if cfg.Hero.Strength != 5 {
		t.Fatalf("hero strength = %d", cfg.Hero.Strength)
	}
}

func TestLoadConfigDanglingSummon(t *testing.T) {
	broken := strings.Replace(validConfig, `"enemy_id": "pup"`, `"enemy_id": "ghost"`, 1)
	_, err := LoadConfig(writeConfig(t, broken))
	if err == nil || !strings.Contains(err.Error(), "summon references") {
		t.Fatalf("expected dangling summon error, got %v", err)
	}
}

func TestLoadConfigDanglingCurse(t *testing.T) {
	broken := strings.Replace(validConfig, `"card_id": "curse-of-rot"`, `"card_id": "missing"`, 1)
	_, err := LoadConfig(writeConfig(t, broken))
	if err == nil || !strings.Contains(err.Error(), "curse references") {
		t.Fatalf("expected dangling curse error, got %v", err)
	}
}

func TestLoadConfigDuplicateCardID(t *testing.T) {
	broken := strings.Replace(validConfig, `"id": "c2"`, `"id": "c1"`, 1)
	_, err := LoadConfig(writeConfig(t, broken))
	if err == nil || !strings.Contains(err.Error(), "duplicate card id") {
		t.Fatalf("expected duplicate card error, got %v", err)
	}
}

func TestLoadConfigUnknownKeyword(t *testing.T) {
	broken := strings.Replace(validConfig, `"keyword": "surge"`, `"keyword": "fire"`, 1)
	_, err := LoadConfig(writeConfig(t, broken))
	if err == nil || !strings.Contains(err.Error(), "unknown keyword") {
		t.Fatalf("expected keyword error, got %v", err)
	}
}

func TestLoadConfigMissingHero(t *testing.T) {
	broken := strings.Replace(validConfig, `"hero": {"hp": 20, "max_hp": 20, "strength": 5, "armor": 2, "wisdom": 4},`, "", 1)
	_, err := LoadConfig(writeConfig(t, broken))
	if err == nil || !strings.Contains(err.Error(), "hero") {
		t.Fatalf("expected missing hero error, got %v", err)
	}
}
