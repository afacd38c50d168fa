package game

import (
	"testing"

	"github.com/samdwyer/liminal/internal/world"
)

func TestPlayerDamageAndHeal(t *testing.T) {
	p := NewPlayer(world.TilePos{X: 1, Y: 1})

	if got := p.ApplyDamage(5); got != 5 {
		t.Errorf("ApplyDamage(5) = %d, want 5", got)
	}
	if p.HP != p.MaxHP-5 {
		t.Errorf("HP = %d after 5 damage, want %d", p.HP, p.MaxHP-5)
	}

	// Healing clamps at MaxHP.
	if got := p.Heal(100); got != 5 {
		t.Errorf("Heal(100) healed %d, want 5", got)
	}
	if p.HP != p.MaxHP {
		t.Errorf("HP = %d after overheal, want %d", p.HP, p.MaxHP)
	}

	// Overkill clamps at zero and dead players stay dead.
	if got := p.ApplyDamage(p.MaxHP + 50); got != p.MaxHP {
		t.Errorf("overkill dealt %d, want %d", got, p.MaxHP)
	}
	if p.IsAlive() {
		t.Error("player alive at 0 HP")
	}
	if got := p.Heal(10); got != 0 {
		t.Errorf("dead player healed %d", got)
	}
}

func TestConfigEffectiveSeed(t *testing.T) {
	if got := (Config{Seed: 42}).EffectiveSeed(); got != 42 {
		t.Errorf("pinned seed = %d, want 42", got)
	}
	if (Config{}).EffectiveSeed() == 0 {
		t.Error("zero seed was not replaced")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LIMINAL_SEED", "1234")
	if got := ConfigFromEnv().Seed; got != 1234 {
		t.Errorf("seed from env = %d, want 1234", got)
	}

	t.Setenv("LIMINAL_SEED", "not-a-number")
	if got := ConfigFromEnv().Seed; got != 0 {
		t.Errorf("unparseable seed = %d, want 0", got)
	}
}
