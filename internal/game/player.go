package game

import (
	"github.com/samdwyer/liminal/internal/world"
)

// Player is the wanderer. Unlike creatures, the player is not owned by a
// chunk: the streaming window follows them, never the other way around.
type Player struct {
	Pos    world.TilePos
	Level  int
	HP     int
	MaxHP  int
	Attack int
}

// NewPlayer creates a player at the given tile on level 0.
func NewPlayer(pos world.TilePos) *Player {
	return &Player{
		Pos:    pos,
		HP:     20,
		MaxHP:  20,
		Attack: 4,
	}
}

// IsAlive returns true if the player has HP remaining.
func (p *Player) IsAlive() bool { return p.HP > 0 }

// ApplyDamage reduces HP, clamping at zero, and returns the damage taken.
func (p *Player) ApplyDamage(amount int) int {
	if amount <= 0 || p.HP <= 0 {
		return 0
	}
	if amount > p.HP {
		amount = p.HP
	}
	p.HP -= amount
	return amount
}

// Heal restores HP up to MaxHP and returns the amount healed.
func (p *Player) Heal(amount int) int {
	if amount <= 0 || p.HP <= 0 {
		return 0
	}
	if p.HP+amount > p.MaxHP {
		amount = p.MaxHP - p.HP
	}
	p.HP += amount
	return amount
}
