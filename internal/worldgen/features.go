package worldgen

import (
	"math/rand"

	"github.com/samdwyer/liminal/internal/world"
)

// Secondary deterministic features: doors, ambient lights, decorative
// variants, exit stairs. None of these are boundary-sensitive, so they may
// consume the chunk's sequential stream.

const (
	doorChance       = 0.2
	brokenLightBase  = 0.08
	brokenLightScale = 0.6
	puddleBase       = 0.012
	puddleScale      = 0.8
	cardboardChance  = 0.01
	stainChance      = 0.008
	holeChance       = 0.0015
)

// hazardChance mirrors the corruption spawn-probability formula for
// generation-time feature densities.
func hazardChance(base, multiplier, corruptionValue float64) float64 {
	p := base * (1 + corruptionValue*multiplier)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// placeDoors closes off some single-width corridor tiles. A candidate tile
// has open passage in exactly one axis and walls on the other; placed doors
// keep a minimum spacing so doors never cluster or sit adjacent.
func placeDoors(ch *world.Chunk, walls *[world.ChunkSize][world.ChunkSize]bool, rng *rand.Rand) {
	origin := ch.Origin()
	var placed []cell

	for y := 1; y < world.ChunkSize-1; y++ {
		for x := 1; x < world.ChunkSize-1; x++ {
			if walls[y][x] {
				continue
			}
			nsCorridor := !walls[y-1][x] && !walls[y+1][x] && walls[y][x-1] && walls[y][x+1]
			ewCorridor := !walls[y][x-1] && !walls[y][x+1] && walls[y-1][x] && walls[y+1][x]
			if !nsCorridor && !ewCorridor {
				continue
			}
			if rng.Float64() >= doorChance {
				continue
			}

			spaced := true
			for _, d := range placed {
				dx, dy := x-d.x, y-d.y
				if dx < 0 {
					dx = -dx
				}
				if dy < 0 {
					dy = -dy
				}
				if dx < doorMinSpacing && dy < doorMinSpacing {
					spaced = false
					break
				}
			}
			if !spaced {
				continue
			}

			ch.SetGround(world.TilePos{X: origin.X + x, Y: origin.Y + y}, world.GroundDoorClosed)
			placed = append(placed, cell{x, y})
		}
	}
}

// placeLights drops fluorescent fixtures on a jittered regular grid. The
// broken-light ratio rises with corruption.
func placeLights(ch *world.Chunk, rng *rand.Rand, corruptionValue float64) {
	broken := hazardChance(brokenLightBase, brokenLightScale, corruptionValue)
	origin := ch.Origin()

	for gy := 4; gy < world.ChunkSize; gy += 8 {
		for gx := 4; gx < world.ChunkSize; gx += 8 {
			jx := gx + rng.Intn(5) - 2
			jy := gy + rng.Intn(5) - 2
			tile := world.CeilingLight
			if rng.Float64() < broken {
				tile = world.CeilingLightBroken
			}
			ch.SetCeiling(world.TilePos{X: origin.X + jx, Y: origin.Y + jy}, tile)
		}
	}
}

// sprinkleDecor scatters floor and ceiling variants over plain tiles.
// Puddles are a hazard texture and scale with corruption.
func sprinkleDecor(ch *world.Chunk, rng *rand.Rand, corruptionValue float64) {
	puddle := hazardChance(puddleBase, puddleScale, corruptionValue)
	origin := ch.Origin()

	for y := 0; y < world.ChunkSize; y++ {
		for x := 0; x < world.ChunkSize; x++ {
			p := world.TilePos{X: origin.X + x, Y: origin.Y + y}
			if ch.Ground(p) == world.GroundFloor {
				switch roll := rng.Float64(); {
				case roll < puddle:
					ch.SetGround(p, world.GroundFloorPuddle)
				case roll < puddle+cardboardChance:
					ch.SetGround(p, world.GroundFloorCardboard)
				}
			}
			if ch.Ceiling(p) == world.CeilingPlain {
				switch roll := rng.Float64(); {
				case roll < holeChance:
					ch.SetCeiling(p, world.CeilingHole)
				case roll < holeChance+stainChance:
					ch.SetCeiling(p, world.CeilingStain)
				}
			}
		}
	}
}

// placeExitStairs marks roughly one chunk in exitStairsModulus with a set of
// stairs to the next level, at a hash-chosen walkable tile.
func placeExitStairs(ch *world.Chunk, seed int64, key world.ChunkKey) {
	h := worldHash(seed, key.Level, tagExitStairs, int64(key.Coord.X), int64(key.Coord.Y))
	if h%exitStairsModulus != 0 {
		return
	}

	origin := ch.Origin()
	total := world.ChunkSize * world.ChunkSize
	start := int((h >> 8) % uint64(total))
	for i := 0; i < total; i++ {
		idx := (start + i) % total
		p := world.TilePos{X: origin.X + idx%world.ChunkSize, Y: origin.Y + idx/world.ChunkSize}
		if ch.Ground(p) == world.GroundFloor {
			ch.SetGround(p, world.GroundExitStairs)
			return
		}
	}
}
