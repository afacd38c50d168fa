package world

import (
	"encoding/json"
	"testing"
)

func TestChunkCoordOfNegative(t *testing.T) {
	tests := []struct {
		pos  TilePos
		want ChunkCoord
	}{
		{TilePos{0, 0}, ChunkCoord{0, 0}},
		{TilePos{127, 127}, ChunkCoord{0, 0}},
		{TilePos{128, 0}, ChunkCoord{1, 0}},
		{TilePos{-1, -1}, ChunkCoord{-1, -1}},
		{TilePos{-128, -1}, ChunkCoord{-1, -1}},
		{TilePos{-129, 0}, ChunkCoord{-2, 0}},
		{TilePos{255, -256}, ChunkCoord{1, -2}},
	}

	for _, tt := range tests {
		if got := ChunkCoordOf(tt.pos); got != tt.want {
			t.Errorf("ChunkCoordOf(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestLocalInChunkNegative(t *testing.T) {
	tests := []struct {
		pos    TilePos
		lx, ly int
	}{
		{TilePos{0, 0}, 0, 0},
		{TilePos{127, 5}, 127, 5},
		{TilePos{-1, -1}, 127, 127},
		{TilePos{-128, -127}, 0, 1},
		{TilePos{300, -300}, 44, 84},
	}

	for _, tt := range tests {
		lx, ly := LocalInChunk(tt.pos)
		if lx != tt.lx || ly != tt.ly {
			t.Errorf("LocalInChunk(%v) = (%d,%d), want (%d,%d)", tt.pos, lx, ly, tt.lx, tt.ly)
		}
	}
}

func TestChunkTileSentinelAndNoOp(t *testing.T) {
	c := NewChunk(ChunkKey{Coord: ChunkCoord{0, 0}, Level: 0})

	// Out-of-chunk reads return the sentinel, not an error.
	if got := c.Ground(TilePos{-1, 0}); got != GroundEmpty {
		t.Errorf("Ground outside chunk = %v, want GroundEmpty", got)
	}
	if got := c.Ceiling(TilePos{128, 128}); got != CeilingEmpty {
		t.Errorf("Ceiling outside chunk = %v, want CeilingEmpty", got)
	}

	// Out-of-chunk writes are silent no-ops.
	c.SetGround(TilePos{-5, 7}, GroundFloor)
	if c.WalkableCount() != 0 {
		t.Errorf("SetGround outside chunk changed walkable count to %d", c.WalkableCount())
	}

	c.SetGround(TilePos{10, 10}, GroundFloor)
	if c.WalkableCount() != 1 {
		t.Errorf("WalkableCount = %d, want 1", c.WalkableCount())
	}
	if !c.IsWalkable(TilePos{10, 10}) {
		t.Error("floor tile should be walkable")
	}

	// Overwriting walkable with wall decrements the count.
	c.SetGround(TilePos{10, 10}, GroundWall)
	if c.WalkableCount() != 0 {
		t.Errorf("WalkableCount after wall = %d, want 0", c.WalkableCount())
	}
}

func TestWalkability(t *testing.T) {
	tests := []struct {
		tile GroundTile
		want bool
	}{
		{GroundEmpty, false},
		{GroundWall, false},
		{GroundDoorClosed, false},
		{GroundFloor, true},
		{GroundFloorCardboard, true},
		{GroundFloorPuddle, true},
		{GroundDoorOpen, true},
		{GroundExitStairs, true},
	}

	for _, tt := range tests {
		if got := tt.tile.IsWalkable(); got != tt.want {
			t.Errorf("%v.IsWalkable() = %v, want %v", tt.tile, got, tt.want)
		}
	}
}

func TestMoveCreatureAcrossSubChunkBoundary(t *testing.T) {
	c := NewChunk(ChunkKey{Coord: ChunkCoord{0, 0}, Level: 0})
	cr := NewCreatureRecord("bacteria", ArchetypeSwarmer, TilePos{15, 8}, 0, 6)

	if !c.AddCreature(cr) {
		t.Fatal("AddCreature failed")
	}

	// Tile 15 -> 16 crosses into the next sub-chunk column.
	if !c.MoveCreature(cr, TilePos{16, 8}) {
		t.Fatal("MoveCreature failed")
	}

	from := c.SubChunk(0, 0)
	dest := c.SubChunk(1, 0)
	if len(from.Creatures()) != 0 {
		t.Errorf("source sub-chunk still owns %d creatures", len(from.Creatures()))
	}
	if len(dest.Creatures()) != 1 {
		t.Fatalf("destination sub-chunk owns %d creatures, want 1", len(dest.Creatures()))
	}
	if dest.Creatures()[0] != cr {
		t.Error("destination sub-chunk owns a different record")
	}
	if cr.Pos != (TilePos{16, 8}) {
		t.Errorf("creature position = %v, want (16,8)", cr.Pos)
	}

	// Moving within the same sub-chunk keeps ownership.
	if !c.MoveCreature(cr, TilePos{17, 9}) {
		t.Fatal("intra-sub-chunk move failed")
	}
	if len(dest.Creatures()) != 1 {
		t.Errorf("intra-sub-chunk move changed ownership count to %d", len(dest.Creatures()))
	}

	// Moving out of the chunk is refused and leaves the record in place.
	if c.MoveCreature(cr, TilePos{200, 8}) {
		t.Error("MoveCreature out of chunk should fail")
	}
	if cr.Pos != (TilePos{17, 9}) {
		t.Errorf("failed move mutated position to %v", cr.Pos)
	}
}

func TestCreatureChangeEvents(t *testing.T) {
	cr := NewCreatureRecord("bacteria", ArchetypeSwarmer, TilePos{0, 0}, 0, 10)

	var healthDeltas []int
	died := 0
	cr.OnHealthChanged = func(c *CreatureRecord, delta int) {
		healthDeltas = append(healthDeltas, delta)
	}
	cr.OnDied = func(c *CreatureRecord) { died++ }

	if got := cr.ApplyDamage(4); got != 4 {
		t.Errorf("ApplyDamage(4) = %d, want 4", got)
	}
	if got := cr.Heal(2); got != 2 {
		t.Errorf("Heal(2) = %d, want 2", got)
	}
	// Overkill clamps to remaining HP and fires OnDied exactly once.
	if got := cr.ApplyDamage(100); got != 8 {
		t.Errorf("overkill ApplyDamage = %d, want 8", got)
	}
	if cr.ApplyDamage(5) != 0 {
		t.Error("damage to a dead creature should be 0")
	}

	wantDeltas := []int{-4, 2, -8}
	if len(healthDeltas) != len(wantDeltas) {
		t.Fatalf("got %d health events, want %d", len(healthDeltas), len(wantDeltas))
	}
	for i, d := range wantDeltas {
		if healthDeltas[i] != d {
			t.Errorf("health event %d = %d, want %d", i, healthDeltas[i], d)
		}
	}
	if died != 1 {
		t.Errorf("OnDied fired %d times, want 1", died)
	}
}

func TestCreatureDebugSnapshot(t *testing.T) {
	cr := NewCreatureRecord("brood_mother", ArchetypeMother, TilePos{-3, 44}, 1, 25)
	cr.LastKnownGoal = TilePos{10, 10}
	cr.HasGoal = true

	snap := cr.DebugSnapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("snapshot did not marshal: %v", err)
	}

	// Mutating the snapshot must not touch live state.
	snap.HP = 1
	if cr.HP != 25 {
		t.Error("snapshot mutation leaked into live record")
	}
	if len(data) == 0 {
		t.Error("empty snapshot JSON")
	}
}
