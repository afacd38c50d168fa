package stream

import (
	"context"
	"testing"
	"time"

	"github.com/samdwyer/liminal/internal/corruption"
	"github.com/samdwyer/liminal/internal/event"
	"github.com/samdwyer/liminal/internal/gamedata"
	"github.com/samdwyer/liminal/internal/nav"
	"github.com/samdwyer/liminal/internal/world"
)

// openGen builds fully-open floor chunks instantly. Keys listed in fail
// produce that many invalid (zero-walkable) chunks before succeeding.
type openGen struct {
	fail map[world.ChunkKey]int
}

func (g *openGen) GenerateChunk(_ context.Context, key world.ChunkKey, _ int64, _ float64) *world.Chunk {
	ch := world.NewChunk(key)
	if g.fail != nil && g.fail[key] > 0 {
		g.fail[key]--
		return ch
	}
	origin := ch.Origin()
	for y := 0; y < world.ChunkSize; y++ {
		for x := 0; x < world.ChunkSize; x++ {
			ch.SetGround(world.TilePos{X: origin.X + x, Y: origin.Y + y}, world.GroundFloor)
		}
	}
	return ch
}

type panicGen struct {
	bad world.ChunkKey
}

func (g *panicGen) GenerateChunk(_ context.Context, key world.ChunkKey, _ int64, _ float64) *world.Chunk {
	if key == g.bad {
		panic("corrupt template")
	}
	ch := world.NewChunk(key)
	ch.SetGround(ch.Origin(), world.GroundFloor)
	return ch
}

func collectResults(t *testing.T, w *Worker, n int) []Result {
	t.Helper()
	deadline := time.After(5 * time.Second)
	var out []Result
	for len(out) < n {
		select {
		case <-w.ResultReady():
			out = append(out, w.Drain()...)
		case <-deadline:
			t.Fatalf("timed out with %d of %d results", len(out), n)
		}
	}
	return out
}

func key(x, y, level int) world.ChunkKey {
	return world.ChunkKey{Coord: world.ChunkCoord{X: x, Y: y}, Level: level}
}

func TestWorkerDeliversChunks(t *testing.T) {
	w := NewWorker(&openGen{})
	defer w.Stop()

	keys := []world.ChunkKey{key(0, 0, 0), key(1, 0, 0), key(-2, 3, 1)}
	for _, k := range keys {
		w.Enqueue(Request{Key: k, Seed: 7})
	}

	results := collectResults(t, w, len(keys))
	seen := map[world.ChunkKey]bool{}
	for _, res := range results {
		if res.Err != nil {
			t.Errorf("chunk %v: unexpected error %v", res.Request.Key, res.Err)
		}
		if res.Chunk == nil || res.Chunk.WalkableCount() == 0 {
			t.Errorf("chunk %v: missing or empty chunk", res.Request.Key)
			continue
		}
		seen[res.Chunk.Key()] = true
	}
	for _, k := range keys {
		if !seen[k] {
			t.Errorf("chunk %v never delivered", k)
		}
	}
}

func TestWorkerDropsInvalidChunks(t *testing.T) {
	bad := key(5, 5, 0)
	w := NewWorker(&openGen{fail: map[world.ChunkKey]int{bad: 1}})
	defer w.Stop()

	w.Enqueue(Request{Key: bad, Seed: 7})
	res := collectResults(t, w, 1)[0]
	if res.Err == nil {
		t.Fatal("invalid chunk delivered without error")
	}
	if res.Chunk != nil {
		t.Error("invalid chunk was not dropped")
	}
}

func TestWorkerSurvivesPanic(t *testing.T) {
	bad := key(9, 9, 0)
	w := NewWorker(&panicGen{bad: bad})
	defer w.Stop()

	w.Enqueue(Request{Key: bad, Seed: 7})
	w.Enqueue(Request{Key: key(0, 0, 0), Seed: 7})

	results := collectResults(t, w, 2)
	var sawFailure, sawSuccess bool
	for _, res := range results {
		if res.Request.Key == bad {
			sawFailure = res.Err != nil && res.Chunk == nil
		} else {
			sawSuccess = res.Err == nil && res.Chunk != nil
		}
	}
	if !sawFailure {
		t.Error("panicking generation did not surface as a failed result")
	}
	if !sawSuccess {
		t.Error("worker did not keep serving after a panic")
	}
}

// testManager wires a manager against real registries and a fake generator.
func testManager(t *testing.T, cfg Config, gen Generator) (*Manager, *event.Bus, func()) {
	t.Helper()
	w := NewWorker(gen)
	bus := event.NewBus()
	m := NewManager(cfg, Deps{
		Worker:    w,
		Graph:     nav.NewGraph(),
		Tracker:   corruption.NewTracker(),
		Levels:    gamedata.MustLoadLevelRegistry(),
		Creatures: gamedata.MustLoadCreatureRegistry(),
		Items:     gamedata.MustLoadItemRegistry(),
		Bus:       bus,
	})
	return m, bus, w.Stop
}

func TestManagerInitialFillAndSettle(t *testing.T) {
	m, bus, stop := testManager(t, DefaultConfig(1), &openGen{})
	defer stop()

	var loads, settles int
	var settledTurn int
	bus.Subscribe(func(ev event.Event) {
		switch e := ev.(type) {
		case event.ChunkLoaded:
			loads++
		case event.WorldSettled:
			settles++
			settledTurn = e.Turn
		}
	})

	ctx := context.Background()
	pos := world.TilePos{X: 10, Y: 10}
	m.Update(ctx, 0, pos)
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}

	if got, want := m.LoadedCount(), 9; got != want {
		t.Errorf("loaded %d chunks, want %d (radius 1)", got, want)
	}
	if loads != 9 {
		t.Errorf("ChunkLoaded fired %d times, want 9", loads)
	}
	if settles != 1 || settledTurn != 1 {
		t.Errorf("WorldSettled fired %d times (turn %d), want once at turn 1", settles, settledTurn)
	}
	if m.PendingCount() != 0 {
		t.Errorf("%d chunks still pending after Settle", m.PendingCount())
	}
	if !m.IsWalkable(0, pos) {
		t.Error("player tile not queryable after settle")
	}
}

func TestManagerBumpsCorruptionOncePerChunk(t *testing.T) {
	m, _, stop := testManager(t, DefaultConfig(1), &openGen{})
	defer stop()

	ctx := context.Background()
	inc := gamedata.MustLoadLevelRegistry().Get(0).CorruptionIncrement

	m.Update(ctx, 0, world.TilePos{X: 5, Y: 5})
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}
	if got := m.deps.Tracker.Value(0); got != inc {
		t.Errorf("corruption after first visit = %v, want %v", got, inc)
	}

	// Same chunk again: no second bump.
	m.Update(ctx, 0, world.TilePos{X: 6, Y: 5})
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}
	if got := m.deps.Tracker.Value(0); got != inc {
		t.Errorf("corruption after revisit = %v, want %v", got, inc)
	}

	// A new chunk bumps again.
	m.Update(ctx, 0, world.TilePos{X: world.ChunkSize + 5, Y: 5})
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}
	if got := m.deps.Tracker.Value(0); got != 2*inc {
		t.Errorf("corruption after second chunk = %v, want %v", got, 2*inc)
	}
}

func TestManagerUnloadsDistantChunks(t *testing.T) {
	cfg := DefaultConfig(1)
	cfg.MaxUnloadsPerTurn = 16
	m, bus, stop := testManager(t, cfg, &openGen{})
	defer stop()

	var unloads int
	bus.Subscribe(func(ev event.Event) {
		if _, ok := ev.(event.ChunkUnloaded); ok {
			unloads++
		}
	})

	ctx := context.Background()
	m.Update(ctx, 0, world.TilePos{X: 0, Y: 0})
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}

	// Teleport far away; everything around the origin is now out of range.
	far := world.TilePos{X: 10 * world.ChunkSize, Y: 10 * world.ChunkSize}
	m.Update(ctx, 0, far)
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}

	if unloads == 0 {
		t.Fatal("no chunks unloaded after leaving the area")
	}
	origin := world.TilePos{X: 10, Y: 10}
	if m.chunkAt(0, origin) != nil && m.chunkAt(0, origin).Key().Coord.ChebyshevDist(world.ChunkCoordOf(far)) > cfg.UnloadRadius {
		t.Error("distant chunk still loaded")
	}
	if m.Graph().HasPoint(0, origin) && m.chunkAt(0, origin) == nil {
		t.Error("navigation point outlived its chunk")
	}
}

func TestManagerRetriesFailedChunk(t *testing.T) {
	center := world.ChunkCoordOf(world.TilePos{X: 5, Y: 5})
	bad := world.ChunkKey{Coord: center, Level: 0}
	gen := &openGen{fail: map[world.ChunkKey]int{bad: 1}}

	m, _, stop := testManager(t, DefaultConfig(1), gen)
	defer stop()

	// Fake clock so backoff delays elapse instantly between turns.
	clock := time.Now()
	m.now = func() time.Time { return clock }

	ctx := context.Background()
	m.Update(ctx, 0, world.TilePos{X: 5, Y: 5})
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}
	if m.Chunk(bad) != nil {
		t.Fatal("failed chunk was loaded anyway")
	}

	clock = clock.Add(time.Minute)
	m.Update(ctx, 0, world.TilePos{X: 5, Y: 5})
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}
	if m.Chunk(bad) == nil {
		t.Error("failed chunk was not retried after backoff")
	}
}

func TestManagerRespectsLoadedCap(t *testing.T) {
	cfg := DefaultConfig(1)
	cfg.MaxLoadedChunks = 4
	m, _, stop := testManager(t, cfg, &openGen{})
	defer stop()

	ctx := context.Background()
	m.Update(ctx, 0, world.TilePos{X: 0, Y: 0})
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}
	if got := m.LoadedCount(); got > cfg.MaxLoadedChunks {
		t.Errorf("loaded %d chunks, cap is %d", got, cfg.MaxLoadedChunks)
	}
}

func TestSpawnPassesPopulateChunks(t *testing.T) {
	m, _, stop := testManager(t, DefaultConfig(1), &openGen{})
	defer stop()

	ctx := context.Background()
	m.Update(ctx, 0, world.TilePos{X: 0, Y: 0})
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}

	creatures := m.Creatures(0)
	if len(creatures) == 0 {
		t.Error("spawn passes placed no creatures across nine open chunks")
	}
	for _, cr := range creatures {
		if !m.IsWalkable(0, cr.Pos) {
			t.Errorf("creature %s spawned on unwalkable tile %v", cr.Type, cr.Pos)
		}
	}
}

func TestRollSpawnWeightsSelection(t *testing.T) {
	m, _, stop := testManager(t, DefaultConfig(1), &openGen{})
	defer stop()

	// Equal base chances; only the threat weights differ.
	table := []gamedata.SpawnEntry{
		{Type: "bacteria", BaseChance: 0.3, ThreatWeight: 1},
		{Type: "brood_mother", BaseChance: 0.3, ThreatWeight: 9},
	}

	counts := map[string]int{}
	fired := 0
	for i := 0; i < 5000; i++ {
		if entry, ok := m.rollSpawn(0, table); ok {
			counts[entry.Type]++
			fired++
		}
	}

	if fired == 0 {
		t.Fatal("a 0.6 combined chance never fired in 5000 rolls")
	}
	// Expected roughly 60% firing rate; anything near zero or near all
	// means the combined chance is wrong.
	if fired < 2000 || fired > 4000 {
		t.Errorf("fired %d of 5000 rolls, want about 3000", fired)
	}
	if counts["brood_mother"] <= counts["bacteria"]*4 {
		t.Errorf("9x threat weight picked %d times vs %d; selection is not weighted",
			counts["brood_mother"], counts["bacteria"])
	}
}

func TestRollSpawnEmptyAndZeroChanceTables(t *testing.T) {
	m, _, stop := testManager(t, DefaultConfig(1), &openGen{})
	defer stop()

	if _, ok := m.rollSpawn(0, nil); ok {
		t.Error("empty table fired")
	}
	dead := []gamedata.SpawnEntry{{Type: "bacteria", BaseChance: 0}}
	for i := 0; i < 100; i++ {
		if _, ok := m.rollSpawn(0, dead); ok {
			t.Fatal("zero-chance table fired")
		}
	}
}

func TestSpawnCreatureAndDeath(t *testing.T) {
	m, bus, stop := testManager(t, DefaultConfig(1), &openGen{})
	defer stop()

	var spawned, died, damaged int
	bus.Subscribe(func(ev event.Event) {
		switch ev.(type) {
		case event.CreatureSpawned:
			spawned++
		case event.CreatureDamaged:
			damaged++
		case event.CreatureDied:
			died++
		}
	})

	ctx := context.Background()
	m.Update(ctx, 0, world.TilePos{X: 0, Y: 0})
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}
	spawned = 0

	pos := world.TilePos{X: 3, Y: 3}
	cr := m.SpawnCreature("mannequin", 0, pos)
	if cr == nil {
		t.Fatal("SpawnCreature returned nil on a loaded chunk")
	}
	if spawned != 1 {
		t.Errorf("CreatureSpawned fired %d times, want 1", spawned)
	}
	if m.CreatureAt(0, pos) != cr {
		t.Error("spawned creature not findable at its tile")
	}

	cr.ApplyDamage(cr.HP)
	if damaged != 1 || died != 1 {
		t.Errorf("damage events = %d, death events = %d, want 1 and 1", damaged, died)
	}
	if m.CreatureAt(0, pos) != nil {
		t.Error("dead creature still occupies its tile")
	}

	if m.SpawnCreature("nonexistent", 0, pos) != nil {
		t.Error("unknown creature type spawned")
	}
}

func TestOpenDoorUpdatesNavigation(t *testing.T) {
	m, _, stop := testManager(t, DefaultConfig(1), &openGen{})
	defer stop()

	ctx := context.Background()
	m.Update(ctx, 0, world.TilePos{X: 0, Y: 0})
	if err := m.Settle(ctx); err != nil {
		t.Fatal(err)
	}

	pos := world.TilePos{X: 8, Y: 8}
	ch := m.chunkAt(0, pos)
	ch.SetGround(pos, world.GroundDoorClosed)
	m.Graph().UpdateTile(0, pos, false)

	if m.IsWalkable(0, pos) {
		t.Fatal("closed door is walkable")
	}
	if !m.OpenDoor(0, pos) {
		t.Fatal("OpenDoor failed on a closed door")
	}
	if !m.IsWalkable(0, pos) {
		t.Error("opened door is not walkable")
	}
	if !m.Graph().HasPoint(0, pos) {
		t.Error("opened door has no navigation point")
	}
	if m.OpenDoor(0, pos) {
		t.Error("OpenDoor succeeded on an already-open door")
	}
}
