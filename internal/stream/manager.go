package stream

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/liminal/internal/corruption"
	"github.com/samdwyer/liminal/internal/event"
	"github.com/samdwyer/liminal/internal/gamedata"
	"github.com/samdwyer/liminal/internal/nav"
	"github.com/samdwyer/liminal/internal/telemetry"
	"github.com/samdwyer/liminal/internal/world"
)

// Config tunes the streaming window. UnloadRadius must exceed GenRadius so a
// player pacing across a chunk boundary doesn't thrash load/unload.
type Config struct {
	Seed              int64
	GenRadius         int // chunks around the player kept generated
	UnloadRadius      int // chunks beyond this distance are unloaded
	MaxLoadedChunks   int // hard cap on loaded+pending chunks
	MaxLoadsPerTurn   int // enqueue cap per turn, once the initial area is filled
	MaxUnloadsPerTurn int
	MaxRetries        int // generation attempts per chunk before accepting a gap
}

// DefaultConfig returns the standard streaming window for a seed.
func DefaultConfig(seed int64) Config {
	return Config{
		Seed:              seed,
		GenRadius:         1,
		UnloadRadius:      2,
		MaxLoadedChunks:   16,
		MaxLoadsPerTurn:   2,
		MaxUnloadsPerTurn: 2,
		MaxRetries:        4,
	}
}

// Deps are the collaborators a Manager drives. All are required.
type Deps struct {
	Worker    *Worker
	Graph     *nav.Graph
	Tracker   *corruption.Tracker
	Levels    *gamedata.LevelRegistry
	Creatures *gamedata.CreatureRegistry
	Items     *gamedata.ItemRegistry
	Bus       *event.Bus
}

// retryState tracks backoff for one failed chunk.
type retryState struct {
	bo       *backoff.ExponentialBackOff
	attempts int
	readyAt  time.Time
}

// Manager owns the set of loaded chunks and reconciles it against the
// player's position once per turn. It runs on the main thread only; the
// worker goroutine communicates exclusively through Request/Result values.
type Manager struct {
	cfg  Config
	deps Deps
	rng  *rand.Rand
	now  func() time.Time

	loaded  map[world.ChunkKey]*world.Chunk
	pending map[world.ChunkKey]struct{}
	visited map[world.ChunkKey]struct{}
	retries map[world.ChunkKey]*retryState

	initialFill bool // latched once the starting area is fully loaded
	capLogged   bool // one log line per cap episode, not one per turn
	turn        int
}

// NewManager creates a manager. The rng drives spawn rolls only; world
// layout randomness lives in the generator.
func NewManager(cfg Config, deps Deps) *Manager {
	return &Manager{
		cfg:     cfg,
		deps:    deps,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		now:     time.Now,
		loaded:  make(map[world.ChunkKey]*world.Chunk),
		pending: make(map[world.ChunkKey]struct{}),
		visited: make(map[world.ChunkKey]struct{}),
		retries: make(map[world.ChunkKey]*retryState),
	}
}

// Turn returns the number of settled turns so far.
func (m *Manager) Turn() int { return m.turn }

// LoadedCount returns the number of fully loaded chunks.
func (m *Manager) LoadedCount() int { return len(m.loaded) }

// PendingCount returns the number of chunks requested but not yet integrated.
func (m *Manager) PendingCount() int { return len(m.pending) }

// Graph exposes the navigation graph for pathing queries.
func (m *Manager) Graph() *nav.Graph { return m.deps.Graph }

// Update reconciles the streaming window against the player's position.
// Called once per turn, after the player acts. It bumps corruption on first
// visits, enqueues missing chunks, unloads distant ones, and integrates any
// chunks the worker has already finished.
func (m *Manager) Update(ctx context.Context, level int, playerPos world.TilePos) {
	tracer := telemetry.Tracer("stream")
	_, span := tracer.Start(ctx, "stream.update")
	defer span.End()

	playerKey := world.ChunkKey{Coord: world.ChunkCoordOf(playerPos), Level: level}

	if _, seen := m.visited[playerKey]; !seen {
		m.visited[playerKey] = struct{}{}
		def := m.deps.Levels.Get(level)
		m.deps.Tracker.Increase(level, def.CorruptionIncrement)
	}

	m.flushRetries(playerKey)
	m.enqueueMissing(playerKey)
	m.unloadDistant(playerKey)
	m.drainCompletions()

	span.SetAttributes(
		attribute.Int("stream.loaded", len(m.loaded)),
		attribute.Int("stream.pending", len(m.pending)),
		attribute.Int("stream.queue", m.deps.Worker.QueueLen()),
		attribute.Float64("stream.corruption", m.deps.Tracker.Value(level)),
	)
}

// Settle blocks until every pending chunk has been integrated or given up
// on, then emits WorldSettled. The turn sequencer accepts the next player
// action only after Settle returns.
func (m *Manager) Settle(ctx context.Context) error {
	for {
		m.drainCompletions()
		if len(m.pending) == 0 {
			break
		}
		select {
		case <-m.deps.Worker.ResultReady():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.turn++
	m.deps.Bus.Emit(event.WorldSettled{Turn: m.turn})
	return nil
}

// enqueueMissing requests every target chunk around the player that is
// neither loaded nor pending, nearest first. Before the starting area is
// filled the enqueue budget is unlimited; afterwards it is capped per turn
// so a sprinting player degrades to gradual loading instead of a stall.
func (m *Manager) enqueueMissing(playerKey world.ChunkKey) {
	budget := -1
	if m.initialFill {
		budget = m.cfg.MaxLoadsPerTurn
	}

	targets := targetCoords(playerKey.Coord, m.cfg.GenRadius)
	allLoaded := true
	for _, coord := range targets {
		key := world.ChunkKey{Coord: coord, Level: playerKey.Level}
		if _, ok := m.loaded[key]; ok {
			continue
		}
		allLoaded = false
		if _, ok := m.pending[key]; ok {
			continue
		}
		if len(m.loaded)+len(m.pending) >= m.cfg.MaxLoadedChunks {
			if !m.capLogged {
				log.Printf("stream: loaded chunk cap %d reached, pausing generation", m.cfg.MaxLoadedChunks)
				m.capLogged = true
			}
			return
		}
		if budget == 0 {
			return
		}
		if budget > 0 {
			budget--
		}
		m.enqueueChunk(key, 0)
	}
	if len(m.loaded)+len(m.pending) < m.cfg.MaxLoadedChunks {
		m.capLogged = false
	}
	if allLoaded {
		m.initialFill = true
	}
}

// targetCoords lists chunk coordinates within radius of center, ascending by
// chessboard distance so the player's own chunk is requested first.
func targetCoords(center world.ChunkCoord, radius int) []world.ChunkCoord {
	var out []world.ChunkCoord
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			out = append(out, world.ChunkCoord{X: center.X + dx, Y: center.Y + dy})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].ChebyshevDist(center), out[j].ChebyshevDist(center)
		if di != dj {
			return di < dj
		}
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// enqueueChunk snapshots the level's corruption and hands the request to the
// worker. The snapshot keeps generation pure: re-running the same request
// always yields the same chunk, whatever corruption does meanwhile.
func (m *Manager) enqueueChunk(key world.ChunkKey, attempt int) {
	m.pending[key] = struct{}{}
	m.deps.Worker.Enqueue(Request{
		Key:        key,
		Seed:       m.cfg.Seed,
		Corruption: m.deps.Tracker.Value(key.Level),
		Attempt:    attempt,
	})
}

// unloadDistant evicts chunks beyond the unload radius, or on another level,
// a few per turn. Navigation points are removed before the chunk memory is
// let go, so the graph never holds a stale point.
func (m *Manager) unloadDistant(playerKey world.ChunkKey) {
	var victims []*world.Chunk
	for key, ch := range m.loaded {
		if key.Level != playerKey.Level || key.Coord.ChebyshevDist(playerKey.Coord) > m.cfg.UnloadRadius {
			victims = append(victims, ch)
		}
	}
	// Farthest first, with a stable tie-break so eviction order is
	// reproducible run to run.
	sort.Slice(victims, func(i, j int) bool {
		ki, kj := victims[i].Key(), victims[j].Key()
		di, dj := ki.Coord.ChebyshevDist(playerKey.Coord), kj.Coord.ChebyshevDist(playerKey.Coord)
		if di != dj {
			return di > dj
		}
		if ki.Level != kj.Level {
			return ki.Level < kj.Level
		}
		if ki.Coord.Y != kj.Coord.Y {
			return ki.Coord.Y < kj.Coord.Y
		}
		return ki.Coord.X < kj.Coord.X
	})

	for i, ch := range victims {
		if i >= m.cfg.MaxUnloadsPerTurn {
			break
		}
		m.unload(ch)
	}
}

func (m *Manager) unload(ch *world.Chunk) {
	key := ch.Key()
	ch.SetState(world.StateUnloading)
	m.deps.Graph.RemoveChunk(key)
	delete(m.loaded, key)
	m.deps.Bus.Emit(event.ChunkUnloaded{Key: key})
}

// drainCompletions integrates finished chunks and reschedules failures.
func (m *Manager) drainCompletions() {
	for _, res := range m.deps.Worker.Drain() {
		delete(m.pending, res.Request.Key)
		if res.Err != nil || res.Chunk == nil {
			m.scheduleRetry(res.Request, res.Err)
			continue
		}
		m.integrate(res.Chunk)
	}
}

// integrate makes a generated chunk live: tiles become queryable, spawn
// passes run, and navigation points appear, all within the same turn.
func (m *Manager) integrate(ch *world.Chunk) {
	key := ch.Key()
	delete(m.retries, key)
	if _, dup := m.loaded[key]; dup {
		return
	}
	// A chunk the player outran is still integrated; the unload pass will
	// collect it next turn.
	ch.SetState(world.StateLoaded)
	m.loaded[key] = ch
	m.deps.Graph.AddChunk(ch)
	m.runSpawnPasses(ch)
	m.deps.Bus.Emit(event.ChunkLoaded{Key: key})
}

// scheduleRetry backs off a failed chunk, giving up after MaxRetries. A gap
// in the world is survivable; a stalled turn sequencer is not.
func (m *Manager) scheduleRetry(req Request, genErr error) {
	st := m.retries[req.Key]
	if st == nil {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 25 * time.Millisecond
		bo.MaxInterval = 2 * time.Second
		st = &retryState{bo: bo}
		m.retries[req.Key] = st
	}
	st.attempts++
	if st.attempts > m.cfg.MaxRetries {
		log.Printf("stream: giving up on chunk %v after %d attempts: %v", req.Key, st.attempts, genErr)
		delete(m.retries, req.Key)
		return
	}
	st.readyAt = m.now().Add(st.bo.NextBackOff())
}

// flushRetries re-enqueues failed chunks whose backoff has elapsed. Entries
// for chunks the player has left behind are dropped.
func (m *Manager) flushRetries(playerKey world.ChunkKey) {
	now := m.now()
	for key, st := range m.retries {
		if key.Level != playerKey.Level || key.Coord.ChebyshevDist(playerKey.Coord) > m.cfg.UnloadRadius {
			delete(m.retries, key)
			continue
		}
		if now.Before(st.readyAt) {
			continue
		}
		if _, ok := m.loaded[key]; ok {
			delete(m.retries, key)
			continue
		}
		if _, ok := m.pending[key]; ok {
			continue
		}
		m.enqueueChunk(key, st.attempts)
	}
}
