package generator

import (
	"fmt"
	"log/slog"
	"math/rand"

	"mapforge/pkg/engine/clock"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/bsp"
	"mapforge/pkg/game/classify"
	"mapforge/pkg/game/config"
	"mapforge/pkg/game/corridor"
	"mapforge/pkg/game/level"
	"mapforge/pkg/game/levelgen"
)

// Options configures a BSPGenerator.
type Options struct {
	Logger *slog.Logger
	Clock  clock.Clock

	// OnEvent receives every placement event as it happens.
	OnEvent func(levelgen.Event)
	// OnFailure is called with the partial map when a run panics.
	OnFailure func(partial *level.Map, err error)
}

// BSPGenerator generates maps using Binary Space Partitioning
type BSPGenerator struct {
	opts   Options
	logger *slog.Logger
	clock  clock.Clock
	stages stages
}

// stages are the pipeline steps that can fail after the config has been
// validated.
type stages struct {
	classify  func(cfg *config.Config, m *level.Map, rng *rand.Rand) (*classify.Report, error)
	corridors func(cfg *config.Config, m *level.Map) (*corridor.Report, error)
	populate  func(cfg *config.Config, m *level.Map, rng *rand.Rand) (*levelgen.Result, error)
}

func NewBSPGenerator(opts Options) *BSPGenerator {
	g := &BSPGenerator{opts: opts, logger: opts.Logger, clock: opts.Clock}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if g.clock == nil {
		g.clock = clock.New()
	}
	g.stages = stages{
		classify: func(cfg *config.Config, m *level.Map, rng *rand.Rand) (*classify.Report, error) {
			return classify.New(cfg.ClassifyConfig(g.logger)).Classify(m, rng)
		},
		corridors: func(cfg *config.Config, m *level.Map) (*corridor.Report, error) {
			return corridor.New(cfg.CorridorConfig(g.clock, g.logger)).Generate(m)
		},
		populate: func(cfg *config.Config, m *level.Map, rng *rand.Rand) (*levelgen.Result, error) {
			return levelgen.NewPopulator(cfg.PopulatorOptions(g.opts.OnEvent, g.logger)).Populate(m, rng)
		},
	}
	return g
}

// Name returns the name of this generator
func (g *BSPGenerator) Name() string {
	return "BSP Tree"
}

// Generate runs the whole pipeline for cfg. All randomness comes from one
// source seeded with cfg.Seed, so equal configs give equal maps.
//
// When the finished map fails validation the result is returned together
// with a FailedPrecondition error. A stage error is reported through
// OnFailure with the partial map and returned. A panic anywhere in the
// pipeline is recovered, reported the same way and returned as Internal.
func (g *BSPGenerator) Generate(cfg *config.Config) (res *Result, err error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var m *level.Map
	defer func() {
		if r := recover(); r != nil {
			err = errors.Internalf("map generation panicked: %v", r).WithMeta("seed", cfg.Seed)
			g.logger.Error("map generation failed", "seed", cfg.Seed, "panic", fmt.Sprint(r))
			if g.opts.OnFailure != nil {
				g.opts.OnFailure(m, err)
			}
			res = nil
		}
	}()

	fail := func(stage string, cause error) (*Result, error) {
		wrapped := errors.Wrap(cause, stage).WithMeta("seed", cfg.Seed)
		g.logger.Warn("map generation failed", "seed", cfg.Seed, "stage", stage, "error", cause)
		if g.opts.OnFailure != nil {
			g.opts.OnFailure(m, wrapped)
		}
		return nil, wrapped
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	m = level.NewMap(cfg.Width, cfg.Height)
	res = &Result{Map: m}
	started := g.clock.Now()
	mark := func(p Phase) {
		now := g.clock.Now()
		res.Timings = append(res.Timings, Timing{Phase: p, Duration: now.Sub(started)})
		g.logger.Debug("phase done", "phase", string(p), "duration", now.Sub(started))
		started = now
	}

	root := bsp.Build(m.Interior(), cfg.BSP, rng)
	bsp.CarveRooms(root, cfg.Rooms, rng)
	m.Root = root
	for _, leaf := range root.Leaves() {
		if leaf.Room != nil {
			m.AddRoom(*leaf.Room, leaf.Depth)
		}
	}
	if len(m.Rooms) == 0 {
		return nil, errors.FailedPreconditionf("no room fits in a %dx%d map", cfg.Width, cfg.Height)
	}
	mark(PhasePartition)

	res.Classification, err = g.stages.classify(cfg, m, rng)
	if err != nil {
		return fail("classify rooms", err)
	}
	classify.NameRooms(m, rng)
	spawn := pickSpawnRoom(m)
	m.SpawnRoomID = spawn.ID
	m.PlayerSpawn = spawn.Center
	mark(PhaseClassify)

	res.Corridors, err = g.stages.corridors(cfg, m)
	if err != nil {
		return fail("generate corridors", err)
	}
	mark(PhaseCorridors)

	res.CriticalPath = corridor.ComputeDistances(m)
	mark(PhaseDistances)

	res.Content, err = g.stages.populate(cfg, m, rng)
	if err != nil {
		return fail("populate rooms", err)
	}
	res.Events = res.Content.Events
	mark(PhasePopulate)

	m.Metadata = level.Metadata{
		Seed:        cfg.Seed,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Difficulty:  cfg.Difficulty,
		GeneratedAt: g.clock.Now(),
	}
	res.Validation = level.Validate(m)
	mark(PhaseValidate)

	g.logger.Info("generated map",
		"generator", g.Name(),
		"seed", cfg.Seed,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"rooms", len(m.Rooms),
		"corridors", len(m.Corridors),
		"objects", len(m.Objects()),
		"errors", len(res.Validation.Errors()),
		"warnings", len(res.Validation.Warnings()),
		"elapsed", res.Total(),
	)

	if res.Validation.HasErrors() {
		g.logger.Warn("generated map is invalid", "seed", cfg.Seed, "summary", res.Validation.Summary())
		return res, errors.FailedPreconditionf("generated map is invalid: %s", res.Validation.Summary()).WithMeta("seed", cfg.Seed)
	}
	return res, nil
}

// pickSpawnRoom returns the first lobby, else the first reception, else
// room 0.
func pickSpawnRoom(m *level.Map) *level.Room {
	for _, t := range []level.RoomType{level.Lobby, level.Reception} {
		if rooms := m.RoomsOfType(t); len(rooms) > 0 {
			return rooms[0]
		}
	}
	return m.Rooms[0]
}
