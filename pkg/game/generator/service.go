package generator

import (
	"context"
	"log/slog"
	"time"

	"mapforge/pkg/engine/clock"
	"mapforge/pkg/errors"
	"mapforge/pkg/game/config"
	"mapforge/pkg/game/level"
	"mapforge/pkg/game/snapshot"
)

// Service generates maps and keeps snapshots of them.
type Service interface {
	Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error)
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)
	ListBySeed(ctx context.Context, input *ListBySeedInput) (*ListBySeedOutput, error)
}

// Config holds the dependencies for the service. Repository is optional;
// without one nothing is stored and Load fails.
type Config struct {
	Generator  MapGenerator
	Repository snapshot.Repository
	Clock      clock.Clock
	Logger     *slog.Logger
}

func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Generator == nil {
		vb.RequiredField("Generator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

type GenerateInput struct {
	Config *config.Config
}

type GenerateOutput struct {
	Result     *Result
	SnapshotID string     // empty when no repository is configured
	ExpiresAt  *time.Time // nil when stored without expiry
}

type LoadInput struct {
	ID string
}

type LoadOutput struct {
	Snapshot   *snapshot.Snapshot
	Map        *level.Map
	Validation *level.ValidationResult
}

type ListBySeedInput struct {
	Seed int64
}

type ListBySeedOutput struct {
	IDs []string
}

type service struct {
	generator MapGenerator
	repo      snapshot.Repository
	clock     clock.Clock
	logger    *slog.Logger
}

var _ Service = (*service)(nil)

func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid service config")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		generator: cfg.Generator,
		repo:      cfg.Repository,
		clock:     cfg.Clock,
		logger:    logger,
	}, nil
}

// Generate builds a map and, when a repository is configured, stores a
// snapshot of it. Invalid maps are returned with their error and are not
// stored.
func (s *service) Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error) {
	if input == nil || input.Config == nil {
		return nil, errors.InvalidArgument("config is required")
	}

	res, err := s.generator.Generate(input.Config)
	if err != nil {
		if res != nil {
			return &GenerateOutput{Result: res}, err
		}
		return nil, err
	}

	out := &GenerateOutput{Result: res}
	if s.repo == nil {
		return out, nil
	}

	snap := snapshot.FromMap(snapshot.NewID(), res.Map, s.clock.Now())
	saved, err := s.repo.Save(ctx, &snapshot.SaveInput{Snapshot: snap})
	if err != nil {
		return out, errors.Wrapf(err, "failed to save snapshot for seed %d", input.Config.Seed)
	}
	out.SnapshotID = saved.ID
	out.ExpiresAt = saved.ExpiresAt

	s.logger.Debug("saved snapshot", "id", saved.ID, "seed", input.Config.Seed)
	return out, nil
}

// Load restores a stored map and re-validates it.
func (s *service) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil || input.ID == "" {
		return nil, errors.InvalidArgument("id is required")
	}
	if s.repo == nil {
		return nil, errors.FailedPrecondition("no snapshot repository configured")
	}

	got, err := s.repo.Get(ctx, &snapshot.GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	m := got.Snapshot.ToMap()
	return &LoadOutput{
		Snapshot:   got.Snapshot,
		Map:        m,
		Validation: level.Validate(m),
	}, nil
}

func (s *service) ListBySeed(ctx context.Context, input *ListBySeedInput) (*ListBySeedOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if s.repo == nil {
		return nil, errors.FailedPrecondition("no snapshot repository configured")
	}

	out, err := s.repo.ListBySeed(ctx, &snapshot.ListBySeedInput{Seed: input.Seed})
	if err != nil {
		return nil, err
	}
	return &ListBySeedOutput{IDs: out.IDs}, nil
}
