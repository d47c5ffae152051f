// Package generator runs the map pipeline: partition, classify, connect,
// populate and validate.
package generator

import (
	"time"

	"mapforge/pkg/game/classify"
	"mapforge/pkg/game/config"
	"mapforge/pkg/game/corridor"
	"mapforge/pkg/game/level"
	"mapforge/pkg/game/levelgen"
)

// MapGenerator is an interface for map generation algorithms
type MapGenerator interface {
	Generate(cfg *config.Config) (*Result, error)
	Name() string
}

// DefaultGenerator is the default map generator
var DefaultGenerator MapGenerator = NewBSPGenerator(Options{})

// Phase names a pipeline stage in Result.Timings.
type Phase string

const (
	PhasePartition Phase = "partition"
	PhaseClassify  Phase = "classify"
	PhaseCorridors Phase = "corridors"
	PhaseDistances Phase = "distances"
	PhasePopulate  Phase = "populate"
	PhaseValidate  Phase = "validate"
)

type Timing struct {
	Phase    Phase
	Duration time.Duration
}

// Result is everything one run produced.
type Result struct {
	Map            *level.Map
	Validation     *level.ValidationResult
	Events         []levelgen.Event
	Classification *classify.Report
	Corridors      *corridor.Report
	Content        *levelgen.Result
	CriticalPath   []int
	Timings        []Timing
}

// Valid reports whether the map passed validation without errors.
func (r *Result) Valid() bool {
	return r != nil && r.Validation != nil && !r.Validation.HasErrors()
}

// Total sums the phase timings.
func (r *Result) Total() time.Duration {
	var d time.Duration
	for _, t := range r.Timings {
		d += t.Duration
	}
	return d
}
