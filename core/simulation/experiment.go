package simulation

import (
	"sync"

	"github.com/lucidwave/qsim-backend/core/complexnum"
	"github.com/lucidwave/qsim-backend/core/linear"
)

// Experiment is the full state produced by a successful simulate
// call: the grid resolution, the sampled potential, the normalized
// initial wavefunction, the solved eigenbasis, and the initial
// wavefunction's expansion over that eigenbasis.
type Experiment struct {
	Resolution   int
	Interval     [2]float32
	Potential    *linear.Vector
	InitialState *linear.Vector
	Eigenvalues  []complexnum.Complex
	Eigenvectors []*linear.Vector
	Coefficients []complexnum.Complex
}

// ExperimentStore is the process-wide holder of the current
// Experiment, exclusive-access discipline enforced by a single mutex
// guarding the optional slot — the same discipline
// gateway/services/container.go uses for its engine instances. Command
// handlers run on a worker pool and may call concurrently; the lock is
// held for the whole of whichever operation touches the slot, released
// on every exit path including panics via defer.
type ExperimentStore struct {
	mu      sync.Mutex
	current *Experiment
}

// NewExperimentStore returns a store initialized to the Empty state.
func NewExperimentStore() *ExperimentStore {
	return &ExperimentStore{}
}

// Replace atomically swaps in a fully constructed Experiment,
// transitioning the store from whatever state it was in to Loaded.
// Callers must finish assembling exp before calling Replace — the
// store never exposes a partially built Experiment to a concurrent
// reader.
func (s *ExperimentStore) Replace(exp *Experiment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = exp
}

// Current returns the stored Experiment and whether one is present
// (Loaded vs Empty).
func (s *ExperimentStore) Current() (*Experiment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.current != nil
}

// Clear drops the current Experiment, transitioning to Empty. This is
// restart's entire job.
func (s *ExperimentStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}
