// Package simulation implements the orchestrator that assembles the
// discretized Hamiltonian from a potential sample, diagonalizes it via
// an injected Eigensolver, projects the initial wavefunction onto the
// resulting eigenbasis, and evolves |ψ(x,t)|² forward in time on
// demand. ExperimentStore holds the process-wide current Experiment
// under exclusive-access discipline.
package simulation

import (
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/lucidwave/qsim-backend/core/complexnum"
	"github.com/lucidwave/qsim-backend/core/formula"
	"github.com/lucidwave/qsim-backend/core/linear"
)

// Datapoint is one (x, y) sample of a real-valued curve.
type Datapoint struct {
	X float32
	Y float32
}

// EngineConfig tunes the engine's collaborators, following the
// teacher's EngineConfig/DefaultEngineConfig/validateConfig shape
// (core/engine.go) of constructor-time, validated configuration
// rather than scattered defaults.
type EngineConfig struct {
	Eigensolver Eigensolver
	Logger      *logrus.Logger
}

// DefaultEngineConfig returns an EngineConfig wired to the concrete
// JacobiEigensolver and a standard logrus logger.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Eigensolver: NewJacobiEigensolver(),
		Logger:      logrus.StandardLogger(),
	}
}

func validateConfig(cfg EngineConfig) EngineConfig {
	if cfg.Eigensolver == nil {
		cfg.Eigensolver = NewJacobiEigensolver()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return cfg
}

var (
	simulateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "qsim_simulate_duration_seconds",
		Help: "Duration of simulate() calls, including eigensolver time.",
	})
	evolveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "qsim_evolve_duration_seconds",
		Help: "Duration of evolve() calls.",
	})
	commandOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "qsim_command_total",
		Help: "Count of simulate/evolve calls by outcome.",
	}, []string{"op", "outcome"})
)

func init() {
	prometheus.MustRegister(simulateDuration, evolveDuration, commandOutcomes)
}

// SimulationEngine is the orchestrator: it owns no state of its own
// beyond its collaborators — the Experiment lives in the
// ExperimentStore the caller supplies to each operation, injected
// rather than held as ambient global state (spec's ownership note).
type SimulationEngine struct {
	cfg EngineConfig
}

// NewSimulationEngine constructs an engine from cfg, filling in
// defaults for any zero-valued collaborator.
func NewSimulationEngine(cfg EngineConfig) *SimulationEngine {
	return &SimulationEngine{cfg: validateConfig(cfg)}
}

// resolveVector returns a potential/wavefunction sample either from a
// formula (parsed and sampled via ParseCached+GetVector) or directly
// from caller-provided datapoints, depending on useFormula.
func resolveVector(useFormula bool, expr string, datapoints []Datapoint, start, end float32, resolution int) (*linear.Vector, error) {
	if useFormula {
		f, err := formula.ParseCached(expr)
		if err != nil {
			return nil, err
		}
		return f.GetVector(start, end, resolution), nil
	}
	vector := linear.NewVector(resolution)
	for i := 0; i < resolution && i < len(datapoints); i++ {
		vector.Set(i, complexnum.FromReal(datapoints[i].Y))
	}
	return vector, nil
}

// Simulate resolves the potential and initial wavefunction, builds
// and diagonalizes the Hamiltonian, computes expansion coefficients,
// and atomically replaces the stored Experiment. Any formula or
// solver failure aborts the update and leaves the store unchanged.
func (e *SimulationEngine) Simulate(
	store *ExperimentStore,
	potentialFormula string, potentialPoints []Datapoint, usePotentialFormula bool,
	wavefunctionFormula string, wavefunctionPoints []Datapoint, useWavefunctionFormula bool,
	start, end float32, resolution int, momentum float32,
) bool {
	startedAt := time.Now()
	ok := e.simulate(store, potentialFormula, potentialPoints, usePotentialFormula,
		wavefunctionFormula, wavefunctionPoints, useWavefunctionFormula, start, end, resolution, momentum)

	duration := time.Since(startedAt)
	simulateDuration.Observe(duration.Seconds())
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	commandOutcomes.WithLabelValues("simulate", outcome).Inc()
	e.cfg.Logger.WithFields(logrus.Fields{
		"op":          "simulate",
		"resolution":  resolution,
		"duration_ms": duration.Milliseconds(),
		"ok":          ok,
	}).Info("simulate completed")
	return ok
}

func (e *SimulationEngine) simulate(
	store *ExperimentStore,
	potentialFormula string, potentialPoints []Datapoint, usePotentialFormula bool,
	wavefunctionFormula string, wavefunctionPoints []Datapoint, useWavefunctionFormula bool,
	start, end float32, resolution int, momentum float32,
) bool {
	potential, err := resolveVector(usePotentialFormula, potentialFormula, potentialPoints, start, end, resolution)
	if err != nil {
		return false
	}

	initial, err := resolveVector(useWavefunctionFormula, wavefunctionFormula, wavefunctionPoints, start, end, resolution)
	if err != nil {
		return false
	}
	phase := formula.ComplexPhase(momentum).GetVector(start, end, resolution)
	for i := 0; i < initial.Len(); i++ {
		initial.Set(i, initial.At(i).Mul(phase.At(i)))
	}
	initial.Normalize()

	h := BuildHamiltonian(potential)
	rawValues, rawVectors, err := e.cfg.Eigensolver.Solve(h)
	if err != nil {
		return false
	}

	eigenvalues := make([]complexnum.Complex, resolution)
	eigenvectors := make([]*linear.Vector, resolution)
	for n := 0; n < resolution; n++ {
		eigenvalues[n] = complexnum.FromReal(float32(rawValues[n]))
		entries := make([]complexnum.Complex, resolution)
		for i, v := range rawVectors[n] {
			entries[i] = complexnum.FromReal(float32(v))
		}
		vector := linear.VectorFrom(entries)
		vector.Normalize()
		eigenvectors[n] = vector
	}

	coefficients := make([]complexnum.Complex, resolution)
	for n, eigenvector := range eigenvectors {
		c, err := eigenvector.InnerProduct(initial)
		if err != nil {
			return false
		}
		coefficients[n] = c
	}

	store.Replace(&Experiment{
		Resolution:   resolution,
		Interval:     [2]float32{start, end},
		Potential:    potential,
		InitialState: initial,
		Eigenvalues:  eigenvalues,
		Eigenvectors: eigenvectors,
		Coefficients: coefficients,
	})
	return true
}

// Evolve returns |ψ(x,t)|² samples over the stored grid, or an empty
// slice if no Experiment is loaded. The scalar exp(−i·Eₙ·t) is
// realized as E.Powf((−Eₙ·i)·t) — exercising the general complex
// power rather than a dedicated exponential-of-imaginary helper.
//
// The upper half of the eigenbasis (n > N/2) is zeroed before
// summing. This is a deliberate, if undocumented upstream, crude
// high-frequency filter matching the staircase structure of the
// tridiagonal discretization — preserved here exactly, not "fixed".
func (e *SimulationEngine) Evolve(store *ExperimentStore, t, start, end float32) []Datapoint {
	startedAt := time.Now()
	points := e.evolve(store, t, start, end)

	duration := time.Since(startedAt)
	evolveDuration.Observe(duration.Seconds())
	commandOutcomes.WithLabelValues("evolve", "success").Inc()
	e.cfg.Logger.WithFields(logrus.Fields{
		"op":          "evolve",
		"duration_ms": duration.Milliseconds(),
		"ok":          true,
	}).Info("evolve completed")
	return points
}

var euler = complexnum.FromReal(float32(math.E))

func (e *SimulationEngine) evolve(store *ExperimentStore, t, start, end float32) []Datapoint {
	exp, ok := store.Current()
	if !ok {
		return nil
	}

	n := exp.Resolution
	sum := linear.NewVector(n)
	for idx := 0; idx < n; idx++ {
		if idx > n/2 {
			continue
		}
		energy := exp.Eigenvalues[idx]
		phase := euler.Powf(energy.Mul(complexnum.IUnit).ScaleReal(-1).ScaleReal(t))
		term := exp.Eigenvectors[idx].ScaledBy(exp.Coefficients[idx].Mul(phase))
		sum.Add(term)
	}

	step := (end - start) / float32(n)
	points := make([]Datapoint, n)
	for i := 0; i < n; i++ {
		points[i] = Datapoint{
			X: start + float32(i)*step,
			Y: sum.At(i).ModulusSquared(),
		}
	}
	return points
}

// GetEigenvector returns the N real-part samples of the n-th
// eigenvector, or an empty slice if no Experiment is loaded.
func (e *SimulationEngine) GetEigenvector(store *ExperimentStore, n int, start, end float32) []Datapoint {
	exp, ok := store.Current()
	if !ok || n < 0 || n >= len(exp.Eigenvectors) {
		return nil
	}
	resolution := exp.Resolution
	step := (end - start) / float32(resolution)
	points := make([]Datapoint, resolution)
	for i := 0; i < resolution; i++ {
		points[i] = Datapoint{
			X: start + float32(i)*step,
			Y: exp.Eigenvectors[n].At(i).Real,
		}
	}
	return points
}

// Restart drops the current Experiment.
func (e *SimulationEngine) Restart(store *ExperimentStore) {
	store.Clear()
}
