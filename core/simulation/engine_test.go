package simulation

import (
	"math"
	"testing"
)

func newTestEngine() *SimulationEngine {
	return NewSimulationEngine(DefaultEngineConfig())
}

func trapezoidalIntegral(points []Datapoint) float64 {
	if len(points) < 2 {
		return 0
	}
	total := 0.0
	for i := 1; i < len(points); i++ {
		dx := float64(points[i].X - points[i-1].X)
		total += dx * (float64(points[i].Y) + float64(points[i-1].Y)) / 2
	}
	return total
}

func TestSimulateThenEvolveIsNormalized(t *testing.T) {
	engine := newTestEngine()
	store := NewExperimentStore()

	ok := engine.Simulate(store,
		"0", nil, true,
		"exp(-x^2)", nil, true,
		-1, 1, 64, 0,
	)
	if !ok {
		t.Fatal("Simulate reported failure")
	}

	points := engine.Evolve(store, 0, -1, 1)
	if len(points) != 64 {
		t.Fatalf("Evolve returned %d points, want 64", len(points))
	}

	integral := trapezoidalIntegral(points)
	if math.Abs(integral-1) > 0.02 {
		t.Fatalf("trapezoidal integral = %v, want within 2%% of 1", integral)
	}
}

func TestGetEigenvectorSymmetricForEvenPotential(t *testing.T) {
	engine := newTestEngine()
	store := NewExperimentStore()

	ok := engine.Simulate(store,
		"100x^2", nil, true,
		"exp(-x^2)", nil, true,
		-1, 1, 64, 0,
	)
	if !ok {
		t.Fatal("Simulate reported failure")
	}

	points := engine.GetEigenvector(store, 0, -1, 1)
	if len(points) != 64 {
		t.Fatalf("GetEigenvector returned %d points, want 64", len(points))
	}
	for i := 0; i < len(points)/2; i++ {
		mirror := len(points) - 1 - i
		diff := math.Abs(float64(points[i].Y - points[mirror].Y))
		if diff > 1e-3 {
			t.Fatalf("ground state not symmetric at %d/%d: %v vs %v", i, mirror, points[i].Y, points[mirror].Y)
		}
	}
}

func TestRestartEmptiesStore(t *testing.T) {
	engine := newTestEngine()
	store := NewExperimentStore()

	ok := engine.Simulate(store, "0", nil, true, "exp(-x^2)", nil, true, -1, 1, 32, 0)
	if !ok {
		t.Fatal("Simulate reported failure")
	}

	engine.Restart(store)

	points := engine.Evolve(store, 0, -1, 1)
	if len(points) != 0 {
		t.Fatalf("Evolve after restart returned %d points, want 0", len(points))
	}
	eigen := engine.GetEigenvector(store, 0, -1, 1)
	if len(eigen) != 0 {
		t.Fatalf("GetEigenvector after restart returned %d points, want 0", len(eigen))
	}
}

func TestEvolveWithNoExperimentIsEmpty(t *testing.T) {
	engine := newTestEngine()
	store := NewExperimentStore()
	points := engine.Evolve(store, 0, -1, 1)
	if len(points) != 0 {
		t.Fatalf("Evolve on empty store returned %d points, want 0", len(points))
	}
}

func TestSimulateFailureLeavesStoreUnchanged(t *testing.T) {
	engine := newTestEngine()
	store := NewExperimentStore()

	ok := engine.Simulate(store, "0", nil, true, "exp(-x^2)", nil, true, -1, 1, 32, 0)
	if !ok {
		t.Fatal("initial simulate should have succeeded")
	}
	_, loaded := store.Current()
	if !loaded {
		t.Fatal("store should be loaded after first simulate")
	}

	ok = engine.Simulate(store, "2+", nil, true, "exp(-x^2)", nil, true, -1, 1, 32, 0)
	if ok {
		t.Fatal("simulate with a failing potential formula should report failure")
	}
	_, stillLoaded := store.Current()
	if !stillLoaded {
		t.Fatal("store should remain loaded after a failed simulate")
	}
}
