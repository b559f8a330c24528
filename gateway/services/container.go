// Package services wires the gateway's handlers to the sandbox's
// core collaborators, following the teacher's ServiceContainer
// dependency-injection shape (gateway/services/container.go) with the
// resonance engines replaced by the simulation sandbox's own
// ExperimentStore and SimulationEngine.
package services

import (
	"sync"

	"github.com/lucidwave/qsim-backend/core/simulation"
	"github.com/lucidwave/qsim-backend/shared/types"
)

// ServiceContainer holds the process-wide simulation collaborators
// and configuration.
type ServiceContainer struct {
	Store  *simulation.ExperimentStore
	Engine *simulation.SimulationEngine
	Config *types.Config

	initialized bool
	mu          sync.RWMutex
}

// NewServiceContainer creates and initializes a new service container.
func NewServiceContainer(config *types.Config) (*ServiceContainer, error) {
	container := &ServiceContainer{Config: config}
	container.InitializeServices()
	return container, nil
}

// InitializeServices constructs the ExperimentStore and
// SimulationEngine. Unlike the teacher's engine roster, neither
// collaborator here can fail to construct, so this never returns an
// error — kept as a method, not folded into the constructor, so a
// caller can re-initialize without reallocating the container.
func (sc *ServiceContainer) InitializeServices() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.initialized {
		return
	}

	sc.Store = simulation.NewExperimentStore()
	sc.Engine = simulation.NewSimulationEngine(simulation.DefaultEngineConfig())
	sc.initialized = true
}

// IsInitialized returns whether the container has been fully initialized.
func (sc *ServiceContainer) IsInitialized() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.initialized
}

// Shutdown marks the container as uninitialized. The sandbox holds no
// external connections to close; this mirrors the teacher's Shutdown
// hook for symmetry with its lifecycle.
func (sc *ServiceContainer) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.initialized = false
	return nil
}

// HealthCheck reports the liveness of each collaborator.
func (sc *ServiceContainer) HealthCheck() map[string]bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return map[string]bool{
		"experiment_store":  sc.Store != nil,
		"simulation_engine": sc.Engine != nil,
		"container":         sc.initialized,
	}
}
