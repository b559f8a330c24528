// Package integration provides the detailed, multi-component health
// check behind /health/detailed, adapted from the teacher's
// IntegrationHealthChecker (gateway/integration/health_check.go).
package integration

import (
	"time"

	"github.com/lucidwave/qsim-backend/gateway/services"
)

// HealthCheckResult represents the result of a single component's
// health check.
type HealthCheckResult struct {
	Component string                 `json:"component"`
	Status    string                 `json:"status"`
	Details   map[string]interface{} `json:"details"`
	Duration  time.Duration          `json:"duration"`
	Error     string                 `json:"error,omitempty"`
}

// IntegrationHealthChecker performs comprehensive health checks
// across the service container's collaborators.
type IntegrationHealthChecker struct {
	container *services.ServiceContainer
}

// NewIntegrationHealthChecker creates a new health checker.
func NewIntegrationHealthChecker(container *services.ServiceContainer) *IntegrationHealthChecker {
	return &IntegrationHealthChecker{container: container}
}

// CheckAllServices performs health checks on the container and each
// of its collaborators.
func (hc *IntegrationHealthChecker) CheckAllServices() []HealthCheckResult {
	results := []HealthCheckResult{hc.checkServiceContainer()}
	results = append(results, hc.checkExperimentStore())
	return results
}

func (hc *IntegrationHealthChecker) checkServiceContainer() HealthCheckResult {
	start := time.Now()
	result := HealthCheckResult{Component: "ServiceContainer", Details: make(map[string]interface{})}

	if !hc.container.IsInitialized() {
		result.Status = "unhealthy"
		result.Error = "service container not initialized"
		result.Duration = time.Since(start)
		return result
	}

	allHealthy := true
	for component, status := range hc.container.HealthCheck() {
		result.Details[component] = status
		if !status {
			allHealthy = false
		}
	}

	result.Status = "healthy"
	if !allHealthy {
		result.Status = "degraded"
		result.Error = "one or more collaborators are not healthy"
	}
	result.Duration = time.Since(start)
	return result
}

func (hc *IntegrationHealthChecker) checkExperimentStore() HealthCheckResult {
	start := time.Now()
	result := HealthCheckResult{Component: "ExperimentStore", Details: make(map[string]interface{})}

	if hc.container.Store == nil {
		result.Status = "unhealthy"
		result.Error = "experiment store not available"
		result.Duration = time.Since(start)
		return result
	}

	_, loaded := hc.container.Store.Current()
	result.Status = "healthy"
	result.Details["loaded"] = loaded
	result.Duration = time.Since(start)
	return result
}

// GetOverallHealth rolls the per-component results up into a single
// status: unhealthy if any component is unhealthy, degraded if any is
// degraded, healthy otherwise.
func (hc *IntegrationHealthChecker) GetOverallHealth() string {
	results := hc.CheckAllServices()

	degraded := false
	for _, result := range results {
		if result.Status == "unhealthy" {
			return "unhealthy"
		}
		if result.Status == "degraded" {
			degraded = true
		}
	}
	if degraded {
		return "degraded"
	}
	return "healthy"
}
