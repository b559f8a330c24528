package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lucidwave/qsim-backend/core/simulation"
	"github.com/lucidwave/qsim-backend/gateway/services"
	"github.com/lucidwave/qsim-backend/shared/types"
	"github.com/lucidwave/qsim-backend/shared/validation"
)

// SimulateRequest is the body of POST /v1/experiment/simulate.
type SimulateRequest struct {
	PotentialFormula       string      `json:"potentialFormula"`
	PotentialDatapoints    []Datapoint `json:"potentialDatapoints"`
	UsePotentialFormula    bool        `json:"usePotentialFormula"`
	WavefunctionFormula    string      `json:"wavefunctionFormula"`
	WavefunctionDatapoints []Datapoint `json:"wavefunctionDatapoints"`
	UseWavefunctionFormula bool        `json:"useWavefunctionFormula"`
	Start                  float32     `json:"start"`
	End                    float32     `json:"end"`
	Resolution             int         `json:"resolution" binding:"required,min=1"`
	Momentum               float32     `json:"momentum"`
}

// EvolveRequest is the body of POST /v1/experiment/evolve.
type EvolveRequest struct {
	Time  float32 `json:"time"`
	Start float32 `json:"start"`
	End   float32 `json:"end"`
}

// SetupExperimentRoutes configures the simulate/evolve/eigenvector/
// restart routes, closing over container exactly as the teacher's
// SetupHQERoutes closes over its engine (gateway/router/hqe.go).
func SetupExperimentRoutes(rg *gin.RouterGroup, container *services.ServiceContainer) {
	experiment := rg.Group("/experiment")
	{
		experiment.POST("/simulate", func(c *gin.Context) { simulateExperiment(c, container) })
		experiment.GET("/eigenvector/:n", func(c *gin.Context) { getEigenvector(c, container) })
		experiment.POST("/evolve", func(c *gin.Context) { evolveExperiment(c, container) })
		experiment.POST("/restart", func(c *gin.Context) { restartExperiment(c, container) })
	}
}

// simulateExperiment handles simulate: resolves the potential and
// initial wavefunction, diagonalizes the Hamiltonian, and replaces the
// stored Experiment. Returns {ok: bool}; a false ok means the store
// was left untouched.
// @Summary Run a new simulation
// @Tags Experiment
// @Accept json
// @Produce json
// @Param request body SimulateRequest true "Simulation request"
// @Success 200 {object} types.APIResponse{data=object}
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /v1/experiment/simulate [post]
func simulateExperiment(c *gin.Context, container *services.ServiceContainer) {
	requestID := c.GetString("request_id")
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewAPIError("EXPERIMENT_000", "Invalid request format", err.Error(), requestID))
		return
	}

	v := validation.NewValidator().
		ValidateInterval("interval", float64(req.Start), float64(req.End)).
		ValidateRange("resolution", req.Resolution, 1, 100000)
	if v.HasErrors() {
		result := v.Result()
		c.JSON(http.StatusBadRequest, types.NewAPIError("EXPERIMENT_002", "Invalid simulation request", result.Errors[0].Error(), requestID))
		return
	}

	ok := container.Engine.Simulate(
		container.Store,
		req.PotentialFormula, toEngineDatapoints(req.PotentialDatapoints), req.UsePotentialFormula,
		req.WavefunctionFormula, toEngineDatapoints(req.WavefunctionDatapoints), req.UseWavefunctionFormula,
		req.Start, req.End, req.Resolution, req.Momentum,
	)

	c.JSON(http.StatusOK, types.NewAPIResponse(gin.H{"ok": ok}, requestID))
}

// getEigenvector handles get_eigenvector: N real-part samples of the
// n-th eigenvector, or an empty Datapoints if no Experiment is loaded.
// @Summary Read the n-th eigenvector
// @Tags Experiment
// @Produce json
// @Param n path int true "Eigenvector index"
// @Param start query number true "Interval start"
// @Param end query number true "Interval end"
// @Success 200 {object} types.APIResponse{data=Datapoints}
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /v1/experiment/eigenvector/{n} [get]
func getEigenvector(c *gin.Context, container *services.ServiceContainer) {
	requestID := c.GetString("request_id")

	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		c.JSON(http.StatusBadRequest, types.NewAPIError("EXPERIMENT_001", "Invalid eigenvector index", err.Error(), requestID))
		return
	}
	start, end := parseFloatQuery(c, "start"), parseFloatQuery(c, "end")

	points := container.Engine.GetEigenvector(container.Store, n, start, end)
	c.JSON(http.StatusOK, types.NewAPIResponse(Datapoints{Values: fromEngineDatapoints(points)}, requestID))
}

// evolveExperiment handles evolve: |ψ(x,t)|² samples over the stored
// grid, or an empty Datapoints if no Experiment is loaded.
// @Summary Evolve the stored wavefunction to time t
// @Tags Experiment
// @Accept json
// @Produce json
// @Param request body EvolveRequest true "Evolution request"
// @Success 200 {object} types.APIResponse{data=Datapoints}
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /v1/experiment/evolve [post]
func evolveExperiment(c *gin.Context, container *services.ServiceContainer) {
	requestID := c.GetString("request_id")
	var req EvolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewAPIError("EXPERIMENT_000", "Invalid request format", err.Error(), requestID))
		return
	}

	points := container.Engine.Evolve(container.Store, req.Time, req.Start, req.End)
	c.JSON(http.StatusOK, types.NewAPIResponse(Datapoints{Values: fromEngineDatapoints(points)}, requestID))
}

// restartExperiment handles restart: drops the stored Experiment.
// @Summary Clear the stored experiment
// @Tags Experiment
// @Produce json
// @Success 200 {object} types.APIResponse{data=object}
// @Security ApiKeyAuth
// @Security BearerAuth
// @Router /v1/experiment/restart [post]
func restartExperiment(c *gin.Context, container *services.ServiceContainer) {
	requestID := c.GetString("request_id")
	container.Engine.Restart(container.Store)
	c.JSON(http.StatusOK, types.NewAPIResponse(gin.H{}, requestID))
}

func parseFloatQuery(c *gin.Context, key string) float32 {
	value, _ := strconv.ParseFloat(c.Query(key), 32)
	return float32(value)
}

func toEngineDatapoints(points []Datapoint) []simulation.Datapoint {
	out := make([]simulation.Datapoint, len(points))
	for i, p := range points {
		out[i] = simulation.Datapoint{X: p.X, Y: p.Y}
	}
	return out
}

func fromEngineDatapoints(points []simulation.Datapoint) []Datapoint {
	out := make([]Datapoint, len(points))
	for i, p := range points {
		out[i] = Datapoint{X: p.X, Y: p.Y}
	}
	return out
}
