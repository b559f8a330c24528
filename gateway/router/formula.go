package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucidwave/qsim-backend/core/formula"
	"github.com/lucidwave/qsim-backend/gateway/services"
	"github.com/lucidwave/qsim-backend/shared/types"
	"github.com/lucidwave/qsim-backend/shared/validation"
)

// Datapoint is the wire shape of one (x, y) sample.
type Datapoint struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Datapoints wraps a Datapoint slice, per spec.md's Datapoints envelope.
type Datapoints struct {
	Values []Datapoint `json:"values"`
}

// FormulaCheckRequest is the body of POST /v1/formula/check.
type FormulaCheckRequest struct {
	Formula string `json:"formula" binding:"required"`
}

// FormulaComputeRequest is the body of POST /v1/formula/compute.
type FormulaComputeRequest struct {
	Formula    string  `json:"formula" binding:"required"`
	Start      float32 `json:"start"`
	End        float32 `json:"end"`
	Resolution int     `json:"resolution" binding:"required,min=1"`
	Normalize  bool    `json:"normalize"`
}

// SetupFormulaRoutes configures the formula-preview routes. These
// handlers are pure functions of their request body and need no
// collaborator from container, but it is accepted for symmetry with
// SetupExperimentRoutes and in case future formula routes need it.
func SetupFormulaRoutes(rg *gin.RouterGroup, container *services.ServiceContainer) {
	rg.POST("/formula/check", checkFormula)
	rg.POST("/formula/compute", computeFormula)
}

// checkFormula handles formula_error: empty string on success, the
// parse error's message on failure.
// @Summary Check whether a formula parses
// @Tags Formula
// @Accept json
// @Produce json
// @Param request body FormulaCheckRequest true "Formula to check"
// @Success 200 {object} types.APIResponse{data=string}
// @Router /v1/formula/check [post]
func checkFormula(c *gin.Context) {
	requestID := c.GetString("request_id")
	var req FormulaCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewAPIError("FORMULA_000", "Invalid request format", err.Error(), requestID))
		return
	}

	message := ""
	if _, err := formula.ParseCached(req.Formula); err != nil {
		message = err.Error()
	}
	c.JSON(http.StatusOK, types.NewAPIResponse(message, requestID))
}

// computeFormula handles compute_formula: parses, samples, optionally
// normalizes, and returns the real part of each sample. A parse
// failure falls back to the constant-zero formula rather than failing
// the request, per spec.md §6/§8.
// @Summary Sample a formula over an interval
// @Tags Formula
// @Accept json
// @Produce json
// @Param request body FormulaComputeRequest true "Sampling request"
// @Success 200 {object} types.APIResponse{data=Datapoints}
// @Router /v1/formula/compute [post]
func computeFormula(c *gin.Context) {
	requestID := c.GetString("request_id")
	var req FormulaComputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewAPIError("FORMULA_000", "Invalid request format", err.Error(), requestID))
		return
	}

	v := validation.NewValidator().
		ValidateInterval("interval", float64(req.Start), float64(req.End)).
		ValidateRange("resolution", req.Resolution, 1, 100000)
	if v.HasErrors() {
		result := v.Result()
		c.JSON(http.StatusBadRequest, types.NewAPIError("FORMULA_001", "Invalid sampling request", result.Errors[0].Error(), requestID))
		return
	}

	f, err := formula.ParseCached(req.Formula)
	if err != nil {
		f = formula.ConstantZero()
	}

	vector := f.GetVector(req.Start, req.End, req.Resolution)
	if req.Normalize {
		vector.Normalize()
	}

	values := make([]Datapoint, vector.Len())
	step := (req.End - req.Start) / float32(req.Resolution)
	for i := 0; i < vector.Len(); i++ {
		values[i] = Datapoint{X: req.Start + float32(i)*step, Y: vector.At(i).Real}
	}

	c.JSON(http.StatusOK, types.NewAPIResponse(Datapoints{Values: values}, requestID))
}
