package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/lucidwave/qsim-backend/gateway/services"
	"github.com/lucidwave/qsim-backend/shared/types"
)

func newTestRouter(t *testing.T) (*gin.Engine, *services.ServiceContainer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	container, err := services.NewServiceContainer(&types.Config{})
	if err != nil {
		t.Fatalf("failed to build service container: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("request_id", "test-request")
		c.Next()
	})
	v1 := r.Group("/v1")
	SetupFormulaRoutes(v1, container)
	SetupExperimentRoutes(v1, container)
	return r, container
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) types.APIResponse {
	t.Helper()
	var resp types.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v, body: %s", err, rec.Body.String())
	}
	return resp
}

func TestComputeFormulaOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/formula/compute", FormulaComputeRequest{
		Formula:    "x^2",
		Start:      -1,
		End:        1,
		Resolution: 4,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Fatalf("expected success response, got %+v", resp)
	}
}

func TestComputeFormulaWithDivisionByZeroSwallowsPerSampleError(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/formula/compute", FormulaComputeRequest{
		Formula:    "1/0",
		Start:      -1,
		End:        1,
		Resolution: 8,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	raw, _ := json.Marshal(resp.Data)
	var points Datapoints
	if err := json.Unmarshal(raw, &points); err != nil {
		t.Fatalf("failed to decode datapoints: %v", err)
	}
	if len(points.Values) != 8 {
		t.Fatalf("got %d points, want 8", len(points.Values))
	}
	for _, p := range points.Values {
		if p.Y != 0 {
			t.Fatalf("expected zeroed sample for a failing formula, got %v", p)
		}
	}
}

func TestFormulaCheckReportsParseError(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/formula/check", FormulaCheckRequest{Formula: "x+"})
	resp := decodeResponse(t, rec)

	message, ok := resp.Data.(string)
	if !ok || message == "" {
		t.Fatalf("expected a non-empty error message for an unparseable formula, got %+v", resp.Data)
	}
}

func TestFormulaCheckIsEmptyOnSuccess(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(r, http.MethodPost, "/v1/formula/check", FormulaCheckRequest{Formula: "sin(x)+cos(x)"})
	resp := decodeResponse(t, rec)

	message, ok := resp.Data.(string)
	if !ok || message != "" {
		t.Fatalf("expected empty message for a valid formula, got %+v", resp.Data)
	}
}

func TestSimulateEvolveRestartRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)

	simRec := doJSON(r, http.MethodPost, "/v1/experiment/simulate", SimulateRequest{
		PotentialFormula:       "0",
		UsePotentialFormula:    true,
		WavefunctionFormula:    "exp(-x^2)",
		UseWavefunctionFormula: true,
		Start:                  -1,
		End:                    1,
		Resolution:             32,
	})
	if simRec.Code != http.StatusOK {
		t.Fatalf("simulate status = %d, body: %s", simRec.Code, simRec.Body.String())
	}
	simResp := decodeResponse(t, simRec)
	okMap, ok := simResp.Data.(map[string]interface{})
	if !ok || okMap["ok"] != true {
		t.Fatalf("expected simulate to report ok=true, got %+v", simResp.Data)
	}

	evolveRec := doJSON(r, http.MethodPost, "/v1/experiment/evolve", EvolveRequest{Time: 0, Start: -1, End: 1})
	evolveResp := decodeResponse(t, evolveRec)
	raw, _ := json.Marshal(evolveResp.Data)
	var points Datapoints
	json.Unmarshal(raw, &points)
	if len(points.Values) != 32 {
		t.Fatalf("evolve returned %d points, want 32", len(points.Values))
	}

	restartRec := doJSON(r, http.MethodPost, "/v1/experiment/restart", nil)
	if restartRec.Code != http.StatusOK {
		t.Fatalf("restart status = %d", restartRec.Code)
	}

	afterRestart := doJSON(r, http.MethodPost, "/v1/experiment/evolve", EvolveRequest{Time: 0, Start: -1, End: 1})
	afterRestartResp := decodeResponse(t, afterRestart)
	raw, _ = json.Marshal(afterRestartResp.Data)
	var emptyPoints Datapoints
	json.Unmarshal(raw, &emptyPoints)
	if len(emptyPoints.Values) != 0 {
		t.Fatalf("expected empty evolve after restart, got %d points", len(emptyPoints.Values))
	}
}
