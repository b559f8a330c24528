package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucidwave/qsim-backend/shared/types"
)

// SetupGreetRoute configures the smoke-test route.
func SetupGreetRoute(rg *gin.RouterGroup) {
	rg.GET("/greet/:name", greet)
}

// greet handles greet: a smoke test confirming the gateway is up and
// routing correctly.
// @Summary Smoke-test greeting
// @Tags Greet
// @Produce json
// @Param name path string true "Name to greet"
// @Success 200 {object} types.APIResponse{data=string}
// @Router /v1/greet/{name} [get]
func greet(c *gin.Context) {
	requestID := c.GetString("request_id")
	name := c.Param("name")
	c.JSON(http.StatusOK, types.NewAPIResponse(fmt.Sprintf("Hello, %s! The quantum sandbox is running.", name), requestID))
}
