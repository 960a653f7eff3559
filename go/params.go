package consoleserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

func bindPathParam(c *gin.Context, name string, dest any) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), dest, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid format for parameter %s: %w", name, err))
		return false
	}
	return true
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	var id int64
	if !bindPathParam(c, name, &id) {
		return 0, false
	}
	return id, true
}

func parseIndexParam(c *gin.Context, name string) (int, bool) {
	var index int
	if !bindPathParam(c, name, &index) {
		return 0, false
	}
	return index, true
}

func parseUUIDParam(c *gin.Context, name string) (string, bool) {
	var raw string
	if !bindPathParam(c, name, &raw) {
		return "", false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid format for parameter %s: %w", name, err))
		return "", false
	}
	return id.String(), true
}
