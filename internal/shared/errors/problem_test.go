package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing thing")

func missingMapper(err error) (ProblemDetail, bool) {
	if errors.Is(err, errMissing) {
		return NewNotFoundProblem("thing", 7), true
	}
	return ProblemDetail{}, false
}

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/things/:id", handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/7", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestChainedResponderUsesFirstMatchingMapper(t *testing.T) {
	responder := NewChainedResponder("https://console.example", missingMapper)

	rec, problem := serve(t, func(c *gin.Context) {
		responder.RespondError(c, errors.Join(errors.New("lookup"), errMissing))
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "https://console.example"+TypeNotFound, problem.Type)
	assert.Equal(t, "/things/7", problem.Instance)
	assert.Equal(t, "thing", problem.Extensions["resourceType"])
}

func TestChainedResponderFallsBackToInternal(t *testing.T) {
	responder := NewChainedResponder("", missingMapper)

	problem := responder.Problem(errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, problem.Status)
	assert.Equal(t, "boom", problem.Detail)
}

func TestChainedResponderPassesThroughProblemErrors(t *testing.T) {
	responder := NewChainedResponder("")

	problem := responder.Problem(ErrTooLarge.WithDetail("image exceeds limit"))

	assert.Equal(t, http.StatusRequestEntityTooLarge, problem.Status)
	assert.Equal(t, "image exceeds limit", problem.Detail)
}

func TestRespondLogsServerFailures(t *testing.T) {
	var logs bytes.Buffer
	responder := NewChainedResponder("")
	responder.Logger = slog.New(slog.NewJSONHandler(&logs, nil))

	rec, _ := serve(t, func(c *gin.Context) {
		responder.RespondError(c, errors.New("database offline"))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "database offline")

	logs.Reset()
	_, _ = serve(t, func(c *gin.Context) {
		responder.Respond(c, ErrNotFound)
	})
	assert.Empty(t, logs.String())
}

func TestNewConflictProblemCarriesAllowedNext(t *testing.T) {
	problem := NewConflictProblem("cannot move order", "processing", "cancelled")
	assert.Equal(t, http.StatusConflict, problem.Status)
	assert.Equal(t, []string{"processing", "cancelled"}, problem.Extensions["allowedNext"])

	plain := NewConflictProblem("sku taken")
	assert.Nil(t, plain.Extensions)
}

func TestProblemTemplatesAreNotShared(t *testing.T) {
	first := ErrValidation.WithExtension("field", "a")
	second := ErrValidation.WithDetail("other")
	assert.Nil(t, ErrValidation.Extensions)
	assert.Nil(t, second.Extensions)
	assert.Equal(t, "a", first.Extensions["field"])
}
