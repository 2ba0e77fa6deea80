package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainagg "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/aggregates"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/apierr"
)

func respond(err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Respond(c, err)
	var env ErrorEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRespondAPIError(t *testing.T) {
	rec, env := respond(apierr.New(http.StatusBadRequest, "validation", errors.New("invalid entity id")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", env.Error.Code)
	assert.Equal(t, "invalid entity id", env.Error.Message)
}

func TestRespondDomainErrorWrapped(t *testing.T) {
	inner := domainagg.NewError(domainagg.CodeConflict, "Content.Version.Create", "expected latest version 2, found 3", nil)
	rec, env := respond(fmt.Errorf("service: %w", inner))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", env.Error.Code)
}

func TestRespondUnknownErrorIsInternal(t *testing.T) {
	rec, env := respond(errors.New("disk on fire"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, string(domainagg.CodeInternal), env.Error.Code)
}
