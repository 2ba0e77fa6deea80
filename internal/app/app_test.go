package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/repos/testutil"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
)

func TestNewWiresSQLiteStack(t *testing.T) {
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("JWT_SECRET_KEY", "app-test-secret")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_ENABLED", "false")

	a, err := New(context.Background(), Options{})
	require.NoError(t, err)
	t.Cleanup(a.Close)

	require.NotNil(t, a.Services.ContentVersions)
	require.NotNil(t, a.Services.Tokens)
	assert.Nil(t, a.Clients.VersionBus)

	ctx := context.Background()
	course := testutil.SeedCourse(t, ctx, a.DB, "App")

	token, err := a.Services.Tokens.IssueToken(uuid.New(), time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/content/course/"+course.ID.String()+"/versions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	history, err := a.Services.ContentVersions.GetHistory(ctx, versioning.EntityCourse, course.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "App", history[0].Fields["title"])
}
