package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/aggregates"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/repos"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/data/repos/testutil"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
	httpH "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/http/handlers"
	httpMW "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/http/middleware"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/observability"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/services"
)

type routerFixture struct {
	engine   *gin.Engine
	token    string
	lessonID uuid.UUID
	lessons  repos.LessonRepo
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)

	lessons := repos.NewLessonRepo(db, log)
	versions := repos.NewContentVersionRepo(db, log)
	entities := repos.NewContentEntityRepo(repos.NewCourseRepo(db, log), repos.NewCourseModuleRepo(db, log), lessons, log)
	agg := aggregates.NewContentVersionAggregate(aggregates.ContentVersionAggregateDeps{
		Base:     aggregates.BaseDeps{DB: db, Log: log},
		Entities: entities,
		Versions: versions,
	})
	svc := services.NewContentVersionService(log, agg, versions, versioning.RetentionPolicy{}, nil, nil)
	verifier, err := services.NewTokenVerifier(log, "test-secret", "")
	require.NoError(t, err)
	token, err := verifier.IssueToken(uuid.New(), time.Hour)
	require.NoError(t, err)

	ctx := context.Background()
	course := testutil.SeedCourse(t, ctx, db, "Router")
	module := testutil.SeedCourseModule(t, ctx, db, course.ID, 0)
	lesson := testutil.SeedLesson(t, ctx, db, module.ID, 0)

	engine := NewRouter(RouterConfig{
		Log:                   log,
		Metrics:               observability.NewMetrics(prometheus.NewRegistry()),
		AuthMiddleware:        httpMW.NewAuthMiddleware(log, verifier),
		ContentVersionHandler: httpH.NewContentVersionHandler(svc),
		HealthHandler:         httpH.NewHealthHandler(db),
	})
	return &routerFixture{engine: engine, token: token, lessonID: lesson.ID, lessons: lessons}
}

func (f *routerFixture) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *nethttp.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+f.token)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestRouterVersioningFlow(t *testing.T) {
	f := newRouterFixture(t)
	base := "/api/content/lesson/" + f.lessonID.String()

	rec := f.do(nethttp.MethodPost, base+"/versions", `{"change_description":"first"}`, map[string]string{"If-Match": "0"})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(nethttp.MethodPost, base+"/versions", "", map[string]string{"If-Match": "0"})
	require.Equal(t, nethttp.StatusConflict, rec.Code, rec.Body.String())

	_, err := f.lessons.UpdateColumns(testutil.DBC(), f.lessonID, map[string]any{"title": "renamed"})
	require.NoError(t, err)
	rec = f.do(nethttp.MethodPost, base+"/versions", "", map[string]string{"If-Match": `"1"`})
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(nethttp.MethodGet, base+"/compare?v1=1&v2=2", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var cmp struct {
		Diffs []versioning.FieldDiff `json:"diffs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cmp))
	require.Len(t, cmp.Diffs, 1)
	assert.Equal(t, "title", cmp.Diffs[0].Field)
	assert.Equal(t, "renamed", cmp.Diffs[0].NewValue)

	rec = f.do(nethttp.MethodPost, base+"/versions/1/rollback", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(nethttp.MethodGet, base+"/versions", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, `"3"`, rec.Header().Get("ETag"))

	rec = f.do(nethttp.MethodPost, base+"/versions/9/rollback", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec = f.do(nethttp.MethodPost, base+"/cleanup?keep=1", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted_count":2}`, rec.Body.String())

	rec = f.do(nethttp.MethodPost, base+"/cleanup?keep=0", "", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"deleted_count":1}`, rec.Body.String())

	rec = f.do(nethttp.MethodPost, base+"/cleanup?keep=-1", "", nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestRouterRequiresAuth(t *testing.T) {
	f := newRouterFixture(t)
	req := httptest.NewRequest(nethttp.MethodGet, "/api/content/lesson/"+f.lessonID.String()+"/versions", nil)
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(nethttp.MethodGet, "/api/content/lesson/"+f.lessonID.String()+"/versions", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func TestRouterHealthAndMetrics(t *testing.T) {
	f := newRouterFixture(t)
	f.do(nethttp.MethodGet, "/api/content/lesson/"+f.lessonID.String()+"/versions", "", nil)

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/healthcheck", nil))
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec = httptest.NewRecorder()
	f.engine.ServeHTTP(rec, httptest.NewRequest(nethttp.MethodGet, "/metrics", nil))
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/content/:entityType/:id/versions"`)
}
