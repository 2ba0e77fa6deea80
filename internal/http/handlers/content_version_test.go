package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain"
	domainagg "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/aggregates"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/ctxutil"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/services"
)

type fakeVersionService struct {
	lastCreate  services.CreateVersionRequest
	lastKeep    *int
	lastV1      int
	lastV2      int
	lastUser    uuid.UUID
	err         error
	createCalls int
}

func (f *fakeVersionService) CreateVersion(_ context.Context, req services.CreateVersionRequest) (*types.ContentVersion, error) {
	f.createCalls++
	f.lastCreate = req
	if f.err != nil {
		return nil, f.err
	}
	return &types.ContentVersion{ID: uuid.New(), EntityType: req.EntityType, EntityID: req.EntityID, Version: 4, AuthorID: req.AuthorID}, nil
}

func (f *fakeVersionService) GetHistory(_ context.Context, entityType types.EntityType, entityID uuid.UUID) ([]*types.ContentVersion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*types.ContentVersion{
		{EntityType: entityType, EntityID: entityID, Version: 2},
		{EntityType: entityType, EntityID: entityID, Version: 1},
	}, nil
}

func (f *fakeVersionService) GetVersion(_ context.Context, entityType types.EntityType, entityID uuid.UUID, version int) (*types.ContentVersion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.ContentVersion{EntityType: entityType, EntityID: entityID, Version: version}, nil
}

func (f *fakeVersionService) Rollback(_ context.Context, entityType types.EntityType, entityID uuid.UUID, version int, userID uuid.UUID) (*versioning.Entity, error) {
	f.lastUser = userID
	if f.err != nil {
		return nil, f.err
	}
	return &versioning.Entity{Type: entityType, ID: entityID, Fields: map[string]any{"title": fmt.Sprintf("v%d", version)}}, nil
}

func (f *fakeVersionService) Compare(_ context.Context, _ types.EntityType, _ uuid.UUID, v1, v2 int) ([]types.FieldDiff, error) {
	f.lastV1, f.lastV2 = v1, v2
	if f.err != nil {
		return nil, f.err
	}
	return []types.FieldDiff{{Field: "title", OldValue: "a", NewValue: "b"}}, nil
}

func (f *fakeVersionService) Cleanup(_ context.Context, _ types.EntityType, _ uuid.UUID, keep *int) (domainagg.CleanupResult, error) {
	f.lastKeep = keep
	if f.err != nil {
		return domainagg.CleanupResult{}, f.err
	}
	return domainagg.CleanupResult{DeletedCount: 2}, nil
}

func newTestRouter(svc services.ContentVersionService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewContentVersionHandler(svc)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID}))
		}
		c.Next()
	})
	g := r.Group("/api/content/:entityType/:id")
	g.POST("/versions", h.CreateVersion)
	g.GET("/versions", h.GetHistory)
	g.GET("/versions/:version", h.GetVersion)
	g.POST("/versions/:version/rollback", h.Rollback)
	g.GET("/compare", h.Compare)
	g.POST("/cleanup", h.Cleanup)
	return r
}

func do(r http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateVersionHandler(t *testing.T) {
	svc := &fakeVersionService{}
	user := uuid.New()
	r := newTestRouter(svc, user)
	id := uuid.New()

	rec := do(r, http.MethodPost, "/api/content/Lesson/"+id.String()+"/versions",
		`{"change_description":"typo fix"}`, map[string]string{"If-Match": `"3"`})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, `"4"`, rec.Header().Get("ETag"))
	assert.Equal(t, types.EntityLesson, svc.lastCreate.EntityType)
	assert.Equal(t, id, svc.lastCreate.EntityID)
	assert.Equal(t, user, svc.lastCreate.AuthorID)
	require.NotNil(t, svc.lastCreate.ChangeDescription)
	assert.Equal(t, "typo fix", *svc.lastCreate.ChangeDescription)
	require.NotNil(t, svc.lastCreate.ExpectedLatestVersion)
	assert.Equal(t, 3, *svc.lastCreate.ExpectedLatestVersion)

	rec = do(r, http.MethodPost, "/api/content/lesson/"+id.String()+"/versions", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, svc.lastCreate.ExpectedLatestVersion)
	assert.Nil(t, svc.lastCreate.ChangeDescription)
}

func TestCreateVersionHandlerRejectsBadInput(t *testing.T) {
	svc := &fakeVersionService{}
	r := newTestRouter(svc, uuid.New())
	id := uuid.New().String()

	for name, tc := range map[string]struct {
		target  string
		headers map[string]string
	}{
		"unknown type": {"/api/content/quiz/" + id + "/versions", nil},
		"bad id":       {"/api/content/lesson/nope/versions", nil},
		"bad if-match": {"/api/content/lesson/" + id + "/versions", map[string]string{"If-Match": "abc"}},
	} {
		rec := do(r, http.MethodPost, tc.target, "", tc.headers)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
	assert.Zero(t, svc.createCalls)

	anon := newTestRouter(svc, uuid.Nil)
	rec := do(anon, http.MethodPost, "/api/content/lesson/"+id+"/versions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandlerMapsDomainErrors(t *testing.T) {
	id := uuid.New().String()
	for code, want := range map[domainagg.ErrorCode]int{
		domainagg.CodeValidation:         http.StatusBadRequest,
		domainagg.CodeNotFound:           http.StatusNotFound,
		domainagg.CodeConflict:           http.StatusConflict,
		domainagg.CodeRetryable:          http.StatusServiceUnavailable,
		domainagg.CodeInvariantViolation: http.StatusInternalServerError,
	} {
		svc := &fakeVersionService{err: domainagg.NewError(code, "op", "boom", nil)}
		r := newTestRouter(svc, uuid.New())
		rec := do(r, http.MethodGet, "/api/content/course/"+id+"/versions/2", "", nil)
		assert.Equal(t, want, rec.Code, code)

		var env struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.Equal(t, string(code), env.Error.Code)
	}
}

func TestHistoryCompareRollbackCleanupHandlers(t *testing.T) {
	svc := &fakeVersionService{}
	user := uuid.New()
	r := newTestRouter(svc, user)
	base := "/api/content/module/" + uuid.New().String()

	rec := do(r, http.MethodGet, base+"/versions", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"2"`, rec.Header().Get("ETag"))
	var history struct {
		Versions []types.ContentVersion `json:"versions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Len(t, history.Versions, 2)

	rec = do(r, http.MethodGet, base+"/compare?v1=1&v2=3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.lastV1)
	assert.Equal(t, 3, svc.lastV2)
	rec = do(r, http.MethodGet, base+"/compare?v1=1", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPost, base+"/versions/1/rollback", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user, svc.lastUser)
	assert.Contains(t, rec.Body.String(), `"title":"v1"`)

	rec = do(r, http.MethodPost, base+"/cleanup", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.lastKeep)
	assert.JSONEq(t, `{"deleted_count":2}`, rec.Body.String())

	rec = do(r, http.MethodPost, base+"/cleanup?keep=5", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastKeep)
	assert.Equal(t, 5, *svc.lastKeep)

	rec = do(r, http.MethodPost, base+"/cleanup", `{"keep_last_n":7}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 7, *svc.lastKeep)

	rec = do(r, http.MethodPost, base+"/cleanup?keep=many", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlersBindChunkedBodies(t *testing.T) {
	svc := &fakeVersionService{}
	r := newTestRouter(svc, uuid.New())
	base := "/api/content/course/" + uuid.New().String()

	chunked := func(target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.ContentLength = -1
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := chunked(base+"/versions", `{"change_description":"streamed"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, svc.lastCreate.ChangeDescription)
	assert.Equal(t, "streamed", *svc.lastCreate.ChangeDescription)

	rec = chunked(base+"/cleanup", `{"keep_last_n":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, svc.lastKeep)
	assert.Equal(t, 4, *svc.lastKeep)

	rec = chunked(base+"/cleanup", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, svc.lastKeep)

	rec = chunked(base+"/cleanup", `{"keep_last_n":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseIfMatch(t *testing.T) {
	for raw, want := range map[string]int{`"0"`: 0, `7`: 7, `W/"12"`: 12} {
		got, err := parseIfMatch(raw)
		require.NoError(t, err, raw)
		require.NotNil(t, got, raw)
		assert.Equal(t, want, *got, raw)
	}
	for _, raw := range []string{"", "*"} {
		got, err := parseIfMatch(raw)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
	_, err := parseIfMatch(`"-1"`)
	assert.Error(t, err)
}
