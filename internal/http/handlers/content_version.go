package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/http/response"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/apierr"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/platform/ctxutil"
	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/services"
)

type ContentVersionHandler struct {
	svc services.ContentVersionService
}

func NewContentVersionHandler(svc services.ContentVersionService) *ContentVersionHandler {
	return &ContentVersionHandler{svc: svc}
}

type createVersionBody struct {
	ChangeDescription *string `json:"change_description"`
}

type cleanupBody struct {
	KeepLastN *int `json:"keep_last_n"`
}

// POST /api/content/:entityType/:id/versions
//
// An If-Match header carrying the expected latest version number turns the
// request into a conditional write.
func (h *ContentVersionHandler) CreateVersion(c *gin.Context) {
	entityType, entityID, err := parseTarget(c)
	if err != nil {
		response.Respond(c, err)
		return
	}
	userID, err := requireUser(c)
	if err != nil {
		response.Respond(c, err)
		return
	}
	var body createVersionBody
	if err := bindOptionalJSON(c, &body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	expected, err := parseIfMatch(c.GetHeader("If-Match"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_if_match", err)
		return
	}

	row, err := h.svc.CreateVersion(c.Request.Context(), services.CreateVersionRequest{
		EntityType:            entityType,
		EntityID:              entityID,
		AuthorID:              userID,
		ChangeDescription:     body.ChangeDescription,
		ExpectedLatestVersion: expected,
	})
	if err != nil {
		response.Respond(c, err)
		return
	}
	c.Header("ETag", strconv.Quote(strconv.Itoa(row.Version)))
	c.JSON(http.StatusCreated, gin.H{"version": row})
}

// GET /api/content/:entityType/:id/versions
func (h *ContentVersionHandler) GetHistory(c *gin.Context) {
	entityType, entityID, err := parseTarget(c)
	if err != nil {
		response.Respond(c, err)
		return
	}
	rows, err := h.svc.GetHistory(c.Request.Context(), entityType, entityID)
	if err != nil {
		response.Respond(c, err)
		return
	}
	if len(rows) > 0 {
		c.Header("ETag", strconv.Quote(strconv.Itoa(rows[0].Version)))
	}
	response.RespondOK(c, gin.H{"versions": rows})
}

// GET /api/content/:entityType/:id/versions/:version
func (h *ContentVersionHandler) GetVersion(c *gin.Context) {
	entityType, entityID, err := parseTarget(c)
	if err != nil {
		response.Respond(c, err)
		return
	}
	version, err := parseVersionParam(c.Param("version"), "version")
	if err != nil {
		response.Respond(c, err)
		return
	}
	row, err := h.svc.GetVersion(c.Request.Context(), entityType, entityID, version)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"version": row})
}

// POST /api/content/:entityType/:id/versions/:version/rollback
func (h *ContentVersionHandler) Rollback(c *gin.Context) {
	entityType, entityID, err := parseTarget(c)
	if err != nil {
		response.Respond(c, err)
		return
	}
	userID, err := requireUser(c)
	if err != nil {
		response.Respond(c, err)
		return
	}
	version, err := parseVersionParam(c.Param("version"), "version")
	if err != nil {
		response.Respond(c, err)
		return
	}
	entity, err := h.svc.Rollback(c.Request.Context(), entityType, entityID, version, userID)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"entity": entity})
}

// GET /api/content/:entityType/:id/compare?v1=&v2=
func (h *ContentVersionHandler) Compare(c *gin.Context) {
	entityType, entityID, err := parseTarget(c)
	if err != nil {
		response.Respond(c, err)
		return
	}
	v1, err := parseVersionParam(c.Query("v1"), "v1")
	if err != nil {
		response.Respond(c, err)
		return
	}
	v2, err := parseVersionParam(c.Query("v2"), "v2")
	if err != nil {
		response.Respond(c, err)
		return
	}
	diffs, err := h.svc.Compare(c.Request.Context(), entityType, entityID, v1, v2)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, gin.H{"version1": v1, "version2": v2, "diffs": diffs})
}

// POST /api/content/:entityType/:id/cleanup
//
// keep_last_n comes from the JSON body or the keep query parameter; without
// either the configured retention window applies.
func (h *ContentVersionHandler) Cleanup(c *gin.Context) {
	entityType, entityID, err := parseTarget(c)
	if err != nil {
		response.Respond(c, err)
		return
	}
	var body cleanupBody
	if err := bindOptionalJSON(c, &body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if raw := strings.TrimSpace(c.Query("keep")); raw != "" && body.KeepLastN == nil {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_keep", fmt.Errorf("invalid keep %q", raw))
			return
		}
		body.KeepLastN = &n
	}
	res, err := h.svc.Cleanup(c.Request.Context(), entityType, entityID, body.KeepLastN)
	if err != nil {
		response.Respond(c, err)
		return
	}
	response.RespondOK(c, res)
}

// bindOptionalJSON decodes the request body into dst when one was sent.
// Chunked bodies carry no Content-Length, so only an empty body is skipped.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func parseTarget(c *gin.Context) (types.EntityType, uuid.UUID, error) {
	entityType, err := versioning.ParseEntityType(c.Param("entityType"))
	if err != nil {
		return "", uuid.Nil, apierr.New(http.StatusBadRequest, "validation", err)
	}
	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", uuid.Nil, apierr.New(http.StatusBadRequest, "validation", fmt.Errorf("invalid entity id"))
	}
	return entityType, entityID, nil
}

func parseVersionParam(raw, name string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apierr.New(http.StatusBadRequest, "validation", fmt.Errorf("invalid %s %q", name, raw))
	}
	return v, nil
}

func requireUser(c *gin.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "unauthorized", fmt.Errorf("missing user"))
	}
	return rd.UserID, nil
}

func parseIfMatch(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "*" {
		return nil, nil
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("If-Match must be a version number, got %q", raw)
	}
	return &n, nil
}
