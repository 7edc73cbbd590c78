package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/middleware"
	"github.com/damoang/angple-revisions/internal/service"
	"github.com/gin-gonic/gin"
)

// RevisePostRequest is the JSON body for a revise call. Absent fields are
// left untouched.
type RevisePostRequest struct {
	Content         *string  `json:"content"`
	CookedContent   *string  `json:"cooked_content"`
	EditReason      *string  `json:"edit_reason"`
	OwnerID         *uint64  `json:"owner_id"`
	Kind            *string  `json:"kind"`
	Title           *string  `json:"title"`
	Archetype       *string  `json:"archetype"`
	CategoryID      *uint64  `json:"category_id"`
	Tags            []string `json:"tags"`
	FeaturedLink    *string  `json:"featured_link"`
	ForceNewVersion bool     `json:"force_new_version"`
}

// RevisionHandler HTTP endpoints for revising posts and reading history
type RevisionHandler struct {
	engine  *service.RevisionEngine
	queries *service.RevisionQueryService
}

// NewRevisionHandler creates a new RevisionHandler
func NewRevisionHandler(engine *service.RevisionEngine, queries *service.RevisionQueryService) *RevisionHandler {
	return &RevisionHandler{engine: engine, queries: queries}
}

// RevisePost handles PATCH /posts/:id
func (h *RevisionHandler) RevisePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid post id", nil)
		return
	}

	var req RevisePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	editor := middleware.GetEditor(c)
	fields := service.RevisionFields{
		Content:       req.Content,
		CookedContent: req.CookedContent,
		EditReason:    req.EditReason,
		OwnerID:       req.OwnerID,
		Kind:          req.Kind,
		Title:         req.Title,
		Archetype:     req.Archetype,
		CategoryID:    req.CategoryID,
		Tags:          req.Tags,
		FeaturedLink:  req.FeaturedLink,
	}
	opts := service.ReviseOptions{ForceNewVersion: req.ForceNewVersion}

	result, err := h.engine.Revise(c.Request.Context(), postID, editor, fields, opts)
	if err != nil {
		h.writeReviseError(c, err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// ListRevisions handles GET /posts/:id/revisions
func (h *RevisionHandler) ListRevisions(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid post id", nil)
		return
	}

	revisions, err := h.queries.ListRevisions(postID, middleware.GetEditor(c))
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list revisions", nil)
		return
	}

	common.SuccessResponse(c, revisions, &common.Meta{Total: int64(len(revisions))})
}

// GetRevision handles GET /posts/:id/revisions/:version
func (h *RevisionHandler) GetRevision(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid post id", nil)
		return
	}
	version, err := strconv.ParseUint(c.Param("version"), 10, 32)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid version", nil)
		return
	}

	revision, err := h.queries.GetRevision(postID, uint(version), middleware.GetEditor(c))
	if err != nil {
		if errors.Is(err, common.ErrRevisionNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "revision not found", nil)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to load revision", nil)
		return
	}

	common.SuccessResponse(c, revision, nil)
}

func (h *RevisionHandler) writeReviseError(c *gin.Context, err error) {
	var verrs *common.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		common.ErrorResponse(c, http.StatusUnprocessableEntity, "validation failed", verrs.Errors)
	case errors.Is(err, common.ErrNoChanges):
		common.ErrorResponse(c, http.StatusUnprocessableEntity, "no changes to apply", nil)
	case errors.Is(err, common.ErrSlowMode):
		common.ErrorResponse(c, http.StatusUnprocessableEntity, "slow mode is enabled on this topic", nil)
	case errors.Is(err, common.ErrRateLimited):
		common.ErrorResponse(c, http.StatusTooManyRequests, "too many edits, try again later", nil)
	case errors.Is(err, common.ErrPostNotFound), errors.Is(err, common.ErrTopicNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "post not found", nil)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to revise post", nil)
	}
}
