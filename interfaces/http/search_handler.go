package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/elliekim312/youtube-dashboard/domain/dto"
	"github.com/elliekim312/youtube-dashboard/domain/errs"
	"github.com/elliekim312/youtube-dashboard/domain/model"
	"github.com/elliekim312/youtube-dashboard/infrastructure/logger"
	"github.com/elliekim312/youtube-dashboard/usecase"

	"github.com/gin-gonic/gin"
)

const (
	msgQuotaExceeded = "YouTube API quota exceeded. Please try again later."
	msgSearchFailed  = "Failed to fetch videos."
)

// ISearchHandler defines the search dashboard HTTP handlers
type ISearchHandler interface {
	Search(ctx *gin.Context)
	Healthz(ctx *gin.Context)
}

// SearchHandler implements the search dashboard HTTP handlers
type SearchHandler struct {
	searchUseCase usecase.ISearchUseCase
	defaults      dto.SearchDefaults
}

// NewSearchHandler creates a new search handler instance
func NewSearchHandler(searchUseCase usecase.ISearchUseCase, defaults dto.SearchDefaults) ISearchHandler {
	return &SearchHandler{
		searchUseCase: searchUseCase,
		defaults:      defaults,
	}
}

// Search handles GET /api/videos/search
func (h *SearchHandler) Search(ctx *gin.Context) {
	req, err := parseSearchRequest(ctx)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	query, err := req.ToQuery(h.defaults)
	if err == nil {
		err = query.Validate()
	}
	if err != nil {
		h.fail(ctx, err)
		return
	}

	result, err := h.searchUseCase.Search(ctx.Request.Context(), query)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSearchSuccess(result))
}

// Healthz returns OK for health checks
func (h *SearchHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps an error to its status and user-facing message.
// Only validation messages are shown verbatim.
func (h *SearchHandler) fail(ctx *gin.Context, err error) {
	var validationErr *errs.ValidationError
	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(validationErr.Message))
	case errs.IsQuota(err):
		logger.GetLogger().WithField("error", err).Warn("YouTube quota exhausted")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(msgQuotaExceeded))
	default:
		logger.GetLogger().WithField("error", err).Error("Error while searching videos")
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(msgSearchFailed))
	}
}

func parseSearchRequest(ctx *gin.Context) (dto.VideoSearchRequest, error) {
	req := dto.VideoSearchRequest{
		Keyword:    strings.TrimSpace(ctx.Query("keyword")),
		SearchType: ctx.Query("searchType"),
	}

	if raw := strings.TrimSpace(ctx.Query("maxResults")); raw != "" {
		val, err := strconv.Atoi(raw)
		if err != nil {
			return req, errs.NewValidationError(model.MsgInvalidMaxResults)
		}
		req.MaxResults = &val
	}

	var err error
	if req.MinSubscribers, err = optionalInt64(ctx, "minSubscribers"); err != nil {
		return req, err
	}
	if req.MaxSubscribers, err = optionalInt64(ctx, "maxSubscribers"); err != nil {
		return req, err
	}
	if req.MinViews, err = optionalInt64(ctx, "minViews"); err != nil {
		return req, err
	}
	return req, nil
}

func optionalInt64(ctx *gin.Context, name string) (*int64, error) {
	raw := strings.TrimSpace(ctx.Query(name))
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errs.NewValidationError(model.MsgInvalidNumber)
	}
	return &val, nil
}
