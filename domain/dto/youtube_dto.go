package dto

import (
	"github.com/elliekim312/youtube-dashboard/domain/errs"
	"github.com/elliekim312/youtube-dashboard/domain/model"
)

// VideoSearchRequest represents the query parameters of GET /api/videos/search.
// Pointer fields distinguish an omitted filter (nil) from an explicit value.
type VideoSearchRequest struct {
	Keyword        string
	SearchType     string
	MaxResults     *int
	MinSubscribers *int64
	MaxSubscribers *int64
	MinViews       *int64
}

// SearchDefaults holds the values applied when the caller omits a parameter
type SearchDefaults struct {
	MaxResults     int
	MinSubscribers int64
	MaxSubscribers int64
	MinViews       int64
}

// ToQuery applies defaults and converts the request to a domain query
func (r VideoSearchRequest) ToQuery(defaults SearchDefaults) (model.SearchQuery, error) {
	searchType, err := model.ParseSearchType(r.SearchType)
	if err != nil {
		return model.SearchQuery{}, err
	}
	q := model.SearchQuery{
		Keyword:        r.Keyword,
		SearchType:     searchType,
		MaxResults:     defaults.MaxResults,
		MinSubscribers: r.MinSubscribers,
		MaxSubscribers: r.MaxSubscribers,
		MinViews:       r.MinViews,
	}
	if r.MaxResults != nil {
		q.MaxResults = *r.MaxResults
	}
	if q.MinSubscribers == nil {
		q.MinSubscribers = model.Int64(defaults.MinSubscribers)
	}
	if q.MaxSubscribers == nil {
		q.MaxSubscribers = model.Int64(defaults.MaxSubscribers)
	}
	if q.MinViews == nil {
		q.MinViews = model.Int64(defaults.MinViews)
	}
	return q, nil
}

// SearchResponse is the success envelope returned by the search endpoint
type SearchResponse struct {
	Success bool                  `json:"success"`
	Data    []model.VideoRecord   `json:"data"`
	Count   int                   `json:"count"`
	Skipped []errs.PartialFailure `json:"skipped,omitempty"`
}

// ErrorResponse is the failure envelope
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// NewSearchSuccess builds a success envelope
func NewSearchSuccess(result *model.SearchResult) SearchResponse {
	videos := result.Videos
	if videos == nil {
		videos = []model.VideoRecord{}
	}
	return SearchResponse{
		Success: true,
		Data:    videos,
		Count:   len(videos),
		Skipped: result.Skipped,
	}
}

// NewErrorResponse builds a failure envelope
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}
