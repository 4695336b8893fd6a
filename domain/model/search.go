package model

import (
	"strings"

	"github.com/elliekim312/youtube-dashboard/domain/errs"
)

const (
	MsgMissingKeyword     = "Please enter a search keyword."
	MsgInvalidSearchType  = "Invalid search type. Use one of: channel, keywords, all."
	MsgInvalidMaxResults  = "maxResults must be between 1 and 50."
	MsgNegativeBoundValue = "Filter values must not be negative."
	MsgInvalidNumber      = "Numeric parameters must be whole numbers."

	// MaxResultsLimit is the largest page the dashboard serves.
	MaxResultsLimit = 50
)

// SearchType selects the aggregation strategy
type SearchType string

const (
	SearchTypeChannel  SearchType = "channel"
	SearchTypeKeywords SearchType = "keywords"
	SearchTypeAll      SearchType = "all"
)

// ParseSearchType maps raw input to a SearchType. Empty input means keywords.
func ParseSearchType(raw string) (SearchType, error) {
	switch SearchType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SearchTypeKeywords:
		return SearchTypeKeywords, nil
	case SearchTypeChannel:
		return SearchTypeChannel, nil
	case SearchTypeAll:
		return SearchTypeAll, nil
	}
	return "", errs.NewValidationError(MsgInvalidSearchType)
}

// SearchQuery is one user search request. Nil bounds are absent.
// MinSubscribers <= MaxSubscribers is the caller's responsibility.
type SearchQuery struct {
	Keyword        string     `url:"keyword"`
	SearchType     SearchType `url:"searchType"`
	MaxResults     int        `url:"maxResults"`
	MinSubscribers *int64     `url:"minSubscribers,omitempty"`
	MaxSubscribers *int64     `url:"maxSubscribers,omitempty"`
	MinViews       *int64     `url:"minViews,omitempty"`
}

// Validate checks the query before any network call is made
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.Keyword) == "" {
		return errs.NewValidationError(MsgMissingKeyword)
	}
	if _, err := ParseSearchType(string(q.SearchType)); err != nil {
		return err
	}
	if q.MaxResults <= 0 || q.MaxResults > MaxResultsLimit {
		return errs.NewValidationError(MsgInvalidMaxResults)
	}
	for _, bound := range []*int64{q.MinSubscribers, q.MaxSubscribers, q.MinViews} {
		if bound != nil && *bound < 0 {
			return errs.NewValidationError(MsgNegativeBoundValue)
		}
	}
	return nil
}

// HasSubscriberBound reports whether either subscriber bound is set
func (q SearchQuery) HasSubscriberBound() bool {
	return q.MinSubscribers != nil || q.MaxSubscribers != nil
}

// SearchResult is the ranked, filtered, truncated output of one aggregation
type SearchResult struct {
	Videos  []VideoRecord
	Skipped []errs.PartialFailure
}

// Int64 returns a pointer to v, for optional bounds
func Int64(v int64) *int64 {
	return &v
}
