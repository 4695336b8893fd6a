package repository

import (
	"context"
	"time"

	"github.com/elliekim312/youtube-dashboard/domain/model"
)

// ISearchCache defines a cache for complete search results
type ISearchCache interface {
	// Get returns the cached videos for a query. ok is false on a miss.
	Get(ctx context.Context, query model.SearchQuery) (videos []model.VideoRecord, ok bool, err error)
	// Set stores the videos for a query with a TTL from now.
	Set(ctx context.Context, query model.SearchQuery, videos []model.VideoRecord, ttl time.Duration) error
}
