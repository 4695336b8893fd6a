package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/elliekim312/youtube-dashboard/domain/errs"
	"github.com/elliekim312/youtube-dashboard/domain/model"
	"github.com/elliekim312/youtube-dashboard/domain/repository"
	"github.com/elliekim312/youtube-dashboard/infrastructure/logger"

	"golang.org/x/sync/errgroup"
)

const (
	// keywordFetchBudget over-fetches the text search to leave room for filtering.
	keywordFetchBudget = 30
	// channelLimit is the number of channels resolved for a keyword.
	channelLimit = 5
	// channelVideoBudget is shared across all resolved channels.
	channelVideoBudget = 50
	// perChannelCap bounds a single channel's contribution.
	perChannelCap = 20

	defaultConcurrency = 5
)

// ISearchUseCase defines the search aggregation operation
type ISearchUseCase interface {
	Search(ctx context.Context, query model.SearchQuery) (*model.SearchResult, error)
}

// SearchUseCase combines catalog queries into one ranked, filtered result
type SearchUseCase struct {
	catalog     repository.ICatalog
	cache       repository.ISearchCache // optional
	cacheTTL    time.Duration
	concurrency int
}

// SearchOption configures a SearchUseCase
type SearchOption func(*SearchUseCase)

// WithCache enables result caching for ttl
func WithCache(cache repository.ISearchCache, ttl time.Duration) SearchOption {
	return func(u *SearchUseCase) {
		u.cache = cache
		u.cacheTTL = ttl
	}
}

// WithConcurrency bounds the number of channels listed in parallel
func WithConcurrency(n int) SearchOption {
	return func(u *SearchUseCase) {
		if n > 0 {
			u.concurrency = n
		}
	}
}

// NewSearchUseCase creates a new search use case instance
func NewSearchUseCase(catalog repository.ICatalog, opts ...SearchOption) ISearchUseCase {
	u := &SearchUseCase{catalog: catalog, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Search validates the query and resolves it according to its search type.
// Per-channel and per-batch failures are absorbed into SearchResult.Skipped.
func (u *SearchUseCase) Search(ctx context.Context, query model.SearchQuery) (*model.SearchResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	// Validate accepts any casing; the mode switch below does not.
	searchType, _ := model.ParseSearchType(string(query.SearchType))
	query.SearchType = searchType

	log := logger.GetLogger().
		WithField("keyword", query.Keyword).
		WithField("searchType", query.SearchType).
		WithField("maxResults", query.MaxResults)

	if videos, ok := u.fromCache(ctx, query); ok {
		log.WithField("count", len(videos)).Debug("Search served from cache")
		return &model.SearchResult{Videos: videos}, nil
	}

	var (
		result *model.SearchResult
		err    error
	)
	switch query.SearchType {
	case model.SearchTypeChannel:
		result, err = u.searchChannels(ctx, query)
	case model.SearchTypeAll:
		result, err = u.searchAll(ctx, query)
	default:
		result, err = u.searchKeywords(ctx, query)
	}
	if err != nil {
		log.WithField("error", err).Error("Search failed")
		return nil, err
	}

	for _, skipped := range result.Skipped {
		log.WithField("op", skipped.Op).WithField("item", skipped.Item).WithField("reason", skipped.Reason).Warn("Search result is partial")
	}
	log.WithField("count", len(result.Videos)).Info("Search completed")

	if len(result.Skipped) == 0 {
		u.toCache(ctx, query, result.Videos)
	}
	return result, nil
}

func (u *SearchUseCase) searchKeywords(ctx context.Context, query model.SearchQuery) (*model.SearchResult, error) {
	videos, err := u.catalog.SearchVideosByText(ctx, query.Keyword, keywordFetchBudget)
	if err != nil {
		return nil, err
	}
	return u.filterRankTruncate(ctx, query, dedupe(videos)), nil
}

func (u *SearchUseCase) searchChannels(ctx context.Context, query model.SearchQuery) (*model.SearchResult, error) {
	gathered, err := u.gatherChannelVideos(ctx, query.Keyword)
	if err != nil {
		return nil, err
	}
	result := &model.SearchResult{Skipped: gathered.Skipped}
	if len(gathered.Value) == 0 {
		result.Videos = []model.VideoRecord{}
		return result, nil
	}

	videos := filterMinViews(gathered.Value, query.MinViews)
	// Only the upper subscriber bound applies in channel mode.
	if query.MaxSubscribers != nil && len(videos) > 0 {
		stats := u.catalog.FetchChannelSubscriberCounts(ctx, distinctChannelIDs(videos))
		result.Skipped = append(result.Skipped, stats.Skipped...)
		videos = filterSubscribers(videos, stats.Value, nil, query.MaxSubscribers)
	}

	// Channel order is kept: no re-ranking by view count in this mode.
	result.Videos = truncate(videos, query.MaxResults)
	return result, nil
}

func (u *SearchUseCase) searchAll(ctx context.Context, query model.SearchQuery) (*model.SearchResult, error) {
	var (
		gathered model.Outcome[[]model.VideoRecord]
		byText   []model.VideoRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		gathered, err = u.gatherChannelVideos(gctx, query.Keyword)
		return err
	})
	g.Go(func() error {
		var err error
		byText, err = u.catalog.SearchVideosByText(gctx, query.Keyword, keywordFetchBudget)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]model.VideoRecord, 0, len(gathered.Value)+len(byText))
	merged = append(merged, gathered.Value...)
	merged = append(merged, byText...)

	result := u.filterRankTruncate(ctx, query, dedupe(merged))
	skipped := make([]errs.PartialFailure, 0, len(gathered.Skipped)+len(result.Skipped))
	skipped = append(skipped, gathered.Skipped...)
	result.Skipped = append(skipped, result.Skipped...)
	return result, nil
}

// gatherChannelVideos resolves channels for keyword and lists each one's recent
// videos concurrently, reassembling them in resolved channel order.
// Channel resolution failures abort; per-channel failures are absorbed.
func (u *SearchUseCase) gatherChannelVideos(ctx context.Context, keyword string) (model.Outcome[[]model.VideoRecord], error) {
	channelIDs, err := u.catalog.FindChannelsByName(ctx, keyword, channelLimit)
	if err != nil {
		return model.Outcome[[]model.VideoRecord]{}, err
	}
	if len(channelIDs) == 0 {
		return model.Outcome[[]model.VideoRecord]{Value: []model.VideoRecord{}}, nil
	}

	limit := perChannelLimit(len(channelIDs))
	outcomes := make([]model.Outcome[[]model.VideoRecord], len(channelIDs))

	g := new(errgroup.Group)
	g.SetLimit(u.concurrency)
	for i, channelID := range channelIDs {
		i, channelID := i, channelID
		g.Go(func() error {
			outcomes[i] = u.catalog.ListRecentVideosForChannel(ctx, channelID, limit)
			return nil
		})
	}
	_ = g.Wait() // listing never returns an error

	var gathered model.Outcome[[]model.VideoRecord]
	gathered.Value = make([]model.VideoRecord, 0, int(limit)*len(channelIDs))
	for _, outcome := range outcomes {
		gathered.Value = append(gathered.Value, outcome.Value...)
		gathered.Skipped = append(gathered.Skipped, outcome.Skipped...)
	}
	// ceil(50/n) per channel can overshoot the shared budget by a few videos.
	gathered.Value = truncate(gathered.Value, channelVideoBudget)
	return gathered, nil
}

// filterRankTruncate applies the view and subscriber filters, sorts by view
// count descending and truncates to the requested size.
func (u *SearchUseCase) filterRankTruncate(ctx context.Context, query model.SearchQuery, videos []model.VideoRecord) *model.SearchResult {
	result := &model.SearchResult{}

	videos = filterMinViews(videos, query.MinViews)
	if query.HasSubscriberBound() && len(videos) > 0 {
		stats := u.catalog.FetchChannelSubscriberCounts(ctx, distinctChannelIDs(videos))
		result.Skipped = stats.Skipped
		videos = filterSubscribers(videos, stats.Value, query.MinSubscribers, query.MaxSubscribers)
	}

	rankByViews(videos)
	result.Videos = truncate(videos, query.MaxResults)
	return result
}

func (u *SearchUseCase) fromCache(ctx context.Context, query model.SearchQuery) ([]model.VideoRecord, bool) {
	if u.cache == nil || u.cacheTTL <= 0 {
		return nil, false
	}
	videos, ok, err := u.cache.Get(ctx, query)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Search cache lookup failed")
		return nil, false
	}
	return videos, ok
}

func (u *SearchUseCase) toCache(ctx context.Context, query model.SearchQuery, videos []model.VideoRecord) {
	if u.cache == nil || u.cacheTTL <= 0 {
		return
	}
	if err := u.cache.Set(ctx, query, videos, u.cacheTTL); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Search cache store failed")
	}
}

// perChannelLimit returns min(20, ceil(50 / channelCount))
func perChannelLimit(channelCount int) int64 {
	limit := (channelVideoBudget + channelCount - 1) / channelCount
	if limit > perChannelCap {
		limit = perChannelCap
	}
	return int64(limit)
}

// dedupe keeps one record per video ID. The last record seen for an ID wins
// but takes the position of the first occurrence.
func dedupe(videos []model.VideoRecord) []model.VideoRecord {
	index := make(map[string]int, len(videos))
	out := make([]model.VideoRecord, 0, len(videos))
	for _, video := range videos {
		if i, seen := index[video.ID]; seen {
			out[i] = video
			continue
		}
		index[video.ID] = len(out)
		out = append(out, video)
	}
	return out
}

func filterMinViews(videos []model.VideoRecord, minViews *int64) []model.VideoRecord {
	if minViews == nil {
		return videos
	}
	out := make([]model.VideoRecord, 0, len(videos))
	for _, video := range videos {
		if video.ViewCount >= *minViews {
			out = append(out, video)
		}
	}
	return out
}

// filterSubscribers keeps videos whose channel lies within the inclusive bounds.
// Unknown channels count as 0 subscribers.
func filterSubscribers(videos []model.VideoRecord, stats model.ChannelStats, minSubs, maxSubs *int64) []model.VideoRecord {
	out := make([]model.VideoRecord, 0, len(videos))
	for _, video := range videos {
		subscribers := stats.SubscribersOf(video.ChannelID)
		if minSubs != nil && subscribers < *minSubs {
			continue
		}
		if maxSubs != nil && subscribers > *maxSubs {
			continue
		}
		out = append(out, video)
	}
	return out
}

func distinctChannelIDs(videos []model.VideoRecord) []string {
	seen := make(map[string]struct{}, len(videos))
	ids := make([]string, 0, len(videos))
	for _, video := range videos {
		if video.ChannelID == "" {
			continue
		}
		if _, ok := seen[video.ChannelID]; ok {
			continue
		}
		seen[video.ChannelID] = struct{}{}
		ids = append(ids, video.ChannelID)
	}
	return ids
}

func rankByViews(videos []model.VideoRecord) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].ViewCount > videos[j].ViewCount
	})
}

func truncate(videos []model.VideoRecord, n int) []model.VideoRecord {
	if len(videos) > n {
		return videos[:n]
	}
	return videos
}
