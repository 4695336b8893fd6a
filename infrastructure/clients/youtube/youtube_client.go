package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elliekim312/youtube-dashboard/domain/errs"
	"github.com/elliekim312/youtube-dashboard/domain/model"
	"github.com/elliekim312/youtube-dashboard/infrastructure/logger"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	// maxIDsPerCall is the YouTube Data API cap for id lists and maxResults.
	maxIDsPerCall = 50

	defaultTimeout = 10 * time.Second

	opFindChannels       = "findChannelsByName"
	opListChannelVideos  = "listRecentVideosForChannel"
	opSearchVideos       = "searchVideosByText"
	opFetchSubscribers   = "fetchChannelSubscriberCounts"
	opHydrateVideos      = "videos.list"
	opChannelsStatistics = "channels.list"
)

// Config represents YouTube API client configuration
type Config struct {
	APIKey string
	// BaseURL overrides the API endpoint, e.g. for a proxy or a test server.
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	// RetryWait overrides the initial backoff between retries.
	RetryWait time.Duration
	// HTTPClient replaces the default transport. The API key is not applied when set.
	HTTPClient *http.Client
}

// Client is a read-only YouTube Data API catalog client.
// It is safe for concurrent use.
type Client struct {
	service *youtube.Service
	timeout time.Duration
	limiter *rate.Limiter
	retry   RetryConfig
}

// NewClient creates a YouTube catalog client. A missing API key does not fail
// construction; every call will then be rejected by the API.
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	opts := make([]option.ClientOption, 0, 2)
	switch {
	case config.HTTPClient != nil:
		opts = append(opts, option.WithHTTPClient(config.HTTPClient))
	case config.APIKey != "":
		opts = append(opts, option.WithAPIKey(config.APIKey))
	default:
		opts = append(opts, option.WithoutAuthentication())
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(normalizeBaseURL(config.BaseURL)))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst < 1 {
		burst = 1
	}

	retry := defaultRetryConfig
	retry.MaxRetries = config.MaxRetries
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	if config.RetryWait > 0 {
		retry.InitialWait = config.RetryWait
	}

	return &Client{
		service: service,
		timeout: timeout,
		limiter: rate.NewLimiter(limit, burst),
		retry:   retry,
	}, nil
}

func normalizeBaseURL(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}

// FindChannelsByName returns up to limit channel IDs whose name matches text
func (c *Client) FindChannelsByName(ctx context.Context, text string, limit int64) ([]string, error) {
	response, err := call(ctx, c, opFindChannels, func(ctx context.Context) (*youtube.SearchListResponse, error) {
		return c.service.Search.List([]string{"id"}).
			Q(text).
			Type("channel").
			MaxResults(clampLimit(limit)).
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, err
	}

	channelIDs := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item == nil || item.Id == nil || item.Id.ChannelId == "" {
			return nil, &errs.CatalogError{Op: opFindChannels, Err: fmt.Errorf("%w: channel result without id", errs.ErrMalformedResponse)}
		}
		channelIDs = append(channelIDs, item.Id.ChannelId)
	}
	return channelIDs, nil
}

// ListRecentVideosForChannel returns up to limit of the channel's newest videos with statistics.
// Any failure yields an empty list and a skipped entry for the channel.
func (c *Client) ListRecentVideosForChannel(ctx context.Context, channelID string, limit int64) model.Outcome[[]model.VideoRecord] {
	videos, err := c.searchAndHydrate(ctx, opListChannelVideos, func() *youtube.SearchListCall {
		return c.service.Search.List([]string{"id"}).
			ChannelId(channelID).
			Type("video").
			Order("date").
			MaxResults(clampLimit(limit))
	})
	if err != nil {
		logger.GetLogger().WithField("channelId", channelID).WithField("error", err).Warn("Skipping channel after failed video listing")
		return model.Outcome[[]model.VideoRecord]{
			Value:   []model.VideoRecord{},
			Skipped: []errs.PartialFailure{errs.NewPartialFailure(opListChannelVideos, channelID, err)},
		}
	}
	return model.Outcome[[]model.VideoRecord]{Value: videos}
}

// SearchVideosByText returns up to limit videos matching text, most viewed first
func (c *Client) SearchVideosByText(ctx context.Context, text string, limit int64) ([]model.VideoRecord, error) {
	return c.searchAndHydrate(ctx, opSearchVideos, func() *youtube.SearchListCall {
		return c.service.Search.List([]string{"id"}).
			Q(text).
			Type("video").
			Order("viewCount").
			MaxResults(clampLimit(limit))
	})
}

// FetchChannelSubscriberCounts resolves subscriber counts in batches of at most 50 IDs.
// Failed batches are skipped; their channels stay absent from the stats.
func (c *Client) FetchChannelSubscriberCounts(ctx context.Context, channelIDs []string) model.Outcome[model.ChannelStats] {
	stats := make(model.ChannelStats, len(channelIDs))
	var skipped []errs.PartialFailure

	for i, batch := range chunk(channelIDs, maxIDsPerCall) {
		response, err := call(ctx, c, opChannelsStatistics, func(ctx context.Context) (*youtube.ChannelListResponse, error) {
			return c.service.Channels.List([]string{"statistics"}).
				Id(strings.Join(batch, ",")).
				MaxResults(maxIDsPerCall).
				Context(ctx).
				Do()
		})
		if err != nil {
			item := fmt.Sprintf("batch %d (%d channels)", i+1, len(batch))
			logger.GetLogger().WithField("batch", i+1).WithField("size", len(batch)).WithField("error", err).Warn("Skipping subscriber count batch")
			skipped = append(skipped, errs.NewPartialFailure(opFetchSubscribers, item, err))
			continue
		}
		for _, channel := range response.Items {
			if channel == nil || channel.Id == "" {
				continue
			}
			var subscribers int64
			if channel.Statistics != nil {
				subscribers = int64(channel.Statistics.SubscriberCount)
			}
			stats[channel.Id] = subscribers
		}
	}

	return model.Outcome[model.ChannelStats]{Value: stats, Skipped: skipped}
}

// searchAndHydrate runs a search.list call for video IDs, then loads snippet and
// statistics for them, keeping the search order.
func (c *Client) searchAndHydrate(ctx context.Context, op string, build func() *youtube.SearchListCall) ([]model.VideoRecord, error) {
	response, err := call(ctx, c, op, func(ctx context.Context) (*youtube.SearchListResponse, error) {
		return build().Context(ctx).Do()
	})
	if err != nil {
		return nil, err
	}

	videoIDs := make([]string, 0, len(response.Items))
	seen := make(map[string]struct{}, len(response.Items))
	for _, item := range response.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			return nil, &errs.CatalogError{Op: op, Err: fmt.Errorf("%w: video result without id", errs.ErrMalformedResponse)}
		}
		if _, dup := seen[item.Id.VideoId]; dup {
			continue
		}
		seen[item.Id.VideoId] = struct{}{}
		videoIDs = append(videoIDs, item.Id.VideoId)
	}

	return c.hydrateVideos(ctx, op, videoIDs)
}

func (c *Client) hydrateVideos(ctx context.Context, op string, videoIDs []string) ([]model.VideoRecord, error) {
	if len(videoIDs) == 0 {
		return []model.VideoRecord{}, nil
	}

	byID := make(map[string]model.VideoRecord, len(videoIDs))
	for _, batch := range chunk(videoIDs, maxIDsPerCall) {
		response, err := call(ctx, c, opHydrateVideos, func(ctx context.Context) (*youtube.VideoListResponse, error) {
			return c.service.Videos.List([]string{"snippet", "statistics"}).
				Id(strings.Join(batch, ",")).
				Context(ctx).
				Do()
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for _, video := range response.Items {
			record, err := toVideoRecord(video)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, &errs.CatalogError{Op: opHydrateVideos, Err: err})
			}
			byID[record.ID] = record
		}
	}

	// Videos removed between search and hydration are dropped.
	videos := make([]model.VideoRecord, 0, len(videoIDs))
	for _, id := range videoIDs {
		if record, ok := byID[id]; ok {
			videos = append(videos, record)
		}
	}
	return videos, nil
}

// call waits for the rate limiter, bounds fn with the per-call timeout,
// classifies its error and retries transient failures.
func call[T any](ctx context.Context, c *Client, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	return retryDo(ctx, c.retry, func() (T, error) {
		var zero T
		if err := c.limiter.Wait(ctx); err != nil {
			return zero, &errs.CatalogError{Op: op, Err: err}
		}
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		result, err := fn(callCtx)
		if err != nil {
			return zero, classifyError(op, err)
		}
		return result, nil
	})
}

// classifyError maps API failures onto the catalog error taxonomy.
// 403 and 429 are treated as quota exhaustion.
func classifyError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusForbidden, http.StatusTooManyRequests:
			return &errs.QuotaError{Status: apiErr.Code, Reason: firstReason(apiErr), Op: op}
		}
		return &errs.CatalogError{Status: apiErr.Code, Op: op, Err: err}
	}
	return &errs.CatalogError{Op: op, Err: err}
}

func firstReason(apiErr *googleapi.Error) string {
	for _, item := range apiErr.Errors {
		if item.Reason != "" {
			return item.Reason
		}
	}
	return ""
}

// toVideoRecord validates an API video and converts it to the domain record
func toVideoRecord(video *youtube.Video) (model.VideoRecord, error) {
	if video == nil || video.Id == "" {
		return model.VideoRecord{}, fmt.Errorf("%w: video without id", errs.ErrMalformedResponse)
	}
	if video.Snippet == nil {
		return model.VideoRecord{}, fmt.Errorf("%w: video %s without snippet", errs.ErrMalformedResponse, video.Id)
	}
	publishedAt, err := time.Parse(time.RFC3339, video.Snippet.PublishedAt)
	if err != nil {
		return model.VideoRecord{}, fmt.Errorf("%w: video %s publishedAt %q", errs.ErrMalformedResponse, video.Id, video.Snippet.PublishedAt)
	}

	record := model.VideoRecord{
		ID:           video.Id,
		Title:        video.Snippet.Title,
		ChannelName:  video.Snippet.ChannelTitle,
		ChannelID:    video.Snippet.ChannelId,
		PublishedAt:  publishedAt,
		ThumbnailURL: thumbnailURL(video.Snippet.Thumbnails),
		VideoURL:     model.WatchURL(video.Id),
	}
	if video.Statistics != nil {
		record.ViewCount = int64(video.Statistics.ViewCount)
		record.LikeCount = int64(video.Statistics.LikeCount)
		record.CommentCount = int64(video.Statistics.CommentCount)
	}
	return record, nil
}

func thumbnailURL(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}
	if thumbnails.Medium != nil && thumbnails.Medium.Url != "" {
		return thumbnails.Medium.Url
	}
	if thumbnails.Default != nil {
		return thumbnails.Default.Url
	}
	return ""
}

func clampLimit(limit int64) int64 {
	if limit < 1 {
		return 1
	}
	if limit > maxIDsPerCall {
		return maxIDsPerCall
	}
	return limit
}

func chunk(ids []string, size int) [][]string {
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
