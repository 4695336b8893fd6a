package repository

import (
	"context"

	"github.com/elliekim312/youtube-dashboard/domain/model"
)

// ICatalog defines the read-only YouTube catalog operations the search aggregation depends on
type ICatalog interface {
	// FindChannelsByName returns up to limit channel IDs matching text.
	FindChannelsByName(ctx context.Context, text string, limit int64) ([]string, error)
	// ListRecentVideosForChannel returns up to limit of the channel's most recent videos.
	// Failures are absorbed into the outcome and never returned as an error.
	ListRecentVideosForChannel(ctx context.Context, channelID string, limit int64) model.Outcome[[]model.VideoRecord]
	// SearchVideosByText returns up to limit videos matching text, most viewed first.
	SearchVideosByText(ctx context.Context, text string, limit int64) ([]model.VideoRecord, error)
	// FetchChannelSubscriberCounts resolves subscriber counts in batches; failed batches are skipped.
	FetchChannelSubscriberCounts(ctx context.Context, channelIDs []string) model.Outcome[model.ChannelStats]
}
