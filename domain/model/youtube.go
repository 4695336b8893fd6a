package model

import (
	"fmt"
	"time"

	"github.com/elliekim312/youtube-dashboard/domain/errs"
)

const watchURLFormat = "https://www.youtube.com/watch?v=%s"

// VideoRecord represents a YouTube video as shown in the results table
type VideoRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelName  string    `json:"channelName"`
	ChannelID    string    `json:"channelId"`
	PublishedAt  time.Time `json:"publishedAt"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	VideoURL     string    `json:"videoUrl"`
	ViewCount    int64     `json:"viewCount"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
}

// WatchURL returns the canonical watch URL for a video ID
func WatchURL(videoID string) string {
	return fmt.Sprintf(watchURLFormat, videoID)
}

// ChannelStats maps a channel ID to its subscriber count
type ChannelStats map[string]int64

// SubscribersOf returns the subscriber count for a channel, 0 when unknown
func (s ChannelStats) SubscribersOf(channelID string) int64 {
	return s[channelID]
}

// Outcome carries the usable result of an operation together with the
// sub-operations that failed and were skipped while producing it.
type Outcome[T any] struct {
	Value   T
	Skipped []errs.PartialFailure
}

// Partial reports whether any sub-operation was skipped
func (o Outcome[T]) Partial() bool {
	return len(o.Skipped) > 0
}
