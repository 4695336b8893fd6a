package model_test

import (
	"testing"

	"github.com/elliekim312/youtube-dashboard/domain/errs"
	"github.com/elliekim312/youtube-dashboard/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSearchType(t *testing.T) {
	cases := map[string]model.SearchType{
		"":          model.SearchTypeKeywords,
		"keywords":  model.SearchTypeKeywords,
		"channel":   model.SearchTypeChannel,
		" ALL ":     model.SearchTypeAll,
		"Channel":   model.SearchTypeChannel,
	}
	for raw, want := range cases {
		got, err := model.ParseSearchType(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := model.ParseSearchType("playlist")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, model.MsgInvalidSearchType, err.Error())
}

func TestSearchQueryValidate(t *testing.T) {
	valid := model.SearchQuery{Keyword: "cats", SearchType: model.SearchTypeKeywords, MaxResults: 5}
	require.NoError(t, valid.Validate())

	t.Run("missing keyword", func(t *testing.T) {
		q := valid
		q.Keyword = "   "
		err := q.Validate()
		require.Error(t, err)
		assert.Equal(t, model.MsgMissingKeyword, err.Error())
	})

	t.Run("bad search type", func(t *testing.T) {
		q := valid
		q.SearchType = "everything"
		assert.Equal(t, model.MsgInvalidSearchType, q.Validate().Error())
	})

	t.Run("max results out of range", func(t *testing.T) {
		q := valid
		q.MaxResults = 0
		assert.Equal(t, model.MsgInvalidMaxResults, q.Validate().Error())
		q.MaxResults = model.MaxResultsLimit + 1
		assert.Equal(t, model.MsgInvalidMaxResults, q.Validate().Error())
		q.MaxResults = model.MaxResultsLimit
		assert.NoError(t, q.Validate())
	})

	t.Run("negative bound", func(t *testing.T) {
		q := valid
		q.MinViews = model.Int64(-1)
		assert.Equal(t, model.MsgNegativeBoundValue, q.Validate().Error())
	})

	t.Run("inverted subscriber bounds are accepted", func(t *testing.T) {
		q := valid
		q.MinSubscribers = model.Int64(10)
		q.MaxSubscribers = model.Int64(5)
		assert.NoError(t, q.Validate())
	})
}

func TestChannelStatsDefaultsToZero(t *testing.T) {
	stats := model.ChannelStats{"UC1": 42}
	assert.Equal(t, int64(42), stats.SubscribersOf("UC1"))
	assert.Equal(t, int64(0), stats.SubscribersOf("UC2"))

	var empty model.ChannelStats
	assert.Equal(t, int64(0), empty.SubscribersOf("UC1"))
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123", model.WatchURL("abc123"))
}
