package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kidz-story-api/internal/config"
	"kidz-story-api/internal/domain/entity"
	"kidz-story-api/internal/domain/repository"
	"kidz-story-api/internal/mocks"
	apperrors "kidz-story-api/pkg/errors"
)

type fixture struct {
	users   *mocks.MockUserRepository
	stories *mocks.MockStoryRepository
	stats   *mocks.MockStatsRepository
	tx      *mocks.InlineTransactor
	events  *mocks.MockEventPublisher
	feed    *mocks.MockFeedInvalidator
	svc     *Service
}

var fixedNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		users:   mocks.NewMockUserRepository(t),
		stories: mocks.NewMockStoryRepository(t),
		stats:   mocks.NewMockStatsRepository(t),
		tx:      &mocks.InlineTransactor{},
		events:  &mocks.MockEventPublisher{},
		feed:    &mocks.MockFeedInvalidator{},
	}
	f.svc = NewService(f.users, f.stories, f.stats, f.tx, f.events, f.feed, testConfig())
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "groq"
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"groq": {APIKey: "gsk_abcdefgh1234", Model: "llama-3.3-70b-versatile"},
	}
	cfg.Image.APIKey = "sk-stability-9876"
	cfg.Security.JWT.Secret = "secret"
	cfg.Storage.R2.Bucket = "kidz"
	cfg.Features.StoryLimit = config.StoryLimitFeature{Enabled: true, MaxPerUser: 3}
	return cfg
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	start := fixedNow.AddDate(0, 0, -7)
	prevStart := start.AddDate(0, 0, -7)

	f.stats.On("CountUsers", mock.Anything, repository.TimeRange{}).Return(int64(3), nil)
	f.stats.On("CountStories", mock.Anything, repository.TimeRange{}).Return(int64(10), nil)
	f.stats.On("CountUsers", mock.Anything, repository.TimeRange{From: start}).Return(int64(2), nil)
	f.stats.On("CountStories", mock.Anything, repository.TimeRange{From: start}).Return(int64(6), nil)
	f.stats.On("CountUsers", mock.Anything, repository.TimeRange{From: prevStart, To: start}).Return(int64(1), nil)
	f.stats.On("CountStories", mock.Anything, repository.TimeRange{From: prevStart, To: start}).Return(int64(4), nil)
	f.stats.On("GroupStories", mock.Anything, repository.GroupByLanguage).
		Return([]entity.CountBucket{{Key: "English", Count: 7}, {Key: "Urdu", Count: 3}}, nil)
	f.stats.On("GroupStories", mock.Anything, mock.Anything).Return(nil, nil)
	f.stats.On("DailyStories", mock.Anything, start).Return([]entity.DailyCount{{Date: "2025-06-29", Stories: 6}}, nil)
	f.stats.On("TopUsers", mock.Anything, TopUsersLimit).Return(nil, nil)

	out, err := f.svc.Stats(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 7, out.Period)
	assert.Equal(t, int64(3), out.Overview.TotalUsers)
	assert.Equal(t, int64(6), out.Overview.RecentStories)
	assert.Equal(t, 3.33, out.Overview.AvgStoriesPerUser)
	assert.Equal(t, 100.0, out.Overview.UserGrowthRate)
	assert.Equal(t, 50.0, out.Overview.StoryGrowthRate)
	assert.Len(t, out.Charts.StoriesByLanguage, 2)
	assert.NotNil(t, out.Charts.StoriesByMood)
	assert.NotNil(t, out.TopUsers)
	assert.Len(t, out.Charts.DailyStats, 1)
}

func TestStats_DefaultPeriodAndError(t *testing.T) {
	f := newFixture(t)
	f.stats.On("CountUsers", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))
	f.stats.On("CountStories", mock.Anything, mock.Anything).Return(int64(0), nil).Maybe()
	f.stats.On("GroupStories", mock.Anything, mock.Anything).Return(nil, nil).Maybe()
	f.stats.On("DailyStories", mock.Anything, fixedNow.AddDate(0, 0, -DefaultStatsPeriod)).Return(nil, nil).Maybe()
	f.stats.On("TopUsers", mock.Anything, mock.Anything).Return(nil, nil).Maybe()

	_, err := f.svc.Stats(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch admin statistics", apperrors.AsAppError(err).Message)
}

func TestGrowthRate(t *testing.T) {
	assert.Equal(t, 0.0, growthRate(5, 0))
	assert.Equal(t, -50.0, growthRate(1, 2))
	assert.Equal(t, 33.33, growthRate(4, 3))
}

func TestListUsers_Defaults(t *testing.T) {
	f := newFixture(t)
	want := repository.NewPagedResult([]*entity.UserSummary{}, 0, repository.NewPagination(1, 10))
	f.users.On("ListWithStats", mock.Anything,
		repository.UserFilter{Search: "ali"},
		repository.Pagination{Page: 1, PageSize: 10},
		repository.Sort{Field: "createdAt", Order: repository.SortOrderDesc},
	).Return(want, nil).Once()

	got, err := f.svc.ListUsers(context.Background(), ListQuery{Search: " ali "})
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestListStories_Filters(t *testing.T) {
	f := newFixture(t)
	want := repository.NewPagedResult([]*entity.StoryListing{}, 0, repository.NewPagination(2, 5))
	f.stories.On("Search", mock.Anything,
		repository.StoryFilter{Search: "fox", Language: "Urdu", AgeGroup: "3-5"},
		repository.Pagination{Page: 2, PageSize: 5},
		repository.Sort{Field: "title", Order: repository.SortOrderAsc},
	).Return(want, nil).Once()

	_, err := f.svc.ListStories(context.Background(), ListQuery{
		Page: 2, Limit: 5, Search: "fox", Language: "Urdu", AgeGroup: "3-5", SortBy: "title", SortOrder: "asc",
	})
	require.NoError(t, err)
	f.stories.AssertExpectations(t)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	f.stories.On("DeleteByUser", mock.Anything, "u1").Return(int64(2), nil).Once()
	f.users.On("Delete", mock.Anything, "u1").Return(true, nil).Once()
	f.feed.On("InvalidateFeed", mock.Anything).Return(nil).Once()
	f.events.On("Publish", mock.Anything, mock.MatchedBy(func(e *entity.DomainEvent) bool {
		return e.Type == entity.EventUserDeleted && e.AggregateID == "u1"
	})).Return(nil).Once()

	require.NoError(t, f.svc.DeleteUser(context.Background(), "u1"))
	assert.Equal(t, 1, f.tx.Calls)
	mock.AssertExpectationsForObjects(t, f.stories, f.users, f.feed, f.events)
}

func TestDeleteUser_NotFound(t *testing.T) {
	f := newFixture(t)
	f.stories.On("DeleteByUser", mock.Anything, "ghost").Return(int64(0), nil).Once()
	f.users.On("Delete", mock.Anything, "ghost").Return(false, nil).Once()

	err := f.svc.DeleteUser(context.Background(), "ghost")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUserNotFound))
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestDeleteUser_MissingID(t *testing.T) {
	f := newFixture(t)
	err := f.svc.DeleteUser(context.Background(), "")
	assert.Equal(t, 400, apperrors.AsAppError(err).HTTPStatus)
	assert.Equal(t, "User ID is required", apperrors.AsAppError(err).Message)
	assert.Zero(t, f.tx.Calls)
}

func TestDeleteStory(t *testing.T) {
	f := newFixture(t)
	f.stories.On("Delete", mock.Anything, "s1").Return(true, nil).Once()
	f.stories.On("Delete", mock.Anything, "s2").Return(false, nil).Once()
	f.feed.On("InvalidateFeed", mock.Anything).Return(errors.New("redis down")).Once()
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	require.NoError(t, f.svc.DeleteStory(context.Background(), "s1"))

	err := f.svc.DeleteStory(context.Background(), "s2")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeStoryNotFound))

	err = f.svc.DeleteStory(context.Background(), " ")
	assert.Equal(t, "Story ID is required", apperrors.AsAppError(err).Message)
}

func TestSettings_Masked(t *testing.T) {
	f := newFixture(t)
	s := f.svc.Settings()

	assert.Equal(t, "groq", s.LLMProvider)
	assert.Equal(t, "***1234", s.GroqAPIKey)
	assert.Equal(t, "***9876", s.StabilityAPIKey)
	assert.Equal(t, "Set", s.JWTSecret)
	assert.Equal(t, "Not set", s.Database)
	assert.Equal(t, "Not set", s.R2AccessKeyID)
	assert.Equal(t, "kidz", s.R2Bucket)
	assert.Equal(t, 3, s.StoryLimit)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "Not set", maskKey(""))
	assert.Equal(t, "***", maskKey("abcd"))
	assert.Equal(t, "***bcde", maskKey("abcde"))
}
