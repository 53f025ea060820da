package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"newsletter_client/internal/config"
	"newsletter_client/internal/domain"
	"newsletter_client/internal/eventloop"
	"newsletter_client/internal/service/mocks"
)

type TopicCatalogLoaderTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source *mocks.MockTopicSource
	loop   *eventloop.Loop
	loader *TopicCatalogLoader
}

func (s *TopicCatalogLoaderTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.source = mocks.NewMockTopicSource(s.ctrl)

	logger := newTestLogger()
	s.loop = eventloop.New(16, logger)
	s.loader = NewTopicCatalogLoader(s.loop, s.source, config.CatalogConfig{
		Fallback: []domain.Topic{{ID: "world", Label: "World"}},
	}, logger)
}

func (s *TopicCatalogLoaderTestSuite) TearDownTest() {
	s.loader.Close()
	s.loop.Stop()
	s.ctrl.Finish()
}

func TestTopicCatalogLoaderTestSuite(t *testing.T) {
	suite.Run(t, new(TopicCatalogLoaderTestSuite))
}

func (s *TopicCatalogLoaderTestSuite) TestLoad_Success() {
	s.source.EXPECT().
		FetchTopics(gomock.Any()).
		Return([]domain.Topic{
			{ID: "tech", Label: "Tech", Description: "Technology"},
			{ID: "ai", Label: "AI"},
		}, nil).
		Times(1)

	var got *Catalog
	s.loader.OnLoaded(func(c *Catalog) { got = c })

	s.True(s.loader.State().Loading)
	s.loader.Load()
	s.loader.Load()
	runLoop(s.T(), s.loop, 1)

	state := s.loader.State()
	s.False(state.Loading)
	s.False(state.FromFallback)
	s.Require().NotNil(got)
	s.Same(state.Catalog, got)
	s.Equal([]string{"tech", "ai"}, topicIDs(got.Topics()))

	tech, ok := got.Lookup("tech")
	s.True(ok)
	s.Equal("Technology", tech.Description)
}

func (s *TopicCatalogLoaderTestSuite) TestLoad_FailureUsesFallback() {
	s.source.EXPECT().
		FetchTopics(gomock.Any()).
		Return(nil, &domain.TransientFetchError{Op: "topics", Status: 503})

	s.loader.Load()
	runLoop(s.T(), s.loop, 1)

	state := s.loader.State()
	s.False(state.Loading)
	s.True(state.FromFallback)
	s.Equal([]string{"world"}, topicIDs(state.Catalog.Topics()))
}

func (s *TopicCatalogLoaderTestSuite) TestLoad_EmptyUsesDefaultFallback() {
	logger := newTestLogger()
	loader := NewTopicCatalogLoader(s.loop, s.source, config.CatalogConfig{}, logger)
	defer loader.Close()

	s.source.EXPECT().FetchTopics(gomock.Any()).Return([]domain.Topic{}, nil)

	loader.Load()
	runLoop(s.T(), s.loop, 1)

	state := loader.State()
	s.True(state.FromFallback)
	s.Equal([]string{"tech", "ai"}, topicIDs(state.Catalog.Topics()))
}

func (s *TopicCatalogLoaderTestSuite) TestOnLoaded_AfterLoadCallsImmediately() {
	s.source.EXPECT().FetchTopics(gomock.Any()).Return(nil, errors.New("dial tcp: refused"))

	s.loader.Load()
	runLoop(s.T(), s.loop, 1)

	called := false
	s.loader.OnLoaded(func(c *Catalog) {
		called = true
		s.Equal(1, c.Len())
	})
	s.True(called)
}

func (s *TopicCatalogLoaderTestSuite) TestClose_DropsPendingLoad() {
	s.source.EXPECT().
		FetchTopics(gomock.Any()).
		DoAndReturn(func(ctx context.Context) ([]domain.Topic, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	called := false
	s.loader.OnLoaded(func(*Catalog) { called = true })

	s.loader.Load()
	s.loader.Close()
	runLoop(s.T(), s.loop, 1)

	s.False(called)
	s.True(s.loader.State().Loading)
}

func TestNewCatalog(t *testing.T) {
	c := NewCatalog([]domain.Topic{
		{ID: "tech", Label: "Tech"},
		{ID: ""},
		{ID: "tech", Label: "Duplicate"},
		{ID: "science"},
	})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"tech", "science"}, topicIDs(c.Topics()))
	assert.Equal(t, "Tech", c.Label("tech"))
	assert.Equal(t, "science", c.Label("science"))
	assert.Equal(t, "cooking", c.Label("cooking"))

	var empty *Catalog
	assert.Equal(t, 0, empty.Len())
	assert.Nil(t, empty.Topics())
	_, ok := empty.Lookup("tech")
	assert.False(t, ok)
}

func topicIDs(topics []domain.Topic) []string {
	ids := make([]string, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}
	return ids
}
