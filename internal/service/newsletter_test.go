package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"newsletter_client/internal/domain"
	"newsletter_client/internal/eventloop"
	"newsletter_client/internal/service/mocks"
)

type NewsletterDetailLoaderTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	api  *mocks.MockNewsletterAPI
	loop *eventloop.Loop
}

func (s *NewsletterDetailLoaderTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.api = mocks.NewMockNewsletterAPI(s.ctrl)
	s.loop = eventloop.New(16, newTestLogger())
}

func (s *NewsletterDetailLoaderTestSuite) TearDownTest() {
	s.loop.Stop()
	s.ctrl.Finish()
}

func TestNewsletterDetailLoaderTestSuite(t *testing.T) {
	suite.Run(t, new(NewsletterDetailLoaderTestSuite))
}

func (s *NewsletterDetailLoaderTestSuite) newLoader(id string) *NewsletterDetailLoader {
	loader := NewNewsletterDetailLoader(s.loop, s.api, id, newTestLogger())
	s.T().Cleanup(loader.Close)
	return loader
}

func (s *NewsletterDetailLoaderTestSuite) TestStart_Loaded() {
	newsletter := &domain.Newsletter{
		NewsletterSummary: domain.NewsletterSummary{
			ID:              "42",
			Title:           "Weekly Digest",
			SentAt:          time.Date(2024, 5, 6, 8, 30, 0, 0, time.UTC),
			SubscriberCount: 1200,
			Topics:          []string{"us_politics", "tech"},
		},
		ContentHTML: "<h1>Weekly Digest</h1><script>alert(1)</script>",
	}
	s.api.EXPECT().FetchNewsletter(gomock.Any(), "42").Return(newsletter, nil).Times(1)

	loader := s.newLoader("42")
	s.Equal(DetailLoading, loader.State().Status)

	loader.Start()
	loader.Start()
	runLoop(s.T(), s.loop, 1)

	state := loader.State()
	s.Equal(DetailLoaded, state.Status)
	s.Same(newsletter, state.Newsletter)
	s.Equal("<h1>Weekly Digest</h1><script>alert(1)</script>", state.Newsletter.ContentHTML)
	s.Equal("Us Politics + Tech", state.TopicLabels())
	s.Empty(state.Message)
	s.Empty(state.BackLink)
}

func (s *NewsletterDetailLoaderTestSuite) TestStart_NotFound() {
	s.api.EXPECT().
		FetchNewsletter(gomock.Any(), "999").
		Return(nil, &domain.NotFoundError{Resource: "newsletter", Key: "999"})

	loader := s.newLoader("999")
	loader.Start()
	runLoop(s.T(), s.loop, 1)

	state := loader.State()
	s.Equal(DetailNotFound, state.Status)
	s.Equal(MsgNewsletterNotFound, state.Message)
	s.Equal(HomePath, state.BackLink)
	s.Nil(state.Newsletter)
	s.Empty(state.TopicLabels())
}

func (s *NewsletterDetailLoaderTestSuite) TestStart_FailureIsNotFound() {
	s.api.EXPECT().FetchNewsletter(gomock.Any(), "7").Return(nil, errors.New("EOF"))

	loader := s.newLoader("7")
	loader.Start()
	runLoop(s.T(), s.loop, 1)

	s.Equal(DetailNotFound, loader.State().Status)
}

func (s *NewsletterDetailLoaderTestSuite) TestStart_EmptyIDMakesNoRequest() {
	loader := s.newLoader("")
	loader.Start()

	s.Equal(DetailNotFound, loader.State().Status)
	s.Equal(0, s.loop.RunPending())
}

func (s *NewsletterDetailLoaderTestSuite) TestClose_DropsPendingFetch() {
	s.api.EXPECT().
		FetchNewsletter(gomock.Any(), "42").
		DoAndReturn(func(ctx context.Context, _ string) (*domain.Newsletter, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	loader := s.newLoader("42")
	loader.Start()
	loader.Close()
	runLoop(s.T(), s.loop, 1)

	s.Equal(DetailLoading, loader.State().Status)
}
