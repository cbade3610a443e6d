package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fsdevblog/goblin-market/internal/logger"
	"github.com/fsdevblog/goblin-market/internal/repository/redisrepo"
	"github.com/fsdevblog/goblin-market/internal/service"
	"github.com/fsdevblog/goblin-market/internal/transport/api/middlewares"
	"github.com/fsdevblog/goblin-market/internal/transport/api/mocks"
	"github.com/fsdevblog/goblin-market/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type RouterTestSuite struct {
	suite.Suite
	router            *gin.Engine
	store             *redisrepo.IdempotencyRepository
	mockMarketService *mocks.MockMarketServicer
	mockPinger        *mocks.MockPinger
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *RouterTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockMarketService = mocks.NewMockMarketServicer(mockCtrl)
	s.mockPinger = mocks.NewMockPinger(mockCtrl)

	mr := miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s.T().Cleanup(func() { _ = client.Close() })
	s.store = redisrepo.NewIdempotencyRepository(client)

	var err error
	s.router, err = New(RouterArgs{
		Logger:           logger.New(io.Discard),
		LedgerService:    mocks.NewMockLedgerServicer(mockCtrl),
		MarketService:    s.mockMarketService,
		Pinger:           s.mockPinger,
		IdempotencyStore: s.store,
		IdempotencyTTL:   time.Hour,
	})
	s.Require().NoError(err)
}

func (s *RouterTestSuite) buyListing(key string) *http.Response {
	return s.buyListingAs("u-1", 3, key)
}

func (s *RouterTestSuite) buyListingAs(userID string, listingID int64, key string) *http.Response {
	var opts []func(*testutils.RequestOptions)
	if key != "" {
		opts = append(opts, testutils.WithHeader(middlewares.IdempotencyKeyHeader, key))
	}
	return testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + MarketRoute + "?action=" + ActionBuyListing,
		Body:   testutils.JSONBody(map[string]any{"user_id": userID, "listing_id": listingID}),
	}, opts...)
}

func (s *RouterTestSuite) TestIdempotentReplay() {
	// повтор с тем же ключом не доходит до сервиса
	s.mockMarketService.EXPECT().BuyListing(gomock.Any(), "u-1", int64(3)).
		Return(&service.BuyListingResult{
			NewBalance: decimal.RequireFromString("9.5"),
			NewGold:    decimal.NewFromInt(205),
			Paid:       decimal.RequireFromString("10.5"),
			Fee:        decimal.RequireFromString("0.5"),
		}, nil).Times(1)

	first := s.buyListing("key-1")
	firstBody, err := io.ReadAll(first.Body)
	s.Require().NoError(err)
	s.Require().NoError(first.Body.Close())
	s.Equal(http.StatusOK, first.StatusCode)
	s.Empty(first.Header.Get(middlewares.IdempotentReplayHeader))

	second := s.buyListing("key-1")
	secondBody, err := io.ReadAll(second.Body)
	s.Require().NoError(err)
	s.Require().NoError(second.Body.Close())
	s.Equal(http.StatusOK, second.StatusCode)
	s.Equal("true", second.Header.Get(middlewares.IdempotentReplayHeader))
	s.JSONEq(string(firstBody), string(secondBody))
}

func (s *RouterTestSuite) TestKeyReusedByAnotherUser() {
	s.mockMarketService.EXPECT().BuyListing(gomock.Any(), "u-1", int64(3)).
		Return(&service.BuyListingResult{NewBalance: decimal.RequireFromString("9.5")}, nil).Times(1)
	s.mockMarketService.EXPECT().BuyListing(gomock.Any(), "u-2", gomock.Any()).Times(0)

	first := s.buyListingAs("u-1", 3, "shared")
	s.Require().NoError(first.Body.Close())
	s.Require().Equal(http.StatusOK, first.StatusCode)

	second := s.buyListingAs("u-2", 4, "shared")
	defer second.Body.Close()
	body, err := testutils.DecodeBody(second.Body)
	s.Require().NoError(err)

	s.Equal(http.StatusUnprocessableEntity, second.StatusCode)
	s.Empty(second.Header.Get(middlewares.IdempotentReplayHeader))
	s.Equal("idempotency key was already used with a different request", body["error"])
	s.NotContains(body, "new_balance")
}

func (s *RouterTestSuite) TestPanicReleasesKey() {
	gomock.InOrder(
		s.mockMarketService.EXPECT().BuyListing(gomock.Any(), "u-1", int64(3)).
			DoAndReturn(func(context.Context, string, int64) (*service.BuyListingResult, error) {
				panic("nil listing")
			}),
		s.mockMarketService.EXPECT().BuyListing(gomock.Any(), "u-1", int64(3)).
			Return(&service.BuyListingResult{}, nil),
	)

	first := s.buyListing("key-panic")
	s.Require().NoError(first.Body.Close())
	s.Equal(http.StatusInternalServerError, first.StatusCode)

	second := s.buyListing("key-panic")
	s.Require().NoError(second.Body.Close())
	s.Equal(http.StatusOK, second.StatusCode)
	s.Empty(second.Header.Get(middlewares.IdempotentReplayHeader))
}

func (s *RouterTestSuite) TestFailedRequestReleasesKey() {
	gomock.InOrder(
		s.mockMarketService.EXPECT().BuyListing(gomock.Any(), "u-1", int64(3)).
			Return(nil, errors.New("connection reset")),
		s.mockMarketService.EXPECT().BuyListing(gomock.Any(), "u-1", int64(3)).
			Return(&service.BuyListingResult{}, nil),
	)

	first := s.buyListing("key-2")
	s.Require().NoError(first.Body.Close())
	s.Equal(http.StatusInternalServerError, first.StatusCode)

	second := s.buyListing("key-2")
	s.Require().NoError(second.Body.Close())
	s.Equal(http.StatusOK, second.StatusCode)
	s.Empty(second.Header.Get(middlewares.IdempotentReplayHeader))
}

func (s *RouterTestSuite) TestRequestInProgress() {
	s.mockMarketService.EXPECT().BuyListing(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	scopedKey := RouteGroup + MarketRoute + "?" + ActionBuyListing + ":key-3"
	reserved, err := s.store.Reserve(s.T().Context(), scopedKey, time.Minute)
	s.Require().NoError(err)
	s.Require().True(reserved)

	resp := s.buyListing("key-3")
	defer resp.Body.Close()
	body, decodeErr := testutils.DecodeBody(resp.Body)
	s.Require().NoError(decodeErr)

	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("request with this idempotency key is in progress", body["error"])
}

func (s *RouterTestSuite) TestWithoutKey() {
	s.mockMarketService.EXPECT().BuyListing(gomock.Any(), "u-1", int64(3)).
		Return(&service.BuyListingResult{}, nil).Times(2)

	for range 2 {
		resp := s.buyListing("")
		s.Require().NoError(resp.Body.Close())
		s.Equal(http.StatusOK, resp.StatusCode)
	}
}

func (s *RouterTestSuite) TestPing() {
	gomock.InOrder(
		s.mockPinger.EXPECT().Ping(gomock.Any()).Return(nil),
		s.mockPinger.EXPECT().Ping(gomock.Any()).Return(errors.New("pool closed")),
	)

	ok := testutils.MakeRequest(testutils.RequestArgs{Router: s.router, Method: http.MethodGet, URL: PingRoute})
	s.Require().NoError(ok.Body.Close())
	s.Equal(http.StatusOK, ok.StatusCode)

	failed := testutils.MakeRequest(testutils.RequestArgs{Router: s.router, Method: http.MethodGet, URL: PingRoute})
	defer failed.Body.Close()
	body, err := testutils.DecodeBody(failed.Body)
	s.Require().NoError(err)
	s.Equal(http.StatusInternalServerError, failed.StatusCode)
	s.Equal("pool closed", body["error"])
}
