package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/fsdevblog/goblin-market/internal/logger"
	"github.com/fsdevblog/goblin-market/internal/service"
	"github.com/fsdevblog/goblin-market/internal/transport/api/mocks"
	"github.com/fsdevblog/goblin-market/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type GameHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockLedgerService *mocks.MockLedgerServicer
}

func TestGameHandlerSuite(t *testing.T) {
	suite.Run(t, new(GameHandlerTestSuite))
}

func (s *GameHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *GameHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockLedgerService = mocks.NewMockLedgerServicer(mockCtrl)

	var err error
	s.router, err = New(RouterArgs{
		Logger:        logger.New(io.Discard),
		LedgerService: s.mockLedgerService,
		MarketService: mocks.NewMockMarketServicer(mockCtrl),
	})
	s.Require().NoError(err)
}

// request выполняет запрос и возвращает статус и декодированное тело.
func (s *GameHandlerTestSuite) request(method, url string, body any) (int, map[string]any) {
	args := testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    url,
	}
	if body != nil {
		args.Body = testutils.JSONBody(body)
	}
	resp := testutils.MakeRequest(args)
	defer resp.Body.Close()

	decoded, err := testutils.DecodeBody(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, decoded
}

func gameURL(action string) string {
	return RouteGroup + GameRoute + "?action=" + action
}

func (s *GameHandlerTestSuite) TestInit() {
	player := &domain.Player{
		ID:         17,
		UserID:     gofakeit.UUID(),
		MemoCode:   "004242",
		Goblins:    3000,
		Gold:       decimal.RequireFromString("42.5"),
		TonBalance: decimal.RequireFromString("1.25"),
	}
	s.mockLedgerService.EXPECT().Init(gomock.Any(), player.UserID).Return(player, nil).Times(2)

	// action по умолчанию init
	for _, url := range []string{gameURL(ActionInit), RouteGroup + GameRoute} {
		status, body := s.request(http.MethodPost, url, map[string]any{"user_id": player.UserID})
		s.Equal(http.StatusOK, status)
		s.InDelta(17, body["player_id"], 0)
		s.Equal("004242", body["memo"])
		s.InDelta(3000, body["goblins"], 0)
		s.InDelta(42.5, body["gold"], 0)
		s.InDelta(1.25, body["ton_balance"], 0)
	}
}

func (s *GameHandlerTestSuite) TestInit_BadRequest() {
	s.mockLedgerService.EXPECT().Init(gomock.Any(), gomock.Any()).Times(0)

	cases := []struct {
		name    string
		body    any
		wantErr string
	}{
		{name: "missing user id", body: map[string]any{}, wantErr: "user_id is required"},
		{name: "empty user id", body: map[string]any{"user_id": ""}, wantErr: "user_id is required"},
		{
			name:    "user id too long",
			body:    map[string]any{"user_id": testutils.GenerateOverBytesUnderRunes(64)},
			wantErr: "user_id is invalid",
		},
		{name: "not an object", body: []int{1, 2}, wantErr: "invalid request body"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			status, body := s.request(http.MethodPost, gameURL(ActionInit), tc.body)
			s.Equal(http.StatusBadRequest, status)
			s.Equal(tc.wantErr, body["error"])
		})
	}
}

func (s *GameHandlerTestSuite) TestInit_InternalError() {
	s.mockLedgerService.EXPECT().Init(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("init player: %w", errors.New("connection refused")))

	status, body := s.request(http.MethodPost, gameURL(ActionInit), map[string]any{"user_id": "u-1"})
	s.Equal(http.StatusInternalServerError, status)
	s.Equal("init player: connection refused", body["error"])
}

func (s *GameHandlerTestSuite) TestUnknownEndpoint() {
	cases := []struct {
		name   string
		method string
		url    string
	}{
		{name: "unknown action", method: http.MethodPost, url: gameURL("sell-goblins")},
		{name: "empty action", method: http.MethodPost, url: gameURL("")},
		{name: "wrong method", method: http.MethodGet, url: gameURL(ActionInit)},
		{name: "default action wrong method", method: http.MethodGet, url: RouteGroup + GameRoute},
		{name: "unknown route", method: http.MethodGet, url: RouteGroup + "/shop"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			status, body := s.request(tc.method, tc.url, nil)
			s.Equal(http.StatusNotFound, status)
			s.Equal("endpoint not found", body["error"])
		})
	}
}

func (s *GameHandlerTestSuite) TestPreflight() {
	resp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodOptions,
		URL:    gameURL(ActionBuyGoblins),
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))
	s.Equal("GET, POST, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
	s.Contains(resp.Header.Get("Access-Control-Allow-Headers"), "Idempotency-Key")
}

func (s *GameHandlerTestSuite) TestRequestID() {
	s.mockLedgerService.EXPECT().Init(gomock.Any(), gomock.Any()).Return(&domain.Player{}, nil).Times(2)

	resp := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    gameURL(ActionInit),
		Body:   strings.NewReader(`{"user_id":"u-1"}`),
	}, testutils.WithHeader("X-Request-ID", "req-123"))
	s.Require().NoError(resp.Body.Close())
	s.Equal("req-123", resp.Header.Get("X-Request-ID"))

	resp = testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    gameURL(ActionInit),
		Body:   strings.NewReader(`{"user_id":"u-1"}`),
	})
	s.Require().NoError(resp.Body.Close())
	s.NotEmpty(resp.Header.Get("X-Request-ID"))
}

func (s *GameHandlerTestSuite) TestBuyGoblins() {
	userID := gofakeit.UUID()

	cases := []struct {
		name       string
		pkg        string
		svcErr     error
		wantStatus int
		wantErr    string
	}{
		{name: "ok", pkg: "small", wantStatus: http.StatusOK},
		{
			name:       "unknown package",
			pkg:        "huge",
			svcErr:     fmt.Errorf("buy goblins: %w", domain.ErrUnknownPackage),
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid package",
		},
		{
			name:       "player not found",
			pkg:        "large",
			svcErr:     fmt.Errorf("buy goblins: %w", domain.ErrPlayerNotFound),
			wantStatus: http.StatusNotFound,
			wantErr:    "player not found",
		},
		{
			name:       "not enough ton",
			pkg:        "large",
			svcErr:     fmt.Errorf("buy goblins: %w", domain.NewInsufficientTonError(decimal.NewFromInt(5), "")),
			wantStatus: http.StatusBadRequest,
			wantErr:    "not enough TON, need 5.0000 TON",
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			call := s.mockLedgerService.EXPECT().BuyGoblins(gomock.Any(), userID, tc.pkg)
			if tc.svcErr != nil {
				call.Return(nil, tc.svcErr)
			} else {
				call.Return(&service.BuyGoblinsResult{
					NewBalance: decimal.RequireFromString("2.5"),
					NewGoblins: 6000,
				}, nil)
			}

			status, body := s.request(http.MethodPost, gameURL(ActionBuyGoblins), map[string]any{
				"user_id": userID,
				"package": tc.pkg,
			})
			s.Equal(tc.wantStatus, status)
			if tc.wantErr != "" {
				s.Equal(tc.wantErr, body["error"])
				return
			}
			s.Equal(true, body["success"])
			s.InDelta(2.5, body["new_balance"], 0)
			s.InDelta(6000, body["new_goblins"], 0)
		})
	}
}

func (s *GameHandlerTestSuite) TestBuyGoblins_MissingPackage() {
	s.mockLedgerService.EXPECT().BuyGoblins(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	status, body := s.request(http.MethodPost, gameURL(ActionBuyGoblins), map[string]any{"user_id": "u-1"})
	s.Equal(http.StatusBadRequest, status)
	s.Equal("package is required", body["error"])
}

func (s *GameHandlerTestSuite) TestExchangeGold() {
	userID := gofakeit.UUID()

	s.mockLedgerService.EXPECT().ExchangeGold(gomock.Any(), userID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, amount decimal.Decimal) (*service.ExchangeGoldResult, error) {
			s.True(decimal.RequireFromString("150.5").Equal(amount), "amount %s", amount)
			return &service.ExchangeGoldResult{
				NewGold:         decimal.RequireFromString("49.5"),
				NewGoblins:      1142,
				GoblinsReceived: 142,
			}, nil
		})

	status, body := s.request(http.MethodPost, gameURL(ActionExchangeGold), map[string]any{
		"user_id":     userID,
		"gold_amount": 150.5,
	})
	s.Equal(http.StatusOK, status)
	s.Equal(true, body["success"])
	s.InDelta(49.5, body["new_gold"], 0)
	s.InDelta(1142, body["new_goblins"], 0)
	s.InDelta(142, body["goblins_received"], 0)
}

func (s *GameHandlerTestSuite) TestExchangeGold_Errors() {
	cases := []struct {
		name       string
		body       map[string]any
		svcErr     error
		wantStatus int
		wantErr    string
	}{
		{
			name:       "missing amount",
			body:       map[string]any{"user_id": "u-1"},
			wantStatus: http.StatusBadRequest,
			wantErr:    "gold_amount is required",
		},
		{
			name:       "amount is not a number",
			body:       map[string]any{"user_id": "u-1", "gold_amount": "lots"},
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid request body",
		},
		{
			name:       "below minimum",
			body:       map[string]any{"user_id": "u-1", "gold_amount": 99},
			svcErr:     fmt.Errorf("exchange gold: %w", domain.ErrAmountBelowMinimum),
			wantStatus: http.StatusBadRequest,
			wantErr:    "minimum is 100 kg of gold",
		},
		{
			name:       "not enough gold",
			body:       map[string]any{"user_id": "u-1", "gold_amount": 1000},
			svcErr:     fmt.Errorf("exchange gold: %w", domain.ErrNotEnoughGold),
			wantStatus: http.StatusBadRequest,
			wantErr:    "not enough gold",
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			if tc.svcErr != nil {
				s.mockLedgerService.EXPECT().ExchangeGold(gomock.Any(), "u-1", gomock.Any()).Return(nil, tc.svcErr)
			}

			status, body := s.request(http.MethodPost, gameURL(ActionExchangeGold), tc.body)
			s.Equal(tc.wantStatus, status)
			s.Equal(tc.wantErr, body["error"])
		})
	}
}
