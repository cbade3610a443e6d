package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

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

type MarketHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockMarketService *mocks.MockMarketServicer
}

func TestMarketHandlerSuite(t *testing.T) {
	suite.Run(t, new(MarketHandlerTestSuite))
}

func (s *MarketHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *MarketHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockMarketService = mocks.NewMockMarketServicer(mockCtrl)

	var err error
	s.router, err = New(RouterArgs{
		Logger:        logger.New(io.Discard),
		LedgerService: mocks.NewMockLedgerServicer(mockCtrl),
		MarketService: s.mockMarketService,
	})
	s.Require().NoError(err)
}

func (s *MarketHandlerTestSuite) request(method, url string, body any) (int, map[string]any) {
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

func marketURL(action string) string {
	return RouteGroup + MarketRoute + "?action=" + action
}

func (s *MarketHandlerTestSuite) TestListings() {
	createdAt := time.Date(2025, 5, 30, 10, 15, 0, 0, time.UTC)
	listings := []domain.ListingView{
		{
			Listing: domain.Listing{
				ID:         5,
				CreatedAt:  createdAt,
				GoldAmount: decimal.NewFromInt(200),
				PricePerKg: decimal.RequireFromString("0.05"),
				TotalPrice: decimal.NewFromInt(10),
				Status:     domain.ListingStatusActive,
			},
			SellerUserID: "telegram-1234567",
		},
	}
	s.mockMarketService.EXPECT().ListActive(gomock.Any()).Return(listings, nil).Times(2)

	// action по умолчанию listings
	for _, url := range []string{marketURL(ActionListings), RouteGroup + MarketRoute} {
		status, body := s.request(http.MethodGet, url, nil)
		s.Equal(http.StatusOK, status)

		items, ok := body["listings"].([]any)
		s.Require().True(ok)
		s.Require().Len(items, 1)

		item, _ := items[0].(map[string]any)
		s.InDelta(5, item["id"], 0)
		s.Equal("Player#4567", item["seller"])
		s.InDelta(200, item["amount"], 0)
		s.InDelta(0.05, item["price"], 0)
		s.InDelta(10, item["total"], 0)
		s.Equal(createdAt.Format(time.RFC3339), item["created_at"])
	}
}

func (s *MarketHandlerTestSuite) TestListings_Empty() {
	s.mockMarketService.EXPECT().ListActive(gomock.Any()).Return(nil, nil)

	status, body := s.request(http.MethodGet, marketURL(ActionListings), nil)
	s.Equal(http.StatusOK, status)
	s.Equal([]any{}, body["listings"])
}

func (s *MarketHandlerTestSuite) TestListings_WrongMethod() {
	s.mockMarketService.EXPECT().ListActive(gomock.Any()).Times(0)

	status, body := s.request(http.MethodPost, RouteGroup+MarketRoute, map[string]any{})
	s.Equal(http.StatusNotFound, status)
	s.Equal("endpoint not found", body["error"])
}

func (s *MarketHandlerTestSuite) TestCreateListing() {
	userID := gofakeit.UUID()
	s.mockMarketService.EXPECT().CreateListing(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.CreateListingArgs) (*service.CreateListingResult, error) {
			s.Equal(userID, args.UserID)
			s.True(decimal.NewFromInt(200).Equal(args.GoldAmount))
			s.True(decimal.RequireFromString("0.05").Equal(args.PricePerKg))
			return &service.CreateListingResult{ListingID: 9, NewGold: decimal.NewFromInt(300)}, nil
		})

	status, body := s.request(http.MethodPost, marketURL(ActionCreateListing), map[string]any{
		"user_id":      userID,
		"gold_amount":  200,
		"price_per_kg": 0.05,
	})
	s.Equal(http.StatusOK, status)
	s.Equal(true, body["success"])
	s.InDelta(9, body["listing_id"], 0)
	s.InDelta(300, body["new_gold"], 0)
}

func (s *MarketHandlerTestSuite) TestCreateListing_Errors() {
	cases := []struct {
		name       string
		body       map[string]any
		svcErr     error
		wantStatus int
		wantErr    string
	}{
		{
			name:       "missing price",
			body:       map[string]any{"user_id": "u-1", "gold_amount": 100},
			wantStatus: http.StatusBadRequest,
			wantErr:    "price_per_kg is required",
		},
		{
			name:       "non positive price",
			body:       map[string]any{"user_id": "u-1", "gold_amount": 100, "price_per_kg": 0},
			svcErr:     fmt.Errorf("create listing: %w", domain.ErrNonPositivePrice),
			wantStatus: http.StatusBadRequest,
			wantErr:    "price must be greater than 0",
		},
		{
			name:       "unknown seller",
			body:       map[string]any{"user_id": "u-1", "gold_amount": 100, "price_per_kg": 1},
			svcErr:     fmt.Errorf("create listing: %w", domain.ErrPlayerNotFound),
			wantStatus: http.StatusNotFound,
			wantErr:    "player not found",
		},
		{
			name:       "not enough gold",
			body:       map[string]any{"user_id": "u-1", "gold_amount": 100, "price_per_kg": 1},
			svcErr:     fmt.Errorf("create listing: %w", domain.ErrNotEnoughGold),
			wantStatus: http.StatusBadRequest,
			wantErr:    "not enough gold",
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			if tc.svcErr != nil {
				s.mockMarketService.EXPECT().CreateListing(gomock.Any(), gomock.Any()).Return(nil, tc.svcErr)
			}

			status, body := s.request(http.MethodPost, marketURL(ActionCreateListing), tc.body)
			s.Equal(tc.wantStatus, status)
			s.Equal(tc.wantErr, body["error"])
		})
	}
}

func (s *MarketHandlerTestSuite) TestBuyListing() {
	userID := gofakeit.UUID()
	s.mockMarketService.EXPECT().BuyListing(gomock.Any(), userID, int64(77)).
		Return(&service.BuyListingResult{
			NewBalance: decimal.RequireFromString("9.5"),
			NewGold:    decimal.NewFromInt(205),
			Paid:       decimal.RequireFromString("10.5"),
			Fee:        decimal.RequireFromString("0.5"),
		}, nil)

	status, body := s.request(http.MethodPost, marketURL(ActionBuyListing), map[string]any{
		"user_id":    userID,
		"listing_id": 77,
	})
	s.Equal(http.StatusOK, status)
	s.Equal(true, body["success"])
	s.InDelta(9.5, body["new_balance"], 0)
	s.InDelta(205, body["new_gold"], 0)
	s.InDelta(10.5, body["paid"], 0)
	s.InDelta(0.5, body["fee"], 0)
}

func (s *MarketHandlerTestSuite) TestBuyListing_Errors() {
	cases := []struct {
		name       string
		body       map[string]any
		svcErr     error
		wantStatus int
		wantErr    string
	}{
		{
			name:       "missing listing id",
			body:       map[string]any{"user_id": "u-1"},
			wantStatus: http.StatusBadRequest,
			wantErr:    "listing_id is required",
		},
		{
			name:       "listing not found",
			body:       map[string]any{"user_id": "u-1", "listing_id": 1},
			svcErr:     fmt.Errorf("buy listing 1: %w", domain.ErrListingNotFound),
			wantStatus: http.StatusNotFound,
			wantErr:    "listing not found",
		},
		{
			name:       "buyer not found",
			body:       map[string]any{"user_id": "u-1", "listing_id": 1},
			svcErr:     fmt.Errorf("buy listing 1: %w", domain.ErrPlayerNotFound),
			wantStatus: http.StatusNotFound,
			wantErr:    "player not found",
		},
		{
			name:       "already sold",
			body:       map[string]any{"user_id": "u-1", "listing_id": 1},
			svcErr:     fmt.Errorf("buy listing 1: %w", domain.ErrListingNotActive),
			wantStatus: http.StatusBadRequest,
			wantErr:    "listing is no longer active",
		},
		{
			name:       "own listing",
			body:       map[string]any{"user_id": "u-1", "listing_id": 1},
			svcErr:     fmt.Errorf("buy listing 1: %w", domain.ErrSelfTrade),
			wantStatus: http.StatusBadRequest,
			wantErr:    "cannot buy your own listing",
		},
		{
			name: "fee not covered",
			body: map[string]any{"user_id": "u-1", "listing_id": 1},
			svcErr: fmt.Errorf("buy listing 1: %w",
				domain.NewInsufficientTonError(decimal.RequireFromString("10.5"), "including 5% fee")),
			wantStatus: http.StatusBadRequest,
			wantErr:    "not enough TON, need 10.5000 TON (including 5% fee)",
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			if tc.svcErr != nil {
				s.mockMarketService.EXPECT().BuyListing(gomock.Any(), "u-1", int64(1)).Return(nil, tc.svcErr)
			}

			status, body := s.request(http.MethodPost, marketURL(ActionBuyListing), tc.body)
			s.Equal(tc.wantStatus, status)
			s.Equal(tc.wantErr, body["error"])
		})
	}
}
