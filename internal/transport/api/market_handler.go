package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/goblin-market/internal/service"
	"github.com/fsdevblog/goblin-market/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	ActionListings      = "listings"
	ActionCreateListing = "create-listing"
	ActionBuyListing    = "buy-listing"
)

type MarketHandler struct {
	svs     MarketServicer
	timeout time.Duration
}

func NewMarketHandler(svs MarketServicer, timeout time.Duration) *MarketHandler {
	return &MarketHandler{
		svs:     svs,
		timeout: timeout,
	}
}

type ListingResponseItem struct {
	ID        int64   `json:"id"`
	Seller    string  `json:"seller"`
	Amount    float64 `json:"amount"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
	CreatedAt string  `json:"created_at"`
}

type ListingsResponse struct {
	Listings []ListingResponseItem `json:"listings"`
}

// Listings GET RouteGroup + MarketRoute?action=listings.
func (m *MarketHandler) Listings(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, m.timeout)
	defer cancel()

	listings, err := m.svs.ListActive(reqCtx)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	response := ListingsResponse{Listings: make([]ListingResponseItem, len(listings))}
	for i, listing := range listings {
		response.Listings[i] = ListingResponseItem{
			ID:        listing.ID,
			Seller:    listing.SellerLabel(),
			Amount:    listing.GoldAmount.InexactFloat64(),
			Price:     listing.PricePerKg.InexactFloat64(),
			Total:     listing.TotalPrice.InexactFloat64(),
			CreatedAt: listing.CreatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, &response)
}

type CreateListingParams struct {
	UserID     string           `json:"user_id" binding:"required,max_bytes=255"`
	GoldAmount *decimal.Decimal `json:"gold_amount" binding:"required"`
	PricePerKg *decimal.Decimal `json:"price_per_kg" binding:"required"`
}

type CreateListingResponse struct {
	Success   bool    `json:"success"`
	ListingID int64   `json:"listing_id"`
	NewGold   float64 `json:"new_gold"`
}

// CreateListing POST RouteGroup + MarketRoute?action=create-listing.
func (m *MarketHandler) CreateListing(c *gin.Context) {
	var params CreateListingParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = middlewares.AbortWithError(c, http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, m.timeout)
	defer cancel()

	result, err := m.svs.CreateListing(reqCtx, service.CreateListingArgs{
		UserID:     params.UserID,
		GoldAmount: *params.GoldAmount,
		PricePerKg: *params.PricePerKg,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &CreateListingResponse{
		Success:   true,
		ListingID: result.ListingID,
		NewGold:   result.NewGold.InexactFloat64(),
	})
}

type BuyListingParams struct {
	UserID    string `json:"user_id" binding:"required,max_bytes=255"`
	ListingID *int64 `json:"listing_id" binding:"required"`
}

type BuyListingResponse struct {
	Success    bool    `json:"success"`
	NewBalance float64 `json:"new_balance"`
	NewGold    float64 `json:"new_gold"`
	Paid       float64 `json:"paid"`
	Fee        float64 `json:"fee"`
}

// BuyListing POST RouteGroup + MarketRoute?action=buy-listing.
func (m *MarketHandler) BuyListing(c *gin.Context) {
	var params BuyListingParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = middlewares.AbortWithError(c, http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, m.timeout)
	defer cancel()

	result, err := m.svs.BuyListing(reqCtx, params.UserID, *params.ListingID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &BuyListingResponse{
		Success:    true,
		NewBalance: result.NewBalance.InexactFloat64(),
		NewGold:    result.NewGold.InexactFloat64(),
		Paid:       result.Paid.InexactFloat64(),
		Fee:        result.Fee.InexactFloat64(),
	})
}
