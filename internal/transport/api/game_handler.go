package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/goblin-market/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const (
	ActionInit         = "init"
	ActionBuyGoblins   = "buy-goblins"
	ActionExchangeGold = "exchange-gold"
)

type GameHandler struct {
	svs     LedgerServicer
	timeout time.Duration
}

func NewGameHandler(svs LedgerServicer, timeout time.Duration) *GameHandler {
	return &GameHandler{
		svs:     svs,
		timeout: timeout,
	}
}

type InitParams struct {
	UserID string `json:"user_id" binding:"required,max_bytes=255"`
}

type InitResponse struct {
	PlayerID   int64   `json:"player_id"`
	Memo       string  `json:"memo"`
	Goblins    int64   `json:"goblins"`
	Gold       float64 `json:"gold"`
	TonBalance float64 `json:"ton_balance"`
}

// Init POST RouteGroup + GameRoute?action=init.
func (g *GameHandler) Init(c *gin.Context) {
	var params InitParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = middlewares.AbortWithError(c, http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, g.timeout)
	defer cancel()

	player, err := g.svs.Init(reqCtx, params.UserID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &InitResponse{
		PlayerID:   player.ID,
		Memo:       player.MemoCode,
		Goblins:    player.Goblins,
		Gold:       player.Gold.InexactFloat64(),
		TonBalance: player.TonBalance.InexactFloat64(),
	})
}

type BuyGoblinsParams struct {
	UserID  string `json:"user_id" binding:"required,max_bytes=255"`
	Package string `json:"package" binding:"required"`
}

type BuyGoblinsResponse struct {
	Success    bool    `json:"success"`
	NewBalance float64 `json:"new_balance"`
	NewGoblins int64   `json:"new_goblins"`
}

// BuyGoblins POST RouteGroup + GameRoute?action=buy-goblins.
func (g *GameHandler) BuyGoblins(c *gin.Context) {
	var params BuyGoblinsParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = middlewares.AbortWithError(c, http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, g.timeout)
	defer cancel()

	result, err := g.svs.BuyGoblins(reqCtx, params.UserID, params.Package)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &BuyGoblinsResponse{
		Success:    true,
		NewBalance: result.NewBalance.InexactFloat64(),
		NewGoblins: result.NewGoblins,
	})
}

type ExchangeGoldParams struct {
	UserID     string           `json:"user_id" binding:"required,max_bytes=255"`
	GoldAmount *decimal.Decimal `json:"gold_amount" binding:"required"`
}

type ExchangeGoldResponse struct {
	Success         bool    `json:"success"`
	NewGold         float64 `json:"new_gold"`
	NewGoblins      int64   `json:"new_goblins"`
	GoblinsReceived int64   `json:"goblins_received"`
}

// ExchangeGold POST RouteGroup + GameRoute?action=exchange-gold.
func (g *GameHandler) ExchangeGold(c *gin.Context) {
	var params ExchangeGoldParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = middlewares.AbortWithError(c, http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, g.timeout)
	defer cancel()

	result, err := g.svs.ExchangeGold(reqCtx, params.UserID, *params.GoldAmount)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, &ExchangeGoldResponse{
		Success:         true,
		NewGold:         result.NewGold.InexactFloat64(),
		NewGoblins:      result.NewGoblins,
		GoblinsReceived: result.GoblinsReceived,
	})
}
