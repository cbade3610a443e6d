package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/goblin-market/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
)

const (
	RouteGroup  = "/api"
	GameRoute   = "/game"
	MarketRoute = "/market"
	PingRoute   = "/ping"
)

type RouterArgs struct {
	Logger        *logrus.Logger
	LedgerService LedgerServicer
	MarketService MarketServicer
	// Pinger может быть nil, тогда /ping всегда отвечает 200.
	Pinger Pinger
	// IdempotencyStore может быть nil, тогда заголовок Idempotency-Key игнорируется.
	IdempotencyStore middlewares.IdempotencyStore
	IdempotencyTTL   time.Duration
	ServiceTimeout   time.Duration
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}
	if args.Logger == nil {
		args.Logger = logrus.StandardLogger()
	}
	if args.ServiceTimeout <= 0 {
		args.ServiceTimeout = DefaultServiceTimeout
	}
	if args.IdempotencyTTL <= 0 {
		args.IdempotencyTTL = DefaultIdempotencyTTL
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.Logger(args.Logger))
	r.Use(middlewares.CORS())
	r.Use(middlewares.Errors())

	gameHandler := NewGameHandler(args.LedgerService, args.ServiceTimeout)
	marketHandler := NewMarketHandler(args.MarketService, args.ServiceTimeout)

	game := newActionDispatcher(ActionInit).
		handle(ActionInit, http.MethodPost, gameHandler.Init).
		handle(ActionBuyGoblins, http.MethodPost, gameHandler.BuyGoblins).
		handle(ActionExchangeGold, http.MethodPost, gameHandler.ExchangeGold)

	market := newActionDispatcher(ActionListings).
		handle(ActionListings, http.MethodGet, marketHandler.Listings).
		handle(ActionCreateListing, http.MethodPost, marketHandler.CreateListing).
		handle(ActionBuyListing, http.MethodPost, marketHandler.BuyListing)

	r.GET(PingRoute, ping(args.Pinger, args.ServiceTimeout))

	api := r.Group(RouteGroup)
	if args.IdempotencyStore != nil {
		api.Use(middlewares.Idempotency(args.IdempotencyStore, args.IdempotencyTTL, args.Logger))
	}
	api.Any(GameRoute, game.Dispatch)
	api.Any(MarketRoute, market.Dispatch)

	r.NoRoute(func(c *gin.Context) {
		_ = middlewares.AbortWithError(c, http.StatusNotFound, errEndpointNotFound).SetType(gin.ErrorTypePublic)
	})
	return r, nil
}

func ping(pinger Pinger, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger != nil {
			reqCtx, cancel := context.WithTimeout(c, timeout)
			defer cancel()
			if err := pinger.Ping(reqCtx); err != nil {
				_ = middlewares.AbortWithError(c, http.StatusInternalServerError, err).SetType(gin.ErrorTypePublic)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
