package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/fsdevblog/goblin-market/internal/service"
)

type LedgerServicer interface {
	Init(ctx context.Context, userID string) (*domain.Player, error)
	BuyGoblins(ctx context.Context, userID, packageName string) (*service.BuyGoblinsResult, error)
	ExchangeGold(ctx context.Context, userID string, goldAmount decimal.Decimal) (*service.ExchangeGoldResult, error)
}

type MarketServicer interface {
	ListActive(ctx context.Context) ([]domain.ListingView, error)
	CreateListing(ctx context.Context, args service.CreateListingArgs) (*service.CreateListingResult, error)
	BuyListing(ctx context.Context, userID string, listingID int64) (*service.BuyListingResult, error)
}

// Pinger проверка доступности хранилища для /ping. Реализуется *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}
