package service

import (
	"context"

	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/fsdevblog/goblin-market/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PlayerRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.Player, error)
	FindByUserIDForUpdate(ctx context.Context, userID string) (*domain.Player, error)
	LockByIDs(ctx context.Context, ids []int64) ([]domain.Player, error)
	MemoExists(ctx context.Context, memo string) (bool, error)
	Create(ctx context.Context, args repoargs.CreatePlayer) (*domain.Player, error)
	UpdateBalances(ctx context.Context, args repoargs.UpdatePlayerBalances) (*domain.Player, error)
}

type ListingRepository interface {
	Create(ctx context.Context, args repoargs.CreateListing) (*domain.Listing, error)
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Listing, error)
	MarkSold(ctx context.Context, id int64) (*domain.Listing, error)
	GetActive(ctx context.Context, limit uint) ([]domain.ListingView, error)
}

type AuditRepository interface {
	CreateHarvest(ctx context.Context, args repoargs.CreateHarvest) error
	CreateTransactions(
		ctx context.Context,
		transactions []repoargs.CreateTransaction,
		fn repoargs.BatchExecQueryRow,
	)
}

// MarketNotifier получает события маркета после коммита. Ошибки доставки обрабатывает сам.
type MarketNotifier interface {
	Notify(ctx context.Context, event domain.MarketEvent)
}
