package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/fsdevblog/goblin-market/internal/repository/repoargs"
	"github.com/fsdevblog/goblin-market/pkg/uow"
	"github.com/shopspring/decimal"
)

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, domain.MarketEvent) {}

// MarketService ведет P2P маркет золота: витрину, создание объявлений и сделки.
type MarketService struct {
	uow         uow.UOW
	listingRepo ListingRepository
	notifier    MarketNotifier
	now         func() time.Time
}

// NewMarketService создает сервис маркета. notifier может быть nil, тогда события никуда не уходят.
func NewMarketService(u uow.UOW, notifier MarketNotifier) (*MarketService, error) {
	repo, err := uow.GetRepositoryAs[ListingRepository](u, uow.RepositoryName(repoargs.ListingRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &MarketService{
		uow:         u,
		listingRepo: repo,
		notifier:    notifier,
		now:         time.Now,
	}, nil
}

// ListActive возвращает до domain.ActiveListingsLimit активных объявлений, новые первыми.
func (m *MarketService) ListActive(ctx context.Context) ([]domain.ListingView, error) {
	listings, err := m.listingRepo.GetActive(ctx, domain.ActiveListingsLimit)
	if err != nil {
		return nil, fmt.Errorf("list active listings: %w", err)
	}
	return listings, nil
}

type CreateListingArgs struct {
	UserID     string
	GoldAmount decimal.Decimal
	PricePerKg decimal.Decimal
}

type CreateListingResult struct {
	ListingID int64
	NewGold   decimal.Decimal
}

// CreateListing выставляет золото продавца на продажу. Золото сразу списывается с баланса продавца
// и хранится в объявлении до сделки.
// Ошибки: domain.ErrAmountBelowMinimum, domain.ErrNonPositivePrice, domain.ErrPlayerNotFound,
// domain.ErrNotEnoughGold.
func (m *MarketService) CreateListing(ctx context.Context, args CreateListingArgs) (*CreateListingResult, error) {
	if args.GoldAmount.LessThan(domain.MinGoldAmount) {
		return nil, fmt.Errorf("create listing: %w", domain.ErrAmountBelowMinimum)
	}
	if !args.PricePerKg.IsPositive() {
		return nil, fmt.Errorf("create listing: %w", domain.ErrNonPositivePrice)
	}

	var listing *domain.Listing
	var newGold decimal.Decimal

	txErr := m.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		pRepo, pRepoErr := playerRepo(tx)
		if pRepoErr != nil {
			return pRepoErr
		}
		lRepo, lRepoErr := listingRepo(tx)
		if lRepoErr != nil {
			return lRepoErr
		}

		seller, lockErr := lockPlayer(c, pRepo, args.UserID)
		if lockErr != nil {
			return lockErr
		}
		if seller.Gold.LessThan(args.GoldAmount) {
			return domain.ErrNotEnoughGold
		}

		updated, updErr := pRepo.UpdateBalances(c, repoargs.UpdatePlayerBalances{
			ID:          seller.ID,
			Goblins:     seller.Goblins,
			Gold:        seller.Gold.Sub(args.GoldAmount),
			TonBalance:  seller.TonBalance,
			LastHarvest: seller.LastHarvest,
		})
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}

		var createErr error
		listing, createErr = lRepo.Create(c, repoargs.CreateListing{
			SellerID:   seller.ID,
			GoldAmount: args.GoldAmount,
			PricePerKg: args.PricePerKg,
			TotalPrice: args.GoldAmount.Mul(args.PricePerKg),
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		newGold = updated.Gold
		return writeTransactions(c, tx, repoargs.CreateTransaction{
			PlayerID: seller.ID,
			Type:     domain.TransactionListingCreated,
			Amount:   args.GoldAmount,
			Description: fmt.Sprintf(
				"Listed %s kg of gold at %s TON/kg",
				args.GoldAmount.String(),
				args.PricePerKg.String(),
			),
		})
	})
	if txErr != nil {
		return nil, fmt.Errorf("create listing: %w", txErr)
	}

	m.notifier.Notify(ctx, domain.MarketEvent{
		Type:       domain.MarketEventListingCreated,
		ListingID:  listing.ID,
		SellerID:   listing.SellerID,
		GoldAmount: listing.GoldAmount,
		TotalPrice: listing.TotalPrice,
		OccurredAt: m.now(),
	})

	return &CreateListingResult{
		ListingID: listing.ID,
		NewGold:   newGold,
	}, nil
}

type BuyListingResult struct {
	NewBalance decimal.Decimal
	NewGold    decimal.Decimal
	Paid       decimal.Decimal
	Fee        decimal.Decimal
}

// BuyListing проводит сделку по объявлению listingID.
//
// Покупатель платит total_price + 5%, продавец получает total_price - 5%, платформа удерживает обе
// комиссии. Объявление блокируется первым, затем строки обоих игроков в порядке возрастания id,
// поэтому второй покупатель того же объявления дождется коммита и получит domain.ErrListingNotActive.
//
// Ошибки: domain.ErrListingNotFound, domain.ErrListingNotActive, domain.ErrPlayerNotFound,
// domain.ErrSelfTrade, domain.InsufficientFundsError.
func (m *MarketService) BuyListing(ctx context.Context, userID string, listingID int64) (*BuyListingResult, error) {
	var result *BuyListingResult
	var event domain.MarketEvent

	txErr := m.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		pRepo, pRepoErr := playerRepo(tx)
		if pRepoErr != nil {
			return pRepoErr
		}
		lRepo, lRepoErr := listingRepo(tx)
		if lRepoErr != nil {
			return lRepoErr
		}

		listing, listingErr := lRepo.FindByIDForUpdate(c, listingID)
		if listingErr != nil {
			return notFoundAs(listingErr, domain.ErrListingNotFound)
		}
		if listing.Status != domain.ListingStatusActive {
			return domain.ErrListingNotActive
		}

		buyer, seller, partiesErr := m.lockParties(c, pRepo, userID, listing.SellerID)
		if partiesErr != nil {
			return partiesErr
		}

		settlement := domain.SettleListing(listing.TotalPrice)
		if buyer.TonBalance.LessThan(settlement.BuyerPays) {
			return domain.NewInsufficientTonError(settlement.BuyerPays, "including 5% fee")
		}

		updatedBuyer, buyerErr := pRepo.UpdateBalances(c, repoargs.UpdatePlayerBalances{
			ID:          buyer.ID,
			Goblins:     buyer.Goblins,
			Gold:        buyer.Gold.Add(listing.GoldAmount),
			TonBalance:  buyer.TonBalance.Sub(settlement.BuyerPays),
			LastHarvest: buyer.LastHarvest,
		})
		if buyerErr != nil {
			return buyerErr //nolint:wrapcheck
		}
		if _, sellerErr := pRepo.UpdateBalances(c, repoargs.UpdatePlayerBalances{
			ID:          seller.ID,
			Goblins:     seller.Goblins,
			Gold:        seller.Gold,
			TonBalance:  seller.TonBalance.Add(settlement.SellerReceives),
			LastHarvest: seller.LastHarvest,
		}); sellerErr != nil {
			return sellerErr //nolint:wrapcheck
		}

		if _, soldErr := lRepo.MarkSold(c, listing.ID); soldErr != nil {
			return soldErr //nolint:wrapcheck
		}

		if err := writeTransactions(c, tx,
			repoargs.CreateTransaction{
				PlayerID:    buyer.ID,
				Type:        domain.TransactionMarketPurchase,
				Amount:      settlement.BuyerPays,
				Description: fmt.Sprintf("Bought %s kg of gold", listing.GoldAmount.String()),
			},
			repoargs.CreateTransaction{
				PlayerID:    seller.ID,
				Type:        domain.TransactionMarketSale,
				Amount:      settlement.SellerReceives,
				Description: fmt.Sprintf("Sold %s kg of gold", listing.GoldAmount.String()),
			},
		); err != nil {
			return err
		}

		result = &BuyListingResult{
			NewBalance: updatedBuyer.TonBalance,
			NewGold:    updatedBuyer.Gold,
			Paid:       settlement.BuyerPays,
			Fee:        settlement.BuyerFee,
		}
		event = domain.MarketEvent{
			Type:           domain.MarketEventListingSold,
			ListingID:      listing.ID,
			SellerID:       seller.ID,
			BuyerID:        buyer.ID,
			GoldAmount:     listing.GoldAmount,
			TotalPrice:     listing.TotalPrice,
			BuyerPaid:      settlement.BuyerPays,
			SellerReceived: settlement.SellerReceives,
		}
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("buy listing %d: %w", listingID, txErr)
	}

	event.OccurredAt = m.now()
	m.notifier.Notify(ctx, event)

	return result, nil
}

// lockParties находит покупателя, отсекает покупку собственного объявления и блокирует строки
// покупателя и продавца в порядке возрастания id.
func (m *MarketService) lockParties(
	ctx context.Context,
	repo PlayerRepository,
	buyerUserID string,
	sellerID int64,
) (*domain.Player, *domain.Player, error) {
	buyer, buyerErr := repo.FindByUserID(ctx, buyerUserID)
	if buyerErr != nil {
		return nil, nil, notFoundAs(buyerErr, domain.ErrPlayerNotFound)
	}
	if buyer.ID == sellerID {
		return nil, nil, domain.ErrSelfTrade
	}

	ids := []int64{buyer.ID, sellerID}
	if sellerID < buyer.ID {
		ids = []int64{sellerID, buyer.ID}
	}
	locked, lockErr := repo.LockByIDs(ctx, ids)
	if lockErr != nil {
		return nil, nil, lockErr //nolint:wrapcheck
	}

	var lockedBuyer, lockedSeller *domain.Player
	for i := range locked {
		switch locked[i].ID {
		case buyer.ID:
			lockedBuyer = &locked[i]
		case sellerID:
			lockedSeller = &locked[i]
		}
	}
	if lockedBuyer == nil || lockedSeller == nil {
		return nil, nil, domain.ErrPlayerNotFound
	}
	return lockedBuyer, lockedSeller, nil
}
