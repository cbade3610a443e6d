package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/fsdevblog/goblin-market/internal/repository/repoargs"
	"github.com/fsdevblog/goblin-market/pkg/uow"
	"github.com/shopspring/decimal"
)

const (
	// maxInitAttempts сколько раз Init перезапускает транзакцию после конфликта уникальности.
	maxInitAttempts = 3
	// maxMemoAttempts предел перегенераций memo кода в одной транзакции.
	maxMemoAttempts = 100
)

var errMemoSpaceExhausted = fmt.Errorf("%w: no free memo code found", domain.ErrUnknown)

// LedgerService ведет счета игроков: начисление золота, покупку гоблинов и обмен золота.
type LedgerService struct {
	uow     uow.UOW
	now     func() time.Time
	newMemo func() string
}

func NewLedgerService(u uow.UOW) *LedgerService {
	return &LedgerService{
		uow:     u,
		now:     time.Now,
		newMemo: randomMemo,
	}
}

// Init возвращает счет игрока userID, создавая его при первом обращении.
//
// Для существующего счета начисляет золото за полные часы, прошедшие с last_harvest:
// goblins × 0.014 × часы. После начисления last_harvest сдвигается на текущий момент, остаток
// неполного часа сгорает. Если прошло меньше часа, счет возвращается без изменений.
//
// Конфликт уникальности (параллельная регистрация того же userID или memo кода) перезапускает
// транзакцию, повторный проход находит уже созданный счет.
func (s *LedgerService) Init(ctx context.Context, userID string) (*domain.Player, error) {
	var player *domain.Player
	var err error
	for range maxInitAttempts {
		player, err = s.initOnce(ctx, userID)
		if !errors.Is(err, domain.ErrDuplicateKey) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("init player: %w", err)
	}
	return player, nil
}

func (s *LedgerService) initOnce(ctx context.Context, userID string) (*domain.Player, error) {
	var player *domain.Player
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := playerRepo(tx)
		if repoErr != nil {
			return repoErr
		}

		existing, findErr := repo.FindByUserIDForUpdate(c, userID)
		var err error
		switch {
		case findErr == nil:
			player, err = s.harvest(c, tx, repo, existing)
		case errors.Is(findErr, domain.ErrRecordNotFound):
			player, err = s.register(c, repo, userID)
		default:
			err = findErr
		}
		return err
	})
	return player, txErr //nolint:wrapcheck
}

// harvest начисляет накопленное золото заблокированному игроку.
func (s *LedgerService) harvest(
	ctx context.Context,
	tx uow.TX,
	repo PlayerRepository,
	player *domain.Player,
) (*domain.Player, error) {
	now := s.now()
	hours, earned := domain.HarvestYield(player.Goblins, player.LastHarvest, now)
	if hours < 1 {
		return player, nil
	}

	updated, updErr := repo.UpdateBalances(ctx, repoargs.UpdatePlayerBalances{
		ID:          player.ID,
		Goblins:     player.Goblins,
		Gold:        player.Gold.Add(earned),
		TonBalance:  player.TonBalance,
		LastHarvest: now,
	})
	if updErr != nil {
		return nil, updErr //nolint:wrapcheck
	}

	auditRepo, auditRepoErr := uow.GetAs[AuditRepository](tx, uow.RepositoryName(repoargs.AuditRepoName))
	if auditRepoErr != nil {
		return nil, auditRepoErr //nolint:wrapcheck
	}
	if err := auditRepo.CreateHarvest(ctx, repoargs.CreateHarvest{
		PlayerID:     player.ID,
		GoldEarned:   earned,
		GoblinsCount: player.Goblins,
		HarvestedAt:  now,
	}); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return updated, nil
}

// register создает игрока с уникальным memo кодом.
func (s *LedgerService) register(ctx context.Context, repo PlayerRepository, userID string) (*domain.Player, error) {
	memo, memoErr := s.freeMemo(ctx, repo)
	if memoErr != nil {
		return nil, memoErr
	}
	return repo.Create(ctx, repoargs.CreatePlayer{ //nolint:wrapcheck
		UserID:   userID,
		MemoCode: memo,
	})
}

func (s *LedgerService) freeMemo(ctx context.Context, repo PlayerRepository) (string, error) {
	for range maxMemoAttempts {
		memo := s.newMemo()
		exists, err := repo.MemoExists(ctx, memo)
		if err != nil {
			return "", err //nolint:wrapcheck
		}
		if !exists {
			return memo, nil
		}
	}
	return "", errMemoSpaceExhausted
}

type BuyGoblinsResult struct {
	NewBalance decimal.Decimal
	NewGoblins int64
}

// BuyGoblins списывает цену пакета с TON баланса и начисляет гоблинов.
// Ошибки: domain.ErrUnknownPackage, domain.ErrPlayerNotFound, domain.InsufficientFundsError.
func (s *LedgerService) BuyGoblins(ctx context.Context, userID, packageName string) (*BuyGoblinsResult, error) {
	pkg, pkgErr := domain.FindGoblinPackage(packageName)
	if pkgErr != nil {
		return nil, fmt.Errorf("buy goblins: %w", pkgErr)
	}

	var result *BuyGoblinsResult
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := playerRepo(tx)
		if repoErr != nil {
			return repoErr
		}
		player, lockErr := lockPlayer(c, repo, userID)
		if lockErr != nil {
			return lockErr
		}

		if player.TonBalance.LessThan(pkg.Price) {
			return domain.NewInsufficientTonError(pkg.Price, "")
		}

		updated, updErr := repo.UpdateBalances(c, repoargs.UpdatePlayerBalances{
			ID:          player.ID,
			Goblins:     player.Goblins + pkg.Goblins,
			Gold:        player.Gold,
			TonBalance:  player.TonBalance.Sub(pkg.Price),
			LastHarvest: player.LastHarvest,
		})
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}

		if err := writeTransactions(c, tx, repoargs.CreateTransaction{
			PlayerID:    player.ID,
			Type:        domain.TransactionGoblinPurchase,
			Amount:      pkg.Price,
			Description: fmt.Sprintf("Bought %d goblins", pkg.Goblins),
		}); err != nil {
			return err
		}

		result = &BuyGoblinsResult{
			NewBalance: updated.TonBalance,
			NewGoblins: updated.Goblins,
		}
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("buy goblins: %w", txErr)
	}
	return result, nil
}

type ExchangeGoldResult struct {
	NewGold         decimal.Decimal
	NewGoblins      int64
	GoblinsReceived int64
}

// ExchangeGold меняет золото на гоблинов по курсу 95 гоблинов за 100 кг, результат округляется вниз.
// Ошибки: domain.ErrAmountBelowMinimum, domain.ErrPlayerNotFound, domain.ErrNotEnoughGold.
func (s *LedgerService) ExchangeGold(
	ctx context.Context,
	userID string,
	goldAmount decimal.Decimal,
) (*ExchangeGoldResult, error) {
	if goldAmount.LessThan(domain.MinGoldAmount) {
		return nil, fmt.Errorf("exchange gold: %w", domain.ErrAmountBelowMinimum)
	}
	received := domain.ExchangeGoblins(goldAmount)

	var result *ExchangeGoldResult
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := playerRepo(tx)
		if repoErr != nil {
			return repoErr
		}
		player, lockErr := lockPlayer(c, repo, userID)
		if lockErr != nil {
			return lockErr
		}

		if player.Gold.LessThan(goldAmount) {
			return domain.ErrNotEnoughGold
		}

		updated, updErr := repo.UpdateBalances(c, repoargs.UpdatePlayerBalances{
			ID:          player.ID,
			Goblins:     player.Goblins + received,
			Gold:        player.Gold.Sub(goldAmount),
			TonBalance:  player.TonBalance,
			LastHarvest: player.LastHarvest,
		})
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}

		if err := writeTransactions(c, tx, repoargs.CreateTransaction{
			PlayerID:    player.ID,
			Type:        domain.TransactionGoldExchange,
			Amount:      goldAmount,
			Description: fmt.Sprintf("Exchanged %s kg of gold for %d goblins", goldAmount.String(), received),
		}); err != nil {
			return err
		}

		result = &ExchangeGoldResult{
			NewGold:         updated.Gold,
			NewGoblins:      updated.Goblins,
			GoblinsReceived: received,
		}
		return nil
	})
	if txErr != nil {
		return nil, fmt.Errorf("exchange gold: %w", txErr)
	}
	return result, nil
}
