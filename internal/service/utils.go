package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/fsdevblog/goblin-market/internal/repository/repoargs"
	"github.com/fsdevblog/goblin-market/pkg/uow"
)

const memoSpace = 1_000_000

// randomMemo возвращает случайный 6-значный код, ведущие нули сохраняются.
func randomMemo() string {
	return fmt.Sprintf("%06d", rand.IntN(memoSpace)) //nolint:gosec
}

func playerRepo(tx uow.TX) (PlayerRepository, error) {
	return uow.GetAs[PlayerRepository](tx, uow.RepositoryName(repoargs.PlayerRepoName)) //nolint:wrapcheck
}

func listingRepo(tx uow.TX) (ListingRepository, error) {
	return uow.GetAs[ListingRepository](tx, uow.RepositoryName(repoargs.ListingRepoName)) //nolint:wrapcheck
}

// lockPlayer блокирует строку игрока. Отсутствие игрока превращается в domain.ErrPlayerNotFound.
func lockPlayer(ctx context.Context, repo PlayerRepository, userID string) (*domain.Player, error) {
	player, err := repo.FindByUserIDForUpdate(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, domain.ErrPlayerNotFound)
	}
	return player, nil
}

func notFoundAs(err error, target error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return target
	}
	return err
}

// writeTransactions пишет записи журнала транзакций в рамках tx. Возвращает последнюю ошибку батча.
func writeTransactions(ctx context.Context, tx uow.TX, records ...repoargs.CreateTransaction) error {
	repo, repoErr := uow.GetAs[AuditRepository](tx, uow.RepositoryName(repoargs.AuditRepoName))
	if repoErr != nil {
		return repoErr //nolint:wrapcheck
	}
	var batchErr error
	repo.CreateTransactions(ctx, records, func(_ int, err error) {
		if err != nil {
			batchErr = err
		}
	})
	return batchErr
}
