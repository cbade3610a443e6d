package pgrepo

import (
	"context"

	"github.com/fsdevblog/goblin-market/internal/repository/repoargs"
	"github.com/fsdevblog/goblin-market/pkg/uow"
	"github.com/jackc/pgx/v5"
)

// AuditRepository пишет в журналы начислений золота и транзакций. Оба журнала только дополняются.
type AuditRepository struct {
	conn uow.DBTX
}

func NewAuditRepository(conn uow.DBTX) *AuditRepository {
	return &AuditRepository{conn: conn}
}

func (r *AuditRepository) CreateHarvest(ctx context.Context, args repoargs.CreateHarvest) error {
	_, err := r.conn.Exec(ctx,
		`INSERT INTO gold_harvests (player_id, gold_earned, goblins_count, harvested_at) VALUES ($1, $2, $3, $4)`,
		args.PlayerID, args.GoldEarned, args.GoblinsCount, args.HarvestedAt,
	)
	if err != nil {
		return convertErr(err, "creating gold harvest for player %d", args.PlayerID)
	}
	return nil
}

// CreateTransactions отправляет записи журнала одним батчем. fn вызывается для каждой записи
// с результатом ее вставки.
func (r *AuditRepository) CreateTransactions(
	ctx context.Context,
	transactions []repoargs.CreateTransaction,
	fn repoargs.BatchExecQueryRow,
) {
	batch := new(pgx.Batch)
	for _, t := range transactions {
		batch.Queue(
			`INSERT INTO transactions (player_id, type, amount, description) VALUES ($1, $2, $3, $4)`,
			t.PlayerID, string(t.Type), t.Amount, t.Description,
		)
	}

	results := r.conn.SendBatch(ctx, batch)
	defer func() {
		_ = results.Close()
	}()

	for i, t := range transactions {
		_, err := results.Exec()
		fn(i, convertErr(err, "creating %s transaction for player %d", t.Type, t.PlayerID))
	}
}
