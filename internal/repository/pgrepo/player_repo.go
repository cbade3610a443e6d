package pgrepo

import (
	"context"

	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/fsdevblog/goblin-market/internal/repository/repoargs"
	"github.com/fsdevblog/goblin-market/pkg/uow"
	"github.com/jackc/pgx/v5"
)

const playerColumns = `id, created_at, updated_at, user_id, memo_code, goblins, gold, ton_balance, last_harvest`

type PlayerRepository struct {
	conn uow.DBTX
}

func NewPlayerRepository(conn uow.DBTX) *PlayerRepository {
	return &PlayerRepository{conn: conn}
}

// FindByUserID ищет игрока по внешнему идентификатору. Возвращает domain.ErrRecordNotFound если запись
// не найдена, во всех других случаях - domain.ErrUnknown.
func (r *PlayerRepository) FindByUserID(ctx context.Context, userID string) (*domain.Player, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE user_id = $1`, userID)
	player, err := scanPlayer(row)
	if err != nil {
		return nil, convertErr(err, "finding player by user_id `%s`", userID)
	}
	return player, nil
}

// FindByUserIDForUpdate то же что FindByUserID, но блокирует строку до конца транзакции.
func (r *PlayerRepository) FindByUserIDForUpdate(ctx context.Context, userID string) (*domain.Player, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE user_id = $1 FOR UPDATE`, userID)
	player, err := scanPlayer(row)
	if err != nil {
		return nil, convertErr(err, "locking player by user_id `%s`", userID)
	}
	return player, nil
}

// LockByIDs блокирует строки игроков в порядке возрастания id, чтобы встречные сделки не взаимоблокировались.
func (r *PlayerRepository) LockByIDs(ctx context.Context, ids []int64) ([]domain.Player, error) {
	rows, err := r.conn.Query(ctx,
		`SELECT `+playerColumns+` FROM players WHERE id = ANY($1) ORDER BY id FOR UPDATE`,
		ids,
	)
	if err != nil {
		return nil, convertErr(err, "locking players with ids `%v`", ids)
	}
	defer rows.Close()

	var players = make([]domain.Player, 0, len(ids))
	for rows.Next() {
		player, scanErr := scanPlayer(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning locked player")
		}
		players = append(players, *player)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "locking players with ids `%v`", ids)
	}
	return players, nil
}

func (r *PlayerRepository) MemoExists(ctx context.Context, memo string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM players WHERE memo_code = $1)`, memo).Scan(&exists)
	if err != nil {
		return false, convertErr(err, "checking memo `%s`", memo)
	}
	return exists, nil
}

// Create создает игрока с нулевыми балансами. В случае конфликта user_id или memo_code возвращает ошибку
// domain.ErrDuplicateKey.
func (r *PlayerRepository) Create(ctx context.Context, args repoargs.CreatePlayer) (*domain.Player, error) {
	row := r.conn.QueryRow(ctx,
		`INSERT INTO players (user_id, memo_code) VALUES ($1, $2) RETURNING `+playerColumns,
		args.UserID, args.MemoCode,
	)
	player, err := scanPlayer(row)
	if err != nil {
		return nil, convertErr(err, "creating player `%s`", args.UserID)
	}
	return player, nil
}

func (r *PlayerRepository) UpdateBalances(
	ctx context.Context,
	args repoargs.UpdatePlayerBalances,
) (*domain.Player, error) {
	row := r.conn.QueryRow(ctx,
		`UPDATE players
		SET goblins = $2, gold = $3, ton_balance = $4, last_harvest = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING `+playerColumns,
		args.ID, args.Goblins, args.Gold, args.TonBalance, args.LastHarvest,
	)
	player, err := scanPlayer(row)
	if err != nil {
		return nil, convertErr(err, "updating balances of player %d", args.ID)
	}
	return player, nil
}

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var p domain.Player
	if err := row.Scan(
		&p.ID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.UserID,
		&p.MemoCode,
		&p.Goblins,
		&p.Gold,
		&p.TonBalance,
		&p.LastHarvest,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &p, nil
}
