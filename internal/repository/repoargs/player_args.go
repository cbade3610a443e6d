package repoargs

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreatePlayer struct {
	UserID   string
	MemoCode string
}

// UpdatePlayerBalances новое состояние балансов игрока. Значения абсолютные, вычисляются сервисом
// под блокировкой строки.
type UpdatePlayerBalances struct {
	ID          int64
	Goblins     int64
	Gold        decimal.Decimal
	TonBalance  decimal.Decimal
	LastHarvest time.Time
}
