package repoargs

import (
	"time"

	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateHarvest struct {
	PlayerID     int64
	GoldEarned   decimal.Decimal
	GoblinsCount int64
	HarvestedAt  time.Time
}

type CreateTransaction struct {
	PlayerID    int64
	Type        domain.TransactionType
	Amount      decimal.Decimal
	Description string
}

type BatchExecQueryRow func(i int, err error)
