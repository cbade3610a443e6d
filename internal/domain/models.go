package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Player struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	UserID      string
	MemoCode    string
	Goblins     int64
	Gold        decimal.Decimal
	TonBalance  decimal.Decimal
	LastHarvest time.Time
}

type Listing struct {
	ID         int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
	SellerID   int64
	GoldAmount decimal.Decimal
	PricePerKg decimal.Decimal
	TotalPrice decimal.Decimal
	Status     ListingStatusType
}

// ListingView активное объявление вместе с внешним идентификатором продавца, как его отдает витрина маркета.
type ListingView struct {
	Listing
	SellerUserID string
}

// SellerLabel псевдоним продавца: "Player#" и последние 4 символа его внешнего id. Псевдоним не уникален.
func (v ListingView) SellerLabel() string {
	r := []rune(v.SellerUserID)
	if len(r) > sellerLabelSuffixLen {
		r = r[len(r)-sellerLabelSuffixLen:]
	}
	return "Player#" + string(r)
}

type GoldHarvest struct {
	ID           int64
	PlayerID     int64
	GoldEarned   decimal.Decimal
	GoblinsCount int64
	HarvestedAt  time.Time
}

type Transaction struct {
	ID          int64
	CreatedAt   time.Time
	PlayerID    int64
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
}

// MarketEvent событие маркета, публикуемое после коммита транзакции.
type MarketEvent struct {
	Type           MarketEventType `json:"type"`
	ListingID      int64           `json:"listing_id"`
	SellerID       int64           `json:"seller_id"`
	BuyerID        int64           `json:"buyer_id,omitempty"`
	GoldAmount     decimal.Decimal `json:"gold_amount"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	BuyerPaid      decimal.Decimal `json:"buyer_paid"`
	SellerReceived decimal.Decimal `json:"seller_received"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// StoredResponse ответ мутирующего запроса, сохраненный под ключом идемпотентности.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
	// Fingerprint хеш запроса, на который получен ответ. Повтор ключа с другим запросом отклоняется.
	Fingerprint string `json:"fingerprint"`
}
