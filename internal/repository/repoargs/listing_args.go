package repoargs

import "github.com/shopspring/decimal"

type CreateListing struct {
	SellerID   int64
	GoldAmount decimal.Decimal
	PricePerKg decimal.Decimal
	TotalPrice decimal.Decimal
}
