package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	// GoldPerGoblinHour добыча золота одним гоблином за полный час.
	GoldPerGoblinHour = decimal.RequireFromString("0.014")

	// MinGoldAmount минимальный объем золота для обмена и для объявления на маркете.
	MinGoldAmount = decimal.NewFromInt(100) //nolint:mnd

	// ExchangeGoblinsPer100Gold сколько гоблинов выдается за каждые 100 кг золота.
	ExchangeGoblinsPer100Gold = decimal.NewFromInt(95) //nolint:mnd

	// BuyerFeeRate и SellerFeeRate комиссии маркета. Платформа удерживает обе.
	BuyerFeeRate  = decimal.RequireFromString("0.05")
	SellerFeeRate = decimal.RequireFromString("0.05")
)

// ActiveListingsLimit сколько активных объявлений отдает витрина.
const ActiveListingsLimit uint = 50

type GoblinPackage struct {
	Name    string
	Goblins int64
	Price   decimal.Decimal
}

var goblinPackages = map[string]GoblinPackage{
	"small": {Name: "small", Goblins: 3000, Price: decimal.NewFromInt(1)},  //nolint:mnd
	"large": {Name: "large", Goblins: 15000, Price: decimal.NewFromInt(5)}, //nolint:mnd
}

// FindGoblinPackage возвращает пакет гоблинов по имени или ErrUnknownPackage.
func FindGoblinPackage(name string) (GoblinPackage, error) {
	pkg, ok := goblinPackages[name]
	if !ok {
		return GoblinPackage{}, ErrUnknownPackage
	}
	return pkg, nil
}

// HarvestYield считает золото, накопленное с lastHarvest до now. Учитываются только полные часы,
// остаток неполного часа не начисляется.
func HarvestYield(goblins int64, lastHarvest, now time.Time) (int64, decimal.Decimal) {
	hours := int64(now.Sub(lastHarvest) / time.Hour)
	if hours < 1 {
		return 0, decimal.Zero
	}
	earned := decimal.NewFromInt(goblins).Mul(GoldPerGoblinHour).Mul(decimal.NewFromInt(hours))
	return hours, earned
}

// ExchangeGoblins количество гоблинов за goldAmount золота, округленное вниз.
func ExchangeGoblins(goldAmount decimal.Decimal) int64 {
	return goldAmount.Mul(ExchangeGoblinsPer100Gold).Div(MinGoldAmount).Floor().IntPart()
}

type Settlement struct {
	BuyerFee       decimal.Decimal
	BuyerPays      decimal.Decimal
	SellerFee      decimal.Decimal
	SellerReceives decimal.Decimal
}

// SettleListing раскладывает total price объявления на платеж покупателя и выплату продавцу.
func SettleListing(totalPrice decimal.Decimal) Settlement {
	buyerFee := totalPrice.Mul(BuyerFeeRate)
	sellerFee := totalPrice.Mul(SellerFeeRate)
	return Settlement{
		BuyerFee:       buyerFee,
		BuyerPays:      totalPrice.Add(buyerFee),
		SellerFee:      sellerFee,
		SellerReceives: totalPrice.Sub(sellerFee),
	}
}
