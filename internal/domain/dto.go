package domain

type ListingStatusType string

const (
	ListingStatusActive ListingStatusType = "active"
	ListingStatusSold   ListingStatusType = "sold"
)

type TransactionType string

const (
	TransactionGoblinPurchase TransactionType = "goblin_purchase"
	TransactionGoldExchange   TransactionType = "gold_exchange"
	TransactionListingCreated TransactionType = "listing_created"
	TransactionMarketPurchase TransactionType = "market_purchase"
	TransactionMarketSale     TransactionType = "market_sale"
)

type MarketEventType string

const (
	MarketEventListingCreated MarketEventType = "listing_created"
	MarketEventListingSold    MarketEventType = "listing_sold"
)

const sellerLabelSuffixLen = 4
