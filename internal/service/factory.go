package service

import (
	"fmt"

	"github.com/fsdevblog/goblin-market/pkg/uow"
)

type AppServices struct {
	LedgerService *LedgerService
	MarketService *MarketService
}

func Factory(unitOfWork uow.UOW, notifier MarketNotifier) (*AppServices, error) {
	marketService, marketServiceErr := NewMarketService(unitOfWork, notifier)
	if marketServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", marketServiceErr.Error())
	}

	return &AppServices{
		LedgerService: NewLedgerService(unitOfWork),
		MarketService: marketService,
	}, nil
}
