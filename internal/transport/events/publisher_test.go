package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
)

type PublisherTestSuite struct {
	suite.Suite
	producer *mocks.SyncProducer
	hook     *test.Hook
	pub      *Publisher
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherTestSuite))
}

func (s *PublisherTestSuite) SetupTest() {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	s.producer = mocks.NewSyncProducer(s.T(), cfg)

	l := logrus.New()
	l.SetOutput(io.Discard)
	s.hook = test.NewLocal(l)

	s.pub = NewPublisher(s.producer, "market-events", l)
}

func (s *PublisherTestSuite) TearDownTest() {
	s.Require().NoError(s.pub.Close())
}

func (s *PublisherTestSuite) TestNotify() {
	event := domain.MarketEvent{
		Type:           domain.MarketEventListingSold,
		ListingID:      42,
		SellerID:       1,
		BuyerID:        2,
		GoldAmount:     decimal.NewFromInt(200),
		TotalPrice:     decimal.NewFromInt(10),
		BuyerPaid:      decimal.RequireFromString("10.5"),
		SellerReceived: decimal.RequireFromString("9.5"),
		OccurredAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	s.producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got domain.MarketEvent
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got.Type != event.Type || got.ListingID != event.ListingID {
			return fmt.Errorf("unexpected event %+v", got)
		}
		if !got.BuyerPaid.Equal(event.BuyerPaid) {
			return fmt.Errorf("unexpected buyer paid %s", got.BuyerPaid)
		}
		return nil
	})

	s.pub.Notify(s.T().Context(), event)

	for _, entry := range s.hook.AllEntries() {
		s.NotEqual(logrus.ErrorLevel, entry.Level, entry.Message)
	}
}

func (s *PublisherTestSuite) TestNotify_SendFailure() {
	s.producer.ExpectSendMessageAndFail(errors.New("broker unavailable"))

	s.NotPanics(func() {
		s.pub.Notify(s.T().Context(), domain.MarketEvent{
			Type:      domain.MarketEventListingCreated,
			ListingID: 7,
		})
	})

	entry := s.hook.LastEntry()
	s.Require().NotNil(entry)
	s.Equal(logrus.ErrorLevel, entry.Level)
	s.Equal("failed to publish market event", entry.Message)
	s.Equal(int64(7), entry.Data["listing_id"])
}
