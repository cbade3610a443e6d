package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/sirupsen/logrus"
)

const maxSendRetries = 3

// Publisher отправляет события маркета в kafka. Ключ сообщения id объявления, поэтому события
// одного объявления попадают в одну партицию в порядке отправки.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
	l        *logrus.Entry
}

// NewProducer создает синхронного продюсера, дожидающегося подтверждения всех реплик.
func NewProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = maxSendRetries
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

func NewPublisher(producer sarama.SyncProducer, topic string, l *logrus.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		l:        l.WithField("component", "market-events"),
	}
}

// Notify публикует событие. Сделка к этому моменту уже закоммичена, поэтому ошибка доставки
// только логируется.
func (p *Publisher) Notify(_ context.Context, event domain.MarketEvent) {
	log := p.l.WithFields(logrus.Fields{
		"type":       event.Type,
		"listing_id": event.ListingID,
	})

	payload, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		log.WithError(marshalErr).Error("failed to encode market event")
		return
	}

	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.ListingID, 10)),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		log.WithError(err).Error("failed to publish market event")
		return
	}
	log.WithFields(logrus.Fields{
		"partition": partition,
		"offset":    offset,
	}).Debug("market event published")
}

func (p *Publisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("close kafka producer: %w", err)
	}
	return nil
}
