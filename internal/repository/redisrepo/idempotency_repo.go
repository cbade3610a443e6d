package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix = "goblins:idempotency:"
	// pendingMarker значение ключа, пока первый запрос еще выполняется.
	pendingMarker = "pending"
)

// IdempotencyRepository хранит ответы мутирующих запросов по ключу идемпотентности.
type IdempotencyRepository struct {
	client redis.UniversalClient
}

func NewIdempotencyRepository(client redis.UniversalClient) *IdempotencyRepository {
	return &IdempotencyRepository{client: client}
}

// Reserve занимает ключ на время ttl. Возвращает false, если ключ уже занят или хранит ответ.
func (r *IdempotencyRepository) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, keyPrefix+key, pendingMarker, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: reserve idempotency key: %s", domain.ErrUnknown, err.Error())
	}
	return ok, nil
}

// Get возвращает сохраненный ответ. Ошибки: domain.ErrRecordNotFound если ключа нет,
// domain.ErrRequestInProgress если ключ занят, но ответ еще не сохранен.
func (r *IdempotencyRepository) Get(ctx context.Context, key string) (*domain.StoredResponse, error) {
	raw, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("%w: get idempotency key: %s", domain.ErrUnknown, err.Error())
	}
	if string(raw) == pendingMarker {
		return nil, domain.ErrRequestInProgress
	}

	var resp domain.StoredResponse
	if unmarshalErr := json.Unmarshal(raw, &resp); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: decode stored response: %s", domain.ErrUnknown, unmarshalErr.Error())
	}
	return &resp, nil
}

// Save сохраняет ответ под занятым ключом, время жизни ключа обновляется до ttl.
func (r *IdempotencyRepository) Save(
	ctx context.Context,
	key string,
	resp domain.StoredResponse,
	ttl time.Duration,
) error {
	raw, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		return fmt.Errorf("%w: encode stored response: %s", domain.ErrUnknown, marshalErr.Error())
	}
	if err := r.client.Set(ctx, keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("%w: save idempotency key: %s", domain.ErrUnknown, err.Error())
	}
	return nil
}

// Release освобождает ключ, чтобы запрос можно было повторить.
func (r *IdempotencyRepository) Release(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: release idempotency key: %s", domain.ErrUnknown, err.Error())
	}
	return nil
}
