package middlewares

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	IdempotencyKeyHeader   = "Idempotency-Key"
	IdempotentReplayHeader = "Idempotent-Replayed"
)

// IdempotencyStore хранилище ключей идемпотентности.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (*domain.StoredResponse, error)
	Save(ctx context.Context, key string, resp domain.StoredResponse, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// bodyWriter копирует тело ответа в буфер.
type bodyWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b) //nolint:wrapcheck
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s) //nolint:wrapcheck
}

// Idempotency повторяет сохраненный ответ для POST запроса с уже использованным заголовком
// Idempotency-Key. Пока первый запрос выполняется, дубликат получает 409. Сохраняются только
// успешные ответы, после ошибки ключ освобождается и запрос можно повторить.
//
// Ключ действует в пределах пути и action. Вместе с ответом сохраняется хеш запроса, повтор ключа
// с другим телом (например другим user_id) получает 422 и не выполняется. Паника обработчика
// освобождает ключ. Если хранилище недоступно, запрос выполняется без защиты.
func Idempotency(store IdempotencyStore, ttl time.Duration, l *logrus.Logger) gin.HandlerFunc {
	log := l.WithField("component", "idempotency")
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		scopedKey := c.Request.URL.Path + "?" + c.Query("action") + ":" + key
		ctx := c.Request.Context()

		fingerprint, readErr := requestFingerprint(c)
		if readErr != nil {
			_ = AbortWithError(c, http.StatusBadRequest, readErr).
				SetType(gin.ErrorTypePublic).
				SetMeta("invalid request body")
			return
		}

		reserved, reserveErr := store.Reserve(ctx, scopedKey, ttl)
		if reserveErr != nil {
			log.WithError(reserveErr).Warn("idempotency store unavailable")
			c.Next()
			return
		}

		if !reserved {
			stored, getErr := store.Get(ctx, scopedKey)
			switch {
			case getErr == nil && stored.Fingerprint != fingerprint:
				_ = AbortWithError(c, http.StatusUnprocessableEntity, domain.ErrIdempotencyKeyReused).
					SetType(gin.ErrorTypePublic).
					SetMeta("idempotency key was already used with a different request")
			case getErr == nil:
				c.Header(IdempotentReplayHeader, "true")
				c.Data(stored.Status, stored.ContentType, stored.Body)
				c.Abort()
			case errors.Is(getErr, domain.ErrRequestInProgress):
				_ = AbortWithError(c, http.StatusConflict, getErr).
					SetType(gin.ErrorTypePublic).
					SetMeta("request with this idempotency key is in progress")
			default:
				// ключ истек между вызовами или хранилище недоступно
				log.WithError(getErr).Warn("stored response lookup failed")
				c.Next()
			}
			return
		}

		// ответ уже отдан клиенту, сохранение не должно зависеть от его соединения
		storeCtx := context.WithoutCancel(ctx)

		defer func() {
			if r := recover(); r != nil {
				if err := store.Release(storeCtx, scopedKey); err != nil {
					log.WithError(err).Warn("failed to release idempotency key")
				}
				panic(r)
			}
		}()

		writer := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Next()
		c.Writer = writer.ResponseWriter

		status := writer.Status()
		if len(c.Errors) > 0 || status < http.StatusOK || status >= http.StatusMultipleChoices {
			if err := store.Release(storeCtx, scopedKey); err != nil {
				log.WithError(err).Warn("failed to release idempotency key")
			}
			return
		}

		if err := store.Save(storeCtx, scopedKey, domain.StoredResponse{
			Status:      status,
			ContentType: writer.Header().Get("Content-Type"),
			Body:        writer.body.Bytes(),
			Fingerprint: fingerprint,
		}, ttl); err != nil {
			log.WithError(err).Error("failed to save idempotent response")
		}
	}
}

// requestFingerprint хеширует метод, путь, action и тело запроса. Тело возвращается в запрос
// для последующего биндинга.
func requestFingerprint(c *gin.Context) (string, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return "", err //nolint:wrapcheck
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	h := sha256.New()
	h.Write([]byte(c.Request.Method + " " + c.Request.URL.Path + "?" + c.Query("action") + "\n"))
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil)), nil
}
