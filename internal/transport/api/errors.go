package api

import (
	"errors"
	"net/http"

	"github.com/fsdevblog/goblin-market/internal/domain"
	"github.com/fsdevblog/goblin-market/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

var errEndpointNotFound = errors.New("endpoint not found")

// publicMessages текст ошибки для клиента. Порядок важен: производные ошибки проверяются раньше корневых.
var publicMessages = []struct { //nolint:gochecknoglobals
	err error
	msg string
}{
	{domain.ErrUnknownPackage, "invalid package"},
	{domain.ErrAmountBelowMinimum, "minimum is 100 kg of gold"},
	{domain.ErrNonPositivePrice, "price must be greater than 0"},
	{domain.ErrSelfTrade, "cannot buy your own listing"},
	{domain.ErrPlayerNotFound, "player not found"},
	{domain.ErrListingNotFound, "listing not found"},
	{domain.ErrListingNotActive, "listing is no longer active"},
	{domain.ErrNotEnoughGold, "not enough gold"},
	{domain.ErrRecordNotFound, "not found"},
	{domain.ErrInsufficientFunds, "insufficient funds"},
	{domain.ErrValidation, "bad request"},
	{domain.ErrInvalidState, "invalid state"},
}

// serviceErrorStatus сопоставляет ошибку сервиса со статусом ответа и текстом для клиента.
// Внутренние ошибки отдаются клиенту как есть.
func serviceErrorStatus(err error) (int, string) {
	var fundsErr *domain.InsufficientFundsError
	if errors.As(err, &fundsErr) {
		return http.StatusBadRequest, fundsErr.Error()
	}

	var status int
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidState):
		status = http.StatusBadRequest
	default:
		return http.StatusInternalServerError, err.Error()
	}

	for _, pm := range publicMessages {
		if errors.Is(err, pm.err) {
			return status, pm.msg
		}
	}
	return status, err.Error()
}

func abortWithServiceError(c *gin.Context, err error) {
	status, msg := serviceErrorStatus(err)
	_ = middlewares.AbortWithError(c, status, err).SetType(gin.ErrorTypePublic).SetMeta(msg)
}
