package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func statusErrorText(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusNotFound:
		return "not found"
	case http.StatusConflict:
		return "conflict"
	default:
		return "internal server error"
	}
}

// bindErrorText текст ошибки разбора тела запроса. Имя поля берется из json тэга.
func bindErrorText(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}
	fe := validationErrs[0]
	if fe.Tag() == "required" {
		return fe.Field() + " is required"
	}
	return fe.Field() + " is invalid"
}

// AbortWithError прерывает цепочку обработчиков со статусом status. В отличие от
// gin.Context.AbortWithError заголовки не отправляются сразу, тело ответа пишет Errors.
func AbortWithError(c *gin.Context, status int, err error) *gin.Error {
	c.Status(status)
	c.Abort()
	return c.Error(err)
}

// Errors отдает первую ошибку из контекста gin в виде {"error": "..."}. Текст берется из Meta ошибки,
// для публичных ошибок из самой ошибки, для остальных по статусу ответа.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Size() > 0 {
			return
		}

		// обрабатываем только первую ошибку
		firstErr := c.Errors[0]
		var msg string
		if meta, ok := firstErr.Meta.(string); ok && meta != "" {
			msg = meta
		} else {
			switch {
			case firstErr.IsType(gin.ErrorTypeBind):
				msg = bindErrorText(firstErr.Err)
			case firstErr.IsType(gin.ErrorTypePublic):
				msg = firstErr.Error()
			default:
				msg = statusErrorText(c.Writer.Status())
			}
		}

		c.JSON(c.Writer.Status(), gin.H{"error": msg})
		c.Abort()
	}
}
