package api

import (
	"net/http"

	"github.com/fsdevblog/goblin-market/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

const ActionParam = "action"

type action struct {
	method  string
	handler gin.HandlerFunc
}

// actionDispatcher выбирает обработчик по query параметру action. Без параметра используется
// fallback. Неизвестное действие и действие с чужим методом дают 404.
type actionDispatcher struct {
	fallback string
	actions  map[string]action
}

func newActionDispatcher(fallback string) *actionDispatcher {
	return &actionDispatcher{
		fallback: fallback,
		actions:  make(map[string]action),
	}
}

func (d *actionDispatcher) handle(name, method string, handler gin.HandlerFunc) *actionDispatcher {
	d.actions[name] = action{method: method, handler: handler}
	return d
}

func (d *actionDispatcher) Dispatch(c *gin.Context) {
	name := c.DefaultQuery(ActionParam, d.fallback)
	act, ok := d.actions[name]
	if !ok || act.method != c.Request.Method {
		_ = middlewares.AbortWithError(c, http.StatusNotFound, errEndpointNotFound).SetType(gin.ErrorTypePublic)
		return
	}
	act.handler(c)
}
