package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/souvenir-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(provider *handlers.Provider) *Routes {
	return &Routes{handlers: provider}
}

// Register attaches the v1 routes plus the stage path the browser client
// was originally deployed against.
func (r *Routes) Register(router gin.IRouter) {
	group := router.Group("/v1")
	group.POST("/souvenirs", r.handlers.Souvenir.Consult)

	router.POST("/consult-souvenir", r.handlers.Souvenir.Consult)
}
