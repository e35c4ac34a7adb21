package api

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterOptions configures the middleware stack
type RouterOptions struct {
	ServiceName string
	CORSOrigins []string
}

// NewRouter builds the engine with recovery, tracing, CORS and request
// logging in front of every route.
func NewRouter(h *Handler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(opts.ServiceName))
	router.Use(CORS(opts.CORSOrigins))
	router.Use(RequestLogger(h.logger))

	h.SetupRoutes(router)
	return router
}
