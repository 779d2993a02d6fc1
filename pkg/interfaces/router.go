package interfaces

import (
	"github.com/gorilla/mux"
)

type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// NewRouter mounts every handler behind the request ID, access log and
// recovery middleware.
func NewRouter(handlers ...RouteRegistrar) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, AccessLogMiddleware, RecoveryMiddleware)
	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	return router
}
