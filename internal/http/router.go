package http

import (
	"net/http"

	"service-schedule/internal/http/handlers"
)

type Router struct {
	mux *http.ServeMux
}

func NewRouter(scheduleHandler *handlers.ScheduleHandler, substitutionHandler *handlers.SubstitutionHandler) *Router {
	mux := http.NewServeMux()
	scheduleHandler.Register(mux)
	substitutionHandler.Register(mux)

	return &Router{mux: mux}
}

func (r *Router) Handler() http.Handler {
	return r.mux
}
