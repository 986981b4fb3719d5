package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/sales-dashboard/internal/handlers"
	"github.com/GregMSThompson/sales-dashboard/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(lm.LoggerMiddleware)
	r.Use(lm.AccessLog)
	r.Use(chimiddleware.Recoverer)

	dh := handlers.NewDashboardHandlers(deps)
	bh := handlers.NewBoardHandlers(deps)

	r.Get("/", bh.GetBoard)
	r.Get("/deals", dh.GetDeals)
	r.Get("/healthz", dh.Healthz)

	if deps.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(deps.StaticDir)))
		r.Handle("/static/*", fs)
	}
	return r
}
