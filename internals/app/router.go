package app

import (
	"context"
	"net/http"
	"time"

	middle "uptime-monitor/internals/middleware"
	"uptime-monitor/internals/modules/result"
	"uptime-monitor/internals/modules/schedule"
	"uptime-monitor/internals/modules/site"
	"uptime-monitor/internals/modules/user"
	"uptime-monitor/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func RegisterRoutes(c *Container) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middle.Logger(c.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   c.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", c.healthz)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Mount("/users", user.Routes(c.userHandler, c.authMW))

		v1.Group(func(p chi.Router) {
			p.Use(c.authMW.Handle)

			p.Mount("/sites", site.Routes(c.siteHandler))
			p.Mount("/schedule-items", schedule.Routes(c.scheduleHandler))
			p.Mount("/sites-history", result.Routes(c.historyHandler))
		})
	})

	return r
}

type healthResponse struct {
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
	AMQP     string `json:"amqp"`
}

func (c *Container) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), c.Cfg.DB.HealthTimeout)
	defer cancel()

	resp := healthResponse{Postgres: "ok", Redis: "ok", AMQP: "ok"}
	status := http.StatusOK

	if err := c.DB.Ping(ctx); err != nil {
		resp.Postgres, status = err.Error(), http.StatusServiceUnavailable
	}
	if err := c.RedisClient.Ping(ctx); err != nil {
		resp.Redis, status = err.Error(), http.StatusServiceUnavailable
	}
	if c.AMQP == nil || c.AMQP.IsClosed() {
		resp.AMQP, status = "closed", http.StatusServiceUnavailable
	}

	utils.WriteJSON(w, status, middleware.GetReqID(r.Context()), "", resp)
}
