package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oweme/settleup/internal/api/handler"
	"github.com/oweme/settleup/internal/api/middleware"
	"github.com/oweme/settleup/internal/api/spec"
	"github.com/oweme/settleup/internal/config"
	"github.com/oweme/settleup/internal/repository"
	"github.com/oweme/settleup/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type Router struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *pgxpool.Pool
	repo   *repository.Repository
	svc    *service.SettlementService
	redis  redis.Cmdable
}

func NewRouter(cfg *config.Config, logger *zap.Logger, db *pgxpool.Pool, repo *repository.Repository, svc *service.SettlementService, redisClient redis.Cmdable) *Router {
	return &Router{cfg: cfg, logger: logger, db: db, repo: repo, svc: svc, redis: redisClient}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))

	healthHandler := handler.NewHealthHandler(api.db, api.redis)
	settlementHandler := handler.NewSettlementHandler(api.svc, api.repo, api.cfg.ReferenceCurrency)

	r.Get("/healthz/live", healthHandler.Live)
	r.Get("/healthz/ready", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))

		r.Post("/v1/settlements/preview", settlementHandler.Preview)
		r.Get("/v1/groups/{id}/settlements", settlementHandler.GroupSettlements)
		r.Get("/v1/groups/{id}/settlements/explain", settlementHandler.ExplainGroupSettlements)
	})

	return r
}
