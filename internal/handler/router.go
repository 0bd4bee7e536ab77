package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/snehasish51/cartify-backend/internal/auth"
	"github.com/snehasish51/cartify-backend/internal/metrics"
	"github.com/snehasish51/cartify-backend/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger             *slog.Logger
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter
	TokenVerifier      auth.TokenVerifier

	// メトリクス。Metricsがnilの場合は/metricsを公開しない
	Metrics         *metrics.Collector
	MetricsGatherer prometheus.Gatherer

	// ヘルスチェック（任意）
	HealthChecker HealthChecker

	CategoryService CategoryServiceInterface
	UserService     UserServiceInterface
	ProductService  ProductServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Logging → Recovery → SecurityHeaders → CORS → Metrics → RateLimit(General)
//
// /users/me は認証ミドルウェアを通す。作成系のPOSTには作成用のレート制限を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))

	var authRecorder middleware.AuthFailureRecorder
	if deps.Metrics != nil {
		r.Use(metrics.HTTPMiddleware(deps.Metrics))
		authRecorder = deps.Metrics
	}

	healthHandler := NewHealthHandler(deps.HealthChecker)
	categoryHandler := NewCategoryHandler(deps.CategoryService)
	userHandler := NewUserHandler(deps.UserService)
	productHandler := NewProductHandler(deps.ProductService)

	// --- レート制限の対象外 ---
	r.Get("/health", healthHandler.Health)
	if deps.Metrics != nil && deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- 未認証ルート: 接続元IP単位で制限 ---
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/", healthHandler.Root)
		r.Get("/categories", categoryHandler.ListCategories)
		r.With(deps.RateLimiter.CreateMiddleware()).Post("/users", userHandler.Register)
		r.With(deps.RateLimiter.CreateMiddleware()).Post("/products", productHandler.CreateProduct)
	})

	// --- 認証済みルート: 認証後にuid単位で制限 ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenVerifier, authRecorder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/users/me", userHandler.Me)
		r.Patch("/users/me", userHandler.UpdateMe)
	})

	return r
}
