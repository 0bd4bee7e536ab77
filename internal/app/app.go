package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/snehasish51/cartify-backend/internal/auth"
	"github.com/snehasish51/cartify-backend/internal/cache"
	"github.com/snehasish51/cartify-backend/internal/category"
	"github.com/snehasish51/cartify-backend/internal/config"
	"github.com/snehasish51/cartify-backend/internal/database"
	"github.com/snehasish51/cartify-backend/internal/events"
	"github.com/snehasish51/cartify-backend/internal/firebaseapp"
	"github.com/snehasish51/cartify-backend/internal/handler"
	"github.com/snehasish51/cartify-backend/internal/logger"
	"github.com/snehasish51/cartify-backend/internal/metrics"
	"github.com/snehasish51/cartify-backend/internal/middleware"
	"github.com/snehasish51/cartify-backend/internal/product"
	"github.com/snehasish51/cartify-backend/internal/repository"
	"github.com/snehasish51/cartify-backend/internal/security"
	"github.com/snehasish51/cartify-backend/internal/user"
)

// 外部サービスへの起動時接続確認のタイムアウト
const startupPingTimeout = 5 * time.Second

// Init はアプリケーションの初期化を行う。
// .envと環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, slog.LevelInfo)

	// 2. 環境変数から設定を読み込む
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルで再設定する
	logger.SetupDefault(w, cfg.LogLevelValue())

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	inv, err := ParseCommand(args)
	if err != nil {
		Usage(w)
		return err
	}
	cmd := inv.Command

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		return runHealthcheck(inv.healthcheckPort())
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("store_backend", cfg.StoreBackend),
	)

	switch cmd {
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// stores はストアバックエンドごとのリポジトリ群。
type stores struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	products   repository.ProductRepository
	health     handler.HealthChecker
	close      func()
}

// openStores はSTORE_BACKENDに応じてリポジトリを構築する。
func openStores(ctx context.Context, cfg *config.Config, clients *firebaseapp.Clients) (*stores, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Ping(ctx, db, startupPingTimeout); err != nil {
			db.Close()
			return nil, err
		}
		slog.Info("database connection established")
		return &stores{
			users:      repository.NewPostgresUserRepo(db),
			categories: repository.NewPostgresCategoryRepo(db),
			products:   repository.NewPostgresProductRepo(db),
			health:     db,
			close:      func() { db.Close() },
		}, nil
	case config.BackendFirestore:
		if clients.Firestore == nil {
			return nil, errors.New("firestore client is not initialized")
		}
		return &stores{
			users:      repository.NewFirestoreUserRepo(clients.Firestore),
			categories: repository.NewFirestoreCategoryRepo(clients.Firestore),
			products:   repository.NewFirestoreProductRepo(clients.Firestore),
			close:      func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %q", cfg.StoreBackend)
	}
}

// newPublisher はAMQP_URLが設定されていればRabbitMQのPublisherを返す。
// 接続できない場合はイベント発行を無効にして起動を続ける。
func newPublisher(cfg *config.Config) (events.Publisher, func()) {
	if cfg.AMQPURL == "" {
		return events.NopPublisher{}, func() {}
	}

	pub, err := events.DialRabbit(cfg.AMQPURL, cfg.EventsExchange)
	if err != nil {
		slog.Warn("event publishing disabled: rabbitmq unavailable", slog.String("error", err.Error()))
		return events.NopPublisher{}, func() {}
	}

	slog.Info("event publisher connected", slog.String("exchange", cfg.EventsExchange))
	return pub, func() {
		if err := pub.Close(); err != nil {
			slog.Warn("failed to close event publisher", slog.String("error", err.Error()))
		}
	}
}

// withCategoryCache はREDIS_ADDRが設定されていればカテゴリ一覧をキャッシュする。
// 起動時にRedisへ接続できなくてもキャッシュ層は有効にする（障害時はストアへフォールバックする）。
func withCategoryCache(ctx context.Context, cfg *config.Config, next repository.CategoryRepository, recorder repository.CacheRecorder) (repository.CategoryRepository, func()) {
	if cfg.RedisAddr == "" {
		return next, func() {}
	}

	rdb := cache.NewRedis(cfg.RedisAddr)
	pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		slog.Warn("redis unreachable at startup; category cache will fall back to the store",
			slog.String("addr", cfg.RedisAddr),
			slog.String("error", err.Error()),
		)
	}

	return repository.NewCachedCategoryRepo(next, rdb, cfg.CategoryCacheTTL, recorder), func() {
		if err := rdb.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}
}

// newMetrics はMETRICS_ENABLEDの場合にレジストリとCollectorを生成する。
func newMetrics(cfg *config.Config) (*metrics.Collector, *prometheus.Registry) {
	if !cfg.MetricsEnabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.NewCollector(reg), reg
}

// runServe はAPIサーバーモードで起動する。
// Firebaseとストアに接続し、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	ctx := context.Background()

	// 1. Firebase（IdPとFirestore）
	clients, err := firebaseapp.New(ctx, cfg.FirebaseKey, cfg.FirebaseProjectID, cfg.StoreBackend == config.BackendFirestore)
	if err != nil {
		return err
	}
	defer clients.Close()
	provider := auth.NewFirebaseProvider(clients.Auth, cfg.AuthCheckRevoked)

	// 2. リポジトリの初期化
	st, err := openStores(ctx, cfg, clients)
	if err != nil {
		return err
	}
	defer st.close()

	// 3. メトリクス。Collectorがnilの場合に型付きnilを渡さないよう個別に代入する
	collector, registry := newMetrics(cfg)
	var (
		cacheRecorder   repository.CacheRecorder
		userRecorder    user.RegistrationRecorder
		productRecorder product.CreationRecorder
		gatherer        prometheus.Gatherer
	)
	if collector != nil {
		cacheRecorder, userRecorder, productRecorder = collector, collector, collector
		gatherer = registry
	}

	// 4. キャッシュとイベント
	categories, closeCache := withCategoryCache(ctx, cfg, st.categories, cacheRecorder)
	defer closeCache()

	publisher, closePublisher := newPublisher(cfg)
	defer closePublisher()
	if collector != nil {
		publisher = events.WithRecorder(publisher, collector)
	}

	// 5. セキュリティサービスの初期化
	urlGuard := security.NewURLGuard()
	var prober product.ImageProber
	if cfg.ProductImageProbe {
		prober = security.NewImageProber(urlGuard, cfg.ProductImageProbeTimeout)
	}
	var sanitizer product.Sanitizer
	if cfg.ProductSanitizeDescription {
		sanitizer = security.NewDescriptionSanitizer()
	}

	// 6. ドメインサービスの初期化
	categoryService := category.NewService(categories)
	userService := user.NewService(st.users, provider, publisher, userRecorder)
	productService := product.NewService(
		st.products, sanitizer, urlGuard,
		prober, publisher, productRecorder,
	)

	// 7. ルーターの構築（req/min -> req/sec に変換）
	rateLimiter := middleware.NewRateLimiter(
		middleware.RateLimiterConfigPerMinute(cfg.RateLimitGeneral, cfg.RateLimitCreate),
	)
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:             slog.Default(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        rateLimiter,
		TokenVerifier:      provider,
		Metrics:            collector,
		MetricsGatherer:    gatherer,
		HealthChecker:      st.health,
		CategoryService:    categoryService,
		UserService:        userService,
		ProductService:     productService,
	})

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		return fmt.Errorf("server listen error: %w", err)
	}
	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate はPostgreSQLバックエンドのマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if cfg.StoreBackend != config.BackendPostgres {
		return fmt.Errorf("migrate requires STORE_BACKEND=%s (current: %s)", config.BackendPostgres, cfg.StoreBackend)
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, dirty, err := database.CurrentVersion(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	slog.Info("database migrations completed successfully",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	target := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
