package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/snehasish51/cartify-backend/internal/middleware"
)

// rootMessage はGET / が返す死活確認用のテキスト。
const rootMessage = "Hello from Cartify API!"

// healthCheckTimeout はストアへの疎通確認のタイムアウト。
const healthCheckTimeout = 2 * time.Second

// HealthChecker はストアの疎通確認インターフェース。*sql.DBが満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// HealthHandler は死活監視のHTTPハンドラー。
type HealthHandler struct {
	checker   HealthChecker
	startedAt time.Time
}

// NewHealthHandler はHealthHandlerを生成する。checkerがnilの場合は疎通確認を省略する。
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker, startedAt: time.Now()}
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Root は固定テキストを返す。
// GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rootMessage))
}

// Health はプロセスとストアの状態を返す。
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status: "ok",
		Uptime: time.Since(h.startedAt).Round(time.Second).String(),
	}

	if h.checker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.checker.PingContext(ctx); err != nil {
			slog.Warn("health check failed", slog.String("error", err.Error()))
			resp.Status = "unavailable"
			middleware.WriteJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	middleware.WriteJSON(w, http.StatusOK, resp)
}
