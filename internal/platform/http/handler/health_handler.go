// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// pingTimeout はストア疎通確認の最大待ち時間です。
const pingTimeout = 2 * time.Second

// Pinger はヘルスチェック対象（ユーザーストアなど）の疎通確認を定義します。
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealth は /healthz エンドポイント用のハンドラーを返します。
// pinger が nil の場合はプロセスの生存のみを返します。
func NewHealth(pinger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		status := http.StatusOK
		body := gin.H{"status": "ok"}
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			defer cancel()
			if err := pinger.Ping(ctx); err != nil {
				slog.Warn("health check failed", "error", err, "remote_addr", c.ClientIP())
				status = http.StatusServiceUnavailable
				body = gin.H{"status": "unavailable"}
			}
		}

		// HEAD はボディなしでステータスのみ返す
		if c.Request.Method == http.MethodHead {
			c.Status(status)
			return
		}
		c.JSON(status, body)
	}
}
