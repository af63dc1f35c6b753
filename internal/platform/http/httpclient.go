// Package http は外部サービス（SMSゲートウェイなど）呼び出し用のHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// ClientConfig はHTTPクライアントの接続設定です。ゼロ値の項目はデフォルトを使います。
type ClientConfig struct {
	Timeout             time.Duration // リクエスト全体のタイムアウト
	DialTimeout         time.Duration // TCP接続タイムアウト（デフォルト5秒）
	TLSHandshakeTimeout time.Duration // HTTPSハンドシェイクの最大時間（デフォルト5秒）
	MaxIdleConns        int           // 最大アイドル接続数（デフォルト100）
}

// NewHTTPClient は外部API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
//   - Proxy は環境変数（HTTP_PROXYなど）に従う
func NewHTTPClient(cfg ClientConfig) *http.Client {
	dialTimeout := orDefault(cfg.DialTimeout, 5*time.Second)
	tlsTimeout := orDefault(cfg.TLSHandshakeTimeout, 5*time.Second)
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 100
	}

	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        maxIdle,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: tlsTimeout,
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: t}
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
