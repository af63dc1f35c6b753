package router

import (
	"github.com/gin-gonic/gin"

	identityhandler "identity_backend/internal/feature/identity/transport/handler"
)

func NewRouter(identity *identityhandler.IdentityHandler, health gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	// 導通確認用（ストアへの疎通も確認）
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	v1 := r.Group("/v1")
	{
		// 新規ユーザー登録（メール＋パスワード）
		v1.POST("/users", identity.Register)
		// 新規ユーザー登録（電話番号、アクセスコードを配信）
		v1.POST("/users/phone", identity.RegisterByPhone)
		// ログイン（プロフィールを返却）
		v1.POST("/login", identity.Login)
		// アクセスコード再発行
		v1.POST("/access-codes", identity.RequestAccessCode)
		// パスワード変更
		v1.PUT("/password", identity.ChangePassword)
		// ユーザー参照（公開情報のみ）
		v1.GET("/users/:login", identity.Find)
	}

	return r
}
