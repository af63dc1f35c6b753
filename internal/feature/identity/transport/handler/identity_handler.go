// Package handler はidentityフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/transport/http/dto"
	"identity_backend/internal/feature/identity/usecase"
)

// accessCodeAccepted は電話番号の登録有無に関わらず返す固定メッセージです。
const accessCodeAccepted = "if the phone is registered, an access code has been sent"

// IdentityUsecase はidentityフィーチャーのユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type IdentityUsecase interface {
	Register(ctx context.Context, fullName, email, password string) (*entity.User, error)
	RegisterByPhone(ctx context.Context, fullName, phone string) (*entity.User, error)
	Login(ctx context.Context, login, password string) (string, error)
	RequestAccessCode(ctx context.Context, phone string) error
	ChangePassword(ctx context.Context, login, oldPassword, newPassword string) error
	Find(ctx context.Context, login string) (*entity.User, error)
}

// IdentityHandler はユーザー登録・認証のHTTPリクエストを処理します。
type IdentityHandler struct {
	identity IdentityUsecase
}

// NewIdentityHandler はIdentityHandlerの新しいインスタンスを生成します。
func NewIdentityHandler(identity IdentityUsecase) *IdentityHandler {
	return &IdentityHandler{identity: identity}
}

// Register はメールアドレスとパスワードによるユーザー登録を処理します。
// - バリデーションエラー時は400、login重複時は409、成功時は201を返却
func (h *IdentityHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	u, err := h.identity.Register(c.Request.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		writeError(c, "register", err)
		return
	}
	slog.Info("user registration successful", "login", u.Login(), "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserRes(u))
}

// RegisterByPhone は電話番号によるユーザー登録を処理します。
// アクセスコードはレスポンスには含めず、配信経路で送られます。
func (h *IdentityHandler) RegisterByPhone(c *gin.Context) {
	var req dto.RegisterPhoneReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("phone register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	u, err := h.identity.RegisterByPhone(c.Request.Context(), req.FullName, req.Phone)
	if err != nil {
		writeError(c, "phone register", err)
		return
	}
	slog.Info("user registration successful", "login", u.Login(), "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserRes(u))
}

// Login はログインを処理し、成功時にプロフィールを返します。
// ユーザー列挙を防ぐため、失敗理由は区別しません。
func (h *IdentityHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	profile, err := h.identity.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		writeError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, dto.ProfileRes{Profile: profile})
}

// RequestAccessCode はアクセスコードの再発行を受け付けます。
// 未登録の電話番号でも同じ202を返します。
func (h *IdentityHandler) RequestAccessCode(c *gin.Context) {
	var req dto.AccessCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("access code validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.identity.RequestAccessCode(c.Request.Context(), req.Phone); err != nil {
		writeError(c, "access code", err)
		return
	}
	c.JSON(http.StatusAccepted, dto.MessageResponse{Message: accessCodeAccepted})
}

// ChangePassword はパスワード変更を処理します。
func (h *IdentityHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("change password validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err := h.identity.ChangePassword(c.Request.Context(), req.Login, req.OldPassword, req.NewPassword); err != nil {
		writeError(c, "change password", err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "ok"})
}

// Find はloginに対応するユーザーの公開情報を返します。
// - 未登録の場合は404を返却
func (h *IdentityHandler) Find(c *gin.Context) {
	login := strings.TrimSpace(c.Param("login"))
	if login == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "login is required"})
		return
	}
	u, err := h.identity.Find(c.Request.Context(), login)
	if err != nil {
		writeError(c, "find user", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(u))
}

// writeError はドメインエラーをHTTPステータスに変換してレスポンスを書き込みます。
// 想定外のエラーは内容を公開せず500を返します。
func writeError(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	var derr *domain.Error
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		status, msg = http.StatusNotFound, usecase.ErrUserNotFound.Error()
	case errors.As(err, &derr):
		switch {
		case errors.Is(derr, domain.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(derr, domain.ErrConflict):
			status = http.StatusConflict
		case errors.Is(derr, domain.ErrNotAuthenticated):
			status = http.StatusUnauthorized
		case errors.Is(derr, domain.ErrCredentialMismatch):
			status = http.StatusForbidden
		}
		if status != http.StatusInternalServerError {
			msg = derr.Error()
		}
	}

	if status == http.StatusInternalServerError {
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
	} else {
		slog.Warn(op+" failed", "error", err, "remote_addr", c.ClientIP())
	}
	c.JSON(status, dto.ErrorResponse{Error: msg})
}
