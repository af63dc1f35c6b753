package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
)

// UserRepository はloginをキーとしたユーザーの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーを永続化します。
	// 同じloginのユーザーが既に存在する場合、ErrLoginAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByLogin は指定されたloginに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByLogin(ctx context.Context, login string) (*entity.User, error)

	// Update はloginで特定される保存済みユーザーを上書きします。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	Update(ctx context.Context, user *entity.User) error

	// DeleteAll は全ユーザーを削除します。
	DeleteAll(ctx context.Context) error
}

// Registry はユーザー登録と認証のビジネスロジックを実装します。
// リポジトリに対する読み取り→更新の一連の処理はmutexで直列化します。
type Registry struct {
	mu     sync.Mutex
	users  UserRepository
	engine *entity.CredentialEngine
	log    *slog.Logger
}

// NewRegistry はRegistryの新しいインスタンスを生成します。
// loggerがnilの場合はslog.Defaultを使います。
func NewRegistry(users UserRepository, engine *entity.CredentialEngine, log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{users: users, engine: engine, log: log}
}

// Register はメールアドレスとパスワードで認証するユーザーを登録します。
func (r *Registry) Register(ctx context.Context, fullName, email, password string) (*entity.User, error) {
	first, last, err := entity.ParseFullName(fullName)
	if err != nil {
		return nil, err
	}
	u, err := r.engine.Build(entity.Request{
		Method:    entity.ViaEmail,
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return nil, err
	}
	if err := r.insert(ctx, u); err != nil {
		return nil, err
	}
	r.log.Info("user registered", "login", u.Login(), "method", entity.ViaEmail.String())
	return u, nil
}

// RegisterByPhone はアクセスコードで認証するユーザーを登録します。
// 保存が完了してから最初のコードを配信します。
func (r *Registry) RegisterByPhone(ctx context.Context, fullName, phone string) (*entity.User, error) {
	first, last, err := entity.ParseFullName(fullName)
	if err != nil {
		return nil, err
	}
	u, err := r.engine.Build(entity.Request{
		Method:    entity.ViaPhone,
		FirstName: first,
		LastName:  last,
		Phone:     phone,
	})
	if err != nil {
		return nil, err
	}
	if err := r.insert(ctx, u); err != nil {
		return nil, err
	}
	r.log.Info("user registered", "login", u.Login(), "method", entity.ViaPhone.String())
	r.deliver(ctx, u, u.AccessCode())
	return u, nil
}

// Import は一括インポートの1レコードからユーザーを復元します。
func (r *Registry) Import(ctx context.Context, record string) (*entity.User, error) {
	req, err := ParseRecord(record)
	if err != nil {
		return nil, err
	}
	u, err := r.engine.Build(req)
	if err != nil {
		return nil, err
	}
	if err := r.insert(ctx, u); err != nil {
		return nil, err
	}
	if code := u.AccessCode(); code != "" {
		r.deliver(ctx, u, code)
	}
	return u, nil
}

func (r *Registry) insert(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrLoginAlreadyExists) {
			r.log.Warn("registration rejected: duplicate login", "login", u.Login())
			return domain.Conflict(u.Login(), err)
		}
		return fmt.Errorf("create user %q: %w", u.Login(), err)
	}
	return nil
}

// Login はloginとパスワードを検証し、成功時にプロフィールを返します。
// loginはトリムした値、小文字化した値、電話番号として正規化した値の順に試します。
// ユーザー列挙を防ぐため、未登録とパスワード不一致はどちらもdomain.ErrNotAuthenticatedを返します。
func (r *Registry) Login(ctx context.Context, login, password string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.findMatching(ctx, login, password)
	if err != nil {
		return "", err
	}
	if u == nil {
		r.log.Warn("login failed", "login", strings.TrimSpace(login))
		return "", domain.ErrNotAuthenticated
	}
	return u.Profile(), nil
}

// ChangePassword はloginで特定されるユーザーのパスワードを変更します。
// 未登録のloginは旧パスワード不一致と同じエラーを返します。
func (r *Registry) ChangePassword(ctx context.Context, login, oldPassword, newPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.findMatching(ctx, login, oldPassword)
	if err != nil {
		return err
	}
	if u == nil {
		r.log.Warn("password change rejected", "login", strings.TrimSpace(login))
		return domain.ErrCredentialMismatch
	}
	if err := r.engine.ChangePassword(u, oldPassword, newPassword); err != nil {
		return err
	}
	if err := r.users.Update(ctx, u); err != nil {
		return fmt.Errorf("update user %q: %w", u.Login(), err)
	}
	r.log.Info("password changed", "login", u.Login())
	return nil
}

// RequestAccessCode は電話番号で登録されたユーザーに新しいアクセスコードを発行・配信します。
// アカウントの有無を推測されないよう、未登録の電話番号は何もせずnilを返します。
func (r *Registry) RequestAccessCode(ctx context.Context, phone string) error {
	normalized := entity.NormalizePhone(phone)

	r.mu.Lock()
	u, err := r.users.FindByLogin(ctx, normalized)
	if err != nil {
		r.mu.Unlock()
		if errors.Is(err, ErrUserNotFound) {
			r.log.Warn("access code requested for unknown phone", "phone", normalized)
			return nil
		}
		return fmt.Errorf("find user %q: %w", normalized, err)
	}
	code, err := r.engine.IssueAccessCode(u)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	if err := r.users.Update(ctx, u); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("update user %q: %w", u.Login(), err)
	}
	r.mu.Unlock()

	r.deliver(ctx, u, code)
	return nil
}

// Find はloginに一致するユーザーを取得します。候補の試し方はLoginと同じです。
func (r *Registry) Find(ctx context.Context, login string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, candidate := range loginCandidates(login) {
		u, err := r.users.FindByLogin(ctx, candidate)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("find user %q: %w", candidate, err)
		}
	}
	return nil, ErrUserNotFound
}

// Clear は登録済みの全ユーザーを削除します。
func (r *Registry) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.users.DeleteAll(ctx); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}
	r.log.Info("registry cleared")
	return nil
}

// findMatching はloginの候補のうち、パスワードが一致する最初のユーザーを返します。
// 該当がなければnilを返します。呼び出し側はr.muを保持していること。
func (r *Registry) findMatching(ctx context.Context, login, password string) (*entity.User, error) {
	for _, candidate := range loginCandidates(login) {
		u, err := r.users.FindByLogin(ctx, candidate)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				continue
			}
			return nil, fmt.Errorf("find user %q: %w", candidate, err)
		}
		if u.CheckPassword(password) {
			return u, nil
		}
	}
	return nil, nil
}

// deliver はエンジンのCourier経由でコードを配信します。
// 失敗はログに残すのみで、呼び出し元の結果には影響させません。
func (r *Registry) deliver(ctx context.Context, u *entity.User, code string) {
	if err := r.engine.Deliver(ctx, u, code); err != nil {
		r.log.Error("access code delivery failed", "login", u.Login(), "error", err)
	}
}

// loginCandidates はloginの検索キー候補（重複・空を除く）を返します。
func loginCandidates(login string) []string {
	trimmed := strings.TrimSpace(login)
	forms := []string{trimmed, strings.ToLower(trimmed), entity.NormalizePhone(trimmed)}

	out := make([]string, 0, len(forms))
	for _, f := range forms {
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}
