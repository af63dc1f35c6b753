// Package adapters はidentityフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/usecase"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のSQLSTATEです。
const pgUniqueViolation = "23505"

// updatableColumns はUpdateで上書きする列です。IDとloginは不変です。
var updatableColumns = []string{
	"first_name", "last_name", "email", "phone",
	"salt", "password_hash", "access_code", "meta", "updated_at",
}

// userGorm はUserRepositoryインターフェースのGORM実装です。
// SQLiteとPostgreSQLの両方で動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// 同じloginのユーザーが既に存在する場合、usecase.ErrLoginAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(UserModelFromEntity(u)).Error; err != nil {
		if isDuplicateKey(err) {
			return usecase.ErrLoginAlreadyExists
		}
		return err
	}
	return nil
}

// FindByLogin はloginでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	var m UserModel
	if err := r.db.WithContext(ctx).Where("login = ?", login).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return m.ToEntity(), nil
}

// Update はloginで特定されるユーザーを上書きします。
// 対象が存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	m := UserModelFromEntity(u)
	res := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("login = ?", m.Login).
		Select(updatableColumns).
		Updates(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// DeleteAll はすべてのユーザーを削除します。
func (r *userGorm) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&UserModel{}).Error
}

// Ping はデータベースへの疎通を確認します。
func (r *userGorm) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// isDuplicateKey は一意制約違反かどうかを判定します。
// TranslateErrorが有効な場合はgorm.ErrDuplicatedKey、無効な場合はpgconnのエラーコードで判定します。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
