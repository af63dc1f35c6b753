package adapters

import (
	"time"

	"identity_backend/internal/feature/identity/domain/entity"
)

// UserModel はusersテーブルのGORMモデルです。
// タイムスタンプはドメイン側で管理するため、GORMの自動更新を無効にしています。
type UserModel struct {
	ID           string            `gorm:"primaryKey;size:36"`
	Login        string            `gorm:"uniqueIndex;size:255;not null"`
	FirstName    string            `gorm:"size:255;not null"`
	LastName     string            `gorm:"size:255"`
	Email        string            `gorm:"size:255"`
	Phone        string            `gorm:"index;size:16"`
	Salt         string            `gorm:"size:64;not null"`
	PasswordHash string            `gorm:"size:64;not null"`
	AccessCode   string            `gorm:"size:16"`
	Meta         map[string]string `gorm:"serializer:json"`
	CreatedAt    time.Time         `gorm:"autoCreateTime:false;not null"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime:false;not null"`
}

// TableName はGORM用のテーブル名を返します。
func (UserModel) TableName() string {
	return "users"
}

// ToEntity はGORMモデルをドメインエンティティに変換します。
func (m *UserModel) ToEntity() *entity.User {
	return entity.FromState(entity.State{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Email:        m.Email,
		Login:        m.Login,
		Phone:        m.Phone,
		Salt:         m.Salt,
		PasswordHash: m.PasswordHash,
		AccessCode:   m.AccessCode,
		Meta:         m.Meta,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	})
}

// UserModelFromEntity はドメインエンティティをGORMモデルに変換します。
func UserModelFromEntity(u *entity.User) *UserModel {
	s := u.State()
	return &UserModel{
		ID:           s.ID,
		Login:        s.Login,
		FirstName:    s.FirstName,
		LastName:     s.LastName,
		Email:        s.Email,
		Phone:        s.Phone,
		Salt:         s.Salt,
		PasswordHash: s.PasswordHash,
		AccessCode:   s.AccessCode,
		Meta:         s.Meta,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
