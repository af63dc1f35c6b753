// Package dto はidentityフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// RegisterReq は POST /v1/users のリクエストボディです。
// 形式の検証はドメイン側で行うため、ここでは必須チェックのみ行います。
type RegisterReq struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterPhoneReq は POST /v1/users/phone のリクエストボディです。
type RegisterPhoneReq struct {
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

// LoginReq は POST /v1/login のリクエストボディです。
// login にはメールアドレスまたは電話番号を指定します。
type LoginReq struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AccessCodeReq は POST /v1/access-codes のリクエストボディです。
type AccessCodeReq struct {
	Phone string `json:"phone" binding:"required"`
}

// ChangePasswordReq は PUT /v1/password のリクエストボディです。
type ChangePasswordReq struct {
	Login       string `json:"login" binding:"required"`
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}
