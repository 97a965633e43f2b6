// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"github.com/google/uuid"

	"taskhub_backend/internal/feature/auth/domain/entity"
)

// SignupReq は/registerエンドポイントのリクエストボディを表します。
type SignupReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginReq は/loginエンドポイントのリクエストボディを表します。
// 必須フィールドとメール形式のバリデーションを含みます。
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenRes はログイン成功時のレスポンスです。
type TokenRes struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserInfoRes は/meエンドポイントのレスポンスです。
type UserInfoRes struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	SubscriptionID *uuid.UUID `json:"subscription_id"`
	IsActive       bool       `json:"is_active"`
}

// NewUserInfoRes はUserエンティティからレスポンスを組み立てます。
func NewUserInfoRes(u *entity.User) UserInfoRes {
	return UserInfoRes{
		ID:             u.ID,
		Email:          u.Email,
		SubscriptionID: u.SubscriptionID,
		IsActive:       u.IsActive,
	}
}
