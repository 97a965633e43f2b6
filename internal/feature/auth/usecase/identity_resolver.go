package usecase

import (
	"context"
	"errors"

	"taskhub_backend/internal/feature/auth/domain/entity"
)

// IdentityResolver はリクエストのクレデンシャル文字列をユーザーに解決します。
// 認証が必要な全エンドポイントで呼ばれますが、サブスクリプションや所有権は確認しません。
type IdentityResolver struct {
	users UserRepository
	codec CredentialCodec
}

// NewIdentityResolver はIdentityResolverを生成します。
func NewIdentityResolver(users UserRepository, codec CredentialCodec) *IdentityResolver {
	return &IdentityResolver{users: users, codec: codec}
}

// Resolve はクレデンシャルを検証し、対応するユーザーを返します。
//   - 空文字列: ErrMissingCredential
//   - 署名不正・期限切れ: コーデックのエラー（Unauthorized）
//   - ユーザー不在: ErrUserNotFound
//   - 無効化されたユーザー: ErrUserInactive
//   - バージョン不一致: ErrCredentialRevoked
func (r *IdentityResolver) Resolve(ctx context.Context, credential string) (*entity.User, error) {
	if credential == "" {
		return nil, ErrMissingCredential
	}

	cred, err := r.codec.Verify(credential)
	if err != nil {
		return nil, err
	}

	user, err := r.users.FindByEmail(ctx, cred.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != cred.Version {
		return nil, ErrCredentialRevoked
	}
	return user, nil
}
