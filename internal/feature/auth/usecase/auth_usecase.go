// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskhub_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
	// maxPasswordBytes はbcryptが扱える最大バイト数です。
	maxPasswordBytes = 72
)

// dummyPasswordHash はユーザーが存在しない場合の比較に使うダミーハッシュです。
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// IncrementTokenVersion はトークンバージョンを1つ進め、新しい値を返します。
	IncrementTokenVersion(ctx context.Context, id uuid.UUID) (int, error)
}

// PasswordHasher はパスワードのハッシュ化と照合を抽象化します。
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// CredentialCodec は署名付きクレデンシャルの発行と検証を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type CredentialCodec interface {
	Issue(subject string, version int, ttl time.Duration) (string, error)
	Verify(token string) (*entity.Credential, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users  UserRepository
	hasher PasswordHasher
	codec  CredentialCodec
	ttl    time.Duration
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// ttlは発行するクレデンシャルの有効期間です。
func NewAuthUsecase(users UserRepository, hasher PasswordHasher, codec CredentialCodec, ttl time.Duration) *authUsecase {
	return &authUsecase{
		users:  users,
		hasher: hasher,
		codec:  codec,
		ttl:    ttl,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// normalizeEmail は比較用にメールアドレスを正規化します。
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録します。
// 新規ユーザーは有効状態・非管理者・サブスクリプションなしで作成されます。
func (u *authUsecase) Signup(ctx context.Context, email, password string) (*entity.User, error) {
	// パスワード強度を検証
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &entity.User{
		Email:        normalizeEmail(email),
		PasswordHash: hashed,
		IsActive:     true,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}
	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login はユーザーを認証し、成功時に署名済みクレデンシャルを返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))

	passwordHash := dummyPasswordHash
	if err == nil {
		passwordHash = user.PasswordHash
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	matched := u.hasher.Verify(password, passwordHash)

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || !matched {
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", ErrUserInactive
	}

	token, err := u.codec.Issue(user.Email, user.TokenVersion, u.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to issue credential: %w", err)
	}
	return token, nil
}

// RevokeTokens はユーザーのトークンバージョンを進め、発行済みの全クレデンシャルを無効化します。
func (u *authUsecase) RevokeTokens(ctx context.Context, userID uuid.UUID) error {
	version, err := u.users.IncrementTokenVersion(ctx, userID)
	if err != nil {
		return err
	}
	slog.Info("credentials revoked", "user_id", userID, "token_version", version)
	return nil
}
