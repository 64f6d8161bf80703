package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"etkinlik.link/configs/configslog"
	"etkinlik.link/models"
	"etkinlik.link/pkg/tokens"
	"etkinlik.link/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceError özel servis hataları
type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrRegistrationFailed AuthServiceError = "kayıt işlemi tamamlanamadı"
	ErrTokenIssueFailed   AuthServiceError = "oturum token'ı üretilemedi"
)

const msgInvalidCredentials = "These credentials do not match our records."

// RegisterInput yeni düzenleyici hesabı.
type RegisterInput struct {
	Name                 string `json:"name" validate:"required,max=255"`
	Email                string `json:"email" validate:"required,email,max=255"`
	Password             string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

// LoginInput e-posta ve şifre ile giriş.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult başarılı giriş veya kayıt sonucu.
type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// IAuthService kimlik doğrulama işlemleri için arayüz.
type IAuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	ActorFromToken(ctx context.Context, token string) (Actor, error)
}

// AuthService IAuthService arayüzünü uygular.
type AuthService struct {
	users  repositories.IUserRepository
	tokens *tokens.Issuer
}

func NewAuthService(users repositories.IUserRepository, issuer *tokens.Issuer) IAuthService {
	return &AuthService{users: users, tokens: issuer}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validate(input, nil); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, newValidationError(map[string]string{"email": "The email has already been taken."})
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrRegistrationFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Şifre hashlenemedi", zap.Error(err))
		return nil, ErrRegistrationFailed
	}
	user := &models.User{Name: input.Name, Email: input.Email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		configslog.Log.Error("Kullanıcı oluşturulamadı", zap.String("email", input.Email), zap.Error(err))
		return nil, ErrRegistrationFailed
	}
	configslog.SLog.Infof("Yeni kullanıcı kaydı: ID %d", user.ID)
	return s.issue(user)
}

// Login hatalı e-posta ve hatalı şifre için aynı mesajı döndürür.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validate(input, nil); err != nil {
		return nil, err
	}
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newValidationError(map[string]string{"email": msgInvalidCredentials})
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		configslog.Log.Info("Başarısız giriş denemesi", zap.Uint("user_id", user.ID))
		return nil, newValidationError(map[string]string{"email": msgInvalidCredentials})
	}
	return s.issue(user)
}

// ActorFromToken erişim token'ını doğrular ve kullanıcının hâlâ var olduğunu kontrol eder.
func (s *AuthService) ActorFromToken(ctx context.Context, token string) (Actor, error) {
	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		return Actor{}, ErrUnauthenticated
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return Actor{}, ErrUnauthenticated
	}
	return Actor{UserID: user.ID, Email: user.Email}, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.IssueAccess(user.ID, user.Email)
	if err != nil {
		configslog.Log.Error("Erişim token'ı üretilemedi", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, ErrTokenIssueFailed
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

var _ IAuthService = (*AuthService)(nil)
