package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carewise/triage-api/internal/email"
	"github.com/carewise/triage-api/internal/model"
	"github.com/carewise/triage-api/internal/repository"
	"github.com/carewise/triage-api/pkg/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked, please try again later")
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
	bcryptCost       = 12
)

type Service struct {
	userRepo      repository.UserRepository
	adminCodeRepo repository.AdminCodeRepository
	jwtSvc        JWTService
	hasher        security.PasswordHasher
	emailSvc      email.Service
}

func NewService(userRepo repository.UserRepository, adminCodeRepo repository.AdminCodeRepository,
	jwtSvc JWTService, emailSvc email.Service) *Service {
	return &Service{
		userRepo:      userRepo,
		adminCodeRepo: adminCodeRepo,
		jwtSvc:        jwtSvc,
		hasher:        security.NewBcryptHasher(bcryptCost),
		emailSvc:      emailSvc,
	}
}

func (s *Service) Login(ctx context.Context, loginEmail, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, loginEmail)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Status == model.UserStatusLocked {
		if time.Since(user.LastLoginAttempt) < lockoutDuration {
			return nil, ErrAccountLocked
		}
		user.Status = model.UserStatusActive
		user.LoginAttempts = 0
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		user.LoginAttempts++
		user.LastLoginAttempt = time.Now()
		if user.LoginAttempts >= maxLoginAttempts {
			user.Status = model.UserStatusLocked
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update login attempts: %w", err)
		}
		return nil, ErrInvalidCredentials
	}

	user.LoginAttempts = 0
	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update login timestamp: %w", err)
	}

	return s.generateTokens(user)
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	existing, _ := s.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hashed,
		Role:         model.UserRoleDoctor,
		Status:       model.UserStatusActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name); err != nil {
			log.Warn().Err(err).Str("email", user.Email).Msg("failed to send welcome email")
		}
	}

	return user, nil
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokens(user)
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error) {
	return s.jwtSvc.ValidateToken(token)
}

// Upgrade redeems a single-use admin code for the user. The repository
// runs the redemption transactionally, so two concurrent attempts with
// the same code cannot both succeed. Fresh tokens carrying the new role
// are returned.
func (s *Service) Upgrade(ctx context.Context, userID uuid.UUID, code string) (*model.TokenResponse, error) {
	if err := s.adminCodeRepo.Redeem(ctx, code, userID); err != nil {
		return nil, fmt.Errorf("failed to redeem admin code: %w", err)
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	return s.generateTokens(user)
}

func (s *Service) generateTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwtSvc.GenerateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
