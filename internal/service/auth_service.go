package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-backoffice/internal/model"
	"go-backoffice/internal/repository"
	"go-backoffice/internal/ws"
	"go-backoffice/pkg/jwt"
	"go-backoffice/pkg/logger"
)

type AuthService interface {
	Login(ctx context.Context, login, password string) (*LoginResponse, error)
	ResetPassword(ctx context.Context, login, oldPassword, newPassword string) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	Authenticate(ctx context.Context, tokenString string) (*jwt.Claims, error)
	Heartbeat(ctx context.Context, userID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo    repository.UserRepository
	tokens      *jwt.Manager
	wsHub       *ws.Hub
	idleTimeout time.Duration
	now         func() time.Time
	log         logger.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, hub *ws.Hub, idleTimeout time.Duration, log logger.Logger) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokens:      tokens,
		wsHub:       hub,
		idleTimeout: idleTimeout,
		now:         time.Now,
		log:         log,
	}
}

func (s *authService) Login(ctx context.Context, login, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsLocked {
		return nil, ErrUserLocked
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// a new token version logs out every other session of this user
	now := s.now()
	user.TokenVersion = uuid.New().String()
	user.LastSeenAt = &now
	if err := s.userRepo.UpdateTokenVersion(ctx, user.ID, user.TokenVersion); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}
	if err := s.userRepo.UpdateLastSeen(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.UserName, user.RoleCode(), user.GetPrivilegeCodes(), user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.log.InfoContext(ctx, "user logged in", "user_id", user.ID, "user_name", user.UserName)
	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ResetPassword(ctx context.Context, login, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if err != nil {
		return ErrUserNotFound
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: new password must be at least 6 characters", ErrValidation)
	}
	if err := user.SetPassword(newPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		return err
	}
	// force a new login everywhere
	return s.userRepo.UpdateTokenVersion(ctx, user.ID, uuid.New().String())
}

// Authenticate checks the signature and the single-session token version.
// The auth middleware runs it on every request.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*jwt.Claims, error) {
	claims, _, err := s.authenticate(ctx, tokenString)
	return claims, err
}

func (s *authService) authenticate(ctx context.Context, tokenString string) (*jwt.Claims, *model.User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, ErrUserNotFound
	}
	if user.IsLocked {
		return nil, nil, ErrUserLocked
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, ErrSessionReplaced
	}
	return claims, user, nil
}

// ValidateToken is Authenticate plus the idle timeout: a console that has
// not sent a heartbeat within the timeout must log in again.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	_, user, err := s.authenticate(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	if user.LastSeenAt == nil || s.now().Sub(*user.LastSeenAt) > s.idleTimeout {
		return nil, ErrSessionTimeout
	}
	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	now := s.now()
	if err := s.userRepo.UpdateLastSeen(ctx, userID, now); err != nil {
		return err
	}
	s.wsHub.Publish(ws.Event{
		Type: ws.EventUserStatusUpdate,
		Data: map[string]interface{}{
			"userId":     userID.String(),
			"status":     "online",
			"lastSeenAt": now,
		},
	})
	return nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	resp := user.ToResponse()
	return &resp, nil
}
