package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/huangang/codebook/backend/internal/config"
	"github.com/huangang/codebook/backend/internal/models"
	"github.com/huangang/codebook/backend/internal/repository"
	"github.com/huangang/codebook/backend/internal/utils"
	"github.com/huangang/codebook/backend/pkg/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type AuthService struct {
	store     repository.Store
	jwtConfig *config.JWTConfig
}

func NewAuthService(store repository.Store, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{store: store, jwtConfig: jwtCfg}
}

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Password  string `json:"password" binding:"required"`
	Email     string `json:"email" binding:"omitempty,email"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string       `json:"token"`
	User     *models.User `json:"user"`
	ExpireAt time.Time    `json:"expire_at"`
}

// Register creates a user. Usernames are stored lower-cased and names title-cased.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return nil, newError(KindInvalidInput, "username is required")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	title := cases.Title(language.Und)
	user := &models.User{
		Username:  username,
		Password:  hash,
		Email:     strings.TrimSpace(req.Email),
		FirstName: title.String(strings.TrimSpace(req.FirstName)),
		LastName:  title.String(strings.TrimSpace(req.LastName)),
		Role:      "user",
		IsActive:  true,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, newError(KindConflict, "username already taken")
		}
		return nil, err
	}

	logger.Info().Uint("user_id", user.ID).Str("username", username).Msg("[Auth] user registered")
	return user, nil
}

// Login checks credentials and issues a JWT.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	user, err := s.store.Users().FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindUnauthorized, "invalid username or password")
		}
		return nil, err
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, newError(KindUnauthorized, "invalid username or password")
	}
	if !user.IsActive {
		return nil, newError(KindForbidden, "user is disabled")
	}

	hours := s.jwtConfig.ExpireHour
	if hours <= 0 {
		hours = 24
	}
	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, hours)
	if err != nil {
		return nil, err
	}

	if err := s.store.Users().TouchLastLogin(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Uint("user_id", user.ID).Msg("[Auth] failed to record last login")
	}

	return &LoginResponse{
		Token:    token,
		User:     user,
		ExpireAt: time.Now().Add(time.Duration(hours) * time.Hour),
	}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

// CreateAdminIfNotExists seeds an "admin" account with the given password.
// An existing admin account is left untouched.
func (s *AuthService) CreateAdminIfNotExists(ctx context.Context, password string) error {
	if _, err := s.store.Users().FindByUsername(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Username:  "admin",
		Password:  hash,
		FirstName: "Administrator",
		Role:      "admin",
		IsActive:  true,
	}
	if err := s.store.Users().Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrConflict) {
		return err
	}
	return nil
}
