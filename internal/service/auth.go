package service

import (
	"context"
	"log/slog"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/redis"
)

// AuthService handles login, token refresh and logout. Account creation
// happens exclusively through invitation acceptance.
type AuthService struct {
	users    database.UserRepository
	channels database.ChannelRepository
	members  database.MemberRepository
	tokens   *auth.TokenService
	redis    *redis.Client
}

func NewAuthService(users database.UserRepository, channels database.ChannelRepository, members database.MemberRepository, tokens *auth.TokenService, redisClient *redis.Client) *AuthService {
	return &AuthService{users: users, channels: channels, members: members, tokens: tokens, redis: redisClient}
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

// Login verifies credentials and issues a token pair. Deactivated accounts
// are rejected even with a correct password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	if username == "" || password == "" {
		return nil, BadRequest("MISSING_CREDENTIALS", "username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		slog.Error("failed to look up user", "username", username, "error", err)
		return nil, Internal("DB_ERROR", "failed to process login")
	}
	if user == nil {
		return nil, Unauthorized("INVALID_CREDENTIALS", "invalid username or password")
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("failed to verify password", "userID", user.ID, "error", err)
		return nil, Internal("HASH_ERROR", "failed to process login")
	}
	if !ok {
		return nil, Unauthorized("INVALID_CREDENTIALS", "invalid username or password")
	}

	if !user.Active() {
		return nil, Forbidden("ACCOUNT_DEACTIVATED", "this account has been deactivated")
	}

	// Public channels created since the last login get memberships now.
	joinPublicChannels(ctx, s.channels, s.members, user.ID)

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a new token pair. The old
// refresh token is invalidated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, BadRequest("MISSING_TOKEN", "refresh token is required")
	}

	userID, err := s.redis.GetRefreshTokenUserID(ctx, refreshToken)
	if err != nil {
		return nil, Unauthorized("INVALID_REFRESH_TOKEN", "invalid or expired refresh token")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		slog.Error("failed to look up user", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to refresh session")
	}
	if user == nil || !user.Active() {
		return nil, Unauthorized("INVALID_REFRESH_TOKEN", "invalid or expired refresh token")
	}

	if err := s.redis.DeleteRefreshToken(ctx, refreshToken); err != nil {
		slog.Error("failed to rotate refresh token", "userID", userID, "error", err)
		return nil, Internal("REDIS_ERROR", "failed to refresh session")
	}

	return s.issueTokens(ctx, user)
}

// Logout invalidates a refresh token. Unknown tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.redis.DeleteRefreshToken(ctx, refreshToken); err != nil {
		slog.Error("failed to delete refresh token", "error", err)
		return Internal("REDIS_ERROR", "failed to log out")
	}
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.IsAdmin)
	if err != nil {
		slog.Error("failed to generate access token", "userID", user.ID, "error", err)
		return nil, Internal("TOKEN_ERROR", "failed to issue tokens")
	}

	refresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		slog.Error("failed to generate refresh token", "userID", user.ID, "error", err)
		return nil, Internal("TOKEN_ERROR", "failed to issue tokens")
	}

	if err := s.redis.StoreRefreshToken(ctx, refresh, user.ID, s.tokens.RefreshExpiry()); err != nil {
		slog.Error("failed to store refresh token", "userID", user.ID, "error", err)
		return nil, Internal("REDIS_ERROR", "failed to issue tokens")
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, User: user}, nil
}
