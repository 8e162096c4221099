/**
 * 服务层:JWT令牌服务
 * @description: 令牌生成、校验、刷新与吊销，吊销状态存储在Redis黑名单
 * @func:
 * 	1.GenerateTokens: 生成令牌对并登记刷新令牌
 * 	2.ValidateAccessToken: 校验访问令牌(含黑名单检查)
 * 	3.RefreshTokens: 刷新令牌轮换
 * 	4.RevokeToken: 吊销访问令牌并清理会话
 */
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adminboard/internal/model/system"
	"adminboard/internal/pkg/auth"
	"adminboard/internal/pkg/logger"
	"adminboard/internal/repo/redis"
	mysqlsystem "adminboard/internal/repo/mysql/system"
)

// JWTService JWT令牌服务
type JWTService struct {
	jwtManager      *auth.JWTManager
	sessionRepo     *redis.SessionRepository
	userRepo        *mysqlsystem.UserRepository
	refreshTokenTTL time.Duration
}

// NewJWTService 创建JWT令牌服务实例
func NewJWTService(
	jwtManager *auth.JWTManager,
	sessionRepo *redis.SessionRepository,
	userRepo *mysqlsystem.UserRepository,
	refreshTokenTTL time.Duration,
) *JWTService {
	return &JWTService{
		jwtManager:      jwtManager,
		sessionRepo:     sessionRepo,
		userRepo:        userRepo,
		refreshTokenTTL: refreshTokenTTL,
	}
}

// GenerateTokens 为用户生成令牌对并将刷新令牌登记到Redis
func (s *JWTService) GenerateTokens(ctx context.Context, user *system.User) (*auth.TokenPair, error) {
	if user == nil {
		return nil, errors.New("user cannot be nil")
	}

	tokenPair, err := s.jwtManager.GenerateTokenPair(user.ID, user.Username, user.Name, user.Team)
	if err != nil {
		logger.LogError(err, "", uint(user.ID), "", "generate_tokens", "SERVICE", map[string]interface{}{
			"username": user.Username,
		})
		return nil, fmt.Errorf("failed to generate token pair: %w", err)
	}

	// 刷新令牌单点存储,新登录使旧刷新令牌失效
	if err := s.sessionRepo.StoreRefreshToken(ctx, user.ID, tokenPair.RefreshToken, s.refreshTokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokenPair, nil
}

// ValidateAccessToken 校验访问令牌,包括签名、过期与吊销黑名单
func (s *JWTService) ValidateAccessToken(ctx context.Context, tokenString string) (*auth.JWTClaims, error) {
	claims, err := s.jwtManager.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	revoked, err := s.sessionRepo.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, errors.New("token has been revoked")
	}

	return claims, nil
}

// RefreshTokens 用刷新令牌换取新令牌对(刷新令牌轮换)
func (s *JWTService) RefreshTokens(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.userRepo.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if !user.IsEnabled() {
		return nil, errors.New("user account is disabled")
	}

	// 与Redis中登记的刷新令牌比对,旧令牌被轮换后即不可用
	valid, err := s.sessionRepo.ValidateRefreshToken(ctx, user.ID, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to validate refresh token: %w", err)
	}
	if !valid {
		logger.LogError(errors.New("refresh token mismatch"), "", uint(user.ID), "", "refresh_tokens", "SERVICE", map[string]interface{}{
			"username": user.Username,
		})
		return nil, errors.New("refresh token has been rotated or revoked")
	}

	return s.GenerateTokens(ctx, user)
}

// RevokeToken 吊销访问令牌并清理该用户的刷新令牌与会话
func (s *JWTService) RevokeToken(ctx context.Context, accessToken string) error {
	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		// 已过期或无效的令牌无需吊销
		return nil
	}

	var remaining time.Duration
	if claims.ExpiresAt != nil {
		remaining = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.sessionRepo.RevokeToken(ctx, claims.ID, remaining); err != nil {
		return err
	}

	if err := s.sessionRepo.DeleteRefreshToken(ctx, claims.UserID); err != nil {
		logger.LogError(err, "", uint(claims.UserID), "", "revoke_token", "SERVICE", map[string]interface{}{
			"username": claims.Username,
		})
	}
	if err := s.sessionRepo.DeleteAllUserSessions(ctx, claims.UserID); err != nil {
		logger.LogError(err, "", uint(claims.UserID), "", "revoke_token", "SERVICE", map[string]interface{}{
			"username": claims.Username,
		})
	}

	return nil
}
