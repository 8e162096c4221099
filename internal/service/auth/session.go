/**
 * 服务层:会话管理服务
 * @description: 登录、注销、刷新会话与会话校验
 * @func:
 * 	1.Login: 用户登录
 * 	2.Logout: 用户登出
 * 	3.RefreshToken: 刷新令牌
 * 	4.ValidateSession: 会话校验
 */
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"adminboard/internal/model"
	"adminboard/internal/model/system"
	"adminboard/internal/pkg/auth"
	"adminboard/internal/pkg/logger"
	mysqlsystem "adminboard/internal/repo/mysql/system"
	"adminboard/internal/repo/redis"
)

// SessionService 会话管理服务
type SessionService struct {
	userRepo        *mysqlsystem.UserRepository
	passwordManager *auth.PasswordManager
	jwtService      *JWTService
	sessionRepo     *redis.SessionRepository
}

// NewSessionService 创建会话服务实例
func NewSessionService(
	userRepo *mysqlsystem.UserRepository,
	passwordManager *auth.PasswordManager,
	jwtService *JWTService,
	sessionRepo *redis.SessionRepository,
) *SessionService {
	return &SessionService{
		userRepo:        userRepo,
		passwordManager: passwordManager,
		jwtService:      jwtService,
		sessionRepo:     sessionRepo,
	}
}

// Login 用户登录
func (s *SessionService) Login(ctx context.Context, req *model.LoginRequest, clientIP, userAgent string) (*model.LoginResponse, error) {
	if req == nil {
		return nil, errors.New("login request cannot be nil")
	}
	if req.Username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if req.Password == "" {
		return nil, errors.New("password cannot be empty")
	}

	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		logger.LogError(err, "", 0, clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "login",
			"username":  req.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, errors.New("invalid username or password")
	}
	if user == nil {
		logger.LogError(errors.New("user not found"), "", 0, clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "login",
			"username":  req.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, errors.New("invalid username or password")
	}

	if !user.IsEnabled() {
		logger.LogError(errors.New("user account is disabled"), "", uint(user.ID), clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "login",
			"username":  user.Username,
			"status":    user.Status,
			"timestamp": logger.NowFormatted(),
		})
		return nil, errors.New("user account is disabled")
	}

	isValid, err := s.passwordManager.VerifyPassword(req.Password, user.Password)
	if err != nil {
		logger.LogError(err, "", uint(user.ID), clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "login",
			"username":  user.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !isValid {
		logger.LogError(errors.New("password is incorrect"), "", uint(user.ID), clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "login",
			"username":  user.Username,
			"timestamp": logger.NowFormatted(),
		})
		return nil, errors.New("invalid username or password")
	}

	tokenPair, err := s.jwtService.GenerateTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	// 最后登录时间更新失败不影响登录
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, time.Now(), clientIP); err != nil {
		logger.LogError(err, "", uint(user.ID), clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "update_last_login",
			"username":  user.Username,
			"timestamp": logger.NowFormatted(),
		})
	}

	// 会话以访问令牌的JTI为键存储
	claims, err := s.jwtService.ValidateAccessToken(ctx, tokenPair.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated token: %w", err)
	}

	now := time.Now()
	sessionData := &system.SessionData{
		UserID:     user.ID,
		Username:   user.Username,
		Name:       user.Name,
		Team:       user.Team,
		Department: user.Department,
		LoginTime:  now,
		LastActive: now,
		ClientIP:   clientIP,
		UserAgent:  userAgent,
	}
	sessionExpiration := time.Duration(tokenPair.ExpiresIn) * time.Second
	if err := s.sessionRepo.StoreSession(ctx, claims.ID, sessionData, sessionExpiration); err != nil {
		// 会话存储失败不影响登录
		logger.LogError(err, "", uint(user.ID), clientIP, "user_login", "POST", map[string]interface{}{
			"operation": "store_session",
			"username":  user.Username,
			"timestamp": logger.NowFormatted(),
		})
	}

	logger.LogBusinessOperation("user_login", uint(user.ID), user.Username, clientIP, "", "success", "用户登录成功", map[string]interface{}{
		"team":       user.Team,
		"department": user.Department,
		"session_id": claims.ID,
		"timestamp":  logger.NowFormatted(),
	})

	return &model.LoginResponse{
		User:         toUserInfo(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// Logout 用户登出,吊销令牌并清理会话
func (s *SessionService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return errors.New("access token cannot be empty")
	}

	var userID uint
	var username string
	if claims, err := s.jwtService.ValidateAccessToken(ctx, accessToken); err == nil {
		userID = uint(claims.UserID)
		username = claims.Username
	}

	if err := s.jwtService.RevokeToken(ctx, accessToken); err != nil {
		logger.LogError(err, "", userID, "", "user_logout", "POST", map[string]interface{}{
			"operation": "logout",
			"username":  username,
			"timestamp": logger.NowFormatted(),
		})
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	logger.LogBusinessOperation("user_logout", userID, username, "", "", "success", "用户登出成功", map[string]interface{}{
		"timestamp": logger.NowFormatted(),
	})

	return nil
}

// RefreshToken 刷新令牌
func (s *SessionService) RefreshToken(ctx context.Context, req *model.RefreshTokenRequest) (*model.LoginResponse, error) {
	if req == nil {
		return nil, errors.New("refresh token request cannot be nil")
	}
	if req.RefreshToken == "" {
		return nil, errors.New("refresh token cannot be empty")
	}

	tokenPair, err := s.jwtService.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh tokens: %w", err)
	}

	return &model.LoginResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// ValidateSession 校验会话并返回用户信息
func (s *SessionService) ValidateSession(ctx context.Context, accessToken string) (*system.User, error) {
	if accessToken == "" {
		return nil, errors.New("access token cannot be empty")
	}

	claims, err := s.jwtService.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	if !user.IsEnabled() {
		return nil, errors.New("user account is disabled")
	}

	return user, nil
}

// GetCurrentUser 根据用户ID获取当前用户信息
func (s *SessionService) GetCurrentUser(ctx context.Context, userID uint64) (*model.UserInfo, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return toUserInfo(user), nil
}

// toUserInfo 构建用户信息响应
func toUserInfo(user *system.User) *model.UserInfo {
	return &model.UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Name:        user.Name,
		Team:        user.Team,
		Department:  user.Department,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
