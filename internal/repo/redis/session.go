/**
 * 仓库层:Redis会话仓库
 * @description: 登录会话与刷新令牌的Redis存取，支持令牌吊销黑名单
 * @func:
 * 	1.StoreSession / GetSession / DeleteSession: 会话读写
 * 	2.StoreRefreshToken / ValidateRefreshToken: 刷新令牌校验
 * 	3.RevokeToken / IsTokenRevoked: 访问令牌黑名单
 */
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adminboard/internal/model/system"
	"adminboard/internal/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// 键前缀约定
const (
	sessionKeyPrefix      = "session:"       // session:{sessionID}
	userSessionsKeyPrefix = "user_sessions:" // user_sessions:{userID} -> set of sessionID
	refreshTokenKeyPrefix = "refresh_token:" // refresh_token:{userID}
	revokedTokenKeyPrefix = "revoked_token:" // revoked_token:{jti}
)

// SessionRepository 会话仓库
type SessionRepository struct {
	client *redis.Client
}

// NewSessionRepository 创建会话仓库实例
func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{
		client: client,
	}
}

// StoreSession 存储会话数据并登记到用户会话集合
func (r *SessionRepository) StoreSession(ctx context.Context, sessionID string, session *system.SessionData, expiration time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		logger.LogError(err, "", uint(session.UserID), "", "store_session", "REPO", map[string]interface{}{
			"session_id": sessionID,
		})
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	sessionKey := sessionKeyPrefix + sessionID
	if err := r.client.Set(ctx, sessionKey, data, expiration).Err(); err != nil {
		logger.LogError(err, "", uint(session.UserID), "", "store_session", "REPO", map[string]interface{}{
			"session_id": sessionID,
		})
		return fmt.Errorf("failed to store session: %w", err)
	}

	// 用户会话集合用于登出时批量清理
	userKey := fmt.Sprintf("%s%d", userSessionsKeyPrefix, session.UserID)
	if err := r.client.SAdd(ctx, userKey, sessionID).Err(); err != nil {
		logger.LogError(err, "", uint(session.UserID), "", "store_session", "REPO", map[string]interface{}{
			"session_id": sessionID,
		})
		return fmt.Errorf("failed to register user session: %w", err)
	}
	r.client.Expire(ctx, userKey, expiration)

	return nil
}

// GetSession 获取会话数据,不存在时返回 (nil, nil)
func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*system.SessionData, error) {
	sessionKey := sessionKeyPrefix + sessionID
	data, err := r.client.Get(ctx, sessionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_session", "REPO", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session system.SessionData
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		logger.LogError(err, "", 0, "", "get_session", "REPO", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &session, nil
}

// UpdateSessionExpiry 续期会话并刷新最后活跃时间
func (r *SessionRepository) UpdateSessionExpiry(ctx context.Context, sessionID string, expiration time.Duration) error {
	session, err := r.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session not found: %s", sessionID)
	}

	session.UpdateLastActive()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	sessionKey := sessionKeyPrefix + sessionID
	if err := r.client.Set(ctx, sessionKey, data, expiration).Err(); err != nil {
		logger.LogError(err, "", uint(session.UserID), "", "update_session_expiry", "REPO", map[string]interface{}{
			"session_id": sessionID,
		})
		return fmt.Errorf("failed to update session expiry: %w", err)
	}

	return nil
}

// DeleteSession 删除单个会话
func (r *SessionRepository) DeleteSession(ctx context.Context, sessionID string) error {
	session, err := r.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}

	sessionKey := sessionKeyPrefix + sessionID
	if err := r.client.Del(ctx, sessionKey).Err(); err != nil {
		logger.LogError(err, "", 0, "", "delete_session", "REPO", map[string]interface{}{
			"session_id": sessionID,
		})
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if session != nil {
		userKey := fmt.Sprintf("%s%d", userSessionsKeyPrefix, session.UserID)
		r.client.SRem(ctx, userKey, sessionID)
	}

	return nil
}

// DeleteAllUserSessions 删除用户的所有会话(强制下线)
func (r *SessionRepository) DeleteAllUserSessions(ctx context.Context, userID uint64) error {
	userKey := fmt.Sprintf("%s%d", userSessionsKeyPrefix, userID)
	sessionIDs, err := r.client.SMembers(ctx, userKey).Result()
	if err != nil {
		logger.LogError(err, "", uint(userID), "", "delete_all_user_sessions", "REPO", map[string]interface{}{})
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	for _, sessionID := range sessionIDs {
		sessionKey := sessionKeyPrefix + sessionID
		if err := r.client.Del(ctx, sessionKey).Err(); err != nil {
			logger.LogError(err, "", uint(userID), "", "delete_all_user_sessions", "REPO", map[string]interface{}{
				"session_id": sessionID,
			})
		}
	}

	if err := r.client.Del(ctx, userKey).Err(); err != nil {
		return fmt.Errorf("failed to delete user session set: %w", err)
	}

	return nil
}

// StoreRefreshToken 存储用户刷新令牌(单点:新令牌覆盖旧令牌)
func (r *SessionRepository) StoreRefreshToken(ctx context.Context, userID uint64, refreshToken string, expiration time.Duration) error {
	key := fmt.Sprintf("%s%d", refreshTokenKeyPrefix, userID)
	if err := r.client.Set(ctx, key, refreshToken, expiration).Err(); err != nil {
		logger.LogError(err, "", uint(userID), "", "store_refresh_token", "REPO", map[string]interface{}{})
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// ValidateRefreshToken 校验刷新令牌是否与存储一致
func (r *SessionRepository) ValidateRefreshToken(ctx context.Context, userID uint64, refreshToken string) (bool, error) {
	key := fmt.Sprintf("%s%d", refreshTokenKeyPrefix, userID)
	stored, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		logger.LogError(err, "", uint(userID), "", "validate_refresh_token", "REPO", map[string]interface{}{})
		return false, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return stored == refreshToken, nil
}

// DeleteRefreshToken 删除用户刷新令牌
func (r *SessionRepository) DeleteRefreshToken(ctx context.Context, userID uint64) error {
	key := fmt.Sprintf("%s%d", refreshTokenKeyPrefix, userID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		logger.LogError(err, "", uint(userID), "", "delete_refresh_token", "REPO", map[string]interface{}{})
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

// RevokeToken 将访问令牌JTI加入黑名单,过期时间与令牌剩余有效期一致
func (r *SessionRepository) RevokeToken(ctx context.Context, jti string, expiration time.Duration) error {
	if expiration <= 0 {
		// 已过期的令牌无需入黑名单
		return nil
	}
	key := revokedTokenKeyPrefix + jti
	if err := r.client.Set(ctx, key, "1", expiration).Err(); err != nil {
		logger.LogError(err, "", 0, "", "revoke_token", "REPO", map[string]interface{}{
			"jti": jti,
		})
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked 判断访问令牌JTI是否已被吊销
func (r *SessionRepository) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	key := revokedTokenKeyPrefix + jti
	count, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		logger.LogError(err, "", 0, "", "is_token_revoked", "REPO", map[string]interface{}{
			"jti": jti,
		})
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return count > 0, nil
}

// Ping 检查Redis连接
func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close 关闭Redis连接
func (r *SessionRepository) Close() error {
	return r.client.Close()
}
