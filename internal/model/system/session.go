/**
 * 模型:会话模型
 * @description: 会话数据模型，Redis中存储的登录会话信息
 * @func: SessionData 结构体定义
 */
package system

import (
	"time"
)

// SessionData 会话数据结构
type SessionData struct {
	UserID     uint64    `json:"user_id"`     // 用户ID
	Username   string    `json:"username"`    // 用户名
	Name       string    `json:"name"`        // 姓名
	Team       string    `json:"team"`        // 团队
	Department string    `json:"department"`  // 部门
	LoginTime  time.Time `json:"login_time"`  // 登录时间
	LastActive time.Time `json:"last_active"` // 最后活跃时间
	ClientIP   string    `json:"client_ip"`   // 客户端IP地址
	UserAgent  string    `json:"user_agent"`  // 用户代理信息
}

// IsActive 检查会话是否活跃（最后活跃时间在指定时间内）
func (s *SessionData) IsActive(timeout time.Duration) bool {
	return time.Since(s.LastActive) <= timeout
}

// UpdateLastActive 更新最后活跃时间
func (s *SessionData) UpdateLastActive() {
	s.LastActive = time.Now()
}

// Actor 返回会话用户作为变更日志操作者的信息
func (s *SessionData) Actor() Actor {
	return Actor{
		UserID:     s.UserID,
		Name:       s.Name,
		Team:       s.Team,
		Department: s.Department,
	}
}
