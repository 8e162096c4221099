/**
 * 模型:请求模型
 * @description: API请求数据模型，包含认证与通用列表查询的请求结构体
 * @func: 各种Request结构体定义
 */
package model

// LoginRequest 登录请求结构
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // 用户名
	Password string `json:"password" binding:"required"` // 密码
}

// RefreshTokenRequest 刷新令牌请求结构
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"` // 刷新令牌
}

// ListRequest 通用列表查询请求
// 各筛选字段传哨兵值"전체"或留空表示不过滤
type ListRequest struct {
	Page     int    `form:"page"`      // 页码，从1开始
	PageSize int    `form:"page_size"` // 每页大小
	Team     string `form:"team"`      // 团队筛选
	Status   string `form:"status"`    // 状态筛选
	Assignee string `form:"assignee"`  // 担当者筛选
	Year     string `form:"year"`      // 年度筛选(从日期字段提取日历年)
	Keyword  string `form:"keyword"`   // 关键字
}

// Normalize 补全分页默认值
func (r *ListRequest) Normalize() {
	if r.Page <= 0 {
		r.Page = 1
	}
	if r.PageSize <= 0 || r.PageSize > 200 {
		r.PageSize = 10
	}
}
