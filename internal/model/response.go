/**
 * 模型:响应模型
 * @description: API响应数据模型，包含各种业务操作的响应结构体
 * @func: 各种Response结构体定义
 */
package model

import "time"

// APIResponse 通用API响应结构
type APIResponse struct {
	Code    int               `json:"code,omitempty"`   // 响应状态码，可选
	Status  string            `json:"status"`           // 响应状态："success" 或 "failed"
	Message string            `json:"message"`          // 响应消息
	Data    interface{}       `json:"data,omitempty"`   // 响应数据，可选
	Error   string            `json:"error,omitempty"`  // 错误信息，可选
	Errors  []ValidationError `json:"errors,omitempty"` // 验证错误列表，可选
}

// PaginationResponse 分页响应结构
type PaginationResponse struct {
	Total       int64       `json:"total"`        // 总记录数
	Page        int         `json:"page"`         // 当前页码
	PageSize    int         `json:"page_size"`    // 每页大小
	TotalPages  int         `json:"total_pages"`  // 总页数
	HasNext     bool        `json:"has_next"`     // 是否有下一页
	HasPrevious bool        `json:"has_previous"` // 是否有上一页
	Data        interface{} `json:"data"`         // 分页数据
}

// ValidationError 字段级验证错误
// 编辑器保存前的必填校验失败时返回，未发起任何网络写入
type ValidationError struct {
	Field   string `json:"field"`   // 字段名
	Message string `json:"message"` // 错误消息
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	return e.Message
}

// SaveResultResponse 编辑器保存结果响应
// 父记录是保存成功与否的判定单元；子集合失败以警告形式附带返回
type SaveResultResponse struct {
	ParentID      uint64         `json:"parent_id"`                // 父记录ID
	Code          string         `json:"code"`                     // 业务编号
	Created       bool           `json:"created"`                  // 是否为新建
	ChildWarnings []ChildWarning `json:"child_warnings,omitempty"` // 子集合部分失败警告
}

// ChildWarning 子集合保存失败的单条警告
type ChildWarning struct {
	Collection string `json:"collection"` // 子集合名称
	Operation  string `json:"operation"`  // create / update / delete
	ItemID     uint64 `json:"item_id,omitempty"`
	Reason     string `json:"reason"`
}

// LoginResponse 登录响应结构
type LoginResponse struct {
	User         *UserInfo `json:"user"`          // 用户信息
	AccessToken  string    `json:"access_token"`  // 访问令牌
	RefreshToken string    `json:"refresh_token"` // 刷新令牌
	ExpiresIn    int64     `json:"expires_in"`    // 令牌过期时间（秒）
}

// UserInfo 用户信息响应结构
type UserInfo struct {
	ID          uint64     `json:"id"`            // 用户ID
	Username    string     `json:"username"`      // 用户名
	Email       string     `json:"email"`         // 邮箱地址
	Name        string     `json:"name"`          // 姓名
	Team        string     `json:"team"`          // 所属团队
	Department  string     `json:"department"`    // 部门
	LastLoginAt *time.Time `json:"last_login_at"` // 最后登录时间
	CreatedAt   time.Time  `json:"created_at"`    // 创建时间
}
