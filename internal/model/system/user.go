/**
 * 模型:用户模型
 * @description: 后台用户数据模型，登录、会话与变更日志的操作者信息来源
 * @func: User 结构体及相关方法
 */
package system

import (
	"time"

	basemodel "adminboard/internal/model/basemodel"
)

// User 后台用户模型
type User struct {
	basemodel.BaseModel

	Username    string     `json:"username" gorm:"uniqueIndex;not null;size:50" validate:"required,min=3,max=50"` // 用户名，唯一索引
	Email       string     `json:"email" gorm:"uniqueIndex;not null;size:100" validate:"required,email"`          // 邮箱地址
	Password    string     `json:"-" gorm:"not null;size:255"`                                                    // 密码哈希，不在JSON中返回
	Name        string     `json:"name" gorm:"size:50;comment:姓名"`                                                // 姓名
	Team        string     `json:"team" gorm:"size:50;index;comment:所属团队"`                                        // 所属团队
	Department  string     `json:"department" gorm:"size:50;comment:所属部门"`                                        // 所属部门
	Status      UserStatus `json:"status" gorm:"default:1;comment:用户状态:0-禁用,1-启用"`                                // 用户状态
	LastLoginAt *time.Time `json:"last_login_at" gorm:"comment:最后登录时间"`                                           // 最后登录时间
	LastLoginIP string     `json:"last_login_ip" gorm:"size:45;comment:最后登录IP"`                                   // 最后登录IP
}

// UserStatus 用户状态枚举
type UserStatus int

const (
	UserStatusDisabled UserStatus = 0 // 禁用状态
	UserStatusEnabled  UserStatus = 1 // 启用状态
)

// TableName 指定用户表名
func (User) TableName() string {
	return "users"
}

// IsEnabled 检查用户是否处于启用状态
func (u *User) IsEnabled() bool {
	return u.Status == UserStatusEnabled
}

// Actor 返回该用户作为变更日志操作者的信息
func (u *User) Actor() Actor {
	return Actor{
		UserID:     u.ID,
		Name:       u.Name,
		Team:       u.Team,
		Department: u.Department,
	}
}

// Actor 变更日志中的操作者描述
type Actor struct {
	UserID     uint64 `json:"user_id"`    // 用户ID
	Name       string `json:"name"`       // 姓名
	Team       string `json:"team"`       // 团队
	Department string `json:"department"` // 部门
}
