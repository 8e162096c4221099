/**
 * 模型:错误定义
 * @description: 系统错误常量定义
 * @func: 各种错误常量
 */
package system

import "errors"

// 用户与认证相关错误
var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrUserAlreadyExists  = errors.New("用户已存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserDisabled       = errors.New("用户已被禁用")
	ErrTokenExpired       = errors.New("令牌已过期")
	ErrTokenInvalid       = errors.New("令牌无效")
	ErrUnauthorized       = errors.New("未授权访问")
)

// 记录与编辑相关错误
var (
	ErrRecordNotFound    = errors.New("记录不存在")
	ErrCodeAlreadyExists = errors.New("业务编号已存在")
	ErrRecordImmutable   = errors.New("业务编号创建后不可修改")
)
