package system

import (
	"context"
	"errors"
	"time"

	sysmodel "adminboard/internal/model/system"
	"adminboard/internal/pkg/logger"

	"gorm.io/gorm"
)

// UserRepository 后台用户仓库
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建 UserRepository 实例
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser 创建用户
func (r *UserRepository) CreateUser(ctx context.Context, user *sysmodel.User) error {
	if user == nil {
		return errors.New("user is nil")
	}
	err := r.db.WithContext(ctx).Create(user).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "create_user", "REPO", map[string]interface{}{
			"operation": "create_user",
			"username":  user.Username,
		})
		return err
	}
	return nil
}

// GetUserByID 根据ID获取用户
func (r *UserRepository) GetUserByID(ctx context.Context, id uint64) (*sysmodel.User, error) {
	var user sysmodel.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_user_by_id", "REPO", map[string]interface{}{
			"operation": "get_user_by_id",
			"id":        id,
		})
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername 根据用户名获取用户
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*sysmodel.User, error) {
	var user sysmodel.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.LogError(err, "", 0, "", "get_user_by_username", "REPO", map[string]interface{}{
			"operation": "get_user_by_username",
			"username":  username,
		})
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin 更新最后登录时间与IP
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uint64, loginAt time.Time, clientIP string) error {
	err := r.db.WithContext(ctx).Model(&sysmodel.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_at": loginAt,
			"last_login_ip": clientIP,
		}).Error
	if err != nil {
		logger.LogError(err, "", 0, "", "update_last_login", "REPO", map[string]interface{}{
			"operation": "update_last_login",
			"id":        id,
		})
		return err
	}
	return nil
}
