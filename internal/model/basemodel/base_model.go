package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 提供统一的基础字段：ID、CreatedAt、UpdatedAt、DeletedAt。
// 约定与特性：
//  1. ID 为主键，且自增，远端创建成功后才会被赋值。
//  2. CreatedAt/UpdatedAt 由 GORM 自动维护时间戳。
//  3. DeletedAt 用于软删除，被软删除的记录不出现在常规查询中，
//     但编号唯一性探测(ExistsByCode)必须使用 Unscoped 查询覆盖这部分数据。
type BaseModel struct {
	ID        uint64         `json:"id" gorm:"primaryKey;autoIncrement;comment:主键ID"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime;comment:创建时间"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime;comment:更新时间"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index;comment:软删除时间"`
}
