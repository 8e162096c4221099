/**
 * 模型:变更日志模型
 * @description: 不可变审计记录，任何成功的远端变更(状态流转、创建、看板移动)的副作用
 * @func: ChangeLogEntry 结构体及状态枚举
 */
package changelog

import (
	basemodel "adminboard/internal/model/basemodel"
)

// ChangeLogEntry 变更日志条目
// 只在远端变更成功后追加，从不更新、从不删除
type ChangeLogEntry struct {
	basemodel.BaseModel

	Module       string `json:"module" gorm:"size:30;index;not null;comment:所属模块"`       // cost / inspection / education / hardware / partner / sales
	RecordCode   string `json:"record_code" gorm:"size:30;index;not null;comment:业务编号"`  // 目标记录的业务编号
	Action       string `json:"action" gorm:"size:50;not null;comment:动作标签"`             // create / status_change / kanban_move 等
	ChangedField string `json:"changed_field" gorm:"size:50;comment:变更字段"`               // 如 status
	BeforeValue  string `json:"before_value" gorm:"size:255;comment:变更前值"`               // 变更前值
	AfterValue   string `json:"after_value" gorm:"size:255;comment:变更后值"`                // 变更后值
	Description  string `json:"description" gorm:"size:500;comment:描述"`                  // 人类可读描述
	ActorName    string `json:"actor_name" gorm:"size:50;comment:操作者姓名"`                 // 操作者
	ActorTeam    string `json:"actor_team" gorm:"size:50;comment:操作者团队"`                 // 操作者团队
	ActorDept    string `json:"actor_department" gorm:"size:50;comment:操作者部门"`           // 操作者部门
}

// TableName 指定表名
func (ChangeLogEntry) TableName() string {
	return "change_logs"
}

// 各模块共用的状态枚举值
// 看板列、状态下拉框与状态流转校验都使用这组固定值
const (
	StatusWaiting    = "대기" // 待处理
	StatusInProgress = "진행" // 进行中
	StatusDone       = "완료" // 已完成
	StatusHold       = "홀딩" // 挂起
	StatusCancelled  = "취소" // 已取消
)

// AllStatuses 返回完整状态集合，按看板列顺序
func AllStatuses() []string {
	return []string{StatusWaiting, StatusInProgress, StatusDone, StatusHold, StatusCancelled}
}

// IsValidStatus 检查状态值是否属于固定枚举
func IsValidStatus(s string) bool {
	for _, v := range AllStatuses() {
		if v == s {
			return true
		}
	}
	return false
}
