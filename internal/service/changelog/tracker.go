/**
 * 状态流转跟踪器
 * @description: 记录级状态机。对话框编辑或看板拖拽触发的状态变更，
 *               在old≠new时先落实远端更新，再合成一条变更日志；
 *               同列落子是no-op。拖拽位移低于阈值按点击(打开编辑器)处理
 * @func: Tracker、ClassifyPointerGesture
 */
package changelog

import (
	"context"
	"fmt"
	"math"

	changelogmodel "adminboard/internal/model/changelog"
	"adminboard/internal/model/system"
)

// StatusUpdateFunc 将新状态落实到远端的回调
type StatusUpdateFunc func(ctx context.Context, id uint64, status string) error

// Tracker 状态流转跟踪器
type Tracker struct {
	logs *Service
}

// NewTracker 创建状态流转跟踪器实例
func NewTracker(logs *Service) *Tracker {
	return &Tracker{logs: logs}
}

// Transition 执行一次状态流转
// old==new 时为no-op：不写远端、不产生日志，返回false。
// 否则：(1)校验新状态属于固定枚举 (2)落实远端更新 (3)追加恰好一条
// changed_field="status" 的变更日志(追加失败被吞掉)。返回是否真正发生了流转
func (t *Tracker) Transition(ctx context.Context, module string, id uint64, recordCode, oldStatus, newStatus string, actor system.Actor, update StatusUpdateFunc) (bool, error) {
	return t.transition(ctx, module, id, recordCode, oldStatus, newStatus, actor, update, "status_change")
}

// MoveCard 看板拖拽触发的状态流转,语义与Transition一致,动作标签为kanban_move
func (t *Tracker) MoveCard(ctx context.Context, module string, id uint64, recordCode, oldStatus, newStatus string, actor system.Actor, update StatusUpdateFunc) (bool, error) {
	return t.transition(ctx, module, id, recordCode, oldStatus, newStatus, actor, update, "kanban_move")
}

func (t *Tracker) transition(ctx context.Context, module string, id uint64, recordCode, oldStatus, newStatus string, actor system.Actor, update StatusUpdateFunc, action string) (bool, error) {
	if oldStatus == newStatus {
		return false, nil
	}
	if !changelogmodel.IsValidStatus(newStatus) {
		return false, fmt.Errorf("无效的状态值: %s", newStatus)
	}

	if err := update(ctx, id, newStatus); err != nil {
		return false, err
	}

	t.logs.Append(ctx, &changelogmodel.ChangeLogEntry{
		Module:       module,
		RecordCode:   recordCode,
		Action:       action,
		ChangedField: "status",
		BeforeValue:  oldStatus,
		AfterValue:   newStatus,
		Description:  fmt.Sprintf("%s 상태 변경: %s → %s", recordCode, oldStatus, newStatus),
		ActorName:    actor.Name,
		ActorTeam:    actor.Team,
		ActorDept:    actor.Department,
	})

	return true, nil
}

// Gesture 看板指针手势分类结果
type Gesture int

const (
	// GestureClick 位移低于阈值，按点击处理：打开编辑器，不移动卡片
	GestureClick Gesture = iota
	// GestureDrag 位移达到阈值，按拖拽处理：执行列间移动
	GestureDrag
)

// DefaultDragThreshold 默认拖拽判定阈值(像素)
const DefaultDragThreshold = 5.0

// ClassifyPointerGesture 区分"点击编辑"与"拖拽移动"
// 以指针位移的欧氏距离与阈值比较，低于阈值视为点击
func ClassifyPointerGesture(dx, dy, threshold float64) Gesture {
	if threshold <= 0 {
		threshold = DefaultDragThreshold
	}
	if math.Hypot(dx, dy) < threshold {
		return GestureClick
	}
	return GestureDrag
}
