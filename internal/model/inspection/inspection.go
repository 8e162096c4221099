/**
 * 模型:客户保安点检模型
 * @description: 客户公司保安点检记录及其子集合（检查项评估、OPL事项）的数据模型
 * @func: Inspection、ChecklistEvaluation、OPLItem 结构体定义
 */
package inspection

import (
	"time"

	basemodel "adminboard/internal/model/basemodel"
)

// CodePrefix 点检记录业务编号前缀，编号形如 INSP-YY-NNN
const CodePrefix = "INSP"

// Inspection 客户保安点检记录（父实体）
type Inspection struct {
	basemodel.BaseModel

	Code             string     `json:"code" gorm:"uniqueIndex;size:20;not null;comment:业务编号"` // INSP-YY-NNN
	Customer         string     `json:"customer" gorm:"size:100;not null;comment:客户公司"`        // 必填
	Inspector        string     `json:"inspector" gorm:"size:50;index;comment:点检担当者"`          // 担当者
	Team             string     `json:"team" gorm:"size:50;index;comment:担当团队"`                // 团队
	Round            int        `json:"round" gorm:"default:1;comment:点检轮次"`                   // 轮次
	Status           string     `json:"status" gorm:"size:10;index;default:'대기';comment:状态"`   // 대기/진행/완료/홀딩/취소
	RegistrationDate time.Time  `json:"registration_date" gorm:"comment:登记日"`
	InspectionDate   *time.Time `json:"inspection_date" gorm:"comment:点检日"` // 必填
	Summary          string     `json:"summary" gorm:"size:1000;comment:点检摘要"`
}

// TableName 指定表名
func (Inspection) TableName() string {
	return "inspections"
}

// ChecklistEvaluation 检查项评估（子集合，整批替换保存）
type ChecklistEvaluation struct {
	basemodel.BaseModel

	RecordID  uint64 `json:"record_id" gorm:"index;not null;comment:所属点检记录ID"`
	ItemCode  string `json:"item_code" gorm:"size:30;comment:检查项编码"`
	ItemName  string `json:"item_name" gorm:"size:200;comment:检查项名称"`
	Result    string `json:"result" gorm:"size:20;comment:评估结果"` // 적합/부적합/해당없음
	Severity  string `json:"severity" gorm:"size:20;comment:严重度"`
	Note      string `json:"note" gorm:"size:500;comment:备注"`
	SortOrder int    `json:"sort_order" gorm:"default:0;comment:展示顺序"`
}

// TableName 指定表名
func (ChecklistEvaluation) TableName() string {
	return "inspection_checklist_evaluations"
}

// OPLItem 点检发现的OPL改善事项（子集合，按ID逐条维护）
// Code 复用父记录编号作为前缀，形如 INSP-YY-NNN-01
type OPLItem struct {
	basemodel.BaseModel

	RecordID uint64     `json:"record_id" gorm:"index;not null;comment:所属点检记录ID"`
	Code     string     `json:"code" gorm:"size:30;comment:OPL编号"` // PARENTCODE-NN
	Content  string     `json:"content" gorm:"size:500;comment:改善内容"`
	Owner    string     `json:"owner" gorm:"size:50;comment:改善担当者"`
	DueDate  *time.Time `json:"due_date" gorm:"comment:改善期限"`
	Done     bool       `json:"done" gorm:"default:false;comment:是否完成"`
}

// TableName 指定表名
func (OPLItem) TableName() string {
	return "inspection_opl_items"
}
