/**
 * 模型:协力公司保安监查模型
 * @description: 协力公司(合作伙伴)保安监查记录及其子集合的数据模型
 * @func: PartnerAudit、ChecklistEvaluation、OPLItem 结构体定义
 */
package partner

import (
	"time"

	basemodel "adminboard/internal/model/basemodel"
)

// CodePrefix 监查记录业务编号前缀，编号形如 AUD-YY-NNN
const CodePrefix = "AUD"

// PartnerAudit 协力公司保安监查记录（父实体）
type PartnerAudit struct {
	basemodel.BaseModel

	Code             string     `json:"code" gorm:"uniqueIndex;size:20;not null;comment:业务编号"` // AUD-YY-NNN
	PartnerCompany   string     `json:"partner_company" gorm:"size:100;not null;comment:协力公司"` // 必填
	Auditor          string     `json:"auditor" gorm:"size:50;index;comment:监查担当者"`
	Team             string     `json:"team" gorm:"size:50;index;comment:担当团队"`
	Grade            string     `json:"grade" gorm:"size:10;comment:监查等级"` // A/B/C/D
	Status           string     `json:"status" gorm:"size:10;index;default:'대기';comment:状态"`
	RegistrationDate time.Time  `json:"registration_date" gorm:"comment:登记日"`
	AuditDate        *time.Time `json:"audit_date" gorm:"comment:监查日"` // 必填
	Summary          string     `json:"summary" gorm:"size:1000;comment:监查摘要"`
}

// TableName 指定表名
func (PartnerAudit) TableName() string {
	return "partner_audits"
}

// ChecklistEvaluation 监查检查项评估（子集合，整批替换保存）
type ChecklistEvaluation struct {
	basemodel.BaseModel

	RecordID  uint64 `json:"record_id" gorm:"index;not null;comment:所属监查记录ID"`
	ItemCode  string `json:"item_code" gorm:"size:30;comment:检查项编码"`
	ItemName  string `json:"item_name" gorm:"size:200;comment:检查项名称"`
	Result    string `json:"result" gorm:"size:20;comment:评估结果"`
	Severity  string `json:"severity" gorm:"size:20;comment:严重度"`
	Note      string `json:"note" gorm:"size:500;comment:备注"`
	SortOrder int    `json:"sort_order" gorm:"default:0;comment:展示顺序"`
}

// TableName 指定表名
func (ChecklistEvaluation) TableName() string {
	return "partner_checklist_evaluations"
}

// OPLItem 监查发现的OPL改善事项（子集合，按ID逐条维护）
type OPLItem struct {
	basemodel.BaseModel

	RecordID uint64     `json:"record_id" gorm:"index;not null;comment:所属监查记录ID"`
	Code     string     `json:"code" gorm:"size:30;comment:OPL编号"` // PARENTCODE-NN
	Content  string     `json:"content" gorm:"size:500;comment:改善内容"`
	Owner    string     `json:"owner" gorm:"size:50;comment:改善担当者"`
	DueDate  *time.Time `json:"due_date" gorm:"comment:改善期限"`
	Done     bool       `json:"done" gorm:"default:false;comment:是否完成"`
}

// TableName 指定表名
func (OPLItem) TableName() string {
	return "partner_opl_items"
}
