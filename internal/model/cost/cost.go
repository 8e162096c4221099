/**
 * 模型:费用管理模型
 * @description: 费用记录及其三类子集合（费用明细、备注、附件）的数据模型
 * @func: CostRecord、CostLineItem、CostComment、CostAttachment 结构体定义
 */
package cost

import (
	"time"

	basemodel "adminboard/internal/model/basemodel"
)

// CodePrefix 费用记录业务编号前缀，编号形如 COST-YY-NNN
const CodePrefix = "COST"

// CostRecord 费用记录（父实体）
// Code 在创建后不可变更，在本模块所有记录（含软删除）中唯一
type CostRecord struct {
	basemodel.BaseModel

	Code             string     `json:"code" gorm:"uniqueIndex;size:20;not null;comment:业务编号"`   // COST-YY-NNN
	Title            string     `json:"title" gorm:"size:200;not null;comment:费用名称"`             // 必填
	CostType         string     `json:"cost_type" gorm:"size:50;not null;comment:费用类型"`          // 必填
	Team             string     `json:"team" gorm:"size:50;index;comment:担当团队"`                  // 团队
	Assignee         string     `json:"assignee" gorm:"size:50;index;comment:担当者"`               // 担当者
	Amount           int64      `json:"amount" gorm:"default:0;comment:金额(원)"`                   // 金额，单位원
	Status           string     `json:"status" gorm:"size:10;index;default:'대기';comment:状态"`     // 대기/진행/완료/홀딩/취소
	RegistrationDate time.Time  `json:"registration_date" gorm:"comment:登记日"`                    // 登记日
	StartDate        *time.Time `json:"start_date" gorm:"comment:开始日"`                           // 必填
	CompletionDate   *time.Time `json:"completion_date" gorm:"comment:完成日"`                      // 必填
	Note             string     `json:"note" gorm:"size:1000;comment:备注"`                        // 备注
}

// TableName 指定表名
func (CostRecord) TableName() string {
	return "cost_records"
}

// CostLineItem 费用明细行（子集合，约定为整批替换保存）
type CostLineItem struct {
	basemodel.BaseModel

	RecordID  uint64 `json:"record_id" gorm:"index;not null;comment:所属费用记录ID"`
	ItemName  string `json:"item_name" gorm:"size:200;comment:项目名称"`
	Vendor    string `json:"vendor" gorm:"size:100;comment:供应商"`
	Quantity  int    `json:"quantity" gorm:"default:1;comment:数量"`
	UnitPrice int64  `json:"unit_price" gorm:"default:0;comment:单价"`
	Amount    int64  `json:"amount" gorm:"default:0;comment:金额"`
	SortOrder int    `json:"sort_order" gorm:"default:0;comment:展示顺序"`
}

// TableName 指定表名
func (CostLineItem) TableName() string {
	return "cost_line_items"
}

// CostComment 费用备注（子集合，按ID逐条维护）
type CostComment struct {
	basemodel.BaseModel

	RecordID uint64 `json:"record_id" gorm:"index;not null;comment:所属费用记录ID"`
	Author   string `json:"author" gorm:"size:50;comment:作者"`
	Content  string `json:"content" gorm:"size:1000;comment:内容"`
}

// TableName 指定表名
func (CostComment) TableName() string {
	return "cost_comments"
}

// CostAttachment 费用附件（子集合，按ID逐条维护，文件本体由外部存储持有）
type CostAttachment struct {
	basemodel.BaseModel

	RecordID uint64 `json:"record_id" gorm:"index;not null;comment:所属费用记录ID"`
	FileName string `json:"file_name" gorm:"size:255;comment:文件名"`
	FileURL  string `json:"file_url" gorm:"size:500;comment:文件地址"`
	FileSize int64  `json:"file_size" gorm:"default:0;comment:文件大小(字节)"`
	Uploader string `json:"uploader" gorm:"size:50;comment:上传者"`
}

// TableName 指定表名
func (CostAttachment) TableName() string {
	return "cost_attachments"
}
