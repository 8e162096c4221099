/**
 * 模型:销售管理模型
 * @description: 销售记录与月度汇总的数据模型
 * @func: SalesRecord、MonthlySummary 结构体定义
 */
package sales

import (
	"time"

	basemodel "adminboard/internal/model/basemodel"
)

// CodePrefix 销售记录业务编号前缀，编号形如 SALES-YY-NNN
const CodePrefix = "SALES"

// SalesRecord 销售记录（父实体）
type SalesRecord struct {
	basemodel.BaseModel

	Code             string     `json:"code" gorm:"uniqueIndex;size:20;not null;comment:业务编号"` // SALES-YY-NNN
	Client           string     `json:"client" gorm:"size:100;not null;comment:客户"`            // 必填
	Item             string     `json:"item" gorm:"size:200;not null;comment:销售项目"`            // 必填
	Team             string     `json:"team" gorm:"size:50;index;comment:担当团队"`
	Assignee         string     `json:"assignee" gorm:"size:50;index;comment:担当者"`
	Amount           int64      `json:"amount" gorm:"default:0;comment:销售额(원)"`
	Margin           int64      `json:"margin" gorm:"default:0;comment:利润(원)"`
	Status           string     `json:"status" gorm:"size:10;index;default:'대기';comment:状态"`
	RegistrationDate time.Time  `json:"registration_date" gorm:"comment:登记日"`
	SaleDate         *time.Time `json:"sale_date" gorm:"comment:销售日"` // 必填
	Note             string     `json:"note" gorm:"size:1000;comment:备注"`
}

// TableName 指定表名
func (SalesRecord) TableName() string {
	return "sales_records"
}

// MonthlySummary 月度汇总行（仪表盘数据，不落库）
type MonthlySummary struct {
	Year        int   `json:"year"`         // 年度
	Month       int   `json:"month"`        // 月份 1-12
	TotalAmount int64 `json:"total_amount"` // 销售额合计
	TotalMargin int64 `json:"total_margin"` // 利润合计
	Count       int   `json:"count"`        // 记录数
}

// MonthKey 返回 YYYY-MM 形式的键
func (m *MonthlySummary) MonthKey() string {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
