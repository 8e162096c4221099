/**
 * 模型:硬件资产模型
 * @description: 硬件资产台账的数据模型，看板视图的列即状态枚举
 * @func: HardwareAsset 结构体定义
 */
package hardware

import (
	"time"

	basemodel "adminboard/internal/model/basemodel"
)

// CodePrefix 硬件资产业务编号前缀，编号形如 HW-YY-NNN
const CodePrefix = "HW"

// HardwareAsset 硬件资产（父实体）
// 状态变更（对话框编辑或看板拖拽）必须伴随一条变更日志
type HardwareAsset struct {
	basemodel.BaseModel

	Code             string     `json:"code" gorm:"uniqueIndex;size:20;not null;comment:业务编号"` // HW-YY-NNN
	Name             string     `json:"name" gorm:"size:200;not null;comment:资产名称"`            // 必填
	ModelName        string     `json:"model_name" gorm:"size:100;comment:型号"`
	SerialNumber     string     `json:"serial_number" gorm:"size:100;index;comment:序列号"`
	Owner            string     `json:"owner" gorm:"size:50;index;comment:持有者"`
	Team             string     `json:"team" gorm:"size:50;index;comment:所属团队"`
	Location         string     `json:"location" gorm:"size:100;comment:放置位置"`
	Status           string     `json:"status" gorm:"size:10;index;default:'대기';comment:状态"` // 看板列
	RegistrationDate time.Time  `json:"registration_date" gorm:"comment:登记日"`
	PurchaseDate     *time.Time `json:"purchase_date" gorm:"comment:购入日"`
	Note             string     `json:"note" gorm:"size:1000;comment:备注"`
}

// TableName 指定表名
func (HardwareAsset) TableName() string {
	return "hardware_assets"
}
