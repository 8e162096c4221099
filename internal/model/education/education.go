/**
 * 模型:教育管理模型
 * @description: 保安教育记录及受训人员名单的数据模型
 * @func: EducationRecord、EducationAttendee 结构体定义
 */
package education

import (
	"time"

	basemodel "adminboard/internal/model/basemodel"
)

// CodePrefix 教育记录业务编号前缀，编号形如 EDU-YY-NNN
const CodePrefix = "EDU"

// EducationRecord 教育记录（父实体）
type EducationRecord struct {
	basemodel.BaseModel

	Code             string     `json:"code" gorm:"uniqueIndex;size:20;not null;comment:业务编号"` // EDU-YY-NNN
	Course           string     `json:"course" gorm:"size:200;not null;comment:课程名称"`          // 必填
	Instructor       string     `json:"instructor" gorm:"size:50;comment:讲师"`
	Team             string     `json:"team" gorm:"size:50;index;comment:对象团队"`
	Status           string     `json:"status" gorm:"size:10;index;default:'대기';comment:状态"`
	RegistrationDate time.Time  `json:"registration_date" gorm:"comment:登记日"`
	EducationDate    *time.Time `json:"education_date" gorm:"comment:教育日"` // 必填
	DurationHours    float64    `json:"duration_hours" gorm:"default:0;comment:教育时长(小时)"`
	Note             string     `json:"note" gorm:"size:1000;comment:备注"`
}

// TableName 指定表名
func (EducationRecord) TableName() string {
	return "education_records"
}

// EducationAttendee 受训人员（子集合，按ID逐条维护）
type EducationAttendee struct {
	basemodel.BaseModel

	RecordID  uint64 `json:"record_id" gorm:"index;not null;comment:所属教育记录ID"`
	Name      string `json:"name" gorm:"size:50;comment:姓名"`
	Team      string `json:"team" gorm:"size:50;comment:所属团队"`
	Completed bool   `json:"completed" gorm:"default:false;comment:是否修完"`
}

// TableName 指定表名
func (EducationAttendee) TableName() string {
	return "education_attendees"
}
