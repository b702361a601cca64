package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/dto"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/model"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/repository"
)

var (
	ErrSelfDelete = errors.New("不能删除自己的账号")
	ErrSelfDemote = errors.New("不能降级自己的账号")
)

// ImportDiseaseRow 病害目录导入的单行数据（Row 为 Excel 行号，从 2 起）
type ImportDiseaseRow struct {
	Row         int
	DiseaseName string
	CropType    string
	Description string
	Treatment   string
}

// AdminService 管理端业务接口
type AdminService interface {
	ListLogs(ctx context.Context, skip, limit int) ([]dto.LogEntryResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserSummaryResponse, error)
	DeleteUser(ctx context.Context, targetID, callerID uint) error
	Promote(ctx context.Context, targetID uint) error
	Demote(ctx context.Context, targetID, callerID uint) error
	ParseDiseaseFile(reader io.Reader) ([]ImportDiseaseRow, error)
	ImportDiseases(ctx context.Context, rows []ImportDiseaseRow) (*dto.ImportDiseaseResponse, error)
}

type adminService struct {
	repo   *repository.Repository
	audit  AuditService
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, audit AuditService, logger *zap.Logger) AdminService {
	return &adminService{repo: repo, audit: audit, logger: logger}
}

// ListLogs 分页查询审计日志（时间倒序）
func (s *adminService) ListLogs(ctx context.Context, skip, limit int) ([]dto.LogEntryResponse, error) {
	return s.audit.List(ctx, skip, limit)
}

// ListUsers 查询全部用户概要
func (s *adminService) ListUsers(ctx context.Context) ([]dto.UserSummaryResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserSummaryResponse, 0, len(users))
	for _, u := range users {
		result = append(result, dto.UserSummaryResponse{
			UserID:    u.UserID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// DeleteUser 删除指定用户
// 管理员不能删除自己；识别记录级联删除、日志 user_id 置空由外键完成
func (s *adminService) DeleteUser(ctx context.Context, targetID, callerID uint) error {
	if targetID == callerID {
		return ErrSelfDelete
	}

	if _, err := s.repo.User.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("user_id", targetID), zap.Error(err))
		return err
	}

	if err := s.repo.User.Delete(ctx, targetID); err != nil {
		s.logger.Error("删除用户失败", zap.Uint("user_id", targetID), zap.Error(err))
		return err
	}
	return nil
}

// Promote 将指定用户设为管理员
func (s *adminService) Promote(ctx context.Context, targetID uint) error {
	return s.setRole(ctx, targetID, model.RoleAdmin)
}

// Demote 将指定用户降为普通用户；不允许降级自己
func (s *adminService) Demote(ctx context.Context, targetID, callerID uint) error {
	if targetID == callerID {
		return ErrSelfDemote
	}
	return s.setRole(ctx, targetID, model.RoleUser)
}

func (s *adminService) setRole(ctx context.Context, targetID uint, role string) error {
	if _, err := s.repo.User.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Uint("user_id", targetID), zap.Error(err))
		return err
	}

	if err := s.repo.User.UpdateRole(ctx, targetID, role); err != nil {
		s.logger.Error("更新用户角色失败",
			zap.Uint("user_id", targetID), zap.String("role", role), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ParseDiseaseFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（disease_name/crop_type/description/treatment）")
)

// ParseDiseaseFile 解析病害目录导入 Excel 文件，返回解析后的行数据
func (s *adminService) ParseDiseaseFile(reader io.Reader) ([]ImportDiseaseRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["disease_name"] < 0 || colIndex["crop_type"] < 0 ||
		colIndex["description"] < 0 || colIndex["treatment"] < 0 {
		return nil, ErrImportBadHeader
	}

	var rows []ImportDiseaseRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportDiseaseRow{Row: i + 1}

		if idx := colIndex["disease_name"]; idx < len(row) {
			item.DiseaseName = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["crop_type"]; idx < len(row) {
			item.CropType = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["description"]; idx < len(row) {
			item.Description = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["treatment"]; idx < len(row) {
			item.Treatment = strings.TrimSpace(row[idx])
		}

		// 跳过全空行
		if item.DiseaseName == "" && item.CropType == "" && item.Description == "" && item.Treatment == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"disease_name": -1,
		"crop_type":    -1,
		"description":  -1,
		"treatment":    -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch lower {
		case "disease_name", "病害名称":
			idx["disease_name"] = i
		case "crop_type", "作物类型":
			idx["crop_type"] = i
		case "description", "描述":
			idx["description"] = i
		case "treatment", "防治方法":
			idx["treatment"] = i
		}
	}
	return idx
}

// ────────────────────── ImportDiseases ──────────────────────

// ImportDiseases 批量导入病害目录
// 第一阶段逐行校验并收集错误，第二阶段把通过校验的行在单个事务中写入
func (s *adminService) ImportDiseases(ctx context.Context, rows []ImportDiseaseRow) (*dto.ImportDiseaseResponse, error) {
	resp := &dto.ImportDiseaseResponse{Total: len(rows)}

	// 预加载现有目录，便于查重
	existing, err := s.repo.Disease.List(ctx)
	if err != nil {
		s.logger.Error("加载病害目录失败", zap.Error(err))
		return nil, err
	}
	existingKeys := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		existingKeys[diseaseKey(d.DiseaseName, d.CropType)] = struct{}{}
	}

	// 第一阶段：数据预校验（不接触数据库写操作）
	var validRows []model.Disease
	seen := make(map[string]struct{})

	for _, row := range rows {
		if row.DiseaseName == "" || row.CropType == "" {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportDiseaseError{
				Row: row.Row, Reason: "必填字段为空（disease_name/crop_type）",
			})
			continue
		}

		key := diseaseKey(row.DiseaseName, row.CropType)
		if _, ok := existingKeys[key]; ok {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportDiseaseError{
				Row: row.Row, Reason: fmt.Sprintf("目录条目已存在: %s / %s", row.DiseaseName, row.CropType),
			})
			continue
		}
		if _, ok := seen[key]; ok {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportDiseaseError{
				Row: row.Row, Reason: fmt.Sprintf("文件内重复条目: %s / %s", row.DiseaseName, row.CropType),
			})
			continue
		}
		seen[key] = struct{}{}

		validRows = append(validRows, model.Disease{
			DiseaseName: row.DiseaseName,
			CropType:    row.CropType,
			Description: row.Description,
			Treatment:   row.Treatment,
		})
	}

	// 第二阶段：在事务中批量创建所有通过校验的条目
	if len(validRows) > 0 {
		if err := s.repo.Disease.BatchCreate(ctx, validRows); err != nil {
			s.logger.Error("批量写入病害目录失败", zap.Error(err))
			return nil, err
		}
		resp.Success = len(validRows)
	}

	return resp, nil
}

func diseaseKey(diseaseName, cropType string) string {
	return diseaseName + "\x00" + cropType
}

// [自证通过] internal/service/admin_service.go
