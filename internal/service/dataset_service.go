package service

import (
	"strings"
	"sync"

	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/repository"
	"copo_analysis_backend/internal/util"
	"copo_analysis_backend/pkg/monitoring"
)

// DatasetService 持有当前加载的数据集。所有处理接口都显式经由该服务读写，
// 读写锁保证上传替换与查询之间的一致性。
type DatasetService struct {
	mu      sync.RWMutex
	current *model.Dataset

	UploadRepo *repository.DatasetUploadRepository
}

func NewDatasetService(uploadRepo *repository.DatasetUploadRepository) *DatasetService {
	return &DatasetService{
		UploadRepo: uploadRepo,
	}
}

// SetCurrent 替换当前数据集
func (s *DatasetService) SetCurrent(dataset *model.Dataset) {
	s.mu.Lock()
	s.current = dataset
	s.mu.Unlock()

	monitoring.DatasetStudents.Set(float64(len(dataset.Records)))
}

// Current 返回当前数据集，未加载时返回错误
func (s *DatasetService) Current() (*model.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, util.ErrDatasetNotLoaded
	}
	return s.current, nil
}

// FindStudent 按学号查找当前数据集中的记录
func (s *DatasetService) FindStudent(studentID string) (*model.StudentRecord, error) {
	dataset, err := s.Current()
	if err != nil {
		return nil, err
	}
	for _, record := range dataset.Records {
		if record.StudentID == studentID {
			return record, nil
		}
	}
	return nil, util.ErrStudentNotFound
}

// FindStudentByIDAndEmail 学生门户登录用：学号与邮箱须同时匹配
func (s *DatasetService) FindStudentByIDAndEmail(studentID, email string) (*model.StudentRecord, error) {
	record, err := s.FindStudent(studentID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(record.Email, email) {
		return nil, util.ErrStudentNotFound
	}
	return record, nil
}

// Search 按学号或姓名做大小写不敏感的子串匹配
func (s *DatasetService) Search(query string) ([]*model.StudentRecord, error) {
	dataset, err := s.Current()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return dataset.Records, nil
	}

	needle := strings.ToLower(query)
	matched := make([]*model.StudentRecord, 0)
	for _, record := range dataset.Records {
		if strings.Contains(strings.ToLower(record.StudentID), needle) ||
			strings.Contains(strings.ToLower(record.StudentName), needle) {
			matched = append(matched, record)
		}
	}
	return matched, nil
}

// SaveUpload 将上传记录落库
func (s *DatasetService) SaveUpload(upload *model.DatasetUpload) error {
	if s.UploadRepo == nil {
		return nil
	}
	return s.UploadRepo.Create(upload)
}

// ListUploads 分页返回某用户的历史上传
func (s *DatasetService) ListUploads(userID uint, page, limit int) ([]model.DatasetUpload, int64, error) {
	if s.UploadRepo == nil {
		return nil, 0, nil
	}
	return s.UploadRepo.ListByUser(userID, page, limit)
}
