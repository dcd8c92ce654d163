package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const overviewCacheTTL = 10 * time.Minute

// AnalyticsService 驱动完整的处理管线：
// 解析工作簿 -> 逐条算分/CO/PO -> 全量聚类 -> 发布为当前数据集。
// 逐条阶段互相独立，单条失败只记录错误，不阻断整个批次。
type AnalyticsService struct {
	GradingSvc *GradingService
	OutcomeSvc *OutcomeService
	ClusterSvc *ClusterService
	IngestSvc  *IngestService
	DatasetSvc *DatasetService
	StorageSvc *StorageService
	Redis      *redis.Client
}

func NewAnalyticsService(
	gradingSvc *GradingService,
	outcomeSvc *OutcomeService,
	clusterSvc *ClusterService,
	ingestSvc *IngestService,
	datasetSvc *DatasetService,
	storageSvc *StorageService,
	rdb *redis.Client,
) *AnalyticsService {
	return &AnalyticsService{
		GradingSvc: gradingSvc,
		OutcomeSvc: outcomeSvc,
		ClusterSvc: clusterSvc,
		IngestSvc:  ingestSvc,
		DatasetSvc: datasetSvc,
		StorageSvc: storageSvc,
		Redis:      rdb,
	}
}

// ProcessDataset 解析并处理一份上传的工作簿，成功后替换当前数据集
func (s *AnalyticsService) ProcessDataset(ctx context.Context, fileName string, uploadedBy uint, content []byte) (*model.Dataset, error) {
	records, matrix, programOutcomes, err := s.IngestSvc.ParseWorkbook(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	dataset := &model.Dataset{
		ID:              model.GenerateUUID(),
		FileName:        fileName,
		UploadedBy:      uploadedBy,
		UploadedAt:      time.Now(),
		Records:         records,
		Matrix:          matrix,
		ProgramOutcomes: programOutcomes,
	}

	s.Compute(dataset)
	s.DatasetSvc.SetCurrent(dataset)

	// 归档原始文件并落库上传记录，两者失败都不影响已发布的数据集
	storagePath := ""
	if s.StorageSvc != nil {
		storagePath, err = s.StorageSvc.ArchiveWorkbook(ctx, dataset.ID, fileName, bytes.NewReader(content), int64(len(content)))
		if err != nil {
			logger.Log.Warn("Failed to archive workbook", zap.Error(err))
		}
	}
	if err := s.DatasetSvc.SaveUpload(&model.DatasetUpload{
		UUIDBase:     model.UUIDBase{ID: dataset.ID},
		FileName:     fileName,
		StoragePath:  storagePath,
		UploadedBy:   uploadedBy,
		StudentCount: len(records),
		COCount:      len(matrix.Outcomes),
	}); err != nil {
		logger.Log.Warn("Failed to persist upload record", zap.Error(err))
	}

	s.invalidateOverview(ctx, dataset.ID)
	return dataset, nil
}

// Compute 在内存中跑完整个计算管线。
// 聚类需要全体学生的特征矩阵，必须等逐条阶段全部结束后再运行。
func (s *AnalyticsService) Compute(dataset *model.Dataset) {
	coList := make([]string, 0, len(dataset.Matrix.Outcomes))
	for _, co := range dataset.Matrix.Outcomes {
		coList = append(coList, co.Code)
	}

	dataset.Errors = dataset.Errors[:0]
	for _, record := range dataset.Records {
		s.GradingSvc.Apply(record)
		record.COAchievements = s.OutcomeSvc.COAchievements(record, dataset.Matrix.Outcomes)

		attainments, err := s.OutcomeSvc.POAttainments(record.COAchievements, coList, dataset.Matrix)
		if err != nil {
			dataset.Errors = append(dataset.Errors, model.RecordError{
				StudentID: record.StudentID,
				Stage:     "po_attainment",
				Message:   err.Error(),
			})
			record.POAttainments = map[string]float64{}
			continue
		}
		record.POAttainments = attainments
	}

	dataset.FeatureNames = s.ClusterSvc.FeatureNames(dataset.Matrix.Outcomes)
	dataset.Summaries = s.ClusterSvc.Cluster(dataset.Records, dataset.Matrix.Outcomes)
}

// Overview 返回班级总览，结果按数据集 ID 缓存
func (s *AnalyticsService) Overview(ctx context.Context) (*model.ClassOverview, error) {
	dataset, err := s.DatasetSvc.Current()
	if err != nil {
		return nil, err
	}

	cacheKey := overviewCacheKey(dataset.ID)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var overview model.ClassOverview
			if err := json.Unmarshal([]byte(cached), &overview); err == nil {
				return &overview, nil
			}
		}
	}

	overview := s.buildOverview(dataset)

	if s.Redis != nil {
		if payload, err := json.Marshal(overview); err == nil {
			s.Redis.Set(ctx, cacheKey, payload, overviewCacheTTL)
		}
	}
	return overview, nil
}

func (s *AnalyticsService) buildOverview(dataset *model.Dataset) *model.ClassOverview {
	overview := &model.ClassOverview{
		DatasetID:         dataset.ID,
		StudentCount:      len(dataset.Records),
		GradeDistribution: make(map[string]int),
		AvgCOAchievement:  make(map[string]float64),
		AvgPOAttainment:   make(map[string]float64),
		FailedRecords:     len(dataset.Errors),
	}
	if len(dataset.Records) == 0 {
		return overview
	}

	first := dataset.Records[0]
	overview.CourseCode = first.CourseCode
	overview.CourseName = first.CourseName
	overview.Semester = first.Semester
	overview.LowestTotal = first.TotalMarks

	totalSum := 0.0
	gradeSum := 0.0
	passed := 0
	for _, r := range dataset.Records {
		totalSum += r.TotalMarks
		gradeSum += r.GradePoints
		overview.GradeDistribution[r.Grade]++
		if r.Grade != "F" {
			passed++
		}
		if r.TotalMarks > overview.HighestTotal {
			overview.HighestTotal = r.TotalMarks
		}
		if r.TotalMarks < overview.LowestTotal {
			overview.LowestTotal = r.TotalMarks
		}
		for co, value := range r.COAchievements {
			overview.AvgCOAchievement[co] += value
		}
		for po, value := range r.POAttainments {
			overview.AvgPOAttainment[po] += value
		}
	}

	n := float64(len(dataset.Records))
	overview.AvgTotalMarks = totalSum / n
	overview.AvgGradePoints = gradeSum / n
	overview.PassRate = float64(passed) / n * 100
	for co := range overview.AvgCOAchievement {
		overview.AvgCOAchievement[co] /= n
	}
	for po := range overview.AvgPOAttainment {
		overview.AvgPOAttainment[po] /= n
	}
	return overview
}

// attainmentTarget CO/PO 的达成线
const attainmentTarget = 60.0

// OutcomeReport 汇总全班的 CO 达成度与 PO 达成度
func (s *AnalyticsService) OutcomeReport() (*model.OutcomeReport, error) {
	dataset, err := s.DatasetSvc.Current()
	if err != nil {
		return nil, err
	}

	report := &model.OutcomeReport{}

	for _, co := range dataset.Matrix.Outcomes {
		summary := summarizeOutcome(co.Code, co.Description, dataset.Records, func(r *model.StudentRecord) (float64, bool) {
			value, ok := r.COAchievements[co.Code]
			return value, ok
		})
		report.CourseOutcomes = append(report.CourseOutcomes, summary)
	}

	poDescriptions := make(map[string]string, len(dataset.ProgramOutcomes))
	for _, po := range dataset.ProgramOutcomes {
		poDescriptions[po.Code] = po.Description
	}
	for _, po := range model.POList() {
		code := po
		summary := summarizeOutcome(code, poDescriptions[code], dataset.Records, func(r *model.StudentRecord) (float64, bool) {
			value, ok := r.POAttainments[code]
			return value, ok
		})
		report.ProgramOutcomes = append(report.ProgramOutcomes, summary)
	}
	return report, nil
}

func summarizeOutcome(code, description string, records []*model.StudentRecord, valueOf func(*model.StudentRecord) (float64, bool)) model.OutcomeSummary {
	summary := model.OutcomeSummary{Code: code, Description: description}
	sum := 0.0
	for _, r := range records {
		value, ok := valueOf(r)
		if !ok {
			continue
		}
		if summary.Total == 0 {
			summary.Min = value
			summary.Max = value
		}
		summary.Total++
		sum += value
		if value < summary.Min {
			summary.Min = value
		}
		if value > summary.Max {
			summary.Max = value
		}
		if value >= attainmentTarget {
			summary.Attained++
		}
	}
	if summary.Total > 0 {
		summary.Average = sum / float64(summary.Total)
	}
	return summary
}

// ClusterSummaries 返回聚类摘要
func (s *AnalyticsService) ClusterSummaries() ([]model.ClusterSummary, error) {
	dataset, err := s.DatasetSvc.Current()
	if err != nil {
		return nil, err
	}
	return dataset.Summaries, nil
}

// ComponentStats 各考核环节的均值、最高分与缺考人数
func (s *AnalyticsService) ComponentStats() ([]model.ComponentStat, error) {
	dataset, err := s.DatasetSvc.Current()
	if err != nil {
		return nil, err
	}

	stats := make([]model.ComponentStat, 0, len(model.ComponentOrder))
	for _, component := range model.ComponentOrder {
		spec := model.Components[component]
		stat := model.ComponentStat{
			Component: string(component),
			FullMarks: spec.MaxMarks,
		}
		sum := 0.0
		present := 0
		for _, r := range dataset.Records {
			mark := r.Mark(component)
			if mark == nil {
				stat.Missing++
				continue
			}
			present++
			sum += *mark
			if *mark > stat.Max {
				stat.Max = *mark
			}
		}
		if present > 0 {
			stat.Average = sum / float64(present)
		}
		stats = append(stats, stat)
	}
	return stats, nil
}

// TopPerformers 返回按总分降序的前 n 名
func (s *AnalyticsService) TopPerformers(n int) ([]model.StudentBrief, error) {
	return s.rankedPerformers(n, true)
}

// BottomPerformers 返回按总分升序的前 n 名
func (s *AnalyticsService) BottomPerformers(n int) ([]model.StudentBrief, error) {
	return s.rankedPerformers(n, false)
}

func (s *AnalyticsService) rankedPerformers(n int, descending bool) ([]model.StudentBrief, error) {
	dataset, err := s.DatasetSvc.Current()
	if err != nil {
		return nil, err
	}

	ranked := make([]*model.StudentRecord, len(dataset.Records))
	copy(ranked, dataset.Records)
	sort.SliceStable(ranked, func(i, j int) bool {
		if descending {
			return ranked[i].TotalMarks > ranked[j].TotalMarks
		}
		return ranked[i].TotalMarks < ranked[j].TotalMarks
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	briefs := make([]model.StudentBrief, 0, n)
	for _, r := range ranked[:n] {
		briefs = append(briefs, model.StudentBrief{
			StudentID:        r.StudentID,
			StudentName:      r.StudentName,
			TotalMarks:       r.TotalMarks,
			Grade:            r.Grade,
			GradePoints:      r.GradePoints,
			PerformanceLabel: r.PerformanceLabel,
		})
	}
	return briefs, nil
}

// SearchStudents 按学号或姓名搜索，返回简要信息
func (s *AnalyticsService) SearchStudents(query string) ([]model.StudentBrief, error) {
	records, err := s.DatasetSvc.Search(query)
	if err != nil {
		return nil, err
	}
	briefs := make([]model.StudentBrief, 0, len(records))
	for _, r := range records {
		briefs = append(briefs, model.StudentBrief{
			StudentID:        r.StudentID,
			StudentName:      r.StudentName,
			TotalMarks:       r.TotalMarks,
			Grade:            r.Grade,
			GradePoints:      r.GradePoints,
			PerformanceLabel: r.PerformanceLabel,
		})
	}
	return briefs, nil
}

func overviewCacheKey(datasetID string) string {
	return fmt.Sprintf("copo:overview:%s", datasetID)
}

func (s *AnalyticsService) invalidateOverview(ctx context.Context, datasetID string) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(ctx, overviewCacheKey(datasetID))
}
