package service

import (
	"copo_analysis_backend/internal/model"
)

// gradeBand 分数段与对应的等级、绩点
type gradeBand struct {
	Cutoff      float64
	Grade       string
	GradePoints float64
}

// 分数段按降序排列，取第一个 total >= Cutoff 的段
var gradeBands = []gradeBand{
	{90, "A+", 4.0},
	{85, "A", 3.7},
	{80, "A-", 3.3},
	{75, "B+", 3.0},
	{70, "B", 2.7},
	{65, "B-", 2.3},
	{60, "C+", 2.0},
	{55, "C", 1.7},
	{50, "C-", 1.3},
	{45, "D+", 1.0},
	{40, "D", 0.7},
}

type GradingService struct{}

func NewGradingService() *GradingService {
	return &GradingService{}
}

// WeightedTotal 按环节权重累加原始分数。缺考环节按 0 分计。
// 注意：权重直接乘在原始分上，不做满分归一化，与既有评分口径保持一致。
func (s *GradingService) WeightedTotal(record *model.StudentRecord) float64 {
	total := 0.0
	for _, component := range model.ComponentOrder {
		mark := record.Mark(component)
		if mark == nil {
			continue
		}
		total += model.Components[component].Weight * (*mark)
	}
	return total
}

// GradeFor 根据加权总分返回等级与绩点
func (s *GradingService) GradeFor(total float64) (string, float64) {
	for _, band := range gradeBands {
		if total >= band.Cutoff {
			return band.Grade, band.GradePoints
		}
	}
	return "F", 0.0
}

// Apply 计算并写回一条学生记录的总分、等级与绩点
func (s *GradingService) Apply(record *model.StudentRecord) {
	record.TotalMarks = s.WeightedTotal(record)
	record.Grade, record.GradePoints = s.GradeFor(record.TotalMarks)
}

// CGPA 按学分加权计算平均绩点，总学分为 0 时返回 0
func (s *GradingService) CGPA(records []*model.StudentRecord) float64 {
	totalCredits := 0.0
	weighted := 0.0
	for _, r := range records {
		totalCredits += r.Credits
		weighted += r.GradePoints * r.Credits
	}
	if totalCredits == 0 {
		return 0
	}
	return weighted / totalCredits
}
