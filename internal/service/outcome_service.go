package service

import (
	"fmt"

	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/util"
)

type OutcomeService struct{}

func NewOutcomeService() *OutcomeService {
	return &OutcomeService{}
}

// COAchievement 计算一条记录上某个 CO 的达成度（0-100）。
// 只统计同时有成绩和 CO 标签、且标签包含该 CO 的环节：
// 环节分数先在其全部标签间均分，再按满分归一并乘以环节权重累加，
// 最后除以参与环节的权重之和。无任何环节映射到该 CO 时返回 0。
func (s *OutcomeService) COAchievement(record *model.StudentRecord, coCode string) float64 {
	numerator := 0.0
	denominator := 0.0

	for _, component := range model.ComponentOrder {
		mark := record.Mark(component)
		tags := record.COTags(component)
		if mark == nil || len(tags) == 0 {
			continue
		}

		tagged := false
		for _, tag := range tags {
			if tag == coCode {
				tagged = true
				break
			}
		}
		if !tagged {
			continue
		}

		spec := model.Components[component]
		share := *mark / float64(len(tags))
		numerator += share / spec.MaxMarks * spec.Weight * 100
		denominator += spec.Weight * 100
	}

	if denominator == 0 {
		return 0
	}
	return numerator / denominator * 100
}

// COAchievements 计算一条记录上所有 CO 的达成度
func (s *OutcomeService) COAchievements(record *model.StudentRecord, outcomes []model.CourseOutcome) map[string]float64 {
	achievements := make(map[string]float64, len(outcomes))
	for _, co := range outcomes {
		achievements[co.Code] = s.COAchievement(record, co.Code)
	}
	return achievements
}

// POAttainments 由 CO 达成度和映射矩阵推算 12 条 PO 的达成度。
// coList 中出现但矩阵中没有映射行的 CO 视为数据不完整，直接报错。
// 某 PO 的权重全为 0 时该 PO 达成度为 0。
func (s *OutcomeService) POAttainments(coAchievements map[string]float64, coList []string, matrix *model.COPOMatrix) (map[string]float64, error) {
	for _, co := range coList {
		if !matrix.HasOutcome(co) {
			return nil, fmt.Errorf("%w: %s", util.ErrCONotInMatrix, co)
		}
	}

	attainments := make(map[string]float64, model.POCount)
	for _, po := range model.POList() {
		numerator := 0.0
		denominator := 0.0
		for _, co := range coList {
			weight := matrix.Weights[co][po]
			if weight <= 0 {
				continue
			}
			numerator += coAchievements[co] * weight
			denominator += weight
		}
		if denominator == 0 {
			attainments[po] = 0
			continue
		}
		attainments[po] = numerator / denominator
	}
	return attainments, nil
}
