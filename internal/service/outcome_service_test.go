package service

import (
	"testing"

	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestCOAchievementNoMappedComponents(t *testing.T) {
	svc := NewOutcomeService()

	record := fullMarksRecord(25, 35, 12, 8, 4)
	// 没有任何环节标注 CO9
	record.MidCOs = []string{"CO1"}
	assert.Equal(t, 0.0, svc.COAchievement(record, "CO9"))
}

func TestCOAchievementSingleComponent(t *testing.T) {
	svc := NewOutcomeService()

	// CO1 只挂在期末上，达成度完全由期末百分比决定
	record := &model.StudentRecord{
		FinalMarks: fp(30),
		FinalCOs:   []string{"CO1"},
	}
	assert.InDelta(t, 75.0, svc.COAchievement(record, "CO1"), 1e-9)
}

// 一个环节的分数拆给两个 CO 后，两个 CO 分子里该环节的贡献之和
// 等于只挂一个 CO 时的贡献，拆分不放大也不丢失。
func TestCOAchievementShareSplitConservation(t *testing.T) {
	svc := NewOutcomeService()

	single := &model.StudentRecord{
		MidMarks: fp(24),
		MidCOs:   []string{"CO1"},
	}
	split := &model.StudentRecord{
		MidMarks: fp(24),
		MidCOs:   []string{"CO1", "CO2"},
	}

	// 分母相同（都只有 mid 参与），直接比较达成度即可
	lone := svc.COAchievement(single, "CO1")
	half1 := svc.COAchievement(split, "CO1")
	half2 := svc.COAchievement(split, "CO2")
	assert.InDelta(t, lone, half1+half2, 1e-9)
}

func TestCOAchievementSkipsMissing(t *testing.T) {
	svc := NewOutcomeService()

	record := &model.StudentRecord{
		MidMarks:   fp(15),
		MidCOs:     []string{"CO1"},
		FinalMarks: nil, // 缺考的环节整体跳过，不按 0 分参与
		FinalCOs:   []string{"CO1"},
		CTMarks:    fp(12),
		CTCOs:      nil, // 没有标签的环节同样跳过
	}

	// 只有 mid 参与：15/30 = 50%
	assert.InDelta(t, 50.0, svc.COAchievement(record, "CO1"), 1e-9)
}

func testMatrix() *model.COPOMatrix {
	return &model.COPOMatrix{
		Outcomes: []model.CourseOutcome{
			{Code: "CO1"}, {Code: "CO2"},
		},
		Weights: map[string]map[string]float64{
			"CO1": {"PO1": 1, "PO2": 0, "PO3": 2},
			"CO2": {"PO1": 1, "PO2": 0, "PO3": 0},
		},
	}
}

func TestPOAttainmentsWeightedAverage(t *testing.T) {
	svc := NewOutcomeService()

	achievements := map[string]float64{"CO1": 80, "CO2": 60}
	attainments, err := svc.POAttainments(achievements, []string{"CO1", "CO2"}, testMatrix())
	assert.NoError(t, err)

	// PO1: (80*1 + 60*1) / 2 = 70
	assert.InDelta(t, 70.0, attainments["PO1"], 1e-9)
	// PO3: 只有 CO1 的权重为正
	assert.InDelta(t, 80.0, attainments["PO3"], 1e-9)
}

func TestPOAttainmentsAllZeroRow(t *testing.T) {
	svc := NewOutcomeService()

	attainments, err := svc.POAttainments(map[string]float64{"CO1": 90, "CO2": 90}, []string{"CO1", "CO2"}, testMatrix())
	assert.NoError(t, err)

	// PO2 的权重全为 0，达成度为 0
	assert.Equal(t, 0.0, attainments["PO2"])
	// 未映射的 PO 同样为 0
	assert.Equal(t, 0.0, attainments["PO12"])
	assert.Len(t, attainments, model.POCount)
}

func TestPOAttainmentsMissingCORow(t *testing.T) {
	svc := NewOutcomeService()

	_, err := svc.POAttainments(map[string]float64{"CO1": 50, "CO3": 50}, []string{"CO1", "CO3"}, testMatrix())
	assert.ErrorIs(t, err, util.ErrCONotInMatrix)
}
