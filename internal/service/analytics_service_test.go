package service

import (
	"context"
	"testing"

	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func newTestAnalytics() (*AnalyticsService, *DatasetService) {
	datasetSvc := NewDatasetService(nil)
	analyticsSvc := NewAnalyticsService(
		NewGradingService(),
		NewOutcomeService(),
		NewClusterService(),
		NewIngestService(),
		datasetSvc,
		nil, // 不归档
		nil, // 不缓存
	)
	return analyticsSvc, datasetSvc
}

func TestProcessDatasetEndToEnd(t *testing.T) {
	analyticsSvc, datasetSvc := newTestAnalytics()

	dataset, err := analyticsSvc.ProcessDataset(context.Background(), "template.xlsx", 1, templateBytes(t))
	assert.NoError(t, err)
	assert.Len(t, dataset.Records, 3)
	assert.Empty(t, dataset.Errors)

	// 处理后成为当前数据集
	current, err := datasetSvc.Current()
	assert.NoError(t, err)
	assert.Equal(t, dataset.ID, current.ID)

	for _, record := range dataset.Records {
		// 原始分直接乘权重，总分远低于 40，全部为 F
		assert.Equal(t, "F", record.Grade)
		assert.Greater(t, record.TotalMarks, 0.0)
		assert.Len(t, record.COAchievements, 4)
		assert.Len(t, record.POAttainments, model.POCount)
		assert.NotEqual(t, model.ClusterUnassigned, record.PerformanceCluster)
		assert.NotEmpty(t, record.PerformanceLabel)
	}
	assert.Len(t, dataset.Summaries, 3)
	assert.Equal(t, len(dataset.FeatureNames), 4+model.POCount)
}

func TestComputeRecordsFaultIsolation(t *testing.T) {
	analyticsSvc, _ := newTestAnalytics()

	// CO2 在矩阵中没有映射行，PO 推算对每条记录都会失败，
	// 但评分与 CO 达成度照常完成，批次不中断
	dataset := &model.Dataset{
		Records: []*model.StudentRecord{
			fullMarksRecord(25, 35, 12, 8, 4),
			fullMarksRecord(20, 30, 10, 6, 3),
		},
		Matrix: &model.COPOMatrix{
			Outcomes: []model.CourseOutcome{{Code: "CO1"}, {Code: "CO2"}},
			Weights: map[string]map[string]float64{
				"CO1": {"PO1": 1},
			},
		},
	}

	analyticsSvc.Compute(dataset)

	assert.Len(t, dataset.Errors, 2)
	for _, recErr := range dataset.Errors {
		assert.Equal(t, "po_attainment", recErr.Stage)
	}
	for _, record := range dataset.Records {
		assert.NotEmpty(t, record.Grade)
		assert.Len(t, record.COAchievements, 2)
		assert.Empty(t, record.POAttainments)
	}
}

func TestOverviewAggregates(t *testing.T) {
	analyticsSvc, _ := newTestAnalytics()

	_, err := analyticsSvc.ProcessDataset(context.Background(), "template.xlsx", 1, templateBytes(t))
	assert.NoError(t, err)

	overview, err := analyticsSvc.Overview(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 3, overview.StudentCount)
	assert.Equal(t, "CSE101", overview.CourseCode)
	assert.Equal(t, 3, overview.GradeDistribution["F"])
	assert.Equal(t, 0.0, overview.PassRate)
	assert.GreaterOrEqual(t, overview.HighestTotal, overview.LowestTotal)
	assert.Len(t, overview.AvgCOAchievement, 4)
}

func TestOverviewWithoutDataset(t *testing.T) {
	analyticsSvc, _ := newTestAnalytics()

	_, err := analyticsSvc.Overview(context.Background())
	assert.ErrorIs(t, err, util.ErrDatasetNotLoaded)
}

func TestTopAndBottomPerformers(t *testing.T) {
	analyticsSvc, _ := newTestAnalytics()

	_, err := analyticsSvc.ProcessDataset(context.Background(), "template.xlsx", 1, templateBytes(t))
	assert.NoError(t, err)

	top, err := analyticsSvc.TopPerformers(2)
	assert.NoError(t, err)
	assert.Len(t, top, 2)
	// 模板中 STU002 分数最高
	assert.Equal(t, "STU002", top[0].StudentID)

	bottom, err := analyticsSvc.BottomPerformers(10)
	assert.NoError(t, err)
	assert.Len(t, bottom, 3)
	assert.Equal(t, "STU003", bottom[0].StudentID)
}

func TestSearchStudents(t *testing.T) {
	analyticsSvc, _ := newTestAnalytics()

	_, err := analyticsSvc.ProcessDataset(context.Background(), "template.xlsx", 1, templateBytes(t))
	assert.NoError(t, err)

	briefs, err := analyticsSvc.SearchStudents("jane")
	assert.NoError(t, err)
	assert.Len(t, briefs, 1)
	assert.Equal(t, "STU002", briefs[0].StudentID)

	all, err := analyticsSvc.SearchStudents("")
	assert.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestComponentStats(t *testing.T) {
	analyticsSvc, _ := newTestAnalytics()

	_, err := analyticsSvc.ProcessDataset(context.Background(), "template.xlsx", 1, templateBytes(t))
	assert.NoError(t, err)

	stats, err := analyticsSvc.ComponentStats()
	assert.NoError(t, err)
	assert.Len(t, stats, len(model.ComponentOrder))

	// 模板中 mid 分数为 25/28/22
	assert.Equal(t, "mid", stats[0].Component)
	assert.InDelta(t, 25.0, stats[0].Average, 1e-9)
	assert.Equal(t, 28.0, stats[0].Max)
	assert.Equal(t, 0, stats[0].Missing)
}
