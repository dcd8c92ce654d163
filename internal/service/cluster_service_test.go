package service

import (
	"fmt"
	"testing"

	"copo_analysis_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func clusterRecord(id string, gradePoints, co1, co2 float64) *model.StudentRecord {
	return &model.StudentRecord{
		StudentID:   id,
		GradePoints: gradePoints,
		COAchievements: map[string]float64{
			"CO1": co1,
			"CO2": co2,
		},
		POAttainments: map[string]float64{
			"PO1": (co1 + co2) / 2,
		},
		PerformanceCluster: model.ClusterUnassigned,
	}
}

func clusterPopulation() []*model.StudentRecord {
	records := make([]*model.StudentRecord, 0, 9)
	// 三个明显分离的梯队
	for i := 0; i < 3; i++ {
		records = append(records, clusterRecord(fmt.Sprintf("HIGH%d", i), 3.8, 90+float64(i), 88+float64(i)))
	}
	for i := 0; i < 3; i++ {
		records = append(records, clusterRecord(fmt.Sprintf("MID%d", i), 2.8, 60+float64(i), 62+float64(i)))
	}
	for i := 0; i < 3; i++ {
		records = append(records, clusterRecord(fmt.Sprintf("LOW%d", i), 1.0, 20+float64(i), 18+float64(i)))
	}
	return records
}

func testOutcomes() []model.CourseOutcome {
	return []model.CourseOutcome{{Code: "CO1"}, {Code: "CO2"}}
}

func TestClusterDeterministic(t *testing.T) {
	svc := NewClusterService()

	first := svc.Cluster(clusterPopulation(), testOutcomes())
	second := svc.Cluster(clusterPopulation(), testOutcomes())

	assert.Equal(t, first, second)
}

func TestClusterLabelsRankedByGradePoints(t *testing.T) {
	svc := NewClusterService()

	records := clusterPopulation()
	summaries := svc.Cluster(records, testOutcomes())
	assert.Len(t, summaries, 3)

	byLabel := make(map[string]model.ClusterSummary)
	for _, s := range summaries {
		byLabel[s.Label] = s
	}
	assert.Contains(t, byLabel, model.ClusterLabelHigh)
	assert.Contains(t, byLabel, model.ClusterLabelAverage)
	assert.Contains(t, byLabel, model.ClusterLabelLow)

	// 标签由组内平均绩点的排名决定，而不是簇编号
	assert.Greater(t, byLabel[model.ClusterLabelHigh].AvgGradePoints, byLabel[model.ClusterLabelAverage].AvgGradePoints)
	assert.Greater(t, byLabel[model.ClusterLabelAverage].AvgGradePoints, byLabel[model.ClusterLabelLow].AvgGradePoints)

	// 每条记录都拿到了簇编号和档位
	for _, r := range records {
		assert.NotEqual(t, model.ClusterUnassigned, r.PerformanceCluster)
		assert.NotEmpty(t, r.PerformanceLabel)
	}

	// 分离明显的梯队应整组落在同一档
	for _, r := range records[:3] {
		assert.Equal(t, model.ClusterLabelHigh, r.PerformanceLabel, r.StudentID)
	}
	for _, r := range records[6:] {
		assert.Equal(t, model.ClusterLabelLow, r.PerformanceLabel, r.StudentID)
	}
}

func TestClusterNoFeaturesIsNoOp(t *testing.T) {
	svc := NewClusterService()

	// 零特征列：记录原样返回，摘要为空
	records := clusterPopulation()
	assert.Nil(t, svc.Cluster(records, nil))
	for _, r := range records {
		assert.Equal(t, model.ClusterUnassigned, r.PerformanceCluster)
		assert.Empty(t, r.PerformanceLabel)
	}

	// 样本数不足 k 同样退化为 no-op
	short := clusterPopulation()[:2]
	assert.Nil(t, svc.Cluster(short, testOutcomes()))
	for _, r := range short {
		assert.Equal(t, model.ClusterUnassigned, r.PerformanceCluster)
		assert.Empty(t, r.PerformanceLabel)
	}
}

func TestClusterSummaryCounts(t *testing.T) {
	svc := NewClusterService()

	summaries := svc.Cluster(clusterPopulation(), testOutcomes())

	total := 0
	byLabel := make(map[string]model.ClusterSummary)
	for _, s := range summaries {
		total += s.Size
		byLabel[s.Label] = s
		assert.Contains(t, s.FeatureMeans, "CO1_achievement")
		assert.Contains(t, s.FeatureMeans, "PO12_attainment")
	}
	assert.Equal(t, 9, total)

	// 特征均值是原始达成度的均值，不是归一化后的 [0,1] 值
	high := byLabel[model.ClusterLabelHigh]
	assert.InDelta(t, 91.0, high.FeatureMeans["CO1_achievement"], 1e-9)
	assert.InDelta(t, 90.0, high.FeatureMeans["PO1_attainment"], 1e-9)

	low := byLabel[model.ClusterLabelLow]
	assert.InDelta(t, 21.0, low.FeatureMeans["CO1_achievement"], 1e-9)
}
