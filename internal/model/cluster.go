package model

// 聚类标签按组内平均绩点排名赋予
const (
	ClusterLabelHigh    = "high"
	ClusterLabelAverage = "average"
	ClusterLabelLow     = "low"
)

// ClusterUnassigned 尚未聚类时的占位值
const ClusterUnassigned = -1

// swagger:model ClusterSummary
type ClusterSummary struct {
	ClusterID      int                `json:"clusterId"`
	Label          string             `json:"label"`
	Size           int                `json:"size"`
	AvgGradePoints float64            `json:"avgGradePoints"`
	FeatureMeans   map[string]float64 `json:"featureMeans"`
}
