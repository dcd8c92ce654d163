package service

import (
	"math"
	"math/rand"
	"sort"

	"copo_analysis_backend/internal/model"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	clusterCount     = 3
	clusterSeed      = 42
	clusterMaxRounds = 300
)

// featureColumn 聚类特征列的类型化描述，避免从列名反解 CO/PO 代码
type featureColumn struct {
	Name   string
	COCode string // 非空表示取 CO 达成度
	POCode string // 非空表示取 PO 达成度
}

func (f featureColumn) valueOf(record *model.StudentRecord) float64 {
	if f.COCode != "" {
		return record.COAchievements[f.COCode]
	}
	return record.POAttainments[f.POCode]
}

type ClusterService struct{}

func NewClusterService() *ClusterService {
	return &ClusterService{}
}

// featureColumns 返回稳定的特征列顺序：先按 CO 代码排序，再按 PO1..PO12。
// 没有任何 CO 时 PO 达成度也无从谈起，返回空列，聚类退化为 no-op。
func (s *ClusterService) featureColumns(outcomes []model.CourseOutcome) []featureColumn {
	if len(outcomes) == 0 {
		return nil
	}
	columns := make([]featureColumn, 0, len(outcomes)+model.POCount)
	coCodes := make([]string, 0, len(outcomes))
	for _, co := range outcomes {
		coCodes = append(coCodes, co.Code)
	}
	sort.Strings(coCodes)
	for _, code := range coCodes {
		columns = append(columns, featureColumn{Name: code + "_achievement", COCode: code})
	}
	for _, po := range model.POList() {
		columns = append(columns, featureColumn{Name: po + "_attainment", POCode: po})
	}
	return columns
}

// FeatureNames 返回聚类使用的特征列名，顺序与特征矩阵一致
func (s *ClusterService) FeatureNames(outcomes []model.CourseOutcome) []string {
	columns := s.featureColumns(outcomes)
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names
}

// Cluster 对全体学生做 k=3 的聚类，并按组内平均绩点把分组重标为
// high/average/low。特征列为空或样本数不足 k 时不做聚类，返回空摘要。
// 固定随机种子保证同一输入得到同一分组。
func (s *ClusterService) Cluster(records []*model.StudentRecord, outcomes []model.CourseOutcome) []model.ClusterSummary {
	columns := s.featureColumns(outcomes)
	if len(columns) == 0 || len(records) < clusterCount {
		return nil
	}

	n := len(records)
	d := len(columns)

	// 组装特征矩阵
	data := mat.NewDense(n, d, nil)
	for i, r := range records {
		for j, col := range columns {
			data.Set(i, j, col.valueOf(r))
		}
	}

	// 对全体样本做一次 min-max 归一化，常数列置 0
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, data)
		lo := floats.Min(col)
		hi := floats.Max(col)
		span := hi - lo
		for i := 0; i < n; i++ {
			if span == 0 {
				data.Set(i, j, 0)
				continue
			}
			data.Set(i, j, (data.At(i, j)-lo)/span)
		}
	}

	assignments := kmeans(data, clusterCount, clusterSeed, clusterMaxRounds)

	// 组内统计
	type group struct {
		size        int
		gradeSum    float64
		featureSums []float64
	}
	groups := make([]group, clusterCount)
	for k := range groups {
		groups[k].featureSums = make([]float64, d)
	}
	// 摘要中的特征均值取原始达成度，归一化只服务于距离计算
	for i, r := range records {
		k := assignments[i]
		groups[k].size++
		groups[k].gradeSum += r.GradePoints
		for j, col := range columns {
			groups[k].featureSums[j] += col.valueOf(r)
		}
	}

	// 按平均绩点降序把分组索引映射到 high/average/low。
	// 聚类算法本身给出的簇编号是任意的，不能直接当作档位用。
	order := []int{0, 1, 2}
	avgGrade := make([]float64, clusterCount)
	for k, g := range groups {
		if g.size > 0 {
			avgGrade[k] = g.gradeSum / float64(g.size)
		}
	}
	sort.Slice(order, func(a, b int) bool {
		return avgGrade[order[a]] > avgGrade[order[b]]
	})
	labels := map[int]string{
		order[0]: model.ClusterLabelHigh,
		order[1]: model.ClusterLabelAverage,
		order[2]: model.ClusterLabelLow,
	}

	for i, r := range records {
		r.PerformanceCluster = assignments[i]
		r.PerformanceLabel = labels[assignments[i]]
	}

	summaries := make([]model.ClusterSummary, 0, clusterCount)
	for k, g := range groups {
		means := make(map[string]float64, d)
		for j, col := range columns {
			if g.size > 0 {
				means[col.Name] = g.featureSums[j] / float64(g.size)
			} else {
				means[col.Name] = 0
			}
		}
		summaries = append(summaries, model.ClusterSummary{
			ClusterID:      k,
			Label:          labels[k],
			Size:           g.size,
			AvgGradePoints: avgGrade[k],
			FeatureMeans:   means,
		})
	}
	return summaries
}

// kmeans 固定种子的 Lloyd 迭代。空簇把离本簇质心最远的点挪过去补上。
func kmeans(data *mat.Dense, k int, seed int64, maxRounds int) []int {
	n, d := data.Dims()
	rng := rand.New(rand.NewSource(seed))

	assignments := make([]int, n)
	row := make([]float64, d)
	centroid := make([]float64, d)

	// 最远点初始化：第一个质心由种子随机挑选，其余依次取
	// 离已选质心最远的样本，分离良好的群体各占一个质心
	centroids := mat.NewDense(k, d, nil)
	centroids.SetRow(0, mat.Row(nil, rng.Intn(n), data))
	for c := 1; c < k; c++ {
		farthest := 0
		farDist := -1.0
		for i := 0; i < n; i++ {
			mat.Row(row, i, data)
			minDist := math.Inf(1)
			for prev := 0; prev < c; prev++ {
				mat.Row(centroid, prev, centroids)
				if dist := floats.Distance(row, centroid, 2); dist < minDist {
					minDist = dist
				}
			}
			if minDist > farDist {
				farDist = minDist
				farthest = i
			}
		}
		centroids.SetRow(c, mat.Row(nil, farthest, data))
	}

	for round := 0; round < maxRounds; round++ {
		changed := false

		for i := 0; i < n; i++ {
			mat.Row(row, i, data)
			best := 0
			bestDist := math.Inf(1)
			for c := 0; c < k; c++ {
				mat.Row(centroid, c, centroids)
				dist := floats.Distance(row, centroid, 2)
				if dist < bestDist {
					bestDist = dist
					best = c
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		counts := make([]int, k)
		sums := mat.NewDense(k, d, nil)
		for i := 0; i < n; i++ {
			c := assignments[i]
			counts[c]++
			mat.Row(row, i, data)
			for j := 0; j < d; j++ {
				sums.Set(c, j, sums.At(c, j)+row[j])
			}
		}

		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// 找离各自质心最远的样本补进空簇
				farthest := -1
				farDist := -1.0
				for i := 0; i < n; i++ {
					if counts[assignments[i]] <= 1 {
						continue
					}
					mat.Row(row, i, data)
					mat.Row(centroid, assignments[i], centroids)
					dist := floats.Distance(row, centroid, 2)
					if dist > farDist {
						farDist = dist
						farthest = i
					}
				}
				if farthest < 0 {
					continue
				}
				old := assignments[farthest]
				counts[old]--
				counts[c]++
				assignments[farthest] = c
				mat.Row(row, farthest, data)
				for j := 0; j < d; j++ {
					sums.Set(old, j, sums.At(old, j)-row[j])
					sums.Set(c, j, row[j])
				}
				changed = true
			}
		}

		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for j := 0; j < d; j++ {
				centroids.Set(c, j, sums.At(c, j)/float64(counts[c]))
			}
		}

		if !changed && round > 0 {
			break
		}
	}
	return assignments
}
