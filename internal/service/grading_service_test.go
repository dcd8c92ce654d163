package service

import (
	"testing"

	"copo_analysis_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func fp(v float64) *float64 {
	return &v
}

func fullMarksRecord(mid, final, ct, assignment, attendance float64) *model.StudentRecord {
	return &model.StudentRecord{
		StudentID:       "STU001",
		MidMarks:        fp(mid),
		FinalMarks:      fp(final),
		CTMarks:         fp(ct),
		AssignmentMarks: fp(assignment),
		AttendanceMarks: fp(attendance),
	}
}

func TestGradeForExactBoundaries(t *testing.T) {
	svc := NewGradingService()

	grade, points := svc.GradeFor(90.0)
	assert.Equal(t, "A+", grade)
	assert.Equal(t, 4.0, points)

	grade, points = svc.GradeFor(89.999)
	assert.Equal(t, "A", grade)
	assert.Equal(t, 3.7, points)
}

func TestGradeForAllBands(t *testing.T) {
	svc := NewGradingService()

	cases := []struct {
		total  float64
		grade  string
		points float64
	}{
		{95, "A+", 4.0},
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
		{39.99, "F", 0.0},
		{0, "F", 0.0},
	}
	for _, tc := range cases {
		grade, points := svc.GradeFor(tc.total)
		assert.Equal(t, tc.grade, grade, "total=%v", tc.total)
		assert.Equal(t, tc.points, points, "total=%v", tc.total)
	}
}

// 权重直接乘在原始分上，满分学生的总分也只有 28.5，等级为 F。
// 这是既有评分口径的既定行为，必须原样保留。
func TestWeightedTotalUsesRawMarks(t *testing.T) {
	svc := NewGradingService()

	record := fullMarksRecord(25, 35, 12, 8, 4)
	svc.Apply(record)

	assert.InDelta(t, 24.3, record.TotalMarks, 1e-9)
	assert.Equal(t, "F", record.Grade)
	assert.Equal(t, 0.0, record.GradePoints)

	perfect := fullMarksRecord(30, 40, 15, 10, 5)
	svc.Apply(perfect)
	assert.InDelta(t, 28.5, perfect.TotalMarks, 1e-9)
	assert.Equal(t, "F", perfect.Grade)
}

func TestWeightedTotalMonotonic(t *testing.T) {
	svc := NewGradingService()

	base := svc.WeightedTotal(fullMarksRecord(20, 30, 10, 6, 3))
	for _, bumped := range []*model.StudentRecord{
		fullMarksRecord(21, 30, 10, 6, 3),
		fullMarksRecord(20, 31, 10, 6, 3),
		fullMarksRecord(20, 30, 11, 6, 3),
		fullMarksRecord(20, 30, 10, 7, 3),
		fullMarksRecord(20, 30, 10, 6, 4),
	} {
		assert.Greater(t, svc.WeightedTotal(bumped), base)
	}
}

func TestWeightedTotalMissingMarks(t *testing.T) {
	svc := NewGradingService()

	record := &model.StudentRecord{
		StudentID:  "STU002",
		MidMarks:   fp(20),
		FinalMarks: nil, // 缺考按 0 计
	}
	total := svc.WeightedTotal(record)
	assert.InDelta(t, 6.0, total, 1e-9)
}

func TestCGPACreditWeighted(t *testing.T) {
	svc := NewGradingService()

	records := []*model.StudentRecord{
		{Credits: 3, GradePoints: 4.0},
		{Credits: 1, GradePoints: 2.0},
	}
	assert.InDelta(t, 3.5, svc.CGPA(records), 1e-9)

	assert.Equal(t, 0.0, svc.CGPA(nil))
	assert.Equal(t, 0.0, svc.CGPA([]*model.StudentRecord{{Credits: 0, GradePoints: 4.0}}))
}
