package service

import (
	"strings"
	"testing"

	"copo_analysis_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func reportRecord() *model.StudentRecord {
	r := fullMarksRecord(25, 35, 12, 8, 4)
	r.StudentName = "John Doe"
	r.CourseCode = "CSE101"
	r.CourseName = "Introduction to Programming"
	r.Semester = "Fall 2024"
	r.Credits = 3
	r.TotalMarks = 24.3
	r.Grade = "F"
	r.GradePoints = 0.0
	r.COAchievements = map[string]float64{"CO1": 78.5, "CO2": 64.2}
	r.POAttainments = map[string]float64{"PO1": 71.3}
	return r
}

func TestRenderContainsCoreSections(t *testing.T) {
	svc := NewReportService()

	html, err := svc.Render(reportRecord(), 0.0)
	assert.NoError(t, err)

	assert.Contains(t, html, "John Doe")
	assert.Contains(t, html, "STU001")
	assert.Contains(t, html, "CSE101")
	assert.Contains(t, html, "24.30")
	assert.Contains(t, html, "Course Outcome Achievement")
	assert.Contains(t, html, "Program Outcome Attainment")
	assert.Contains(t, html, "CO1")
	assert.Contains(t, html, "78.5%")
	assert.Contains(t, html, "PO12")
	assert.Contains(t, html, "Recommendations")
}

func TestRenderIsPure(t *testing.T) {
	svc := NewReportService()

	record := reportRecord()
	first, err := svc.Render(record, 0.0)
	assert.NoError(t, err)
	second, err := svc.Render(record, 0.0)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStatusThresholds(t *testing.T) {
	svc := NewReportService()

	assert.Equal(t, "Excellent", svc.Status(3.7))
	assert.Equal(t, "Good", svc.Status(3.0))
	assert.Equal(t, "Satisfactory", svc.Status(2.0))
	assert.Equal(t, "Needs Improvement", svc.Status(1.99))
}

func TestSuggestionsComponentThresholds(t *testing.T) {
	svc := NewReportService()

	strong := fullMarksRecord(28, 38, 14, 9, 5)
	strong.GradePoints = 3.8
	suggestions := svc.Suggestions(strong)
	assert.Len(t, suggestions, 1)
	assert.Contains(t, suggestions[0], "Outstanding")

	// 各环节均低于薄弱线，每个环节各出一条建议
	weak := fullMarksRecord(20, 30, 10, 6, 3)
	weak.GradePoints = 0.0
	suggestions = svc.Suggestions(weak)
	assert.Len(t, suggestions, 6)

	// 缺考环节同样给出建议
	missing := fullMarksRecord(28, 38, 14, 9, 5)
	missing.MidMarks = nil
	missing.GradePoints = 3.8
	suggestions = svc.Suggestions(missing)
	assert.Len(t, suggestions, 2)
	found := false
	for _, s := range suggestions {
		if strings.Contains(s, "midterm") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCareerGuidanceThresholds(t *testing.T) {
	svc := NewReportService()

	assert.Contains(t, svc.CareerGuidance(3.5), "research")
	assert.Contains(t, svc.CareerGuidance(2.8), "internships")
	assert.Contains(t, svc.CareerGuidance(1.5), "fundamentals")
}
