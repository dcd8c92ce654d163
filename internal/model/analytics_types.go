package model

// swagger:model ClassOverview
type ClassOverview struct {
	DatasetID         string             `json:"datasetId"`
	CourseCode        string             `json:"courseCode"`
	CourseName        string             `json:"courseName"`
	Semester          string             `json:"semester"`
	StudentCount      int                `json:"studentCount"`
	AvgTotalMarks     float64            `json:"avgTotalMarks"`
	AvgGradePoints    float64            `json:"avgGradePoints"`
	HighestTotal      float64            `json:"highestTotal"`
	LowestTotal       float64            `json:"lowestTotal"`
	PassRate          float64            `json:"passRate"`
	GradeDistribution map[string]int     `json:"gradeDistribution"`
	AvgCOAchievement  map[string]float64 `json:"avgCoAchievement"`
	AvgPOAttainment   map[string]float64 `json:"avgPoAttainment"`
	FailedRecords     int                `json:"failedRecords"`
}

// swagger:model OutcomeSummary
type OutcomeSummary struct {
	Code        string  `json:"code"`
	Description string  `json:"description"`
	Average     float64 `json:"average"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Attained    int     `json:"attained"` // 达成人数（达成线 60%）
	Total       int     `json:"total"`
}

// swagger:model OutcomeReport
type OutcomeReport struct {
	CourseOutcomes  []OutcomeSummary `json:"courseOutcomes"`
	ProgramOutcomes []OutcomeSummary `json:"programOutcomes"`
}

// swagger:model ComponentStat
type ComponentStat struct {
	Component string  `json:"component"`
	Average   float64 `json:"average"`
	Max       float64 `json:"max"`
	FullMarks float64 `json:"fullMarks"`
	Missing   int     `json:"missing"`
}

// swagger:model StudentBrief
type StudentBrief struct {
	StudentID        string  `json:"studentId"`
	StudentName      string  `json:"studentName"`
	TotalMarks       float64 `json:"totalMarks"`
	Grade            string  `json:"grade"`
	GradePoints      float64 `json:"gradePoints"`
	PerformanceLabel string  `json:"performanceLabel"`
}
