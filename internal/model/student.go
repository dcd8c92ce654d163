package model

// AssessmentComponent 考核环节类型
type AssessmentComponent string

const (
	ComponentMid        AssessmentComponent = "mid"
	ComponentFinal      AssessmentComponent = "final"
	ComponentCT         AssessmentComponent = "ct"
	ComponentAssignment AssessmentComponent = "assignment"
	ComponentAttendance AssessmentComponent = "attendance"
)

// ComponentSpec 单个考核环节的权重与满分
type ComponentSpec struct {
	Weight   float64 `json:"weight"`
	MaxMarks float64 `json:"maxMarks"`
}

// ComponentOrder 固定的环节顺序，报表与特征向量都按该顺序排列
var ComponentOrder = []AssessmentComponent{
	ComponentMid,
	ComponentFinal,
	ComponentCT,
	ComponentAssignment,
	ComponentAttendance,
}

// Components 各环节的权重与满分配置
var Components = map[AssessmentComponent]ComponentSpec{
	ComponentMid:        {Weight: 0.30, MaxMarks: 30},
	ComponentFinal:      {Weight: 0.40, MaxMarks: 40},
	ComponentCT:         {Weight: 0.15, MaxMarks: 15},
	ComponentAssignment: {Weight: 0.10, MaxMarks: 10},
	ComponentAttendance: {Weight: 0.05, MaxMarks: 5},
}

// swagger:model StudentRecord
type StudentRecord struct {
	StudentID   string  `json:"studentId"`
	StudentName string  `json:"studentName"`
	Email       string  `json:"email"`
	ParentEmail string  `json:"parentEmail"`
	CourseCode  string  `json:"courseCode"`
	CourseName  string  `json:"courseName"`
	Semester    string  `json:"semester"`
	Credits     float64 `json:"credits"`

	// 原始分数，nil 表示该环节缺考
	MidMarks        *float64 `json:"midMarks"`
	FinalMarks      *float64 `json:"finalMarks"`
	CTMarks         *float64 `json:"ctMarks"`
	AssignmentMarks *float64 `json:"assignmentMarks"`
	AttendanceMarks *float64 `json:"attendanceMarks"`

	// 各环节覆盖的课程目标（CO）标签
	MidCOs        []string `json:"midCos"`
	FinalCOs      []string `json:"finalCos"`
	CTCOs         []string `json:"ctCos"`
	AssignmentCOs []string `json:"assignmentCos"`
	AttendanceCOs []string `json:"attendanceCos"`

	// 计算得出的结果
	TotalMarks         float64            `json:"totalMarks"`
	Grade              string             `json:"grade"`
	GradePoints        float64            `json:"gradePoints"`
	COAchievements     map[string]float64 `json:"coAchievements"`
	POAttainments      map[string]float64 `json:"poAttainments"`
	PerformanceCluster int                `json:"performanceCluster"`
	PerformanceLabel   string             `json:"performanceLabel"`
}

// Mark 返回指定环节的原始分数，缺考返回 nil
func (r *StudentRecord) Mark(component AssessmentComponent) *float64 {
	switch component {
	case ComponentMid:
		return r.MidMarks
	case ComponentFinal:
		return r.FinalMarks
	case ComponentCT:
		return r.CTMarks
	case ComponentAssignment:
		return r.AssignmentMarks
	case ComponentAttendance:
		return r.AttendanceMarks
	}
	return nil
}

// COTags 返回指定环节覆盖的 CO 标签
func (r *StudentRecord) COTags(component AssessmentComponent) []string {
	switch component {
	case ComponentMid:
		return r.MidCOs
	case ComponentFinal:
		return r.FinalCOs
	case ComponentCT:
		return r.CTCOs
	case ComponentAssignment:
		return r.AssignmentCOs
	case ComponentAttendance:
		return r.AttendanceCOs
	}
	return nil
}
