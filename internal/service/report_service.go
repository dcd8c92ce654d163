package service

import (
	"bytes"
	"html/template"
	"sort"

	"copo_analysis_backend/internal/model"
)

// 报告模板，纯文本渲染，不触发任何外部 I/O
const reportTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Arial, Helvetica, sans-serif; color: #2c3e50; margin: 0; padding: 24px; background: #f4f6f8; }
  .card { background: #fff; border-radius: 8px; padding: 24px; max-width: 720px; margin: 0 auto 16px auto; box-shadow: 0 1px 4px rgba(0,0,0,0.08); }
  h1 { font-size: 20px; margin-top: 0; }
  h2 { font-size: 16px; border-bottom: 1px solid #e0e4e8; padding-bottom: 6px; }
  table { width: 100%; border-collapse: collapse; margin: 8px 0; }
  th, td { text-align: left; padding: 6px 10px; border-bottom: 1px solid #eef1f4; font-size: 14px; }
  .grade-good { color: #27ae60; font-weight: bold; }
  .grade-mid { color: #f39c12; font-weight: bold; }
  .grade-poor { color: #e74c3c; font-weight: bold; }
  .bar { background: #eef1f4; border-radius: 4px; height: 10px; }
  .bar span { display: block; height: 10px; border-radius: 4px; background: #3498db; }
  ul { padding-left: 20px; }
  li { font-size: 14px; margin: 4px 0; }
</style>
</head>
<body>
<div class="card">
  <h1>Performance Report — {{.Record.StudentName}} ({{.Record.StudentID}})</h1>
  <p>{{.Record.CourseCode}} {{.Record.CourseName}} · {{.Record.Semester}}</p>
  <table>
    <tr><th>Total Marks</th><td>{{printf "%.2f" .Record.TotalMarks}}</td></tr>
    <tr><th>Grade</th><td class="{{.GradeClass}}">{{.Record.Grade}}</td></tr>
    <tr><th>Grade Points</th><td>{{printf "%.2f" .Record.GradePoints}}</td></tr>
    <tr><th>CGPA</th><td>{{printf "%.2f" .CGPA}}</td></tr>
    <tr><th>Standing</th><td>{{.Status}}</td></tr>
  </table>
</div>

<div class="card">
  <h2>Component Breakdown</h2>
  <table>
    <tr><th>Component</th><th>Marks</th><th>Out of</th><th>Percent</th></tr>
    {{range .Components}}
    <tr>
      <td>{{.Name}}</td>
      <td>{{if .Missing}}—{{else}}{{printf "%.1f" .Marks}}{{end}}</td>
      <td>{{printf "%.0f" .MaxMarks}}</td>
      <td><div class="bar"><span style="width: {{printf "%.0f" .Percent}}%"></span></div></td>
    </tr>
    {{end}}
  </table>
</div>

<div class="card">
  <h2>Course Outcome Achievement</h2>
  <table>
    <tr><th>CO</th><th>Achievement</th></tr>
    {{range .COs}}
    <tr><td>{{.Code}}</td><td>{{printf "%.1f" .Value}}%</td></tr>
    {{end}}
  </table>
</div>

<div class="card">
  <h2>Program Outcome Attainment</h2>
  <table>
    <tr><th>PO</th><th>Attainment</th></tr>
    {{range .POs}}
    <tr><td>{{.Code}}</td><td>{{printf "%.1f" .Value}}%</td></tr>
    {{end}}
  </table>
</div>

<div class="card">
  <h2>Recommendations</h2>
  <ul>
    {{range .Suggestions}}<li>{{.}}</li>{{end}}
  </ul>
  <h2>Career Guidance</h2>
  <p>{{.Career}}</p>
</div>
</body>
</html>`

type componentRow struct {
	Name     string
	Marks    float64
	MaxMarks float64
	Percent  float64
	Missing  bool
}

type outcomeRow struct {
	Code  string
	Value float64
}

type reportData struct {
	Record      *model.StudentRecord
	CGPA        float64
	GradeClass  string
	Status      string
	Components  []componentRow
	COs         []outcomeRow
	POs         []outcomeRow
	Suggestions []string
	Career      string
}

type ReportService struct {
	tmpl *template.Template
}

func NewReportService() *ReportService {
	return &ReportService{
		tmpl: template.Must(template.New("report").Parse(reportTemplate)),
	}
}

// GradeClass 根据绩点返回展示用的颜色档位
func (s *ReportService) GradeClass(gradePoints float64) string {
	switch {
	case gradePoints >= 3.0:
		return "grade-good"
	case gradePoints >= 2.0:
		return "grade-mid"
	default:
		return "grade-poor"
	}
}

// Status 根据绩点返回评语档位
func (s *ReportService) Status(gradePoints float64) string {
	switch {
	case gradePoints >= 3.7:
		return "Excellent"
	case gradePoints >= 3.0:
		return "Good"
	case gradePoints >= 2.0:
		return "Satisfactory"
	default:
		return "Needs Improvement"
	}
}

// 各环节的薄弱线，低于该分数给出针对性建议
var componentAdvice = []struct {
	Component model.AssessmentComponent
	Threshold float64
	Advice    string
}{
	{model.ComponentMid, 25, "Review midterm topics and practice past midterm papers."},
	{model.ComponentFinal, 35, "Strengthen preparation for comprehensive final examinations."},
	{model.ComponentCT, 12, "Attend class tests consistently and revise weekly material."},
	{model.ComponentAssignment, 8, "Submit assignments on time and seek feedback on drafts."},
	{model.ComponentAttendance, 4, "Improve class attendance to stay aligned with the course."},
}

// Suggestions 基于绩点与各环节分数线生成建议列表
func (s *ReportService) Suggestions(record *model.StudentRecord) []string {
	suggestions := []string{}

	switch {
	case record.GradePoints >= 3.7:
		suggestions = append(suggestions, "Outstanding performance. Maintain your current study habits.")
	case record.GradePoints >= 3.0:
		suggestions = append(suggestions, "Solid performance. Target your weaker components to reach the top band.")
	case record.GradePoints >= 2.0:
		suggestions = append(suggestions, "Average performance. A structured revision plan is recommended.")
	default:
		suggestions = append(suggestions, "Performance is below expectations. Meet your course advisor to plan remediation.")
	}

	for _, advice := range componentAdvice {
		mark := record.Mark(advice.Component)
		if mark == nil || *mark < advice.Threshold {
			suggestions = append(suggestions, advice.Advice)
		}
	}

	return suggestions
}

// CareerGuidance 按绩点档位给出方向建议
func (s *ReportService) CareerGuidance(gradePoints float64) string {
	switch {
	case gradePoints >= 3.3:
		return "Strong academic profile. Consider research internships, graduate study, or competitive industry placements."
	case gradePoints >= 2.7:
		return "Good standing. Industry internships and skill certifications will strengthen your profile."
	default:
		return "Focus on core fundamentals first. Supervised projects and tutoring support are recommended before specialization."
	}
}

// Render 将一条学生记录渲染为 HTML 报告。纯函数，不做任何 I/O。
func (s *ReportService) Render(record *model.StudentRecord, cgpa float64) (string, error) {
	components := make([]componentRow, 0, len(model.ComponentOrder))
	for _, component := range model.ComponentOrder {
		spec := model.Components[component]
		row := componentRow{
			Name:     string(component),
			MaxMarks: spec.MaxMarks,
		}
		if mark := record.Mark(component); mark != nil {
			row.Marks = *mark
			row.Percent = *mark / spec.MaxMarks * 100
		} else {
			row.Missing = true
		}
		components = append(components, row)
	}

	cos := make([]outcomeRow, 0, len(record.COAchievements))
	for code, value := range record.COAchievements {
		cos = append(cos, outcomeRow{Code: code, Value: value})
	}
	sort.Slice(cos, func(i, j int) bool { return cos[i].Code < cos[j].Code })

	pos := make([]outcomeRow, 0, model.POCount)
	for _, po := range model.POList() {
		pos = append(pos, outcomeRow{Code: po, Value: record.POAttainments[po]})
	}

	data := reportData{
		Record:      record,
		CGPA:        cgpa,
		GradeClass:  s.GradeClass(record.GradePoints),
		Status:      s.Status(record.GradePoints),
		Components:  components,
		COs:         cos,
		POs:         pos,
		Suggestions: s.Suggestions(record),
		Career:      s.CareerGuidance(record.GradePoints),
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
