package model

import "fmt"

// swagger:model CourseOutcome
type CourseOutcome struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// swagger:model ProgramOutcome
type ProgramOutcome struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// POCount 专业毕业要求（PO）固定为 12 条
const POCount = 12

// POList 返回 PO1..PO12 的固定顺序列表
func POList() []string {
	codes := make([]string, 0, POCount)
	for i := 1; i <= POCount; i++ {
		codes = append(codes, fmt.Sprintf("PO%d", i))
	}
	return codes
}

// DefaultProgramOutcomes 工程教育认证的 12 条标准毕业要求
func DefaultProgramOutcomes() []ProgramOutcome {
	return []ProgramOutcome{
		{Code: "PO1", Description: "Engineering Knowledge: Apply knowledge of mathematics, science, engineering fundamentals"},
		{Code: "PO2", Description: "Problem Analysis: Identify, formulate, research literature, and analyze engineering problems"},
		{Code: "PO3", Description: "Design/Development: Design solutions for complex engineering problems and design system components"},
		{Code: "PO4", Description: "Conduct Investigations: Use research-based knowledge and research methods for complex problems"},
		{Code: "PO5", Description: "Modern Tool Usage: Create, select, and apply appropriate techniques, resources, and modern engineering tools"},
		{Code: "PO6", Description: "Engineer and Society: Apply reasoning informed by contextual knowledge to assess societal issues"},
		{Code: "PO7", Description: "Environment and Sustainability: Understand the impact of engineering solutions in societal context"},
		{Code: "PO8", Description: "Ethics: Apply ethical principles and commit to professional ethics and responsibilities"},
		{Code: "PO9", Description: "Individual and Team Work: Function effectively as an individual, and as a member or leader in teams"},
		{Code: "PO10", Description: "Communication: Communicate effectively on complex engineering activities with the engineering community"},
		{Code: "PO11", Description: "Project Management: Demonstrate knowledge and understanding of engineering and management principles"},
		{Code: "PO12", Description: "Life-long Learning: Recognize the need for and have the preparation and ability to engage in independent learning"},
	}
}

// COPOMatrix CO 到 PO 的映射矩阵，Weights[coCode][poCode] 为映射强度
type COPOMatrix struct {
	Outcomes []CourseOutcome               `json:"outcomes"`
	Weights  map[string]map[string]float64 `json:"weights"`
}

// HasOutcome 判断矩阵是否包含指定 CO 的映射行
func (m *COPOMatrix) HasOutcome(coCode string) bool {
	if m == nil || m.Weights == nil {
		return false
	}
	_, ok := m.Weights[coCode]
	return ok
}
