package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/util"

	"github.com/xuri/excelize/v2"
)

const (
	sheetStudentData = "Student_Data"
	sheetCOPOMapping = "CO_PO_Mapping"
	sheetPODefs      = "PO_Definitions"
)

type IngestService struct{}

func NewIngestService() *IngestService {
	return &IngestService{}
}

// ParseWorkbook 解析上传的 Excel 工作簿，要求包含三张工作表：
// Student_Data、CO_PO_Mapping、PO_Definitions。
func (s *IngestService) ParseWorkbook(reader io.Reader) ([]*model.StudentRecord, *model.COPOMatrix, []model.ProgramOutcome, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		sheets[name] = true
	}
	for _, required := range []string{sheetStudentData, sheetCOPOMapping, sheetPODefs} {
		if !sheets[required] {
			return nil, nil, nil, fmt.Errorf("%w: %s", util.ErrMissingSheets, required)
		}
	}

	records, err := s.parseStudentData(f)
	if err != nil {
		return nil, nil, nil, err
	}

	matrix, err := s.parseCOPOMapping(f)
	if err != nil {
		return nil, nil, nil, err
	}

	programOutcomes, err := s.parsePODefinitions(f)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(programOutcomes) == 0 {
		programOutcomes = model.DefaultProgramOutcomes()
	}

	return records, matrix, programOutcomes, nil
}

func (s *IngestService) parseStudentData(f *excelize.File) ([]*model.StudentRecord, error) {
	rows, err := f.GetRows(sheetStudentData)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheetStudentData, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s sheet has no data rows", sheetStudentData)
	}

	// 表头列名到下标的映射
	headers := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		headers[strings.TrimSpace(strings.ToLower(name))] = idx
	}

	cell := func(row []string, column string) string {
		idx, ok := headers[column]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := make([]*model.StudentRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		studentID := cell(row, "student_id")
		if studentID == "" {
			continue
		}

		record := &model.StudentRecord{
			StudentID:          studentID,
			StudentName:        cell(row, "student_name"),
			Email:              cell(row, "email"),
			ParentEmail:        cell(row, "parent_email"),
			CourseCode:         cell(row, "course_code"),
			CourseName:         cell(row, "course_name"),
			Semester:           cell(row, "semester"),
			Credits:            parseFloat(cell(row, "credits")),
			MidMarks:           parseMark(cell(row, "mid_marks")),
			FinalMarks:         parseMark(cell(row, "final_marks")),
			CTMarks:            parseMark(cell(row, "ct_marks")),
			AssignmentMarks:    parseMark(cell(row, "assignment_marks")),
			AttendanceMarks:    parseMark(cell(row, "attendance_marks")),
			MidCOs:             parseCOList(cell(row, "mid_co_mapping")),
			FinalCOs:           parseCOList(cell(row, "final_co_mapping")),
			CTCOs:              parseCOList(cell(row, "ct_co_mapping")),
			AssignmentCOs:      parseCOList(cell(row, "assignment_co_mapping")),
			AttendanceCOs:      parseCOList(cell(row, "attendance_co_mapping")),
			PerformanceCluster: model.ClusterUnassigned,
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *IngestService) parseCOPOMapping(f *excelize.File) (*model.COPOMatrix, error) {
	rows, err := f.GetRows(sheetCOPOMapping)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheetCOPOMapping, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s sheet has no data rows", sheetCOPOMapping)
	}

	headers := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		headers[strings.TrimSpace(name)] = idx
	}
	coIdx, ok := headers["Course_Outcome"]
	if !ok {
		return nil, fmt.Errorf("%s sheet missing Course_Outcome column", sheetCOPOMapping)
	}
	descIdx, hasDesc := headers["Description"]

	matrix := &model.COPOMatrix{
		Weights: make(map[string]map[string]float64),
	}

	for _, row := range rows[1:] {
		if coIdx >= len(row) {
			continue
		}
		coCode := strings.TrimSpace(row[coIdx])
		if coCode == "" {
			continue
		}

		outcome := model.CourseOutcome{Code: coCode}
		if hasDesc && descIdx < len(row) {
			outcome.Description = strings.TrimSpace(row[descIdx])
		}
		matrix.Outcomes = append(matrix.Outcomes, outcome)

		weights := make(map[string]float64, model.POCount)
		for _, po := range model.POList() {
			idx, ok := headers[po]
			if !ok || idx >= len(row) {
				weights[po] = 0
				continue
			}
			weights[po] = parseFloat(strings.TrimSpace(row[idx]))
		}
		matrix.Weights[coCode] = weights
	}
	return matrix, nil
}

func (s *IngestService) parsePODefinitions(f *excelize.File) ([]model.ProgramOutcome, error) {
	rows, err := f.GetRows(sheetPODefs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheetPODefs, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers := make(map[string]int, len(rows[0]))
	for idx, name := range rows[0] {
		headers[strings.TrimSpace(name)] = idx
	}
	codeIdx, ok := headers["Program_Outcome"]
	if !ok {
		return nil, nil
	}
	descIdx, hasDesc := headers["Description"]

	outcomes := make([]model.ProgramOutcome, 0, model.POCount)
	for _, row := range rows[1:] {
		if codeIdx >= len(row) {
			continue
		}
		code := strings.TrimSpace(row[codeIdx])
		if code == "" {
			continue
		}
		po := model.ProgramOutcome{Code: code}
		if hasDesc && descIdx < len(row) {
			po.Description = strings.TrimSpace(row[descIdx])
		}
		outcomes = append(outcomes, po)
	}
	return outcomes, nil
}

// BuildTemplate 生成带示例数据的三表模板工作簿
func (s *IngestService) BuildTemplate() (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", sheetStudentData)
	studentHeaders := []interface{}{
		"student_id", "student_name", "email", "parent_email",
		"course_code", "course_name", "semester", "credits",
		"mid_marks", "mid_co_mapping",
		"final_marks", "final_co_mapping",
		"ct_marks", "ct_co_mapping",
		"assignment_marks", "assignment_co_mapping",
		"attendance_marks",
	}
	if err := f.SetSheetRow(sheetStudentData, "A1", &studentHeaders); err != nil {
		return nil, err
	}
	sampleRows := [][]interface{}{
		{"STU001", "John Doe", "john@email.com", "parent1@email.com", "CSE101", "Introduction to Programming", "Fall 2024", 3, 25, "CO1,CO2", 35, "CO1,CO2,CO3", 12, "CO1", 8, "CO2,CO3", 4},
		{"STU002", "Jane Smith", "jane@email.com", "parent2@email.com", "CSE101", "Introduction to Programming", "Fall 2024", 3, 28, "CO1,CO2", 38, "CO1,CO2,CO3", 14, "CO1", 9, "CO2,CO3", 5},
		{"STU003", "Mike Johnson", "mike@email.com", "parent3@email.com", "CSE101", "Introduction to Programming", "Fall 2024", 3, 22, "CO1,CO2", 30, "CO1,CO2,CO3", 10, "CO1", 7, "CO2,CO3", 3},
	}
	for i, row := range sampleRows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetStudentData, cellRef, &row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetCOPOMapping); err != nil {
		return nil, err
	}
	mappingHeaders := []interface{}{"Course_Outcome", "Description"}
	for _, po := range model.POList() {
		mappingHeaders = append(mappingHeaders, po)
	}
	if err := f.SetSheetRow(sheetCOPOMapping, "A1", &mappingHeaders); err != nil {
		return nil, err
	}
	mappingRows := [][]interface{}{
		{"CO1", "Apply fundamental programming concepts", 1, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{"CO2", "Design and implement algorithms", 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{"CO3", "Analyze and debug code", 0, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		{"CO4", "Develop software solutions", 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0},
	}
	for i, row := range mappingRows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetCOPOMapping, cellRef, &row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(sheetPODefs); err != nil {
		return nil, err
	}
	poHeaders := []interface{}{"Program_Outcome", "Description"}
	if err := f.SetSheetRow(sheetPODefs, "A1", &poHeaders); err != nil {
		return nil, err
	}
	for i, po := range model.DefaultProgramOutcomes() {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{po.Code, po.Description}
		if err := f.SetSheetRow(sheetPODefs, cellRef, &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// parseCOList 解析 "CO1,CO2" 形式的标签串，空串返回 nil
func parseCOList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	cos := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			cos = append(cos, part)
		}
	}
	if len(cos) == 0 {
		return nil
	}
	return cos
}

// parseMark 解析分数单元格，空或非法返回 nil 表示缺考
func parseMark(value string) *float64 {
	if value == "" {
		return nil
	}
	mark, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &mark
}

func parseFloat(value string) float64 {
	f, _ := strconv.ParseFloat(value, 64)
	return f
}
