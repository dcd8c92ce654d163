package service

import (
	"bytes"
	"testing"

	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func templateBytes(t *testing.T) []byte {
	svc := NewIngestService()
	f, err := svc.BuildTemplate()
	assert.NoError(t, err)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	assert.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbookRoundTrip(t *testing.T) {
	svc := NewIngestService()

	records, matrix, programOutcomes, err := svc.ParseWorkbook(bytes.NewReader(templateBytes(t)))
	assert.NoError(t, err)

	assert.Len(t, records, 3)
	assert.Len(t, matrix.Outcomes, 4)
	assert.Len(t, programOutcomes, model.POCount)

	first := records[0]
	assert.Equal(t, "STU001", first.StudentID)
	assert.Equal(t, "John Doe", first.StudentName)
	assert.Equal(t, "CSE101", first.CourseCode)
	assert.Equal(t, 3.0, first.Credits)
	if assert.NotNil(t, first.MidMarks) {
		assert.Equal(t, 25.0, *first.MidMarks)
	}
	assert.Equal(t, []string{"CO1", "CO2"}, first.MidCOs)
	assert.Equal(t, []string{"CO1", "CO2", "CO3"}, first.FinalCOs)
	assert.Nil(t, first.AttendanceCOs)
	assert.Equal(t, model.ClusterUnassigned, first.PerformanceCluster)

	assert.True(t, matrix.HasOutcome("CO1"))
	assert.Equal(t, 1.0, matrix.Weights["CO2"]["PO2"])
	assert.Equal(t, 0.0, matrix.Weights["CO1"]["PO5"])
}

func TestParseWorkbookMissingSheet(t *testing.T) {
	svc := NewIngestService()

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "Student_Data")
	headers := []interface{}{"student_id"}
	assert.NoError(t, f.SetSheetRow("Student_Data", "A1", &headers))
	buf, err := f.WriteToBuffer()
	assert.NoError(t, err)
	f.Close()

	_, _, _, err = svc.ParseWorkbook(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, util.ErrMissingSheets)
}

func TestParseWorkbookSkipsBlankRows(t *testing.T) {
	svc := NewIngestService()

	f, err := svc.BuildTemplate()
	assert.NoError(t, err)
	defer f.Close()

	// 模板尾部追加一行空学号，解析时应跳过
	row := []interface{}{"", "Ghost Student"}
	assert.NoError(t, f.SetSheetRow("Student_Data", "A5", &row))

	buf, err := f.WriteToBuffer()
	assert.NoError(t, err)

	records, _, _, err := svc.ParseWorkbook(bytes.NewReader(buf.Bytes()))
	assert.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestParseMark(t *testing.T) {
	assert.Nil(t, parseMark(""))
	assert.Nil(t, parseMark("absent"))
	if mark := parseMark("12.5"); assert.NotNil(t, mark) {
		assert.Equal(t, 12.5, *mark)
	}
}

func TestParseCOList(t *testing.T) {
	assert.Nil(t, parseCOList(""))
	assert.Equal(t, []string{"CO1", "CO2"}, parseCOList("CO1, CO2"))
	assert.Equal(t, []string{"CO3"}, parseCOList(" CO3 ,"))
}
