package service

import (
	"testing"

	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/util"

	"github.com/stretchr/testify/assert"
)

func testDataset() *model.Dataset {
	return &model.Dataset{
		ID: "ds-1",
		Records: []*model.StudentRecord{
			{StudentID: "STU001", StudentName: "John Doe", Email: "john@email.com"},
			{StudentID: "STU002", StudentName: "Jane Smith", Email: "jane@email.com"},
		},
	}
}

func TestCurrentBeforeLoad(t *testing.T) {
	svc := NewDatasetService(nil)

	_, err := svc.Current()
	assert.ErrorIs(t, err, util.ErrDatasetNotLoaded)

	_, err = svc.FindStudent("STU001")
	assert.ErrorIs(t, err, util.ErrDatasetNotLoaded)
}

func TestFindStudent(t *testing.T) {
	svc := NewDatasetService(nil)
	svc.SetCurrent(testDataset())

	record, err := svc.FindStudent("STU002")
	assert.NoError(t, err)
	assert.Equal(t, "Jane Smith", record.StudentName)

	_, err = svc.FindStudent("STU999")
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestFindStudentByIDAndEmail(t *testing.T) {
	svc := NewDatasetService(nil)
	svc.SetCurrent(testDataset())

	// 邮箱大小写不敏感
	record, err := svc.FindStudentByIDAndEmail("STU001", "JOHN@email.com")
	assert.NoError(t, err)
	assert.Equal(t, "STU001", record.StudentID)

	_, err = svc.FindStudentByIDAndEmail("STU001", "jane@email.com")
	assert.ErrorIs(t, err, util.ErrStudentNotFound)
}

func TestSearchCaseInsensitive(t *testing.T) {
	svc := NewDatasetService(nil)
	svc.SetCurrent(testDataset())

	matched, err := svc.Search("smith")
	assert.NoError(t, err)
	assert.Len(t, matched, 1)

	matched, err = svc.Search("stu")
	assert.NoError(t, err)
	assert.Len(t, matched, 2)

	matched, err = svc.Search("nobody")
	assert.NoError(t, err)
	assert.Empty(t, matched)
}

func TestSetCurrentReplaces(t *testing.T) {
	svc := NewDatasetService(nil)
	svc.SetCurrent(testDataset())

	replacement := &model.Dataset{ID: "ds-2"}
	svc.SetCurrent(replacement)

	current, err := svc.Current()
	assert.NoError(t, err)
	assert.Equal(t, "ds-2", current.ID)
}
