package util

const (
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 工作簿相关常量
const (
	MimeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	TemplateName = "student_data_template.xlsx"
)

var (
	AllowedWorkbookExtensions = []string{".xlsx", ".xls"}
)
