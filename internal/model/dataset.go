package model

import "time"

// RecordError 单条学生记录处理失败的信息，失败记录不会阻断整个数据集
type RecordError struct {
	StudentID string `json:"studentId"`
	Stage     string `json:"stage"`
	Message   string `json:"message"`
}

// Dataset 内存中的当前工作数据集，上传解析后由分析管线填充
type Dataset struct {
	ID              string           `json:"id"`
	FileName        string           `json:"fileName"`
	UploadedBy      uint             `json:"uploadedBy"`
	UploadedAt      time.Time        `json:"uploadedAt"`
	Records         []*StudentRecord `json:"records"`
	Matrix          *COPOMatrix      `json:"matrix"`
	ProgramOutcomes []ProgramOutcome `json:"programOutcomes"`
	Summaries       []ClusterSummary `json:"summaries"`
	FeatureNames    []string         `json:"featureNames"`
	Errors          []RecordError    `json:"errors"`
}

// swagger:model DatasetUpload
type DatasetUpload struct {
	UUIDBase
	FileName     string `gorm:"size:255;not null" json:"fileName"`
	StoragePath  string `gorm:"size:512" json:"storagePath"`
	UploadedBy   uint   `gorm:"index" json:"uploadedBy"`
	StudentCount int    `gorm:"default:0" json:"studentCount"`
	COCount      int    `gorm:"default:0" json:"coCount"`
	Status       string `gorm:"size:20;default:'processed'" json:"status"`
}

func (DatasetUpload) TableName() string {
	return "dataset_uploads"
}

// swagger:model EmailLog
type EmailLog struct {
	BaseModel
	DatasetID     string `gorm:"size:36;index" json:"datasetId"`
	StudentID     string `gorm:"size:50;index" json:"studentId"`
	RecipientType string `gorm:"size:20" json:"recipientType"` // student / parent
	Email         string `gorm:"size:100" json:"email"`
	Subject       string `gorm:"size:255" json:"subject"`
	Success       bool   `gorm:"default:false" json:"success"`
	Message       string `gorm:"size:512" json:"message"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}
