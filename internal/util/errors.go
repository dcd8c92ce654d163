package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrDatasetNotLoaded  = errors.New("no dataset loaded")
	ErrStudentNotFound   = errors.New("student not found")
	ErrCONotInMatrix     = errors.New("course outcome has no row in the CO-PO matrix")
	ErrMissingSheets     = errors.New("workbook missing required sheets")
	ErrNoRecipient       = errors.New("no email address on record")
	ErrSMTPNotConfigured = errors.New("smtp credentials not configured")
)
