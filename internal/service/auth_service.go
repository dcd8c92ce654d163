package service

import (
	"errors"

	"copo_analysis_backend/internal/config"
	"copo_analysis_backend/internal/model"
	"copo_analysis_backend/internal/repository"
	"copo_analysis_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CredentialVerifier 教师端凭据校验接口，便于替换为外部身份源
type CredentialVerifier interface {
	Verify(email, password string) (*model.User, error)
}

// dbCredentialVerifier 默认实现：校验数据库中的 bcrypt 口令
type dbCredentialVerifier struct {
	userRepo *repository.UserRepository
}

func (v *dbCredentialVerifier) Verify(email, password string) (*model.User, error) {
	user, err := v.userRepo.FindByEmail(email)
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}
	if user.Disabled {
		return nil, util.ErrPermissionDenied
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	return user, nil
}

type AuthService struct {
	UserRepo   *repository.UserRepository
	DatasetSvc *DatasetService
	Verifier   CredentialVerifier
	Cfg        *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, datasetSvc *DatasetService, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:   userRepo,
		DatasetSvc: datasetSvc,
		Verifier:   &dbCredentialVerifier{userRepo: userRepo},
		Cfg:        cfg,
	}
}

func (s *AuthService) Register(user *model.User) error {
	_, err := s.UserRepo.FindByEmail(user.Email)
	if err == nil {
		return util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	if user.Role == "" {
		user.Role = model.Teacher
	}
	return s.UserRepo.Create(user)
}

// Login 教师/管理员登录，返回 JWT
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	user, err := s.Verifier.Verify(email, password)
	if err != nil {
		return "", nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// StudentLogin 学生门户登录：凭当前数据集中的学号+邮箱组合换取受限令牌
func (s *AuthService) StudentLogin(studentID, email string) (string, *model.StudentRecord, error) {
	record, err := s.DatasetSvc.FindStudentByIDAndEmail(studentID, email)
	if err != nil {
		return "", nil, err
	}

	token, err := util.GenerateStudentJWT(record.StudentID, record.Email, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, record, nil
}

func (s *AuthService) GetCurrentUser(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
