package services

import (
	"context"
	"errors"
	"strings"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/models"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/logger"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"gorm.io/gorm"
)

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthService struct {
	DB     *gorm.DB
	Tokens *utils.JWTManager
	Audit  AuditRecorder
}

func NewAuthService(db *gorm.DB, tokens *utils.JWTManager, audit AuditRecorder) *AuthService {
	return &AuthService{DB: db, Tokens: tokens, Audit: auditOrNoop(audit)}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := models.NormalizeEmail(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)

	switch {
	case firstName == "":
		return nil, invalid("firstName", "firstName is required")
	case lastName == "":
		return nil, invalid("lastName", "lastName is required")
	case email == "":
		return nil, invalid("email", "email is required")
	case in.Password == "":
		return nil, invalid("password", "password is required")
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         models.UserRoleUser,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.Audit.Record(ctx, AuditEntry{
		UserID:       uuidPtr(user.ID),
		Action:       models.AuditUserRegister,
		ResourceType: "user",
		ResourceID:   uuidPtr(user.ID),
	})
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = models.NormalizeEmail(email)

	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("login_unknown_identity", map[string]interface{}{"email": email})
			return nil, ErrUnknownIdentity
		}
		return nil, err
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		logger.WarnWithUser(user.ID.String(), "login_password_mismatch", nil)
		return nil, ErrPasswordMismatch
	}

	token, err := s.Tokens.GenerateToken(utils.TokenSubject{
		ID:    user.ID,
		Email: user.Email,
		Role:  string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	s.Audit.Record(ctx, AuditEntry{
		UserID:       uuidPtr(user.ID),
		Action:       models.AuditUserLogin,
		ResourceType: "user",
		ResourceID:   uuidPtr(user.ID),
	})
	return &LoginResult{Token: token, User: &user}, nil
}
