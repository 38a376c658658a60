package services

import (
	"context"
	"errors"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/models"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/policy"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	DB    *gorm.DB
	Audit AuditRecorder
}

func NewUserService(db *gorm.DB, audit AuditRecorder) *UserService {
	return &UserService{DB: db, Audit: auditOrNoop(audit)}
}

func (s *UserService) List(ctx context.Context, actor policy.Actor) ([]models.User, error) {
	if err := policy.Evaluate(policy.Request{Actor: actor, Action: policy.ActionListUsers}); err != nil {
		return nil, err
	}

	users := make([]models.User, 0)
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Me returns the stored profile of the calling identity.
func (s *UserService) Me(ctx context.Context, actor policy.Actor) (*models.User, error) {
	if err := policy.Evaluate(policy.Request{Actor: actor, Action: policy.ActionReadSelf}); err != nil {
		return nil, err
	}
	return s.find(ctx, actor.ID)
}

func (s *UserService) ChangeRole(ctx context.Context, actor policy.Actor, targetID uuid.UUID, roleValue string) (*models.User, error) {
	role, err := models.ParseUserRole(roleValue)
	if err != nil {
		// Unknown roles are rejected before the target is even looked up.
		return nil, policy.Evaluate(policy.Request{Actor: actor, Action: policy.ActionChangeRole, NewRole: models.UserRole(roleValue)})
	}

	target, err := s.find(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := policy.Evaluate(policy.Request{
		Actor:   actor,
		Action:  policy.ActionChangeRole,
		Subject: policy.Subject{ID: target.ID, Role: target.Role},
		NewRole: role,
	}); err != nil {
		return nil, err
	}

	previous := target.Role
	if err := s.DB.WithContext(ctx).Model(target).Update("role", role).Error; err != nil {
		return nil, err
	}
	target.Role = role

	s.Audit.Record(ctx, AuditEntry{
		UserID:       uuidPtr(actor.ID),
		Action:       models.AuditUserRoleChange,
		ResourceType: "user",
		ResourceID:   uuidPtr(target.ID),
		Details: map[string]interface{}{
			"from": string(previous),
			"to":   string(role),
		},
	})
	return target, nil
}

func (s *UserService) Delete(ctx context.Context, actor policy.Actor, targetID uuid.UUID) error {
	target, err := s.find(ctx, targetID)
	if err != nil {
		return err
	}

	if err := policy.Evaluate(policy.Request{
		Actor:   actor,
		Action:  policy.ActionDeleteUser,
		Subject: policy.Subject{ID: target.ID, Role: target.Role},
	}); err != nil {
		return err
	}

	var owned int64
	if err := s.DB.WithContext(ctx).Model(&models.File{}).Where("owner_id = ?", target.ID).Count(&owned).Error; err != nil {
		return err
	}
	if owned > 0 {
		return ErrUserOwnsFiles
	}

	if err := s.DB.WithContext(ctx).Delete(target).Error; err != nil {
		return err
	}

	s.Audit.Record(ctx, AuditEntry{
		UserID:       uuidPtr(actor.ID),
		Action:       models.AuditUserDelete,
		ResourceType: "user",
		ResourceID:   uuidPtr(target.ID),
		Details:      map[string]interface{}{"email": target.Email},
	})
	return nil
}

func (s *UserService) find(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
