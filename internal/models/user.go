package models

import (
	"errors"
	"strings"
)

type UserRole string

const (
	UserRoleUser    UserRole = "user"
	UserRoleManager UserRole = "manager"
	UserRoleAdmin   UserRole = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

// ParseUserRole accepts only the three stored role values, case-sensitively.
func ParseUserRole(value string) (UserRole, error) {
	switch role := UserRole(strings.TrimSpace(value)); role {
	case UserRoleUser, UserRoleManager, UserRoleAdmin:
		return role, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r UserRole) Valid() bool {
	_, err := ParseUserRole(string(r))
	return err == nil
}

// Rank orders roles by privilege. Unknown roles rank below user.
func (r UserRole) Rank() int {
	switch r {
	case UserRoleUser:
		return 1
	case UserRoleManager:
		return 2
	case UserRoleAdmin:
		return 3
	default:
		return 0
	}
}

func (r UserRole) IsPrivileged() bool {
	return r.Rank() >= UserRoleManager.Rank()
}

type User struct {
	BaseModel
	Email        string   `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"type:text;not null"`
	FirstName    string   `json:"firstName" gorm:"type:varchar(100);not null"`
	LastName     string   `json:"lastName" gorm:"type:varchar(100);not null"`
	Role         UserRole `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
}

// NormalizeEmail is the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
