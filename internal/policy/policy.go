package policy

import (
	"errors"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/metrics"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/models"
	"github.com/google/uuid"
)

type Action string

const (
	ActionReadSelf   Action = "user.read_self"
	ActionListUsers  Action = "user.list"
	ActionChangeRole Action = "user.change_role"
	ActionDeleteUser Action = "user.delete"
	ActionReadFile   Action = "file.read"
	ActionUpload     Action = "file.upload"
	ActionEditFile   Action = "file.edit"
	ActionDeleteFile Action = "file.delete"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidRole     = errors.New("invalid role provided")
	ErrNotPrivileged   = errors.New("manager or admin role required")
	ErrSelfAction      = errors.New("cannot change or delete your own account")
	ErrAdminTarget     = errors.New("only admins can modify an admin account")
	ErrAdminAssignment = errors.New("only admins can assign the admin role")
	ErrNotOwner        = errors.New("only the owner or an admin can modify this file")
	ErrUnknownAction   = errors.New("unknown action")
)

// Actor is the authenticated caller. A zero Actor is anonymous.
type Actor struct {
	ID   uuid.UUID
	Role models.UserRole
}

func (a Actor) Authenticated() bool {
	return a.ID != uuid.Nil
}

// Subject is the user an action targets.
type Subject struct {
	ID   uuid.UUID
	Role models.UserRole
}

type Request struct {
	Actor   Actor
	Action  Action
	Subject Subject
	NewRole models.UserRole
	OwnerID uuid.UUID
}

// Evaluate returns nil when the request is allowed, otherwise the sentinel
// describing the first rule that denied it.
func Evaluate(req Request) error {
	err := evaluate(req)
	if err != nil {
		metrics.PolicyDenials.WithLabelValues(string(req.Action), Reason(err)).Inc()
	}
	return err
}

func evaluate(req Request) error {
	if req.Action == ActionReadFile {
		return nil
	}
	if !req.Actor.Authenticated() {
		return ErrUnauthenticated
	}

	switch req.Action {
	case ActionReadSelf:
		return nil
	case ActionListUsers:
		return requirePrivileged(req.Actor)
	case ActionChangeRole:
		if !req.NewRole.Valid() {
			return ErrInvalidRole
		}
		return evaluateUserMutation(req)
	case ActionDeleteUser:
		return evaluateUserMutation(req)
	case ActionUpload:
		return requirePrivileged(req.Actor)
	case ActionEditFile, ActionDeleteFile:
		if err := requirePrivileged(req.Actor); err != nil {
			return err
		}
		if req.Actor.ID != req.OwnerID && req.Actor.Role != models.UserRoleAdmin {
			return ErrNotOwner
		}
		return nil
	default:
		return ErrUnknownAction
	}
}

func evaluateUserMutation(req Request) error {
	if err := requirePrivileged(req.Actor); err != nil {
		return err
	}
	if req.Actor.ID == req.Subject.ID {
		return ErrSelfAction
	}
	if req.Actor.Role == models.UserRoleAdmin {
		return nil
	}
	if req.Subject.Role == models.UserRoleAdmin {
		return ErrAdminTarget
	}
	if req.NewRole == models.UserRoleAdmin {
		return ErrAdminAssignment
	}
	return nil
}

func requirePrivileged(actor Actor) error {
	if !actor.Role.IsPrivileged() {
		return ErrNotPrivileged
	}
	return nil
}

// Reason is the short label used for denial metrics and logs.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrInvalidRole):
		return "invalid_role"
	case errors.Is(err, ErrNotPrivileged):
		return "not_privileged"
	case errors.Is(err, ErrSelfAction):
		return "self_action"
	case errors.Is(err, ErrAdminTarget):
		return "admin_target"
	case errors.Is(err, ErrAdminAssignment):
		return "admin_assignment"
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	default:
		return "unknown"
	}
}
