package policy

import (
	"testing"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func actor(role models.UserRole) Actor {
	return Actor{ID: uuid.New(), Role: role}
}

func TestEvaluateUserActions(t *testing.T) {
	admin := actor(models.UserRoleAdmin)
	manager := actor(models.UserRoleManager)
	user := actor(models.UserRoleUser)

	adminTarget := Subject{ID: uuid.New(), Role: models.UserRoleAdmin}
	userTarget := Subject{ID: uuid.New(), Role: models.UserRoleUser}
	managerTarget := Subject{ID: uuid.New(), Role: models.UserRoleManager}

	testCases := []struct {
		name string
		req  Request
		want error
	}{
		{name: "anonymous cannot read self", req: Request{Action: ActionReadSelf}, want: ErrUnauthenticated},
		{name: "user reads self", req: Request{Actor: user, Action: ActionReadSelf}},
		{name: "user cannot list users", req: Request{Actor: user, Action: ActionListUsers}, want: ErrNotPrivileged},
		{name: "manager lists users", req: Request{Actor: manager, Action: ActionListUsers}},
		{name: "admin lists users", req: Request{Actor: admin, Action: ActionListUsers}},

		{name: "invalid role checked before privilege", req: Request{Actor: user, Action: ActionChangeRole, Subject: userTarget, NewRole: "root"}, want: ErrInvalidRole},
		{name: "user cannot change roles", req: Request{Actor: user, Action: ActionChangeRole, Subject: userTarget, NewRole: models.UserRoleManager}, want: ErrNotPrivileged},
		{name: "admin cannot change own role", req: Request{Actor: admin, Action: ActionChangeRole, Subject: Subject{ID: admin.ID, Role: models.UserRoleAdmin}, NewRole: models.UserRoleUser}, want: ErrSelfAction},
		{name: "manager cannot change own role", req: Request{Actor: manager, Action: ActionChangeRole, Subject: Subject{ID: manager.ID, Role: models.UserRoleManager}, NewRole: models.UserRoleUser}, want: ErrSelfAction},
		{name: "manager cannot demote admin", req: Request{Actor: manager, Action: ActionChangeRole, Subject: adminTarget, NewRole: models.UserRoleUser}, want: ErrAdminTarget},
		{name: "manager cannot promote to admin", req: Request{Actor: manager, Action: ActionChangeRole, Subject: userTarget, NewRole: models.UserRoleAdmin}, want: ErrAdminAssignment},
		{name: "manager promotes user to manager", req: Request{Actor: manager, Action: ActionChangeRole, Subject: userTarget, NewRole: models.UserRoleManager}},
		{name: "manager demotes manager", req: Request{Actor: manager, Action: ActionChangeRole, Subject: managerTarget, NewRole: models.UserRoleUser}},
		{name: "admin promotes to admin", req: Request{Actor: admin, Action: ActionChangeRole, Subject: userTarget, NewRole: models.UserRoleAdmin}},
		{name: "admin demotes another admin", req: Request{Actor: admin, Action: ActionChangeRole, Subject: adminTarget, NewRole: models.UserRoleManager}},

		{name: "user cannot delete users", req: Request{Actor: user, Action: ActionDeleteUser, Subject: userTarget}, want: ErrNotPrivileged},
		{name: "nobody deletes self", req: Request{Actor: admin, Action: ActionDeleteUser, Subject: Subject{ID: admin.ID, Role: models.UserRoleAdmin}}, want: ErrSelfAction},
		{name: "manager cannot delete admin", req: Request{Actor: manager, Action: ActionDeleteUser, Subject: adminTarget}, want: ErrAdminTarget},
		{name: "manager deletes user", req: Request{Actor: manager, Action: ActionDeleteUser, Subject: userTarget}},
		{name: "admin deletes admin", req: Request{Actor: admin, Action: ActionDeleteUser, Subject: adminTarget}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Evaluate(tc.req)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestEvaluateFileActions(t *testing.T) {
	admin := actor(models.UserRoleAdmin)
	manager := actor(models.UserRoleManager)
	user := actor(models.UserRoleUser)
	otherOwner := uuid.New()

	testCases := []struct {
		name string
		req  Request
		want error
	}{
		{name: "anonymous reads catalogue", req: Request{Action: ActionReadFile}},
		{name: "anonymous cannot upload", req: Request{Action: ActionUpload}, want: ErrUnauthenticated},
		{name: "user cannot upload", req: Request{Actor: user, Action: ActionUpload}, want: ErrNotPrivileged},
		{name: "manager uploads", req: Request{Actor: manager, Action: ActionUpload}},
		{name: "user cannot edit own file", req: Request{Actor: user, Action: ActionEditFile, OwnerID: user.ID}, want: ErrNotPrivileged},
		{name: "manager edits own file", req: Request{Actor: manager, Action: ActionEditFile, OwnerID: manager.ID}},
		{name: "manager cannot edit foreign file", req: Request{Actor: manager, Action: ActionEditFile, OwnerID: otherOwner}, want: ErrNotOwner},
		{name: "manager cannot delete foreign file", req: Request{Actor: manager, Action: ActionDeleteFile, OwnerID: otherOwner}, want: ErrNotOwner},
		{name: "admin deletes foreign file", req: Request{Actor: admin, Action: ActionDeleteFile, OwnerID: otherOwner}},
		{name: "unknown action denied", req: Request{Actor: admin, Action: "file.share"}, want: ErrUnknownAction},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Evaluate(tc.req)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestManagerNeverGrantsOrTouchesAdmin(t *testing.T) {
	manager := actor(models.UserRoleManager)
	roles := []models.UserRole{models.UserRoleUser, models.UserRoleManager, models.UserRoleAdmin}

	for _, targetRole := range roles {
		for _, newRole := range roles {
			if targetRole != models.UserRoleAdmin && newRole != models.UserRoleAdmin {
				continue
			}
			err := Evaluate(Request{
				Actor:   manager,
				Action:  ActionChangeRole,
				Subject: Subject{ID: uuid.New(), Role: targetRole},
				NewRole: newRole,
			})
			assert.Error(t, err, "target=%s new=%s", targetRole, newRole)
		}
	}
}

func TestReason(t *testing.T) {
	assert.Equal(t, "self_action", Reason(ErrSelfAction))
	assert.Equal(t, "not_owner", Reason(ErrNotOwner))
	assert.Equal(t, "unknown", Reason(assert.AnError))
}
