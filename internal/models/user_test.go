package models

import "testing"

func TestParseUserRole(t *testing.T) {
	testCases := []struct {
		input   string
		want    UserRole
		wantErr bool
	}{
		{input: "user", want: UserRoleUser},
		{input: "manager", want: UserRoleManager},
		{input: " admin ", want: UserRoleAdmin},
		{input: "Admin", wantErr: true},
		{input: "superuser", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		got, err := ParseUserRole(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseUserRole(%q) expected error, got %q", tc.input, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseUserRole(%q) = %q, %v; want %q", tc.input, got, err, tc.want)
		}
	}
}

func TestUserRoleRank(t *testing.T) {
	if !(UserRoleUser.Rank() < UserRoleManager.Rank() && UserRoleManager.Rank() < UserRoleAdmin.Rank()) {
		t.Fatal("expected user < manager < admin")
	}
	if UserRole("ghost").Rank() != 0 {
		t.Fatal("expected unknown role to rank 0")
	}
	if UserRoleUser.IsPrivileged() {
		t.Fatal("expected user not to be privileged")
	}
	if !UserRoleManager.IsPrivileged() || !UserRoleAdmin.IsPrivileged() {
		t.Fatal("expected manager and admin to be privileged")
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", got)
	}
}
