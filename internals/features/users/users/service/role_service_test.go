package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"kursusku_backend/internals/constants"
	"kursusku_backend/internals/features/users/users/dto"
	"kursusku_backend/internals/features/users/users/model"
	"kursusku_backend/internals/features/users/users/repository"
)

type fakeUserStore struct {
	user    *model.UserModel
	findErr error

	role        string
	roleErr     error
	roleLookups []string

	ensureCalls int
	ensuredName *string

	updates map[string]any

	setRoleRows  int64
	setRoleEmail string
	setRoleValue string

	calls []string
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	f.calls = append(f.calls, "find")
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.user != nil {
		return f.user, nil
	}
	return &model.UserModel{UserEmail: email, UserRole: constants.RoleStudent}, nil
}

func (f *fakeUserStore) GetRoleByEmail(ctx context.Context, email string) (string, error) {
	f.roleLookups = append(f.roleLookups, email)
	if f.roleErr != nil {
		return "", f.roleErr
	}
	return f.role, nil
}

func (f *fakeUserStore) List(ctx context.Context, filter repository.ListUserFilter) ([]model.UserModel, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserStore) EnsureUser(ctx context.Context, email string, googleSub, name *string) (*model.UserModel, error) {
	f.calls = append(f.calls, "ensure")
	f.ensureCalls++
	f.ensuredName = name
	return &model.UserModel{UserEmail: email, UserRole: constants.RoleStudent}, nil
}

func (f *fakeUserStore) UpdateProfile(ctx context.Context, email string, updates map[string]any) (int64, error) {
	f.calls = append(f.calls, "update")
	f.updates = updates
	return 1, nil
}

func (f *fakeUserStore) SetRoleByEmail(ctx context.Context, email, role string) (int64, error) {
	f.setRoleEmail = email
	f.setRoleValue = role
	return f.setRoleRows, nil
}

/* =========================================================
   RESOLVE ROLE
========================================================= */

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		roleErr error
		want    string
	}{
		{"stored instructor", constants.RoleInstructor, nil, constants.RoleInstructor},
		{"stored admin", constants.RoleAdmin, nil, constants.RoleAdmin},
		{"no row falls back to student", "", gorm.ErrRecordNotFound, constants.RoleStudent},
		{"dirty value falls back to student", "superuser", nil, constants.RoleStudent},
		{"guest is not assignable", constants.RoleGuest, nil, constants.RoleStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeUserStore{role: tt.role, roleErr: tt.roleErr}
			svc := NewRoleService(store)

			got, err := svc.ResolveRole(context.Background(), "User@Example.com")
			if err != nil {
				t.Fatalf("ResolveRole returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("role = %q, want %q", got, tt.want)
			}
			if store.roleLookups[0] != "user@example.com" {
				t.Errorf("lookup used %q, want lowercased email", store.roleLookups[0])
			}
		})
	}
}

func TestResolveRolePropagatesStorageErrors(t *testing.T) {
	store := &fakeUserStore{roleErr: errors.New("connection refused")}
	svc := NewRoleService(store)

	if _, err := svc.ResolveRole(context.Background(), "a@b.c"); err == nil {
		t.Fatal("expected a storage error, got nil")
	}
}

/* =========================================================
   PROFILE
========================================================= */

func TestProfileSynthesizesDefaultForAbsentRow(t *testing.T) {
	store := &fakeUserStore{findErr: gorm.ErrRecordNotFound}
	svc := NewRoleService(store)

	u, err := svc.Profile(context.Background(), "New@Example.com")
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if u.UserEmail != "new@example.com" {
		t.Errorf("email = %q", u.UserEmail)
	}
	if u.UserRole != constants.RoleStudent {
		t.Errorf("role = %q, want the default", u.UserRole)
	}
}

func TestUpsertProfileEnsuresRowBeforeWriting(t *testing.T) {
	store := &fakeUserStore{}
	svc := NewRoleService(store)

	name := "Alice"
	bio := "hello"
	_, err := svc.UpsertProfile(context.Background(), "A@b.c", &dto.UpsertProfileRequest{UserName: &name, UserBio: &bio})
	if err != nil {
		t.Fatalf("UpsertProfile returned error: %v", err)
	}

	want := []string{"ensure", "update", "find"}
	if len(store.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", store.calls, want)
	}
	for i := range want {
		if store.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", store.calls, want)
		}
	}
	if store.updates["user_name"] != "Alice" || store.updates["user_bio"] != "hello" {
		t.Errorf("updates = %v", store.updates)
	}
}

func TestUpsertProfileSkipsEmptyUpdate(t *testing.T) {
	store := &fakeUserStore{}
	svc := NewRoleService(store)

	if _, err := svc.UpsertProfile(context.Background(), "a@b.c", &dto.UpsertProfileRequest{}); err != nil {
		t.Fatalf("UpsertProfile returned error: %v", err)
	}
	for _, c := range store.calls {
		if c == "update" {
			t.Fatal("UpdateProfile ran with nothing to write")
		}
	}
}

/* =========================================================
   SET ROLE
========================================================= */

func TestSetRoleRejectsUnknownRoles(t *testing.T) {
	for _, bad := range []string{"", "root", constants.RoleGuest} {
		store := &fakeUserStore{setRoleRows: 1}
		svc := NewRoleService(store)

		_, err := svc.SetRole(context.Background(), "a@b.c", bad)
		if !errors.Is(err, ErrUnknownRole) {
			t.Fatalf("role %q: err = %v, want ErrUnknownRole", bad, err)
		}
		if store.ensureCalls != 0 {
			t.Errorf("role %q: row ensured before validation", bad)
		}
	}
}

func TestSetRoleCreatesMissingAccount(t *testing.T) {
	store := &fakeUserStore{setRoleRows: 1}
	svc := NewRoleService(store)

	if _, err := svc.SetRole(context.Background(), "New@Example.com", "Instructor"); err != nil {
		t.Fatalf("SetRole returned error: %v", err)
	}
	if store.ensureCalls != 1 {
		t.Errorf("ensure calls = %d, want 1", store.ensureCalls)
	}
	if store.setRoleEmail != "new@example.com" || store.setRoleValue != constants.RoleInstructor {
		t.Errorf("wrote %q=%q, want lowercased email and role", store.setRoleEmail, store.setRoleValue)
	}
}

func TestSetRoleMissingRowAfterEnsure(t *testing.T) {
	store := &fakeUserStore{setRoleRows: 0}
	svc := NewRoleService(store)

	_, err := svc.SetRole(context.Background(), "a@b.c", constants.RoleAdmin)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}
