package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"taskboard/errs"
	"taskboard/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUser(name, email string) models.NewUser {
	return models.NewUser{Name: name, Email: email, Password: "s3cret!pw", JobTitle: "Developer"}
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	u, err := f.users.CreateUser(ctx, newUser("Ana", " Ana@Example.com "), "")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Role != models.RoleWorker || u.Email != "ana@example.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret!pw" {
		t.Fatalf("password was not hashed")
	}

	_, err = f.users.CreateUser(ctx, newUser("Other", "ana@example.com"), "")
	wantKind(t, err, errs.ErrDuplicateKey)

	tests := []struct {
		name   string
		mutate func(*models.NewUser)
	}{
		{"missing name", func(n *models.NewUser) { n.Name = "" }},
		{"bad email", func(n *models.NewUser) { n.Email = "nobody" }},
		{"missing job title", func(n *models.NewUser) { n.JobTitle = " " }},
		{"missing password", func(n *models.NewUser) { n.Password = "" }},
		{"common password", func(n *models.NewUser) { n.Password = "password123" }},
		{"bad role", func(n *models.NewUser) { n.Role = "owner" }},
		{"project icon", func(n *models.NewUser) { n.IconName = "Rocket" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := newUser("Bob", "bob@example.com")
			tt.mutate(&in)
			_, err := f.users.CreateUser(ctx, in, "")
			wantKind(t, err, errs.ErrValidation)
		})
	}
}

func TestCreateUser_AdminRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	in := newUser("Eve", "eve@example.com")
	in.Role = models.RoleAdmin
	for _, caller := range []models.Role{"", models.RoleWorker} {
		_, err := f.users.CreateUser(ctx, in, caller)
		wantKind(t, err, errs.ErrNotAuthorized)
	}
	if _, err := f.users.FindByEmail(ctx, "eve@example.com"); !isKind(err, errs.ErrNotFound) {
		t.Fatalf("refused admin must not be stored, got %v", err)
	}

	u, err := f.users.CreateUser(ctx, in, models.RoleAdmin)
	if err != nil {
		t.Fatalf("admin creating admin: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Fatalf("role = %s, want admin", u.Role)
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first, err := f.users.EnsureAdmin(ctx, "root@example.com", "s3cret!pw")
	if err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if first.Role != models.RoleAdmin {
		t.Fatalf("role = %s, want admin", first.Role)
	}
	again, err := f.users.EnsureAdmin(ctx, "ROOT@example.com", "other-pass")
	if err != nil {
		t.Fatalf("EnsureAdmin again: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("second call created a new user")
	}
	if _, err := f.users.Authenticate(ctx, "root@example.com", "s3cret!pw"); err != nil {
		t.Fatalf("bootstrap admin cannot log in: %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ana, _ := f.users.CreateUser(ctx, newUser("Ana", "ana@example.com"), "")
	bob, _ := f.users.CreateUser(ctx, newUser("Bob", "bob@example.com"), "")

	_, err := f.users.UpdateUser(ctx, bob.ID, models.UserPatch{Email: ptr("ANA@example.com")}, "")
	wantKind(t, err, errs.ErrDuplicateKey)

	// Re-submitting one's own address is not a conflict.
	if _, err := f.users.UpdateUser(ctx, ana.ID, models.UserPatch{Email: ptr("ana@example.com")}, ""); err != nil {
		t.Fatalf("own email: %v", err)
	}

	_, err = f.users.UpdateUser(ctx, bob.ID, models.UserPatch{Role: ptr(models.RoleAdmin)}, models.RoleWorker)
	wantKind(t, err, errs.ErrNotAuthorized)
	_, err = f.users.UpdateUser(ctx, bob.ID, models.UserPatch{Role: ptr(models.RoleWorker)}, "")
	wantKind(t, err, errs.ErrNotAuthorized)

	got, err := f.users.UpdateUser(ctx, bob.ID, models.UserPatch{Password: ptr("n3w-pass"), Role: ptr(models.RoleAdmin)}, models.RoleAdmin)
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if got.Role != models.RoleAdmin || got.PasswordHash == bob.PasswordHash {
		t.Fatalf("role or password not updated")
	}
	if _, err := f.users.Authenticate(ctx, "bob@example.com", "n3w-pass"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestAuthenticateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	u, _ := f.users.CreateUser(ctx, newUser("Ana", "ana@example.com"), "")

	_, err := f.users.Authenticate(ctx, "ana@example.com", "wrong")
	wantKind(t, err, errs.ErrUnauthenticated)
	_, err = f.users.Authenticate(ctx, "ghost@example.com", "s3cret!pw")
	wantKind(t, err, errs.ErrUnauthenticated)

	if err := f.users.DeleteUser(ctx, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	wantKind(t, f.users.DeleteUser(ctx, u.ID), errs.ErrNotFound)
	_, err = f.users.GetUser(ctx, primitive.NewObjectID())
	wantKind(t, err, errs.ErrNotFound)
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	auth := NewAuthService(f.users, []byte("test-secret"))
	u, _ := f.users.CreateUser(ctx, newUser("Ana", "ana@example.com"), "")

	res, err := auth.Login(ctx, "ana@example.com", "s3cret!pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Token == "" || res.User.ID != u.ID {
		t.Fatalf("unexpected login result: %+v", res)
	}

	me, err := auth.Me(ctx, u.ID)
	if err != nil || me.Email != "ana@example.com" {
		t.Fatalf("Me: %v %v", me, err)
	}

	_ = f.users.DeleteUser(ctx, u.ID)
	_, err = auth.Me(ctx, u.ID)
	wantKind(t, err, errs.ErrUnauthenticated)
}

func TestLoadPasswordBlackList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.txt")
	if err := os.WriteFile(path, []byte("123456\n\nqwerty\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	list, err := LoadPasswordBlackList(path)
	if err != nil {
		t.Fatalf("LoadPasswordBlackList: %v", err)
	}
	if len(list) != 2 || !list["qwerty"] {
		t.Fatalf("unexpected list: %v", list)
	}
	if _, err := LoadPasswordBlackList(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
