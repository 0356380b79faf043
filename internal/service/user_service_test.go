package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"career-pilot/internal/domain"
)

func newTestUserService() (*UserService, *mockUserRepo) {
	repo := &mockUserRepo{users: make(map[string]domain.User)}
	return NewUserService(zap.NewNop(), repo), repo
}

func TestUserService_Signup(t *testing.T) {
	svc, repo := newTestUserService()
	ctx := context.Background()

	user, err := svc.Signup(ctx, SignupInput{
		Email:    "  Kim@Example.COM ",
		Password: "supersecret",
		Name:     "Kim",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Email != "kim@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.AuthProvider != "email" {
		t.Errorf("auth provider = %q", user.AuthProvider)
	}
	if user.PasswordHash == "" || user.PasswordHash == "supersecret" {
		t.Errorf("password not hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("supersecret")); err != nil {
		t.Errorf("hash does not match password: %v", err)
	}
	if _, ok := repo.users[user.ID]; !ok {
		t.Errorf("user not persisted")
	}
}

func TestUserService_SignupValidation(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "noatsign", Password: "supersecret"}); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("bad email: err = %v", err)
	}
	if _, err := svc.Signup(ctx, SignupInput{Email: "a@b.com", Password: "short"}); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password: err = %v", err)
	}
}

func TestUserService_SignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	if _, err := svc.Signup(ctx, SignupInput{Email: "dup@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, SignupInput{Email: "DUP@example.com", Password: "othersecret"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate signup: err = %v", err)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupInput{Email: "auth@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	user, err := svc.Authenticate(ctx, "auth@example.com", "supersecret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != created.ID {
		t.Errorf("authenticated wrong user")
	}

	if _, err := svc.Authenticate(ctx, "auth@example.com", "wrongpass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupInput{Email: "onb@example.com", Password: "supersecret", Name: "Before"})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, created.ID, ProfileUpdateInput{
		JobCategory: " Dev ",
		YearsOfExp:  3,
		Name:        "After",
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.JobCategory != "dev" {
		t.Errorf("category = %q", updated.JobCategory)
	}
	if updated.YearsOfExp != 3 || updated.Name != "After" {
		t.Errorf("profile not applied: %+v", updated)
	}

	// Categoria desconocida y experiencia negativa se normalizan.
	updated, err = svc.UpdateProfile(ctx, created.ID, ProfileUpdateInput{JobCategory: "wizard", YearsOfExp: -2})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.JobCategory != "other" {
		t.Errorf("unknown category = %q, want other", updated.JobCategory)
	}
	if updated.YearsOfExp != 0 {
		t.Errorf("negative years = %d, want 0", updated.YearsOfExp)
	}
	// El nombre vacio no pisa el existente.
	if updated.Name != "After" {
		t.Errorf("empty name overwrote existing: %q", updated.Name)
	}
}

func TestUserService_UpdateProfileUnknownUser(t *testing.T) {
	svc, _ := newTestUserService()
	if _, err := svc.UpdateProfile(context.Background(), "missing", ProfileUpdateInput{JobCategory: "dev"}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
