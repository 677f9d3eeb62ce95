package services

import (
	"context"
	"errors"
	"testing"

	"spectres-crm/internal/auth"
	"spectres-crm/internal/config"
	"spectres-crm/internal/models"
	"spectres-crm/internal/permissions"
)

func newUserService() (*UserService, *fakeUserRepo) {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	repo := newFakeUserRepo()
	return NewUserService(repo, auth.NewJWTManager(cfg)), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u, err := svc.Register(ctx, &models.CreateUserRequest{
		Email: "Marta@Spectres.pl", FullName: "Marta Wiśniewska", Password: "dlugie-haslo", Role: "manager",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "marta@spectres.pl" {
		t.Errorf("email not normalized: %s", u.Email)
	}
	if u.PasswordHash == "dlugie-haslo" {
		t.Error("password stored in plain text")
	}

	resp, err := svc.Login(ctx, &models.LoginRequest{Email: "marta@spectres.pl", Password: "dlugie-haslo"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := svc.JWTManager.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != u.ID || claims.Role != "manager" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "marta@spectres.pl", Password: "zle"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "nikt@spectres.pl", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v", err)
	}

	u.IsActive = false
	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "marta@spectres.pl", Password: "dlugie-haslo"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("suspended user: err = %v", err)
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	cases := map[string]*models.CreateUserRequest{
		"bad email":      {Email: "nope", FullName: "A", Password: "12345678"},
		"missing name":   {Email: "a@b.pl", Password: "12345678"},
		"short password": {Email: "a@b.pl", FullName: "A", Password: "123"},
		"unknown role":   {Email: "a@b.pl", FullName: "A", Password: "12345678", Role: "ceo"},
	}
	for name, req := range cases {
		if _, err := svc.Register(ctx, req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", name, err)
		}
	}

	ok := &models.CreateUserRequest{Email: "a@b.pl", FullName: "A", Password: "12345678"}
	u, err := svc.Register(ctx, ok)
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != string(permissions.RolePracownik) {
		t.Errorf("default role = %s", u.Role)
	}
	if _, err := svc.Register(ctx, ok); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate: err = %v", err)
	}
}

func TestCreateUser_RoleCeiling(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	req := func(role string) *models.CreateUserRequest {
		return &models.CreateUserRequest{Email: role + "@spectres.pl", FullName: role, Password: "12345678", Role: role}
	}

	if _, err := svc.CreateUser(ctx, actorWith(permissions.RoleManager), req("pracownik")); !errors.Is(err, ErrForbidden) {
		t.Errorf("manager lacks manage_users: err = %v", err)
	}
	szef := actorWith(permissions.RoleSzef)
	if _, err := svc.CreateUser(ctx, szef, req("admin")); !errors.Is(err, ErrForbidden) {
		t.Errorf("szef creating admin: err = %v", err)
	}
	if _, err := svc.CreateUser(ctx, szef, req("manager")); err != nil {
		t.Errorf("szef creating manager: %v", err)
	}
	if _, err := svc.CreateUser(ctx, szef, req("dyrektor")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown role must be rejected as input, got %v", err)
	}

	users, err := svc.ListUsers(ctx, szef)
	if err != nil || len(users) != 1 {
		t.Errorf("ListUsers = %d, %v", len(users), err)
	}
	if _, err := svc.ListUsers(ctx, actorWith(permissions.RolePracownik)); !errors.Is(err, ErrForbidden) {
		t.Errorf("worker listing users: err = %v", err)
	}
}
