package service

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cater-menu-backend/internal/models"
	"cater-menu-backend/pkg/validator"
)

type fakeUserRepo struct {
	users []models.AdminUser
}

func (f *fakeUserRepo) GetByUsername(username string) (*models.AdminUser, error) {
	for i := range f.users {
		if f.users[i].Username == username {
			return &f.users[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Create(user *models.AdminUser) error {
	user.ID = uint(len(f.users) + 1)
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) Count() (int64, error) {
	return int64(len(f.users)), nil
}

func testAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()
	validator.Init()
	v := validator.New(validator.Options{
		RecognizedPreferences: []string{"VEGAN"},
	})
	return NewAuthService(repo, v, "test-secret")
}

func seedUser(t *testing.T, repo *fakeUserRepo, username, password string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	repo.users = append(repo.users, models.AdminUser{
		ID:       uint(len(repo.users) + 1),
		Username: username,
		Password: string(hashed),
		Role:     "admin",
	})
}

func TestLoginIssuesValidToken(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "admin", "Password123")
	svc := testAuthService(t, repo)

	resp, err := svc.Login(models.LoginRequest{Username: "admin", Password: "Password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a signed token")
	}

	token, err := svc.ValidateToken(resp.Token)
	if err != nil || !token.Valid {
		t.Fatalf("issued token failed validation: %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "admin", "Password123")
	svc := testAuthService(t, repo)

	if _, err := svc.Login(models.LoginRequest{Username: "admin", Password: "Password124"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsUnknownUserIdentically(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "admin", "Password123")
	svc := testAuthService(t, repo)

	if _, err := svc.Login(models.LoginRequest{Username: "nobody", Password: "Password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLoginValidatesCredentialShape(t *testing.T) {
	repo := &fakeUserRepo{}
	seedUser(t, repo, "admin", "Password123")
	svc := testAuthService(t, repo)

	_, err := svc.Login(models.LoginRequest{Username: "admin<script>", Password: "Password123"})
	if _, ok := validator.AsValidationErrors(err); !ok {
		t.Fatalf("expected ValidationErrors for malformed username, got %v", err)
	}
}

func TestEnsureAdminBootstrapsOnce(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := testAuthService(t, repo)

	if err := svc.EnsureAdmin("admin", "Password123"); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected one bootstrap user, got %d", len(repo.users))
	}

	// A second call must be a no-op once any user exists.
	if err := svc.EnsureAdmin("other", "Password123"); err != nil {
		t.Fatalf("EnsureAdmin failed on second call: %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected no additional users, got %d", len(repo.users))
	}
}

func TestEnsureAdminRejectsWeakBootstrapPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := testAuthService(t, repo)

	if err := svc.EnsureAdmin("admin", "weak"); err == nil {
		t.Fatal("expected weak bootstrap password to be rejected")
	}
	if len(repo.users) != 0 {
		t.Fatal("no user may be created from a rejected password")
	}
}
