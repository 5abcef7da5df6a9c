package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/melrifa1/no1-service-tracker/internal/core/domain"
	"github.com/melrifa1/no1-service-tracker/internal/core/ports"
)

func newUserFixture(t *testing.T) (*stubUserRepo, ports.UserService) {
	t.Helper()
	repo := newStubUserRepo()
	return repo, NewUserService(repo, zerolog.Nop())
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }

func TestUserService_Create_Defaults(t *testing.T) {
	_, svc := newUserFixture(t)

	created, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		ActorRole: domain.RoleAdmin,
		Username:  " alice ",
		Password:  "secret1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Username != "alice" {
		t.Fatalf("username must be trimmed, got %q", created.Username)
	}
	if created.Role != domain.RoleUser {
		t.Fatalf("default role is user, got %s", created.Role)
	}
	if created.ServicePercentage != 100 {
		t.Fatalf("default percentage is 100, got %d", created.ServicePercentage)
	}
	if !created.IsActive {
		t.Fatalf("new accounts start active")
	}
	if created.PasswordHash == "secret1" {
		t.Fatalf("password must be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestUserService_Create_NonAdminForbidden(t *testing.T) {
	_, svc := newUserFixture(t)

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		ActorRole: domain.RoleUser,
		Username:  "alice",
		Password:  "secret1",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Create_Duplicate(t *testing.T) {
	_, svc := newUserFixture(t)

	input := ports.CreateUserInput{ActorRole: domain.RoleAdmin, Username: "alice", Password: "secret1"}
	if _, err := svc.CreateUser(context.Background(), input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := svc.CreateUser(context.Background(), input); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Create_Validation(t *testing.T) {
	_, svc := newUserFixture(t)

	cases := []struct {
		name  string
		input ports.CreateUserInput
	}{
		{"empty username", ports.CreateUserInput{ActorRole: domain.RoleAdmin, Username: "   ", Password: "secret1"}},
		{"short password", ports.CreateUserInput{ActorRole: domain.RoleAdmin, Username: "bob", Password: "tiny5"}},
		{"bad role", ports.CreateUserInput{ActorRole: domain.RoleAdmin, Username: "bob", Password: "secret1", Role: "owner"}},
		{"percentage too high", ports.CreateUserInput{ActorRole: domain.RoleAdmin, Username: "bob", Password: "secret1", ServicePercentage: intPtr(101)}},
		{"percentage negative", ports.CreateUserInput{ActorRole: domain.RoleAdmin, Username: "bob", Password: "secret1", ServicePercentage: intPtr(-1)}},
	}

	for _, tc := range cases {
		if _, err := svc.CreateUser(context.Background(), tc.input); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

func TestUserService_Create_ZeroPercentageAllowed(t *testing.T) {
	_, svc := newUserFixture(t)

	created, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		ActorRole:         domain.RoleAdmin,
		Username:          "trainee",
		Password:          "secret1",
		ServicePercentage: intPtr(0),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ServicePercentage != 0 {
		t.Fatalf("explicit zero percentage must stick, got %d", created.ServicePercentage)
	}
}

func TestUserService_Update_Subset(t *testing.T) {
	repo, svc := newUserFixture(t)
	alice := seedUser(t, repo, "alice", "oldpass", domain.RoleUser, true)

	updated, err := svc.UpdateUser(context.Background(), ports.UpdateUserInput{
		ActorID:           uuid.New(),
		ActorRole:         domain.RoleAdmin,
		UserID:            alice.ID,
		IsActive:          boolPtr(false),
		ServicePercentage: intPtr(55),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("is_active not applied")
	}
	if updated.ServicePercentage != 55 {
		t.Fatalf("percentage not applied, got %d", updated.ServicePercentage)
	}
	if updated.Role != domain.RoleUser || updated.Username != "alice" {
		t.Fatalf("untouched fields must survive: %+v", updated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("oldpass")); err != nil {
		t.Fatalf("password must be unchanged: %v", err)
	}
}

func TestUserService_Update_Password(t *testing.T) {
	repo, svc := newUserFixture(t)
	alice := seedUser(t, repo, "alice", "oldpass", domain.RoleUser, true)

	updated, err := svc.UpdateUser(context.Background(), ports.UpdateUserInput{
		ActorID:   uuid.New(),
		ActorRole: domain.RoleAdmin,
		UserID:    alice.ID,
		Password:  strPtr("newpass"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpass")); err != nil {
		t.Fatalf("new password not applied: %v", err)
	}
}

func TestUserService_Update_UnknownUser(t *testing.T) {
	_, svc := newUserFixture(t)

	_, err := svc.UpdateUser(context.Background(), ports.UpdateUserInput{
		ActorID:   uuid.New(),
		ActorRole: domain.RoleAdmin,
		UserID:    uuid.New(),
		IsActive:  boolPtr(false),
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_Validation(t *testing.T) {
	repo, svc := newUserFixture(t)
	alice := seedUser(t, repo, "alice", "oldpass", domain.RoleUser, true)

	if _, err := svc.UpdateUser(context.Background(), ports.UpdateUserInput{
		ActorID: uuid.New(), ActorRole: domain.RoleAdmin, UserID: alice.ID, Password: strPtr("tiny"),
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for short password, got %v", err)
	}
	if _, err := svc.UpdateUser(context.Background(), ports.UpdateUserInput{
		ActorID: uuid.New(), ActorRole: domain.RoleAdmin, UserID: alice.ID, Role: strPtr("boss"),
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad role, got %v", err)
	}
	if _, err := svc.UpdateUser(context.Background(), ports.UpdateUserInput{
		ActorID: uuid.New(), ActorRole: domain.RoleAdmin, UserID: alice.ID, ServicePercentage: intPtr(150),
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for bad percentage, got %v", err)
	}
}

func TestUserService_Delete(t *testing.T) {
	repo, svc := newUserFixture(t)
	admin := seedUser(t, repo, "admin", "s3cret", domain.RoleAdmin, true)
	alice := seedUser(t, repo, "alice", "s3cret", domain.RoleUser, true)

	if err := svc.DeleteUser(context.Background(), admin.ID, admin.Role, alice.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), alice.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user must be gone, got %v", err)
	}
}

func TestUserService_Delete_SelfForbidden(t *testing.T) {
	repo, svc := newUserFixture(t)
	admin := seedUser(t, repo, "admin", "s3cret", domain.RoleAdmin, true)

	if err := svc.DeleteUser(context.Background(), admin.ID, admin.Role, admin.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self delete, got %v", err)
	}
	if _, err := repo.FindByID(context.Background(), admin.ID); err != nil {
		t.Fatalf("admin must still exist: %v", err)
	}
}

func TestUserService_Delete_Unknown(t *testing.T) {
	repo, svc := newUserFixture(t)
	admin := seedUser(t, repo, "admin", "s3cret", domain.RoleAdmin, true)

	if err := svc.DeleteUser(context.Background(), admin.ID, admin.Role, uuid.New()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_List_AdminOnly(t *testing.T) {
	repo, svc := newUserFixture(t)
	seedUser(t, repo, "alice", "s3cret", domain.RoleUser, true)
	seedUser(t, repo, "bob", "s3cret", domain.RoleUser, true)

	users, err := svc.ListUsers(context.Background(), domain.RoleAdmin)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	if _, err := svc.ListUsers(context.Background(), domain.RoleUser); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
}

func TestUserService_Get(t *testing.T) {
	repo, svc := newUserFixture(t)
	alice := seedUser(t, repo, "alice", "s3cret", domain.RoleUser, true)

	found, err := svc.GetUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if found.Username != "alice" {
		t.Fatalf("unexpected user: %+v", found)
	}

	if _, err := svc.GetUser(context.Background(), uuid.New()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
