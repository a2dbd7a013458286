package user

import (
	"context"
	"testing"

	"uptime-monitor/internals/security"
	"uptime-monitor/pkg/apperror"

	"github.com/google/uuid"
)

type fakeRepo struct {
	byEmail map[string]User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]User{}}
}

func (f *fakeRepo) CreateUser(_ context.Context, name, email, hash string) (uuid.UUID, error) {
	u := User{ID: uuid.New(), Name: name, Email: email, PasswordHash: hash}
	f.byEmail[email] = u
	return u.ID, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id uuid.UUID) (User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, &apperror.Error{Kind: apperror.NotFound}
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return User{}, &apperror.Error{Kind: apperror.NotFound}
	}
	return u, nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(c security.RequestClaims) (string, error) {
	return "token-for-" + c.Email, nil
}

func TestRegisterAndLogIn(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), fakeTokens{})

	id, err := svc.Register(ctx, CreateUserCmd{Name: "Ada", Email: " Ada@Example.com ", Password: "password1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := svc.LogIn(ctx, LogInUserCmd{Email: "ada@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.UserID != id {
		t.Fatalf("user id = %v, want %v", res.UserID, id)
	}
	if res.AccessToken != "token-for-ada@example.com" {
		t.Fatalf("token = %q", res.AccessToken)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), fakeTokens{})

	if _, err := svc.Register(ctx, CreateUserCmd{Name: "a", Email: "a@b.c", Password: "password1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, CreateUserCmd{Name: "a", Email: "a@b.c", Password: "password1"})
	if !apperror.IsKind(err, apperror.AlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestLogInWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepo(), fakeTokens{})

	if _, err := svc.Register(ctx, CreateUserCmd{Name: "a", Email: "a@b.c", Password: "password1"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, cmd := range []LogInUserCmd{
		{Email: "a@b.c", Password: "nope"},
		{Email: "missing@b.c", Password: "password1"},
	} {
		if _, err := svc.LogIn(ctx, cmd); !apperror.IsKind(err, apperror.Unauthorised) {
			t.Fatalf("LogIn(%+v) = %v, want unauthorised", cmd, err)
		}
	}
}
