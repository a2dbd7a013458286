package user

import (
	"context"
	"strings"

	"uptime-monitor/internals/security"
	"uptime-monitor/pkg/apperror"

	"github.com/google/uuid"
)

type Repository interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

type TokenGenerator interface {
	GenerateAccessToken(payload security.RequestClaims) (string, error)
}

type Service struct {
	repo     Repository
	tokenSvc TokenGenerator
}

func NewService(repo Repository, tokenSvc TokenGenerator) *Service {
	return &Service{
		repo:     repo,
		tokenSvc: tokenSvc,
	}
}

func (s *Service) Register(ctx context.Context, data CreateUserCmd) (uuid.UUID, error) {
	const op string = "service.user.register"

	email := strings.ToLower(strings.TrimSpace(data.Email))

	_, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return uuid.UUID{}, &apperror.Error{
			Kind:    apperror.AlreadyExists,
			Op:      op,
			Message: "user already exists",
		}
	}
	if !apperror.IsKind(err, apperror.NotFound) {
		return uuid.UUID{}, err
	}

	passwordHash, err := security.HashPassword(data.Password)
	if err != nil {
		return uuid.UUID{}, apperror.New(apperror.Internal, op, err).WithMessage("internal server error")
	}

	// unique constraint on email still catches a concurrent register
	return s.repo.CreateUser(ctx, data.Name, email, passwordHash)
}

func (s *Service) LogIn(ctx context.Context, data LogInUserCmd) (LogInUserResult, error) {
	const op string = "service.user.login"

	invalid := &apperror.Error{
		Kind:    apperror.Unauthorised,
		Op:      op,
		Message: "invalid email or password",
	}

	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(data.Email)))
	if err != nil {
		if apperror.IsKind(err, apperror.NotFound) {
			return LogInUserResult{}, invalid
		}
		return LogInUserResult{}, err
	}

	ok, err := security.ComparePassword(data.Password, u.PasswordHash)
	if err != nil {
		return LogInUserResult{}, apperror.New(apperror.Internal, op, err).WithMessage("internal server error")
	}
	if !ok {
		return LogInUserResult{}, invalid
	}

	token, err := s.tokenSvc.GenerateAccessToken(security.NewRequestClaims(u.ID, u.Email))
	if err != nil {
		return LogInUserResult{}, apperror.New(apperror.Internal, op, err).WithMessage("internal server error")
	}

	return LogInUserResult{UserID: u.ID, AccessToken: token}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}
