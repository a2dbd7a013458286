package user

import (
	"context"

	"uptime-monitor/pkg/db"
	"uptime-monitor/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type repository struct {
	querier *db.Queries
	logger  *zerolog.Logger
}

func NewRepository(dbExecutor db.DBTX, logger *zerolog.Logger) *repository {
	return &repository{
		querier: db.New(dbExecutor),
		logger:  logger,
	}
}

func (r *repository) CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	const op string = "repo.user.create_user"

	id, err := r.querier.CreateUser(ctx, db.CreateUserParams{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	})
	if err != nil {
		return uuid.UUID{}, utils.WrapRepoError(op, err, false, r.logger)
	}
	return utils.FromPgUUID(id), nil
}

func (r *repository) GetUserByID(ctx context.Context, userID uuid.UUID) (User, error) {
	const op string = "repo.user.get_user_by_id"

	user, err := r.querier.GetUserByID(ctx, utils.ToPgUUID(userID))
	if err != nil {
		return User{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return toUser(user), nil
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const op string = "repo.user.get_user_by_email"

	user, err := r.querier.GetUserByEmail(ctx, email)
	if err != nil {
		return User{}, utils.WrapRepoError(op, err, true, r.logger)
	}
	return toUser(user), nil
}

func toUser(u db.User) User {
	return User{
		ID:           utils.FromPgUUID(u.ID),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    utils.FromPgTimestamptz(u.CreatedAt),
	}
}
