package infra_postgres_user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/burningsawals/core/internal/model"
	"github.com/burningsawals/core/internal/storage"
)

type Driver struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Driver {
	return &Driver{db: db}
}

type userDTO struct {
	UserID       string `db:"user_id"`
	PhoneOrEmail string `db:"phone_or_email"`
	UserName     string `db:"user_name"`
}

func (d *Driver) UserByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	var u userDTO
	query := `SELECT user_id, phone_or_email, user_name FROM users WHERE phone_or_email = $1`
	if err := d.db.GetContext(ctx, &u, query, identifier); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, storage.ErrNotFound
		}
		return model.User{}, err
	}
	return toUser(u), nil
}

func (d *Driver) UserByID(ctx context.Context, id string) (model.User, error) {
	var u userDTO
	query := `SELECT user_id, phone_or_email, user_name FROM users WHERE user_id = $1`
	if err := d.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, storage.ErrNotFound
		}
		return model.User{}, err
	}
	return toUser(u), nil
}

func (d *Driver) CreateUser(ctx context.Context, identifier, userName string) (model.User, error) {
	u := userDTO{
		UserID:       uuid.New().String(),
		PhoneOrEmail: identifier,
		UserName:     userName,
	}
	query := `INSERT INTO users (user_id, phone_or_email, user_name) VALUES ($1, $2, $3)`
	if _, err := d.db.ExecContext(ctx, query, u.UserID, u.PhoneOrEmail, u.UserName); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return model.User{}, storage.ErrConflict
		}
		return model.User{}, err
	}
	return toUser(u), nil
}

func (d *Driver) UserNameTaken(ctx context.Context, userName string) (bool, error) {
	var n int
	query := `SELECT count(*) FROM users WHERE lower(user_name) = lower($1)`
	if err := d.db.GetContext(ctx, &n, query, userName); err != nil {
		return false, err
	}
	return n > 0, nil
}

func toUser(u userDTO) model.User {
	return model.User{
		UserID:       u.UserID,
		PhoneOrEmail: u.PhoneOrEmail,
		UserName:     u.UserName,
	}
}
