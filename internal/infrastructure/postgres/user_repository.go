package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Produccion-api/internal/domain"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
	"github.com/jhoicas/Produccion-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, name, username, email, password_hash, role, verified, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario. Username y email son únicos sin distinguir mayúsculas.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, username, email, password_hash, role, verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Name, user.Username, user.Email, user.PasswordHash, user.Role, user.Verified,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username o email ya registrado", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, where string, arg string) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, arg).Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Verified, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

// FindByLogin busca por username o email.
func (r *UserRepo) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	return r.findOne(ctx, "lower(username) = lower($1) OR lower(email) = lower($1)", login)
}
