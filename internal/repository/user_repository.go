package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/card-directory/internal/domain"
)

// UserRepository defines persistence access for users.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	SetBusiness(ctx context.Context, id string, isBusiness bool) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}

const userColumns = `id::text, name, is_business, is_admin, phone, email, password_hash, address, image, created_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.IsBusiness,
		&user.IsAdmin,
		&user.Phone,
		&user.Email,
		&user.PasswordHash,
		&user.Address,
		&user.Image,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, mapError("list users", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, mapError("scan user", err)
		}
		users = append(users, *user)
	}
	return users, mapError("list users", rows.Err())
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, uid))
	if err != nil {
		return nil, mapError("get user", err)
	}
	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email))
	if err != nil {
		return nil, mapError("get user by email", err)
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, name, is_business, is_admin, phone, email, password_hash, address, image)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at`

	if user.ID == "" {
		user.ID = NewID()
	}
	err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.IsBusiness,
		user.IsAdmin,
		user.Phone,
		user.Email,
		user.PasswordHash,
		user.Address,
		user.Image,
	).Scan(&user.CreatedAt)
	return mapError("create user", err)
}

// Update replaces the profile fields of the user. The business and admin
// flags are not touched.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	uid, err := ParseID(user.ID)
	if err != nil {
		return err
	}
	const query = `
        UPDATE users SET name=$1, phone=$2, email=$3, password_hash=$4, address=$5, image=$6
        WHERE id=$7
        RETURNING ` + userColumns

	updated, err := scanUser(r.pool.QueryRow(ctx, query,
		user.Name,
		user.Phone,
		user.Email,
		user.PasswordHash,
		user.Address,
		user.Image,
		uid,
	))
	if err != nil {
		return mapError("update user", err)
	}
	*user = *updated
	return nil
}

func (r *userRepository) SetBusiness(ctx context.Context, id string, isBusiness bool) (*domain.User, error) {
	uid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	user, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users SET is_business=$1 WHERE id=$2 RETURNING `+userColumns, isBusiness, uid))
	if err != nil {
		return nil, mapError("set business", err)
	}
	return user, nil
}

func (r *userRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	uid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	user, err := scanUser(r.pool.QueryRow(ctx, `DELETE FROM users WHERE id=$1 RETURNING `+userColumns, uid))
	if err != nil {
		return nil, mapError("delete user", err)
	}
	return user, nil
}
