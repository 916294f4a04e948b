package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

// Create inserts a new user record.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) error {
	var photoID, photoURL *string
	if user.ProfilePhoto != nil {
		photoID = &user.ProfilePhoto.StorageID
		photoURL = &user.ProfilePhoto.URL
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO users (id, name, email, password_hash, phone, photo_id, photo_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now());
`, user.ID, user.Name, user.Email, user.PasswordHash, user.Phone, photoID, photoURL)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

// GetByID fetches a user by identifier.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, email, password_hash, phone, photo_id, photo_url, created_at, updated_at
FROM users WHERE id = $1;`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by email address.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `
SELECT id, name, email, password_hash, phone, photo_id, photo_url, created_at, updated_at
FROM users WHERE email = $1;`, email)
	return scanUser(row)
}

// UpdateProfilePhoto replaces the stored profile photo reference. A nil photo
// clears it.
func (r *UserRepositoryPG) UpdateProfilePhoto(ctx context.Context, userID string, photo *domain.MediaReference) error {
	var photoID, photoURL *string
	if photo != nil {
		photoID = &photo.StorageID
		photoURL = &photo.URL
	}
	tag, err := r.pool.Exec(ctx, `
UPDATE users SET photo_id = $2, photo_url = $3, updated_at = now()
WHERE id = $1;`, userID, photoID, photoURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u                 domain.User
		photoID, photoURL *string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &photoID, &photoURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if photoID != nil && photoURL != nil {
		u.ProfilePhoto = &domain.MediaReference{StorageID: *photoID, URL: *photoURL}
	}
	return &u, nil
}
