package userstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/smartlatch/smartlatch/internal/dbx"
	"github.com/smartlatch/smartlatch/internal/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresStore backs the repository with the users and user_lock_access
// tables. Queries are written with ? placeholders and rebound, so the
// tests can run the same store against SQLite.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects, runs the embedded migrations and returns the
// store.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewStoreWithDB wraps an already-open connection without migrating.
// Used by tests that prepare their own schema.
func NewStoreWithDB(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	query := s.db.Rebind(`select email, name, password_hash, profile_image from users where email = ?`)
	err := s.db.GetContext(ctx, user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrorUserNotFound
		}
		return nil, fmt.Errorf("fetching user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	query := s.db.Rebind(`select count(*) from users where email = ?`)
	if err := s.db.GetContext(ctx, &count, query, email); err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return count > 0, nil
}

func (s *PostgresStore) Create(ctx context.Context, user *model.User) error {
	query := s.db.Rebind(`insert into users (email, name, password_hash, profile_image) values (?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query, user.Email, user.Name, user.PasswordHash, user.ProfileImage)
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, email string, params UpdateParams) (*model.User, error) {
	if params.Name != nil {
		query := s.db.Rebind(`update users set name = ? where email = ?`)
		if _, err := s.db.ExecContext(ctx, query, *params.Name, email); err != nil {
			return nil, fmt.Errorf("updating name: %w", err)
		}
	}
	if params.PasswordHash != nil {
		query := s.db.Rebind(`update users set password_hash = ? where email = ?`)
		if _, err := s.db.ExecContext(ctx, query, *params.PasswordHash, email); err != nil {
			return nil, fmt.Errorf("updating password: %w", err)
		}
	}
	if params.ProfileImage != nil {
		query := s.db.Rebind(`update users set profile_image = ? where email = ?`)
		if _, err := s.db.ExecContext(ctx, query, *params.ProfileImage, email); err != nil {
			return nil, fmt.Errorf("updating profile image: %w", err)
		}
	}
	return s.FindByEmail(ctx, email)
}

func (s *PostgresStore) Delete(ctx context.Context, email string) error {
	return dbx.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`delete from user_lock_access where user_email = ?`)
		if _, err := tx.ExecContext(ctx, query, email); err != nil {
			return fmt.Errorf("deleting access records: %w", err)
		}
		query = tx.Rebind(`delete from users where email = ?`)
		res, err := tx.ExecContext(ctx, query, email)
		if err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return model.ErrorUserNotFound
		}
		return nil
	})
}

func (s *PostgresStore) RenameEmail(ctx context.Context, oldEmail, newEmail string) error {
	return dbx.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		query := tx.Rebind(`update users set email = ? where email = ?`)
		res, err := tx.ExecContext(ctx, query, newEmail, oldEmail)
		if err != nil {
			return fmt.Errorf("renaming user: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return model.ErrorUserNotFound
		}
		query = tx.Rebind(`update user_lock_access set user_email = ? where user_email = ?`)
		if _, err := tx.ExecContext(ctx, query, newEmail, oldEmail); err != nil {
			return fmt.Errorf("renaming access records: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) AddAccess(ctx context.Context, email, code string, role model.Role) error {
	query := s.db.Rebind(`delete from user_lock_access where user_email = ? and lock_code = ?`)
	if _, err := s.db.ExecContext(ctx, query, email, code); err != nil {
		return fmt.Errorf("clearing previous access: %w", err)
	}
	query = s.db.Rebind(`insert into user_lock_access (user_email, lock_code, role) values (?, ?, ?)`)
	if _, err := s.db.ExecContext(ctx, query, email, code, role); err != nil {
		return fmt.Errorf("inserting access: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAccess(ctx context.Context, email string) ([]model.Access, error) {
	access := []model.Access{}
	query := s.db.Rebind(`select user_email, lock_code, role from user_lock_access where user_email = ? order by lock_code`)
	if err := s.db.SelectContext(ctx, &access, query, email); err != nil {
		return nil, fmt.Errorf("listing access: %w", err)
	}
	return access, nil
}

func (s *PostgresStore) RemoveAccess(ctx context.Context, email, code string) error {
	query := s.db.Rebind(`delete from user_lock_access where user_email = ? and lock_code = ?`)
	res, err := s.db.ExecContext(ctx, query, email, code)
	if err != nil {
		return fmt.Errorf("deleting access: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.ErrorAccessNotFound
	}
	return nil
}

func (s *PostgresStore) RemoveAccessByCode(ctx context.Context, code string) error {
	query := s.db.Rebind(`delete from user_lock_access where lock_code = ?`)
	if _, err := s.db.ExecContext(ctx, query, code); err != nil {
		return fmt.Errorf("deleting access records: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateRole(ctx context.Context, email, code string, role model.Role) error {
	query := s.db.Rebind(`update user_lock_access set role = ? where user_email = ? and lock_code = ?`)
	res, err := s.db.ExecContext(ctx, query, role, email, code)
	if err != nil {
		return fmt.Errorf("updating role: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.ErrorAccessNotFound
	}
	return nil
}

func (s *PostgresStore) ListByCode(ctx context.Context, code string) ([]model.UserWithRole, error) {
	users := []model.UserWithRole{}
	query := s.db.Rebind(`select u.name, u.email, u.profile_image, a.role
		from users u
		join user_lock_access a on a.user_email = u.email
		where a.lock_code = ?
		order by u.email`)
	if err := s.db.SelectContext(ctx, &users, query, code); err != nil {
		return nil, fmt.Errorf("listing users by code: %w", err)
	}
	for i := range users {
		users[i].IsAdmin = users[i].Role == model.RoleAdmin
	}
	return users, nil
}

func (s *PostgresStore) HasAdminAccess(ctx context.Context, email string) (bool, error) {
	var count int
	query := s.db.Rebind(`select count(*) from user_lock_access where user_email = ? and role = ?`)
	if err := s.db.GetContext(ctx, &count, query, email, model.RoleAdmin); err != nil {
		return false, fmt.Errorf("checking admin access: %w", err)
	}
	return count > 0, nil
}
