package pg

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"warden.dev/internal/store"
)

const uniqueViolation = "23505"

// Store persists account records in PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open connects to PostgreSQL using the pgx stdlib driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection pool (used by tests).
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) CreateUser(ctx context.Context, u *store.User) error {
	now := time.Now().UTC()
	email := strings.TrimSpace(strings.ToLower(u.Email))
	_, err := s.db.ExecContext(ctx, `
		insert into users(id, email, password_hash, role, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $5)
	`, u.ID, email, u.PasswordHash, u.Role, now)
	if err != nil {
		return normalizeConflict(err)
	}
	u.Email = email
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*store.User, error) {
	return s.findOne(ctx, `
		select id, email, password_hash, role, created_at, updated_at
		from users where id = $1
	`, id)
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.findOne(ctx, `
		select id, email, password_hash, role, created_at, updated_at
		from users where email = $1
	`, strings.TrimSpace(strings.ToLower(email)))
}

func (s *Store) findOne(ctx context.Context, query string, arg any) (*store.User, error) {
	var u store.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*store.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, email, password_hash, role, created_at, updated_at
		from users order by id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*store.User
	for rows.Next() {
		var u store.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd store.UserUpdate) (*store.User, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	idx := 1
	if upd.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*upd.Email))
		sets = append(sets, "email = $"+strconv.Itoa(idx))
		args = append(args, email)
		idx++
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash = $"+strconv.Itoa(idx))
		args = append(args, *upd.PasswordHash)
		idx++
	}
	if upd.Role != nil {
		sets = append(sets, "role = $"+strconv.Itoa(idx))
		args = append(args, *upd.Role)
		idx++
	}
	if len(sets) == 0 {
		return s.FindByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)

	query := "update users set " + strings.Join(sets, ", ") + " where id = $" + strconv.Itoa(idx) +
		" returning id, email, password_hash, role, created_at, updated_at"
	var u store.User
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, normalizeConflict(err)
	}
	return &u, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `delete from users where id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func normalizeConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrAlreadyExists
	}
	return err
}
